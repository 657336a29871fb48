package collector

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/loganintech/go-reddit/v2/reddit"
	"github.com/qepting91/memebot/internal/domain"
	"golang.org/x/time/rate"
)

// APIClient talks to the Reddit API through go-reddit.
type APIClient struct {
	client   *reddit.Client
	limiter  *rate.Limiter
	closed   atomic.Bool
	authMode string
}

const (
	authPassword = "password"
	authAppOnly  = "app-only"
)

// NewAPIClient opens a user session when a username is supplied. Otherwise it
// authenticates as the application with just the client id and secret.
func NewAPIClient(id, secret, user, pass, userAgent string) (*APIClient, error) {
	creds := reddit.Credentials{ID: id, Secret: secret, Username: user, Password: pass}
	opts := []reddit.Opt{reddit.WithUserAgent(userAgent)}
	mode := authPassword
	if user == "" {
		opts = append(opts, reddit.WithApplicationOnlyOAuth(true))
		mode = authAppOnly
	}

	client, err := reddit.NewClient(creds, opts...)
	if err != nil {
		return nil, fmt.Errorf("open reddit session (%s): %w", mode, err)
	}

	// OAuth limit: 100 requests / minute
	limiter := rate.NewLimiter(rate.Every(600*time.Millisecond), 1)

	return &APIClient{client: client, limiter: limiter, authMode: mode}, nil
}

func (ac *APIClient) List(ctx context.Context, sub string, sort domain.SortMethod, limit int, window domain.TimeWindow) ([]domain.PostCandidate, error) {
	if ac.closed.Load() {
		return nil, ErrClosed
	}
	if err := ac.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	opts := &reddit.ListOptions{Limit: limit}
	var (
		posts []*reddit.Post
		err   error
	)
	switch sort {
	case domain.SortHot:
		posts, _, err = ac.client.Subreddit.HotPosts(ctx, sub, opts)
	case domain.SortNew:
		posts, _, err = ac.client.Subreddit.NewPosts(ctx, sub, opts)
	case domain.SortRising:
		posts, _, err = ac.client.Subreddit.RisingPosts(ctx, sub, opts)
	case domain.SortTop:
		posts, _, err = ac.client.Subreddit.TopPosts(ctx, sub, &reddit.ListPostOptions{
			ListOptions: *opts,
			Time:        string(window),
		})
	default:
		return nil, fmt.Errorf("unsupported sort method %q", sort)
	}
	if err != nil {
		return nil, fmt.Errorf("authenticated api error: %w", err)
	}
	return candidatesFromPosts(posts), nil
}

func (ac *APIClient) Search(ctx context.Context, sub, query string, sort domain.SearchSort, limit int) ([]domain.PostCandidate, error) {
	if ac.closed.Load() {
		return nil, ErrClosed
	}
	if err := ac.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	posts, _, err := ac.client.Subreddit.SearchPosts(ctx, query, sub, &reddit.ListPostSearchOptions{
		ListPostOptions: reddit.ListPostOptions{ListOptions: reddit.ListOptions{Limit: limit}},
		Sort:            string(sort),
	})
	if err != nil {
		return nil, fmt.Errorf("authenticated api search error: %w", err)
	}
	return candidatesFromPosts(posts), nil
}

// Close ends the session; later calls fail with ErrClosed.
func (ac *APIClient) Close() error {
	ac.closed.Store(true)
	return nil
}

// go-reddit does not expose post_hint or is_gallery, so classification of
// these candidates relies on the URL alone.
func candidatesFromPosts(posts []*reddit.Post) []domain.PostCandidate {
	result := make([]domain.PostCandidate, 0, len(posts))
	for _, p := range posts {
		if p == nil {
			continue
		}
		author := p.Author
		if author == "" {
			author = domain.UnknownAuthor
		}
		result = append(result, domain.PostCandidate{
			Title:     p.Title,
			URL:       p.URL,
			Author:    author,
			Score:     p.Score,
			Permalink: p.Permalink,
			Subreddit: p.SubredditName,
		})
	}
	return result
}
