package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/qepting91/memebot/internal/domain"
	"golang.org/x/time/rate"
)

const publicBaseURL = "https://www.reddit.com"

type PublicClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	baseURL    string
	closed     atomic.Bool
}

// PublicOption configures a PublicClient.
type PublicOption func(*PublicClient)

// WithBaseURL points the client at another host (used by tests).
func WithBaseURL(u string) PublicOption {
	return func(pc *PublicClient) { pc.baseURL = u }
}

// WithLimiter replaces the default request limiter.
func WithLimiter(l *rate.Limiter) PublicOption {
	return func(pc *PublicClient) { pc.limiter = l }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) PublicOption {
	return func(pc *PublicClient) { pc.httpClient = c }
}

type redditJSONResponse struct {
	Data struct {
		Children []struct {
			Data struct {
				Title     string  `json:"title"`
				URL       *string `json:"url"`
				Author    *string `json:"author"`
				Score     int     `json:"score"`
				Permalink string  `json:"permalink"`
				Subreddit string  `json:"subreddit"`
				PostHint  string  `json:"post_hint"`
				IsGallery bool    `json:"is_gallery"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func NewPublicClient(userAgent string, opts ...PublicOption) (*PublicClient, error) {
	pc := &PublicClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		// Public JSON Limit: 1 req / 2 seconds (Stricter)
		limiter:   rate.NewLimiter(rate.Every(2*time.Second), 1),
		userAgent: userAgent,
		baseURL:   publicBaseURL,
	}
	for _, opt := range opts {
		opt(pc)
	}
	return pc, nil
}

func (pc *PublicClient) List(ctx context.Context, sub string, sort domain.SortMethod, limit int, window domain.TimeWindow) ([]domain.PostCandidate, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("raw_json", "1")
	if sort == domain.SortTop && window != "" {
		q.Set("t", string(window))
	}
	endpoint := fmt.Sprintf("%s/r/%s/%s.json?%s", pc.baseURL, url.PathEscape(sub), sort, q.Encode())
	return pc.get(ctx, endpoint)
}

func (pc *PublicClient) Search(ctx context.Context, sub, query string, sort domain.SearchSort, limit int) ([]domain.PostCandidate, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("restrict_sr", "1")
	q.Set("sort", string(sort))
	q.Set("limit", strconv.Itoa(limit))
	q.Set("raw_json", "1")
	endpoint := fmt.Sprintf("%s/r/%s/search.json?%s", pc.baseURL, url.PathEscape(sub), q.Encode())
	return pc.get(ctx, endpoint)
}

// Close ends the session; later calls fail with ErrClosed.
func (pc *PublicClient) Close() error {
	if pc.closed.CompareAndSwap(false, true) {
		pc.httpClient.CloseIdleConnections()
	}
	return nil
}

func (pc *PublicClient) get(ctx context.Context, endpoint string) ([]domain.PostCandidate, error) {
	if pc.closed.Load() {
		return nil, ErrClosed
	}
	if err := pc.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", pc.userAgent)

	resp, err := pc.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit public access status: %d", resp.StatusCode)
	}

	var rResp redditJSONResponse
	if err := json.NewDecoder(resp.Body).Decode(&rResp); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	posts := make([]domain.PostCandidate, 0, len(rResp.Data.Children))
	for _, child := range rResp.Data.Children {
		d := child.Data
		p := domain.PostCandidate{
			Title:     d.Title,
			Author:    domain.UnknownAuthor,
			Score:     d.Score,
			Permalink: d.Permalink,
			Subreddit: d.Subreddit,
			PostHint:  d.PostHint,
			IsGallery: d.IsGallery,
		}
		if d.URL != nil {
			p.URL = *d.URL
		}
		if d.Author != nil && *d.Author != "" {
			p.Author = *d.Author
		}
		posts = append(posts, p)
	}
	return posts, nil
}
