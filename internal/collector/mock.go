package collector

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/qepting91/memebot/internal/domain"
)

// MockClient implements domain.Collector but returns fake data
type MockClient struct {
	latency time.Duration
	closed  atomic.Bool
}

func NewMockClient() *MockClient {
	return &MockClient{latency: 50 * time.Millisecond}
}

func (mc *MockClient) List(ctx context.Context, sub string, sort domain.SortMethod, limit int, window domain.TimeWindow) ([]domain.PostCandidate, error) {
	label := string(sort)
	if sort == domain.SortTop {
		label += "-" + string(window)
	}
	return mc.generate(ctx, sub, label, limit)
}

func (mc *MockClient) Search(ctx context.Context, sub, query string, sort domain.SearchSort, limit int) ([]domain.PostCandidate, error) {
	return mc.generate(ctx, sub, "search-"+string(sort), limit)
}

func (mc *MockClient) Close() error {
	mc.closed.Store(true)
	return nil
}

func (mc *MockClient) generate(ctx context.Context, sub, label string, limit int) ([]domain.PostCandidate, error) {
	if mc.closed.Load() {
		return nil, ErrClosed
	}
	// Simulate network latency
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(mc.latency):
	}

	posts := make([]domain.PostCandidate, 0, limit)
	for i := 0; i < limit; i++ {
		id := rand.IntN(100000)
		url := fmt.Sprintf("https://i.redd.it/mock_%s_%d.jpg", sub, id)
		// every fifth post is a text post so classification has something to reject
		if i%5 == 4 {
			url = fmt.Sprintf("https://www.reddit.com/r/%s/comments/%d/", sub, id)
		}
		posts = append(posts, domain.PostCandidate{
			Title:     fmt.Sprintf("[%s] Simulated %s meme #%d", sub, label, id),
			URL:       url,
			Author:    "simulated_user",
			Score:     rand.IntN(5000),
			Permalink: fmt.Sprintf("/r/%s/comments/%d/mock/", sub, id),
			Subreddit: sub,
		})
	}
	return posts, nil
}
