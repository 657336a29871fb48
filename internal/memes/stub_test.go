package memes

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/qepting91/memebot/internal/domain"
)

type listCall struct {
	Sub    string
	Sort   domain.SortMethod
	Limit  int
	Window domain.TimeWindow
}

type searchCall struct {
	Sub   string
	Query string
	Sort  domain.SearchSort
	Limit int
}

// stubCollector serves canned posts and records every call.
type stubCollector struct {
	mu       sync.Mutex
	list     func(call listCall, n int) ([]domain.PostCandidate, error)
	search   func(call searchCall, n int) ([]domain.PostCandidate, error)
	lists    []listCall
	searches []searchCall
	served   []domain.PostCandidate
}

func (s *stubCollector) List(ctx context.Context, sub string, sort domain.SortMethod, limit int, window domain.TimeWindow) ([]domain.PostCandidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	call := listCall{Sub: sub, Sort: sort, Limit: limit, Window: window}
	s.lists = append(s.lists, call)
	if s.list == nil {
		return nil, nil
	}
	posts, err := s.list(call, len(s.lists))
	s.served = append(s.served, posts...)
	return posts, err
}

func (s *stubCollector) Search(ctx context.Context, sub, query string, sort domain.SearchSort, limit int) ([]domain.PostCandidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	call := searchCall{Sub: sub, Query: query, Sort: sort, Limit: limit}
	s.searches = append(s.searches, call)
	if s.search == nil {
		return nil, nil
	}
	posts, err := s.search(call, len(s.searches))
	s.served = append(s.served, posts...)
	return posts, err
}

func (s *stubCollector) Close() error { return nil }

func (s *stubCollector) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lists) + len(s.searches)
}

// freshImages returns posts that are unique per call.
func freshImages(call listCall, n int) ([]domain.PostCandidate, error) {
	posts := make([]domain.PostCandidate, 0, call.Limit)
	for i := 0; i < call.Limit; i++ {
		posts = append(posts, imagePost(call.Sub, fmt.Sprintf("%s-%d-%d", call.Sort, n, i)))
	}
	return posts, nil
}

func imagePost(sub, id string) domain.PostCandidate {
	return domain.PostCandidate{
		Title:     fmt.Sprintf("%s %s", sub, id),
		URL:       fmt.Sprintf("https://i.redd.it/%s_%s.jpg", sub, id),
		Author:    "user_" + id,
		Score:     42,
		Permalink: fmt.Sprintf("/r/%s/comments/%s/", sub, id),
		Subreddit: sub,
	}
}

func noSleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func testEngine(c domain.Collector, seed uint64, opts ...Option) *Engine {
	clock := time.UnixMilli(1700000000000)
	var mu sync.Mutex
	base := []Option{
		WithStrategy(NewStrategy(seed)),
		WithSleep(noSleep),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			clock = clock.Add(time.Millisecond)
			return clock
		}),
	}
	return NewEngine(c, append(base, opts...)...)
}
