package memes

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/qepting91/memebot/internal/domain"
)

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Fetcher issues one paced, cache-busted query against one subreddit.
// Upstream failures are logged and reported as zero candidates; only
// context cancellation is returned as an error.
type Fetcher struct {
	collector domain.Collector
	strategy  *Strategy
	sleep     SleepFunc
	now       func() time.Time
	logger    *slog.Logger
}

// Listing fetches a subreddit listing. window is only sent for SortTop.
func (f *Fetcher) Listing(ctx context.Context, sub string, sort domain.SortMethod, window domain.TimeWindow, count int) ([]domain.PostCandidate, error) {
	if sort != domain.SortTop {
		window = ""
	}
	return f.paced(ctx, func() ([]domain.PostCandidate, error) {
		return f.collector.List(ctx, sub, sort, f.inflate(count), window)
	}, "subreddit", sub, "sort", string(sort), "time_filter", string(window))
}

// Search runs a keyword search with a cache-busting token appended.
func (f *Fetcher) Search(ctx context.Context, sub, keyword string, sort domain.SearchSort, count int) ([]domain.PostCandidate, error) {
	query := strings.TrimSpace(keyword + " " + f.CacheBuster())
	return f.paced(ctx, func() ([]domain.PostCandidate, error) {
		return f.collector.Search(ctx, sub, query, sort, f.inflate(count))
	}, "subreddit", sub, "search", string(sort), "query", query)
}

// CacheBuster returns a unix-millisecond timestamp followed by a four digit salt.
func (f *Fetcher) CacheBuster() string {
	return fmt.Sprintf("%d%d", f.now().UnixMilli(), f.strategy.Salt())
}

func (f *Fetcher) inflate(count int) int {
	return count + f.strategy.ExtraCount()
}

func (f *Fetcher) paced(ctx context.Context, call func() ([]domain.PostCandidate, error), attrs ...any) ([]domain.PostCandidate, error) {
	if err := f.sleep(ctx, f.strategy.PreDelay()); err != nil {
		return nil, err
	}

	posts, err := call()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		f.logger.Warn("fetch failed", append(attrs, "err", err)...)
		posts = nil
	}

	if err := f.sleep(ctx, f.strategy.PostDelay()); err != nil {
		return nil, err
	}
	return posts, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
