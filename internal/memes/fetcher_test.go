package memes

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qepting91/memebot/internal/domain"
)

var tokenPattern = regexp.MustCompile(`^\d{13}\d{4}$`)

func TestCacheBusterFormat(t *testing.T) {
	e := testEngine(&stubCollector{}, 1)
	first := e.fetcher.CacheBuster()
	second := e.fetcher.CacheBuster()

	assert.Regexp(t, tokenPattern, first)
	assert.NotEqual(t, first, second)
}

func TestSearchAppendsTokenAndInflatesCount(t *testing.T) {
	stub := &stubCollector{}
	e := testEngine(stub, 1)

	_, err := e.fetcher.Search(context.Background(), "memes", "cat", domain.SearchHot, 10)
	require.NoError(t, err)
	_, err = e.fetcher.Search(context.Background(), "memes", "cat", domain.SearchHot, 10)
	require.NoError(t, err)

	require.Len(t, stub.searches, 2)
	for _, call := range stub.searches {
		assert.Regexp(t, `^cat \d{17}$`, call.Query)
		assert.Equal(t, domain.SearchHot, call.Sort)
		assert.True(t, call.Limit >= 15 && call.Limit <= 30, "limit %d", call.Limit)
	}
	assert.NotEqual(t, stub.searches[0].Query, stub.searches[1].Query, "repeated searches must not share a query")
}

func TestSearchWithoutKeywordSendsTokenOnly(t *testing.T) {
	stub := &stubCollector{}
	e := testEngine(stub, 1)

	_, err := e.fetcher.Search(context.Background(), "memes", "", domain.SearchNew, 1)
	require.NoError(t, err)
	require.Len(t, stub.searches, 1)
	assert.Regexp(t, tokenPattern, stub.searches[0].Query)
}

func TestListingSendsWindowOnlyForTop(t *testing.T) {
	stub := &stubCollector{}
	e := testEngine(stub, 1)
	ctx := context.Background()

	_, err := e.fetcher.Listing(ctx, "memes", domain.SortHot, domain.WindowWeek, 5)
	require.NoError(t, err)
	_, err = e.fetcher.Listing(ctx, "memes", domain.SortTop, domain.WindowWeek, 5)
	require.NoError(t, err)

	require.Len(t, stub.lists, 2)
	assert.Equal(t, domain.TimeWindow(""), stub.lists[0].Window)
	assert.Equal(t, domain.WindowWeek, stub.lists[1].Window)
}

func TestFetcherSwallowsUpstreamErrors(t *testing.T) {
	stub := &stubCollector{
		list: func(listCall, int) ([]domain.PostCandidate, error) {
			return nil, errors.New("subreddit not found")
		},
	}
	e := testEngine(stub, 1)

	posts, err := e.fetcher.Listing(context.Background(), "nope", domain.SortNew, "", 5)
	assert.NoError(t, err)
	assert.Empty(t, posts)
}

func TestFetcherStopsOnCancel(t *testing.T) {
	stub := &stubCollector{list: freshImages}
	e := testEngine(stub, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.fetcher.Listing(ctx, "memes", domain.SortNew, "", 5)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, stub.calls(), "no upstream call after cancellation")
}
