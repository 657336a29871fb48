package dashboard

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qepting91/memebot/internal/domain"
	"github.com/qepting91/memebot/internal/storage"
)

func TestSummarize(t *testing.T) {
	stats := Summarize([]storage.Delivery{
		{Meme: domain.Meme{Subreddit: "memes", SortMethod: "hot"}},
		{Meme: domain.Meme{Subreddit: "memes", SortMethod: "top", TimeFilter: "week"}},
		{Meme: domain.Meme{Subreddit: "funny", SearchMethod: "relevance"}},
		{Meme: domain.Meme{Subreddit: "funny"}},
	})

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, map[string]int{"memes": 2, "funny": 2}, stats.BySubreddit)
	assert.Equal(t, map[string]int{"hot": 1, "top:week": 1, "search:relevance": 1, "unknown": 1}, stats.ByMethod)
}

func TestLoadDataSkipsBadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	content := `{"title":"a","subreddit":"memes","sort_method":"new"}` + "\n" +
		"not json\n\n" +
		`{"title":"b","subreddit":"funny","search_method":"top"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got := loadData(path)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Title)
	assert.Equal(t, "top", got[1].SearchMethod)

	assert.Nil(t, loadData(filepath.Join(t.TempDir(), "missing.json")))
}

func TestHandlerRendersCharts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"title":"a","subreddit":"memes","sort_method":"hot"}`+"\n"), 0o644))

	srv := httptest.NewServer(Handler(path))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Memes by Subreddit")
	assert.Contains(t, string(body), "Fetch Strategy")
}
