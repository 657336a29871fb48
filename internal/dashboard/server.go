package dashboard

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/qepting91/memebot/internal/storage"
)

// Stats summarises the delivery history.
type Stats struct {
	Total       int
	BySubreddit map[string]int
	ByMethod    map[string]int
}

// Handler renders the delivery history as charts.
func Handler(dataFile string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		stats := Summarize(loadData(dataFile))

		// 1. Subreddit share
		pie := charts.NewPie()
		pie.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{Title: "Memes by Subreddit", Subtitle: "delivered since history began"}),
			charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		)
		var pieItems []opts.PieData
		for _, k := range sortedKeys(stats.BySubreddit) {
			pieItems = append(pieItems, opts.PieData{Name: "r/" + k, Value: stats.BySubreddit[k]})
		}
		pie.AddSeries("Memes", pieItems)

		// 2. Strategy usage
		bar := charts.NewBar()
		bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Fetch Strategy"}))
		var barX []string
		var barY []opts.BarData
		for _, k := range sortedKeys(stats.ByMethod) {
			barX = append(barX, k)
			barY = append(barY, opts.BarData{Value: stats.ByMethod[k]})
		}
		bar.SetXAxis(barX).AddSeries("Deliveries", barY)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		pie.Render(w)
		bar.Render(w)
	})
	return mux
}

// StartServer serves the dashboard until ctx is cancelled.
func StartServer(ctx context.Context, dataFile string, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           Handler(dataFile),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Summarize counts deliveries per subreddit and per fetch strategy.
func Summarize(deliveries []storage.Delivery) Stats {
	s := Stats{BySubreddit: map[string]int{}, ByMethod: map[string]int{}}
	for _, d := range deliveries {
		s.Total++
		s.BySubreddit[d.Subreddit]++
		s.ByMethod[methodLabel(d)]++
	}
	return s
}

func methodLabel(d storage.Delivery) string {
	switch {
	case d.SearchMethod != "":
		return "search:" + d.SearchMethod
	case d.SortMethod == "top" && d.TimeFilter != "":
		return "top:" + d.TimeFilter
	case d.SortMethod != "":
		return d.SortMethod
	default:
		return "unknown"
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func loadData(path string) []storage.Delivery {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var out []storage.Delivery
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var d storage.Delivery
		if err := json.Unmarshal([]byte(line), &d); err == nil {
			out = append(out, d)
		}
	}
	return out
}
