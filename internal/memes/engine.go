package memes

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/qepting91/memebot/internal/config"
	"github.com/qepting91/memebot/internal/domain"
)

const permalinkHost = "https://reddit.com"

// Engine is the fetch orchestrator. One Engine owns one Collector and one
// SeenSet; it is safe for concurrent use.
type Engine struct {
	fetcher    *Fetcher
	classifier *Classifier
	seen       *SeenSet
	strategy   *Strategy
	defaults   []string
	logger     *slog.Logger
}

type options struct {
	strategy   *Strategy
	classifier *Classifier
	seen       *SeenSet
	defaults   []string
	logger     *slog.Logger
	sleep      SleepFunc
	now        func() time.Time
}

type Option func(*options)

func WithStrategy(s *Strategy) Option { return func(o *options) { o.strategy = s } }

func WithClassifier(c *Classifier) Option { return func(o *options) { o.classifier = c } }

func WithSeenSet(s *SeenSet) Option { return func(o *options) { o.seen = s } }

func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithDefaultSubreddits sets the list used when a request names none.
func WithDefaultSubreddits(subs []string) Option {
	return func(o *options) { o.defaults = subs }
}

// WithSleep replaces the pacing sleep between upstream calls.
func WithSleep(fn SleepFunc) Option { return func(o *options) { o.sleep = fn } }

func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

func NewEngine(c domain.Collector, opts ...Option) *Engine {
	o := options{
		classifier: NewClassifier(config.SupportedImageFormats, config.ImageURLPatterns),
		defaults:   config.DefaultSubreddits,
		logger:     slog.Default(),
		sleep:      sleepContext,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.strategy == nil {
		o.strategy = NewRandomStrategy()
	}
	if o.seen == nil {
		o.seen = NewSeenSet()
	}
	defaults := cleanSubreddits(o.defaults)
	if len(defaults) == 0 {
		defaults = append([]string(nil), config.DefaultSubreddits...)
	}

	return &Engine{
		fetcher: &Fetcher{
			collector: c,
			strategy:  o.strategy,
			sleep:     o.sleep,
			now:       o.now,
			logger:    o.logger,
		},
		classifier: o.classifier,
		seen:       o.seen,
		strategy:   o.strategy,
		defaults:   defaults,
		logger:     o.logger,
	}
}

// FetchByKeyword searches every subreddit with four search orders, then pads
// a short result with random memes. An empty keyword searches by the
// cache-busting token alone.
func (e *Engine) FetchByKeyword(ctx context.Context, keyword string, subreddits []string, limit int) ([]domain.Meme, error) {
	keyword = strings.TrimSpace(keyword)
	subs := e.normalize(subreddits)
	if limit <= 0 {
		return []domain.Meme{}, nil
	}

	perSub := 2 * limit
	memes := make([]domain.Meme, 0, limit)
	for _, sub := range subs {
		accepted := 0
		for _, method := range domain.SearchSorts {
			if accepted >= perSub {
				break
			}
			posts, err := e.fetcher.Search(ctx, sub, keyword, method, 2*limit)
			if err != nil {
				return nil, err
			}
			for _, p := range posts {
				if accepted >= perSub {
					break
				}
				m, ok := e.accept(p, sub)
				if !ok {
					continue
				}
				m.SearchMethod = string(method)
				memes = append(memes, m)
				accepted++
			}
		}
	}
	Shuffle(e.strategy, memes)

	if len(memes) < limit {
		e.logger.Debug("keyword search short, padding with random memes",
			"keyword", keyword, "found", len(memes), "limit", limit)
		extra, err := e.FetchRandom(ctx, limit-len(memes), subs)
		if err != nil {
			return nil, err
		}
		memes = append(memes, extra...)
	}
	e.seen.MaybeReset()

	return truncate(memes, limit), nil
}

// FetchRandom walks the subreddits in random order, trying two to four sort
// methods on each, and returns a shuffled sample of the image posts found.
func (e *Engine) FetchRandom(ctx context.Context, limit int, subreddits []string) ([]domain.Meme, error) {
	subs := e.normalize(subreddits)
	if limit <= 0 {
		return []domain.Meme{}, nil
	}
	Shuffle(e.strategy, subs)

	target := 4 * limit
	memes := make([]domain.Meme, 0, target)
collect:
	for _, sub := range subs {
		for _, sort := range e.strategy.SortMethods() {
			if len(memes) >= target {
				break collect
			}
			var window domain.TimeWindow
			if sort == domain.SortTop {
				window = e.strategy.TimeWindow()
			}
			posts, err := e.fetcher.Listing(ctx, sub, sort, window, 3*limit)
			if err != nil {
				return nil, err
			}
			for _, p := range posts {
				if len(memes) >= target {
					break
				}
				m, ok := e.accept(p, sub)
				if !ok {
					continue
				}
				m.SortMethod = string(sort)
				m.TimeFilter = string(window)
				memes = append(memes, m)
			}
		}
	}

	Shuffle(e.strategy, memes)
	if e.seen.MaybeReset() {
		e.logger.Info("seen set cleared", "threshold", MaxSeen)
	}
	return truncate(memes, limit), nil
}

// Trending is FetchRandom over the default subreddits.
func (e *Engine) Trending(ctx context.Context, limit int) ([]domain.Meme, error) {
	return e.FetchRandom(ctx, limit, e.defaults)
}

// Seen exposes the engine's dedup set.
func (e *Engine) Seen() *SeenSet { return e.seen }

func (e *Engine) accept(p domain.PostCandidate, sub string) (domain.Meme, bool) {
	if !e.classifier.IsImagePost(p) {
		return domain.Meme{}, false
	}
	m := newMeme(p, sub)
	if !e.seen.Add(Fingerprint(m.Title, m.URL, m.Author)) {
		return domain.Meme{}, false
	}
	return m, true
}

// normalize returns a fresh, trimmed subreddit list, falling back to the
// defaults when nothing usable remains.
func (e *Engine) normalize(subreddits []string) []string {
	if subs := cleanSubreddits(subreddits); len(subs) > 0 {
		return subs
	}
	return append([]string(nil), e.defaults...)
}

func cleanSubreddits(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func newMeme(p domain.PostCandidate, sub string) domain.Meme {
	author := p.Author
	if author == "" {
		author = domain.UnknownAuthor
	}
	permalink := p.Permalink
	if !strings.HasPrefix(permalink, "http://") && !strings.HasPrefix(permalink, "https://") {
		permalink = permalinkHost + permalink
	}
	return domain.Meme{
		Title:     p.Title,
		URL:       p.URL,
		Author:    author,
		Subreddit: sub,
		Score:     p.Score,
		Permalink: permalink,
	}
}

func truncate(memes []domain.Meme, limit int) []domain.Meme {
	if len(memes) > limit {
		return memes[:limit]
	}
	return memes
}
