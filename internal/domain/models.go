package domain

import "context"

// SortMethod is one of the upstream listing orders.
type SortMethod string

const (
	SortHot    SortMethod = "hot"
	SortNew    SortMethod = "new"
	SortTop    SortMethod = "top"
	SortRising SortMethod = "rising"
)

// SortMethods lists every listing order in a stable order.
var SortMethods = []SortMethod{SortHot, SortNew, SortTop, SortRising}

// TimeWindow is the lookback period used with SortTop.
type TimeWindow string

const (
	WindowDay   TimeWindow = "day"
	WindowWeek  TimeWindow = "week"
	WindowMonth TimeWindow = "month"
	WindowYear  TimeWindow = "year"
	WindowAll   TimeWindow = "all"
)

var TimeWindows = []TimeWindow{WindowDay, WindowWeek, WindowMonth, WindowYear, WindowAll}

// SearchSort is the ordering requested from the search endpoint.
type SearchSort string

const (
	SearchRelevance SearchSort = "relevance"
	SearchHot       SearchSort = "hot"
	SearchNew       SearchSort = "new"
	SearchTop       SearchSort = "top"
)

// SearchSorts are the variants tried, in order, for every keyword search.
var SearchSorts = []SearchSort{SearchRelevance, SearchHot, SearchNew, SearchTop}

// UnknownAuthor is used when the upstream post has no author (deleted accounts).
const UnknownAuthor = "None"

// PostCandidate is a raw post as decoded by a Collector. Optional upstream
// attributes are resolved to their defaults at decode time.
type PostCandidate struct {
	Title     string
	URL       string
	Author    string
	Score     int
	Permalink string // path suffix, e.g. /r/memes/comments/abc/title/
	Subreddit string
	PostHint  string
	IsGallery bool
}

// Meme is a validated post ready for rendering.
type Meme struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	Author       string `json:"author"`
	Subreddit    string `json:"subreddit"`
	Score        int    `json:"score"`
	Permalink    string `json:"permalink"`
	SortMethod   string `json:"sort_method,omitempty"`
	TimeFilter   string `json:"time_filter,omitempty"`
	SearchMethod string `json:"search_method,omitempty"`
}

// Collector is the session with the content API. Implementations must be
// safe for concurrent use; Close may be called more than once.
type Collector interface {
	List(ctx context.Context, subreddit string, sort SortMethod, limit int, window TimeWindow) ([]PostCandidate, error)
	Search(ctx context.Context, subreddit, query string, sort SearchSort, limit int) ([]PostCandidate, error)
	Close() error
}
