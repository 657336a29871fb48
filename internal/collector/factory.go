package collector

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/qepting91/memebot/internal/config"
	"github.com/qepting91/memebot/internal/domain"
)

// ErrClosed is returned by every collector after Close.
var ErrClosed = errors.New("collector: session closed")

// NewCollector selects the correct implementation based on the mode
func NewCollector(cfg *config.Config) (domain.Collector, error) {
	switch cfg.CollectorMode {
	case config.ModeAPI:
		if cfg.RedditClientID == "" || cfg.RedditClientSecret == "" {
			return nil, fmt.Errorf("REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET are required for api mode")
		}
		ac, err := NewAPIClient(
			cfg.RedditClientID,
			cfg.RedditClientSecret,
			cfg.RedditUsername,
			cfg.RedditPassword,
			cfg.UserAgent,
		)
		if err != nil {
			return nil, err
		}
		slog.Info("reddit api session opened", "auth", ac.authMode)
		return ac, nil
	case config.ModePublic:
		if cfg.UserAgent == "" {
			return nil, fmt.Errorf("REDDIT_USER_AGENT is required for public mode")
		}
		return NewPublicClient(cfg.UserAgent)
	case config.ModeMock:
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown COLLECTOR_MODE: %s (use 'api', 'public', or 'mock')", cfg.CollectorMode)
	}
}
