package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

const (
	ModeAPI    = "api"
	ModePublic = "public"
	ModeMock   = "mock"
)

// Fixed process-wide settings.
var (
	DefaultSubreddits     = []string{"memes", "dankmemes", "funny", "me_irl", "wholesomememes"}
	SupportedImageFormats = []string{".jpg", ".jpeg", ".png", ".gif"}
	ImageURLPatterns      = []string{
		// standard image extensions
		".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tiff",
		// image hosts
		"imgur.com", "i.imgur.com", "media.giphy.com", "gfycat.com",
		"reddit.com/media", "preview.redd.it", "i.redd.it",
		"/image/", "/img/", "/media/",
	}
)

type Config struct {
	DiscordToken  string
	DiscordPrefix string

	RedditClientID     string
	RedditClientSecret string
	RedditUsername     string
	RedditPassword     string
	UserAgent          string
	CollectorMode      string

	Subreddits         []string
	SubredditsFile     string
	MaxMemesPerRequest int

	HistoryFile   string
	DashboardPort string
}

// Load reads the environment. Call godotenv.Load first to pick up a .env file.
func Load() *Config {
	cfg := &Config{
		DiscordToken:       getEnv("DISCORD_TOKEN", ""),
		DiscordPrefix:      getEnv("DISCORD_PREFIX", "!"),
		RedditClientID:     getEnv("REDDIT_CLIENT_ID", ""),
		RedditClientSecret: getEnv("REDDIT_CLIENT_SECRET", ""),
		RedditUsername:     getEnv("REDDIT_USERNAME", ""),
		RedditPassword:     getEnv("REDDIT_PASSWORD", ""),
		UserAgent:          getEnv("REDDIT_USER_AGENT", "MemeFetcherBot/1.0"),
		CollectorMode:      strings.ToLower(getEnv("COLLECTOR_MODE", ModeAPI)),
		Subreddits:         append([]string(nil), DefaultSubreddits...),
		SubredditsFile:     getEnv("SUBREDDITS_FILE", ""),
		MaxMemesPerRequest: getEnvInt("MAX_MEMES_PER_REQUEST", 5),
		HistoryFile:        getEnv("HISTORY_FILE", ""),
		DashboardPort:      getEnv("DASHBOARD_PORT", ""),
	}

	slog.Debug("config loaded", "mode", cfg.CollectorMode, "prefix", cfg.DiscordPrefix, "max_memes", cfg.MaxMemesPerRequest)
	return cfg
}

// Validate checks what the bot needs before connecting to Discord.
func (c *Config) Validate() error {
	var errs []error
	if c.DiscordToken == "" {
		errs = append(errs, errors.New("DISCORD_TOKEN not found in environment variables"))
	}
	if c.CollectorMode == ModeAPI {
		if c.RedditClientID == "" {
			errs = append(errs, errors.New("REDDIT_CLIENT_ID not found in environment variables"))
		}
		if c.RedditClientSecret == "" {
			errs = append(errs, errors.New("REDDIT_CLIENT_SECRET not found in environment variables"))
		}
	}
	return errors.Join(errs...)
}

// getEnv trims the value and treats blank as unset.
func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n < 1 {
		return def
	}
	return n
}
