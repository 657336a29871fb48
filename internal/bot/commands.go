package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/qepting91/memebot/internal/domain"
	"github.com/qepting91/memebot/internal/storage"
)

const (
	defaultCount = 3
	maxCount     = 10
)

// MemeSource is the fetch engine as seen by the command layer.
type MemeSource interface {
	FetchByKeyword(ctx context.Context, keyword string, subreddits []string, limit int) ([]domain.Meme, error)
	FetchRandom(ctx context.Context, limit int, subreddits []string) ([]domain.Meme, error)
	Trending(ctx context.Context, limit int) ([]domain.Meme, error)
}

// Sender is the subset of *discordgo.Session used to reply.
type Sender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelTyping(channelID string, options ...discordgo.RequestOption) error
}

// Commands parses prefixed chat messages and answers them.
type Commands struct {
	Source   MemeSource
	Sender   Sender
	Prefix   string
	MaxMemes int
	// Pause is the delay between consecutive meme messages.
	Pause   time.Duration
	History func(storage.Delivery)
	Logger  *slog.Logger
}

// Handle runs the command in content, if any, and reports whether one was found.
func (c *Commands) Handle(ctx context.Context, channelID, content string) bool {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, c.Prefix) {
		return false
	}
	name, args, _ := strings.Cut(strings.TrimPrefix(content, c.Prefix), " ")
	name = strings.ToLower(name)
	args = strings.TrimSpace(args)

	logger := c.logger().With("request_id", uuid.NewString(), "command", name, "channel_id", channelID)

	switch name {
	case "meme", "m":
		c.meme(ctx, logger, channelID, args)
	case "random", "r":
		c.random(ctx, logger, channelID, args)
	case "search", "s":
		c.search(ctx, logger, channelID, args)
	case "help", "h":
		c.send(logger, channelID, helpEmbed(c.Prefix))
	default:
		return false
	}
	return true
}

func (c *Commands) meme(ctx context.Context, logger *slog.Logger, channelID, keyword string) {
	c.typing(logger, channelID)

	var (
		memes []domain.Meme
		err   error
		title string
	)
	if keyword != "" {
		memes, err = c.Source.FetchByKeyword(ctx, keyword, nil, c.maxMemes())
		title = fmt.Sprintf("🎭 Memes for '%s'", keyword)
	} else {
		memes, err = c.Source.Trending(ctx, c.maxMemes())
		title = "🔥 Trending Memes"
	}
	if err != nil {
		c.fail(logger, channelID, "Error fetching memes", err)
		return
	}
	if len(memes) == 0 {
		c.send(logger, channelID, errorEmbed("No memes found!", "Try a different keyword or check back later."))
		return
	}
	c.deliver(ctx, logger, channelID, "meme", title, memes)
}

func (c *Commands) random(ctx context.Context, logger *slog.Logger, channelID, args string) {
	count := defaultCount
	if fields := strings.Fields(args); len(fields) > 0 {
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			c.send(logger, channelID, errorEmbed("Invalid count", fmt.Sprintf("Usage: %srandom [count]", c.Prefix)))
			return
		}
		count = n
	}
	count = clamp(count)

	c.typing(logger, channelID)
	memes, err := c.Source.FetchRandom(ctx, count, nil)
	if err != nil {
		c.fail(logger, channelID, "Error fetching random memes", err)
		return
	}
	if len(memes) == 0 {
		c.send(logger, channelID, errorEmbed("No memes found!", "Try again later."))
		return
	}
	c.deliver(ctx, logger, channelID, "random", "🎲 Random Memes", memes)
}

func (c *Commands) search(ctx context.Context, logger *slog.Logger, channelID, args string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		c.send(logger, channelID, errorEmbed("Missing keyword", fmt.Sprintf("Usage: %ssearch <keyword> [subreddit] [count]", c.Prefix)))
		return
	}
	keyword := fields[0]
	var subreddit string
	if len(fields) > 1 {
		subreddit = strings.TrimPrefix(fields[1], "r/")
	}
	count := defaultCount
	if len(fields) > 2 {
		n, err := strconv.Atoi(fields[2])
		if err != nil {
			c.send(logger, channelID, errorEmbed("Invalid count", fmt.Sprintf("Usage: %ssearch <keyword> [subreddit] [count]", c.Prefix)))
			return
		}
		count = n
	}
	count = clamp(count)

	c.typing(logger, channelID)
	var subs []string
	if subreddit != "" {
		subs = []string{subreddit}
	}
	memes, err := c.Source.FetchByKeyword(ctx, keyword, subs, count)
	if err != nil {
		c.fail(logger, channelID, "Error searching memes", err)
		return
	}
	if len(memes) == 0 {
		where := "popular subreddits"
		if subreddit != "" {
			where = "r/" + subreddit
		}
		c.send(logger, channelID, errorEmbed("No memes found!", fmt.Sprintf("No memes found for '%s' in %s", keyword, where)))
		return
	}

	title := fmt.Sprintf("🔍 Search results for '%s'", keyword)
	if subreddit != "" {
		title += " in r/" + subreddit
	}
	c.deliver(ctx, logger, channelID, "search", title, memes)
}

// deliver sends memes one message at a time.
func (c *Commands) deliver(ctx context.Context, logger *slog.Logger, channelID, command, title string, memes []domain.Meme) {
	logger.Info("delivering memes", "count", len(memes))
	for i, m := range memes {
		if i > 0 && c.Pause > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.Pause):
			}
		}
		if !c.send(logger, channelID, memeEmbed(m, title, i+1, len(memes))) {
			continue
		}
		if c.History != nil {
			c.History(storage.Delivery{Meme: m, Command: command, ChannelID: channelID, SentAt: time.Now().UTC()})
		}
	}
}

func (c *Commands) fail(logger *slog.Logger, channelID, title string, err error) {
	logger.Error("command failed", "err", err)
	c.send(logger, channelID, errorEmbed(title, "An error occurred: "+err.Error()))
}

func (c *Commands) send(logger *slog.Logger, channelID string, embed *discordgo.MessageEmbed) bool {
	if _, err := c.Sender.ChannelMessageSendEmbed(channelID, embed); err != nil {
		logger.Warn("send failed", "err", err)
		return false
	}
	return true
}

func (c *Commands) typing(logger *slog.Logger, channelID string) {
	if err := c.Sender.ChannelTyping(channelID); err != nil {
		logger.Debug("typing indicator failed", "err", err)
	}
}

func (c *Commands) maxMemes() int {
	if c.MaxMemes > 0 {
		return clamp(c.MaxMemes)
	}
	return 5
}

func (c *Commands) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func clamp(n int) int {
	return min(max(n, 1), maxCount)
}
