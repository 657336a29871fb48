// Package bot connects the meme engine to Discord.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Bot owns the Discord session.
type Bot struct {
	session   *discordgo.Session
	commands  *Commands
	logger    *slog.Logger
	closeOnce sync.Once
}

// New creates a bot; commands.Sender is set to the Discord session.
func New(token string, commands *Commands, logger *slog.Logger) (*Bot, error) {
	if logger == nil {
		logger = slog.Default()
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	commands.Sender = session
	if commands.Logger == nil {
		commands.Logger = logger
	}
	return &Bot{session: session, commands: commands, logger: logger}, nil
}

// Run connects to Discord and serves commands until ctx is cancelled.
// In-flight commands are cancelled with ctx.
func (b *Bot) Run(ctx context.Context) error {
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.logger.Info("meme fetcher bot is online",
			"user", r.User.Username, "id", r.User.ID, "prefix", b.commands.Prefix)
	})
	b.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot {
			return
		}
		b.commands.Handle(ctx, m.ChannelID, m.Content)
	})

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	defer b.Close()

	<-ctx.Done()
	b.logger.Info("shutting down bot")
	return nil
}

// Close disconnects from Discord. Safe to call more than once.
func (b *Bot) Close() error {
	var err error
	b.closeOnce.Do(func() {
		err = b.session.Close()
		if err != nil {
			b.logger.Warn("error closing discord session", "err", err)
		} else {
			b.logger.Info("discord client closed")
		}
	})
	return err
}
