// Package discord runs the front desk as a Discord bot. Every (channel, author)
// pair gets its own conversation; replies go back to the channel the guest
// wrote in. A /reiniciar slash command drops the caller's conversation.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/MrWong99/paraiso/internal/session"
)

// Config holds Discord bot configuration.
type Config struct {
	// Token is the bot token without the "Bot " prefix.
	Token string

	// ChannelIDs restricts the bot to these channels. Empty serves every
	// channel the bot can read, direct messages included.
	ChannelIDs []string
}

// Bot owns the Discord gateway connection.
type Bot struct {
	ctx      context.Context
	session  *discordgo.Session
	desk     *FrontDesk
	router   *CommandRouter
	commands []*discordgo.ApplicationCommand

	mu        sync.Mutex
	closeOnce sync.Once
}

// New connects to Discord and starts answering messages with sessions from
// reg. Handlers run with ctx, so cancelling it aborts in-flight turns.
func New(ctx context.Context, cfg Config, reg *session.Registry) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("discord: create session: %w", err)
	}

	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	if err := s.Open(); err != nil {
		return nil, fmt.Errorf("discord: open session: %w", err)
	}

	b := &Bot{
		ctx:     ctx,
		session: s,
		desk: NewFrontDesk(reg, s,
			WithChannels(cfg.ChannelIDs...),
			WithSelfID(s.State.User.ID),
		),
		router: NewCommandRouter(),
	}
	b.router.RegisterCommand(resetCommand, b.desk.handleReset)

	s.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		if err := b.desk.HandleMessage(b.ctx, m.Message); err != nil {
			slog.Warn("discord: reply failed", "channel_id", m.ChannelID, "err", err)
		}
	})
	s.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		b.router.Handle(b.ctx, s, i)
	})

	slog.Info("discord bot connected", "user", s.State.User.Username, "channels", len(cfg.ChannelIDs))
	return b, nil
}

// Run registers the slash commands and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	appID := b.session.State.User.ID
	registered, err := b.session.ApplicationCommandBulkOverwrite(appID, "", b.router.ApplicationCommands())
	if err != nil {
		return fmt.Errorf("discord: register commands: %w", err)
	}
	b.mu.Lock()
	b.commands = registered
	b.mu.Unlock()
	slog.Info("discord commands registered", "count", len(registered))

	<-ctx.Done()
	return nil
}

// Close unregisters the slash commands and disconnects.
func (b *Bot) Close() error {
	var closeErr error
	b.closeOnce.Do(func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		appID := b.session.State.User.ID
		for _, cmd := range b.commands {
			if err := b.session.ApplicationCommandDelete(appID, "", cmd.ID); err != nil {
				slog.Warn("discord: failed to delete command", "name", cmd.Name, "err", err)
			}
		}
		if err := b.session.Close(); err != nil {
			closeErr = fmt.Errorf("discord: close session: %w", err)
		}
		slog.Info("discord bot closed")
	})
	return closeErr
}
