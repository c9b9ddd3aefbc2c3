package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/MrWong99/paraiso/internal/session"
)

// MaxMessageLen is Discord's limit on message content, in characters.
const MaxMessageLen = 2000

// Sender posts a message to a channel. *discordgo.Session satisfies it.
type Sender interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// FrontDesk turns channel messages into dialogue turns.
type FrontDesk struct {
	reg      *session.Registry
	sender   Sender
	channels map[string]struct{}
	selfID   string

	maxFailures int
	cooldown    time.Duration
	now         func() time.Time
}

// Option configures a [FrontDesk].
type Option func(*FrontDesk)

// WithChannels limits the desk to the given channel IDs.
func WithChannels(ids ...string) Option {
	return func(f *FrontDesk) {
		for _, id := range ids {
			if id != "" {
				f.channels[id] = struct{}{}
			}
		}
	}
}

// WithSelfID sets the bot's own user ID so its messages are never answered.
func WithSelfID(id string) Option {
	return func(f *FrontDesk) { f.selfID = id }
}

// WithSendBreaker pauses sending for cooldown after maxFailures consecutive
// send errors. Defaults: 5 failures, 30s.
func WithSendBreaker(maxFailures int, cooldown time.Duration) Option {
	return func(f *FrontDesk) {
		f.maxFailures = maxFailures
		f.cooldown = cooldown
	}
}

// WithClock sets the time source used by the send breaker.
func WithClock(now func() time.Time) Option {
	return func(f *FrontDesk) { f.now = now }
}

// NewFrontDesk creates a desk answering through sender.
func NewFrontDesk(reg *session.Registry, sender Sender, opts ...Option) *FrontDesk {
	f := &FrontDesk{
		reg:      reg,
		sender:   sender,
		channels: make(map[string]struct{}),
	}
	for _, o := range opts {
		o(f)
	}
	f.sender = guardedSender{
		Sender:  sender,
		breaker: newSendBreaker(f.maxFailures, f.cooldown, f.now),
	}
	return f
}

// Serves reports whether the desk answers in channelID.
func (f *FrontDesk) Serves(channelID string) bool {
	if len(f.channels) == 0 {
		return true
	}
	_, ok := f.channels[channelID]
	return ok
}

// HandleMessage answers m in its channel. Messages from bots, from channels
// outside the allow-list and without text are ignored.
func (f *FrontDesk) HandleMessage(ctx context.Context, m *discordgo.Message) error {
	if m == nil || m.Author == nil || m.Author.Bot || m.Author.ID == f.selfID {
		return nil
	}
	if !f.Serves(m.ChannelID) || strings.TrimSpace(m.Content) == "" {
		return nil
	}

	id, _, _ := f.reg.Acquire(ctx, sessionKey(m.ChannelID, m.Author.ID))
	lines, err := f.reg.Respond(ctx, id, m.Content)
	if err != nil {
		return fmt.Errorf("discord: respond: %w", err)
	}
	for _, chunk := range splitMessage(strings.Join(lines, "\n"), MaxMessageLen) {
		if _, err := f.sender.ChannelMessageSend(m.ChannelID, chunk); err != nil {
			return fmt.Errorf("discord: send to %s: %w", m.ChannelID, err)
		}
	}
	return nil
}

// Reset drops the conversation userID holds in channelID. It reports whether
// there was one.
func (f *FrontDesk) Reset(ctx context.Context, channelID, userID string) bool {
	return f.reg.Release(ctx, sessionKey(channelID, userID)) == nil
}

func sessionKey(channelID, userID string) string {
	return "discord:" + channelID + ":" + userID
}

// splitMessage cuts text into chunks of at most limit characters, breaking at
// newlines when possible.
func splitMessage(text string, limit int) []string {
	if text == "" {
		return nil
	}
	var (
		chunks []string
		cur    []rune
	)
	flush := func() {
		if len(cur) > 0 {
			chunks = append(chunks, string(cur))
			cur = cur[:0]
		}
	}
	for _, line := range strings.Split(text, "\n") {
		r := []rune(line)
		need := len(r)
		if len(cur) > 0 {
			need++
		}
		if len(cur)+need > limit {
			flush()
		}
		for len(r) > limit {
			chunks = append(chunks, string(r[:limit]))
			r = r[limit:]
		}
		if len(cur) > 0 {
			cur = append(cur, '\n')
		}
		cur = append(cur, r...)
	}
	flush()
	return chunks
}
