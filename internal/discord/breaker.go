package discord

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

// ErrSendPaused is returned instead of sending while the breaker is open.
var ErrSendPaused = errors.New("discord: sending paused after repeated failures")

const (
	defaultMaxSendFailures = 5
	defaultSendCooldown    = 30 * time.Second
)

// sendBreaker stops hammering the Discord API after consecutive send
// failures. After the cooldown a single probe is let through; its outcome
// closes or re-opens the breaker.
type sendBreaker struct {
	maxFailures int
	cooldown    time.Duration
	now         func() time.Time

	mu       sync.Mutex
	failures int
	openedAt time.Time
	open     bool
	probing  bool
}

func newSendBreaker(maxFailures int, cooldown time.Duration, now func() time.Time) *sendBreaker {
	if maxFailures <= 0 {
		maxFailures = defaultMaxSendFailures
	}
	if cooldown <= 0 {
		cooldown = defaultSendCooldown
	}
	if now == nil {
		now = time.Now
	}
	return &sendBreaker{maxFailures: maxFailures, cooldown: cooldown, now: now}
}

// allow reports whether a send may go out. A true result must be followed by
// exactly one call to done.
func (b *sendBreaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.open {
		return true
	}
	if b.probing || b.now().Sub(b.openedAt) < b.cooldown {
		return false
	}
	b.probing = true
	return true
}

func (b *sendBreaker) done(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	wasProbe := b.probing
	b.probing = false

	if err == nil {
		if b.open {
			slog.Info("discord: sending resumed")
		}
		b.open = false
		b.failures = 0
		return
	}

	b.failures++
	if wasProbe || b.failures >= b.maxFailures {
		if !b.open {
			slog.Warn("discord: pausing sends", "consecutive_failures", b.failures, "cooldown", b.cooldown)
		}
		b.open = true
		b.openedAt = b.now()
	}
}

// guardedSender runs every send through a breaker.
type guardedSender struct {
	Sender
	breaker *sendBreaker
}

func (g guardedSender) ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if !g.breaker.allow() {
		return nil, ErrSendPaused
	}
	msg, err := g.Sender.ChannelMessageSend(channelID, content, options...)
	g.breaker.done(err)
	return msg, err
}
