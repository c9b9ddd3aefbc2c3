package session

import (
	"context"
	"log/slog"
	"time"
)

const (
	defaultSweepInterval = time.Minute
	defaultIdleTimeout   = 30 * time.Minute
)

// ReaperConfig configures a [Reaper].
type ReaperConfig struct {
	// Interval between sweeps. Defaults to one minute if zero.
	Interval time.Duration

	// IdleTimeout is how long a session may go without a turn before it is
	// closed. Defaults to 30 minutes if zero.
	IdleTimeout time.Duration
}

// Reaper periodically closes idle sessions so long-running front ends (a
// Discord bot sees every channel member) do not accumulate conversations.
type Reaper struct {
	reg      *Registry
	interval time.Duration
	idle     time.Duration
}

// NewReaper creates a reaper for reg.
func NewReaper(reg *Registry, cfg ReaperConfig) *Reaper {
	rp := &Reaper{reg: reg, interval: cfg.Interval, idle: cfg.IdleTimeout}
	if rp.interval <= 0 {
		rp.interval = defaultSweepInterval
	}
	if rp.idle <= 0 {
		rp.idle = defaultIdleTimeout
	}
	return rp
}

// Run sweeps until ctx is cancelled.
func (rp *Reaper) Run(ctx context.Context) error {
	ticker := time.NewTicker(rp.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := rp.reg.Sweep(ctx, rp.idle); n > 0 {
				slog.Info("closed idle sessions",
					"closed", n,
					"remaining", rp.reg.Len(),
					"idle_timeout", rp.idle,
				)
			}
		}
	}
}
