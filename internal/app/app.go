// Package app wires the front desk into a running server.
//
// The App struct owns the full lifecycle: New loads the catalog, builds the
// dialogue engine and the transports, Run serves until its context ends while
// watching the catalog and config files, and Shutdown releases what New
// acquired.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrWong99/paraiso/internal/catalog"
	"github.com/MrWong99/paraiso/internal/config"
	"github.com/MrWong99/paraiso/internal/discord"
	"github.com/MrWong99/paraiso/internal/health"
	"github.com/MrWong99/paraiso/internal/observe"
	"github.com/MrWong99/paraiso/internal/server"
	"github.com/MrWong99/paraiso/internal/session"
)

// App is the serve-mode application.
type App struct {
	configPath   string
	pollInterval time.Duration
	level        *slog.LevelVar
	metrics      *observe.Metrics
	listener     net.Listener
	reaperCfg    session.ReaperConfig

	// mu guards cfg and cat, which reloads replace.
	mu  sync.Mutex
	cfg *config.Config
	cat *catalog.Catalog

	registry *session.Registry
	health   *health.Handler
	server   *server.Server
	bot      *discord.Bot

	closers  []func() error
	stopOnce sync.Once
}

// Option is a functional option for configuring an [App].
type Option func(*App)

// WithConfigPath enables hot reload of the config file at path.
func WithConfigPath(path string) Option {
	return func(a *App) { a.configPath = path }
}

// WithConfigPollInterval sets how often the config file is checked.
func WithConfigPollInterval(d time.Duration) Option {
	return func(a *App) { a.pollInterval = d }
}

// WithLevelVar lets config reloads change the log level of the handler
// that owns lv.
func WithLevelVar(lv *slog.LevelVar) Option {
	return func(a *App) { a.level = lv }
}

// WithMetrics sets the metrics instance. Default: [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// WithListener serves on ln instead of listening on the configured address.
func WithListener(ln net.Listener) Option {
	return func(a *App) { a.listener = ln }
}

// WithReaper overrides the idle-session reaper settings.
func WithReaper(cfg session.ReaperConfig) Option {
	return func(a *App) { a.reaperCfg = cfg }
}

// New creates an App from cfg. The Discord bot connects here when a token is
// configured, so New fails fast on bad credentials.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	a := &App{cfg: cfg}
	for _, o := range opts {
		o(a)
	}
	if a.metrics == nil {
		a.metrics = observe.DefaultMetrics()
	}

	a.cat = LoadCatalog(cfg.Catalog.Path)
	engine, err := NewEngine(cfg, a.cat, a.metrics)
	if err != nil {
		return nil, fmt.Errorf("app: build engine: %w", err)
	}

	a.registry = session.NewRegistry(engine, session.WithMetrics(a.metrics))
	a.health = health.New(health.IntentsLoaded(func() int {
		return a.registry.Engine().Catalog().Len()
	}))
	a.server = server.New(server.Config{
		Addr:     cfg.Server.ListenAddr,
		Registry: a.registry,
		Health:   a.health,
		Metrics:  a.metrics,
		Welcome:  cfg.Console.Welcome,
	})

	if cfg.Discord.Token != "" {
		bot, err := discord.New(ctx, discord.Config{
			Token:      cfg.Discord.Token,
			ChannelIDs: cfg.Discord.ChannelIDs,
		}, a.registry)
		if err != nil {
			return nil, fmt.Errorf("app: init discord: %w", err)
		}
		a.bot = bot
		a.closers = append(a.closers, bot.Close)
	}

	return a, nil
}

// Registry returns the live session registry.
func (a *App) Registry() *session.Registry { return a.registry }

// Health returns the health handler.
func (a *App) Health() *health.Handler { return a.health }

// Run serves until ctx is cancelled or a component fails.
func (a *App) Run(ctx context.Context) error {
	a.mu.Lock()
	cfg := a.cfg
	a.mu.Unlock()

	var cfgWatcher *config.Watcher
	if a.configPath != "" {
		var opts []config.WatcherOption
		if a.pollInterval > 0 {
			opts = append(opts, config.WithInterval(a.pollInterval))
		}
		w, err := config.NewWatcher(a.configPath, a.onConfig, opts...)
		if err != nil {
			return fmt.Errorf("app: watch config: %w", err)
		}
		cfgWatcher = w
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if a.listener != nil {
			return a.server.Serve(gctx, a.listener)
		}
		return a.server.Run(gctx)
	})

	g.Go(func() error {
		return session.NewReaper(a.registry, a.reaperCfg).Run(gctx)
	})

	if cfg.Catalog.Watch && cfg.Catalog.Path != "" {
		w := catalog.NewWatcher(cfg.Catalog.Path, a.onCatalog)
		g.Go(func() error { return w.Run(gctx) })
	}

	if cfgWatcher != nil {
		g.Go(func() error { return cfgWatcher.Run(gctx) })
	}

	if a.bot != nil {
		g.Go(func() error { return a.bot.Run(gctx) })
	}

	return g.Wait()
}

// onCatalog swaps in a reloaded catalog.
func (a *App) onCatalog(cat *catalog.Catalog) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cat = cat
	a.rebuildLocked()
}

// onConfig applies the reloadable parts of a changed config.
func (a *App) onConfig(old, new *config.Config) {
	d := config.Diff(old, new)
	if d.IsZero() {
		return
	}

	if d.LogLevelChanged && a.level != nil {
		a.level.Set(d.NewLogLevel.SlogLevel())
		slog.Info("log level changed", "level", d.NewLogLevel)
	}
	if d.CatalogWatchChanged {
		slog.Warn("catalog.watch changes take effect after a restart")
	}
	for _, field := range d.RestartRequired {
		slog.Warn("config change requires a restart", "field", field)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	pathChanged := a.cfg.Catalog.Path != new.Catalog.Path
	a.cfg = new
	if !d.EngineChanged {
		return
	}
	if pathChanged {
		a.cat = LoadCatalog(new.Catalog.Path)
	}
	a.rebuildLocked()
}

// rebuildLocked builds a new engine from the current config and catalog for
// sessions opened from now on. On failure the current engine stays. a.mu must
// be held so the engine installed last always reflects the latest reload.
func (a *App) rebuildLocked() {
	engine, err := NewEngine(a.cfg, a.cat, a.metrics)
	if err != nil {
		slog.Error("engine rebuild failed, keeping the current one", "err", err)
		return
	}
	a.registry.SetEngine(engine)
	slog.Info("engine rebuilt", "intents", a.cat.Len(), "live_sessions", a.registry.Len())
}

// Shutdown releases what New acquired. It respects the context deadline: if
// ctx expires before all closers finish, the remaining ones are skipped and
// the context error is returned.
func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error
	a.stopOnce.Do(func() {
		for i, closer := range a.closers {
			select {
			case <-ctx.Done():
				slog.Warn("shutdown deadline exceeded", "remaining", len(a.closers)-i)
				shutdownErr = ctx.Err()
				return
			default:
			}
			if err := closer(); err != nil {
				slog.Warn("closer error", "index", i, "err", err)
			}
		}
		slog.Info("shutdown complete")
	})
	return shutdownErr
}
