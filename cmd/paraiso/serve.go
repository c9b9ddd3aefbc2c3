package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrWong99/paraiso/internal/app"
	"github.com/MrWong99/paraiso/internal/config"
	"github.com/MrWong99/paraiso/internal/observe"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the websocket and Discord front desks",
		Long: `Serve the assistant over HTTP (websocket chat at /ws, plus /sessions,
/healthz, /readyz and /metrics) and, when a token is configured, on Discord.

The config file is required. Changes to it are picked up while running; the
catalog is reloaded on change when catalog.watch is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cmd.OutOrStdout(), root.configPath)
		},
	}
}

func runServe(ctx context.Context, out io.Writer, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %q not found, copy configs/example.yaml to get started", configPath)
		}
		return err
	}

	level := installLogger(cfg.Server.LogLevel)
	slog.Info("paraiso starting",
		"version", version,
		"config", configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}

	application, err := app.New(ctx, cfg, app.WithConfigPath(configPath), app.WithLevelVar(level))
	if err != nil {
		return err
	}

	printStartupSummary(out, cfg, application.Registry().Engine().Catalog().Len())
	slog.Info("server ready, press Ctrl+C to shut down")

	runErr := application.Run(ctx)
	if runErr != nil {
		slog.Error("run error", "err", runErr)
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()

	slog.Info("stopping")
	if err := application.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		slog.Warn("telemetry shutdown error", "err", err)
	}
	slog.Info("goodbye")
	return runErr
}

// ── Startup summary ───────────────────────────────────────────────────────────

func printStartupSummary(w io.Writer, cfg *config.Config, intents int) {
	discord := "(disabled)"
	if cfg.Discord.Token != "" {
		discord = "connected"
		if n := len(cfg.Discord.ChannelIDs); n > 0 {
			discord = fmt.Sprintf("%d channel(s)", n)
		}
	}
	watch := "off"
	if cfg.Catalog.Watch {
		watch = "on"
	}

	fmt.Fprintln(w, "╔═══════════════════════════════════════╗")
	fmt.Fprintln(w, "║     Hotel Paraíso startup summary     ║")
	fmt.Fprintln(w, "╠═══════════════════════════════════════╣")
	printRow(w, "Catalog", cfg.Catalog.Path)
	printRow(w, "Intents", fmt.Sprint(intents))
	printRow(w, "Hot reload", watch)
	printRow(w, "Corrector", fmt.Sprintf("%s / %.2f", cfg.Corrector.Scorer, cfg.Corrector.Threshold))
	printRow(w, "Discord", discord)
	printRow(w, "Listen addr", cfg.Server.ListenAddr)
	fmt.Fprintln(w, "╚═══════════════════════════════════════╝")
}

func printRow(w io.Writer, label, value string) {
	if value == "" {
		value = "(not configured)"
	}
	if r := []rune(value); len(r) > 19 {
		value = string(r[:18]) + "…"
	}
	fmt.Fprintf(w, "║  %-13s: %-21s ║\n", label, value)
}
