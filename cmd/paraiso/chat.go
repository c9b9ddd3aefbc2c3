package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/MrWong99/paraiso/internal/app"
	"github.com/MrWong99/paraiso/internal/console"
	"github.com/MrWong99/paraiso/internal/observe"
)

func newChatCmd(root *rootOptions) *cobra.Command {
	var catalogPath string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant in the terminal",
		Long: `Start an interactive conversation on stdin/stdout.

The conversation ends on an exit keyword such as "salir" or "adiós", or at
end of input. Without a config file the built-in defaults are used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}
			if catalogPath != "" {
				cfg.Catalog.Path = catalogPath
			}
			installLogger(cfg.Server.LogLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			engine, err := app.NewEngine(cfg, app.LoadCatalog(cfg.Catalog.Path), observe.DefaultMetrics())
			if err != nil {
				return fmt.Errorf("build engine: %w", err)
			}

			c := console.New(cmd.InOrStdin(), cmd.OutOrStdout(),
				console.WithExitKeywords(cfg.Console.ExitKeywords...),
				console.WithWelcome(cfg.Console.Welcome),
				console.WithFarewell(cfg.Console.Farewell),
			)
			return c.Run(ctx, engine.NewSession())
		},
	}
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "intent catalog file (overrides catalog.path)")
	return cmd
}
