package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrWong99/paraiso/internal/app"
	"github.com/MrWong99/paraiso/internal/correct"
	"github.com/MrWong99/paraiso/internal/dialog"
	"github.com/MrWong99/paraiso/internal/intent"
	"github.com/MrWong99/paraiso/internal/observe"
)

func newClassifyCmd(root *rootOptions) *cobra.Command {
	var catalogPath string
	cmd := &cobra.Command{
		Use:   "classify <message>",
		Short: "Show how a message is corrected and classified",
		Long: `Run one message through the corrector and the intent classifier and
print every step: the corrected text, each substitution, every matching intent
and the one that answers. Useful while writing catalog patterns.`,
		Example: `  paraiso classify "quiero reservar una abitacion"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}
			if catalogPath != "" {
				cfg.Catalog.Path = catalogPath
			}
			installLogger(cfg.Server.LogLevel)

			engine, err := app.NewEngine(cfg, app.LoadCatalog(cfg.Catalog.Path), observe.DefaultMetrics())
			if err != nil {
				return fmt.Errorf("build engine: %w", err)
			}
			return printClassification(cmd.OutOrStdout(), engine, strings.Join(args, " "))
		},
	}
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "intent catalog file (overrides catalog.path)")
	return cmd
}

func printClassification(w io.Writer, engine *dialog.Engine, text string) error {
	corrected, fixes := engine.Corrector().Correct(text)
	matched := engine.Classifier().Matches(corrected)

	var b strings.Builder
	fmt.Fprintf(&b, "input:     %s\n", text)
	fmt.Fprintf(&b, "corrected: %s\n", corrected)
	for _, f := range fixes {
		fmt.Fprintf(&b, "  %s\n", describeFix(f))
	}

	tags := make([]string, 0, len(matched))
	for _, r := range matched {
		tags = append(tags, r.Tag)
	}
	if len(tags) == 0 {
		fmt.Fprintf(&b, "matches:   (none)\n")
		fmt.Fprintf(&b, "intent:    (none)\n")
	} else {
		fmt.Fprintf(&b, "matches:   %s\n", strings.Join(tags, ", "))
		fmt.Fprintf(&b, "intent:    %s\n", intent.Resolve(matched, engine.Classifier().PriorityTags()).Tag)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func describeFix(f correct.Correction) string {
	if f.Method == correct.MethodSlang {
		return fmt.Sprintf("%s -> %s (slang)", f.Original, f.Corrected)
	}
	return fmt.Sprintf("%s -> %s (%s %.2f)", f.Original, f.Corrected, f.Method, f.Score)
}
