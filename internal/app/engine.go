package app

import (
	"errors"
	"log/slog"

	"github.com/MrWong99/paraiso/internal/catalog"
	"github.com/MrWong99/paraiso/internal/config"
	"github.com/MrWong99/paraiso/internal/correct"
	"github.com/MrWong99/paraiso/internal/dialog"
	"github.com/MrWong99/paraiso/internal/observe"
)

// LoadCatalog loads the catalog at path. A missing or partly invalid catalog
// is logged, never fatal: the engine then answers what it can.
func LoadCatalog(path string) *catalog.Catalog {
	if path == "" {
		slog.Warn("no catalog configured, every message will go unanswered")
		return catalog.New()
	}

	cat, err := catalog.Load(path)
	switch {
	case errors.Is(err, catalog.ErrNoCatalog):
		slog.Warn("catalog not found, starting with no intents", "path", path)
	case err != nil:
		slog.Warn("catalog loaded with errors", "path", path, "intents", cat.Len(), "err", err)
	default:
		slog.Info("catalog loaded", "path", path, "intents", cat.Len())
	}
	return cat
}

// NewEngine builds a dialogue engine over cat tuned by cfg.
func NewEngine(cfg *config.Config, cat *catalog.Catalog, m *observe.Metrics) (*dialog.Engine, error) {
	scorer, err := correct.ScorerByName(cfg.Corrector.Scorer)
	if err != nil {
		return nil, err
	}
	return dialog.NewEngine(cat,
		dialog.WithMetrics(m),
		dialog.WithCorrectorOptions(
			correct.WithThreshold(cfg.Corrector.Threshold),
			correct.WithScorer(scorer),
			correct.WithSlang(cfg.Corrector.Slang),
		),
		dialog.WithPriorityTags(cfg.Classifier.PriorityTags...),
		dialog.WithMenuReservedTags(cfg.Dialog.MenuReservedTags...),
	), nil
}
