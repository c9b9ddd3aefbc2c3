package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/MrWong99/paraiso/internal/correct"
)

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r on top of [Default] and
// validates the result. An empty document yields the defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	// Catalog
	if cfg.Catalog.Watch && cfg.Catalog.Path == "" {
		errs = append(errs, errors.New("catalog.watch requires catalog.path"))
	}

	// Corrector
	if t := cfg.Corrector.Threshold; t <= 0 || t > 1 {
		errs = append(errs, fmt.Errorf("corrector.threshold %.2f is out of range (0, 1]", t))
	}
	if _, err := correct.ScorerByName(cfg.Corrector.Scorer); err != nil {
		errs = append(errs, fmt.Errorf("corrector.scorer: %w", err))
	}
	for k := range cfg.Corrector.Slang {
		if strings.TrimSpace(k) == "" {
			errs = append(errs, errors.New("corrector.slang has an empty key"))
		} else if strings.ContainsFunc(k, unicode.IsSpace) {
			errs = append(errs, fmt.Errorf("corrector.slang key %q must be a single word", k))
		}
	}

	errs = append(errs, checkTags("classifier.priority_tags", cfg.Classifier.PriorityTags)...)
	errs = append(errs, checkTags("dialog.menu_reserved_tags", cfg.Dialog.MenuReservedTags)...)

	// Console
	for i, kw := range cfg.Console.ExitKeywords {
		if strings.TrimSpace(kw) == "" {
			errs = append(errs, fmt.Errorf("console.exit_keywords[%d] is empty", i))
		}
	}

	// Discord
	for i, id := range cfg.Discord.ChannelIDs {
		if strings.TrimSpace(id) == "" {
			errs = append(errs, fmt.Errorf("discord.channel_ids[%d] is empty", i))
		}
	}
	if cfg.Discord.Token == "" && len(cfg.Discord.ChannelIDs) > 0 {
		slog.Warn("discord.channel_ids is set but discord.token is empty; the Discord front desk stays disabled")
	}

	return errors.Join(errs...)
}

// checkTags reports empty and duplicate entries of a tag list.
func checkTags(field string, tags []string) []error {
	var errs []error
	seen := make(map[string]int, len(tags))
	for i, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			errs = append(errs, fmt.Errorf("%s[%d] is empty", field, i))
			continue
		}
		if prev, ok := seen[tag]; ok {
			errs = append(errs, fmt.Errorf("%s[%d] %q is a duplicate of %s[%d]", field, i, tag, field, prev))
			continue
		}
		seen[tag] = i
	}
	return errs
}
