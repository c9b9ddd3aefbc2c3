// Package config provides the configuration schema and loader for the Hotel
// Paraíso front-desk assistant.
package config

import (
	"log/slog"

	"github.com/MrWong99/paraiso/internal/console"
	"github.com/MrWong99/paraiso/internal/correct"
	"github.com/MrWong99/paraiso/internal/dialog"
	"github.com/MrWong99/paraiso/internal/intent"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// SlogLevel maps l to the matching [slog.Level]. Unknown values map to Info.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config is the root configuration structure.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Corrector  CorrectorConfig  `yaml:"corrector"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Dialog     DialogConfig     `yaml:"dialog"`
	Console    ConsoleConfig    `yaml:"console"`
	Discord    DiscordConfig    `yaml:"discord"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// ServerConfig holds network and logging settings for serve mode.
type ServerConfig struct {
	// ListenAddr is the TCP address the HTTP server listens on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`
}

// CatalogConfig points at the intent catalog.
type CatalogConfig struct {
	// Path is a JSON or YAML file with an "intents" list.
	Path string `yaml:"path"`

	// Watch reloads the catalog when the file changes. Only conversations
	// started after a reload see the new intents.
	Watch bool `yaml:"watch"`
}

// CorrectorConfig tunes typo and slang correction.
type CorrectorConfig struct {
	// Threshold is the minimum similarity in (0, 1] for a fuzzy replacement.
	// 0.6 is permissive, 0.8 strict.
	Threshold float64 `yaml:"threshold"`

	// Scorer is "levenshtein" or "jaro-winkler".
	Scorer string `yaml:"scorer"`

	// Slang extends or overrides the built-in slang table.
	Slang map[string]string `yaml:"slang"`
}

// ClassifierConfig tunes intent resolution.
type ClassifierConfig struct {
	// PriorityTags decide between several matching intents, first wins.
	PriorityTags []string `yaml:"priority_tags"`
}

// DialogConfig tunes the conversation controller.
type DialogConfig struct {
	// MenuReservedTags never break out of the information menu.
	MenuReservedTags []string `yaml:"menu_reserved_tags"`
}

// ConsoleConfig configures the interactive console.
type ConsoleConfig struct {
	ExitKeywords []string `yaml:"exit_keywords"`
	Welcome      string   `yaml:"welcome"`
	Farewell     string   `yaml:"farewell"`
}

// DiscordConfig configures the Discord front desk. An empty Token disables
// the bot.
type DiscordConfig struct {
	Token string `yaml:"token"`

	// ChannelIDs restricts the bot to these channels. Empty serves every
	// channel the bot can read.
	ChannelIDs []string `yaml:"channel_ids"`
}

// TelemetryConfig configures OpenTelemetry resource attributes.
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name"`
}

// Default returns the built-in configuration. Fields omitted from a config
// file keep these values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr: ":8080",
			LogLevel:   LogInfo,
		},
		Catalog: CatalogConfig{
			Path: "configs/intents.json",
		},
		Corrector: CorrectorConfig{
			Threshold: correct.DefaultThreshold,
			Scorer:    correct.ScorerLevenshtein,
		},
		Classifier: ClassifierConfig{
			PriorityTags: intent.DefaultPriorityTags(),
		},
		Dialog: DialogConfig{
			MenuReservedTags: dialog.DefaultMenuReservedTags(),
		},
		Console: ConsoleConfig{
			ExitKeywords: console.DefaultExitKeywords(),
			Welcome:      console.DefaultWelcome,
			Farewell:     console.DefaultFarewell,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "paraiso",
		},
	}
}
