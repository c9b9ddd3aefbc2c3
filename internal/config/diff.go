package config

import (
	"maps"
	"slices"
)

// ConfigDiff describes what changed between two configs.
type ConfigDiff struct {
	LogLevelChanged bool
	NewLogLevel     LogLevel

	// EngineChanged is true when the catalog location, corrector,
	// classifier or dialog settings differ. A new dialog engine must be built;
	// it only serves conversations started afterwards.
	EngineChanged bool

	// CatalogWatchChanged is true when catalog.watch flipped.
	CatalogWatchChanged bool

	// RestartRequired lists changed settings that only take effect after a
	// restart (listener address, Discord credentials, telemetry).
	RestartRequired []string
}

// IsZero reports whether nothing changed.
func (d ConfigDiff) IsZero() bool {
	return !d.LogLevelChanged && !d.EngineChanged && !d.CatalogWatchChanged && len(d.RestartRequired) == 0
}

// Diff compares old and new configs and returns what changed.
// Console settings are ignored because the console never reloads.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}

	if old.Catalog.Path != new.Catalog.Path ||
		old.Corrector.Threshold != new.Corrector.Threshold ||
		old.Corrector.Scorer != new.Corrector.Scorer ||
		!maps.Equal(old.Corrector.Slang, new.Corrector.Slang) ||
		!slices.Equal(old.Classifier.PriorityTags, new.Classifier.PriorityTags) ||
		!slices.Equal(old.Dialog.MenuReservedTags, new.Dialog.MenuReservedTags) {
		d.EngineChanged = true
	}

	d.CatalogWatchChanged = old.Catalog.Watch != new.Catalog.Watch

	if old.Server.ListenAddr != new.Server.ListenAddr {
		d.RestartRequired = append(d.RestartRequired, "server.listen_addr")
	}
	if old.Discord.Token != new.Discord.Token {
		d.RestartRequired = append(d.RestartRequired, "discord.token")
	}
	if !slices.Equal(old.Discord.ChannelIDs, new.Discord.ChannelIDs) {
		d.RestartRequired = append(d.RestartRequired, "discord.channel_ids")
	}
	if old.Telemetry != new.Telemetry {
		d.RestartRequired = append(d.RestartRequired, "telemetry")
	}

	return d
}
