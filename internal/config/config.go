// Package config provides YAML-based host configuration loading for the
// embedded engine front-end.
package config

// Config contains everything the host front-end needs to drive an
// embedded engine session.
type Config struct {
	// Engine is the registered engine ID to run.
	Engine string `yaml:"engine"`

	// AssetPath is the asset bundle handed to the engine at initialize.
	AssetPath string `yaml:"asset_path"`

	// TickRate is how many engine steps the host drives per second.
	// The engine itself has no pacing in step mode; this is purely the
	// host's timer.
	TickRate int `yaml:"tick_rate"`

	// HoldTicks is how many ticks a terminal key press stays held
	// before the host emits the synthetic release. Terminals deliver
	// no key-up events, so the host has to invent them.
	HoldTicks int `yaml:"hold_ticks"`

	// DBPath locates the fault journal database.
	DBPath string `yaml:"db_path"`

	// LogPath receives diagnostic logging. Empty discards diagnostics
	// (the terminal is occupied by the frame display).
	LogPath string `yaml:"log_path"`

	// LogLevel is a charmbracelet/log level name: debug, info, warn,
	// error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in host configuration.
func Default() Config {
	return Config{
		Engine:    "demo",
		AssetPath: "~/.ubodoom/demo.wad",
		TickRate:  35,
		HoldTicks: 4,
		DBPath:    "~/.ubodoom/faults.db",
		LogPath:   "~/.ubodoom/ubodoom.log",
		LogLevel:  "info",
	}
}
