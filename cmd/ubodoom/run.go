package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ekkus93/ubo-doom/internal/config"
	"github.com/ekkus93/ubo-doom/internal/engine"
	"github.com/ekkus93/ubo-doom/internal/platform/tui"
	"github.com/ekkus93/ubo-doom/internal/session"
	"github.com/ekkus93/ubo-doom/internal/storage"
)

var (
	flagEngine string
	flagIWAD   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an engine session in the terminal",
	Long: `Start the configured engine and drive it one tic per host tick,
rendering its frame buffer into the terminal.

Controls:
  Arrows/WASD  - Move
  F            - Fire
  Space/E      - Use
  Esc          - Engine menu
  R            - Reset and retry (after a fault)
  Q/Ctrl+C     - Quit

A fault inside the engine never kills this process: the session is
contained, recorded to the fault journal, and offered for reset.

Examples:
  ubodoom run
  ubodoom run --engine demo
  ubodoom run --iwad ./bundle.wad --fps 35`,
	Run: runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagEngine, "engine", "", "Registered engine ID (overrides config)")
	runCmd.Flags().StringVar(&flagIWAD, "iwad", "", "Asset bundle path (overrides config)")
}

func runRun(cmd *cobra.Command, args []string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: 'ubodoom run' needs an interactive terminal")
		os.Exit(1)
	}

	cfg := loadHostConfig()
	if flagEngine != "" {
		cfg.Engine = flagEngine
	}
	if flagIWAD != "" {
		cfg.AssetPath = flagIWAD
	}

	if !engine.Exists(cfg.Engine) {
		fmt.Fprintf(os.Stderr, "Error: unknown engine %q\n", cfg.Engine)
		fmt.Fprintln(os.Stderr, "Run 'ubodoom engines' to see registered engines.")
		os.Exit(1)
	}

	// The demo engine only needs a non-empty bundle; create a
	// placeholder on first run so `ubodoom run` works out of the box.
	if cfg.Engine == "demo" {
		ensureDemoBundle(config.ExpandHome(cfg.AssetPath))
	}

	logger := newLogger(cfg)

	eng, err := engine.Create(cfg.Engine)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := session.Options{Logger: logger}
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open fault journal", "error", err)
	} else {
		opts.Journal = store
		defer store.Close()
	}

	ctl := session.New(eng, opts)

	if err := tui.Run(ctl, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadHostConfig loads the YAML config and applies global flag
// overrides.
func loadHostConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flagFPS > 0 {
		cfg.TickRate = flagFPS
	}
	if flagDBPath != "" {
		cfg.DBPath = flagDBPath
	}
	return cfg
}

// newLogger builds the diagnostic logger. The terminal itself is
// occupied by the frame display, so diagnostics go to a file.
func newLogger(cfg config.Config) *log.Logger {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}

	if cfg.LogPath == "" {
		logger := log.New(os.Stderr)
		logger.SetLevel(level)
		return logger
	}

	path := config.ExpandHome(cfg.LogPath)
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(filepath.Dir(path), 0o755)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		logger := log.New(os.Stderr)
		logger.SetLevel(level)
		return logger
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "ubodoom",
	})
	logger.SetLevel(level)
	return logger
}

// ensureDemoBundle writes a placeholder asset bundle if none exists.
func ensureDemoBundle(path string) {
	if _, err := os.Stat(path); err == nil {
		return
	}
	//nolint:errcheck // Best-effort; the engine reports a missing bundle
	os.MkdirAll(filepath.Dir(path), 0o755)
	//nolint:errcheck
	os.WriteFile(path, []byte("IWAD"), 0o644)
}
