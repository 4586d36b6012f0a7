// ubodoom drives an embedded DOOM-style engine as a library from a
// terminal front-end, instead of letting the engine own the process.
//
// Usage:
//
//	ubodoom run               - Run an engine session in the terminal
//	ubodoom engines           - List registered engine implementations
//	ubodoom faults            - Show recent contained engine faults
//	ubodoom serve             - Serve the front-end over SSH
//
// Global flags:
//
//	--fps <rate>     - Engine steps per second (default: config value)
//	--config <path>  - Path to host config YAML
//	--db <path>      - Path to the fault journal database
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import engines to register them
	_ "github.com/ekkus93/ubo-doom/internal/engine/demo"
)

var (
	// Global flags
	flagFPS    int
	flagConfig string
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ubodoom",
	Short: "Run a legacy real-time engine as an embedded, step-driven library",
	Long: `ubodoom embeds a DOOM-style engine that was written to own the whole
process, and drives it one simulation tic at a time from a terminal
front-end. Engine failures that would normally kill the process are
contained and shown as a recoverable fault screen.

Available commands:
  run      - Run an engine session in the terminal
  engines  - List registered engine implementations
  faults   - Show recent contained engine faults
  serve    - Serve the front-end over SSH

Examples:
  ubodoom run
  ubodoom run --engine demo --iwad ./demo.wad
  ubodoom faults --limit 20
  ubodoom serve --ssh :2222`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Engine steps per second (0 = config value)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to host config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to fault journal database (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(enginesCmd)
	rootCmd.AddCommand(faultsCmd)
	rootCmd.AddCommand(serveCmd)
}
