package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ekkus93/ubo-doom/internal/storage"
)

var (
	flagFaultLimit int
	flagFaultStack bool
)

var faultsCmd = &cobra.Command{
	Use:   "faults",
	Short: "Show recent contained engine faults",
	Long: `List the most recent engine traps recorded in the fault journal.

Each entry shows when the trap fired, during which lifecycle phase
(initialize or step), which channel it came through (hardware trap or
the engine's internal fatal-error path), and the diagnostic detail.

Examples:
  ubodoom faults
  ubodoom faults --limit 50
  ubodoom faults --stacks`,
	Run: runFaults,
}

func init() {
	faultsCmd.Flags().IntVar(&flagFaultLimit, "limit", 10, "Maximum entries to show")
	faultsCmd.Flags().BoolVar(&flagFaultStack, "stacks", false, "Include backtrace excerpts")
}

func runFaults(cmd *cobra.Command, args []string) {
	cfg := loadHostConfig()

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	entries, err := store.RecentFaults(flagFaultLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(entries) == 0 {
		fmt.Println("No faults recorded. The engine has been behaving.")
		return
	}

	fmt.Printf("Last %d contained faults (newest first):\n\n", len(entries))
	for _, e := range entries {
		fmt.Printf("  #%-5d %s  %-10s %-9s %s\n",
			e.ID,
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.Phase,
			e.Kind,
			e.Detail,
		)
		if flagFaultStack && e.Stack != "" {
			lines := strings.SplitN(e.Stack, "\n", 9)
			if len(lines) > 8 {
				lines = lines[:8]
			}
			for _, l := range lines {
				fmt.Printf("         | %s\n", l)
			}
			fmt.Println()
		}
	}
}
