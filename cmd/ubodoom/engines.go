package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ekkus93/ubo-doom/internal/engine"
)

var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "List registered engine implementations",
	Long: `Show all engine implementations compiled into this binary.

Any listed ID can be passed to 'ubodoom run --engine <id>' or set as
the engine in the host config.`,
	Run: runEngines,
}

func runEngines(cmd *cobra.Command, args []string) {
	infos := engine.List()
	if len(infos) == 0 {
		fmt.Println("No engines registered.")
		return
	}

	fmt.Println("Registered engines:")
	fmt.Println()
	for _, info := range infos {
		fmt.Printf("  %-12s %s\n", info.ID, info.Name)
	}
	fmt.Println()
	fmt.Printf("Run an engine with: ubodoom run --engine <id>\n")
}
