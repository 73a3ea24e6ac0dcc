package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/evolab/dilemma/engine"
	"github.com/evolab/dilemma/internal/config"
	"github.com/evolab/dilemma/internal/sim"
)

func newSpatialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spatial",
		Short: "Run a spatial toroidal-grid simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, config.ModeSpatial)
			if err != nil {
				return err
			}
			if h, _ := cmd.Flags().GetInt("height"); h != 0 {
				cfg.Spatial.Height = h
			}
			if w, _ := cmd.Flags().GetInt("width"); w != 0 {
				cfg.Spatial.Width = w
			}

			runner, err := sim.NewRunner(cfg, newLogger(cfg))
			if err != nil {
				return err
			}
			report, err := runner.RunSpatial()
			if err != nil {
				return err
			}
			return printSpatial(cmd, report)
		},
	}
	cmd.Flags().Int("height", 0, "Override grid height")
	cmd.Flags().Int("width", 0, "Override grid width")
	return cmd
}

func printSpatial(cmd *cobra.Command, report *sim.SpatialReport) error {
	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return json.NewEncoder(os.Stdout).Encode(report)
	}

	final := report.Snapshots[len(report.Snapshots)-1]
	fmt.Printf("SPATIAL DILEMMA — %dx%d grid, %d generations", report.Width, report.Height, final.Generation)
	if report.StabilizedAt >= 0 {
		fmt.Printf(" (stabilized at generation %d)", report.StabilizedAt)
	}
	fmt.Println()

	total := report.Height * report.Width
	type entry struct {
		id engine.StrategyID
		n  int
	}
	entries := make([]entry, 0, len(final.Census))
	for id, n := range final.Census {
		entries = append(entries, entry{id, n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].n != entries[j].n {
			return entries[i].n > entries[j].n
		}
		return entries[i].id < entries[j].id
	})
	for _, e := range entries {
		fmt.Printf("  %-20s %5.1f%% (%d)\n", e.id, float64(e.n)/float64(total)*100, e.n)
	}
	return nil
}
