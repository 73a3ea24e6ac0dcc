package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evolab/dilemma/internal/config"
	"github.com/evolab/dilemma/internal/sim"
)

func newTournamentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tournament",
		Short: "Run a well-mixed replicator-dynamics tournament",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, config.ModeTournament)
			if err != nil {
				return err
			}

			runner, err := sim.NewRunner(cfg, newLogger(cfg))
			if err != nil {
				return err
			}

			scoreboard, _ := cmd.Flags().GetBool("scoreboard")
			if scoreboard {
				rows, err := runner.Scoreboard()
				if err != nil {
					return err
				}
				return printScoreboard(cmd, rows)
			}

			report, err := runner.RunTournament()
			if err != nil {
				return err
			}
			return printTournament(cmd, report)
		},
	}
	cmd.Flags().Bool("scoreboard", false, "Play a single round robin and print the ranked scoreboard instead of evolving")
	return cmd
}

func printScoreboard(cmd *cobra.Command, rows []sim.ScoreboardRow) error {
	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return json.NewEncoder(os.Stdout).Encode(rows)
	}

	fmt.Println("TOURNAMENT RESULTS")
	for i, row := range rows {
		fmt.Printf("%3d. %-20s %-4s %6d\n", i+1, row.Name, row.Temperament, row.Total)
	}
	return nil
}

func printTournament(cmd *cobra.Command, report *sim.TournamentReport) error {
	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return json.NewEncoder(os.Stdout).Encode(report)
	}

	final := report.Snapshots[len(report.Snapshots)-1]
	fmt.Printf("EVOLUTIONARY DYNAMICS — %d generations", final.Generation)
	if report.Converged {
		fmt.Print(" (converged)")
	}
	fmt.Println()

	for i, id := range report.Strategies {
		share := final.Shares[i]
		status := fmt.Sprintf("%5.1f%%", share*100)
		if share == 0 {
			status = "extinct"
		}
		fmt.Printf("  %-20s %s\n", id, status)
	}
	return nil
}
