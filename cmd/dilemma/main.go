package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/evolab/dilemma/internal/config"
	"github.com/evolab/dilemma/internal/sim"
)

var version = "0.1.0-dev"

func main() {
	// A missing .env is fine; explicit environment always wins.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "dilemma",
		Short: "Iterated prisoner's dilemma evolutionary simulator",
		Long: `dilemma runs evolutionary simulations of the iterated prisoner's dilemma.

Strategies compete either in a well-mixed round-robin tournament with
replicator-dynamics population updates, or on a toroidal grid where each
cell imitates its best-performing Moore neighbor. Runs are fully
deterministic for a given configuration and seed.`,
	}

	rootCmd.PersistentFlags().String("config", "dilemma.yaml", "Path to YAML configuration file")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().Uint64("seed", 0, "Override the configured random seed")
	rootCmd.PersistentFlags().Int("rounds", 0, "Override rounds per match")
	rootCmd.PersistentFlags().Int("generations", 0, "Override generations to run")

	rootCmd.AddCommand(
		newVersionCmd(),
		newStrategiesCmd(),
		newTournamentCmd(),
		newSpatialCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dilemma version %s\n", version)
		},
	}
}

// loadConfig reads the configured YAML file and applies flag overrides.
// Validation happens when the runner is built, after mode-specific flags
// have been applied.
func loadConfig(cmd *cobra.Command, mode string) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	cfg.Mode = mode

	if seed, _ := cmd.Flags().GetUint64("seed"); seed != 0 {
		cfg.Seed = seed
	}
	if rounds, _ := cmd.Flags().GetInt("rounds"); rounds != 0 {
		cfg.Rounds = rounds
	}
	if gens, _ := cmd.Flags().GetInt("generations"); gens != 0 {
		cfg.Generations = gens
	}
	return cfg, nil
}

// newLogger builds the run logger from config.
func newLogger(cfg config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(sim.ParseLevel(cfg.Logging.Level))
	return log
}
