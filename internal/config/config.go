// Package config loads and validates simulation run configuration.
// It supports loading from YAML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/evolab/dilemma/engine"
)

// Run modes.
const (
	ModeTournament = "tournament"
	ModeSpatial    = "spatial"
)

// Config contains all settings for one simulation run.
type Config struct {
	// Mode selects the interaction topology: "tournament" or "spatial".
	Mode string `yaml:"mode"`

	// Seed roots all randomness for the run. The same config and seed
	// reproduce a run exactly.
	Seed uint64 `yaml:"seed"`

	// Rounds is the length of every iterated match.
	Rounds int `yaml:"rounds"`

	// Generations is the number of population updates to run.
	Generations int `yaml:"generations"`

	// Strategies names the active set by display name. Empty means the
	// full catalog.
	Strategies []string `yaml:"strategies,omitempty"`

	// Tournament holds tournament-mode settings.
	Tournament TournamentConfig `yaml:"tournament"`

	// Spatial holds spatial-mode settings.
	Spatial SpatialConfig `yaml:"spatial"`

	// Logging configures run logging.
	Logging LoggingConfig `yaml:"logging"`
}

// TournamentConfig configures the well-mixed replicator mode.
type TournamentConfig struct {
	// Shares maps strategy names to initial population shares. Empty
	// means a uniform split over the active set. Shares are normalized;
	// any active strategy missing from a non-empty map starts at zero.
	Shares map[string]float64 `yaml:"shares,omitempty"`

	// ExtinctionEpsilon clamps shares below it to zero, permanently.
	// Zero selects the engine default.
	ExtinctionEpsilon float64 `yaml:"extinction_epsilon"`

	// StopTolerance, when positive, stops a run early once every share
	// moves less than this across a full generation.
	StopTolerance float64 `yaml:"stop_tolerance"`
}

// SpatialConfig configures the toroidal-grid mode.
type SpatialConfig struct {
	Height int `yaml:"height"`
	Width  int `yaml:"width"`
}

// LoggingConfig configures run logging.
type LoggingConfig struct {
	// Level sets log verbosity: "debug", "info" (default), "warn" or
	// "error".
	Level string `yaml:"level"`
}

// Default returns the baseline configuration: a full-catalog tournament
// with the original's match length and generation count.
func Default() Config {
	return Config{
		Mode:        ModeTournament,
		Seed:        1,
		Rounds:      200,
		Generations: 50,
		Tournament: TournamentConfig{
			ExtinctionEpsilon: engine.DefaultExtinctionEps,
		},
		Spatial: SpatialConfig{
			Height: 20,
			Width:  40,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads configuration from path, falling back to defaults when the
// file does not exist, then applies environment overrides. A present but
// malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults plus env only.
	case err != nil:
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays DILEMMA_* environment variables onto the config.
// Unparseable values are ignored rather than fatal; Validate catches any
// resulting inconsistency.
func (c *Config) applyEnv() {
	if v := os.Getenv("DILEMMA_MODE"); v != "" {
		c.Mode = v
	}
	if v := os.Getenv("DILEMMA_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Seed = n
		}
	}
	if v := os.Getenv("DILEMMA_ROUNDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Rounds = n
		}
	}
	if v := os.Getenv("DILEMMA_GENERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Generations = n
		}
	}
	if v := os.Getenv("DILEMMA_STRATEGIES"); v != "" {
		names := strings.Split(v, ",")
		c.Strategies = c.Strategies[:0]
		for _, name := range names {
			if name = strings.TrimSpace(name); name != "" {
				c.Strategies = append(c.Strategies, name)
			}
		}
	}
	if v := os.Getenv("DILEMMA_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the configuration and reports the first problem found.
// It fails fast before any simulation state is built.
func (c Config) Validate() error {
	if c.Mode != ModeTournament && c.Mode != ModeSpatial {
		return fmt.Errorf("config: unknown mode %q", c.Mode)
	}
	if c.Rounds <= 0 {
		return fmt.Errorf("config: rounds must be positive, got %d", c.Rounds)
	}
	if c.Generations <= 0 {
		return fmt.Errorf("config: generations must be positive, got %d", c.Generations)
	}
	if _, err := c.StrategyIDs(); err != nil {
		return err
	}
	if c.Mode == ModeSpatial && (c.Spatial.Height <= 0 || c.Spatial.Width <= 0) {
		return fmt.Errorf("config: grid dimensions must be positive, got %dx%d", c.Spatial.Height, c.Spatial.Width)
	}
	if c.Tournament.ExtinctionEpsilon < 0 {
		return fmt.Errorf("config: extinction epsilon must be non-negative")
	}
	if c.Tournament.StopTolerance < 0 {
		return fmt.Errorf("config: stop tolerance must be non-negative")
	}
	for name := range c.Tournament.Shares {
		if _, err := engine.ParseStrategy(name); err != nil {
			return fmt.Errorf("config: shares: %w", err)
		}
	}
	return nil
}

// StrategyIDs resolves the configured strategy names to catalog ids, in
// catalog order for an empty list or configured order otherwise.
func (c Config) StrategyIDs() ([]engine.StrategyID, error) {
	if len(c.Strategies) == 0 {
		infos := engine.List()
		ids := make([]engine.StrategyID, len(infos))
		for i, info := range infos {
			ids[i] = info.ID
		}
		return ids, nil
	}

	ids := make([]engine.StrategyID, 0, len(c.Strategies))
	seen := make(map[engine.StrategyID]bool, len(c.Strategies))
	for _, name := range c.Strategies {
		id, err := engine.ParseStrategy(name)
		if err != nil {
			return nil, fmt.Errorf("config: strategies: %w", err)
		}
		if seen[id] {
			return nil, fmt.Errorf("config: strategies: duplicate %q", name)
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// InitialShares builds the share vector aligned with ids from the
// configured share map, or nil for a uniform split.
func (c Config) InitialShares(ids []engine.StrategyID) []float64 {
	if len(c.Tournament.Shares) == 0 {
		return nil
	}
	shares := make([]float64, len(ids))
	for i, id := range ids {
		shares[i] = c.Tournament.Shares[id.String()]
	}
	return shares
}
