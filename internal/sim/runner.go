// Package sim orchestrates simulation runs: it builds engine controllers
// from validated configuration, collects per-generation snapshots, and
// emits structured progress logs. The engine stays log-free; everything
// observable about a run happens here.
package sim

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/evolab/dilemma/engine"
	"github.com/evolab/dilemma/internal/config"
)

// Runner executes simulation runs for one validated configuration.
type Runner struct {
	cfg   config.Config
	ids   []engine.StrategyID
	log   *logrus.Entry
	runID uuid.UUID
}

// NewRunner validates cfg and prepares a runner. Each runner carries a
// fresh run id for log correlation.
func NewRunner(cfg config.Config, log *logrus.Logger) (*Runner, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ids, err := cfg.StrategyIDs()
	if err != nil {
		return nil, err
	}

	runID := uuid.New()
	return &Runner{
		cfg:   cfg,
		ids:   ids,
		runID: runID,
		log: log.WithFields(logrus.Fields{
			"run_id": runID,
			"mode":   cfg.Mode,
			"seed":   cfg.Seed,
		}),
	}, nil
}

// RunID returns the identifier correlating this runner's reports and logs.
func (r *Runner) RunID() uuid.UUID { return r.runID }

// Strategies returns the resolved active set in run order.
func (r *Runner) Strategies() []engine.StrategyID {
	out := make([]engine.StrategyID, len(r.ids))
	copy(out, r.ids)
	return out
}

// TournamentReport is the outcome of a tournament-mode run.
type TournamentReport struct {
	RunID      uuid.UUID
	Strategies []engine.StrategyID
	Snapshots  []engine.PopulationSnapshot
	Converged  bool

	// Survivors and Extinct partition the active set by final share.
	Survivors []engine.StrategyID
	Extinct   []engine.StrategyID
}

// RunTournament executes a tournament-mode run and returns its report.
func (r *Runner) RunTournament() (*TournamentReport, error) {
	if r.cfg.Mode != config.ModeTournament {
		return nil, fmt.Errorf("sim: RunTournament called in %s mode", r.cfg.Mode)
	}

	tour, err := engine.NewTournament(engine.TournamentParams{
		Strategies:    r.ids,
		Shares:        r.cfg.InitialShares(r.ids),
		Rounds:        r.cfg.Rounds,
		Generations:   r.cfg.Generations,
		ExtinctionEps: r.cfg.Tournament.ExtinctionEpsilon,
		StopTol:       r.cfg.Tournament.StopTolerance,
		Seed:          r.cfg.Seed,
	})
	if err != nil {
		return nil, err
	}

	r.log.WithFields(logrus.Fields{
		"strategies":  len(r.ids),
		"rounds":      r.cfg.Rounds,
		"generations": r.cfg.Generations,
	}).Info("starting tournament run")

	snaps := make([]engine.PopulationSnapshot, 0, r.cfg.Generations+1)
	snaps = append(snaps, tour.Snapshot())
	alive := countAlive(snaps[0].Shares)

	for tour.Generation() < r.cfg.Generations && !tour.Converged() {
		snap := tour.Step()
		snaps = append(snaps, snap)

		if now := countAlive(snap.Shares); now != alive {
			r.log.WithFields(logrus.Fields{
				"generation": snap.Generation,
				"alive":      now,
			}).Info("strategies went extinct")
			alive = now
		}
	}

	report := &TournamentReport{
		RunID:      r.runID,
		Strategies: r.Strategies(),
		Snapshots:  snaps,
		Converged:  tour.Converged(),
	}
	final := snaps[len(snaps)-1]
	for i, id := range r.ids {
		if final.Shares[i] > 0 {
			report.Survivors = append(report.Survivors, id)
		} else {
			report.Extinct = append(report.Extinct, id)
		}
	}

	r.log.WithFields(logrus.Fields{
		"generations": final.Generation,
		"converged":   report.Converged,
		"survivors":   len(report.Survivors),
	}).Info("tournament run finished")
	return report, nil
}

// GridSnapshot is the spatial state after one generation.
type GridSnapshot struct {
	Generation int
	Cells      [][]engine.StrategyID
	Census     map[engine.StrategyID]int
}

// SpatialReport is the outcome of a spatial-mode run.
type SpatialReport struct {
	RunID      uuid.UUID
	Strategies []engine.StrategyID
	Height     int
	Width      int
	Snapshots  []GridSnapshot

	// StabilizedAt is the first generation after which no cell changed,
	// or -1 if the run never settled. Informational only.
	StabilizedAt int
}

// RunSpatial executes a spatial-mode run and returns its report.
func (r *Runner) RunSpatial() (*SpatialReport, error) {
	if r.cfg.Mode != config.ModeSpatial {
		return nil, fmt.Errorf("sim: RunSpatial called in %s mode", r.cfg.Mode)
	}

	grid, err := engine.NewGrid(engine.GridParams{
		Height:     r.cfg.Spatial.Height,
		Width:      r.cfg.Spatial.Width,
		Strategies: r.ids,
		Rounds:     r.cfg.Rounds,
		Seed:       r.cfg.Seed,
	})
	if err != nil {
		return nil, err
	}

	r.log.WithFields(logrus.Fields{
		"height":      r.cfg.Spatial.Height,
		"width":       r.cfg.Spatial.Width,
		"strategies":  len(r.ids),
		"rounds":      r.cfg.Rounds,
		"generations": r.cfg.Generations,
	}).Info("starting spatial run")

	report := &SpatialReport{
		RunID:        r.runID,
		Strategies:   r.Strategies(),
		Height:       grid.Height(),
		Width:        grid.Width(),
		StabilizedAt: -1,
	}
	report.Snapshots = append(report.Snapshots, snapshotGrid(grid))

	for gen := 0; gen < r.cfg.Generations; gen++ {
		grid.Step()
		report.Snapshots = append(report.Snapshots, snapshotGrid(grid))

		if grid.Stable() && report.StabilizedAt < 0 {
			report.StabilizedAt = grid.Generation()
			r.log.WithField("generation", grid.Generation()).Info("grid stabilized")
		}
	}

	r.log.WithFields(logrus.Fields{
		"generations": grid.Generation(),
		"alive":       len(report.Snapshots[len(report.Snapshots)-1].Census),
	}).Info("spatial run finished")
	return report, nil
}

func snapshotGrid(g *engine.Grid) GridSnapshot {
	return GridSnapshot{
		Generation: g.Generation(),
		Cells:      g.Snapshot(),
		Census:     g.Census(),
	}
}

func countAlive(shares []float64) int {
	n := 0
	for _, s := range shares {
		if s > 0 {
			n++
		}
	}
	return n
}

// ParseLevel maps a config logging level to a logrus level, defaulting to
// info on unknown input.
func ParseLevel(level string) logrus.Level {
	l, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return l
}
