package sim

import (
	"sort"

	"github.com/evolab/dilemma/engine"
)

// ScoreboardRow is one ranked entry of a one-shot round-robin tournament.
type ScoreboardRow struct {
	ID          engine.StrategyID
	Name        string
	Temperament engine.Temperament
	Total       int
}

// Scoreboard plays a single full round robin (self-play included) over the
// active set and returns rows ranked by total score, highest first. Ties
// rank in catalog order so output is stable.
func (r *Runner) Scoreboard() ([]ScoreboardRow, error) {
	totals, err := engine.RoundRobin(r.ids, r.cfg.Rounds, r.cfg.Seed)
	if err != nil {
		return nil, err
	}

	rows := make([]ScoreboardRow, len(r.ids))
	for i, id := range r.ids {
		total := 0
		for _, s := range totals[i] {
			total += s
		}
		rows[i] = ScoreboardRow{
			ID:          id,
			Name:        id.String(),
			Temperament: id.Temperament(),
			Total:       total,
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].ID < rows[j].ID
	})

	r.log.WithField("winner", rows[0].Name).Info("round robin scored")
	return rows, nil
}
