package engine

import (
	"errors"
	"fmt"
	"math"
)

// Configuration errors, surfaced before any simulation step runs.
var (
	ErrNoStrategies   = errors.New("engine: empty strategy set")
	ErrBadRounds      = errors.New("engine: rounds per match must be positive")
	ErrBadGenerations = errors.New("engine: generation count must be positive")
	ErrBadShares      = errors.New("engine: initial shares must be non-negative and sum to a positive total")
	ErrBadDimensions  = errors.New("engine: grid dimensions must be positive")
)

// DefaultExtinctionEps is the share below which a strategy is clamped to
// zero and removed from play.
const DefaultExtinctionEps = 1e-4

// TournamentParams configures a well-mixed replicator-dynamics run.
type TournamentParams struct {
	// Strategies is the active set, in the order shares are reported.
	// Duplicate ids are rejected.
	Strategies []StrategyID

	// Shares holds the initial population shares aligned with Strategies.
	// nil means a uniform split. Shares are normalized on construction.
	Shares []float64

	// Rounds is the length of every pairwise match.
	Rounds int

	// Generations is the number of replicator updates to run.
	Generations int

	// ExtinctionEps clamps shares below it to zero before renormalization.
	// Zero selects DefaultExtinctionEps; extinction is permanent.
	ExtinctionEps float64

	// StopTol enables early stopping when every share moves by less than
	// this amount over one full generation. Zero disables early stopping.
	StopTol float64

	// Seed roots all randomness for the run.
	Seed uint64
}

// Validate reports the first configuration error, if any.
func (p TournamentParams) Validate() error {
	if len(p.Strategies) == 0 {
		return ErrNoStrategies
	}
	seen := make(map[StrategyID]bool, len(p.Strategies))
	for _, id := range p.Strategies {
		if !id.Valid() {
			return fmt.Errorf("engine: invalid strategy id %d", uint8(id))
		}
		if seen[id] {
			return fmt.Errorf("engine: duplicate strategy %s", id)
		}
		seen[id] = true
	}
	if p.Rounds <= 0 {
		return ErrBadRounds
	}
	if p.Generations <= 0 {
		return ErrBadGenerations
	}
	if p.Shares != nil {
		if len(p.Shares) != len(p.Strategies) {
			return fmt.Errorf("engine: %d shares for %d strategies", len(p.Shares), len(p.Strategies))
		}
		total := 0.0
		for _, s := range p.Shares {
			if s < 0 || math.IsNaN(s) || math.IsInf(s, 0) {
				return ErrBadShares
			}
			total += s
		}
		if total <= 0 {
			return ErrBadShares
		}
	}
	if p.ExtinctionEps < 0 || p.StopTol < 0 {
		return fmt.Errorf("engine: extinction epsilon and stop tolerance must be non-negative")
	}
	return nil
}

// PopulationSnapshot is the tournament state after one generation. Shares
// is aligned with the configured strategy order; extinct strategies hold 0.
type PopulationSnapshot struct {
	Generation int
	Shares     []float64
}

// Tournament runs replicator dynamics over a well-mixed population.
//
// Each generation, every unordered pair of distinct live strategies plays
// exactly one match; self-play happens only when a single strategy remains.
// A strategy's fitness is the mean of its per-round scores against the
// opponents it faced, weighted by their current shares. Shares then update
// by share * fitness / meanFitness, shares below the extinction epsilon are
// clamped to zero for good, and the rest renormalize to sum 1.
type Tournament struct {
	params    TournamentParams
	stream    SeedStream
	shares    []float64
	alive     []bool
	gen       int
	converged bool
	eps       float64
}

// NewTournament validates params and builds the initial population.
func NewTournament(p TournamentParams) (*Tournament, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := len(p.Strategies)
	shares := make([]float64, n)
	if p.Shares == nil {
		for i := range shares {
			shares[i] = 1.0 / float64(n)
		}
	} else {
		total := 0.0
		for _, s := range p.Shares {
			total += s
		}
		for i, s := range p.Shares {
			shares[i] = s / total
		}
	}

	eps := p.ExtinctionEps
	if eps == 0 {
		eps = DefaultExtinctionEps
	}

	t := &Tournament{
		params: p,
		stream: NewSeedStream(p.Seed),
		shares: shares,
		alive:  make([]bool, n),
		eps:    eps,
	}
	for i, s := range shares {
		t.alive[i] = s > 0
	}
	return t, nil
}

// Generation returns the number of completed replicator updates.
func (t *Tournament) Generation() int { return t.gen }

// Converged reports whether an enabled early stop has triggered.
func (t *Tournament) Converged() bool { return t.converged }

// Snapshot returns the current shares, aligned with the configured
// strategy order. The slice is a copy.
func (t *Tournament) Snapshot() PopulationSnapshot {
	shares := make([]float64, len(t.shares))
	copy(shares, t.shares)
	return PopulationSnapshot{Generation: t.gen, Shares: shares}
}

// Step advances the population by one generation and returns the new
// snapshot. Calling Step after convergence keeps returning the settled
// state without advancing.
func (t *Tournament) Step() PopulationSnapshot {
	if t.converged {
		return t.Snapshot()
	}

	fitness := t.playGeneration()

	mean := 0.0
	for i, f := range fitness {
		if t.alive[i] {
			mean += t.shares[i] * f
		}
	}

	next := make([]float64, len(t.shares))
	if mean > 0 {
		for i := range next {
			if t.alive[i] {
				next[i] = t.shares[i] * fitness[i] / mean
			}
		}
	} else {
		// Degenerate all-zero fitness; hold the population steady rather
		// than divide by zero.
		copy(next, t.shares)
	}

	// Extinction clamp, then renormalize the survivors.
	total := 0.0
	for i, s := range next {
		if s < t.eps {
			next[i] = 0
			t.alive[i] = false
		} else {
			total += s
		}
	}
	if total > 0 {
		for i := range next {
			next[i] /= total
		}
	}

	maxDelta := 0.0
	for i := range next {
		if d := math.Abs(next[i] - t.shares[i]); d > maxDelta {
			maxDelta = d
		}
	}

	t.shares = next
	t.gen++
	if t.params.StopTol > 0 && maxDelta < t.params.StopTol {
		t.converged = true
	}
	return t.Snapshot()
}

// Run executes up to the configured generation count and returns one
// snapshot per state, starting with the initial population (generation 0).
// An enabled early stop truncates the sequence at the settled generation.
func (t *Tournament) Run() []PopulationSnapshot {
	out := make([]PopulationSnapshot, 0, t.params.Generations+1)
	out = append(out, t.Snapshot())
	for t.gen < t.params.Generations && !t.converged {
		out = append(out, t.Step())
	}
	return out
}

// playGeneration plays the round robin for the current generation and
// returns each live strategy's share-weighted mean per-round score. Match
// RNGs are derived from (generation, pair) so the pairing order never
// affects the draws a given match sees.
func (t *Tournament) playGeneration() []float64 {
	n := len(t.params.Strategies)
	fitness := make([]float64, n)

	liveCount := 0
	for _, a := range t.alive {
		if a {
			liveCount++
		}
	}

	if liveCount == 1 {
		// Sole survivor: round robin degenerates to self-play.
		for i, alive := range t.alive {
			if !alive {
				continue
			}
			id := t.params.Strategies[i]
			rng := t.stream.Derive(seedDomainTournament, uint64(t.gen), uint64(id), uint64(id))
			res := PlayMatch(id, id, t.params.Rounds, rng)
			fitness[i] = res.PerRoundA()
		}
		return fitness
	}

	weighted := make([]float64, n) // sum of share_j * perRound_ij
	weightSum := make([]float64, n)

	for i := 0; i < n; i++ {
		if !t.alive[i] {
			continue
		}
		for j := i + 1; j < n; j++ {
			if !t.alive[j] {
				continue
			}
			a, b := t.params.Strategies[i], t.params.Strategies[j]
			rng := t.stream.Derive(seedDomainTournament, uint64(t.gen), uint64(a), uint64(b))
			res := PlayMatch(a, b, t.params.Rounds, rng)

			weighted[i] += t.shares[j] * res.PerRoundA()
			weightSum[i] += t.shares[j]
			weighted[j] += t.shares[i] * res.PerRoundB()
			weightSum[j] += t.shares[i]
		}
	}

	for i := range fitness {
		if t.alive[i] && weightSum[i] > 0 {
			fitness[i] = weighted[i] / weightSum[i]
		}
	}
	return fitness
}

// RoundRobin plays one match per ordered pair of ids, self-play included,
// and returns totals[i][j] = total score of ids[i] against ids[j]. It backs
// one-shot tournament scoreboards; replicator runs derive their own matches
// per generation instead.
func RoundRobin(ids []StrategyID, rounds int, seed uint64) ([][]int, error) {
	if len(ids) == 0 {
		return nil, ErrNoStrategies
	}
	if rounds <= 0 {
		return nil, ErrBadRounds
	}
	for _, id := range ids {
		if !id.Valid() {
			return nil, fmt.Errorf("engine: invalid strategy id %d", uint8(id))
		}
	}

	stream := NewSeedStream(seed)
	totals := make([][]int, len(ids))
	for i := range totals {
		totals[i] = make([]int, len(ids))
	}
	for i, a := range ids {
		for j := i; j < len(ids); j++ {
			b := ids[j]
			rng := stream.Derive(seedDomainTournament, uint64(i), uint64(j))
			res := PlayMatch(a, b, rounds, rng)
			totals[i][j] = res.ScoreA
			if i != j {
				totals[j][i] = res.ScoreB
			}
		}
	}
	return totals, nil
}
