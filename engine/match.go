// Package engine implements an iterated prisoner's dilemma simulation core.
//
// The package is deliberately dependency-free and fully deterministic: given
// the same configuration and seed, a run produces bit-identical snapshot
// sequences. It provides the strategy catalog, the per-match game loop, a
// well-mixed replicator-dynamics tournament, and a spatial toroidal-grid
// imitation model. Rendering, persistence and scheduling live outside this
// package.
package engine

import "fmt"

// Standard payoff values (Axelrod's): T > R > P > S and 2R > T + S.
const (
	PayoffReward     = 3 // both cooperate
	PayoffSucker     = 0 // cooperate against a defector
	PayoffTemptation = 5 // defect against a cooperator
	PayoffPunishment = 1 // both defect
)

// Payoff returns the per-round payoffs for each side given both moves.
func Payoff(a, b Move) (int, int) {
	switch {
	case a == Cooperate && b == Cooperate:
		return PayoffReward, PayoffReward
	case a == Cooperate && b == Defect:
		return PayoffSucker, PayoffTemptation
	case a == Defect && b == Cooperate:
		return PayoffTemptation, PayoffSucker
	default:
		return PayoffPunishment, PayoffPunishment
	}
}

// MatchResult holds the outcome of one iterated match.
type MatchResult struct {
	A, B           StrategyID
	ScoreA, ScoreB int
	HistoryA       []Move // A's moves, oldest first
	HistoryB       []Move
	Rounds         int
	CoopFracA      float64 // fraction of rounds A cooperated
	CoopFracB      float64
}

// PerRoundA returns A's average payoff per round.
func (r MatchResult) PerRoundA() float64 {
	if r.Rounds == 0 {
		return 0
	}
	return float64(r.ScoreA) / float64(r.Rounds)
}

// PerRoundB returns B's average payoff per round.
func (r MatchResult) PerRoundB() float64 {
	if r.Rounds == 0 {
		return 0
	}
	return float64(r.ScoreB) / float64(r.Rounds)
}

// PlayMatch runs one iterated match between a and b.
//
// Moves are simultaneous: each round, both decision functions see only the
// histories of completed rounds. A's decision is always evaluated before
// B's so that strategies drawing from rng consume it in a fixed order; with
// equal seeds the result is bit-identical across runs. Each match starts
// from empty histories, so no strategy state survives from earlier matches.
func PlayMatch(a, b StrategyID, rounds int, rng *RNG) MatchResult {
	decideA := Resolve(a)
	decideB := Resolve(b)

	histA := make([]Move, 0, rounds)
	histB := make([]Move, 0, rounds)
	scoreA, scoreB := 0, 0

	for round := 0; round < rounds; round++ {
		moveA := decideA(histA, histB, rng)
		moveB := decideB(histB, histA, rng)
		checkMove(a, moveA)
		checkMove(b, moveB)

		pa, pb := Payoff(moveA, moveB)
		scoreA += pa
		scoreB += pb
		histA = append(histA, moveA)
		histB = append(histB, moveB)
	}

	res := MatchResult{
		A: a, B: b,
		ScoreA: scoreA, ScoreB: scoreB,
		HistoryA: histA, HistoryB: histB,
		Rounds: rounds,
	}
	if rounds > 0 {
		res.CoopFracA = float64(countMoves(histA, Cooperate)) / float64(rounds)
		res.CoopFracB = float64(countMoves(histB, Cooperate)) / float64(rounds)
	}
	return res
}

// checkMove panics on a move outside {Cooperate, Defect}. A decision
// function returning garbage is a programming defect; continuing would
// corrupt scores silently.
func checkMove(id StrategyID, m Move) {
	if m != Cooperate && m != Defect {
		panic(fmt.Sprintf("engine: strategy %s returned invalid move %d", id, uint8(m)))
	}
}
