package engine

import "fmt"

// Move is one player's choice in a single round.
type Move uint8

const (
	Cooperate Move = iota
	Defect
)

// String returns "C" or "D".
func (m Move) String() string {
	if m == Cooperate {
		return "C"
	}
	return "D"
}

// Temperament tags a strategy as nice (never the first to defect) or mean.
type Temperament uint8

const (
	Nice Temperament = iota
	Mean
)

// String returns "nice" or "mean".
func (t Temperament) String() string {
	if t == Nice {
		return "nice"
	}
	return "mean"
}

// StrategyID identifies a strategy in the catalog. The numeric order is the
// canonical catalog order and is stable; controllers iterate it when fixed
// ordering matters for determinism.
type StrategyID uint8

const (
	TitForTat StrategyID = iota
	Pavlov
	GenerousTitForTat
	TitForTwoTats
	SoftMajority
	Grudger
	Detective
	HardMajority
	SuspiciousTitForTat
	AlwaysCooperate
	Random
	AlwaysDefect

	NumStrategies // sentinel, not a strategy
)

// Decision chooses a move given the match so far. own and opp are the
// caller's and opponent's full move histories for this match, oldest first;
// both are empty on round 1. Implementations are pure: any per-match memory
// (Grudger's trigger, Detective's probe verdict) is recomputed from the
// histories on every call, so no state can leak across matches or cells.
// rng is the match's seeded generator; only stochastic strategies draw
// from it.
type Decision func(own, opp []Move, rng *RNG) Move

// StrategyInfo describes one catalog entry.
type StrategyInfo struct {
	ID          StrategyID
	Name        string
	Temperament Temperament
}

type catalogEntry struct {
	name        string
	temperament Temperament
	decide      Decision
}

// catalog is indexed by StrategyID.
var catalog = [NumStrategies]catalogEntry{
	TitForTat:           {"Tit for Tat", Nice, decideTitForTat},
	Pavlov:              {"Pavlov", Nice, decidePavlov},
	GenerousTitForTat:   {"Generous TFT", Nice, decideGenerousTitForTat},
	TitForTwoTats:       {"Tit for Two Tats", Nice, decideTitForTwoTats},
	SoftMajority:        {"Soft Majority", Nice, decideSoftMajority},
	Grudger:             {"Grudger", Nice, decideGrudger},
	Detective:           {"Detective", Mean, decideDetective},
	HardMajority:        {"Hard Majority", Mean, decideHardMajority},
	SuspiciousTitForTat: {"Suspicious TFT", Mean, decideSuspiciousTitForTat},
	AlwaysCooperate:     {"Always Cooperate", Nice, decideAlwaysCooperate},
	Random:              {"Random", Mean, decideRandom},
	AlwaysDefect:        {"Always Defect", Mean, decideAlwaysDefect},
}

// Valid reports whether id names a catalog strategy.
func (id StrategyID) Valid() bool {
	return id < NumStrategies
}

// String returns the strategy's display name.
func (id StrategyID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("StrategyID(%d)", uint8(id))
	}
	return catalog[id].name
}

// Temperament returns the strategy's nice/mean tag.
func (id StrategyID) Temperament() Temperament {
	return catalog[id].temperament
}

// Resolve returns the decision function for id. Panics on an invalid id;
// callers validate ids at configuration time.
func Resolve(id StrategyID) Decision {
	if !id.Valid() {
		panic(fmt.Sprintf("engine: Resolve(%d): unknown strategy", uint8(id)))
	}
	return catalog[id].decide
}

// List returns the full catalog in canonical order.
func List() []StrategyInfo {
	out := make([]StrategyInfo, 0, NumStrategies)
	for id := StrategyID(0); id < NumStrategies; id++ {
		out = append(out, StrategyInfo{ID: id, Name: catalog[id].name, Temperament: catalog[id].temperament})
	}
	return out
}

// ParseStrategy resolves a display name to its id.
func ParseStrategy(name string) (StrategyID, error) {
	for id := StrategyID(0); id < NumStrategies; id++ {
		if catalog[id].name == name {
			return id, nil
		}
	}
	return NumStrategies, fmt.Errorf("engine: unknown strategy %q", name)
}

// ---------------------------------------------------------------------------
// Decision functions
//
// Histories are rescanned on each call rather than cached between rounds.
// A match is at most a few hundred rounds, so the rescans are cheap, and
// pure functions cannot alias state across matches.
// ---------------------------------------------------------------------------

func decideAlwaysCooperate(own, opp []Move, rng *RNG) Move {
	return Cooperate
}

func decideAlwaysDefect(own, opp []Move, rng *RNG) Move {
	return Defect
}

func decideTitForTat(own, opp []Move, rng *RNG) Move {
	if len(opp) == 0 {
		return Cooperate
	}
	return opp[len(opp)-1]
}

func decideSuspiciousTitForTat(own, opp []Move, rng *RNG) Move {
	if len(opp) == 0 {
		return Defect
	}
	return opp[len(opp)-1]
}

// decideTitForTwoTats retaliates only after two consecutive defections.
func decideTitForTwoTats(own, opp []Move, rng *RNG) Move {
	n := len(opp)
	if n < 2 {
		return Cooperate
	}
	if opp[n-1] == Defect && opp[n-2] == Defect {
		return Defect
	}
	return Cooperate
}

// generousForgiveProb is the chance Generous TFT cooperates where plain
// TFT would defect.
const generousForgiveProb = 0.10

func decideGenerousTitForTat(own, opp []Move, rng *RNG) Move {
	if len(opp) == 0 {
		return Cooperate
	}
	if opp[len(opp)-1] == Cooperate {
		return Cooperate
	}
	if rng.Float64() < generousForgiveProb {
		return Cooperate
	}
	return Defect
}

// decidePavlov is win-stay-lose-shift: repeat the previous move if it earned
// 3 or 5, otherwise switch.
func decidePavlov(own, opp []Move, rng *RNG) Move {
	n := len(own)
	if n == 0 {
		return Cooperate
	}
	last := own[n-1]
	p, _ := Payoff(last, opp[n-1])
	if p == PayoffReward || p == PayoffTemptation {
		return last
	}
	if last == Cooperate {
		return Defect
	}
	return Cooperate
}

func decideSoftMajority(own, opp []Move, rng *RNG) Move {
	if len(opp) == 0 {
		return Cooperate
	}
	coop := countMoves(opp, Cooperate)
	if 2*coop >= len(opp) {
		return Cooperate
	}
	return Defect
}

func decideHardMajority(own, opp []Move, rng *RNG) Move {
	if len(opp) == 0 {
		return Defect
	}
	coop := countMoves(opp, Cooperate)
	if 2*coop > len(opp) {
		return Cooperate
	}
	return Defect
}

// decideGrudger cooperates until the opponent's first defection, then
// defects for the rest of the match.
func decideGrudger(own, opp []Move, rng *RNG) Move {
	if countMoves(opp, Defect) > 0 {
		return Defect
	}
	return Cooperate
}

// detectiveOpening is the fixed four-round probe.
var detectiveOpening = [4]Move{Cooperate, Defect, Cooperate, Cooperate}

// decideDetective plays the fixed probe, then judges the opponent on its
// probe-round behavior: any defection during rounds 1-4 is answered with
// permanent defection; a clean probe earns Tit for Tat from round 5 on.
func decideDetective(own, opp []Move, rng *RNG) Move {
	n := len(own)
	if n < 4 {
		return detectiveOpening[n]
	}
	if countMoves(opp[:4], Defect) > 0 {
		return Defect
	}
	return opp[len(opp)-1]
}

func decideRandom(own, opp []Move, rng *RNG) Move {
	if rng.Float64() < 0.5 {
		return Cooperate
	}
	return Defect
}

func countMoves(history []Move, m Move) int {
	n := 0
	for _, h := range history {
		if h == m {
			n++
		}
	}
	return n
}
