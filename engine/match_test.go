package engine

import (
	"reflect"
	"testing"
)

// TestPayoffMatrix verifies the standard payoff values from both
// perspectives.
func TestPayoffMatrix(t *testing.T) {
	cases := []struct {
		a, b         Move
		wantA, wantB int
	}{
		{Cooperate, Cooperate, 3, 3},
		{Cooperate, Defect, 0, 5},
		{Defect, Cooperate, 5, 0},
		{Defect, Defect, 1, 1},
	}
	for _, tc := range cases {
		gotA, gotB := Payoff(tc.a, tc.b)
		if gotA != tc.wantA || gotB != tc.wantB {
			t.Errorf("Payoff(%s, %s) = %d, %d; want %d, %d", tc.a, tc.b, gotA, gotB, tc.wantA, tc.wantB)
		}
	}
}

// TestMutualCooperationScores verifies N rounds of mutual cooperation pay
// both players 3N, and mutual defection pays both N.
func TestMutualCooperationScores(t *testing.T) {
	const rounds = 37

	res := PlayMatch(AlwaysCooperate, AlwaysCooperate, rounds, NewRNG(1))
	if res.ScoreA != 3*rounds || res.ScoreB != 3*rounds {
		t.Errorf("mutual cooperation: scores %d, %d; want %d each", res.ScoreA, res.ScoreB, 3*rounds)
	}
	if res.CoopFracA != 1 || res.CoopFracB != 1 {
		t.Errorf("mutual cooperation: coop fractions %v, %v; want 1", res.CoopFracA, res.CoopFracB)
	}

	res = PlayMatch(AlwaysDefect, AlwaysDefect, rounds, NewRNG(1))
	if res.ScoreA != rounds || res.ScoreB != rounds {
		t.Errorf("mutual defection: scores %d, %d; want %d each", res.ScoreA, res.ScoreB, rounds)
	}
}

// TestTitForTatVersusAlwaysDefect verifies the exact scoreline: TFT
// cooperates once then defects, earning N-1; Always Defect earns 5+(N-1).
func TestTitForTatVersusAlwaysDefect(t *testing.T) {
	const rounds = 200
	res := PlayMatch(TitForTat, AlwaysDefect, rounds, NewRNG(1))

	if res.ScoreA != rounds-1 {
		t.Errorf("TFT score = %d, want %d", res.ScoreA, rounds-1)
	}
	if res.ScoreB != 5+(rounds-1) {
		t.Errorf("Always Defect score = %d, want %d", res.ScoreB, 5+(rounds-1))
	}

	if res.HistoryA[0] != Cooperate {
		t.Error("TFT did not open with Cooperate")
	}
	for i := 1; i < rounds; i++ {
		if res.HistoryA[i] != Defect {
			t.Fatalf("round %d: TFT played C against a pure defector", i+1)
		}
	}
	if got := countMoves(res.HistoryB, Cooperate); got != 0 {
		t.Errorf("Always Defect cooperated %d times", got)
	}
}

// TestMovesAreSimultaneous verifies neither side observes the current
// round's opposing move: Suspicious TFT against TFT locks into perfect
// alternation, which only happens when both commit blind.
func TestMovesAreSimultaneous(t *testing.T) {
	res := PlayMatch(SuspiciousTitForTat, TitForTat, 6, NewRNG(1))

	wantA := []Move{Defect, Cooperate, Defect, Cooperate, Defect, Cooperate}
	wantB := []Move{Cooperate, Defect, Cooperate, Defect, Cooperate, Defect}
	if !reflect.DeepEqual(res.HistoryA, wantA) {
		t.Errorf("Suspicious TFT history = %v, want %v", res.HistoryA, wantA)
	}
	if !reflect.DeepEqual(res.HistoryB, wantB) {
		t.Errorf("TFT history = %v, want %v", res.HistoryB, wantB)
	}
}

// TestGrudgerPunishesForRestOfMatch verifies Grudger never cooperates
// again after the opponent's first defection, in a full match.
func TestGrudgerPunishesForRestOfMatch(t *testing.T) {
	// Suspicious TFT defects on round 1, so Grudger is triggered from
	// round 2 onward.
	const rounds = 50
	res := PlayMatch(Grudger, SuspiciousTitForTat, rounds, NewRNG(1))

	if res.HistoryA[0] != Cooperate {
		t.Error("Grudger did not open with Cooperate")
	}
	for i := 1; i < rounds; i++ {
		if res.HistoryA[i] != Defect {
			t.Fatalf("round %d: Grudger cooperated after being betrayed on round 1", i+1)
		}
	}
}

// TestMatchStateDoesNotLeak verifies a triggered Grudger starts the next
// match clean: per-match memory is recomputed from that match's history
// alone.
func TestMatchStateDoesNotLeak(t *testing.T) {
	// First match triggers the grudge.
	PlayMatch(Grudger, AlwaysDefect, 20, NewRNG(1))

	// Second match against a cooperator must be all-cooperate.
	res := PlayMatch(Grudger, AlwaysCooperate, 20, NewRNG(1))
	if got := countMoves(res.HistoryA, Defect); got != 0 {
		t.Errorf("Grudger defected %d times in a fresh match against a cooperator", got)
	}
}

// TestPlayMatchDeterminism verifies identically seeded matches are
// bit-identical even when both sides consume the RNG.
func TestPlayMatchDeterminism(t *testing.T) {
	a := PlayMatch(GenerousTitForTat, Random, 300, NewRNG(1234))
	b := PlayMatch(GenerousTitForTat, Random, 300, NewRNG(1234))
	if !reflect.DeepEqual(a, b) {
		t.Fatal("identically seeded matches differ")
	}

	c := PlayMatch(GenerousTitForTat, Random, 300, NewRNG(1235))
	if reflect.DeepEqual(a.HistoryB, c.HistoryB) {
		t.Error("different seeds produced identical Random histories")
	}
}

// TestPlayMatchResultShape verifies history lengths, round count, and
// per-round averages.
func TestPlayMatchResultShape(t *testing.T) {
	const rounds = 40
	res := PlayMatch(TitForTat, Pavlov, rounds, NewRNG(1))

	if len(res.HistoryA) != rounds || len(res.HistoryB) != rounds {
		t.Fatalf("history lengths %d, %d; want %d", len(res.HistoryA), len(res.HistoryB), rounds)
	}
	if res.Rounds != rounds {
		t.Errorf("Rounds = %d, want %d", res.Rounds, rounds)
	}
	// TFT and Pavlov both open nice and stay mutually cooperative.
	if res.ScoreA != 3*rounds || res.ScoreB != 3*rounds {
		t.Errorf("scores %d, %d; want %d each", res.ScoreA, res.ScoreB, 3*rounds)
	}
	if res.PerRoundA() != 3 || res.PerRoundB() != 3 {
		t.Errorf("per-round averages %v, %v; want 3", res.PerRoundA(), res.PerRoundB())
	}
}
