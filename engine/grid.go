package engine

import "fmt"

// mooreOffsets lists the 8 Moore neighbors in the canonical order
// N, NE, E, SE, S, SW, W, NW as (row, col) deltas. Tie-breaking and RNG
// derivation both depend on this order; do not reorder.
var mooreOffsets = [8][2]int{
	{-1, 0},  // N
	{-1, 1},  // NE
	{0, 1},   // E
	{1, 1},   // SE
	{1, 0},   // S
	{1, -1},  // SW
	{0, -1},  // W
	{-1, -1}, // NW
}

// GridParams configures a spatial run with uniform random placement.
type GridParams struct {
	Height, Width int

	// Strategies is the active set cells are drawn from.
	Strategies []StrategyID

	// Rounds is the length of each cell-vs-neighbor match.
	Rounds int

	// Seed roots placement and all match randomness.
	Seed uint64
}

// Validate reports the first configuration error, if any.
func (p GridParams) Validate() error {
	if p.Height <= 0 || p.Width <= 0 {
		return ErrBadDimensions
	}
	if len(p.Strategies) == 0 {
		return ErrNoStrategies
	}
	for _, id := range p.Strategies {
		if !id.Valid() {
			return fmt.Errorf("engine: invalid strategy id %d", uint8(id))
		}
	}
	if p.Rounds <= 0 {
		return ErrBadRounds
	}
	return nil
}

// Grid is a toroidal field of strategies evolving by best-neighbor
// imitation.
//
// Each generation runs in two synchronous phases against a snapshot of the
// current field. First, every cell plays one match against each of its 8
// Moore neighbors' generation-g occupants and sums its own scores from
// those matches. Second, every cell adopts the strategy of the highest
// scorer among itself and its neighbors, written into a separate buffer
// that is swapped in atomically. Ties keep the cell's own strategy if it is
// among the maxima; otherwise the first strictly-better neighbor in
// canonical order wins.
//
// Per-cell match RNGs are derived from (generation, cell, neighbor), so the
// scoring phase reads only the snapshot and shares no mutable state across
// cells; cells may be scored in any order, or in parallel, with identical
// results.
type Grid struct {
	height, width int
	cells         []StrategyID // row-major, generation g
	next          []StrategyID // write buffer for generation g+1
	rounds        int
	stream        SeedStream
	gen           int
	stable        bool
}

// NewGrid builds a grid with every cell drawn uniformly from the active
// set, using a placement sub-stream of the seed.
func NewGrid(p GridParams) (*Grid, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	g := &Grid{
		height: p.Height,
		width:  p.Width,
		cells:  make([]StrategyID, p.Height*p.Width),
		next:   make([]StrategyID, p.Height*p.Width),
		rounds: p.Rounds,
		stream: NewSeedStream(p.Seed),
	}
	rng := g.stream.Derive(seedDomainPlacement)
	for i := range g.cells {
		g.cells[i] = p.Strategies[rng.Intn(len(p.Strategies))]
	}
	return g, nil
}

// NewGridFromCells builds a grid from an explicit row-major placement.
// Rows must be non-empty and of equal length. Deterministic placements are
// the test and fixed-scenario entry point.
func NewGridFromCells(cells [][]StrategyID, rounds int, seed uint64) (*Grid, error) {
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, ErrBadDimensions
	}
	if rounds <= 0 {
		return nil, ErrBadRounds
	}
	h, w := len(cells), len(cells[0])
	g := &Grid{
		height: h,
		width:  w,
		cells:  make([]StrategyID, 0, h*w),
		next:   make([]StrategyID, h*w),
		rounds: rounds,
		stream: NewSeedStream(seed),
	}
	for r, row := range cells {
		if len(row) != w {
			return nil, fmt.Errorf("engine: ragged grid: row %d has %d cells, want %d", r, len(row), w)
		}
		for _, id := range row {
			if !id.Valid() {
				return nil, fmt.Errorf("engine: invalid strategy id %d", uint8(id))
			}
			g.cells = append(g.cells, id)
		}
	}
	return g, nil
}

// Height returns the grid height.
func (g *Grid) Height() int { return g.height }

// Width returns the grid width.
func (g *Grid) Width() int { return g.width }

// Generation returns the number of completed updates.
func (g *Grid) Generation() int { return g.gen }

// Stable reports whether the last Step left every cell unchanged.
// Informational only; stepping a stable grid is valid.
func (g *Grid) Stable() bool { return g.stable }

// At returns the occupant of (row, col) with toroidal wrapping.
func (g *Grid) At(row, col int) StrategyID {
	return g.cells[g.index(row, col)]
}

// index maps toroidal coordinates to a row-major slice index.
func (g *Grid) index(row, col int) int {
	row = ((row % g.height) + g.height) % g.height
	col = ((col % g.width) + g.width) % g.width
	return row*g.width + col
}

// Snapshot returns a copy of the current field, row-major.
func (g *Grid) Snapshot() [][]StrategyID {
	out := make([][]StrategyID, g.height)
	for r := 0; r < g.height; r++ {
		row := make([]StrategyID, g.width)
		copy(row, g.cells[r*g.width:(r+1)*g.width])
		out[r] = row
	}
	return out
}

// Census counts the current occupants of each strategy.
func (g *Grid) Census() map[StrategyID]int {
	counts := make(map[StrategyID]int)
	for _, id := range g.cells {
		counts[id]++
	}
	return counts
}

// Step advances the grid by one generation.
func (g *Grid) Step() {
	scores := g.scoreCells()

	changed := false
	for idx := range g.cells {
		row, col := idx/g.width, idx%g.width

		best := scores[idx]
		winner := g.cells[idx]
		for _, off := range mooreOffsets {
			n := g.index(row+off[0], col+off[1])
			if scores[n] > best {
				best = scores[n]
				winner = g.cells[n]
			}
		}

		g.next[idx] = winner
		if winner != g.cells[idx] {
			changed = true
		}
	}

	g.cells, g.next = g.next, g.cells
	g.stable = !changed
	g.gen++
}

// scoreCells plays every cell against its 8 neighbors' current occupants
// and returns each cell's summed score from its own matches. A cell's score
// never includes points its neighbors earned against it; those belong to
// the neighbors' own matches.
func (g *Grid) scoreCells() []int {
	scores := make([]int, len(g.cells))
	for idx, me := range g.cells {
		row, col := idx/g.width, idx%g.width
		for k, off := range mooreOffsets {
			opp := g.cells[g.index(row+off[0], col+off[1])]
			rng := g.stream.Derive(seedDomainGrid, uint64(g.gen), uint64(idx), uint64(k))
			res := PlayMatch(me, opp, g.rounds, rng)
			scores[idx] += res.ScoreA
		}
	}
	return scores
}
