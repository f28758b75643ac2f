package partition

// tableID names which DP table a branch of a contribution points into.
// A small tagged enum is enough to drive traceback, but it takes seven
// tags, not five or six: the Z_BP, C_eff, and Z_final recursions branch
// into seven distinct tables once C_eff_no_BP_singlet and Z_cut are
// accounted for (the original backtrack.py never grew dispatch cases for
// either, which is why its own Z_BP recursion already produced branches its
// dispatcher couldn't follow). All seven are enumerated here so traceback
// never has to silently drop a branch.
type tableID int

const (
	tableZBP tableID = iota
	tableZCut
	tableZCoax
	tableCEff
	tableCEffNoCoaxSinglet
	tableCEffNoBPSinglet
	tableZLinear
)

// branch is one edge of a contribution: "this much of the parent cell's
// weight is explained by the sub-structure rooted at table[i][j]".
type branch struct {
	table tableID
	i, j  int
}

// contribution is one additive term in a cell's recursion, paired with the
// branches (zero, one, or two) needed to recurse further during traceback.
// The contribution ledger for a cell is just the slice of these that summed
// to its Q value; traceback never stores a ledger for every cell at once,
// it recomputes one on demand (see computeZBP et al.'s capture parameter).
type contribution struct {
	weight   float64
	branches []branch
}
