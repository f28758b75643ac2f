package partition

// AlphaFoldParams bundles the ten recognized options of the statistical
// mechanical loop / stacking / coaxial-stacking energy model. Parameter
// provenance, fitting, and file-format loading are out of scope for this
// engine: construct one however you like and pass it to New or Run.
type AlphaFoldParams struct {
	CInit            float64 // effective molarity seeding every loop closure (M)
	L                float64 // per-unpaired-residue multiplicative penalty
	KdBP             float64 // default base-pair dissociation constant (M)
	LBP              float64 // per-base-pair loop-closure penalty
	CEffStackedPair  float64 // effective molarity of a stacked base pair (M)
	KCoax            float64 // bonus factor for a contiguous coaxial stack; 0 disables coaxial stacking
	LCoax            float64 // per-coaxial-stack loop-closure penalty
	CStd             float64 // standard-state concentration; cancels out up to overall scale
	MinLoopLength    int     // minimum number of residues enclosed by a hairpin
	AllowStrained3WJ bool    // if false, strained three-way-junction terms are excluded via the singlet tables
}

// NewDefaultAlphaFoldParams returns a reasonable default parameter set:
// the one this package's own tests are worked against.
func NewDefaultAlphaFoldParams() *AlphaFoldParams {
	return &AlphaFoldParams{
		CInit:            1.0,
		L:                0.5,
		KdBP:             0.0002,
		LBP:              0.2,
		CEffStackedPair:  1e4,
		KCoax:            100,
		LCoax:            200,
		CStd:             1.0,
		MinLoopLength:    1,
		AllowStrained3WJ: false,
	}
}
