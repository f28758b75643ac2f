package partition

// basePairType is one entry of the base-pair-type registry: a
// nucleotide-matching rule paired with its own dissociation constant
// and its own N×N Z_BPq sub-table. Z_BP is their sum; the sub-tables are
// kept (rather than folded away as scratch values) so the aggregation
// Z_BP[i][j] == sum_q Z_BPq[i][j] stays independently checkable.
type basePairType struct {
	nt1, nt2       byte // ignored when matchLowercase is set
	matchLowercase bool // the generic wildcard type: matches any lowercase self-pair
	kdBP           float64
	z              *table
}

func newBasePairTypeRegistry(n int, kdBP float64) []*basePairType {
	canonical := func(nt1, nt2 byte) *basePairType {
		return &basePairType{nt1: nt1, nt2: nt2, kdBP: kdBP, z: newTable(n)}
	}
	return []*basePairType{
		canonical('C', 'G'),
		canonical('G', 'C'),
		canonical('A', 'U'),
		canonical('U', 'A'),
		{matchLowercase: true, kdBP: kdBP, z: newTable(n)},
	}
}

// matches reports whether base pair type t applies to the nucleotides at
// sequence positions i and j: an exact two-letter match for the four
// canonical types, or "both lowercase and identical" for the generic
// wildcard, which stands in for an unresolved or generic nucleotide that
// can pair with itself.
func (t *basePairType) matches(sequence string, i, j int) bool {
	if t.matchLowercase {
		si, sj := sequence[i], sequence[j]
		return si == sj && si >= 'a' && si <= 'z'
	}
	return sequence[i] == t.nt1 && sequence[j] == t.nt2
}
