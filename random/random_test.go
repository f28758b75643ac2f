package random

import (
	"testing"
)

func TestRNASequence(t *testing.T) {
	const length = 12
	const seed = 2
	sequence := RNASequence(length, seed)

	if len(sequence) != length {
		t.Errorf("RNASequence(%d, %d) returned length %d, want %d", length, seed, len(sequence), length)
	}
	for _, base := range sequence {
		switch base {
		case 'A', 'C', 'U', 'G':
		default:
			t.Errorf("RNASequence(%d, %d) contains non-RNA base %q", length, seed, base)
		}
	}
}

func TestRNASequenceDeterministic(t *testing.T) {
	a := RNASequence(20, 42)
	b := RNASequence(20, 42)
	if a != b {
		t.Errorf("RNASequence not deterministic for fixed seed: got %q and %q", a, b)
	}
}

func TestRNAStrands(t *testing.T) {
	strands := RNAStrands(3, 5, 7)
	if len(strands) != 3 {
		t.Fatalf("RNAStrands(3, 5, 7) returned %d strands, want 3", len(strands))
	}
	for _, s := range strands {
		if len(s) != 5 {
			t.Errorf("RNAStrands: strand %q has length %d, want 5", s, len(s))
		}
	}
	if strands[0] == strands[1] && strands[1] == strands[2] {
		t.Errorf("RNAStrands: all strands identical, expected distinct seeds to usually differ")
	}
}
