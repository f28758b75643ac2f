package partition

import (
	"encoding/binary"

	"lukechampine.com/blake3"
)

// seedFromSequence derives a deterministic int64 seed from the folded
// sequence and its circularization flag, the same hash-the-sequence idiom
// poly's seqhash package uses to derive a deterministic identifier from a
// sequence. It is used when BoltzmannSample is called without an explicit
// seed, so two calls for the same input still produce the same sample.
func seedFromSequence(sequence string, circle bool) int64 {
	payload := sequence
	if circle {
		payload += "|circular"
	} else {
		payload += "|linear"
	}
	sum := blake3.Sum256([]byte(payload))
	return int64(binary.LittleEndian.Uint64(sum[:8]))
}
