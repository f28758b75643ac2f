package partition

import "fmt"

// relTolerance is the relative-difference threshold used by every
// cross-check in this file.
const relTolerance = 1e-5

// runCrossChecks verifies a handful of programmer-error assertions, not
// caller errors: Z_final must not depend on which origin it
// was computed from, the derivative must agree with it, and the total
// base-pair probability computed two independent ways (summing BPP, versus
// -dZ_final/dKd_BP * Kd_BP / Z_final) must agree. A violation means the
// recursions themselves are wrong, so this panics rather than returning an
// error, since there is no way for a caller to have caused it by passing
// bad input.
func (p *partition) runCrossChecks() {
	n := p.seq.n
	z0 := p.zFinal[0]

	for i := 1; i < n; i++ {
		if relDiff(p.zFinal[i], z0) >= relTolerance {
			panic(fmt.Sprintf("partition: Z_final origin invariance violated: Z_final[%d]=%v, Z_final[0]=%v", i, p.zFinal[i], z0))
		}
	}

	if !p.calcDeriv {
		return
	}

	dz0 := p.dzFinal[0]
	for i := 1; i < n; i++ {
		if relDiff(p.dzFinal[i], dz0) >= relTolerance {
			panic(fmt.Sprintf("partition: dZ_final origin invariance violated: dZ_final[%d]=%v, dZ_final[0]=%v", i, p.dzFinal[i], dz0))
		}
	}

	var bppTotal float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			bppTotal += p.bpp[i][j] / 2.0
		}
	}
	bppTotalFromDeriv := -dz0 * p.params.KdBP / z0
	if relDiff(bppTotal, bppTotalFromDeriv) >= relTolerance {
		panic(fmt.Sprintf("partition: total base-pair probability mismatch: sum(BPP)/2=%v, derivative-based=%v", bppTotal, bppTotalFromDeriv))
	}
}

func relDiff(a, b float64) float64 {
	if b == 0 {
		if a == 0 {
			return 0
		}
		return 1
	}
	return absf((a - b) / b)
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
