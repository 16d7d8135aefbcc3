package filter

import (
	"math"
	"math/cmplx"
)

// order is the Butterworth prototype order; the band-pass transform doubles it.
const order = 2

// Coefficients are the transfer-function taps of a digital filter, a[0] normalized to 1.
type Coefficients struct {
	B []float64
	A []float64
}

// Design returns the order-2 Butterworth band-pass for the normalized cutoffs.
// The analog prototype is shifted to the band with pre-warped edges and mapped to z with the bilinear transform.
func Design(c Cutoffs) Coefficients {
	const fs = 2.0
	fs2 := 2 * fs

	w1 := fs2 * math.Tan(math.Pi*c.Low/fs)
	w2 := fs2 * math.Tan(math.Pi*c.High/fs)
	bw := w2 - w1
	wo := math.Sqrt(w1 * w2)

	poles := make([]complex128, 0, 2*order)
	for _, m := range []float64{-1, 1} {
		proto := -cmplx.Exp(complex(0, math.Pi*m/(2*order)))
		lp := proto * complex(bw/2, 0)
		root := cmplx.Sqrt(lp*lp - complex(wo*wo, 0))
		poles = append(poles, lp+root, lp-root)
	}

	// order zeros sit at s=0 and map to z=1; the remaining order go to z=-1.
	gain := complex(bw*bw, 0) * complex(fs2*fs2, 0)
	zPoles := make([]complex128, len(poles))
	for i, p := range poles {
		gain /= complex(fs2, 0) - p
		zPoles[i] = (complex(fs2, 0) + p) / (complex(fs2, 0) - p)
	}
	k := real(gain)

	a := realPoly(zPoles)
	b := []float64{k, 0, -2 * k, 0, k}
	return Coefficients{B: b, A: a}
}

func realPoly(roots []complex128) []float64 {
	coeffs := []complex128{1}
	for _, r := range roots {
		next := make([]complex128, len(coeffs)+1)
		for i, c := range coeffs {
			next[i] += c
			next[i+1] -= c * r
		}
		coeffs = next
	}
	out := make([]float64, len(coeffs))
	for i, c := range coeffs {
		out[i] = real(c)
	}
	return out
}

// Response evaluates |H(e^{jw})| at angular frequency w in radians per sample.
func (c Coefficients) Response(w float64) float64 {
	z := cmplx.Exp(complex(0, -w))
	var num, den complex128
	zi := complex(1, 0)
	for i := 0; i < len(c.B) || i < len(c.A); i++ {
		if i < len(c.B) {
			num += complex(c.B[i], 0) * zi
		}
		if i < len(c.A) {
			den += complex(c.A[i], 0) * zi
		}
		zi *= z
	}
	return cmplx.Abs(num / den)
}
