package filter

import (
	"fmt"
	"math"
)

// PadLen is the number of odd-extension samples added to each edge before filtering.
const PadLen = 3 * (2*order + 1)

// MinWindow is the shortest input FiltFilt accepts.
const MinWindow = PadLen + 1

// FiltFilt runs c forward then backward over x so the net phase delay is zero.
// Edges are extended by odd reflection and each pass starts from the steady-state of its first sample.
func FiltFilt(c Coefficients, x []float64) ([]float64, error) {
	if len(x) < MinWindow {
		return nil, fmt.Errorf("%w: window of %d samples needs at least %d", ErrFilterDesign, len(x), MinWindow)
	}
	zi, err := steadyState(c)
	if err != nil {
		return nil, err
	}

	ext := oddExtend(x, PadLen)
	y := lfilter(c, ext, scaled(zi, ext[0]))
	reverse(y)
	y = lfilter(c, y, scaled(zi, y[0]))
	reverse(y)

	out := make([]float64, len(x))
	copy(out, y[PadLen:PadLen+len(x)])
	return out, nil
}

func oddExtend(x []float64, pad int) []float64 {
	n := len(x)
	ext := make([]float64, 0, n+2*pad)
	for i := pad; i > 0; i-- {
		ext = append(ext, 2*x[0]-x[i])
	}
	ext = append(ext, x...)
	for i := 0; i < pad; i++ {
		ext = append(ext, 2*x[n-1]-x[n-2-i])
	}
	return ext
}

// lfilter is a direct form II transposed IIR pass seeded with state z.
func lfilter(c Coefficients, x, z []float64) []float64 {
	n := len(c.A)
	y := make([]float64, len(x))
	for m, v := range x {
		out := c.B[0]*v + z[0]
		for i := 0; i < n-2; i++ {
			z[i] = c.B[i+1]*v + z[i+1] - c.A[i+1]*out
		}
		z[n-2] = c.B[n-1]*v - c.A[n-1]*out
		y[m] = out
	}
	return y
}

// steadyState solves (I - Aᵀ) zi = b[1:] - a[1:]·b[0] for the companion matrix of a,
// the filter state that yields a constant output for a unit step.
func steadyState(c Coefficients) ([]float64, error) {
	n := len(c.A) - 1
	m := make([][]float64, n)
	rhs := make([]float64, n)
	for i := 0; i < n; i++ {
		m[i] = make([]float64, n)
		m[i][i] = 1
		m[i][0] += c.A[i+1]
		if i+1 < n {
			m[i][i+1] -= 1
		}
		rhs[i] = c.B[i+1] - c.A[i+1]*c.B[0]
	}
	return solve(m, rhs)
}

// solve runs Gaussian elimination with partial pivoting; m and rhs are consumed.
func solve(m [][]float64, rhs []float64) ([]float64, error) {
	n := len(rhs)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(m[pivot][col]) < 1e-300 {
			return nil, fmt.Errorf("%w: singular initial-state system", ErrFilterDesign)
		}
		m[col], m[pivot] = m[pivot], m[col]
		rhs[col], rhs[pivot] = rhs[pivot], rhs[col]
		for r := col + 1; r < n; r++ {
			f := m[r][col] / m[col][col]
			for k := col; k < n; k++ {
				m[r][k] -= f * m[col][k]
			}
			rhs[r] -= f * rhs[col]
		}
	}
	x := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		sum := rhs[r]
		for k := r + 1; k < n; k++ {
			sum -= m[r][k] * x[k]
		}
		x[r] = sum / m[r][r]
	}
	return x, nil
}

func scaled(v []float64, k float64) []float64 {
	out := make([]float64, len(v))
	for i := range v {
		out[i] = v[i] * k
	}
	return out
}

func reverse(v []float64) {
	for i, j := 0, len(v)-1; i < j; i, j = i+1, j-1 {
		v[i], v[j] = v[j], v[i]
	}
}
