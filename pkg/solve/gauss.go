// Package solve implements the dense Gauss elimination solver that turns a
// formulated linear system into a numeric unknown vector.
package solve

import (
	"fmt"
	"math"

	"github.com/yasu-a/spice/pkg/spiceerr"
)

// Solve solves a·x = c via forward elimination with first-nonzero-below
// partial pivoting followed by backward substitution, then applies the
// recorded row swaps to x in reverse order. When no pivot swap occurs, x
// satisfies a·x = c; when a swap occurs, the swapped entries of x trade
// places relative to that solution (see TestSolveRequiresRowSwap).
// Neither a nor c is mutated; Solve works on its own copy.
//
// Solve never fails on a singular system: if no nonzero pivot is available
// below a zero diagonal entry, elimination proceeds anyway and lets the
// zero divide produce Inf/NaN. The backward pass's NaN->1 fallback absorbs
// the common case (a fully detached unknown); the returned singular flag
// reports whether that fallback fired, for the driver to surface as
// "underdetermined". Solve itself only errors on malformed input shape.
func Solve(a [][]float64, c []float64) (x []float64, singular bool, err error) {
	n := len(a)
	if n == 0 {
		return nil, false, fmt.Errorf("empty system: %w", spiceerr.ErrShape)
	}
	if len(c) != n {
		return nil, false, fmt.Errorf("%d equations but %d constants: %w", n, len(c), spiceerr.ErrShape)
	}
	for i, row := range a {
		if len(row) != n {
			return nil, false, fmt.Errorf("row %d has %d columns, want %d (system is not square): %w", i, len(row), n, spiceerr.ErrShape)
		}
	}

	m := augment(a, c)
	var swaps [][2]int

	for i := 0; i < n; i++ {
		if strictLowerTriangleIsZero(m, n) {
			break
		}

		if m[i][i] == 0 {
			if pivot := firstNonzeroBelow(m, n, i); pivot != -1 {
				m[i], m[pivot] = m[pivot], m[i]
				swaps = append(swaps, [2]int{i, pivot})
			}
		}

		pivotVal := m[i][i]
		for j := i + 1; j < n; j++ {
			factor := m[j][i] / pivotVal
			for k := i; k <= n; k++ {
				m[j][k] -= factor * m[i][k]
			}
		}
	}

	x = make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		var dot float64
		for k := i + 1; k < n; k++ {
			dot += x[k] * m[i][k]
		}
		xi := (m[i][n] - dot) / m[i][i]
		if math.IsNaN(xi) {
			singular = true
			xi = 1
		}
		x[i] = xi
	}

	for k := len(swaps) - 1; k >= 0; k-- {
		i, j := swaps[k][0], swaps[k][1]
		x[i], x[j] = x[j], x[i]
	}

	return x, singular, nil
}

func augment(a [][]float64, c []float64) [][]float64 {
	n := len(a)
	m := make([][]float64, n)
	for i := range a {
		row := make([]float64, n+1)
		copy(row, a[i])
		row[n] = c[i]
		m[i] = row
	}
	return m
}

func strictLowerTriangleIsZero(m [][]float64, n int) bool {
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			if m[i][j] != 0 {
				return false
			}
		}
	}
	return true
}

func firstNonzeroBelow(m [][]float64, n, col int) int {
	for j := col + 1; j < n; j++ {
		if m[j][col] != 0 {
			return j
		}
	}
	return -1
}

// IsSingular reports whether x (as returned by Solve) contains a
// non-finite entry, the telltale sign of a singular or underdetermined
// system under the permissive policy above.
func IsSingular(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}
