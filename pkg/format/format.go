// Package format renders solved quantities the way the netlist's own value
// expressions are written: a decimal mantissa with an engineering-unit
// suffix, picked by magnitude.
package format

import (
	"fmt"
	"math"
)

// Value renders value with an engineering suffix: p, n, u, m, (none), K, M,
// G, T, picked by the largest magnitude that keeps the mantissa in
// [1, 1000). Values whose magnitude is below 1e-18 print as zero.
func Value(value float64) string {
	abs := math.Abs(value)
	if abs < 1e-18 {
		return "0"
	}

	suffix, scale := pickSuffix(abs)
	return fmt.Sprintf("%g%s", value/scale, suffix)
}

// WithUnit is Value with a trailing unit label, e.g. "4.7KOhm".
func WithUnit(value float64, unit string) string {
	return Value(value) + unit
}

func pickSuffix(abs float64) (string, float64) {
	switch {
	case abs >= 1e12:
		return "T", 1e12
	case abs >= 1e9:
		return "G", 1e9
	case abs >= 1e6:
		return "M", 1e6
	case abs >= 1e3:
		return "K", 1e3
	case abs >= 1:
		return "", 1
	case abs >= 1e-3:
		return "m", 1e-3
	case abs >= 1e-6:
		return "u", 1e-6
	case abs >= 1e-9:
		return "n", 1e-9
	default:
		return "p", 1e-12
	}
}
