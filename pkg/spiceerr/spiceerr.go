// Package spiceerr defines the sentinel error kinds raised by the circuit
// core, so callers can distinguish them with errors.Is/errors.As instead of
// matching on message text.
package spiceerr

import "errors"

// ErrParse covers malformed numbers, unknown class prefixes, wrong port
// counts, and unsupported value-expression syntax. Parsing aborts on the
// first occurrence.
var ErrParse = errors.New("parse error")

// ErrNotEvaluable is returned by Expr.Evaluate when the tree still contains
// a free Variable, Probe, or unresolved Function. Callers recover by
// treating the node as symbolic (Simplify already does this internally).
var ErrNotEvaluable = errors.New("expression not evaluable")

// ErrType is returned when a value cannot be coerced into LinearTerms.
var ErrType = errors.New("type error")

// ErrShape is returned when the assembled system is not square, or when a
// substitution source equation has more than one left-hand term.
var ErrShape = errors.New("shape error")

// ErrSingularSystem is a diagnostic the driver may attach after solving: the
// solver itself never fails (see pkg/solve), it reports NaN or an arbitrary
// value for an underdetermined degree of freedom.
var ErrSingularSystem = errors.New("singular system")
