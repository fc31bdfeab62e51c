// Package expr implements the immutable algebraic expression tree used to
// represent component values, behavioral source bodies, and (after
// substitution) the coefficients of the final linear system.
//
// Every node is a value type and is never mutated after construction.
// Structural equality is each node's Equal method: two trees built from the
// same concrete types and values compare Equal regardless of which call site
// constructed them. (Call holds a slice, so trees containing a Call are not
// comparable with Go's == operator.)
package expr

import (
	"fmt"

	"github.com/yasu-a/spice/pkg/spiceerr"
)

// Expr is the common interface of every expression node.
type Expr interface {
	// Evaluate returns the numeric value of the node. It fails with
	// spiceerr.ErrNotEvaluable if any leaf below it is a Variable, Probe, or
	// generic Call (a function this package does not know how to fold).
	Evaluate() (float64, error)

	// Simplify performs bottom-up constant folding. If the rebuilt node
	// evaluates successfully, Simplify returns that Constant; otherwise it
	// returns the rebuilt node with already-simplified children.
	Simplify() Expr

	// Children returns the node's immediate operands, for traversal.
	Children() []Expr

	// String renders the node as a debug expression string. Probes render
	// as V(name)/I(name); callers that need canonical variable names in
	// place of probes should use ResolveProbes first.
	String() string

	// Equal reports whether other has the same structure and values.
	Equal(other Expr) bool
}

// Canonical constants, reused wherever code would otherwise build a fresh
// Constant for +1/0/-1.
var (
	PosOne = Constant{Value: 1}
	Zero   = Constant{Value: 0}
	NegOne = Constant{Value: -1}
)

// Constant is a numeric literal leaf.
type Constant struct{ Value float64 }

func (c Constant) Evaluate() (float64, error) { return c.Value, nil }
func (c Constant) Simplify() Expr             { return c }
func (c Constant) Children() []Expr           { return nil }
func (c Constant) String() string             { return fmt.Sprintf("%g", c.Value) }
func (c Constant) Equal(other Expr) bool {
	o, ok := other.(Constant)
	return ok && o.Value == c.Value
}

// Variable is a free name resolved only once it is the subject of a
// LinearEquation (see pkg/linear); on its own it never evaluates.
type Variable struct{ Name string }

func (v Variable) Evaluate() (float64, error) {
	return 0, fmt.Errorf("variable %q: %w", v.Name, spiceerr.ErrNotEvaluable)
}
func (v Variable) Simplify() Expr   { return v }
func (v Variable) Children() []Expr { return nil }
func (v Variable) String() string   { return v.Name }
func (v Variable) Equal(other Expr) bool {
	o, ok := other.(Variable)
	return ok && o.Name == v.Name
}

// ProbeKind distinguishes V(node) from I(edge) probes.
type ProbeKind int

const (
	VoltageProbeKind ProbeKind = iota
	CurrentProbeKind
)

func (k ProbeKind) String() string {
	if k == CurrentProbeKind {
		return "I"
	}
	return "V"
}

// Probe models a reference to another node's potential or another edge's
// current inside a behavioral source body. Resolution replaces a Probe with
// the canonical Variable of the thing it names; see ResolveProbes.
type Probe struct {
	Kind ProbeKind
	Name string
}

func (p Probe) Evaluate() (float64, error) {
	return 0, fmt.Errorf("probe %s(%s): %w", p.Kind, p.Name, spiceerr.ErrNotEvaluable)
}
func (p Probe) Simplify() Expr   { return p }
func (p Probe) Children() []Expr { return nil }
func (p Probe) String() string   { return fmt.Sprintf("%s(%s)", p.Kind, p.Name) }
func (p Probe) Equal(other Expr) bool {
	o, ok := other.(Probe)
	return ok && o.Kind == p.Kind && o.Name == p.Name
}

// Negate is unary sign inversion: -X.
type Negate struct{ X Expr }

func (n Negate) Evaluate() (float64, error) {
	v, err := n.X.Evaluate()
	if err != nil {
		return 0, err
	}
	return -v, nil
}
func (n Negate) Simplify() Expr {
	return foldUnary(Negate{X: n.X.Simplify()})
}
func (n Negate) Children() []Expr { return []Expr{n.X} }
func (n Negate) String() string   { return "-(" + n.X.String() + ")" }
func (n Negate) Equal(other Expr) bool {
	o, ok := other.(Negate)
	return ok && o.X.Equal(n.X)
}

// Invert is unary reciprocal: 1/X. Division in the source language is
// always expressed as Mul(a, Invert(b)).
type Invert struct{ X Expr }

func (n Invert) Evaluate() (float64, error) {
	v, err := n.X.Evaluate()
	if err != nil {
		return 0, err
	}
	return 1 / v, nil
}
func (n Invert) Simplify() Expr {
	return foldUnary(Invert{X: n.X.Simplify()})
}
func (n Invert) Children() []Expr { return []Expr{n.X} }
func (n Invert) String() string   { return "(1 / " + n.X.String() + ")" }
func (n Invert) Equal(other Expr) bool {
	o, ok := other.(Invert)
	return ok && o.X.Equal(n.X)
}

// Add is binary addition. Subtraction is Add(a, Negate(b)).
type Add struct{ A, B Expr }

func (n Add) Evaluate() (float64, error) {
	a, err := n.A.Evaluate()
	if err != nil {
		return 0, err
	}
	b, err := n.B.Evaluate()
	if err != nil {
		return 0, err
	}
	return a + b, nil
}
func (n Add) Simplify() Expr {
	return foldBinary(Add{A: n.A.Simplify(), B: n.B.Simplify()})
}
func (n Add) Children() []Expr { return []Expr{n.A, n.B} }
func (n Add) String() string   { return "(" + n.A.String() + " + " + n.B.String() + ")" }
func (n Add) Equal(other Expr) bool {
	o, ok := other.(Add)
	return ok && o.A.Equal(n.A) && o.B.Equal(n.B)
}

// Mul is binary multiplication. Division is Mul(a, Invert(b)).
type Mul struct{ A, B Expr }

func (n Mul) Evaluate() (float64, error) {
	a, err := n.A.Evaluate()
	if err != nil {
		return 0, err
	}
	b, err := n.B.Evaluate()
	if err != nil {
		return 0, err
	}
	return a * b, nil
}
func (n Mul) Simplify() Expr {
	return foldBinary(Mul{A: n.A.Simplify(), B: n.B.Simplify()})
}
func (n Mul) Children() []Expr { return []Expr{n.A, n.B} }
func (n Mul) String() string   { return "(" + n.A.String() + " * " + n.B.String() + ")" }
func (n Mul) Equal(other Expr) bool {
	o, ok := other.(Mul)
	return ok && o.A.Equal(n.A) && o.B.Equal(n.B)
}

// Call is a generic function application (anything other than a V/I
// probe). This package has no builtin function table, so Call never
// evaluates; it exists to round-trip expressions the core does not need to
// fold, matching spec's "unresolved Function" failure mode.
type Call struct {
	Name string
	Args []Expr
}

func (c Call) Evaluate() (float64, error) {
	return 0, fmt.Errorf("function %q: %w", c.Name, spiceerr.ErrNotEvaluable)
}
func (c Call) Simplify() Expr {
	args := make([]Expr, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.Simplify()
	}
	return Call{Name: c.Name, Args: args}
}
func (c Call) Children() []Expr { return c.Args }
func (c Call) String() string {
	s := c.Name + "("
	for i, a := range c.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}
func (c Call) Equal(other Expr) bool {
	o, ok := other.(Call)
	if !ok || o.Name != c.Name || len(o.Args) != len(c.Args) {
		return false
	}
	for i := range c.Args {
		if !c.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

// Named wraps an assignment `name = body` parsed from a value expression.
// It is deliberately a structural leaf: Children and Simplify do not
// descend into the wrapped node (matching the source behavior this package
// is grounded on), only Evaluate delegates to it.
type Named struct {
	Name string
	X    Expr
}

func (n Named) Evaluate() (float64, error) { return n.X.Evaluate() }
func (n Named) Simplify() Expr             { return n }
func (n Named) Children() []Expr           { return nil }
func (n Named) String() string             { return n.Name + " = " + n.X.String() }
func (n Named) Equal(other Expr) bool {
	o, ok := other.(Named)
	return ok && o.Name == n.Name && o.X.Equal(n.X)
}

func foldUnary(n Expr) Expr {
	if v, err := n.Evaluate(); err == nil {
		return Constant{Value: v}
	}
	return n
}

func foldBinary(n Expr) Expr {
	if v, err := n.Evaluate(); err == nil {
		return Constant{Value: v}
	}
	return n
}
