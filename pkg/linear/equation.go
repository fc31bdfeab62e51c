package linear

import (
	"fmt"

	"github.com/yasu-a/spice/pkg/expr"
	"github.com/yasu-a/spice/pkg/spiceerr"
)

// Equation is left = right.
type Equation struct {
	Left  Terms
	Right Terms
}

func NewEquation(left, right Terms) Equation { return Equation{Left: left, Right: right} }

// FromLeft builds the equation left = 0.
func FromLeft(left Terms) Equation { return Equation{Left: left, Right: Terms{}} }

func (e Equation) Negate() Equation {
	return Equation{Left: e.Left.Negate(), Right: e.Right.Negate()}
}

func (e Equation) Add(other Equation) Equation {
	return Equation{Left: e.Left.Add(other.Left), Right: e.Right.Add(other.Right)}
}

func (e Equation) Sub(other Equation) Equation {
	return Equation{Left: e.Left.Sub(other.Left), Right: e.Right.Sub(other.Right)}
}

func (e Equation) String() string {
	return e.Left.String() + " = " + e.Right.String()
}

// VarToFormula requires Left to have exactly one term k·v, and returns
// (v, right · k⁻¹). Fails with ShapeError when Left does not have exactly
// one term.
func (e Equation) VarToFormula() (Variable, Terms, error) {
	if !e.Left.Single() {
		return nil, Terms{}, fmt.Errorf("left-hand side has %d terms, want exactly 1: %w", e.Left.Len(), spiceerr.ErrShape)
	}
	leftTerm := e.Left.First()
	return leftTerm.Element, e.Right.Scale(expr.Invert{X: leftTerm.K}), nil
}

// Substitute applies src's variable -> formula map to both sides of e. See
// EquationSet.Substitute for the semantics.
func (e Equation) Substitute(src EquationSet) (Equation, error) {
	left, err := e.Left.substitute(src)
	if err != nil {
		return Equation{}, err
	}
	right, err := e.Right.substitute(src)
	if err != nil {
		return Equation{}, err
	}
	return Equation{Left: left, Right: right}, nil
}

// EquationSet is an ordered list of Equation.
type EquationSet []Equation

func (s EquationSet) varToFormula() (map[string]Terms, error) {
	out := make(map[string]Terms, len(s))
	for _, eq := range s {
		v, formula, err := eq.VarToFormula()
		if err != nil {
			return nil, err
		}
		out[v.CanonicalName()] = formula
	}
	return out, nil
}

// substitute implements dst << src: for every term k·v in t, if v is the
// lone left-hand variable of some equation in src, replace the term with
// formula·k; otherwise keep it unchanged. Concatenates the results.
//
// Substitution is NOT transitive: the replacement formulas are not
// themselves re-substituted within this call. Apply Substitute again for
// a further round.
func (t Terms) substitute(src EquationSet) (Terms, error) {
	varToFormula, err := src.varToFormula()
	if err != nil {
		return Terms{}, err
	}
	items := make([]any, 0, len(t.terms))
	for _, term := range t.terms {
		if formula, ok := varToFormula[term.Element.CanonicalName()]; ok {
			items = append(items, formula.Scale(term.K))
		} else {
			items = append(items, term)
		}
	}
	return Sum(items)
}

// Substitute returns t << src: the same replacement rule applied to a
// bare Terms value, without an Equation around the terms.
func (t Terms) Substitute(src EquationSet) (Terms, error) { return t.substitute(src) }

// Substitute returns a new set with every equation's Substitute applied
// against src.
func (s EquationSet) Substitute(src EquationSet) (EquationSet, error) {
	out := make(EquationSet, len(s))
	for i, eq := range s {
		sub, err := eq.Substitute(src)
		if err != nil {
			return nil, err
		}
		out[i] = sub
	}
	return out, nil
}

// ToMatrixRow evaluates e's coefficients against unknownOrder, returning
// the row of A and the entry of c for A·x = c (derived from Left - Right =
// 0). Every coefficient must be numerically evaluable: valid only once an
// equation has been fully substituted down to circuit variables and
// constants.
func (e Equation) ToMatrixRow(unknownOrder []string) ([]float64, float64, error) {
	coeffs := make(map[string]float64, len(unknownOrder))
	var constSum float64

	accumulate := func(terms Terms, sign float64) error {
		for _, term := range terms.All() {
			v, err := term.K.Evaluate()
			if err != nil {
				return fmt.Errorf("coefficient %q is not numeric: %w", term.K.String(), err)
			}
			if _, isConst := term.Element.(Const); isConst {
				constSum += sign * v
				continue
			}
			coeffs[term.Element.CanonicalName()] += sign * v
		}
		return nil
	}
	if err := accumulate(e.Left, 1); err != nil {
		return nil, 0, err
	}
	if err := accumulate(e.Right, -1); err != nil {
		return nil, 0, err
	}

	row := make([]float64, len(unknownOrder))
	for i, name := range unknownOrder {
		row[i] = coeffs[name]
	}
	return row, -constSum, nil
}
