package linear

import (
	"fmt"

	"github.com/yasu-a/spice/pkg/expr"
	"github.com/yasu-a/spice/pkg/spiceerr"
)

// Term is k·element. The coefficient is always simplified at construction.
type Term struct {
	K       expr.Expr
	Element Variable
}

// NewTerm folds k once, up front, so every Term already carries its
// simplest coefficient.
func NewTerm(k expr.Expr, element Variable) Term {
	return Term{K: k.Simplify(), Element: element}
}

func (t Term) Negate() Term {
	return NewTerm(expr.Negate{X: t.K}, t.Element)
}

// Scale returns t with its coefficient multiplied by s: (s*k)·element.
func (t Term) Scale(s expr.Expr) Term {
	return NewTerm(expr.Mul{A: s, B: t.K}, t.Element)
}

func (t Term) String() string {
	return fmt.Sprintf("%s %s", t.K.String(), t.Element.CanonicalName())
}

// Terms is an ordered list of Term. Arithmetic is vector-shaped: no
// like-term combining, addition concatenates, multiplication distributes.
type Terms struct {
	terms []Term
}

// NewTerms wraps an existing term slice without copying semantics beyond
// what the caller already owns.
func NewTerms(terms []Term) Terms { return Terms{terms: terms} }

// FromVariable coerces a bare variable into a single unit-coefficient term.
func FromVariable(v Variable) Terms { return Terms{terms: []Term{NewTerm(expr.PosOne, v)}} }

// FromExpr coerces a bare expression into a single constant term.
func FromExpr(e expr.Expr) Terms { return Terms{terms: []Term{NewTerm(e, Const{})}} }

func (t Terms) Len() int    { return len(t.terms) }
func (t Terms) Single() bool { return len(t.terms) == 1 }

func (t Terms) First() Term { return t.terms[0] }

func (t Terms) All() []Term {
	out := make([]Term, len(t.terms))
	copy(out, t.terms)
	return out
}

func (t Terms) Negate() Terms {
	out := make([]Term, len(t.terms))
	for i, term := range t.terms {
		out[i] = term.Negate()
	}
	return Terms{terms: out}
}

func (t Terms) Add(other Terms) Terms {
	out := make([]Term, 0, len(t.terms)+len(other.terms))
	out = append(out, t.terms...)
	out = append(out, other.terms...)
	return Terms{terms: out}
}

func (t Terms) Sub(other Terms) Terms { return t.Add(other.Negate()) }

func (t Terms) Scale(s expr.Expr) Terms {
	out := make([]Term, len(t.terms))
	for i, term := range t.terms {
		out[i] = term.Scale(s)
	}
	return Terms{terms: out}
}

// SplitVarsAndConst partitions into the variable-bearing terms and the
// constant-bearing terms. vars and constTerms together carry every term of
// the original (Invariant 5: vars + const ≡ original).
func (t Terms) SplitVarsAndConst() (vars Terms, constTerms Terms) {
	var v, c []Term
	for _, term := range t.terms {
		if _, isConst := term.Element.(Const); isConst {
			c = append(c, term)
		} else {
			v = append(v, term)
		}
	}
	return Terms{terms: v}, Terms{terms: c}
}

func (t Terms) String() string {
	if len(t.terms) == 0 {
		return "0"
	}
	s := ""
	for i, term := range t.terms {
		if i > 0 {
			s += " + "
		}
		s += term.String()
	}
	return s
}

// Sum flattens a set of term-like inputs into one Terms. Each item must be
// nil, a Term, a Terms, a Variable, an expr.Expr, or a float64/int (0 maps
// to no terms, nonzero becomes a constant term); anything else is a
// TypeError.
func Sum(items []any) (Terms, error) {
	var out []Term
	for _, item := range items {
		coerced, err := coerce(item)
		if err != nil {
			return Terms{}, err
		}
		out = append(out, coerced.terms...)
	}
	return Terms{terms: out}, nil
}

func coerce(item any) (Terms, error) {
	switch v := item.(type) {
	case nil:
		return Terms{}, nil
	case Terms:
		return v, nil
	case Term:
		return Terms{terms: []Term{v}}, nil
	case []Term:
		return Terms{terms: v}, nil
	case Variable:
		return FromVariable(v), nil
	case expr.Expr:
		return FromExpr(v), nil
	case float64:
		if v == 0 {
			return Terms{}, nil
		}
		return FromExpr(expr.Constant{Value: v}), nil
	case int:
		if v == 0 {
			return Terms{}, nil
		}
		return FromExpr(expr.Constant{Value: float64(v)}), nil
	default:
		return Terms{}, fmt.Errorf("cannot coerce %T to LinearTerms: %w", item, spiceerr.ErrType)
	}
}
