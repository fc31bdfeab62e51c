package linear

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/yasu-a/spice/pkg/circuit"
	"github.com/yasu-a/spice/pkg/expr"
)

// genTerm yields a Term that is either a NodePotential term or a Const
// term, keyed by a bool so the property below can count each kind.
func genTerm() gopter.Gen {
	return gopter.CombineGens(
		gen.Float64Range(-1e3, 1e3),
		gen.AlphaString(),
		gen.Bool(),
	).Map(func(vals []interface{}) Term {
		k := vals[0].(float64)
		name := vals[1].(string)
		isConst := vals[2].(bool)
		if name == "" {
			name = "n"
		}
		if isConst {
			return NewTerm(expr.Constant{Value: k}, Const{})
		}
		return NewTerm(expr.Constant{Value: k}, NodePotential{Node: circuit.Node{Name: name}})
	})
}

// Invariant 5 (spec.md §8): SplitVarsAndConst partitions every term into
// exactly one of vars/constTerms, so the two halves' lengths always sum to
// the original's, regardless of how many terms of each kind are present.
func TestSplitVarsAndConstPreservesLengthProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("vars.Len() + constTerms.Len() == original.Len()", prop.ForAll(
		func(termList []Term) bool {
			terms := NewTerms(termList)
			vars, consts := terms.SplitVarsAndConst()
			return vars.Len()+consts.Len() == terms.Len()
		},
		gen.SliceOf(genTerm()),
	))

	properties.Property("every split-out term keeps its original coefficient", prop.ForAll(
		func(termList []Term) bool {
			terms := NewTerms(termList)
			vars, consts := terms.SplitVarsAndConst()
			for _, term := range append(vars.All(), consts.All()...) {
				v, err := term.K.Evaluate()
				if err != nil {
					return false
				}
				found := false
				for _, orig := range termList {
					ov, err := orig.K.Evaluate()
					if err == nil && ov == v && orig.Element == term.Element {
						found = true
						break
					}
				}
				if !found {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genTerm()),
	))

	properties.TestingRun(t)
}
