// Package linear implements the LinearTerm/LinearTerms/LinearEquation/
// LinearEquationSet algebra: symbolic linear combinations of circuit
// variables, with substitution as the central operation.
package linear

import "github.com/yasu-a/spice/pkg/circuit"

// Variable is the closed sum type a Term can scale: an edge's current, an
// edge's voltage, a node's potential, or the distinguished constant slot.
// This replaces the source's runtime isinstance dispatch against four
// variable kinds with a closed interface: the unexported isVariable method
// keeps other packages from adding kinds. Consumers tell the kinds apart
// with type assertions (e.g. on Const or EdgeCurrent) or by CanonicalName.
type Variable interface {
	// CanonicalName is the lowercase `_i_/_v_/_e_`-prefixed name the
	// formulator renames this variable to in the final system. Const has
	// no canonical name and is never renamed.
	CanonicalName() string
	isVariable()
}

// EdgeCurrent is the branch current through an edge.
type EdgeCurrent struct{ Edge circuit.Edge }

func (EdgeCurrent) isVariable() {}
func (v EdgeCurrent) CanonicalName() string { return "_i_" + toLower(v.Edge.Name()) }

// EdgeVoltage is the potential difference across an edge.
type EdgeVoltage struct{ Edge circuit.Edge }

func (EdgeVoltage) isVariable() {}
func (v EdgeVoltage) CanonicalName() string { return "_v_" + toLower(v.Edge.Name()) }

// NodePotential is a node's potential relative to ground.
type NodePotential struct{ Node circuit.Node }

func (NodePotential) isVariable() {}
func (v NodePotential) CanonicalName() string { return "_e_" + toLower(v.Node.Name) }

// Const is the distinguished sentinel element carrying a pure constant
// expression inside a Terms list; SplitVarsAndConst partitions on it.
type Const struct{}

func (Const) isVariable()           {}
func (Const) CanonicalName() string { return "" }

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
