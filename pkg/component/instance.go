// Package component catalogs the species of circuit element this system
// understands (resistor, independent V-source, independent I-source) and
// the parsed instances built from netlist lines.
//
// Behavioral sources are not a separate species: a V-source or I-source
// instance whose model expression contains probes is already behavioral,
// since Class.ConstantVoltage/ConstantCurrent simply return the parsed
// expression verbatim, probes included. pkg/formulate resolves those
// probes when it renders the final system.
package component

import (
	"github.com/yasu-a/spice/pkg/circuit"
	"github.com/yasu-a/spice/pkg/expr"
)

// Class is a variant describing one species of component: which of the
// three producers it defines and how each computes an expression from an
// instance's model. Each concrete Class carries its expression template
// directly instead of storing a function value, so dispatch is a type
// switch or interface call rather than invoking a stored closure.
type Class interface {
	ClassName() string
	Prefix() string

	// Conductance, ConstantVoltage, ConstantCurrent report whether this
	// class defines that producer for inst, and the expression it
	// yields. A producer that is not defined on this class returns
	// ok=false, distinct from a defined producer whose expression
	// evaluates to zero.
	Conductance(inst Instance) (expr.Expr, bool)
	ConstantVoltage(inst Instance) (expr.Expr, bool)
	ConstantCurrent(inst Instance) (expr.Expr, bool)
}

// Instance is one parsed netlist line: its class, name, the two nodes
// bound to the high/low ports, and its value expression.
type Instance struct {
	Class      Class
	Name       string
	NodeHigh   circuit.Node
	NodeLow    circuit.Node
	Model      expr.Expr
	SourceLine string
}

func (inst Instance) InstanceName() string { return inst.Name }

// NodeAt implements circuit.Component.
func (inst Instance) NodeAt(side circuit.PortSide) circuit.Node {
	if side == circuit.PortHigh {
		return inst.NodeHigh
	}
	return inst.NodeLow
}

func (inst Instance) Conductance() (expr.Expr, bool)     { return inst.Class.Conductance(inst) }
func (inst Instance) ConstantVoltage() (expr.Expr, bool) { return inst.Class.ConstantVoltage(inst) }
func (inst Instance) ConstantCurrent() (expr.Expr, bool) { return inst.Class.ConstantCurrent(inst) }
