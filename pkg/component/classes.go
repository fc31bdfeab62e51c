package component

import "github.com/yasu-a/spice/pkg/expr"

// ResistorClass computes conductance as the reciprocal of the model value;
// it carries neither a constant voltage nor a constant current.
type ResistorClass struct{}

func (ResistorClass) ClassName() string { return "resistor" }
func (ResistorClass) Prefix() string    { return "r" }

func (ResistorClass) Conductance(inst Instance) (expr.Expr, bool) {
	return expr.Invert{X: inst.Model}, true
}
func (ResistorClass) ConstantVoltage(inst Instance) (expr.Expr, bool) { return nil, false }
func (ResistorClass) ConstantCurrent(inst Instance) (expr.Expr, bool) { return nil, false }

// VoltageSourceClass's constant voltage is the model expression as-is: for
// an independent source that is a plain constant, for a behavioral source
// it is an expression containing probes that pkg/formulate resolves.
type VoltageSourceClass struct{}

func (VoltageSourceClass) ClassName() string { return "voltage_source" }
func (VoltageSourceClass) Prefix() string    { return "v" }

func (VoltageSourceClass) Conductance(inst Instance) (expr.Expr, bool) { return nil, false }
func (VoltageSourceClass) ConstantVoltage(inst Instance) (expr.Expr, bool) {
	return inst.Model, true
}
func (VoltageSourceClass) ConstantCurrent(inst Instance) (expr.Expr, bool) { return nil, false }

// CurrentSourceClass's constant current is the model expression as-is.
type CurrentSourceClass struct{}

func (CurrentSourceClass) ClassName() string { return "current_source" }
func (CurrentSourceClass) Prefix() string    { return "i" }

func (CurrentSourceClass) Conductance(inst Instance) (expr.Expr, bool)     { return nil, false }
func (CurrentSourceClass) ConstantVoltage(inst Instance) (expr.Expr, bool) { return nil, false }
func (CurrentSourceClass) ConstantCurrent(inst Instance) (expr.Expr, bool) {
	return inst.Model, true
}
