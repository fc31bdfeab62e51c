// Package formulate turns a parsed circuit graph into the symbolic
// equation sets of the system: Ohm's law, KCL, KVL, their substituted
// forms, and the final square total system ready for pkg/solve.
package formulate

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yasu-a/spice/pkg/circuit"
	"github.com/yasu-a/spice/pkg/component"
	"github.com/yasu-a/spice/pkg/expr"
	"github.com/yasu-a/spice/pkg/linear"
	"github.com/yasu-a/spice/pkg/spiceerr"
)

// Formulator derives equation sets from a single circuit graph.
type Formulator struct {
	graph  circuit.Graph
	logger zerolog.Logger
}

// New wraps graph, logging through the package-level zerolog logger.
func New(graph circuit.Graph) Formulator {
	return Formulator{graph: graph, logger: log.Logger}
}

// WithLogger returns a copy of f that logs through logger instead of the
// package default.
func (f Formulator) WithLogger(logger zerolog.Logger) Formulator {
	f.logger = logger
	return f
}

func instanceOf(e circuit.Edge) component.Instance {
	return e.Component.(component.Instance)
}

// Ohm returns, for every edge whose class defines a conductance, the
// equation I_edge = conductance · V_edge.
func (f Formulator) Ohm() linear.EquationSet {
	var out linear.EquationSet
	for _, e := range f.graph.Edges() {
		g, ok := instanceOf(e).Conductance()
		if !ok {
			continue
		}
		left := linear.FromVariable(linear.EdgeCurrent{Edge: e})
		right := linear.FromVariable(linear.EdgeVoltage{Edge: e}).Scale(g)
		out = append(out, linear.NewEquation(left, right))
	}
	f.logger.Debug().Int("equations", len(out)).Msg("formulated ohm's law")
	return out
}

// KCL returns, for every node, the signed sum of incident edge currents =
// 0.
func (f Formulator) KCL() linear.EquationSet {
	var out linear.EquationSet
	for _, n := range f.graph.Nodes() {
		var terms []linear.Term
		for _, pp := range f.graph.PortsWithNode(n) {
			terms = append(terms, linear.NewTerm(
				expr.Constant{Value: pp.CurrentFlowSign},
				linear.EdgeCurrent{Edge: pp.Edge},
			))
		}
		out = append(out, linear.FromLeft(linear.NewTerms(terms)))
	}
	f.logger.Debug().Int("equations", len(out)).Msg("formulated kcl")
	return out
}

// KVL returns, for every edge, V_edge = E_high - E_low.
func (f Formulator) KVL() linear.EquationSet {
	var out linear.EquationSet
	for _, e := range f.graph.Edges() {
		inst := instanceOf(e)
		left := linear.FromVariable(linear.EdgeVoltage{Edge: e})
		right := linear.NewTerms([]linear.Term{
			linear.NewTerm(expr.PosOne, linear.NodePotential{Node: inst.NodeHigh}),
			linear.NewTerm(expr.NegOne, linear.NodePotential{Node: inst.NodeLow}),
		})
		out = append(out, linear.NewEquation(left, right))
	}
	return out
}

// NodePotentialSubstitutedOhm is Ohm() <<= KVL(): every edge's current in
// terms of the two node potentials it bridges.
func (f Formulator) NodePotentialSubstitutedOhm() (linear.EquationSet, error) {
	ohm, err := f.Ohm().Substitute(f.KVL())
	if err != nil {
		return nil, fmt.Errorf("substituting kvl into ohm's law: %w", err)
	}
	return ohm, nil
}

// SubstitutedKCL is KCL() <<= NodePotentialSubstitutedOhm(): one equation
// per node purely over node potentials.
func (f Formulator) SubstitutedKCL() (linear.EquationSet, error) {
	ohm, err := f.NodePotentialSubstitutedOhm()
	if err != nil {
		return nil, err
	}
	kcl, err := f.KCL().Substitute(ohm)
	if err != nil {
		return nil, fmt.Errorf("substituting ohm's law into kcl: %w", err)
	}
	return kcl, nil
}

// linearizeProducer decomposes a behavioral source's body into a Terms
// value: every additive term must be a plain evaluable constant or a
// scaled probe (expr.AsLinearProbe), matching original_source/netlist.py's
// parse_linear contract. A probed term becomes a genuine circuit-variable
// term rather than an opaque constant, so it folds directly into the
// matrix row instead of smuggling an unknown inside a coefficient.
func (f Formulator) linearizeProducer(e expr.Expr) (linear.Terms, error) {
	var termList []linear.Term
	for _, addend := range flattenAddends(e.Simplify()) {
		if factor, name, kind, ok := expr.AsLinearProbe(addend); ok {
			variable, err := f.variableForProbe(kind, name)
			if err != nil {
				return linear.Terms{}, err
			}
			termList = append(termList, linear.NewTerm(expr.Constant{Value: factor}, variable))
			continue
		}
		v, err := addend.Evaluate()
		if err != nil {
			return linear.Terms{}, fmt.Errorf(
				"behavioral source term %q is neither constant nor a scaled probe: %w",
				addend.String(), spiceerr.ErrType,
			)
		}
		termList = append(termList, linear.NewTerm(expr.Constant{Value: v}, linear.Const{}))
	}
	return linear.NewTerms(termList), nil
}

func flattenAddends(e expr.Expr) []expr.Expr {
	if add, ok := e.(expr.Add); ok {
		return append(flattenAddends(add.A), flattenAddends(add.B)...)
	}
	return []expr.Expr{e}
}

func (f Formulator) variableForProbe(kind expr.ProbeKind, name string) (linear.Variable, error) {
	switch kind {
	case expr.VoltageProbeKind:
		return linear.NodePotential{Node: circuit.Node{Name: name}}, nil
	case expr.CurrentProbeKind:
		for _, e := range f.graph.Edges() {
			if strings.EqualFold(e.Name(), name) {
				return linear.EdgeCurrent{Edge: e}, nil
			}
		}
		return nil, fmt.Errorf("current probe I(%s) names no edge in this circuit: %w", name, spiceerr.ErrParse)
	default:
		return nil, fmt.Errorf("unknown probe kind %v", kind)
	}
}

// ExpressionsForVoltage returns, for every edge with a constant-voltage
// producer, V_edge = e (e linearized per linearizeProducer).
func (f Formulator) ExpressionsForVoltage() (linear.EquationSet, error) {
	var out linear.EquationSet
	for _, e := range f.graph.Edges() {
		v, ok := instanceOf(e).ConstantVoltage()
		if !ok {
			continue
		}
		right, err := f.linearizeProducer(v)
		if err != nil {
			return nil, fmt.Errorf("edge %q: %w", e.Name(), err)
		}
		out = append(out, linear.NewEquation(linear.FromVariable(linear.EdgeVoltage{Edge: e}), right))
	}
	return out, nil
}

// ExpressionsForCurrent returns, for every edge with a constant-current
// producer, I_edge = j (j linearized per linearizeProducer).
func (f Formulator) ExpressionsForCurrent() (linear.EquationSet, error) {
	var out linear.EquationSet
	for _, e := range f.graph.Edges() {
		j, ok := instanceOf(e).ConstantCurrent()
		if !ok {
			continue
		}
		right, err := f.linearizeProducer(j)
		if err != nil {
			return nil, fmt.Errorf("edge %q: %w", e.Name(), err)
		}
		out = append(out, linear.NewEquation(linear.FromVariable(linear.EdgeCurrent{Edge: e}), right))
	}
	return out, nil
}

// ExpressionsForPotential is ExpressionsForVoltage() <<= KVL(), plus the
// grounded node's E_0 = 0.
func (f Formulator) ExpressionsForPotential() (linear.EquationSet, error) {
	voltages, err := f.ExpressionsForVoltage()
	if err != nil {
		return nil, err
	}
	substituted, err := voltages.Substitute(f.KVL())
	if err != nil {
		return nil, fmt.Errorf("substituting kvl into voltage expressions: %w", err)
	}
	ground := linear.NewEquation(
		linear.FromVariable(linear.NodePotential{Node: circuit.Node{Name: "0"}}),
		linear.FromExpr(expr.Zero),
	)
	return append(substituted, ground), nil
}

// TotalSystem assembles the final square system: SubstitutedKCL() minus
// its first row in sorted node order (the eliminated redundant KCL
// equation, compensated by ExpressionsForPotential's grounded-node
// equation), union ExpressionsForPotential(), union ExpressionsForCurrent().
// Any current probe naming an edge whose current is not otherwise in the
// standing unknown set pulls in that edge's NodePotentialSubstitutedOhm
// equation to keep the system square.
func (f Formulator) TotalSystem() (linear.EquationSet, error) {
	substKCL, err := f.SubstitutedKCL()
	if err != nil {
		return nil, err
	}
	if len(substKCL) == 0 {
		return nil, fmt.Errorf("circuit has no nodes: %w", spiceerr.ErrShape)
	}
	substKCL = substKCL[1:]

	potentials, err := f.ExpressionsForPotential()
	if err != nil {
		return nil, err
	}
	currents, err := f.ExpressionsForCurrent()
	if err != nil {
		return nil, err
	}

	system := make(linear.EquationSet, 0, len(substKCL)+len(potentials)+len(currents))
	system = append(system, substKCL...)
	system = append(system, potentials...)
	system = append(system, currents...)

	system, err = f.closeOverCurrentProbes(system)
	if err != nil {
		return nil, err
	}

	unknowns := Unknowns(system)
	if len(unknowns) != len(system) {
		return nil, fmt.Errorf(
			"assembled %d equations for %d unknowns: %w",
			len(system), len(unknowns), spiceerr.ErrShape,
		)
	}
	f.logger.Debug().
		Int("equations", len(system)).
		Int("unknowns", len(unknowns)).
		Msg("assembled total system")
	return system, nil
}

// closeOverCurrentProbes pulls in one NodePotentialSubstitutedOhm equation
// for every edge that linearizeProducer referenced (via a current probe)
// but that system does not already constrain directly.
func (f Formulator) closeOverCurrentProbes(system linear.EquationSet) (linear.EquationSet, error) {
	standing := Unknowns(system)

	referenced := make(map[string]circuit.Edge)
	for _, eq := range system {
		for _, term := range eq.Right.All() {
			if ec, ok := term.Element.(linear.EdgeCurrent); ok {
				referenced[ec.CanonicalName()] = ec.Edge
			}
		}
	}

	ohm, err := f.NodePotentialSubstitutedOhm()
	if err != nil {
		return nil, err
	}
	ohmByName := make(map[string]linear.Equation, len(ohm))
	for _, eq := range ohm {
		if eq.Left.Single() {
			ohmByName[eq.Left.First().Element.CanonicalName()] = eq
		}
	}

	var extra linear.EquationSet
	for name := range referenced {
		if standing[name] {
			continue
		}
		eq, ok := ohmByName[name]
		if !ok {
			return nil, fmt.Errorf("current probe references edge with no known law (%s): %w", name, spiceerr.ErrShape)
		}
		extra = append(extra, eq)
	}
	return append(system, extra...), nil
}

// Unknowns returns the set of canonical variable names appearing in any
// left-hand side of system.
func Unknowns(system linear.EquationSet) map[string]bool {
	out := make(map[string]bool)
	for _, eq := range system {
		for _, term := range eq.Left.All() {
			if _, isConst := term.Element.(linear.Const); !isConst {
				out[term.Element.CanonicalName()] = true
			}
		}
	}
	return out
}
