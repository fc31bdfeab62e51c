package formulate

import (
	"fmt"
	"sort"

	"github.com/yasu-a/spice/pkg/circuit"
	"github.com/yasu-a/spice/pkg/linear"
	"github.com/yasu-a/spice/pkg/spiceerr"
)

// SortedUnknowns returns the canonical names of system's unknowns in
// ascending order, the column order pkg/solve's matrix uses.
func SortedUnknowns(system linear.EquationSet) []string {
	set := Unknowns(system)
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Matrix renders system as a dense A·x = c system over SortedUnknowns's
// column order, one row per equation in system's order.
func Matrix(system linear.EquationSet) (unknowns []string, a [][]float64, c []float64, err error) {
	unknowns = SortedUnknowns(system)
	a = make([][]float64, len(system))
	c = make([]float64, len(system))
	for i, eq := range system {
		row, rhs, rowErr := eq.ToMatrixRow(unknowns)
		if rowErr != nil {
			return nil, nil, nil, fmt.Errorf("equation %d: %w", i, rowErr)
		}
		a[i] = row
		c[i] = rhs
	}
	return unknowns, a, c, nil
}

// Results expands a solved unknown assignment (canonical name -> value)
// into every edge's current and voltage, deriving the quantities that were
// never matrix unknowns on their own (e.g. a plain resistor's current,
// folded away during SubstitutedKCL) via Ohm's law and KVL.
func (f Formulator) Results(solution map[string]float64) (map[string]float64, error) {
	out := make(map[string]float64, len(solution))
	for k, v := range solution {
		out[k] = v
	}

	nodeValue := func(n circuit.Node) (float64, error) {
		if n.IsGround() {
			return 0, nil
		}
		name := linear.NodePotential{Node: n}.CanonicalName()
		v, ok := out[name]
		if !ok {
			return 0, fmt.Errorf("no solved value for node %q: %w", n.Name, spiceerr.ErrShape)
		}
		return v, nil
	}

	for _, e := range f.graph.Edges() {
		inst := instanceOf(e)
		vHigh, err := nodeValue(inst.NodeHigh)
		if err != nil {
			return nil, err
		}
		vLow, err := nodeValue(inst.NodeLow)
		if err != nil {
			return nil, err
		}
		voltage := vHigh - vLow
		out[linear.EdgeVoltage{Edge: e}.CanonicalName()] = voltage

		if g, ok := inst.Conductance(); ok {
			gVal, err := g.Simplify().Evaluate()
			if err != nil {
				return nil, fmt.Errorf("conductance of %q is not numeric: %w", e.Name(), err)
			}
			out[linear.EdgeCurrent{Edge: e}.CanonicalName()] = gVal * voltage
		}
	}
	return out, nil
}
