package formulate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasu-a/spice/pkg/component"
	"github.com/yasu-a/spice/pkg/linear"
	"github.com/yasu-a/spice/pkg/netlist"
)

func parseOrFail(t *testing.T, src string) Formulator {
	t.Helper()
	nl, err := netlist.Parse(src, component.DefaultRegistry())
	require.NoError(t, err)
	return New(nl.Graph())
}

// solve is a minimal dense Gauss elimination used only to check the
// matrices this package assembles; the production solver lives in
// pkg/solve.
func solve(t *testing.T, a [][]float64, c []float64) []float64 {
	t.Helper()
	n := len(a)
	aug := make([][]float64, n)
	for i := range a {
		aug[i] = append(append([]float64{}, a[i]...), c[i])
	}
	for col := 0; col < n; col++ {
		pivot := -1
		for row := col; row < n; row++ {
			if aug[row][col] != 0 {
				pivot = row
				break
			}
		}
		require.GreaterOrEqual(t, pivot, 0, "singular system at column %d", col)
		aug[col], aug[pivot] = aug[pivot], aug[col]
		pv := aug[col][col]
		for k := col; k <= n; k++ {
			aug[col][k] /= pv
		}
		for row := 0; row < n; row++ {
			if row == col {
				continue
			}
			factor := aug[row][col]
			for k := col; k <= n; k++ {
				aug[row][k] -= factor * aug[col][k]
			}
		}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = aug[i][n]
	}
	return out
}

func solutionMap(unknowns []string, x []float64) map[string]float64 {
	out := make(map[string]float64, len(unknowns))
	for i, name := range unknowns {
		out[name] = x[i]
	}
	return out
}

func TestOhmOnlyForConductiveEdges(t *testing.T) {
	f := parseOrFail(t, "S1\nV1 a 0 10\nR1 a 0 1k\n")
	ohm := f.Ohm()
	require.Len(t, ohm, 1)
	assert.Equal(t, "R1", ohm[0].Left.First().Element.(linear.EdgeCurrent).Edge.Name())
}

func TestKCLSignConvention(t *testing.T) {
	f := parseOrFail(t, "S1\nV1 a 0 10\nR1 a 0 1k\n")
	eqForA := f.KCL()[indexOfNode(f, "a")]
	require.Len(t, eqForA.Left.All(), 2)
	for _, term := range eqForA.Left.All() {
		v, err := term.K.Evaluate()
		require.NoError(t, err)
		assert.Equal(t, float64(1), v, "both V1 and R1 meet node a at their high port")
	}
}

func indexOfNode(f Formulator, name string) int {
	for i, n := range f.graph.Nodes() {
		if n.Name == name {
			return i
		}
	}
	return -1
}

func TestTotalSystemSingleResistor(t *testing.T) {
	// S1: source across a single resistor.
	f := parseOrFail(t, "S1\nV1 a 0 10\nR1 a 0 1k\n")
	system, err := f.TotalSystem()
	require.NoError(t, err)
	assert.Len(t, system, len(Unknowns(system)))

	unknowns, a, c, err := Matrix(system)
	require.NoError(t, err)
	x := solve(t, a, c)
	sol := solutionMap(unknowns, x)

	results, err := f.Results(sol)
	require.NoError(t, err)
	assert.InDelta(t, 10, results["_e_a"], 1e-9)
	assert.InDelta(t, 0, results["_e_0"], 1e-9)
	assert.InDelta(t, 0.01, results["_i_r1"], 1e-9)
	assert.InDelta(t, 10, results["_v_r1"], 1e-9)
}

func TestTotalSystemVoltageDivider(t *testing.T) {
	// S2: 9V across a 1k/2k divider.
	f := parseOrFail(t, "S2\nV1 a 0 9\nR1 a b 1k\nR2 b 0 2k\n")
	system, err := f.TotalSystem()
	require.NoError(t, err)
	assert.Len(t, system, len(Unknowns(system)))

	unknowns, a, c, err := Matrix(system)
	require.NoError(t, err)
	x := solve(t, a, c)
	sol := solutionMap(unknowns, x)

	results, err := f.Results(sol)
	require.NoError(t, err)
	assert.InDelta(t, 9, results["_e_a"], 1e-9)
	assert.InDelta(t, 6, results["_e_b"], 1e-9)
	assert.InDelta(t, 0.003, results["_i_r1"], 1e-9)
	assert.InDelta(t, 0.003, results["_i_r2"], 1e-9)
}

func TestTotalSystemParallelResistorsWithCurrentSource(t *testing.T) {
	// S3: a 1mA current source feeding two parallel 1k resistors.
	f := parseOrFail(t, "S3\nI1 a 0 1m\nR1 a 0 1k\nR2 a 0 1k\n")
	system, err := f.TotalSystem()
	require.NoError(t, err)
	assert.Len(t, system, len(Unknowns(system)))

	unknowns, a, c, err := Matrix(system)
	require.NoError(t, err)
	x := solve(t, a, c)
	sol := solutionMap(unknowns, x)

	results, err := f.Results(sol)
	require.NoError(t, err)
	// Two 1k resistors in parallel present 500 ohms to a 1mA source; the
	// high-port-sign-positive convention (same for every class, including
	// sources) makes a positive source current pull node a negative here.
	assert.InDelta(t, -0.5, results["_e_a"], 1e-9)
	assert.InDelta(t, -0.0005, results["_i_r1"], 1e-9)
	assert.InDelta(t, -0.0005, results["_i_r2"], 1e-9)
}

func TestTotalSystemBehavioralVoltageGain(t *testing.T) {
	// S4: E1 enforces V(c) = 2*V(b), an ideal gain stage that draws no
	// current from b.
	f := parseOrFail(t, "S4\nV1 a 0 3\nR1 a b 1k\nR2 b 0 1k\nE1 c 0 vs=2*V(b)\nR3 c 0 1k\n")
	system, err := f.TotalSystem()
	require.NoError(t, err)
	assert.Len(t, system, len(Unknowns(system)))

	unknowns, a, c, err := Matrix(system)
	require.NoError(t, err)
	x := solve(t, a, c)
	sol := solutionMap(unknowns, x)

	results, err := f.Results(sol)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, results["_e_b"], 1e-9)
	assert.InDelta(t, 3, results["_e_c"], 1e-9)
}

func TestUnknownsCountsOnlyVariableLeftElements(t *testing.T) {
	f := parseOrFail(t, "S1\nV1 a 0 10\nR1 a 0 1k\n")
	system, err := f.TotalSystem()
	require.NoError(t, err)
	unknowns := Unknowns(system)
	assert.Len(t, unknowns, 3)
	assert.True(t, unknowns["_e_a"])
	assert.True(t, unknowns["_e_0"])
	assert.True(t, unknowns["_i_v1"])
}
