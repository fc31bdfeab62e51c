package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleConstant(t *testing.T) {
	e, err := Parse("1k")
	require.NoError(t, err)
	v, err := e.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 1000.0, v)
}

func TestParseUnitSuffixes(t *testing.T) {
	cases := map[string]float64{
		"1G":    1e9,
		"1Meg":  1e6,
		"2.2k":  2200,
		"10m":   0.01,
		"1u":    1e-6,
		"100n":  100e-9,
		"5p":    5e-12,
		"3":     3,
		"1.5e3": 1500,
	}
	for src, want := range cases {
		e, err := Parse(src)
		require.NoError(t, err, src)
		v, err := e.Evaluate()
		require.NoError(t, err, src)
		assert.InDelta(t, want, v, want*1e-9+1e-15, src)
	}
}

func TestParseArithmetic(t *testing.T) {
	e, err := Parse("1k + 2k * 3")
	require.NoError(t, err)
	v, err := e.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 7000.0, v)
}

func TestParseUnaryMinus(t *testing.T) {
	e, err := Parse("-5")
	require.NoError(t, err)
	v, err := e.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, -5.0, v)
}

func TestParseProbeCall(t *testing.T) {
	e, err := Parse("2 * V(out)")
	require.NoError(t, err)
	mul, ok := e.(Mul)
	require.True(t, ok)
	p, ok := mul.B.(Probe)
	require.True(t, ok)
	assert.Equal(t, "out", p.Name)
	assert.Equal(t, VoltageProbeKind, p.Kind)
}

func TestParseCurrentProbe(t *testing.T) {
	e, err := Parse("I(R1)")
	require.NoError(t, err)
	p, ok := e.(Probe)
	require.True(t, ok)
	assert.Equal(t, CurrentProbeKind, p.Kind)
	assert.Equal(t, "R1", p.Name)
}

func TestParseGenericCall(t *testing.T) {
	e, err := Parse("f(1, 2)")
	require.NoError(t, err)
	c, ok := e.(Call)
	require.True(t, ok)
	assert.Equal(t, "f", c.Name)
	assert.Len(t, c.Args, 2)
}

func TestParseAssignment(t *testing.T) {
	e, err := Parse("gain = 2 * V(out)")
	require.NoError(t, err)
	n, ok := e.(Named)
	require.True(t, ok)
	assert.Equal(t, "gain", n.Name)
}

func TestParseRejectsUnsupportedOperator(t *testing.T) {
	_, err := Parse("1 - 2")
	assert.Error(t, err)
}

func TestParseRejectsDivision(t *testing.T) {
	_, err := Parse("1 / 2")
	assert.Error(t, err)
}

func TestParseEmptyIsError(t *testing.T) {
	_, err := Parse("   ")
	assert.Error(t, err)
}
