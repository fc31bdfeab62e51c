package expr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasu-a/spice/pkg/spiceerr"
)

func TestConstantEvaluate(t *testing.T) {
	v, err := Constant{Value: 5}.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)
}

func TestVariableNotEvaluable(t *testing.T) {
	_, err := Variable{Name: "x"}.Evaluate()
	assert.True(t, errors.Is(err, spiceerr.ErrNotEvaluable))
}

func TestProbeNotEvaluable(t *testing.T) {
	_, err := Probe{Kind: VoltageProbeKind, Name: "n1"}.Evaluate()
	assert.True(t, errors.Is(err, spiceerr.ErrNotEvaluable))
}

func TestSimplifyFoldsConstants(t *testing.T) {
	e := Add{A: Constant{Value: 2}, B: Mul{A: Constant{Value: 3}, B: Constant{Value: 4}}}
	got := e.Simplify()
	c, ok := got.(Constant)
	require.True(t, ok)
	assert.Equal(t, 14.0, c.Value)
}

func TestSimplifyLeavesFreeVariable(t *testing.T) {
	e := Add{A: Constant{Value: 2}, B: Variable{Name: "x"}}
	got := e.Simplify()
	_, isConst := got.(Constant)
	assert.False(t, isConst)
	add, ok := got.(Add)
	require.True(t, ok)
	assert.True(t, add.A.Equal(Constant{Value: 2}))
}

func TestNamedDoesNotDescendIntoChildrenOrSimplify(t *testing.T) {
	body := Add{A: Constant{Value: 1}, B: Constant{Value: 1}}
	n := Named{Name: "gain", X: body}

	assert.Nil(t, n.Children())
	assert.Equal(t, n, n.Simplify())

	v, err := n.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)
}

func TestEqualStructural(t *testing.T) {
	a := Add{A: Constant{Value: 1}, B: Variable{Name: "x"}}
	b := Add{A: Constant{Value: 1}, B: Variable{Name: "x"}}
	c := Add{A: Constant{Value: 1}, B: Variable{Name: "y"}}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestNegateInvertEvaluate(t *testing.T) {
	n := Negate{X: Constant{Value: 3}}
	v, err := n.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, -3.0, v)

	inv := Invert{X: Constant{Value: 4}}
	v, err = inv.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, 0.25, v)
}

func TestCallNeverEvaluates(t *testing.T) {
	c := Call{Name: "f", Args: []Expr{Constant{Value: 1}}}
	_, err := c.Evaluate()
	assert.True(t, errors.Is(err, spiceerr.ErrNotEvaluable))
}
