package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forge-ml/forge/internal/tensor"
)

var testPolicy = Policy{
	Name:               "Reference",
	Alignment:          0,
	DefaultInputLayout: tensor.NCHW,
	TransposeFCWeights: false,
}

var vexLikePolicy = Policy{
	Name:               "Vex",
	Alignment:          8,
	DefaultInputLayout: tensor.NHWC,
	TransposeFCWeights: true,
}

func TestWorkspaceAddAndLookup(t *testing.T) {
	ws := NewWorkspace()
	x := tensor.New("x", tensor.NewTensorShape([]int{1, 4}, tensor.NC), tensor.Float32)
	require.NoError(t, ws.AddTensor(x))

	got, ok := ws.GetTensor("x")
	require.True(t, ok)
	assert.Same(t, x, got)

	_, ok = ws.GetTensor("missing")
	assert.False(t, ok)
	assert.Equal(t, 1, ws.NumTensors())
}

func TestWorkspaceRejectsDuplicateTensor(t *testing.T) {
	ws := NewWorkspace()
	x := tensor.New("x", tensor.NewTensorShape([]int{1, 4}, tensor.NC), tensor.Float32)
	require.NoError(t, ws.AddTensor(x))

	dup := tensor.New("x", tensor.NewTensorShape([]int{1, 8}, tensor.NC), tensor.Float32)
	assert.Error(t, ws.AddTensor(dup))
}

func TestWorkspaceRejectsDuplicateOperator(t *testing.T) {
	ws := NewWorkspace()
	op := NewReluOp("relu0", testPolicy, ws)
	require.NoError(t, ws.AddOperator(op))
	assert.Error(t, ws.AddOperator(NewReluOp("relu0", testPolicy, ws)))

	got, ok := ws.GetOperator("relu0")
	require.True(t, ok)
	assert.Same(t, Operator(op), got)
	assert.Equal(t, 1, ws.NumOperators())
}
