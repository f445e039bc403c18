package backend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forge-ml/forge/internal/backend"
	_ "github.com/forge-ml/forge/internal/backend/ref"
	_ "github.com/forge-ml/forge/internal/backend/vex"
	"github.com/forge-ml/forge/internal/graph"
)

func TestNewOperatorKnownPair(t *testing.T) {
	ws := graph.NewWorkspace()
	op, err := backend.NewOperator(graph.InnerProduct, backend.Reference, "fc0", ws)
	require.NoError(t, err)
	assert.Equal(t, "fc0", op.Name())
	assert.Equal(t, graph.InnerProduct, op.Type())
	assert.Equal(t, string(backend.Reference), op.Policy().Name)

	registered, ok := ws.GetOperator("fc0")
	require.True(t, ok)
	assert.Same(t, op, registered)
}

func TestNewOperatorPolicyPerBackend(t *testing.T) {
	ws := graph.NewWorkspace()
	refOp, err := backend.NewOperator(graph.Convolution, backend.Reference, "conv_ref", ws)
	require.NoError(t, err)
	vexOp, err := backend.NewOperator(graph.Convolution, backend.Vex, "conv_vex", ws)
	require.NoError(t, err)

	assert.Equal(t, 0, refOp.Policy().Alignment)
	assert.Equal(t, 8, vexOp.Policy().Alignment)
	assert.False(t, refOp.Policy().TransposeFCWeights)
	assert.True(t, vexOp.Policy().TransposeFCWeights)
}

func TestNewOperatorUnknownPair(t *testing.T) {
	ws := graph.NewWorkspace()
	_, err := backend.NewOperator(graph.Relu, backend.Name("Quantum"), "relu0", ws)
	assert.Error(t, err)
}

func TestNewOperatorDuplicateName(t *testing.T) {
	ws := graph.NewWorkspace()
	_, err := backend.NewOperator(graph.Relu, backend.Reference, "relu0", ws)
	require.NoError(t, err)
	_, err = backend.NewOperator(graph.Relu, backend.Reference, "relu0", ws)
	assert.Error(t, err)
}

func TestSupportedOpsCoverBothBackends(t *testing.T) {
	want := []graph.OpType{
		graph.Convolution, graph.DepthwiseConvolution,
		graph.InnerProduct, graph.BatchNorm,
		graph.MaxPooling, graph.AvgPooling,
		graph.EltwiseAdd, graph.EltwiseMul,
		graph.Relu, graph.Sigmoid, graph.Tanh, graph.HardTanh,
		graph.Elu, graph.Selu, graph.Softmax, graph.Reorder,
	}
	for _, b := range []backend.Name{backend.Reference, backend.Vex} {
		got := backend.SupportedOps(b)
		assert.Len(t, got, len(want), "backend %s", b)
		for _, op := range want {
			assert.Contains(t, got, op, "backend %s missing %s", b, op)
		}
	}
}
