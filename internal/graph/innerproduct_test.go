package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forge-ml/forge/internal/tensor"
)

func TestInnerProductShapesUntransposed(t *testing.T) {
	ws := NewWorkspace()
	op := NewInnerProductOp("fc0", testPolicy, ws)
	op.SetNumOutputs(10)

	input := tensor.New("input", tensor.NewTensorShape([]int{1, 256}, tensor.NC), tensor.Float32)
	op.SetInput(input, InnerProductInputs)
	op.CreateAllTensors()

	out := op.GetOutput(0).Shape()
	assert.Equal(t, []int{1, 10}, out.Dims())
	assert.Equal(t, tensor.NC, out.Layout())

	// Weights are stored [inputWidth, numOutputs].
	w := op.GetInput(InnerProductWeights).Shape()
	assert.Equal(t, []int{256, 10}, w.Dims())
	assert.Equal(t, tensor.CN, w.Layout())
	assert.Equal(t, 0, w.Alignment())
}

func TestInnerProductShapesTransposed(t *testing.T) {
	ws := NewWorkspace()
	op := NewInnerProductOp("fc0", vexLikePolicy, ws)
	op.SetNumOutputs(10)

	input := tensor.New("input", tensor.NewTensorShapeAligned([]int{1, 256}, tensor.NC, 8), tensor.Float32)
	op.SetInput(input, InnerProductInputs)
	op.CreateAllTensors()

	out := op.GetOutput(0).Shape()
	assert.Equal(t, []int{1, 10}, out.Dims())
	assert.Equal(t, 8, out.Alignment())

	// Transposed weights are stored [numOutputs, inputWidth].
	w := op.GetInput(InnerProductWeights).Shape()
	assert.Equal(t, []int{10, 256}, w.Dims())
	assert.Equal(t, tensor.NC, w.Layout())
	assert.Equal(t, 8, w.Alignment())
}

func TestInnerProductCreateAllTensorsIdempotent(t *testing.T) {
	ws := NewWorkspace()
	op := NewInnerProductOp("fc0", testPolicy, ws)
	op.SetNumOutputs(10)
	op.SetInput(tensor.New("input", tensor.NewTensorShape([]int{1, 256}, tensor.NC), tensor.Float32), InnerProductInputs)

	op.CreateAllTensors()
	weights := op.GetInput(InnerProductWeights)
	output := op.GetOutput(0)
	op.CreateAllTensors()
	assert.Same(t, weights, op.GetInput(InnerProductWeights))
	assert.Same(t, output, op.GetOutput(0))
}

func TestInnerProductWeightsRegisteredInWorkspace(t *testing.T) {
	ws := NewWorkspace()
	op := NewInnerProductOp("fc0", testPolicy, ws)
	op.SetNumOutputs(4)
	op.SetInput(tensor.New("input", tensor.NewTensorShape([]int{1, 8}, tensor.NC), tensor.Float32), InnerProductInputs)
	op.CreateAllTensors()

	w, ok := ws.GetTensor("fc0/weights")
	require.True(t, ok)
	assert.Same(t, op.GetInput(InnerProductWeights), w)

	params := op.ParameterizableInputs()
	require.Len(t, params, 1)
	assert.Same(t, w, params[0])
}

func TestInnerProductValidate(t *testing.T) {
	ws := NewWorkspace()
	op := NewInnerProductOp("fc0", testPolicy, ws)
	op.SetInput(tensor.New("input", tensor.NewTensorShape([]int{1, 8}, tensor.NC), tensor.Float32), InnerProductInputs)
	assert.False(t, op.Validate(), "numOutputs unset")

	op.SetNumOutputs(4)
	assert.False(t, op.Validate(), "weights not yet bound")

	op.CreateAllTensors()
	assert.True(t, op.Validate())
}
