package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forge-ml/forge/internal/tensor"
)

func TestConvolutionShapesNCHW(t *testing.T) {
	ws := NewWorkspace()
	op := NewConvolutionOp("conv0", testPolicy, ws)
	op.SetNumOfmaps(8)
	op.SetKernelShape(3, 3)
	op.SetStride(1, 1)
	op.SetPadding(SamePadding)

	input := tensor.New("input", tensor.NewTensorShape([]int{1, 2, 5, 5}, tensor.NCHW), tensor.Float32)
	op.SetInput(input, ConvolutionInputs)
	op.CreateAllTensors()

	out := op.GetOutput(0).Shape()
	assert.Equal(t, []int{1, 8, 5, 5}, out.Dims())
	assert.Equal(t, tensor.NCHW, out.Layout())

	w := op.GetInput(ConvolutionWeights).Shape()
	assert.Equal(t, []int{8, 2, 3, 3}, w.Dims())
	assert.Equal(t, tensor.NCHW, w.Layout())
}

func TestConvolutionShapesNHWC(t *testing.T) {
	ws := NewWorkspace()
	op := NewConvolutionOp("conv0", vexLikePolicy, ws)
	op.SetNumOfmaps(8)
	op.SetKernelShape(3, 3)

	input := tensor.New("input", tensor.NewTensorShapeAligned([]int{1, 5, 5, 2}, tensor.NHWC, 8), tensor.Float32)
	op.SetInput(input, ConvolutionInputs)
	op.CreateAllTensors()

	out := op.GetOutput(0).Shape()
	assert.Equal(t, []int{1, 5, 5, 8}, out.Dims())
	assert.Equal(t, tensor.NHWC, out.Layout())
	assert.Equal(t, 8, out.Alignment())

	w := op.GetInput(ConvolutionWeights).Shape()
	assert.Equal(t, []int{8, 3, 3, 2}, w.Dims())
	assert.Equal(t, tensor.NHWC, w.Layout())
}

func TestConvolutionOutputExtents(t *testing.T) {
	tests := []struct {
		name               string
		inRows, inCols     int
		kRows, kCols       int
		rowStride, colStride int
		padding            PaddingType
		wantRows, wantCols int
	}{
		{"same stride 1", 8, 8, 3, 3, 1, 1, SamePadding, 8, 8},
		{"same stride 2", 8, 8, 3, 3, 2, 2, SamePadding, 4, 4},
		{"valid stride 1", 8, 8, 3, 3, 1, 1, ValidPadding, 6, 6},
		{"valid stride 2", 7, 7, 3, 3, 2, 2, ValidPadding, 3, 3},
		{"same odd input", 5, 7, 3, 5, 2, 2, SamePadding, 3, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := NewWorkspace()
			op := NewConvolutionOp("conv0", testPolicy, ws)
			op.SetNumOfmaps(1)
			op.SetKernelShape(tt.kRows, tt.kCols)
			op.SetStride(tt.rowStride, tt.colStride)
			op.SetPadding(tt.padding)
			input := tensor.New("input",
				tensor.NewTensorShape([]int{1, 1, tt.inRows, tt.inCols}, tensor.NCHW), tensor.Float32)
			op.SetInput(input, ConvolutionInputs)

			out := op.InferOutputShape()
			assert.Equal(t, []int{1, 1, tt.wantRows, tt.wantCols}, out.Dims())
		})
	}
}

func TestConvolutionValidate(t *testing.T) {
	ws := NewWorkspace()
	op := NewConvolutionOp("conv0", testPolicy, ws)
	op.SetInput(tensor.New("input", tensor.NewTensorShape([]int{1, 1, 5, 5}, tensor.NCHW), tensor.Float32), ConvolutionInputs)
	assert.False(t, op.Validate(), "kernel shape unset")

	op.SetNumOfmaps(2)
	op.SetKernelShape(3, 3)
	op.CreateAllTensors()
	assert.True(t, op.Validate())
}

func TestPoolingShapes(t *testing.T) {
	ws := NewWorkspace()
	op := NewPoolingOp("pool0", MaxPooling, testPolicy, ws)
	op.SetPoolingSize(2, 2)
	op.SetStride(2, 2)

	input := tensor.New("input", tensor.NewTensorShape([]int{1, 4, 8, 8}, tensor.NCHW), tensor.Float32)
	op.SetInput(input, 0)
	op.CreateAllTensors()

	out := op.GetOutput(0).Shape()
	assert.Equal(t, []int{1, 4, 4, 4}, out.Dims())
	assert.Equal(t, tensor.NCHW, out.Layout())
}

func TestPoolingShapesNHWC(t *testing.T) {
	ws := NewWorkspace()
	op := NewPoolingOp("pool0", AvgPooling, vexLikePolicy, ws)
	op.SetPoolingSize(2, 2)
	op.SetStride(2, 2)

	input := tensor.New("input", tensor.NewTensorShapeAligned([]int{1, 8, 8, 4}, tensor.NHWC, 8), tensor.Float32)
	op.SetInput(input, 0)
	op.CreateAllTensors()

	out := op.GetOutput(0).Shape()
	assert.Equal(t, []int{1, 4, 4, 4}, out.Dims())
	assert.Equal(t, tensor.NHWC, out.Layout())
	assert.Equal(t, 8, out.Alignment())
}

func TestEltwiseValidateShapeMismatch(t *testing.T) {
	ws := NewWorkspace()
	op := NewEltwiseOp("add0", EltwiseAdd, testPolicy, ws)
	op.SetInput(tensor.New("a", tensor.NewTensorShape([]int{1, 13}, tensor.NC), tensor.Float32), 0)
	op.SetInput(tensor.New("b", tensor.NewTensorShape([]int{1, 12}, tensor.NC), tensor.Float32), 1)
	assert.False(t, op.Validate())
}

func TestHardTanhValidateBounds(t *testing.T) {
	ws := NewWorkspace()
	op := NewHardTanhOp("ht0", testPolicy, ws, 1, -1)
	op.SetInput(tensor.New("a", tensor.NewTensorShape([]int{1, 4}, tensor.NC), tensor.Float32), 0)
	assert.False(t, op.Validate())

	op.SetBounds(-1, 1)
	assert.True(t, op.Validate())
}

func TestReorderShapes(t *testing.T) {
	ws := NewWorkspace()
	op := NewReorderOp("reorder0", testPolicy, ws, tensor.NHWC)
	input := tensor.New("input", tensor.NewTensorShape([]int{2, 3, 4, 5}, tensor.NCHW), tensor.Float32)
	op.SetInput(input, 0)
	op.CreateAllTensors()

	out := op.GetOutput(0).Shape()
	assert.Equal(t, []int{2, 4, 5, 3}, out.Dims())
	assert.Equal(t, tensor.NHWC, out.Layout())
}

func TestReorderFlattenShape(t *testing.T) {
	ws := NewWorkspace()
	op := NewReorderOp("flatten0", testPolicy, ws, tensor.NC)
	input := tensor.New("input", tensor.NewTensorShape([]int{2, 3, 4, 5}, tensor.NCHW), tensor.Float32)
	op.SetInput(input, 0)
	op.CreateAllTensors()

	out := op.GetOutput(0).Shape()
	assert.Equal(t, []int{2, 60}, out.Dims())
	assert.Equal(t, tensor.NC, out.Layout())
}

func TestDepthwiseConvolutionShapesNCHW(t *testing.T) {
	ws := NewWorkspace()
	op := NewDepthwiseConvolutionOp("dwconv0", testPolicy, ws)
	op.SetKernelShape(3, 3)

	input := tensor.New("input", tensor.NewTensorShape([]int{1, 6, 5, 5}, tensor.NCHW), tensor.Float32)
	op.SetInput(input, ConvolutionInputs)
	op.CreateAllTensors()

	// One 2-D filter per input channel; output channels mirror the input.
	out := op.GetOutput(0).Shape()
	assert.Equal(t, []int{1, 6, 5, 5}, out.Dims())
	assert.Equal(t, tensor.NCHW, out.Layout())

	w := op.GetInput(ConvolutionWeights).Shape()
	assert.Equal(t, []int{1, 6, 3, 3}, w.Dims())
	assert.Equal(t, tensor.NCHW, w.Layout())
}

func TestDepthwiseConvolutionShapesNHWC(t *testing.T) {
	ws := NewWorkspace()
	op := NewDepthwiseConvolutionOp("dwconv0", vexLikePolicy, ws)
	op.SetKernelShape(3, 3)
	op.SetStride(2, 2)

	input := tensor.New("input", tensor.NewTensorShapeAligned([]int{1, 8, 8, 6}, tensor.NHWC, 8), tensor.Float32)
	op.SetInput(input, ConvolutionInputs)
	op.CreateAllTensors()

	out := op.GetOutput(0).Shape()
	assert.Equal(t, []int{1, 4, 4, 6}, out.Dims())
	assert.Equal(t, tensor.NHWC, out.Layout())
	assert.Equal(t, 8, out.Alignment())

	w := op.GetInput(ConvolutionWeights).Shape()
	assert.Equal(t, []int{1, 3, 3, 6}, w.Dims())
	assert.Equal(t, tensor.NHWC, w.Layout())
}

func TestDepthwiseConvolutionValidate(t *testing.T) {
	ws := NewWorkspace()
	op := NewDepthwiseConvolutionOp("dwconv0", testPolicy, ws)
	input := tensor.New("input", tensor.NewTensorShape([]int{1, 2, 5, 5}, tensor.NCHW), tensor.Float32)
	op.SetInput(input, ConvolutionInputs)
	op.CreateAllTensors()

	// Kernel extents unset.
	assert.False(t, op.Validate())
	op.SetKernelShape(3, 3)
	assert.True(t, op.Validate())
}

func TestBatchNormParamShapes(t *testing.T) {
	ws := NewWorkspace()
	op := NewBatchNormOp("bn0", vexLikePolicy, ws)
	input := tensor.New("input", tensor.NewTensorShapeAligned([]int{1, 5, 5, 6}, tensor.NHWC, 8), tensor.Float32)
	op.SetInput(input, BatchNormInputs)
	op.CreateAllTensors()

	for _, slot := range []int{BatchNormMean, BatchNormVariance, BatchNormGamma, BatchNormBeta} {
		shape := op.GetInput(slot).Shape()
		assert.Equal(t, []int{1, 6}, shape.Dims())
		assert.Equal(t, tensor.NC, shape.Layout())
		assert.Equal(t, 8, shape.Alignment())
	}
	assert.Equal(t, []int{1, 5, 5, 6}, op.GetOutput(0).Shape().Dims())
	assert.Len(t, op.ParameterizableInputs(), 4)
	assert.True(t, op.Validate())
}

func TestBatchNormPostFCParamShapes(t *testing.T) {
	ws := NewWorkspace()
	op := NewBatchNormOp("bn0", testPolicy, ws)
	input := tensor.New("input", tensor.NewTensorShape([]int{2, 32}, tensor.NC), tensor.Float32)
	op.SetInput(input, BatchNormInputs)
	op.CreateAllTensors()

	// Post-FC inputs normalize per activation, not per channel.
	mean := op.GetInput(BatchNormMean).Shape()
	assert.Equal(t, []int{1, 32}, mean.Dims())
	assert.True(t, op.Validate())
}

func TestBatchNormValidateParamWidth(t *testing.T) {
	ws := NewWorkspace()
	op := NewBatchNormOp("bn0", testPolicy, ws)
	input := tensor.New("input", tensor.NewTensorShape([]int{1, 6, 5, 5}, tensor.NCHW), tensor.Float32)
	op.SetInput(input, BatchNormInputs)
	op.CreateAllTensors()
	assert.True(t, op.Validate())

	// A parameter tensor sized for the wrong channel count fails.
	op.SetInput(tensor.New("badMean",
		tensor.NewTensorShape([]int{1, 4}, tensor.NC), tensor.Float32), BatchNormMean)
	assert.False(t, op.Validate())
}
