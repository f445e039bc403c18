package graph

import (
	"fmt"
	"io"

	"github.com/forge-ml/forge/internal/tensor"
)

// DepthwiseConvolutionOp convolves each input channel with its own 2-D
// filter; channels never mix and the output channel count always equals
// the input channel count. It shares the convolution configuration
// surface (kernel extents, strides, padding policy) but ignores any
// requested output map count.
type DepthwiseConvolutionOp struct {
	ConvolutionOp
}

// NewDepthwiseConvolutionOp creates a depthwise convolution operator
// bound to pol.
func NewDepthwiseConvolutionOp(name string, pol Policy, ws *Workspace) *DepthwiseConvolutionOp {
	return &DepthwiseConvolutionOp{
		ConvolutionOp: ConvolutionOp{
			Base:        NewBase(name, DepthwiseConvolution, convolutionNumInputs, 1, pol, ws),
			rowStride:   1,
			colStride:   1,
			padding:     SamePadding,
			weightsName: name + "/kernels",
			sampling:    SamplingInfo{Level: NoSampling, NumSampleIterations: 1},
		},
	}
}

// Validate requires positive kernel extents and strides atop the base
// input checks. No output map count is needed; there is one filter per
// input channel.
func (op *DepthwiseConvolutionOp) Validate() bool {
	rows, cols := op.KernelShape()
	rowStride, colStride := op.Stride()
	return rows > 0 && cols > 0 &&
		rowStride > 0 && colStride > 0 &&
		op.Base.Validate()
}

// InferOutputShape computes the 4-D output shape: spatial extents from
// the padding policy and strides, channels copied from the input.
func (op *DepthwiseConvolutionOp) InferOutputShape() tensor.TensorShape {
	outRows, outCols := op.outputExtents()
	_, _, channels := op.inputExtents()
	batch := op.GetInput(ConvolutionInputs).Dim(0)
	align := op.Policy().Alignment
	if op.Policy().DefaultInputLayout == tensor.NHWC {
		return tensor.NewTensorShapeAligned(
			[]int{batch, outRows, outCols, channels}, tensor.NHWC, align)
	}
	return tensor.NewTensorShapeAligned(
		[]int{batch, channels, outRows, outCols}, tensor.NCHW, align)
}

// InferWeightsShape computes the kernel tensor shape: a single stack of
// one 2-D filter per input channel.
func (op *DepthwiseConvolutionOp) InferWeightsShape() tensor.TensorShape {
	_, _, channels := op.inputExtents()
	align := op.Policy().Alignment
	if op.Policy().DefaultInputLayout == tensor.NHWC {
		return tensor.NewTensorShapeAligned(
			[]int{1, op.kernelRows, op.kernelCols, channels}, tensor.NHWC, align)
	}
	return tensor.NewTensorShapeAligned(
		[]int{1, channels, op.kernelRows, op.kernelCols}, tensor.NCHW, align)
}

// CreateAllTensors creates the kernel and output tensors exactly once,
// under the depthwise shape rules.
func (op *DepthwiseConvolutionOp) CreateAllTensors() {
	if op.GetInput(ConvolutionWeights) == nil {
		w := tensor.New(op.weightsName, op.InferWeightsShape(), op.dataType())
		op.addTensor(w)
		op.SetInput(w, ConvolutionWeights)
	}
	if op.GetOutput(0) == nil {
		out := tensor.New(op.Name(), op.InferOutputShape(), op.dataType())
		op.addTensor(out)
		op.Outputs()[0] = out
	}
}

// PrintSummary writes the output shape, kernel shape and kernel count.
func (op *DepthwiseConvolutionOp) PrintSummary(w io.Writer) {
	weightsShape := op.GetInput(ConvolutionWeights).Shape()
	fmt.Fprintf(w, "%s (DepthwiseConvolution %s)\t%s\t%s\t%d\n",
		op.Name(), op.Padding(), op.GetOutput(0).Shape(), weightsShape, weightsShape.StorageSize())
}
