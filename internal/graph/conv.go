package graph

import (
	"fmt"
	"io"

	"github.com/forge-ml/forge/internal/tensor"
)

// PaddingType selects the convolution boundary policy.
type PaddingType int

// Supported padding policies.
const (
	// SamePadding pads with zeros so the output spatial extents equal
	// ceil(input/stride).
	SamePadding PaddingType = iota
	// ValidPadding computes only positions whose receptive field lies
	// fully inside the input.
	ValidPadding
)

// String returns a human-readable padding policy name.
func (p PaddingType) String() string {
	if p == SamePadding {
		return "same"
	}
	return "valid"
}

// Input slots of a convolution operator.
const (
	ConvolutionInputs = iota
	ConvolutionWeights
	convolutionNumInputs
)

// ConvolutionOp is a 3-D convolution over one 4-D input, laid out per the
// backend's default input layout.
type ConvolutionOp struct {
	Base
	numOfmaps   int
	kernelRows  int
	kernelCols  int
	rowStride   int
	colStride   int
	padding     PaddingType
	weightsName string
	sampling    SamplingInfo
}

// NewConvolutionOp creates a convolution operator bound to pol.
func NewConvolutionOp(name string, pol Policy, ws *Workspace) *ConvolutionOp {
	return &ConvolutionOp{
		Base:        NewBase(name, Convolution, convolutionNumInputs, 1, pol, ws),
		rowStride:   1,
		colStride:   1,
		padding:     SamePadding,
		weightsName: name + "/kernels",
		sampling:    SamplingInfo{Level: NoSampling, NumSampleIterations: 1},
	}
}

// SetNumOfmaps sets the number of output feature maps (kernels).
func (op *ConvolutionOp) SetNumOfmaps(n int) { op.numOfmaps = n }

// NumOfmaps returns the number of output feature maps.
func (op *ConvolutionOp) NumOfmaps() int { return op.numOfmaps }

// SetKernelShape sets the kernel spatial extents.
func (op *ConvolutionOp) SetKernelShape(rows, cols int) {
	op.kernelRows, op.kernelCols = rows, cols
}

// KernelShape returns the kernel spatial extents.
func (op *ConvolutionOp) KernelShape() (rows, cols int) {
	return op.kernelRows, op.kernelCols
}

// SetStride sets the row and column strides.
func (op *ConvolutionOp) SetStride(row, col int) {
	op.rowStride, op.colStride = row, col
}

// Stride returns the row and column strides.
func (op *ConvolutionOp) Stride() (row, col int) { return op.rowStride, op.colStride }

// SetPadding sets the boundary policy.
func (op *ConvolutionOp) SetPadding(p PaddingType) { op.padding = p }

// Padding returns the boundary policy.
func (op *ConvolutionOp) Padding() PaddingType { return op.padding }

// Validate requires positive kernel extents, strides and output map count
// atop the base input checks.
func (op *ConvolutionOp) Validate() bool {
	return op.numOfmaps > 0 &&
		op.kernelRows > 0 && op.kernelCols > 0 &&
		op.rowStride > 0 && op.colStride > 0 &&
		op.Base.Validate()
}

// inputExtents pulls (rows, cols, channels) out of the 4-D input under the
// backend's layout.
func (op *ConvolutionOp) inputExtents() (rows, cols, channels int) {
	shape := op.GetInput(ConvolutionInputs).Shape()
	if shape.NDims() != 4 || shape.Layout() != op.Policy().DefaultInputLayout {
		panic(fmt.Sprintf("operator %q: convolution requires 4-D %s input, got %s",
			op.Name(), op.Policy().DefaultInputLayout, shape))
	}
	if shape.Layout() == tensor.NHWC {
		return shape.Dim(1), shape.Dim(2), shape.Dim(3)
	}
	return shape.Dim(2), shape.Dim(3), shape.Dim(1)
}

// outputExtents computes the output spatial extents under the padding
// policy and strides.
func (op *ConvolutionOp) outputExtents() (rows, cols int) {
	inRows, inCols, _ := op.inputExtents()
	if op.padding == SamePadding {
		return (inRows-1)/op.rowStride + 1, (inCols-1)/op.colStride + 1
	}
	return (inRows-op.kernelRows)/op.rowStride + 1, (inCols-op.kernelCols)/op.colStride + 1
}

// InferOutputShape computes the 4-D output shape in the backend's layout.
func (op *ConvolutionOp) InferOutputShape() tensor.TensorShape {
	outRows, outCols := op.outputExtents()
	batch := op.GetInput(ConvolutionInputs).Dim(0)
	align := op.Policy().Alignment
	if op.Policy().DefaultInputLayout == tensor.NHWC {
		return tensor.NewTensorShapeAligned(
			[]int{batch, outRows, outCols, op.numOfmaps}, tensor.NHWC, align)
	}
	return tensor.NewTensorShapeAligned(
		[]int{batch, op.numOfmaps, outRows, outCols}, tensor.NCHW, align)
}

// InferWeightsShape computes the kernel tensor shape: one 3-D kernel per
// output feature map, in the backend's layout.
func (op *ConvolutionOp) InferWeightsShape() tensor.TensorShape {
	_, _, channels := op.inputExtents()
	align := op.Policy().Alignment
	if op.Policy().DefaultInputLayout == tensor.NHWC {
		return tensor.NewTensorShapeAligned(
			[]int{op.numOfmaps, op.kernelRows, op.kernelCols, channels}, tensor.NHWC, align)
	}
	return tensor.NewTensorShapeAligned(
		[]int{op.numOfmaps, channels, op.kernelRows, op.kernelCols}, tensor.NCHW, align)
}

func (op *ConvolutionOp) createWeightsTensors() {
	if op.GetInput(ConvolutionWeights) != nil {
		return
	}
	w := tensor.New(op.weightsName, op.InferWeightsShape(), op.dataType())
	op.addTensor(w)
	op.SetInput(w, ConvolutionWeights)
}

func (op *ConvolutionOp) createOutputTensors() {
	if op.GetOutput(0) != nil {
		return
	}
	out := tensor.New(op.Name(), op.InferOutputShape(), op.dataType())
	op.addTensor(out)
	op.Outputs()[0] = out
}

// CreateAllTensors creates the kernel and output tensors exactly once.
func (op *ConvolutionOp) CreateAllTensors() {
	op.createWeightsTensors()
	op.createOutputTensors()
}

// ParameterizableInputs returns the kernel tensor.
func (op *ConvolutionOp) ParameterizableInputs() []*tensor.Tensor {
	return []*tensor.Tensor{op.GetInput(ConvolutionWeights)}
}

// SupportsSampling reports that convolutions accept a sampling hint.
func (op *ConvolutionOp) SupportsSampling() bool { return true }

// SetSamplingInfo stores the approximate-execution hint.
func (op *ConvolutionOp) SetSamplingInfo(info SamplingInfo) { op.sampling = info }

// SamplingInfo returns the current approximate-execution hint.
func (op *ConvolutionOp) SamplingInfo() SamplingInfo { return op.sampling }

// PrintSummary writes the output shape, kernel shape and kernel count.
func (op *ConvolutionOp) PrintSummary(w io.Writer) {
	weightsShape := op.GetInput(ConvolutionWeights).Shape()
	outputShape := op.GetOutput(0).Shape()
	fmt.Fprintf(w, "%s (Convolution %s)\t%s\t%s\t%d\n",
		op.Name(), op.padding, outputShape, weightsShape, weightsShape.StorageSize())
}
