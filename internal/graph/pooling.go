package graph

import (
	"fmt"
	"io"

	"github.com/forge-ml/forge/internal/tensor"
)

// PoolingOp is the shared state of max- and average-pooling operators over
// one 4-D input in the backend's layout.
type PoolingOp struct {
	Base
	poolRows  int
	poolCols  int
	rowStride int
	colStride int
}

// NewPoolingOp creates a pooling operator of the given type (MaxPooling or
// AvgPooling).
func NewPoolingOp(name string, opType OpType, pol Policy, ws *Workspace) *PoolingOp {
	if opType != MaxPooling && opType != AvgPooling {
		panic(fmt.Sprintf("operator %q: %s is not a pooling type", name, opType))
	}
	return &PoolingOp{
		Base:      NewBase(name, opType, 1, 1, pol, ws),
		rowStride: 1,
		colStride: 1,
	}
}

// SetPoolingSize sets the pooling window extents.
func (op *PoolingOp) SetPoolingSize(rows, cols int) {
	op.poolRows, op.poolCols = rows, cols
}

// PoolingSize returns the pooling window extents.
func (op *PoolingOp) PoolingSize() (rows, cols int) { return op.poolRows, op.poolCols }

// SetStride sets the row and column strides.
func (op *PoolingOp) SetStride(row, col int) {
	op.rowStride, op.colStride = row, col
}

// Stride returns the row and column strides.
func (op *PoolingOp) Stride() (row, col int) { return op.rowStride, op.colStride }

// Validate requires positive window extents and strides atop the base
// input checks.
func (op *PoolingOp) Validate() bool {
	return op.poolRows > 0 && op.poolCols > 0 &&
		op.rowStride > 0 && op.colStride > 0 &&
		op.Base.Validate()
}

// InferOutputShape computes the pooled 4-D output shape in the backend's
// layout.
func (op *PoolingOp) InferOutputShape() tensor.TensorShape {
	shape := op.GetInput(0).Shape()
	if shape.NDims() != 4 || shape.Layout() != op.Policy().DefaultInputLayout {
		panic(fmt.Sprintf("operator %q: pooling requires 4-D %s input, got %s",
			op.Name(), op.Policy().DefaultInputLayout, shape))
	}
	var inRows, inCols, channels int
	if shape.Layout() == tensor.NHWC {
		inRows, inCols, channels = shape.Dim(1), shape.Dim(2), shape.Dim(3)
	} else {
		inRows, inCols, channels = shape.Dim(2), shape.Dim(3), shape.Dim(1)
	}
	outRows := (inRows-op.poolRows)/op.rowStride + 1
	outCols := (inCols-op.poolCols)/op.colStride + 1
	align := op.Policy().Alignment
	if shape.Layout() == tensor.NHWC {
		return tensor.NewTensorShapeAligned(
			[]int{shape.Dim(0), outRows, outCols, channels}, tensor.NHWC, align)
	}
	return tensor.NewTensorShapeAligned(
		[]int{shape.Dim(0), channels, outRows, outCols}, tensor.NCHW, align)
}

// CreateAllTensors creates the output tensor exactly once.
func (op *PoolingOp) CreateAllTensors() {
	if op.GetOutput(0) != nil {
		return
	}
	out := tensor.New(op.Name(), op.InferOutputShape(), op.dataType())
	op.addTensor(out)
	op.Outputs()[0] = out
}

// PrintSummary writes the window and output shape.
func (op *PoolingOp) PrintSummary(w io.Writer) {
	fmt.Fprintf(w, "%s (%s %dx%d)\t%s\n", op.Name(), op.Type(),
		op.poolRows, op.poolCols, op.GetOutput(0).Shape())
}
