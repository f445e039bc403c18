package graph

import (
	"fmt"
	"io"

	"github.com/forge-ml/forge/internal/tensor"
)

// EltwiseOp is the shared state of binary elementwise operators. Both
// inputs must have identical logical shapes; the output mirrors the first
// input with the backend's alignment.
type EltwiseOp struct {
	Base
}

// NewEltwiseOp creates a binary elementwise operator of the given type.
func NewEltwiseOp(name string, opType OpType, pol Policy, ws *Workspace) *EltwiseOp {
	return &EltwiseOp{Base: NewBase(name, opType, 2, 1, pol, ws)}
}

// Validate additionally requires both inputs to agree on logical extents.
func (op *EltwiseOp) Validate() bool {
	if !op.Base.Validate() {
		return false
	}
	a, b := op.GetInput(0).Shape(), op.GetInput(1).Shape()
	if a.NDims() != b.NDims() {
		return false
	}
	for i := 0; i < a.NDims(); i++ {
		if a.Dim(i) != b.Dim(i) {
			return false
		}
	}
	return true
}

// InferOutputShape mirrors the first input's extents and layout.
func (op *EltwiseOp) InferOutputShape() tensor.TensorShape {
	shape := op.GetInput(0).Shape()
	return tensor.NewTensorShapeAligned(shape.Dims(), shape.Layout(), op.Policy().Alignment)
}

// CreateAllTensors creates the output tensor exactly once.
func (op *EltwiseOp) CreateAllTensors() {
	if op.GetOutput(0) != nil {
		return
	}
	out := tensor.New(op.Name(), op.InferOutputShape(), op.dataType())
	op.addTensor(out)
	op.Outputs()[0] = out
}

// PrintSummary writes the output shape.
func (op *EltwiseOp) PrintSummary(w io.Writer) {
	fmt.Fprintf(w, "%s (%s)\t\t%s\n", op.Name(), op.Type(), op.GetOutput(0).Shape())
}
