package graph

import (
	"fmt"
	"io"

	"github.com/forge-ml/forge/internal/tensor"
)

// UnaryOp is the shared state of single-input activation operators whose
// output mirrors the input shape.
type UnaryOp struct {
	Base
}

// NewUnaryOp creates a unary operator of the given type.
func NewUnaryOp(name string, opType OpType, pol Policy, ws *Workspace) *UnaryOp {
	return &UnaryOp{Base: NewBase(name, opType, 1, 1, pol, ws)}
}

// InferOutputShape mirrors the input's extents and layout.
func (op *UnaryOp) InferOutputShape() tensor.TensorShape {
	shape := op.GetInput(0).Shape()
	return tensor.NewTensorShapeAligned(shape.Dims(), shape.Layout(), op.Policy().Alignment)
}

// CreateAllTensors creates the output tensor exactly once.
func (op *UnaryOp) CreateAllTensors() {
	if op.GetOutput(0) != nil {
		return
	}
	out := tensor.New(op.Name(), op.InferOutputShape(), op.dataType())
	op.addTensor(out)
	op.Outputs()[0] = out
}

// PrintSummary writes the output shape.
func (op *UnaryOp) PrintSummary(w io.Writer) {
	fmt.Fprintf(w, "%s (%s)\t\t%s\n", op.Name(), op.Type(), op.GetOutput(0).Shape())
}

// ReluOp is a rectified linear unit with a configurable negative slope.
// Slope 0 zeroes negatives; a nonzero slope makes it leaky.
type ReluOp struct {
	UnaryOp
	slope float64
}

// NewReluOp creates a ReLU operator with slope 0.
func NewReluOp(name string, pol Policy, ws *Workspace) *ReluOp {
	return &ReluOp{UnaryOp: *NewUnaryOp(name, Relu, pol, ws)}
}

// SetSlope sets the negative-region slope.
func (op *ReluOp) SetSlope(slope float64) { op.slope = slope }

// Slope returns the negative-region slope.
func (op *ReluOp) Slope() float64 { return op.slope }

// HardTanhOp clamps values to [min, max].
type HardTanhOp struct {
	UnaryOp
	min, max float64
}

// NewHardTanhOp creates a hard-tanh operator with the given bounds.
func NewHardTanhOp(name string, pol Policy, ws *Workspace, min, max float64) *HardTanhOp {
	return &HardTanhOp{UnaryOp: *NewUnaryOp(name, HardTanh, pol, ws), min: min, max: max}
}

// SetBounds replaces the clamp range.
func (op *HardTanhOp) SetBounds(min, max float64) { op.min, op.max = min, max }

// Validate additionally requires an ordered bounds pair.
func (op *HardTanhOp) Validate() bool {
	return op.min < op.max && op.UnaryOp.Validate()
}

// Bounds returns the clamp range.
func (op *HardTanhOp) Bounds() (min, max float64) { return op.min, op.max }

// EluOp is an exponential linear unit: alpha*(exp(x)-1) for negative x.
type EluOp struct {
	UnaryOp
	alpha float64
}

// NewEluOp creates an ELU operator with the given alpha.
func NewEluOp(name string, pol Policy, ws *Workspace, alpha float64) *EluOp {
	return &EluOp{UnaryOp: *NewUnaryOp(name, Elu, pol, ws), alpha: alpha}
}

// SetAlpha replaces the ELU alpha parameter.
func (op *EluOp) SetAlpha(alpha float64) { op.alpha = alpha }

// Validate additionally requires a positive alpha.
func (op *EluOp) Validate() bool {
	return op.alpha > 0 && op.UnaryOp.Validate()
}

// Alpha returns the ELU alpha parameter.
func (op *EluOp) Alpha() float64 { return op.alpha }

// Scaled exponential linear unit constants (Klambauer et al., 2017).
const (
	SeluAlpha  = 1.6732632423543772
	SeluLambda = 1.0507009873554805
)

// SeluOp is the self-normalizing scaled ELU with fixed alpha and scale.
type SeluOp struct {
	UnaryOp
}

// NewSeluOp creates a SELU operator.
func NewSeluOp(name string, pol Policy, ws *Workspace) *SeluOp {
	return &SeluOp{UnaryOp: *NewUnaryOp(name, Selu, pol, ws)}
}

// SoftmaxOp normalizes each row of a 2-D NC input into a probability
// distribution.
type SoftmaxOp struct {
	UnaryOp
}

// NewSoftmaxOp creates a softmax operator.
func NewSoftmaxOp(name string, pol Policy, ws *Workspace) *SoftmaxOp {
	return &SoftmaxOp{UnaryOp: *NewUnaryOp(name, Softmax, pol, ws)}
}

// Validate additionally requires a 2-D NC input.
func (op *SoftmaxOp) Validate() bool {
	if !op.UnaryOp.Validate() {
		return false
	}
	shape := op.GetInput(0).Shape()
	return shape.NDims() == 2 && shape.Layout() == tensor.NC
}

// ReorderOp converts a tensor to a target layout: NCHW<->NHWC for 4-D
// tensors, NC<->CN for 2-D tensors, or a flatten to NC when the input is
// 4-D and the target is NC.
type ReorderOp struct {
	Base
	targetLayout tensor.DataLayout
}

// NewReorderOp creates a reorder operator targeting the given layout.
func NewReorderOp(name string, pol Policy, ws *Workspace, target tensor.DataLayout) *ReorderOp {
	return &ReorderOp{
		Base:         NewBase(name, Reorder, 1, 1, pol, ws),
		targetLayout: target,
	}
}

// TargetLayout returns the layout the input is converted to.
func (op *ReorderOp) TargetLayout() tensor.DataLayout { return op.targetLayout }

// SetTargetLayout replaces the target layout. Call before shape inference.
func (op *ReorderOp) SetTargetLayout(l tensor.DataLayout) { op.targetLayout = l }

// Validate checks that the requested conversion is one the engine knows.
func (op *ReorderOp) Validate() bool {
	if !op.Base.Validate() {
		return false
	}
	src := op.GetInput(0).Shape().Layout()
	switch {
	case src == tensor.NCHW && op.targetLayout == tensor.NHWC,
		src == tensor.NHWC && op.targetLayout == tensor.NCHW,
		src == tensor.NC && op.targetLayout == tensor.CN,
		src == tensor.CN && op.targetLayout == tensor.NC:
		return true
	case (src == tensor.NCHW || src == tensor.NHWC) && op.targetLayout == tensor.NC:
		return true // flatten
	default:
		return false
	}
}

// InferOutputShape permutes the input extents into the target layout.
func (op *ReorderOp) InferOutputShape() tensor.TensorShape {
	in := op.GetInput(0).Shape()
	align := op.Policy().Alignment
	src := in.Layout()
	switch {
	case src == tensor.NCHW && op.targetLayout == tensor.NHWC:
		return tensor.NewTensorShapeAligned(
			[]int{in.Dim(0), in.Dim(2), in.Dim(3), in.Dim(1)}, tensor.NHWC, align)
	case src == tensor.NHWC && op.targetLayout == tensor.NCHW:
		return tensor.NewTensorShapeAligned(
			[]int{in.Dim(0), in.Dim(3), in.Dim(1), in.Dim(2)}, tensor.NCHW, align)
	case (src == tensor.NC || src == tensor.CN) && op.targetLayout == src.Transposed():
		return tensor.NewTensorShapeAligned(
			[]int{in.Dim(1), in.Dim(0)}, op.targetLayout, align)
	case (src == tensor.NCHW || src == tensor.NHWC) && op.targetLayout == tensor.NC:
		return tensor.NewTensorShapeAligned(
			[]int{in.Dim(0), in.NumElements() / in.Dim(0)}, tensor.NC, align)
	default:
		panic(fmt.Sprintf("operator %q: unsupported reorder %s -> %s",
			op.Name(), src, op.targetLayout))
	}
}

// CreateAllTensors creates the output tensor exactly once.
func (op *ReorderOp) CreateAllTensors() {
	if op.GetOutput(0) != nil {
		return
	}
	out := tensor.New(op.Name(), op.InferOutputShape(), op.dataType())
	op.addTensor(out)
	op.Outputs()[0] = out
}

// PrintSummary writes the conversion and output shape.
func (op *ReorderOp) PrintSummary(w io.Writer) {
	fmt.Fprintf(w, "%s (Reorder %s->%s)\t%s\n", op.Name(),
		op.GetInput(0).Shape().Layout(), op.targetLayout, op.GetOutput(0).Shape())
}
