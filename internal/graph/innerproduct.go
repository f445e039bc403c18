package graph

import (
	"fmt"
	"io"

	"github.com/forge-ml/forge/internal/tensor"
)

// Input slots of an inner-product operator.
const (
	InnerProductInputs = iota
	InnerProductWeights
	innerProductNumInputs
)

// InnerProductOp is a fully-connected layer: output = input x weights.
// Input is 2-D [batchSize, inputWidth] in layout NC; the weight storage
// convention follows the backend policy.
type InnerProductOp struct {
	Base
	numOutputs  int
	weightsName string
	sampling    SamplingInfo
}

// NewInnerProductOp creates an inner-product operator bound to pol.
func NewInnerProductOp(name string, pol Policy, ws *Workspace) *InnerProductOp {
	return &InnerProductOp{
		Base:        NewBase(name, InnerProduct, innerProductNumInputs, 1, pol, ws),
		weightsName: name + "/weights",
		sampling:    SamplingInfo{Level: NoSampling, NumSampleIterations: 1},
	}
}

// SetNumOutputs sets the requested output width.
func (op *InnerProductOp) SetNumOutputs(n int) { op.numOutputs = n }

// NumOutputs returns the requested output width.
func (op *InnerProductOp) NumOutputs() int { return op.numOutputs }

// Validate requires a positive output width atop the base input checks.
func (op *InnerProductOp) Validate() bool {
	return op.numOutputs > 0 && op.Base.Validate()
}

// InferOutputShape computes [batchSize, numOutputs] in layout NC with the
// backend's alignment.
func (op *InnerProductOp) InferOutputShape() tensor.TensorShape {
	shape := op.GetInput(InnerProductInputs).Shape()
	if shape.Layout() != tensor.NC {
		panic(fmt.Sprintf("operator %q: inner product requires NC input, got %s",
			op.Name(), shape.Layout()))
	}
	return tensor.NewTensorShapeAligned(
		[]int{shape.Dim(0), op.numOutputs}, tensor.NC, op.Policy().Alignment)
}

// InferWeightsShape computes the weight shape under the backend's storage
// convention: [numOutputs, inputWidth] in NC when the backend transposes
// FC weights, else [inputWidth, numOutputs] tagged CN.
func (op *InnerProductOp) InferWeightsShape() tensor.TensorShape {
	shape := op.GetInput(InnerProductInputs).Shape()
	if shape.Layout() != tensor.NC {
		panic(fmt.Sprintf("operator %q: inner product requires NC input, got %s",
			op.Name(), shape.Layout()))
	}
	if op.Policy().TransposeFCWeights {
		return tensor.NewTensorShapeAligned(
			[]int{op.numOutputs, shape.Dim(1)}, tensor.NC, op.Policy().Alignment)
	}
	return tensor.NewTensorShapeAligned(
		[]int{shape.Dim(1), op.numOutputs}, tensor.CN, op.Policy().Alignment)
}

func (op *InnerProductOp) createWeightsTensors() {
	if op.GetInput(InnerProductWeights) != nil {
		return
	}
	w := tensor.New(op.weightsName, op.InferWeightsShape(), op.dataType())
	op.addTensor(w)
	op.SetInput(w, InnerProductWeights)
}

func (op *InnerProductOp) createOutputTensors() {
	if op.GetOutput(0) != nil {
		return
	}
	out := tensor.New(op.Name(), op.InferOutputShape(), op.dataType())
	op.addTensor(out)
	op.Outputs()[0] = out
}

// CreateAllTensors creates the weight and output tensors exactly once.
func (op *InnerProductOp) CreateAllTensors() {
	op.createWeightsTensors()
	op.createOutputTensors()
}

// ParameterizableInputs returns the weight tensor.
func (op *InnerProductOp) ParameterizableInputs() []*tensor.Tensor {
	return []*tensor.Tensor{op.GetInput(InnerProductWeights)}
}

// SupportsSampling reports that inner products accept a sampling hint.
func (op *InnerProductOp) SupportsSampling() bool { return true }

// SetSamplingInfo stores the approximate-execution hint.
func (op *InnerProductOp) SetSamplingInfo(info SamplingInfo) { op.sampling = info }

// SamplingInfo returns the current approximate-execution hint.
func (op *InnerProductOp) SamplingInfo() SamplingInfo { return op.sampling }

// PrintSummary writes the output shape, weight shape and weight count.
func (op *InnerProductOp) PrintSummary(w io.Writer) {
	weightsShape := op.GetInput(InnerProductWeights).Shape()
	outputShape := op.GetOutput(0).Shape()
	fmt.Fprintf(w, "%s (InnerProduct)\t\t%s\t\t%s\t\t%d\n",
		op.Name(), outputShape, weightsShape, weightsShape.StorageSize())
}
