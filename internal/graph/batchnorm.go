package graph

import (
	"fmt"
	"io"

	"github.com/forge-ml/forge/internal/tensor"
)

// Input slots of a batch-normalization operator.
const (
	BatchNormInputs = iota
	BatchNormMean
	BatchNormVariance
	BatchNormGamma
	BatchNormBeta
	batchNormNumInputs
)

// BatchNormEpsilon is the variance stabilizer added before taking the
// inverse square root when the backend does not precompute it.
const BatchNormEpsilon = 1e-5

// BatchNormOp is inference-time batch normalization:
//
//	output = gamma * (input - mean) / sqrt(variance + eps) + beta
//
// For a 4-D input the four parameter tensors are per-channel [1, C]; for a
// 2-D NC input (after a fully-connected layer) they are per-activation
// [1, width]. When the backend policy precomputes the variance, the
// variance tensor stores 1/sqrt(variance + eps) and the kernel multiplies
// by it directly.
type BatchNormOp struct {
	Base
	meanName     string
	varianceName string
	gammaName    string
	betaName     string
}

// NewBatchNormOp creates a batch-normalization operator bound to pol.
func NewBatchNormOp(name string, pol Policy, ws *Workspace) *BatchNormOp {
	return &BatchNormOp{
		Base:         NewBase(name, BatchNorm, batchNormNumInputs, 1, pol, ws),
		meanName:     name + "/mean",
		varianceName: name + "/variance",
		gammaName:    name + "/gamma",
		betaName:     name + "/beta",
	}
}

// numChannels returns the parameter width: channels of a 4-D input, or
// the full activation width of a 2-D one.
func (op *BatchNormOp) numChannels() int {
	shape := op.GetInput(BatchNormInputs).Shape()
	switch {
	case shape.NDims() == 4 && shape.Layout() == tensor.NHWC:
		return shape.Dim(3)
	case shape.NDims() == 4 && shape.Layout() == tensor.NCHW:
		return shape.Dim(1)
	case shape.NDims() == 2 && shape.Layout() == tensor.NC:
		return shape.Dim(1)
	default:
		panic(fmt.Sprintf("operator %q: batch norm requires a 4-D or NC input, got %s",
			op.Name(), shape))
	}
}

// InferOutputShape mirrors the input's extents and layout.
func (op *BatchNormOp) InferOutputShape() tensor.TensorShape {
	shape := op.GetInput(BatchNormInputs).Shape()
	return tensor.NewTensorShapeAligned(shape.Dims(), shape.Layout(), op.Policy().Alignment)
}

// InferParamShape computes the shape shared by all four parameter
// tensors.
func (op *BatchNormOp) InferParamShape() tensor.TensorShape {
	return tensor.NewTensorShapeAligned(
		[]int{1, op.numChannels()}, tensor.NC, op.Policy().Alignment)
}

func (op *BatchNormOp) createParamTensor(slot int, name string) {
	if op.GetInput(slot) != nil {
		return
	}
	t := tensor.New(name, op.InferParamShape(), op.dataType())
	op.addTensor(t)
	op.SetInput(t, slot)
}

// CreateAllTensors creates the parameter and output tensors exactly once.
func (op *BatchNormOp) CreateAllTensors() {
	op.createParamTensor(BatchNormMean, op.meanName)
	op.createParamTensor(BatchNormVariance, op.varianceName)
	op.createParamTensor(BatchNormGamma, op.gammaName)
	op.createParamTensor(BatchNormBeta, op.betaName)
	if op.GetOutput(0) != nil {
		return
	}
	out := tensor.New(op.Name(), op.InferOutputShape(), op.dataType())
	op.addTensor(out)
	op.Outputs()[0] = out
}

// Validate additionally requires every parameter tensor to match the
// input's channel width.
func (op *BatchNormOp) Validate() bool {
	if !op.Base.Validate() {
		return false
	}
	chans := op.numChannels()
	for _, slot := range []int{BatchNormMean, BatchNormVariance, BatchNormGamma, BatchNormBeta} {
		shape := op.GetInput(slot).Shape()
		if shape.NDims() != 2 || shape.Dim(1) != chans {
			return false
		}
	}
	return true
}

// ParameterizableInputs returns the mean, variance, gamma and beta
// tensors.
func (op *BatchNormOp) ParameterizableInputs() []*tensor.Tensor {
	return []*tensor.Tensor{
		op.GetInput(BatchNormMean),
		op.GetInput(BatchNormVariance),
		op.GetInput(BatchNormGamma),
		op.GetInput(BatchNormBeta),
	}
}

// PrintSummary writes the output shape and per-parameter width.
func (op *BatchNormOp) PrintSummary(w io.Writer) {
	fmt.Fprintf(w, "%s (BatchNorm)\t\t%s\t\t%s\n",
		op.Name(), op.GetOutput(0).Shape(), op.InferParamShape())
}
