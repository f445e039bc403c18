package graph

import (
	"fmt"
	"io"

	"github.com/forge-ml/forge/internal/tensor"
)

// Operator is the contract every computational graph node satisfies.
//
// Lifecycle: constructed, inputs bound with SetInput, weight and output
// tensors created with CreateAllTensors, configuration checked with
// Validate, then Run any number of times. Operators are owned by their
// Workspace; input tensors are borrowed, output and weight tensors are
// created through the Workspace at build time.
type Operator interface {
	Name() string
	Type() OpType
	Policy() Policy

	// SetInput binds t to the given input slot. The index must be within
	// the operator's declared arity.
	SetInput(t *tensor.Tensor, index int)
	GetInput(index int) *tensor.Tensor
	GetOutput(index int) *tensor.Tensor
	Inputs() []*tensor.Tensor
	Outputs() []*tensor.Tensor

	// CreateAllTensors creates the operator's weight and output tensors
	// through the Workspace. Idempotent: tensors that already exist are
	// left alone.
	CreateAllTensors()

	// Validate reports whether the operator's configuration is runnable.
	Validate() bool

	// Run executes the operator synchronously, reading input storage and
	// writing output storage in place. Behavior is undefined before
	// storage is allocated.
	Run()

	// ParameterizableInputs returns the inputs holding learned
	// parameters, for external tooling such as a model loader.
	ParameterizableInputs() []*tensor.Tensor

	// PrintSummary writes a one-line shape/parameter report.
	PrintSummary(w io.Writer)
}

// Base carries the state and behavior shared by all operators. Concrete
// operators embed it and backend implementations wrap those with a Run
// method.
type Base struct {
	name      string
	opType    OpType
	policy    Policy
	workspace *Workspace
	inputs    []*tensor.Tensor
	outputs   []*tensor.Tensor
}

// NewBase creates the shared operator state with numInputs input slots and
// numOutputs output slots.
func NewBase(name string, opType OpType, numInputs, numOutputs int, pol Policy, ws *Workspace) Base {
	return Base{
		name:      name,
		opType:    opType,
		policy:    pol,
		workspace: ws,
		inputs:    make([]*tensor.Tensor, numInputs),
		outputs:   make([]*tensor.Tensor, numOutputs),
	}
}

// Name returns the operator's name, unique within its workspace.
func (b *Base) Name() string { return b.name }

// Type returns the operator's type tag.
func (b *Base) Type() OpType { return b.opType }

// Policy returns the backend policy the operator is bound to.
func (b *Base) Policy() Policy { return b.policy }

// Workspace returns the owning workspace.
func (b *Base) Workspace() *Workspace { return b.workspace }

// SetInput binds t to input slot index.
func (b *Base) SetInput(t *tensor.Tensor, index int) {
	if index < 0 || index >= len(b.inputs) {
		panic(fmt.Sprintf("operator %q: input index %d out of range [0, %d)",
			b.name, index, len(b.inputs)))
	}
	b.inputs[index] = t
}

// GetInput returns the tensor bound to input slot index.
func (b *Base) GetInput(index int) *tensor.Tensor {
	if index < 0 || index >= len(b.inputs) {
		panic(fmt.Sprintf("operator %q: input index %d out of range [0, %d)",
			b.name, index, len(b.inputs)))
	}
	return b.inputs[index]
}

// GetOutput returns the tensor in output slot index.
func (b *Base) GetOutput(index int) *tensor.Tensor {
	if index < 0 || index >= len(b.outputs) {
		panic(fmt.Sprintf("operator %q: output index %d out of range [0, %d)",
			b.name, index, len(b.outputs)))
	}
	return b.outputs[index]
}

// Inputs returns the input slots.
func (b *Base) Inputs() []*tensor.Tensor { return b.inputs }

// Outputs returns the output slots.
func (b *Base) Outputs() []*tensor.Tensor { return b.outputs }

// Validate checks the base requirement: every input slot is bound.
func (b *Base) Validate() bool {
	for _, in := range b.inputs {
		if in == nil {
			return false
		}
	}
	return true
}

// ParameterizableInputs returns no inputs; operators with weights
// override it.
func (b *Base) ParameterizableInputs() []*tensor.Tensor { return nil }

// Run on the base operator means the node was never bound to a backend
// implementation.
func (b *Base) Run() {
	panic(fmt.Sprintf("operator %q (%s) has no backend implementation", b.name, b.opType))
}

// PrintSummary writes the default one-line report.
func (b *Base) PrintSummary(w io.Writer) {
	fmt.Fprintf(w, "%s (%s)\n", b.name, b.opType)
}

// dataType returns the element type operator-created tensors should use:
// the first bound input's type, or Float32 before any input is bound.
func (b *Base) dataType() tensor.DataType {
	for _, in := range b.inputs {
		if in != nil {
			return in.DataType()
		}
	}
	return tensor.Float32
}

// addTensor registers a tensor the operator created. Name collisions are
// model-definition defects.
func (b *Base) addTensor(t *tensor.Tensor) {
	if err := b.workspace.AddTensor(t); err != nil {
		panic(fmt.Sprintf("operator %q: %v", b.name, err))
	}
}
