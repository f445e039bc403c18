package graph

import (
	"fmt"

	"github.com/forge-ml/forge/internal/tensor"
)

// Workspace is the exclusive owner and registry of every tensor and
// operator created while building a graph. Operators borrow the tensors
// they read; nothing outside the workspace may destroy a registered
// object.
type Workspace struct {
	tensors   map[string]*tensor.Tensor
	operators map[string]Operator
}

// NewWorkspace creates an empty workspace.
func NewWorkspace() *Workspace {
	return &Workspace{
		tensors:   make(map[string]*tensor.Tensor),
		operators: make(map[string]Operator),
	}
}

// AddTensor registers a uniquely-named tensor.
func (ws *Workspace) AddTensor(t *tensor.Tensor) error {
	if _, ok := ws.tensors[t.Name()]; ok {
		return fmt.Errorf("workspace already contains a tensor named %q", t.Name())
	}
	ws.tensors[t.Name()] = t
	return nil
}

// AddOperator registers a uniquely-named operator.
func (ws *Workspace) AddOperator(op Operator) error {
	if _, ok := ws.operators[op.Name()]; ok {
		return fmt.Errorf("workspace already contains an operator named %q", op.Name())
	}
	ws.operators[op.Name()] = op
	return nil
}

// GetTensor looks up a tensor by name.
func (ws *Workspace) GetTensor(name string) (*tensor.Tensor, bool) {
	t, ok := ws.tensors[name]
	return t, ok
}

// GetOperator looks up an operator by name.
func (ws *Workspace) GetOperator(name string) (Operator, bool) {
	op, ok := ws.operators[name]
	return op, ok
}

// Operators returns all registered operators in no particular order.
func (ws *Workspace) Operators() []Operator {
	ops := make([]Operator, 0, len(ws.operators))
	for _, op := range ws.operators {
		ops = append(ops, op)
	}
	return ops
}

// NumTensors returns the number of registered tensors.
func (ws *Workspace) NumTensors() int { return len(ws.tensors) }

// NumOperators returns the number of registered operators.
func (ws *Workspace) NumOperators() int { return len(ws.operators) }
