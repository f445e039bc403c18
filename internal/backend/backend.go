// Package backend holds the (operator type, backend) factory matrix. Each
// backend registers one constructor per operator type it implements;
// graph-building code asks the matrix for a node without knowing which
// concrete implementation it gets. Adding a backend or an operator type is
// an additive, local change.
package backend

import (
	"fmt"
	"sort"
	"sync"

	"github.com/forge-ml/forge/internal/graph"
)

// Name identifies a registered backend.
type Name string

// Registered backends.
const (
	Reference Name = "Reference"
	Vex       Name = "Vex"
)

// Constructor builds a backend-specialized operator. The operator is not
// yet registered in the workspace.
type Constructor func(name string, ws *graph.Workspace) graph.Operator

type matrixKey struct {
	op      graph.OpType
	backend Name
}

var (
	mu     sync.Mutex
	matrix = make(map[matrixKey]Constructor)
)

// Register installs the constructor for an (operator type, backend) pair.
// Registering a pair twice is a programming defect.
func Register(op graph.OpType, b Name, ctor Constructor) {
	mu.Lock()
	defer mu.Unlock()
	key := matrixKey{op: op, backend: b}
	if _, ok := matrix[key]; ok {
		panic(fmt.Sprintf("backend: duplicate registration for (%s, %s)", op, b))
	}
	matrix[key] = ctor
}

// NewOperator builds the backend-specialized operator for the given pair
// and registers it in the workspace.
func NewOperator(op graph.OpType, b Name, name string, ws *graph.Workspace) (graph.Operator, error) {
	mu.Lock()
	ctor, ok := matrix[matrixKey{op: op, backend: b}]
	mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("backend: no %s implementation of %s", b, op)
	}
	node := ctor(name, ws)
	if err := ws.AddOperator(node); err != nil {
		return nil, err
	}
	return node, nil
}

// SupportedOps returns the operator types a backend implements, sorted for
// stable reporting.
func SupportedOps(b Name) []graph.OpType {
	mu.Lock()
	defer mu.Unlock()
	var ops []graph.OpType
	for key := range matrix {
		if key.backend == b {
			ops = append(ops, key.op)
		}
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}
