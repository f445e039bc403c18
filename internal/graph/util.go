package graph

import "github.com/forge-ml/forge/internal/tensor"

// AllocateAllTensors allocates storage of element type T for every bound,
// still-unallocated input and output of op. Call after CreateAllTensors.
func AllocateAllTensors[T tensor.DType](op Operator) error {
	for _, t := range op.Inputs() {
		if t != nil && !t.Allocated() {
			if err := tensor.AllocateStorage[T](t); err != nil {
				return err
			}
		}
	}
	for _, t := range op.Outputs() {
		if t != nil && !t.Allocated() {
			if err := tensor.AllocateStorage[T](t); err != nil {
				return err
			}
		}
	}
	return nil
}
