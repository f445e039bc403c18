package ref

import (
	"github.com/forge-ml/forge/internal/graph"
)

type eltwiseOp struct {
	*graph.EltwiseOp
}

// Run applies the operator's binary function elementwise.
func (op *eltwiseOp) Run() {
	a, b := op.GetInput(0), op.GetInput(1)
	out := op.GetOutput(0)
	switch op.Type() {
	case graph.EltwiseAdd:
		dispatchFloat(a,
			func() { zipElements[float32](a, b, out, func(x, y float32) float32 { return x + y }) },
			func() { zipElements[float64](a, b, out, func(x, y float64) float64 { return x + y }) })
	case graph.EltwiseMul:
		dispatchFloat(a,
			func() { zipElements[float32](a, b, out, func(x, y float32) float32 { return x * y }) },
			func() { zipElements[float64](a, b, out, func(x, y float64) float64 { return x * y }) })
	default:
		panic("eltwise op bound to a non-eltwise type")
	}
}
