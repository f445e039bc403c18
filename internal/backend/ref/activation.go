package ref

import (
	"fmt"
	"math"

	"github.com/forge-ml/forge/internal/graph"
	"github.com/forge-ml/forge/internal/tensor"
)

type reluOp struct {
	*graph.ReluOp
}

func (op *reluOp) Run() {
	in, out := op.GetInput(0), op.GetOutput(0)
	slope := op.Slope()
	f := func(x float64) float64 {
		if x < 0 {
			return slope * x
		}
		return x
	}
	dispatchFloat(in,
		func() { mapElements[float32](in, out, f) },
		func() { mapElements[float64](in, out, f) })
}

// unaryMathOp runs the saturating nonlinearities that need no parameters.
type unaryMathOp struct {
	*graph.UnaryOp
}

func (op *unaryMathOp) Run() {
	in, out := op.GetInput(0), op.GetOutput(0)
	var f func(float64) float64
	switch op.Type() {
	case graph.Sigmoid:
		f = func(x float64) float64 { return 1 / (1 + math.Exp(-x)) }
	case graph.Tanh:
		f = math.Tanh
	default:
		panic(fmt.Sprintf("no math function for operator type %s", op.Type()))
	}
	dispatchFloat(in,
		func() { mapElements[float32](in, out, f) },
		func() { mapElements[float64](in, out, f) })
}

type hardTanhOp struct {
	*graph.HardTanhOp
}

func (op *hardTanhOp) Run() {
	in, out := op.GetInput(0), op.GetOutput(0)
	min, max := op.Bounds()
	f := func(x float64) float64 {
		return math.Min(math.Max(x, min), max)
	}
	dispatchFloat(in,
		func() { mapElements[float32](in, out, f) },
		func() { mapElements[float64](in, out, f) })
}

type eluOp struct {
	*graph.EluOp
}

func eluFunc(alpha float64) func(float64) float64 {
	return func(x float64) float64 {
		if x < 0 {
			return alpha * (math.Exp(x) - 1)
		}
		return x
	}
}

func (op *eluOp) Run() {
	in, out := op.GetInput(0), op.GetOutput(0)
	f := eluFunc(op.Alpha())
	dispatchFloat(in,
		func() { mapElements[float32](in, out, f) },
		func() { mapElements[float64](in, out, f) })
}

type seluOp struct {
	*graph.SeluOp
}

func (op *seluOp) Run() {
	in, out := op.GetInput(0), op.GetOutput(0)
	elu := eluFunc(graph.SeluAlpha)
	f := func(x float64) float64 { return graph.SeluLambda * elu(x) }
	dispatchFloat(in,
		func() { mapElements[float32](in, out, f) },
		func() { mapElements[float64](in, out, f) })
}

type softmaxOp struct {
	*graph.SoftmaxOp
}

// Run normalizes each logical row with the max-subtraction form for
// numerical stability. Padding is excluded so it stays zero.
func (op *softmaxOp) Run() {
	in, out := op.GetInput(0), op.GetOutput(0)
	dispatchFloat(in,
		func() { refSoftmax[float32](in, out) },
		func() { refSoftmax[float64](in, out) })
}

func refSoftmax[T tensor.DType](in, out *tensor.Tensor) {
	rows, cols := in.Dim(0), in.Dim(1)
	src := tensor.NewView2[T](tensor.Data[T](in), cols+in.Shape().Padding())
	dst := tensor.NewView2[T](tensor.Data[T](out), cols+out.Shape().Padding())
	for r := 0; r < rows; r++ {
		maxVal := math.Inf(-1)
		for c := 0; c < cols; c++ {
			maxVal = math.Max(maxVal, float64(src.At(r, c)))
		}
		var sum float64
		exps := make([]float64, cols)
		for c := 0; c < cols; c++ {
			exps[c] = math.Exp(float64(src.At(r, c)) - maxVal)
			sum += exps[c]
		}
		for c := 0; c < cols; c++ {
			dst.Set(r, c, T(exps[c]/sum))
		}
	}
}
