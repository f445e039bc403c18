package ref

import (
	"github.com/forge-ml/forge/internal/graph"
	"github.com/forge-ml/forge/internal/tensor"
)

type innerProductOp struct {
	*graph.InnerProductOp
}

// Run computes out[n][m] = sum_k in[n][k] * w[k][m] over untransposed
// [inputWidth, numOutputs] weights.
func (op *innerProductOp) Run() {
	in := op.GetInput(graph.InnerProductInputs)
	w := op.GetInput(graph.InnerProductWeights)
	out := op.GetOutput(0)
	dispatchFloat(in,
		func() { refInnerProduct[float32](in, w, out) },
		func() { refInnerProduct[float64](in, w, out) })
}

func refInnerProduct[T tensor.DType](in, w, out *tensor.Tensor) {
	batch, width := in.Dim(0), in.Dim(1)
	numOutputs := out.Dim(1)
	src := tensor.NewView2[T](tensor.Data[T](in), width+in.Shape().Padding())
	wts := tensor.NewView2[T](tensor.Data[T](w), numOutputs+w.Shape().Padding())
	dst := tensor.NewView2[T](tensor.Data[T](out), numOutputs+out.Shape().Padding())
	for n := 0; n < batch; n++ {
		for m := 0; m < numOutputs; m++ {
			var sum T
			for k := 0; k < width; k++ {
				sum += src.At(n, k) * wts.At(k, m)
			}
			dst.Set(n, m, sum)
		}
	}
}
