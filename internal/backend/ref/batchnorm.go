package ref

import (
	"math"

	"github.com/forge-ml/forge/internal/graph"
	"github.com/forge-ml/forge/internal/tensor"
)

type batchNormOp struct {
	*graph.BatchNormOp
}

// Run normalizes each element against its channel's statistics. The
// variance tensor holds 1/sqrt(var+eps) when the policy precomputes it,
// the raw variance otherwise.
func (op *batchNormOp) Run() {
	in := op.GetInput(graph.BatchNormInputs)
	dispatchFloat(in,
		func() { refBatchNorm[float32](op.BatchNormOp) },
		func() { refBatchNorm[float64](op.BatchNormOp) })
}

func refBatchNorm[T tensor.DType](op *graph.BatchNormOp) {
	in := op.GetInput(graph.BatchNormInputs)
	out := op.GetOutput(0)
	mean := tensor.Data[T](op.GetInput(graph.BatchNormMean))
	variance := tensor.Data[T](op.GetInput(graph.BatchNormVariance))
	gamma := tensor.Data[T](op.GetInput(graph.BatchNormGamma))
	beta := tensor.Data[T](op.GetInput(graph.BatchNormBeta))

	invStd := func(c int) T {
		if op.Policy().PrecomputeBNVariance {
			return variance[c]
		}
		return T(1 / math.Sqrt(float64(variance[c])+graph.BatchNormEpsilon))
	}
	norm := func(x T, c int) T {
		return gamma[c]*(x-mean[c])*invStd(c) + beta[c]
	}

	shape := in.Shape()
	batch := in.Dim(0)
	switch {
	case shape.NDims() == 2:
		width := in.Dim(1)
		src := tensor.NewView2[T](tensor.Data[T](in), width+shape.Padding())
		dst := tensor.NewView2[T](tensor.Data[T](out), width+out.Shape().Padding())
		for n := 0; n < batch; n++ {
			for c := 0; c < width; c++ {
				dst.Set(n, c, norm(src.At(n, c), c))
			}
		}
	case shape.Layout() == tensor.NHWC:
		rows, cols, chans := in.Dim(1), in.Dim(2), in.Dim(3)
		src := tensor.NewView4[T](tensor.Data[T](in), rows, cols, chans+shape.Padding())
		dst := tensor.NewView4[T](tensor.Data[T](out), rows, cols, chans+out.Shape().Padding())
		for n := 0; n < batch; n++ {
			for r := 0; r < rows; r++ {
				for col := 0; col < cols; col++ {
					for c := 0; c < chans; c++ {
						dst.Set(n, r, col, c, norm(src.At(n, r, col, c), c))
					}
				}
			}
		}
	default:
		chans, rows, cols := in.Dim(1), in.Dim(2), in.Dim(3)
		src := tensor.NewView4[T](tensor.Data[T](in), chans, rows, cols+shape.Padding())
		dst := tensor.NewView4[T](tensor.Data[T](out), chans, rows, cols+out.Shape().Padding())
		for n := 0; n < batch; n++ {
			for c := 0; c < chans; c++ {
				for r := 0; r < rows; r++ {
					for col := 0; col < cols; col++ {
						dst.Set(n, c, r, col, norm(src.At(n, c, r, col), c))
					}
				}
			}
		}
	}
}
