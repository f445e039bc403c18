package ref

import (
	"github.com/forge-ml/forge/internal/graph"
	"github.com/forge-ml/forge/internal/tensor"
)

type convolutionOp struct {
	*graph.ConvolutionOp
}

// Run computes the convolution over channel-first buffers. Positions whose
// receptive field reaches outside the input contribute zero; that is the
// padding policy, not an error.
func (op *convolutionOp) Run() {
	in := op.GetInput(graph.ConvolutionInputs)
	w := op.GetInput(graph.ConvolutionWeights)
	out := op.GetOutput(0)
	dispatchFloat(in,
		func() { refConvNCHW[float32](op.ConvolutionOp, in, w, out) },
		func() { refConvNCHW[float64](op.ConvolutionOp, in, w, out) })
}

func refConvNCHW[T tensor.DType](op *graph.ConvolutionOp, in, w, out *tensor.Tensor) {
	batch, chans, inRows, inCols := in.Dim(0), in.Dim(1), in.Dim(2), in.Dim(3)
	numOfmaps := w.Dim(0)
	kRows, kCols := w.Dim(2), w.Dim(3)
	outRows, outCols := out.Dim(2), out.Dim(3)
	rowStride, colStride := op.Stride()

	var topPad, leftPad int
	if op.Padding() == graph.SamePadding {
		topPad = kRows / 2
		leftPad = kCols / 2
	}

	src := tensor.NewView4[T](tensor.Data[T](in), chans, inRows, inCols+in.Shape().Padding())
	wts := tensor.NewView4[T](tensor.Data[T](w), chans, kRows, kCols+w.Shape().Padding())
	dst := tensor.NewView4[T](tensor.Data[T](out), numOfmaps, outRows, outCols+out.Shape().Padding())

	for n := 0; n < batch; n++ {
		for m := 0; m < numOfmaps; m++ {
			for outRow := 0; outRow < outRows; outRow++ {
				for outCol := 0; outCol < outCols; outCol++ {
					var sum T
					for c := 0; c < chans; c++ {
						for kr := 0; kr < kRows; kr++ {
							inRow := outRow*rowStride - topPad + kr
							if inRow < 0 || inRow >= inRows {
								continue
							}
							for kc := 0; kc < kCols; kc++ {
								inCol := outCol*colStride - leftPad + kc
								if inCol < 0 || inCol >= inCols {
									continue
								}
								sum += src.At(n, c, inRow, inCol) * wts.At(m, c, kr, kc)
							}
						}
					}
					dst.Set(n, m, outRow, outCol, sum)
				}
			}
		}
	}
}
