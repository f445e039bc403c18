package ref

import (
	"github.com/forge-ml/forge/internal/graph"
	"github.com/forge-ml/forge/internal/tensor"
)

type depthwiseConvolutionOp struct {
	*graph.DepthwiseConvolutionOp
}

// Run convolves every channel with its own filter, in whichever layout
// the policy prescribes. Positions whose receptive field reaches outside
// the input contribute zero.
func (op *depthwiseConvolutionOp) Run() {
	in := op.GetInput(graph.ConvolutionInputs)
	dispatchFloat(in,
		func() { refDepthwiseConv[float32](op.DepthwiseConvolutionOp) },
		func() { refDepthwiseConv[float64](op.DepthwiseConvolutionOp) })
}

func refDepthwiseConv[T tensor.DType](op *graph.DepthwiseConvolutionOp) {
	in := op.GetInput(graph.ConvolutionInputs)
	w := op.GetInput(graph.ConvolutionWeights)
	out := op.GetOutput(0)

	channelLast := in.Shape().Layout() == tensor.NHWC
	var chans, inRows, inCols, outRows, outCols int
	if channelLast {
		inRows, inCols, chans = in.Dim(1), in.Dim(2), in.Dim(3)
		outRows, outCols = out.Dim(1), out.Dim(2)
	} else {
		chans, inRows, inCols = in.Dim(1), in.Dim(2), in.Dim(3)
		outRows, outCols = out.Dim(2), out.Dim(3)
	}
	batch := in.Dim(0)
	kRows, kCols := op.KernelShape()
	rowStride, colStride := op.Stride()

	var topPad, leftPad int
	if op.Padding() == graph.SamePadding {
		topPad = kRows / 2
		leftPad = kCols / 2
	}

	var src, wts, dst tensor.View4[T]
	if channelLast {
		src = tensor.NewView4[T](tensor.Data[T](in), inRows, inCols, chans+in.Shape().Padding())
		wts = tensor.NewView4[T](tensor.Data[T](w), kRows, kCols, chans+w.Shape().Padding())
		dst = tensor.NewView4[T](tensor.Data[T](out), outRows, outCols, chans+out.Shape().Padding())
	} else {
		src = tensor.NewView4[T](tensor.Data[T](in), chans, inRows, inCols+in.Shape().Padding())
		wts = tensor.NewView4[T](tensor.Data[T](w), chans, kRows, kCols+w.Shape().Padding())
		dst = tensor.NewView4[T](tensor.Data[T](out), chans, outRows, outCols+out.Shape().Padding())
	}

	at := func(n, c, r, col int) T {
		if channelLast {
			return src.At(n, r, col, c)
		}
		return src.At(n, c, r, col)
	}
	weight := func(c, kr, kc int) T {
		if channelLast {
			return wts.At(0, kr, kc, c)
		}
		return wts.At(0, c, kr, kc)
	}
	set := func(n, c, r, col int, x T) {
		if channelLast {
			dst.Set(n, r, col, c, x)
		} else {
			dst.Set(n, c, r, col, x)
		}
	}

	for n := 0; n < batch; n++ {
		for c := 0; c < chans; c++ {
			for outRow := 0; outRow < outRows; outRow++ {
				for outCol := 0; outCol < outCols; outCol++ {
					var sum T
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
							sum += at(n, c, inRow, inCol) * weight(c, kr, kc)
						}
					}
					set(n, c, outRow, outCol, sum)
				}
			}
		}
	}
}
