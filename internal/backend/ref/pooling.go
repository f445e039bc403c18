package ref

import (
	"github.com/forge-ml/forge/internal/graph"
	"github.com/forge-ml/forge/internal/tensor"
)

type poolingOp struct {
	*graph.PoolingOp
}

// Run pools each window with max or mean, in whichever layout the policy
// prescribes.
func (op *poolingOp) Run() {
	in, out := op.GetInput(0), op.GetOutput(0)
	dispatchFloat(in,
		func() { refPool[float32](op.PoolingOp, in, out) },
		func() { refPool[float64](op.PoolingOp, in, out) })
}

func refPool[T tensor.DType](op *graph.PoolingOp, in, out *tensor.Tensor) {
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
	poolRows, poolCols := op.PoolingSize()
	rowStride, colStride := op.Stride()

	var src, dst tensor.View4[T]
	if channelLast {
		src = tensor.NewView4[T](tensor.Data[T](in), inRows, inCols, chans+in.Shape().Padding())
		dst = tensor.NewView4[T](tensor.Data[T](out), outRows, outCols, chans+out.Shape().Padding())
	} else {
		src = tensor.NewView4[T](tensor.Data[T](in), chans, inRows, inCols+in.Shape().Padding())
		dst = tensor.NewView4[T](tensor.Data[T](out), chans, outRows, outCols+out.Shape().Padding())
	}

	at := func(n, c, r, col int) T {
		if channelLast {
			return src.At(n, r, col, c)
		}
		return src.At(n, c, r, col)
	}
	set := func(n, c, r, col int, x T) {
		if channelLast {
			dst.Set(n, r, col, c, x)
		} else {
			dst.Set(n, c, r, col, x)
		}
	}

	windowSize := T(poolRows * poolCols)
	for n := 0; n < batch; n++ {
		for c := 0; c < chans; c++ {
			for outRow := 0; outRow < outRows; outRow++ {
				for outCol := 0; outCol < outCols; outCol++ {
					baseRow := outRow * rowStride
					baseCol := outCol * colStride
					if op.Type() == graph.MaxPooling {
						best := at(n, c, baseRow, baseCol)
						for pr := 0; pr < poolRows; pr++ {
							for pc := 0; pc < poolCols; pc++ {
								if v := at(n, c, baseRow+pr, baseCol+pc); v > best {
									best = v
								}
							}
						}
						set(n, c, outRow, outCol, best)
					} else {
						var sum T
						for pr := 0; pr < poolRows; pr++ {
							for pc := 0; pc < poolCols; pc++ {
								sum += at(n, c, baseRow+pr, baseCol+pc)
							}
						}
						set(n, c, outRow, outCol, sum/windowSize)
					}
				}
			}
		}
	}
}
