package ref

import (
	"fmt"

	"github.com/forge-ml/forge/internal/tensor"
)

// mapElements applies f to every logical element of in and writes the
// result to the matching position in out. Iteration walks logical rows so
// alignment padding stays zero in the output.
func mapElements[T tensor.DType](in, out *tensor.Tensor, f func(float64) float64) {
	src := tensor.Data[T](in)
	dst := tensor.Data[T](out)
	rowLen := in.Dim(in.NDims() - 1)
	srcStride := rowLen + in.Shape().Padding()
	dstStride := rowLen + out.Shape().Padding()
	rows := in.Shape().NumElements() / rowLen
	for r := 0; r < rows; r++ {
		for i := 0; i < rowLen; i++ {
			dst[r*dstStride+i] = T(f(float64(src[r*srcStride+i])))
		}
	}
}

// zipElements applies f pairwise over the logical elements of a and b.
func zipElements[T tensor.DType](a, b, out *tensor.Tensor, f func(x, y T) T) {
	av := tensor.Data[T](a)
	bv := tensor.Data[T](b)
	dst := tensor.Data[T](out)
	rowLen := a.Dim(a.NDims() - 1)
	aStride := rowLen + a.Shape().Padding()
	bStride := rowLen + b.Shape().Padding()
	dStride := rowLen + out.Shape().Padding()
	rows := a.Shape().NumElements() / rowLen
	for r := 0; r < rows; r++ {
		for i := 0; i < rowLen; i++ {
			dst[r*dStride+i] = f(av[r*aStride+i], bv[r*bStride+i])
		}
	}
}

// dispatchFloat runs the float implementation matching t's element type.
// The tag set here is closed; any other tag is a hard defect.
func dispatchFloat(t *tensor.Tensor, f32 func(), f64 func()) {
	switch t.DataType() {
	case tensor.Float32:
		f32()
	case tensor.Float64:
		f64()
	default:
		panic(fmt.Sprintf("ref: unsupported data type %s (float32/float64 only)", t.DataType()))
	}
}
