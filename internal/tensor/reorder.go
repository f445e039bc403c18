package tensor

import "fmt"

// Layout reorder routines. Each public entry dispatches on the element-type
// tag into one generic implementation; the tag switch is exhaustive over
// the supported set and reaching the default case is a hard defect.

// ConvertNCHWToNHWC copies a 4-D channel-first tensor into a 4-D
// channel-last tensor of the same logical extents.
func ConvertNCHWToNHWC(input, output *Tensor) {
	checkReorder4D(input, output, NCHW, NHWC)
	switch input.DataType() {
	case Float32:
		convertNCHWToNHWC[float32](input, output)
	case Float64:
		convertNCHWToNHWC[float64](input, output)
	case Int32:
		convertNCHWToNHWC[int32](input, output)
	case Int64:
		convertNCHWToNHWC[int64](input, output)
	default:
		panic(fmt.Sprintf("reorder: unknown data type %s", input.DataType()))
	}
}

// ConvertNHWCToNCHW copies a 4-D channel-last tensor into a 4-D
// channel-first tensor of the same logical extents.
func ConvertNHWCToNCHW(input, output *Tensor) {
	checkReorder4D(input, output, NHWC, NCHW)
	switch input.DataType() {
	case Float32:
		convertNHWCToNCHW[float32](input, output)
	case Float64:
		convertNHWCToNCHW[float64](input, output)
	case Int32:
		convertNHWCToNCHW[int32](input, output)
	case Int64:
		convertNHWCToNCHW[int64](input, output)
	default:
		panic(fmt.Sprintf("reorder: unknown data type %s", input.DataType()))
	}
}

// TransposeNC copies a 2-D tensor into its transposed-layout counterpart
// (NC to CN or back). Logical extents are unchanged; only the physical
// element order differs.
func TransposeNC(input, output *Tensor) {
	if input.NDims() != 2 || output.NDims() != 2 {
		panic("transpose requires 2-D tensors")
	}
	if output.Shape().Layout() != input.Shape().Layout().Transposed() {
		panic(fmt.Sprintf("transpose: output layout %s does not transpose input layout %s",
			output.Shape().Layout(), input.Shape().Layout()))
	}
	switch input.DataType() {
	case Float32:
		transposeNC[float32](input, output)
	case Float64:
		transposeNC[float64](input, output)
	case Int32:
		transposeNC[int32](input, output)
	case Int64:
		transposeNC[int64](input, output)
	default:
		panic(fmt.Sprintf("reorder: unknown data type %s", input.DataType()))
	}
}

// Flatten copies a 4-D tensor into a 2-D [N, C*H*W] tensor, dropping the
// input's alignment padding and applying the output's.
func Flatten(input, output *Tensor) {
	if input.NDims() != 4 || output.NDims() != 2 {
		panic("flatten requires a 4-D input and a 2-D output")
	}
	if input.Dim(0) != output.Dim(0) ||
		output.Dim(1) != input.Shape().NumElements()/input.Dim(0) {
		panic(fmt.Sprintf("flatten: output shape %s does not match input shape %s",
			output.Shape(), input.Shape()))
	}
	switch input.DataType() {
	case Float32:
		flatten[float32](input, output)
	case Float64:
		flatten[float64](input, output)
	case Int32:
		flatten[int32](input, output)
	case Int64:
		flatten[int64](input, output)
	default:
		panic(fmt.Sprintf("reorder: unknown data type %s", input.DataType()))
	}
}

func checkReorder4D(input, output *Tensor, inLayout, outLayout DataLayout) {
	if input.NDims() != 4 || output.NDims() != 4 {
		panic("layout conversion requires 4-D tensors")
	}
	if input.Shape().Layout() != inLayout || output.Shape().Layout() != outLayout {
		panic(fmt.Sprintf("layout conversion %s->%s got input %s, output %s",
			inLayout, outLayout, input.Shape().Layout(), output.Shape().Layout()))
	}
}

func convertNCHWToNHWC[T DType](input, output *Tensor) {
	n, c, h, w := input.Dim(0), input.Dim(1), input.Dim(2), input.Dim(3)
	src := NewView4[T](Data[T](input), c, h, w+input.Shape().Padding())
	dst := NewView4[T](Data[T](output), h, w, c+output.Shape().Padding())
	for ni := 0; ni < n; ni++ {
		for ci := 0; ci < c; ci++ {
			for hi := 0; hi < h; hi++ {
				for wi := 0; wi < w; wi++ {
					dst.Set(ni, hi, wi, ci, src.At(ni, ci, hi, wi))
				}
			}
		}
	}
}

func convertNHWCToNCHW[T DType](input, output *Tensor) {
	n, h, w, c := input.Dim(0), input.Dim(1), input.Dim(2), input.Dim(3)
	src := NewView4[T](Data[T](input), h, w, c+input.Shape().Padding())
	dst := NewView4[T](Data[T](output), c, h, w+output.Shape().Padding())
	for ni := 0; ni < n; ni++ {
		for hi := 0; hi < h; hi++ {
			for wi := 0; wi < w; wi++ {
				for ci := 0; ci < c; ci++ {
					dst.Set(ni, ci, hi, wi, src.At(ni, hi, wi, ci))
				}
			}
		}
	}
}

func transposeNC[T DType](input, output *Tensor) {
	rows, cols := input.Dim(0), input.Dim(1)
	src := NewView2[T](Data[T](input), cols+input.Shape().Padding())
	dst := NewView2[T](Data[T](output), rows+output.Shape().Padding())
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			dst.Set(j, i, src.At(i, j))
		}
	}
}

func flatten[T DType](input, output *Tensor) {
	n := input.Dim(0)
	d1, d2, d3 := input.Dim(1), input.Dim(2), input.Dim(3)
	inner := d3 + input.Shape().Padding()
	src := Data[T](input)
	dst := NewView2[T](Data[T](output), output.Dim(1)+output.Shape().Padding())
	for ni := 0; ni < n; ni++ {
		out := dst.Row(ni)
		k := 0
		for i := 0; i < d1*d2; i++ {
			base := (ni*d1*d2 + i) * inner
			copy(out[k:k+d3], src[base:base+d3])
			k += d3
		}
	}
}
