package vex

import (
	"fmt"

	"github.com/forge-ml/forge/internal/graph"
	"github.com/forge-ml/forge/internal/tensor"
)

type convolutionOp struct {
	*graph.ConvolutionOp
}

// Run stages one input image, the kernel weights and the output image into
// the three scratchpads, then sweeps the vector kernel over output-channel
// groups of NumPEInsts.
func (op *convolutionOp) Run() {
	spads := requireGlobals(op.Name())

	in := op.GetInput(graph.ConvolutionInputs)
	w := op.GetInput(graph.ConvolutionWeights)
	out := op.GetOutput(0)
	if in.DataType() != tensor.Float32 {
		panic(fmt.Sprintf("operator %q: vex convolution supports float32 only, got %s",
			op.Name(), in.DataType()))
	}
	if op.Padding() != graph.SamePadding {
		panic(fmt.Sprintf("operator %q: vex convolution supports same padding only", op.Name()))
	}

	batch := in.Dim(0)
	inRows, inCols, chans := in.Dim(1), in.Dim(2), in.Dim(3)
	numOfmaps := w.Dim(0)
	kRows, kCols := w.Dim(1), w.Dim(2)
	outRows, outCols := out.Dim(1), out.Dim(2)
	rowStride, colStride := op.Stride()

	inPad := in.Shape().Padding()
	wPad := w.Shape().Padding()
	outPad := out.Shape().Padding()

	imageSize := inRows * inCols * (chans + inPad)
	weightsSize := numOfmaps * kRows * kCols * (chans + wPad)
	outImageSize := outRows * outCols * (numOfmaps + outPad)

	spadIn := reserve(spads.Spad0, imageSize, "input image", op.Name())
	spadWts := reserve(spads.Spad1, weightsSize, "kernels", op.Name())
	spadOut := reserve(spads.Spad2, outImageSize, "output image", op.Name())

	inputsDims := [4]int{1, inRows, inCols, chans}
	weightsDims := [4]int{numOfmaps, kRows, kCols, chans}
	resultsDims := [4]int{1, outRows, outCols, numOfmaps}

	srcData := in.AsFloat32()
	dstData := out.AsFloat32()
	copy(spadWts, w.AsFloat32()[:weightsSize])

	for n := 0; n < batch; n++ {
		copy(spadIn, srcData[n*imageSize:(n+1)*imageSize])
		clear(spadOut)
		for ofmapStart := 0; ofmapStart < numOfmaps; ofmapStart += NumPEInsts {
			ConvNHWCSamePadding(spadIn, spadWts, spadOut,
				inputsDims, weightsDims, resultsDims,
				inPad, wPad, outPad,
				rowStride, colStride,
				ofmapStart, 0, false)
		}
		copy(dstData[n*outImageSize:(n+1)*outImageSize], spadOut)
	}
}
