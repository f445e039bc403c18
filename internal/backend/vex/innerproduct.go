package vex

import (
	"fmt"

	"github.com/forge-ml/forge/internal/graph"
	"github.com/forge-ml/forge/internal/tensor"
)

// MatVecTransposed multiplies one input row against transposed
// [numOutputs, inputWidth] weights, one output channel per PE pass, with
// VectorSize-wide multiply-accumulate over the padded input width.
// Alignment padding in both buffers is zero, so the vector sweep may cover
// it. Like the convolution kernel this is a pure function over explicit
// shape and padding parameters.
func MatVecTransposed(inputs, weights, results []float32,
	inputWidth, inputsPad int,
	numOutputs, weightsPad, resultsPad int) {

	paddedWidth := inputWidth + inputsPad
	wtView := tensor.NewView2(weights, inputWidth+weightsPad)
	for m := 0; m < numOutputs; m++ {
		wRow := wtView.Row(m)
		var acc vec
		for k := 0; k < paddedWidth; k += VectorSize {
			acc = addVec(acc, mulVec(loadVec(inputs, k), loadVec(wRow, k)))
		}
		results[m] = sumLanes(acc)
	}
}

type innerProductOp struct {
	*graph.InnerProductOp
}

// Run stages each input row, the transposed weights and the output row
// into the scratchpads and runs the matrix-vector kernel per batch entry.
func (op *innerProductOp) Run() {
	spads := requireGlobals(op.Name())

	in := op.GetInput(graph.InnerProductInputs)
	w := op.GetInput(graph.InnerProductWeights)
	out := op.GetOutput(0)
	if in.DataType() != tensor.Float32 {
		panic(fmt.Sprintf("operator %q: vex inner product supports float32 only, got %s",
			op.Name(), in.DataType()))
	}

	batch, width := in.Dim(0), in.Dim(1)
	numOutputs := out.Dim(1)
	inPad := in.Shape().Padding()
	wPad := w.Shape().Padding()
	outPad := out.Shape().Padding()

	rowSize := width + inPad
	weightsSize := numOutputs * (width + wPad)
	outRowSize := numOutputs + outPad

	spadIn := reserve(spads.Spad0, rowSize, "input row", op.Name())
	spadWts := reserve(spads.Spad1, weightsSize, "weights", op.Name())
	spadOut := reserve(spads.Spad2, outRowSize, "output row", op.Name())

	srcData := in.AsFloat32()
	dstData := out.AsFloat32()
	copy(spadWts, w.AsFloat32()[:weightsSize])

	for n := 0; n < batch; n++ {
		copy(spadIn, srcData[n*rowSize:(n+1)*rowSize])
		clear(spadOut)
		MatVecTransposed(spadIn, spadWts, spadOut,
			width, inPad, numOutputs, wPad, outPad)
		copy(dstData[n*outRowSize:(n+1)*outRowSize], spadOut)
	}
}
