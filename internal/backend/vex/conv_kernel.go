package vex

import "github.com/forge-ml/forge/internal/tensor"

// ConvNHWCSamePadding computes a same-padding 3-D convolution over
// channel-last buffers for up to NumPEInsts output feature maps starting
// at ofmapStart. It is a pure function over explicit shape, padding,
// stride and offset parameters; the hardware-timing simulator instruments
// exactly this boundary.
//
// Dims arrays are [batch, rows, cols, channels]; only batch entry 0 is
// processed. Pads are the trailing-dimension alignment paddings of each
// buffer, in elements. ifmapStart offsets the input channel a kernel
// channel maps to, so an invocation can process one slice of a
// channel-tiled input; weightsDims[3] is the number of input channels this
// invocation covers.
//
// The accumulation base for a result element is zero only when accumulate
// is false and this is the very first kernel-row, kernel-column and
// channel-block iteration; every other iteration adds into the existing
// value. The reset touches only the output-channel lanes
// [ofmapStart, ofmapStart+NumPEInsts) this invocation writes, so separate
// invocations over disjoint channel ranges carry independent accumulate
// flags.
//
// Input channels are consumed in blocks of VectorSize*NumMaccInsts lanes;
// the final partial block is masked to the true remaining channel count.
// Kernel weights for the whole PE group are loaded once per
// (kernel row, kernel column, channel block) and reused across the entire
// output sweep; weight reuse is deliberately favored over activation
// reuse. Input positions outside the valid row/column range load a zero
// vector. That is the zero-padding policy, never a fault.
func ConvNHWCSamePadding(inputs, weights, results []float32,
	inputsDims, weightsDims, resultsDims [4]int,
	inputsPad, weightsPad, resultsPad int,
	rowStride, colStride int,
	ofmapStart, ifmapStart int,
	accumulate bool) {

	resultCols := resultsDims[2]
	resultHeight := resultsDims[3]

	kRows := weightsDims[1]
	kCols := weightsDims[2]
	kHeight := weightsDims[3]

	aRows := inputsDims[1]
	aCols := inputsDims[2]

	// Same-padding amounts: kernelSize-1 elements split before/after.
	topPad := kRows / 2
	leftPad := kCols / 2

	endRow := aRows
	endCol := aCols
	validRowEnd := aRows - 1
	validColEnd := aCols - 1

	const peDepth = VectorSize * NumMaccInsts
	// Don't run PE lanes past the last real output channel.
	effPEs := min2(resultHeight-ofmapStart, NumPEInsts)

	inView := tensor.NewView3(inputs, aCols, inputsDims[3]+inputsPad)
	wtView := tensor.NewView4(weights, kRows, kCols, kHeight+weightsPad)
	resView := tensor.NewView3(results, resultCols, resultHeight+resultsPad)

	numChanBlocks := (kHeight - 1) / peDepth

	for kernRow := 0; kernRow < kRows; kernRow++ {
		for kernCol := 0; kernCol < kCols; kernCol++ {
			for block := 0; block <= numChanBlocks; block++ {
				startFromZero := !accumulate && kernRow == 0 && kernCol == 0 && block == 0
				ifmapOffset := block * peDepth

				// The last block may cover fewer than NumMaccInsts
				// vector groups of real channels.
				maxChGrp := NumMaccInsts
				if block == numChanBlocks {
					maxChGrp = fracCeil(kHeight-ifmapOffset, VectorSize)
				}

				// Load the whole PE group's weights before sweeping the
				// output.
				var kernelReg [NumPEInsts][NumMaccInsts]vec
				for pe := 0; pe < effPEs; pe++ {
					chans := wtView.Sub(ofmapStart + pe).Chans(kernRow, kernCol)
					for macc := 0; macc < NumMaccInsts; macc++ {
						if macc >= maxChGrp {
							kernelReg[pe][macc] = vec{}
						} else {
							kernelReg[pe][macc] = loadVec(chans, ifmapOffset+macc*VectorSize)
						}
					}
				}

				outI := 0
				for outRow := 0; outRow < endRow; outRow += rowStride {
					outJ := 0
					for outCol := 0; outCol < endCol; outCol += colStride {
						// Partial sums for the PE group live in one
						// register.
						var resultsBuffer vec
						if !startFromZero {
							resultsBuffer = loadVec(resView.Chans(outI, outJ), ofmapStart)
						}

						inRow := outRow - topPad + kernRow
						inCol := outCol - leftPad + kernCol
						inPaddingRow := inRow < 0 || inRow > validRowEnd
						inPaddingCol := inCol < 0 || inCol > validColEnd

						// Load activations once, then broadcast to every
						// PE.
						var actReg [NumMaccInsts]vec
						for macc := 0; macc < NumMaccInsts; macc++ {
							if inPaddingRow || inPaddingCol || macc >= maxChGrp {
								actReg[macc] = vec{}
							} else {
								actReg[macc] = loadVec(inView.Chans(inRow, inCol),
									ifmapStart+ifmapOffset+macc*VectorSize)
							}
						}

						for pe := 0; pe < effPEs; pe++ {
							var accumVec vec
							for macc := 0; macc < NumMaccInsts; macc++ {
								accumVec = addVec(accumVec, mulVec(kernelReg[pe][macc], actReg[macc]))
							}
							resultsBuffer[pe] += sumLanes(accumVec)
						}

						// One write-back per output pixel.
						outChans := resView.Chans(outI, outJ)
						for pe := 0; pe < effPEs; pe++ {
							outChans[ofmapStart+pe] = resultsBuffer[pe]
						}
						outJ++
					}
					outI++
				}
			}
		}
	}
}
