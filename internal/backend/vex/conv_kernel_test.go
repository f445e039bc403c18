package vex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// onesKernelCase builds all-ones inputs [1, rows, cols, chans] and weights
// [ofmaps, kRows, kCols, chans] with the given per-buffer channel padding,
// so every output element is the count of valid taps times chans.
func onesKernelCase(rows, cols, chans, ofmaps, kRows, kCols, pad int) (inputs, weights, results []float32) {
	stride := chans + pad
	inputs = make([]float32, rows*cols*stride)
	for px := 0; px < rows*cols; px++ {
		for c := 0; c < chans; c++ {
			inputs[px*stride+c] = 1
		}
	}
	weights = make([]float32, ofmaps*kRows*kCols*stride)
	for m := 0; m < ofmaps; m++ {
		for tap := 0; tap < kRows*kCols; tap++ {
			for c := 0; c < chans; c++ {
				weights[(m*kRows*kCols+tap)*stride+c] = 1
			}
		}
	}
	results = make([]float32, rows*cols*(ofmaps+pad))
	return inputs, weights, results
}

func TestKernelStartFromZeroAndAccumulate(t *testing.T) {
	inputs, weights, results := onesKernelCase(3, 3, 8, 8, 3, 3, 0)
	inputsDims := [4]int{1, 3, 3, 8}
	weightsDims := [4]int{8, 3, 3, 8}
	resultsDims := [4]int{1, 3, 3, 8}

	run := func(accumulate bool) {
		ConvNHWCSamePadding(inputs, weights, results,
			inputsDims, weightsDims, resultsDims,
			0, 0, 0, 1, 1, 0, 0, accumulate)
	}

	// 3x3 same padding over a 3x3 image: corners see 4 taps, edges 6,
	// the center 9; each tap sums 8 channels of ones.
	wantOnce := []float32{
		4 * 8, 6 * 8, 4 * 8,
		6 * 8, 9 * 8, 6 * 8,
		4 * 8, 6 * 8, 4 * 8,
	}
	check := func(scale float32) {
		for px := 0; px < 9; px++ {
			for m := 0; m < 8; m++ {
				assert.InDelta(t, wantOnce[px]*scale, results[px*8+m], 1e-5,
					"pixel %d ofmap %d", px, m)
			}
		}
	}

	run(false)
	check(1)
	run(true)
	check(2)
	// A fresh non-accumulating pass discards the doubled values.
	run(false)
	check(1)
}

func TestKernelChannelMasking(t *testing.T) {
	// 10 channels with alignment padding to 16: the second vector group
	// covers lanes 8..15 but only 8 and 9 are real. One invocation drives
	// at most NumPEInsts output channels, so covering all 10 takes two PE
	// groups.
	inputs, weights, results := onesKernelCase(3, 3, 10, 10, 3, 3, 6)
	inputsDims := [4]int{1, 3, 3, 10}
	weightsDims := [4]int{10, 3, 3, 10}
	resultsDims := [4]int{1, 3, 3, 10}
	ConvNHWCSamePadding(inputs, weights, results,
		inputsDims, weightsDims, resultsDims,
		6, 6, 6, 1, 1, 0, 0, false)
	ConvNHWCSamePadding(inputs, weights, results,
		inputsDims, weightsDims, resultsDims,
		6, 6, 6, 1, 1, 8, 0, false)

	wantOnce := []float32{
		4 * 10, 6 * 10, 4 * 10,
		6 * 10, 9 * 10, 6 * 10,
		4 * 10, 6 * 10, 4 * 10,
	}
	for px := 0; px < 9; px++ {
		for m := 0; m < 10; m++ {
			assert.InDelta(t, wantOnce[px], results[px*16+m], 1e-5,
				"pixel %d ofmap %d", px, m)
		}
		for m := 10; m < 16; m++ {
			assert.Zero(t, results[px*16+m], "padding lane %d at pixel %d", m, px)
		}
	}
}

func TestKernelEdgePixelIsAllPadding(t *testing.T) {
	// A 1x1 image under a 3x3 kernel: 8 of 9 taps fall outside and must
	// load zero activations, leaving only the center tap.
	inputs, weights, results := onesKernelCase(1, 1, 8, 8, 3, 3, 0)
	// Make the taps distinguishable: the center tap weighs 2, the rest 100.
	stride := 8
	for m := 0; m < 8; m++ {
		for tap := 0; tap < 9; tap++ {
			w := float32(100)
			if tap == 4 {
				w = 2
			}
			for c := 0; c < 8; c++ {
				weights[(m*9+tap)*stride+c] = w
			}
		}
	}
	ConvNHWCSamePadding(inputs, weights, results,
		[4]int{1, 1, 1, 8}, [4]int{8, 3, 3, 8}, [4]int{1, 1, 1, 8},
		0, 0, 0, 1, 1, 0, 0, false)

	for m := 0; m < 8; m++ {
		assert.InDelta(t, float32(2*8), results[m], 1e-5, "ofmap %d", m)
	}
}

func TestKernelDisjointOfmapGroups(t *testing.T) {
	// 16 output channels take two kernel invocations of 8 PEs each. Each
	// group starts from zero independently; the second sweep must not
	// disturb the first group's lanes.
	chans := 8
	inputs := make([]float32, 2*2*chans)
	for i := range inputs {
		inputs[i] = 1
	}
	weights := make([]float32, 16*chans)
	for m := 0; m < 16; m++ {
		for c := 0; c < chans; c++ {
			weights[m*chans+c] = float32(m + 1)
		}
	}
	results := make([]float32, 2*2*16)

	inputsDims := [4]int{1, 2, 2, chans}
	weightsDims := [4]int{16, 1, 1, chans}
	resultsDims := [4]int{1, 2, 2, 16}
	ConvNHWCSamePadding(inputs, weights, results,
		inputsDims, weightsDims, resultsDims,
		0, 0, 0, 1, 1, 0, 0, false)
	ConvNHWCSamePadding(inputs, weights, results,
		inputsDims, weightsDims, resultsDims,
		0, 0, 0, 1, 1, 8, 0, false)

	for px := 0; px < 4; px++ {
		for m := 0; m < 16; m++ {
			assert.InDelta(t, float32((m+1)*chans), results[px*16+m], 1e-5,
				"pixel %d ofmap %d", px, m)
		}
	}
}

func TestKernelChannelTiling(t *testing.T) {
	// Processing a 16-channel input as two 8-channel slices, the second
	// with ifmapStart=8 and accumulate=true, must match one full-width
	// invocation.
	chans := 16
	inputs := make([]float32, 2*2*chans)
	for i := range inputs {
		inputs[i] = float32(i%7) * 0.5
	}
	fullWeights := make([]float32, 4*3*3*chans)
	for i := range fullWeights {
		fullWeights[i] = float32(i%5) * 0.25
	}

	full := make([]float32, 2*2*4)
	ConvNHWCSamePadding(inputs, fullWeights, full,
		[4]int{1, 2, 2, chans}, [4]int{4, 3, 3, chans}, [4]int{1, 2, 2, 4},
		0, 0, 0, 1, 1, 0, 0, false)

	// Slice the weights by input channel: tap t of slice s holds
	// channels s*8..s*8+7 of tap t.
	sliceWeights := func(s int) []float32 {
		out := make([]float32, 4*3*3*8)
		for tap := 0; tap < 4*3*3; tap++ {
			copy(out[tap*8:tap*8+8], fullWeights[tap*chans+s*8:tap*chans+s*8+8])
		}
		return out
	}

	tiled := make([]float32, 2*2*4)
	ConvNHWCSamePadding(inputs, sliceWeights(0), tiled,
		[4]int{1, 2, 2, chans}, [4]int{4, 3, 3, 8}, [4]int{1, 2, 2, 4},
		0, 0, 0, 1, 1, 0, 0, false)
	ConvNHWCSamePadding(inputs, sliceWeights(1), tiled,
		[4]int{1, 2, 2, chans}, [4]int{4, 3, 3, 8}, [4]int{1, 2, 2, 4},
		0, 0, 0, 1, 1, 0, 8, true)

	for i := range full {
		assert.InDelta(t, full[i], tiled[i], 1e-4, "element %d", i)
	}
}
