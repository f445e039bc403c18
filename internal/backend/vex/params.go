// Package vex implements the scratchpad-mapped accelerator backend: 8-wide
// vector lanes, 8-element alignment, channel-last inputs, transposed
// fully-connected weights, and numeric kernels expressed against
// fixed-size scratchpad buffers the way the synthesized datapath addresses
// them.
package vex

// Datapath geometry. A kernel invocation processes input channels in
// blocks of VectorSize*NumMaccInsts lanes and computes up to NumPEInsts
// output channels in parallel.
const (
	VectorSize   = 8
	NumPEInsts   = 8
	NumMaccInsts = 4
)

// vec is one vector register: VectorSize float32 lanes.
type vec [VectorSize]float32

// loadVec fills a vector register from src starting at base, zero-filling
// lanes past the end of the buffer.
func loadVec(src []float32, base int) vec {
	var v vec
	for i := 0; i < VectorSize && base+i < len(src); i++ {
		v[i] = src[base+i]
	}
	return v
}

// mulVec multiplies two registers lane-wise.
func mulVec(a, b vec) vec {
	var out vec
	for i := range out {
		out[i] = a[i] * b[i]
	}
	return out
}

// addVec adds two registers lane-wise.
func addVec(a, b vec) vec {
	var out vec
	for i := range out {
		out[i] = a[i] + b[i]
	}
	return out
}

// sumLanes reduces a register to one scalar.
func sumLanes(v vec) float32 {
	var sum float32
	for i := range v {
		sum += v[i]
	}
	return sum
}

func min2(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// fracCeil is ceiling division for positive operands.
func fracCeil(a, b int) int {
	return (a + b - 1) / b
}
