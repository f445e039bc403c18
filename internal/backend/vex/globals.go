package vex

import (
	"errors"

	"k8s.io/klog/v2"
)

// kSpadSize is the default per-scratchpad capacity in elements.
const kSpadSize = 32 * 1024

// Scratchpads models the backend's three on-chip memories. The buffers are
// process-wide shared state with an explicit paired lifecycle: InitGlobals
// before any Vex operator is built or run, FreeGlobals exactly once after
// the last one finishes. Exactly one operator executes at a time, so the
// buffers carry no locking.
type Scratchpads struct {
	Spad0 []float32
	Spad1 []float32
	Spad2 []float32
	size  int
}

// Size returns the per-buffer capacity in elements.
func (s *Scratchpads) Size() int { return s.size }

var globals *Scratchpads

// InitGlobals allocates the three scratchpad buffers at the default
// capacity. Calling it again without an intervening FreeGlobals is a
// lifecycle violation.
func InitGlobals() error {
	return InitGlobalsSized(kSpadSize)
}

// InitGlobalsSized allocates the scratchpads with an explicit per-buffer
// capacity in elements.
func InitGlobalsSized(size int) error {
	if globals != nil {
		return errors.New("vex: scratchpads already initialized")
	}
	if size <= 0 {
		return errors.New("vex: scratchpad capacity must be positive")
	}
	globals = &Scratchpads{
		Spad0: make([]float32, size),
		Spad1: make([]float32, size),
		Spad2: make([]float32, size),
		size:  size,
	}
	klog.V(1).Infof("vex: initialized scratchpads, %d elements each", size)
	return nil
}

// FreeGlobals releases the buffers allocated by InitGlobals. Calling it
// without a prior InitGlobals is a lifecycle violation.
func FreeGlobals() error {
	if globals == nil {
		return errors.New("vex: scratchpads not initialized")
	}
	globals = nil
	klog.V(1).Info("vex: freed scratchpads")
	return nil
}

// SpadSize returns the configured per-buffer capacity in elements, or 0
// outside the InitGlobals/FreeGlobals bracket.
func SpadSize() int {
	if globals == nil {
		return 0
	}
	return globals.size
}

// requireGlobals returns the live scratchpads. Executing a Vex operator
// outside the lifecycle bracket is fatal.
func requireGlobals(opName string) *Scratchpads {
	if globals == nil {
		klog.Fatalf("vex: operator %q executed outside the InitGlobals/FreeGlobals bracket", opName)
	}
	return globals
}

// reserve slices n elements out of a scratchpad. Overflowing the
// scratchpad is fatal: the graph was built for a larger accelerator than
// the one configured.
func reserve(spad []float32, n int, what, opName string) []float32 {
	if n > len(spad) {
		klog.Fatalf("vex: operator %q: %s needs %d elements, scratchpad holds %d",
			opName, what, n, len(spad))
	}
	return spad[:n]
}
