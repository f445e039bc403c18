package graph

import "github.com/forge-ml/forge/internal/tensor"

// Policy is a backend's compile-time constants: the rules an operator's
// shape inference must follow when it targets that backend. Concrete
// backends supply one Policy value each; operators never see anything else
// of the backend below the factory boundary.
type Policy struct {
	// Name identifies the backend ("Reference", "Vex").
	Name string

	// Alignment is the element alignment padding applied to the last
	// logical dimension of every tensor the backend touches. 0 means no
	// padding.
	Alignment int

	// DefaultInputLayout is the layout 4-D operator inputs are expected
	// in.
	DefaultInputLayout tensor.DataLayout

	// TransposeFCWeights reports whether fully-connected weights are
	// stored transposed ([numOutputs, inputWidth] instead of
	// [inputWidth, numOutputs]).
	TransposeFCWeights bool

	// PrecomputeBNVariance reports whether batch-norm variance tensors
	// hold the precomputed inverse standard deviation 1/sqrt(var+eps)
	// instead of the raw variance.
	PrecomputeBNVariance bool
}

// SamplingLevel grades how aggressively a backend may approximate an
// operator's execution. It never changes numeric correctness requirements;
// it is a performance/accuracy trade-off hint.
type SamplingLevel int

// Sampling levels, from exact to most aggressive.
const (
	NoSampling SamplingLevel = iota
	LowSampling
	MediumSampling
	HighSampling
	VeryHighSampling
)

// SamplingInfo is the approximate-execution hint carried by
// activation-fusable operators.
type SamplingInfo struct {
	Level               SamplingLevel
	NumSampleIterations int
}

// Samplable is implemented by operators that accept a sampling hint.
type Samplable interface {
	SupportsSampling() bool
	SetSamplingInfo(info SamplingInfo)
}
