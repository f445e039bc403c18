package tensor

// DataLayout tags the logical-to-physical dimension ordering of a tensor.
type DataLayout int

// Supported layouts. X marks layout-agnostic tensors (elementwise inputs).
const (
	NCHW DataLayout = iota // 4-D, channel-first
	NHWC                   // 4-D, channel-last
	NC                     // 2-D, row-major
	CN                     // 2-D, column-major
	X                      // layout-agnostic
)

// String returns a human-readable layout name.
func (l DataLayout) String() string {
	switch l {
	case NCHW:
		return "NCHW"
	case NHWC:
		return "NHWC"
	case NC:
		return "NC"
	case CN:
		return "CN"
	case X:
		return "X"
	default:
		return "unknown"
	}
}

// NDims returns the rank a layout implies, or 0 for layout-agnostic X.
func (l DataLayout) NDims() int {
	switch l {
	case NCHW, NHWC:
		return 4
	case NC, CN:
		return 2
	default:
		return 0
	}
}

// Transposed returns the layout with the two logical dimensions swapped.
// Only defined for the 2-D layouts.
func (l DataLayout) Transposed() DataLayout {
	switch l {
	case NC:
		return CN
	case CN:
		return NC
	default:
		panic("transposed layout is only defined for NC and CN")
	}
}
