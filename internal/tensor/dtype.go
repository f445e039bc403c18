// Package tensor provides the core tensor, shape and layout types for the
// Forge inference engine.
package tensor

// DType is a constraint for element types that have typed storage views.
// Float16 tensors exist as a tag but are only accessible as raw bytes.
type DType interface {
	~float32 | ~float64 | ~int32 | ~int64
}

// DataType represents runtime element-type information for tensors.
type DataType int

// Supported element types.
const (
	UnknownDataType DataType = iota
	Float16
	Float32
	Float64
	Int32
	Int64
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float16:
		return 2
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float16:
		return "float16"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	default:
		return "unknown"
	}
}

// inferDataType infers the DataType tag for a generic element type T.
func inferDataType[T DType]() DataType {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int32:
		return Int32
	case int64:
		return Int64
	default:
		panic("unsupported type")
	}
}
