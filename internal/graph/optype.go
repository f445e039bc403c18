// Package graph defines the operator model of the Forge inference engine:
// typed, backend-bound graph nodes with a shape-inference, validation and
// execution contract, plus the workspace that owns every tensor and
// operator built for a graph.
package graph

// OpType tags the computational role of an operator.
type OpType int

// Supported operator types.
const (
	UnknownOp OpType = iota
	Convolution
	DepthwiseConvolution
	InnerProduct
	BatchNorm
	MaxPooling
	AvgPooling
	EltwiseAdd
	EltwiseMul
	Relu
	Sigmoid
	Tanh
	HardTanh
	Elu
	Selu
	Softmax
	Reorder
)

// String returns a human-readable operator type name.
func (t OpType) String() string {
	switch t {
	case Convolution:
		return "Convolution"
	case DepthwiseConvolution:
		return "DepthwiseConvolution"
	case InnerProduct:
		return "InnerProduct"
	case BatchNorm:
		return "BatchNorm"
	case MaxPooling:
		return "MaxPooling"
	case AvgPooling:
		return "AvgPooling"
	case EltwiseAdd:
		return "EltwiseAdd"
	case EltwiseMul:
		return "EltwiseMul"
	case Relu:
		return "Relu"
	case Sigmoid:
		return "Sigmoid"
	case Tanh:
		return "Tanh"
	case HardTanh:
		return "HardTanh"
	case Elu:
		return "Elu"
	case Selu:
		return "Selu"
	case Softmax:
		return "Softmax"
	case Reorder:
		return "Reorder"
	default:
		return "Unknown"
	}
}
