// Package ref implements the portable reference backend: no alignment
// padding, channel-first inputs, fully-connected weights stored
// untransposed, and straightforward numeric paths for every operator.
//
// The elementwise, activation, softmax, batch-norm, pooling, depthwise
// convolution and reorder paths are policy-parameterized and shared with
// other backends through RegisterPortableOps.
package ref

import (
	"github.com/forge-ml/forge/internal/backend"
	"github.com/forge-ml/forge/internal/graph"
	"github.com/forge-ml/forge/internal/tensor"
)

// Policy holds the reference backend constants.
var Policy = graph.Policy{
	Name:                 string(backend.Reference),
	Alignment:            0,
	DefaultInputLayout:   tensor.NCHW,
	TransposeFCWeights:   false,
	PrecomputeBNVariance: true,
}

func init() {
	backend.Register(graph.Convolution, backend.Reference,
		func(name string, ws *graph.Workspace) graph.Operator {
			op := graph.NewConvolutionOp(name, Policy, ws)
			return &convolutionOp{ConvolutionOp: op}
		})
	backend.Register(graph.InnerProduct, backend.Reference,
		func(name string, ws *graph.Workspace) graph.Operator {
			op := graph.NewInnerProductOp(name, Policy, ws)
			return &innerProductOp{InnerProductOp: op}
		})
	RegisterPortableOps(backend.Reference, Policy)
}

// RegisterPortableOps installs the layout-agnostic reference
// implementations (elementwise, activations, softmax, batch norm,
// pooling, depthwise convolution, reorder) for a backend. Backends with
// hardware-mapped convolution and inner-product paths reuse these for
// the rest of the operator family.
func RegisterPortableOps(b backend.Name, pol graph.Policy) {
	backend.Register(graph.DepthwiseConvolution, b,
		func(name string, ws *graph.Workspace) graph.Operator {
			op := graph.NewDepthwiseConvolutionOp(name, pol, ws)
			return &depthwiseConvolutionOp{DepthwiseConvolutionOp: op}
		})
	backend.Register(graph.BatchNorm, b,
		func(name string, ws *graph.Workspace) graph.Operator {
			return &batchNormOp{BatchNormOp: graph.NewBatchNormOp(name, pol, ws)}
		})
	backend.Register(graph.EltwiseAdd, b,
		func(name string, ws *graph.Workspace) graph.Operator {
			return &eltwiseOp{EltwiseOp: graph.NewEltwiseOp(name, graph.EltwiseAdd, pol, ws)}
		})
	backend.Register(graph.EltwiseMul, b,
		func(name string, ws *graph.Workspace) graph.Operator {
			return &eltwiseOp{EltwiseOp: graph.NewEltwiseOp(name, graph.EltwiseMul, pol, ws)}
		})
	backend.Register(graph.Relu, b,
		func(name string, ws *graph.Workspace) graph.Operator {
			return &reluOp{ReluOp: graph.NewReluOp(name, pol, ws)}
		})
	backend.Register(graph.Sigmoid, b,
		func(name string, ws *graph.Workspace) graph.Operator {
			return &unaryMathOp{UnaryOp: graph.NewUnaryOp(name, graph.Sigmoid, pol, ws)}
		})
	backend.Register(graph.Tanh, b,
		func(name string, ws *graph.Workspace) graph.Operator {
			return &unaryMathOp{UnaryOp: graph.NewUnaryOp(name, graph.Tanh, pol, ws)}
		})
	backend.Register(graph.HardTanh, b,
		func(name string, ws *graph.Workspace) graph.Operator {
			return &hardTanhOp{HardTanhOp: graph.NewHardTanhOp(name, pol, ws, -1, 1)}
		})
	backend.Register(graph.Elu, b,
		func(name string, ws *graph.Workspace) graph.Operator {
			return &eluOp{EluOp: graph.NewEluOp(name, pol, ws, 0.1)}
		})
	backend.Register(graph.Selu, b,
		func(name string, ws *graph.Workspace) graph.Operator {
			return &seluOp{SeluOp: graph.NewSeluOp(name, pol, ws)}
		})
	backend.Register(graph.Softmax, b,
		func(name string, ws *graph.Workspace) graph.Operator {
			return &softmaxOp{SoftmaxOp: graph.NewSoftmaxOp(name, pol, ws)}
		})
	backend.Register(graph.MaxPooling, b,
		func(name string, ws *graph.Workspace) graph.Operator {
			return &poolingOp{PoolingOp: graph.NewPoolingOp(name, graph.MaxPooling, pol, ws)}
		})
	backend.Register(graph.AvgPooling, b,
		func(name string, ws *graph.Workspace) graph.Operator {
			return &poolingOp{PoolingOp: graph.NewPoolingOp(name, graph.AvgPooling, pol, ws)}
		})
	backend.Register(graph.Reorder, b,
		func(name string, ws *graph.Workspace) graph.Operator {
			return &reorderOp{ReorderOp: graph.NewReorderOp(name, pol, ws, tensor.NHWC)}
		})
}
