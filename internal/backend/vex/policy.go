package vex

import (
	"github.com/forge-ml/forge/internal/backend"
	"github.com/forge-ml/forge/internal/backend/ref"
	"github.com/forge-ml/forge/internal/graph"
	"github.com/forge-ml/forge/internal/tensor"
)

// Policy holds the Vex backend constants.
var Policy = graph.Policy{
	Name:                 string(backend.Vex),
	Alignment:            VectorSize,
	DefaultInputLayout:   tensor.NHWC,
	TransposeFCWeights:   true,
	PrecomputeBNVariance: true,
}

func init() {
	backend.Register(graph.Convolution, backend.Vex,
		func(name string, ws *graph.Workspace) graph.Operator {
			return &convolutionOp{ConvolutionOp: graph.NewConvolutionOp(name, Policy, ws)}
		})
	backend.Register(graph.InnerProduct, backend.Vex,
		func(name string, ws *graph.Workspace) graph.Operator {
			return &innerProductOp{InnerProductOp: graph.NewInnerProductOp(name, Policy, ws)}
		})
	// The rest of the operator family runs on the portable paths with Vex
	// alignment and layout rules.
	ref.RegisterPortableOps(backend.Vex, Policy)
}
