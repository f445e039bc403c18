// Copyright 2026 The Forge Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package graph provides the public API for building operator graphs: the
// Operator contract, the Workspace registry and the operator family.
package graph

import (
	"github.com/forge-ml/forge/internal/graph"
	"github.com/forge-ml/forge/internal/tensor"
)

// OpType tags the computational role of an operator.
type OpType = graph.OpType

// Operator types.
const (
	Convolution          OpType = graph.Convolution
	DepthwiseConvolution OpType = graph.DepthwiseConvolution
	InnerProduct         OpType = graph.InnerProduct
	BatchNorm            OpType = graph.BatchNorm
	MaxPooling           OpType = graph.MaxPooling
	AvgPooling           OpType = graph.AvgPooling
	EltwiseAdd           OpType = graph.EltwiseAdd
	EltwiseMul           OpType = graph.EltwiseMul
	Relu                 OpType = graph.Relu
	Sigmoid              OpType = graph.Sigmoid
	Tanh                 OpType = graph.Tanh
	HardTanh             OpType = graph.HardTanh
	Elu                  OpType = graph.Elu
	Selu                 OpType = graph.Selu
	Softmax              OpType = graph.Softmax
	Reorder              OpType = graph.Reorder
)

// Operator is the contract every computational graph node satisfies.
type Operator = graph.Operator

// Workspace owns every tensor and operator of a graph.
type Workspace = graph.Workspace

// NewWorkspace creates an empty workspace.
var NewWorkspace = graph.NewWorkspace

// Policy is a backend's shape-inference constants.
type Policy = graph.Policy

// SamplingInfo is the approximate-execution hint.
type SamplingInfo = graph.SamplingInfo

// Sampling levels.
const (
	NoSampling       = graph.NoSampling
	LowSampling      = graph.LowSampling
	MediumSampling   = graph.MediumSampling
	HighSampling     = graph.HighSampling
	VeryHighSampling = graph.VeryHighSampling
)

// PaddingType selects the convolution boundary policy.
type PaddingType = graph.PaddingType

// Padding policies.
const (
	SamePadding  PaddingType = graph.SamePadding
	ValidPadding PaddingType = graph.ValidPadding
)

// Concrete operator types, for callers that need the setters after
// building a node through the backend factory matrix.
type (
	ConvolutionOp          = graph.ConvolutionOp
	DepthwiseConvolutionOp = graph.DepthwiseConvolutionOp
	InnerProductOp         = graph.InnerProductOp
	BatchNormOp            = graph.BatchNormOp
	PoolingOp              = graph.PoolingOp
	EltwiseOp              = graph.EltwiseOp
	ReluOp                 = graph.ReluOp
	HardTanhOp             = graph.HardTanhOp
	EluOp                  = graph.EluOp
	SeluOp                 = graph.SeluOp
	SoftmaxOp              = graph.SoftmaxOp
	ReorderOp              = graph.ReorderOp
)

// AllocateAllTensors allocates storage of element type T for every bound
// tensor of op.
func AllocateAllTensors[T tensor.DType](op Operator) error {
	return graph.AllocateAllTensors[T](op)
}
