// Copyright 2026 The Forge Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for the Forge tensor model:
// shapes with explicit layout and alignment padding, named typed tensors
// over flat storage, strided views, and layout reorder routines.
package tensor

import (
	"github.com/forge-ml/forge/internal/tensor"
)

// DType is a constraint for element types with typed storage views.
type DType = tensor.DType

// DataType represents runtime element-type information.
type DataType = tensor.DataType

// Element type tags.
const (
	Float16 DataType = tensor.Float16
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
)

// DataLayout tags the logical-to-physical dimension ordering.
type DataLayout = tensor.DataLayout

// Layout tags.
const (
	NCHW DataLayout = tensor.NCHW
	NHWC DataLayout = tensor.NHWC
	NC   DataLayout = tensor.NC
	CN   DataLayout = tensor.CN
	X    DataLayout = tensor.X
)

// TensorShape describes extents, layout and alignment padding.
type TensorShape = tensor.TensorShape

// Tensor is a named, shaped, typed array over one flat buffer.
type Tensor = tensor.Tensor

// Constructors and generic helpers.
var (
	NewTensorShape        = tensor.NewTensorShape
	NewTensorShapeAligned = tensor.NewTensorShapeAligned
	New                   = tensor.New
	CalcPadding           = tensor.CalcPadding
	ConvertNCHWToNHWC     = tensor.ConvertNCHWToNHWC
	ConvertNHWCToNCHW     = tensor.ConvertNHWCToNCHW
	TransposeNC           = tensor.TransposeNC
	Flatten               = tensor.Flatten
)

// AllocateStorage allocates a tensor's storage for element type T.
func AllocateStorage[T DType](t *Tensor) error {
	return tensor.AllocateStorage[T](t)
}

// FillData copies logical values into a tensor's padded storage.
func FillData[T DType](t *Tensor, values []T) error {
	return tensor.FillData(t, values)
}

// Data returns a typed view over a tensor's padded storage.
func Data[T DType](t *Tensor) []T {
	return tensor.Data[T](t)
}
