// Copyright 2025 The Stag Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for stag's strided tensor storage.
//
// The package defines the core types the rest of the framework is written
// against:
//   - RawTensor: reference-counted, copy-on-write strided array storage
//   - Shape, DataType, Device: core type definitions
//   - Backend: interface for device-specific compute implementations
//   - NdIndex: offset iteration honoring arbitrary (including zero) strides
//
// Example:
//
//	raw, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data := raw.AsFloat32()
package tensor

import (
	"github.com/coreylowman/stag/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for tensor element types.
// Supported types: float32, float64, int32, int64.
type DType = tensor.DType

// DataType represents runtime type information for tensors.
type DataType = tensor.DataType

// Shape represents the dimensions of a tensor. An empty Shape is a
// 0-dimensional scalar with one element.
type Shape = tensor.Shape

// RawTensor is the low-level strided tensor storage.
type RawTensor = tensor.RawTensor

// Backend is the interface device-specific compute implementations satisfy.
type Backend = tensor.Backend

// Device represents the compute device a tensor lives on.
type Device = tensor.Device

// Accumulator names the combining function of a reduce/broadcast operation.
type Accumulator = tensor.Accumulator

// NdIndex enumerates buffer offsets of a (shape, strides) pair in row-major
// order.
type NdIndex = tensor.NdIndex

// UniqueID identifies a logical tensor quantity for gradient accumulation.
type UniqueID = tensor.UniqueID

// Data type constants.
const (
	Float32 = tensor.Float32
	Float64 = tensor.Float64
	Int32   = tensor.Int32
	Int64   = tensor.Int64
)

// Device constants.
const (
	CPU    = tensor.CPU
	CUDA   = tensor.CUDA
	WebGPU = tensor.WebGPU
)

// Accumulator constants.
const (
	AddAccum  = tensor.AddAccum
	MulAccum  = tensor.MulAccum
	MaxAccum  = tensor.MaxAccum
	MinAccum  = tensor.MinAccum
	CopyAccum = tensor.CopyAccum
)

// Sentinel errors for recoverable conditions.
var (
	ErrShapeMismatch      = tensor.ErrShapeMismatch
	ErrDTypeMismatch      = tensor.ErrDTypeMismatch
	ErrAxisOutOfRange     = tensor.ErrAxisOutOfRange
	ErrEmptyAxes          = tensor.ErrEmptyAxes
	ErrRankUnsupported    = tensor.ErrRankUnsupported
	ErrStridesOutOfBounds = tensor.ErrStridesOutOfBounds
)

// NewRaw creates a contiguous zero-filled RawTensor.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// NewRawLike creates a contiguous zero-filled RawTensor matching t's shape,
// dtype and device.
func NewRawLike(t *RawTensor) (*RawTensor, error) {
	return tensor.NewRawLike(t)
}

// NewNdIndex creates an offset iterator over shape honoring strides.
func NewNdIndex(shape Shape, strides []int) *NdIndex {
	return tensor.NewNdIndex(shape, strides)
}

// DataTypeOf returns the DataType corresponding to the generic type T.
func DataTypeOf[T DType]() DataType {
	return tensor.DataTypeOf[T]()
}

// NextUniqueID returns a process-unique, monotonically increasing identity.
func NextUniqueID() UniqueID {
	return tensor.NextUniqueID()
}

// NormalizeAxes resolves negative axis indices against rank ndim and sorts
// the result.
func NormalizeAxes(ndim int, axes []int) ([]int, error) {
	return tensor.NormalizeAxes(ndim, axes)
}

// ReducedShape drops the given axes from s.
func ReducedShape(s Shape, axes []int) (Shape, error) {
	return tensor.ReducedShape(s, axes)
}

// BroadcastStrides embeds reduced strides back into the full shape with
// zeros on the dropped axes.
func BroadcastStrides(full Shape, axes []int, reducedStrides []int) []int {
	return tensor.BroadcastStrides(full, axes, reducedStrides)
}
