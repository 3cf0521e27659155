// Copyright 2025 The Stag Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation.
//
// Operations execute eagerly. Calling Trace on a tensor attaches an owning
// gradient tape; every operation touching a traced tensor then records a
// backward closure. Backward replays the tape in reverse and returns a map
// from tensor identity to gradient.
//
// Example:
//
//	backend := cpu.New()
//	w, _ := autodiff.Randn[float32](backend, tensor.Shape{3})
//	x, _ := autodiff.FromSlice(backend, tensor.Shape{3}, []float32{1, 2, 3})
//
//	pred, _ := autodiff.Mul(w.Trace(), x)
//	loss, _ := autodiff.Mean(pred)
//
//	grads, _ := autodiff.Backward(loss)
//	gw := grads.Get(w) // dloss/dw
package autodiff

import (
	internal "github.com/coreylowman/stag/internal/autodiff"
	"github.com/coreylowman/stag/tensor"
)

// Tensor couples storage with an identity, a backend and a tape carrier.
type Tensor = internal.Tensor

// Gradients maps tensor identities to accumulated gradient storage.
type Gradients = internal.Gradients

// GradientTape records backward closures and replays them in reverse.
type GradientTape = internal.GradientTape

// BackwardOp propagates gradients one operation backwards.
type BackwardOp = internal.BackwardOp

// Tape is the carrier a tensor holds: an owning tape or nothing.
type Tape = internal.Tape

// OwnedTape is the recording carrier.
type OwnedTape = internal.OwnedTape

// NoneTape is the non-recording carrier.
type NoneTape = internal.NoneTape

// ErrNotTraced is returned by Backward for tensors without an owning tape.
var ErrNotTraced = internal.ErrNotTraced

// NewGradientTape creates an empty tape.
func NewGradientTape() *GradientTape {
	return internal.NewGradientTape()
}

// NewGradients creates an empty gradient map.
func NewGradients() *Gradients {
	return internal.NewGradients()
}

// NewTensor wraps raw storage in a fresh-identity, non-traced tensor.
func NewTensor(raw *tensor.RawTensor, backend tensor.Backend) *Tensor {
	return internal.NewTensor(raw, backend)
}

// MergeTapes combines the tape carriers of two operands.
func MergeTapes(l, r Tape) Tape {
	return internal.MergeTapes(l, r)
}

// Creation

// FromSlice creates a tensor of the given shape holding a copy of data.
func FromSlice[T tensor.DType](b tensor.Backend, shape tensor.Shape, data []T) (*Tensor, error) {
	return internal.FromSlice(b, shape, data)
}

// Zeros creates a zero-filled tensor.
func Zeros[T tensor.DType](b tensor.Backend, shape tensor.Shape) (*Tensor, error) {
	return internal.Zeros[T](b, shape)
}

// Ones creates a tensor filled with ones.
func Ones[T tensor.DType](b tensor.Backend, shape tensor.Shape) (*Tensor, error) {
	return internal.Ones[T](b, shape)
}

// Full creates a tensor with every element set to value.
func Full[T tensor.DType](b tensor.Backend, shape tensor.Shape, value T) (*Tensor, error) {
	return internal.Full(b, shape, value)
}

// Randn creates a float tensor of standard-normal samples.
func Randn[T tensor.DType](b tensor.Backend, shape tensor.Shape) (*Tensor, error) {
	return internal.Randn[T](b, shape)
}

// Element-wise operations

// Add computes lhs + rhs.
func Add(lhs, rhs *Tensor) (*Tensor, error) { return internal.Add(lhs, rhs) }

// Sub computes lhs - rhs.
func Sub(lhs, rhs *Tensor) (*Tensor, error) { return internal.Sub(lhs, rhs) }

// Mul computes lhs * rhs.
func Mul(lhs, rhs *Tensor) (*Tensor, error) { return internal.Mul(lhs, rhs) }

// Div computes lhs / rhs.
func Div(lhs, rhs *Tensor) (*Tensor, error) { return internal.Div(lhs, rhs) }

// AddScalar computes x + s.
func AddScalar(x *Tensor, s float64) (*Tensor, error) { return internal.AddScalar(x, s) }

// SubScalar computes x - s.
func SubScalar(x *Tensor, s float64) (*Tensor, error) { return internal.SubScalar(x, s) }

// MulScalar computes x * s.
func MulScalar(x *Tensor, s float64) (*Tensor, error) { return internal.MulScalar(x, s) }

// DivScalar computes x / s.
func DivScalar(x *Tensor, s float64) (*Tensor, error) { return internal.DivScalar(x, s) }

// Neg computes -x.
func Neg(x *Tensor) (*Tensor, error) { return internal.Neg(x) }

// Exp computes e^x.
func Exp(x *Tensor) (*Tensor, error) { return internal.Exp(x) }

// Log computes the natural logarithm.
func Log(x *Tensor) (*Tensor, error) { return internal.Log(x) }

// Sqrt computes the square root.
func Sqrt(x *Tensor) (*Tensor, error) { return internal.Sqrt(x) }

// Tanh computes the hyperbolic tangent.
func Tanh(x *Tensor) (*Tensor, error) { return internal.Tanh(x) }

// Square computes x * x.
func Square(x *Tensor) (*Tensor, error) { return internal.Square(x) }

// Reductions and broadcasts

// Sum reduces x along the given axes by addition; with no axes it reduces
// over every axis.
func Sum(x *Tensor, axes ...int) (*Tensor, error) { return internal.Sum(x, axes...) }

// Mean reduces x along the given axes by arithmetic mean.
func Mean(x *Tensor, axes ...int) (*Tensor, error) { return internal.Mean(x, axes...) }

// SumTo reduces x down to the target shape.
func SumTo(x *Tensor, target tensor.Shape) (*Tensor, error) { return internal.SumTo(x, target) }

// MeanTo reduces x down to the target shape by arithmetic mean.
func MeanTo(x *Tensor, target tensor.Shape) (*Tensor, error) { return internal.MeanTo(x, target) }

// BroadcastTo replicates x up to the full shape along the given axes.
func BroadcastTo(x *Tensor, full tensor.Shape, axes ...int) (*Tensor, error) {
	return internal.BroadcastTo(x, full, axes...)
}

// Backward runs reverse-mode differentiation from a one-element float
// tensor, consuming its tape.
func Backward(t *Tensor) (*Gradients, error) {
	return internal.Backward(t)
}
