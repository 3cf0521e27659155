// Copyright 2025 The Stag Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure-Go CPU compute backend.
package cpu

import (
	internalcpu "github.com/coreylowman/stag/internal/backend/cpu"
	"github.com/coreylowman/stag/tensor"
)

// Backend is the CPU backend implementation.
type Backend = internalcpu.Backend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a CPU backend with the default seed.
//
// Example:
//
//	backend := cpu.New()
//	x, err := autodiff.Zeros[float32](backend, tensor.Shape{2, 3})
func New() *Backend {
	return internalcpu.New()
}

// WithSeed creates a CPU backend whose random fills are seeded with the
// given value.
func WithSeed(seed uint64) *Backend {
	return internalcpu.WithSeed(seed)
}
