package tensor

import "github.com/pkg/errors"

// Shape represents the dimensions of a tensor.
// An empty Shape is a 0-dimensional scalar with one element.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return errors.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates canonical row-major strides for the shape:
// strides[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// IsContiguous reports whether the given strides equal the canonical
// row-major strides for this shape.
func (s Shape) IsContiguous(strides []int) bool {
	if len(strides) != len(s) {
		return false
	}
	canonical := s.ComputeStrides()
	for i := range canonical {
		if strides[i] != canonical[i] {
			return false
		}
	}
	return true
}
