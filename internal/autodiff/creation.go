package autodiff

import (
	"github.com/coreylowman/stag/internal/tensor"
	"github.com/pkg/errors"
)

func typedBuf[T tensor.DType](r *tensor.RawTensor) []T {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return any(r.AsFloat32()).([]T)
	case float64:
		return any(r.AsFloat64()).([]T)
	case int32:
		return any(r.AsInt32()).([]T)
	case int64:
		return any(r.AsInt64()).([]T)
	default:
		panic("unsupported type")
	}
}

// FromSlice creates a non-traced tensor of the given shape holding a copy
// of data in row-major order.
func FromSlice[T tensor.DType](b tensor.Backend, shape tensor.Shape, data []T) (*Tensor, error) {
	if len(data) != shape.NumElements() {
		return nil, errors.Wrapf(tensor.ErrShapeMismatch,
			"from slice: shape %v wants %d elements, got %d", shape, shape.NumElements(), len(data))
	}
	raw, err := b.AllocZeros(shape, tensor.DataTypeOf[T]())
	if err != nil {
		return nil, err
	}
	copy(typedBuf[T](raw), data)
	return NewTensor(raw, b), nil
}

// Zeros creates a zero-filled tensor.
func Zeros[T tensor.DType](b tensor.Backend, shape tensor.Shape) (*Tensor, error) {
	raw, err := b.AllocZeros(shape, tensor.DataTypeOf[T]())
	if err != nil {
		return nil, err
	}
	return NewTensor(raw, b), nil
}

// Ones creates a tensor filled with ones.
func Ones[T tensor.DType](b tensor.Backend, shape tensor.Shape) (*Tensor, error) {
	return Full[T](b, shape, 1)
}

// Full creates a tensor with every element set to value.
func Full[T tensor.DType](b tensor.Backend, shape tensor.Shape, value T) (*Tensor, error) {
	raw, err := b.AllocZeros(shape, tensor.DataTypeOf[T]())
	if err != nil {
		return nil, err
	}
	buf := typedBuf[T](raw)
	for i := 0; i < shape.NumElements(); i++ {
		buf[i] = value
	}
	return NewTensor(raw, b), nil
}

// Randn creates a float tensor of standard-normal samples drawn from the
// backend's seeded generator.
func Randn[T tensor.DType](b tensor.Backend, shape tensor.Shape) (*Tensor, error) {
	raw, err := b.AllocZeros(shape, tensor.DataTypeOf[T]())
	if err != nil {
		return nil, err
	}
	if err := b.FillRandn(raw); err != nil {
		return nil, err
	}
	return NewTensor(raw, b), nil
}
