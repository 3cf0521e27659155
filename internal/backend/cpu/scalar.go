package cpu

import (
	"github.com/coreylowman/stag/internal/tensor"
	"github.com/pkg/errors"
)

func scalarFunc[T tensor.DType](op string, s T) func(T) T {
	switch op {
	case "add":
		return func(v T) T { return v + s }
	case "sub":
		return func(v T) T { return v - s }
	case "mul":
		return func(v T) T { return v * s }
	case "div":
		return func(v T) T { return v / s }
	default:
		panic("unknown scalar op: " + op)
	}
}

func (b *Backend) scalar(op string, x *tensor.RawTensor, s float64) (*tensor.RawTensor, error) {
	// Integer division by a scalar that truncates to zero would panic at
	// runtime, so it is rejected up front.
	if op == "div" && !x.DType().IsFloat() {
		switch x.DType() {
		case tensor.Int32:
			if int32(s) == 0 {
				return nil, errors.New("div_scalar: integer division by zero")
			}
		case tensor.Int64:
			if int64(s) == 0 {
				return nil, errors.New("div_scalar: integer division by zero")
			}
		}
	}
	out, err := tensor.NewRaw(x.Shape(), x.DType(), b.device)
	if err != nil {
		return nil, err
	}
	switch x.DType() {
	case tensor.Float32:
		unaryElems(out, x, scalarFunc(op, float32(s)))
	case tensor.Float64:
		unaryElems(out, x, scalarFunc(op, s))
	case tensor.Int32:
		unaryElems(out, x, scalarFunc(op, int32(s)))
	case tensor.Int64:
		unaryElems(out, x, scalarFunc(op, int64(s)))
	}
	return out, nil
}

// AddScalar computes x + s element-wise.
func (b *Backend) AddScalar(x *tensor.RawTensor, s float64) (*tensor.RawTensor, error) {
	return b.scalar("add", x, s)
}

// SubScalar computes x - s element-wise.
func (b *Backend) SubScalar(x *tensor.RawTensor, s float64) (*tensor.RawTensor, error) {
	return b.scalar("sub", x, s)
}

// MulScalar computes x * s element-wise.
func (b *Backend) MulScalar(x *tensor.RawTensor, s float64) (*tensor.RawTensor, error) {
	return b.scalar("mul", x, s)
}

// DivScalar computes x / s element-wise.
func (b *Backend) DivScalar(x *tensor.RawTensor, s float64) (*tensor.RawTensor, error) {
	return b.scalar("div", x, s)
}
