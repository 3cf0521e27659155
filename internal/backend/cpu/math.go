package cpu

import (
	"math"

	"golang.org/x/exp/constraints"

	"github.com/coreylowman/stag/internal/tensor"
	"github.com/pkg/errors"
)

// bufOf returns t's buffer as a typed slice. The dtype/T agreement is the
// caller's responsibility (dispatch switches on t.DType()).
func bufOf[T tensor.DType](t *tensor.RawTensor) []T {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return any(t.AsFloat32()).([]T)
	case float64:
		return any(t.AsFloat64()).([]T)
	case int32:
		return any(t.AsInt32()).([]T)
	case int64:
		return any(t.AsInt64()).([]T)
	default:
		panic("unsupported type")
	}
}

// checkBinary validates the equal-shape, equal-dtype contract before any
// allocation or mutation happens.
func checkBinary(op string, a, b *tensor.RawTensor) error {
	if a.DType() != b.DType() {
		return errors.Wrapf(tensor.ErrDTypeMismatch, "%s: %s vs %s", op, a.DType(), b.DType())
	}
	if !a.Shape().Equal(b.Shape()) {
		return errors.Wrapf(tensor.ErrShapeMismatch, "%s: %v vs %v", op, a.Shape(), b.Shape())
	}
	return nil
}

// binaryElems writes f(a, b) element-wise into the fresh contiguous dst.
// Both operands are walked through their own strides, so views and
// broadcasts iterate correctly.
func binaryElems[T tensor.DType](dst, a, b *tensor.RawTensor, f func(T, T) T) {
	out := bufOf[T](dst)
	as, bs := bufOf[T](a), bufOf[T](b)
	ai, bi := a.Iter(), b.Iter()
	i := 0
	for {
		ao, ok := ai.Next()
		if !ok {
			break
		}
		bo, _ := bi.Next()
		out[i] = f(as[ao], bs[bo])
		i++
	}
}

func binFunc[T tensor.DType](op string) func(T, T) T {
	switch op {
	case "add":
		return func(a, b T) T { return a + b }
	case "sub":
		return func(a, b T) T { return a - b }
	case "mul":
		return func(a, b T) T { return a * b }
	case "div":
		return func(a, b T) T { return a / b }
	default:
		panic("unknown binary op: " + op)
	}
}

func (b *Backend) binary(op string, x, y *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkBinary(op, x, y); err != nil {
		return nil, err
	}
	out, err := tensor.NewRaw(x.Shape(), x.DType(), b.device)
	if err != nil {
		return nil, err
	}
	switch x.DType() {
	case tensor.Float32:
		binaryElems(out, x, y, binFunc[float32](op))
	case tensor.Float64:
		binaryElems(out, x, y, binFunc[float64](op))
	case tensor.Int32:
		binaryElems(out, x, y, binFunc[int32](op))
	case tensor.Int64:
		binaryElems(out, x, y, binFunc[int64](op))
	}
	return out, nil
}

// Add performs element-wise addition.
func (b *Backend) Add(x, y *tensor.RawTensor) (*tensor.RawTensor, error) {
	return b.binary("add", x, y)
}

// Sub performs element-wise subtraction.
func (b *Backend) Sub(x, y *tensor.RawTensor) (*tensor.RawTensor, error) {
	return b.binary("sub", x, y)
}

// Mul performs element-wise multiplication.
func (b *Backend) Mul(x, y *tensor.RawTensor) (*tensor.RawTensor, error) {
	return b.binary("mul", x, y)
}

// Div performs element-wise division.
func (b *Backend) Div(x, y *tensor.RawTensor) (*tensor.RawTensor, error) {
	return b.binary("div", x, y)
}

// unaryElems writes f(x) element-wise into the fresh contiguous dst.
func unaryElems[T tensor.DType](dst, x *tensor.RawTensor, f func(T) T) {
	out := bufOf[T](dst)
	xs := bufOf[T](x)
	xi := x.Iter()
	i := 0
	for {
		xo, ok := xi.Next()
		if !ok {
			break
		}
		out[i] = f(xs[xo])
		i++
	}
}

// floatFunc builds the element function for float-only unary ops.
func floatFunc[T constraints.Float](op string) func(T) T {
	switch op {
	case "exp":
		return func(v T) T { return T(math.Exp(float64(v))) }
	case "log":
		return func(v T) T { return T(math.Log(float64(v))) }
	case "sqrt":
		return func(v T) T { return T(math.Sqrt(float64(v))) }
	case "tanh":
		return func(v T) T { return T(math.Tanh(float64(v))) }
	default:
		panic("unknown unary op: " + op)
	}
}

func (b *Backend) floatUnary(op string, x *tensor.RawTensor) (*tensor.RawTensor, error) {
	if !x.DType().IsFloat() {
		return nil, errors.Wrapf(tensor.ErrDTypeMismatch, "%s: %s", op, x.DType())
	}
	out, err := tensor.NewRaw(x.Shape(), x.DType(), b.device)
	if err != nil {
		return nil, err
	}
	switch x.DType() {
	case tensor.Float32:
		unaryElems(out, x, floatFunc[float32](op))
	case tensor.Float64:
		unaryElems(out, x, floatFunc[float64](op))
	}
	return out, nil
}

// Neg computes element-wise negation.
func (b *Backend) Neg(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	out, err := tensor.NewRaw(x.Shape(), x.DType(), b.device)
	if err != nil {
		return nil, err
	}
	switch x.DType() {
	case tensor.Float32:
		unaryElems(out, x, func(v float32) float32 { return -v })
	case tensor.Float64:
		unaryElems(out, x, func(v float64) float64 { return -v })
	case tensor.Int32:
		unaryElems(out, x, func(v int32) int32 { return -v })
	case tensor.Int64:
		unaryElems(out, x, func(v int64) int64 { return -v })
	}
	return out, nil
}

// Exp computes the element-wise exponential.
func (b *Backend) Exp(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	return b.floatUnary("exp", x)
}

// Log computes the element-wise natural logarithm.
func (b *Backend) Log(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	return b.floatUnary("log", x)
}

// Sqrt computes the element-wise square root.
func (b *Backend) Sqrt(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	return b.floatUnary("sqrt", x)
}

// Tanh computes the element-wise hyperbolic tangent.
func (b *Backend) Tanh(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	return b.floatUnary("tanh", x)
}
