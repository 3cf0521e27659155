package cpu

import (
	"golang.org/x/exp/constraints"

	"github.com/coreylowman/stag/internal/tensor"
	"github.com/pkg/errors"
)

// The accumulation kernels mutate dst in place, so dst goes through
// copy-on-write (IterMut) before its buffer is resolved. Resolving the
// buffer first would alias storage that copy-on-write is about to replace.

func checkAccum(op string, dst *tensor.RawTensor, srcs ...*tensor.RawTensor) error {
	if !dst.DType().IsFloat() {
		return errors.Wrapf(tensor.ErrDTypeMismatch, "%s: %s", op, dst.DType())
	}
	for _, s := range srcs {
		if err := checkBinary(op, dst, s); err != nil {
			return err
		}
	}
	return nil
}

func addInto[T constraints.Float](dst, src *tensor.RawTensor, scale T) {
	di := dst.IterMut()
	d := bufOf[T](dst)
	s := bufOf[T](src)
	si := src.Iter()
	for {
		do, ok := di.Next()
		if !ok {
			break
		}
		so, _ := si.Next()
		d[do] += s[so] * scale
	}
}

func addMulInto[T constraints.Float](dst, a, b *tensor.RawTensor) {
	di := dst.IterMut()
	d := bufOf[T](dst)
	as, bs := bufOf[T](a), bufOf[T](b)
	ai, bi := a.Iter(), b.Iter()
	for {
		do, ok := di.Next()
		if !ok {
			break
		}
		ao, _ := ai.Next()
		bo, _ := bi.Next()
		d[do] += as[ao] * bs[bo]
	}
}

// AddInto computes dst += src element-wise.
func (b *Backend) AddInto(dst, src *tensor.RawTensor) error {
	return b.AddScaledInto(dst, src, 1)
}

// AddScaledInto computes dst += src*scale element-wise.
func (b *Backend) AddScaledInto(dst, src *tensor.RawTensor, scale float64) error {
	if err := checkAccum("add_into", dst, src); err != nil {
		return err
	}
	switch dst.DType() {
	case tensor.Float32:
		addInto(dst, src, float32(scale))
	case tensor.Float64:
		addInto(dst, src, scale)
	}
	return nil
}

// AddMulInto computes dst += a*b element-wise, the fused form gradient
// products reduce to.
func (b *Backend) AddMulInto(dst, a, bb *tensor.RawTensor) error {
	if err := checkAccum("add_mul_into", dst, a, bb); err != nil {
		return err
	}
	switch dst.DType() {
	case tensor.Float32:
		addMulInto[float32](dst, a, bb)
	case tensor.Float64:
		addMulInto[float64](dst, a, bb)
	}
	return nil
}
