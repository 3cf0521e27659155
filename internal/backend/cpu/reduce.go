package cpu

import (
	"math"

	"golang.org/x/exp/constraints"

	"github.com/coreylowman/stag/internal/tensor"
	"github.com/pkg/errors"
)

// maxEngineRank is the highest full-shape rank the broadcast/reduce engine
// accepts.
const maxEngineRank = 4

func identityOf[T constraints.Float](acc tensor.Accumulator) T {
	switch acc {
	case tensor.AddAccum:
		return 0
	case tensor.MulAccum:
		return 1
	case tensor.MaxAccum:
		return T(math.Inf(-1))
	case tensor.MinAccum:
		return T(math.Inf(1))
	default: // CopyAccum overwrites every slot it touches
		return 0
	}
}

func combineOf[T constraints.Float](acc tensor.Accumulator) func(T, T) T {
	switch acc {
	case tensor.AddAccum:
		return func(a, b T) T { return a + b }
	case tensor.MulAccum:
		return func(a, b T) T { return a * b }
	case tensor.MaxAccum:
		return func(a, b T) T {
			if a > b {
				return a
			}
			return b
		}
	case tensor.MinAccum:
		return func(a, b T) T {
			if a < b {
				return a
			}
			return b
		}
	default:
		return func(_, b T) T { return b }
	}
}

// checkEngine validates one reduce/broadcast call. full is the larger-rank
// side (src for reduce, dst for broadcast), reduced the smaller. All checks
// run before any allocation or mutation.
func checkEngine(op string, acc tensor.Accumulator, full, reduced *tensor.RawTensor, axes []int, isReduce bool) ([]int, error) {
	if len(full.Shape()) > maxEngineRank {
		return nil, errors.Wrapf(tensor.ErrRankUnsupported, "%s: rank %d", op, len(full.Shape()))
	}
	if isReduce && len(axes) == 0 {
		return nil, errors.Wrapf(tensor.ErrEmptyAxes, "%s", op)
	}
	norm, err := tensor.NormalizeAxes(len(full.Shape()), axes)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	want, err := tensor.ReducedShape(full.Shape(), norm)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	if !want.Equal(reduced.Shape()) {
		return nil, errors.Wrapf(tensor.ErrShapeMismatch,
			"%s: %v with axes %v gives %v, got %v", op, full.Shape(), axes, want, reduced.Shape())
	}
	if full.DType() != reduced.DType() {
		return nil, errors.Wrapf(tensor.ErrDTypeMismatch, "%s: %s vs %s", op, full.DType(), reduced.DType())
	}
	if !full.DType().IsFloat() {
		return nil, errors.Wrapf(tensor.ErrDTypeMismatch, "%s: %s", op, full.DType())
	}
	if isReduce && acc == tensor.CopyAccum {
		// A copy "reduction" is only coherent when nothing actually folds:
		// every reduced axis must have extent 1 so each output slot is
		// written exactly once.
		for _, a := range norm {
			if full.Shape()[a] != 1 {
				return nil, errors.Wrapf(tensor.ErrShapeMismatch,
					"%s: copy accumulator over axis %d of extent %d", op, a, full.Shape()[a])
			}
		}
	}
	return norm, nil
}

// engine is the shared inner loop: dst and src are walked in lockstep over
// the full shape, dst through dstStrides and src through srcStrides (one of
// the two carries zeros on the dropped axes), combining element pairs into
// dst. When reset is set, dst is first filled with the accumulator identity
// through its own natural iteration.
func engine[T constraints.Float](acc tensor.Accumulator, dst, src *tensor.RawTensor, full tensor.Shape, dstStrides, srcStrides []int, reset bool) {
	dst.EnsureUnique()
	d := bufOf[T](dst)
	s := bufOf[T](src)

	if reset {
		id := identityOf[T](acc)
		fi := dst.Iter()
		for {
			off, ok := fi.Next()
			if !ok {
				break
			}
			d[off] = id
		}
	}

	combine := combineOf[T](acc)
	di := tensor.NewNdIndex(full, dstStrides)
	si := tensor.NewNdIndex(full, srcStrides)
	for {
		do, ok := di.Next()
		if !ok {
			break
		}
		so, _ := si.Next()
		d[do] = combine(d[do], s[so])
	}
}

func (b *Backend) reduceInto(acc tensor.Accumulator, dst, src *tensor.RawTensor, axes []int, reset bool) error {
	norm, err := checkEngine("reduce", acc, src, dst, axes, true)
	if err != nil {
		return err
	}
	full := src.Shape()
	dstStrides := tensor.BroadcastStrides(full, norm, dst.Strides())
	switch src.DType() {
	case tensor.Float32:
		engine[float32](acc, dst, src, full, dstStrides, src.Strides(), reset)
	case tensor.Float64:
		engine[float64](acc, dst, src, full, dstStrides, src.Strides(), reset)
	}
	return nil
}

func (b *Backend) broadcastInto(acc tensor.Accumulator, dst, src *tensor.RawTensor, axes []int, reset bool) error {
	norm, err := checkEngine("broadcast", acc, dst, src, axes, false)
	if err != nil {
		return err
	}
	full := dst.Shape()
	srcStrides := tensor.BroadcastStrides(full, norm, src.Strides())
	switch dst.DType() {
	case tensor.Float32:
		engine[float32](acc, dst, src, full, dst.Strides(), srcStrides, reset)
	case tensor.Float64:
		engine[float64](acc, dst, src, full, dst.Strides(), srcStrides, reset)
	}
	return nil
}

// ReduceInto folds src along the given axes into dst, which must have the
// shape of src with those axes dropped. dst is initialized to the
// accumulator's identity first.
func (b *Backend) ReduceInto(acc tensor.Accumulator, dst, src *tensor.RawTensor, axes ...int) error {
	return b.reduceInto(acc, dst, src, axes, true)
}

// ReduceIntoNoReset folds src along the given axes on top of dst's existing
// contents.
func (b *Backend) ReduceIntoNoReset(acc tensor.Accumulator, dst, src *tensor.RawTensor, axes ...int) error {
	return b.reduceInto(acc, dst, src, axes, false)
}

// BroadcastInto replicates src across the dropped axes of dst, the adjoint
// of ReduceInto. dst is initialized to the accumulator's identity first. An
// empty axis list copies src into dst element for element.
func (b *Backend) BroadcastInto(acc tensor.Accumulator, dst, src *tensor.RawTensor, axes ...int) error {
	return b.broadcastInto(acc, dst, src, axes, true)
}

// BroadcastIntoNoReset replicates src across the dropped axes of dst on top
// of dst's existing contents, which is how upstream gradients flow back
// through a reduction without clobbering already-accumulated contributions.
func (b *Backend) BroadcastIntoNoReset(acc tensor.Accumulator, dst, src *tensor.RawTensor, axes ...int) error {
	return b.broadcastInto(acc, dst, src, axes, false)
}
