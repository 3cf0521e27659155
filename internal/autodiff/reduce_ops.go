package autodiff

import (
	"github.com/coreylowman/stag/internal/tensor"
	"github.com/pkg/errors"
)

// identity passes x through as a fresh output. Used where a reduce or
// broadcast degenerates to a no-op so the tape still sees one operation.
func identity(x *Tensor) *Tensor {
	out := newResult(x.raw.Clone(), x.backend, x.tape)
	b := x.backend
	record(out.tape, func(g *Gradients) error {
		xg, og, err := g.MutAndRef(x, out)
		if err != nil {
			return err
		}
		return b.AddInto(xg, og)
	})
	return out
}

// reductionAxes finds the axes to drop from src so the remaining axes read
// target, matching kept axes left to right. Ambiguous cases (equal adjacent
// extents) resolve to keeping the leftmost match.
func reductionAxes(src, target tensor.Shape) ([]int, error) {
	var axes []int
	j := 0
	for i, dim := range src {
		if j < len(target) && target[j] == dim {
			j++
		} else {
			axes = append(axes, i)
		}
	}
	if j != len(target) {
		return nil, errors.Wrapf(tensor.ErrShapeMismatch, "cannot reduce %v to %v", src, target)
	}
	return axes, nil
}

// reducedNumel returns how many source elements fold into each output
// element of a reduction along axes.
func reducedNumel(src tensor.Shape, axes []int) int {
	n := 1
	for _, a := range axes {
		n *= src[a]
	}
	return n
}

// Sum reduces x along the given axes by addition. With no axes it reduces
// over every axis, producing a 0-dimensional tensor.
//
// Backward broadcasts the output gradient back across the reduced axes,
// accumulating on top of whatever the input gradient already holds.
func Sum(x *Tensor, axes ...int) (*Tensor, error) {
	ndim := len(x.Shape())
	if len(axes) == 0 {
		if ndim == 0 {
			return identity(x), nil
		}
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = i
		}
	}
	norm, err := tensor.NormalizeAxes(ndim, axes)
	if err != nil {
		return nil, err
	}
	reduced, err := tensor.ReducedShape(x.Shape(), norm)
	if err != nil {
		return nil, err
	}
	b := x.backend
	raw, err := b.AllocZeros(reduced, x.DType())
	if err != nil {
		return nil, err
	}
	if err := b.ReduceInto(tensor.AddAccum, raw, x.raw, norm...); err != nil {
		return nil, err
	}
	out := newResult(raw, b, x.tape)
	record(out.tape, func(g *Gradients) error {
		xg, og, err := g.MutAndRef(x, out)
		if err != nil {
			return err
		}
		return b.BroadcastIntoNoReset(tensor.AddAccum, xg, og, norm...)
	})
	return out, nil
}

// Mean reduces x along the given axes by arithmetic mean. With no axes it
// averages over every element.
func Mean(x *Tensor, axes ...int) (*Tensor, error) {
	ndim := len(x.Shape())
	if len(axes) == 0 {
		for i := 0; i < ndim; i++ {
			axes = append(axes, i)
		}
	}
	norm, err := tensor.NormalizeAxes(ndim, axes)
	if err != nil {
		return nil, err
	}
	s, err := Sum(x, norm...)
	if err != nil {
		return nil, err
	}
	n := reducedNumel(x.Shape(), norm)
	if n <= 1 {
		return s, nil
	}
	return MulScalar(s, 1/float64(n))
}

// SumTo reduces x down to the target shape, dropping whichever axes make
// the remaining extents read target left to right.
func SumTo(x *Tensor, target tensor.Shape) (*Tensor, error) {
	axes, err := reductionAxes(x.Shape(), target)
	if err != nil {
		return nil, err
	}
	if len(axes) == 0 {
		return identity(x), nil
	}
	return Sum(x, axes...)
}

// MeanTo reduces x down to the target shape by arithmetic mean over the
// dropped axes.
func MeanTo(x *Tensor, target tensor.Shape) (*Tensor, error) {
	axes, err := reductionAxes(x.Shape(), target)
	if err != nil {
		return nil, err
	}
	if len(axes) == 0 {
		return identity(x), nil
	}
	s, err := Sum(x, axes...)
	if err != nil {
		return nil, err
	}
	return MulScalar(s, 1/float64(reducedNumel(x.Shape(), axes)))
}

// BroadcastTo replicates x up to the full shape, inserting the given axes.
// With no axes they are derived from the shapes the same way SumTo derives
// its reduction axes. Backward sums the output gradient back down over the
// inserted axes, the adjoint of the forward replication.
func BroadcastTo(x *Tensor, full tensor.Shape, axes ...int) (*Tensor, error) {
	if len(axes) == 0 {
		derived, err := reductionAxes(full, x.Shape())
		if err != nil {
			return nil, err
		}
		if len(derived) == 0 {
			return identity(x), nil
		}
		axes = derived
	}
	norm, err := tensor.NormalizeAxes(len(full), axes)
	if err != nil {
		return nil, err
	}
	b := x.backend
	raw, err := b.AllocZeros(full, x.DType())
	if err != nil {
		return nil, err
	}
	if err := b.BroadcastInto(tensor.CopyAccum, raw, x.raw, norm...); err != nil {
		return nil, err
	}
	out := newResult(raw, b, x.tape)
	record(out.tape, func(g *Gradients) error {
		xg, og, err := g.MutAndRef(x, out)
		if err != nil {
			return err
		}
		return b.ReduceIntoNoReset(tensor.AddAccum, xg, og, norm...)
	})
	return out, nil
}
