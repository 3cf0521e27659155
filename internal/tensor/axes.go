package tensor

import (
	"sort"

	"github.com/pkg/errors"
)

// NormalizeAxes resolves negative axis indices (-1 = last axis) against a
// tensor of rank ndim and returns the axes sorted ascending. Out-of-range
// and duplicate axes are errors.
func NormalizeAxes(ndim int, axes []int) ([]int, error) {
	norm := make([]int, 0, len(axes))
	seen := make(map[int]bool, len(axes))
	for _, ax := range axes {
		a := ax
		if a < 0 {
			a += ndim
		}
		if a < 0 || a >= ndim {
			return nil, errors.Wrapf(ErrAxisOutOfRange, "axis %d for rank %d", ax, ndim)
		}
		if seen[a] {
			return nil, errors.Wrapf(ErrAxisOutOfRange, "axis %d named twice", ax)
		}
		seen[a] = true
		norm = append(norm, a)
	}
	sort.Ints(norm)
	return norm, nil
}

// ReducedShape returns the shape obtained by dropping exactly the given
// axes from s, preserving the order of the remaining axes. Dropping every
// axis yields the scalar shape.
func ReducedShape(s Shape, axes []int) (Shape, error) {
	norm, err := NormalizeAxes(len(s), axes)
	if err != nil {
		return nil, err
	}
	drop := make(map[int]bool, len(norm))
	for _, a := range norm {
		drop[a] = true
	}
	reduced := make(Shape, 0, len(s)-len(norm))
	for i, dim := range s {
		if !drop[i] {
			reduced = append(reduced, dim)
		}
	}
	return reduced, nil
}

// BroadcastStrides embeds strides over a reduced shape back into the full
// shape they were reduced from: dropped axes get stride 0 (every logical
// position along them maps to the same buffer slot), kept axes take the
// reduced array's strides in order. axes must already be normalized.
func BroadcastStrides(full Shape, axes []int, reducedStrides []int) []int {
	drop := make(map[int]bool, len(axes))
	for _, a := range axes {
		drop[a] = true
	}
	strides := make([]int, len(full))
	j := 0
	for i := range full {
		if drop[i] {
			strides[i] = 0
		} else {
			strides[i] = reducedStrides[j]
			j++
		}
	}
	return strides
}
