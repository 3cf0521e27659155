package tensor

// NdIndex enumerates the flat-buffer offset of every multi-index of a
// (shape, strides) pair in row-major order.
//
// The general path maintains a per-axis counter and a running offset: each
// step increments the last axis; on overflow the axis resets, extent*stride
// is subtracted back out of the offset, and the carry moves one axis left.
// When the strides are exactly the canonical contiguous strides the carry
// bookkeeping is skipped entirely and offsets are 0, 1, ..., numel-1. The
// fast path must stay observationally identical to the general path; it
// only changes the cost.
//
// A single NdIndex must be driven through either Next or NextWithIndex, not
// a mix of both.
type NdIndex struct {
	indices []int
	shape   Shape
	strides []int
	next    int
	done    bool
	numel   int // element count when contiguous, -1 otherwise
}

// NewNdIndex creates an iterator over shape honoring strides. A fresh
// iterator restarts the traversal.
func NewNdIndex(shape Shape, strides []int) *NdIndex {
	it := &NdIndex{
		indices: make([]int, len(shape)),
		shape:   shape,
		strides: strides,
		numel:   -1,
	}
	if shape.IsContiguous(strides) {
		it.numel = shape.NumElements()
	}
	return it
}

// Next returns the next buffer offset, or ok=false once the traversal is
// exhausted. A 0-dimensional shape yields exactly one offset (0).
func (it *NdIndex) Next() (int, bool) {
	if it.done {
		return 0, false
	}
	if it.numel >= 0 {
		off := it.next
		it.next++
		if it.next >= it.numel {
			it.done = true
		}
		return off, true
	}
	off, ok := it.step()
	return off, ok
}

// NextWithIndex returns the next buffer offset together with a copy of the
// multi-index it corresponds to.
func (it *NdIndex) NextWithIndex() (int, []int, bool) {
	if it.done {
		return 0, nil, false
	}
	idx := append([]int(nil), it.indices...)
	off, ok := it.step()
	return off, idx, ok
}

// step runs one iteration of the carry-based traversal and advances the
// counters for the next call.
func (it *NdIndex) step() (int, bool) {
	off := it.next
	ndim := len(it.shape)
	if ndim == 0 {
		it.done = true
		return off, true
	}

	dim := ndim - 1
	for {
		it.indices[dim]++
		it.next += it.strides[dim]

		if it.indices[dim] < it.shape[dim] {
			break
		}

		it.next -= it.shape[dim] * it.strides[dim]
		it.indices[dim] = 0

		if dim == 0 {
			it.done = true
			break
		}
		dim--
	}
	return off, true
}
