package tensor

import (
	"testing"
)

func collectOffsets(it *NdIndex) []int {
	var offs []int
	for {
		off, ok := it.Next()
		if !ok {
			break
		}
		offs = append(offs, off)
	}
	return offs
}

// stepOffsets drives the general path regardless of contiguity, for
// comparing against the fast path.
func stepOffsets(shape Shape, strides []int) []int {
	it := &NdIndex{
		indices: make([]int, len(shape)),
		shape:   shape,
		strides: strides,
		numel:   -1,
	}
	return collectOffsets(it)
}

func TestNdIndexContiguous(t *testing.T) {
	shape := Shape{2, 3}
	it := NewNdIndex(shape, shape.ComputeStrides())
	offs := collectOffsets(it)
	if len(offs) != 6 {
		t.Fatalf("got %d offsets, want 6", len(offs))
	}
	for i, off := range offs {
		if off != i {
			t.Fatalf("offset %d = %d, want %d", i, off, i)
		}
	}
}

func TestNdIndexFastPathMatchesGeneralPath(t *testing.T) {
	shapes := []Shape{{}, {1}, {4}, {2, 3}, {2, 3, 4}, {1, 5, 1, 2}}
	for _, shape := range shapes {
		strides := shape.ComputeStrides()
		fast := collectOffsets(NewNdIndex(shape, strides))
		general := stepOffsets(shape, strides)
		if len(fast) != len(general) {
			t.Fatalf("shape %v: fast %d offsets, general %d", shape, len(fast), len(general))
		}
		for i := range fast {
			if fast[i] != general[i] {
				t.Fatalf("shape %v offset %d: fast %d, general %d", shape, i, fast[i], general[i])
			}
		}
	}
}

func TestNdIndexPermutedStrides(t *testing.T) {
	// A 2x3 transpose view of a 3x2 buffer: strides [1 2].
	it := NewNdIndex(Shape{2, 3}, []int{1, 2})
	offs := collectOffsets(it)
	want := []int{0, 2, 4, 1, 3, 5}
	for i := range want {
		if offs[i] != want[i] {
			t.Fatalf("offsets = %v, want %v", offs, want)
		}
	}
}

func TestNdIndexZeroStrides(t *testing.T) {
	// Broadcast [3] -> [2 3]: the leading axis revisits the same offsets.
	it := NewNdIndex(Shape{2, 3}, []int{0, 1})
	offs := collectOffsets(it)
	want := []int{0, 1, 2, 0, 1, 2}
	if len(offs) != len(want) {
		t.Fatalf("got %d offsets, want %d", len(offs), len(want))
	}
	for i := range want {
		if offs[i] != want[i] {
			t.Fatalf("offsets = %v, want %v", offs, want)
		}
	}
}

func TestNdIndexScalar(t *testing.T) {
	it := NewNdIndex(Shape{}, nil)
	off, ok := it.Next()
	if !ok || off != 0 {
		t.Fatalf("scalar first Next = (%d, %v), want (0, true)", off, ok)
	}
	if _, ok := it.Next(); ok {
		t.Error("scalar iterator should yield exactly one offset")
	}
}

func TestNdIndexNextWithIndex(t *testing.T) {
	it := NewNdIndex(Shape{2, 2}, []int{2, 1})
	wantIdx := [][]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	for i := 0; i < 4; i++ {
		off, idx, ok := it.NextWithIndex()
		if !ok {
			t.Fatalf("exhausted at %d", i)
		}
		if off != i {
			t.Errorf("offset %d = %d, want %d", i, off, i)
		}
		for d := range idx {
			if idx[d] != wantIdx[i][d] {
				t.Errorf("index %d = %v, want %v", i, idx, wantIdx[i])
			}
		}
	}
	if _, _, ok := it.NextWithIndex(); ok {
		t.Error("iterator should be exhausted")
	}
}

func TestNdIndexFreshIteratorRestarts(t *testing.T) {
	raw, _ := NewRaw(Shape{2, 2}, Float32, CPU)
	first := collectOffsets(raw.Iter())
	second := collectOffsets(raw.Iter())
	if len(first) != len(second) {
		t.Fatal("fresh iterator should restart the traversal")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatal("fresh iterator produced different offsets")
		}
	}
}
