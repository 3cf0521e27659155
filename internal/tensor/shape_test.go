package tensor

import (
	"testing"
)

func TestShapeNumElements(t *testing.T) {
	if n := (Shape{2, 3, 4}).NumElements(); n != 24 {
		t.Errorf("NumElements = %d, want 24", n)
	}
	// Rank-0 is the scalar shape with one element
	if n := (Shape{}).NumElements(); n != 1 {
		t.Errorf("scalar NumElements = %d, want 1", n)
	}
}

func TestShapeValidate(t *testing.T) {
	if err := (Shape{2, 3}).Validate(); err != nil {
		t.Errorf("valid shape rejected: %v", err)
	}
	if err := (Shape{}).Validate(); err != nil {
		t.Errorf("scalar shape rejected: %v", err)
	}
	if err := (Shape{2, 0, 3}).Validate(); err == nil {
		t.Error("zero extent accepted")
	}
	if err := (Shape{-1}).Validate(); err == nil {
		t.Error("negative extent accepted")
	}
}

func TestComputeStrides(t *testing.T) {
	got := (Shape{2, 3, 4}).ComputeStrides()
	want := []int{12, 4, 1}
	if len(got) != len(want) {
		t.Fatalf("strides = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("strides = %v, want %v", got, want)
		}
	}
	if s := (Shape{}).ComputeStrides(); len(s) != 0 {
		t.Errorf("scalar strides = %v, want empty", s)
	}
}

func TestIsContiguous(t *testing.T) {
	s := Shape{2, 3}
	if !s.IsContiguous([]int{3, 1}) {
		t.Error("canonical strides reported non-contiguous")
	}
	if s.IsContiguous([]int{1, 2}) {
		t.Error("permuted strides reported contiguous")
	}
	if s.IsContiguous([]int{0, 1}) {
		t.Error("broadcast strides reported contiguous")
	}
	if !(Shape{}).IsContiguous(nil) {
		t.Error("scalar should be contiguous")
	}
}

func TestNormalizeAxes(t *testing.T) {
	norm, err := NormalizeAxes(3, []int{-1, 0})
	if err != nil {
		t.Fatalf("NormalizeAxes: %v", err)
	}
	if len(norm) != 2 || norm[0] != 0 || norm[1] != 2 {
		t.Errorf("norm = %v, want [0 2]", norm)
	}

	if _, err := NormalizeAxes(3, []int{3}); err == nil {
		t.Error("out-of-range axis accepted")
	}
	if _, err := NormalizeAxes(3, []int{-4}); err == nil {
		t.Error("out-of-range negative axis accepted")
	}
	if _, err := NormalizeAxes(3, []int{1, -2}); err == nil {
		t.Error("duplicate axis accepted")
	}
}

func TestReducedShape(t *testing.T) {
	r, err := ReducedShape(Shape{2, 3, 4}, []int{1})
	if err != nil {
		t.Fatalf("ReducedShape: %v", err)
	}
	if !r.Equal(Shape{2, 4}) {
		t.Errorf("reduced = %v, want [2 4]", r)
	}

	r, err = ReducedShape(Shape{2, 3}, []int{0, 1})
	if err != nil {
		t.Fatalf("ReducedShape: %v", err)
	}
	if len(r) != 0 {
		t.Errorf("full reduction = %v, want scalar shape", r)
	}
}

func TestBroadcastStrides(t *testing.T) {
	// [2 3 4] reduced over axis 1 leaves [2 4] with strides [4 1];
	// embedding back gives stride 0 on the dropped axis.
	got := BroadcastStrides(Shape{2, 3, 4}, []int{1}, []int{4, 1})
	want := []int{4, 0, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("strides = %v, want %v", got, want)
		}
	}
}
