package tensor

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/pkg/errors"
)

// Device represents the compute device a tensor's buffer lives on.
type Device int

// Supported compute devices. Only CPU has an implementation in this module;
// the others name slots behind the Backend interface.
const (
	CPU Device = iota
	CUDA
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case CUDA:
		return "CUDA"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// tensorBuffer is a reference-counted shared flat buffer enabling
// copy-on-write semantics: cloning a tensor only bumps the count, and
// mutation through a shared buffer first clones it.
type tensorBuffer struct {
	data     []byte
	refCount atomic.Int32
	mu       sync.Mutex // for safe deallocation
}

// newTensorBuffer creates a new reference-counted buffer with refCount = 1.
func newTensorBuffer(size int) *tensorBuffer {
	buf := &tensorBuffer{
		data: make([]byte, size),
	}
	buf.refCount.Store(1)
	return buf
}

// addRef increments the reference count (for Clone and view operations).
func (tb *tensorBuffer) addRef() {
	tb.refCount.Add(1)
}

// release decrements the reference count and drops the data if it reaches 0.
func (tb *tensorBuffer) release() {
	if tb.refCount.Add(-1) == 0 {
		tb.mu.Lock()
		defer tb.mu.Unlock()
		tb.data = nil
	}
}

// isUnique returns true if this buffer has only one reference.
func (tb *tensorBuffer) isUnique() bool {
	return tb.refCount.Load() == 1
}

// RawTensor is the low-level strided-array storage: a shared flat buffer
// plus a logical shape and a per-axis stride vector. Views produced by
// stride manipulation (broadcast, permute) share the buffer zero-copy; a
// zero stride along an axis maps every logical position on that axis to one
// buffer slot.
//
// Invariant: the buffer always holds at least maxReachableOffset(shape,
// strides)+1 elements past the view's offset.
type RawTensor struct {
	buffer  *tensorBuffer
	shape   Shape
	strides []int
	dtype   DataType
	device  Device
	offset  int // element offset into the buffer for sliced views
}

// NewRaw creates a contiguous zero-filled RawTensor with the given shape
// and type.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid shape")
	}

	byteSize := shape.NumElements() * dtype.Size()

	return &RawTensor{
		buffer:  newTensorBuffer(byteSize),
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
		dtype:   dtype,
		device:  device,
	}, nil
}

// NewRawLike creates a contiguous zero-filled RawTensor matching t's shape,
// dtype and device. Used for lazy gradient allocation.
func NewRawLike(t *RawTensor) (*RawTensor, error) {
	return NewRaw(t.shape, t.dtype, t.device)
}

// Shape returns the tensor's logical shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's per-axis buffer-offset deltas.
func (r *RawTensor) Strides() []int {
	return r.strides
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of logical elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// IsContiguous reports whether the strides equal the canonical row-major
// strides for the shape.
func (r *RawTensor) IsContiguous() bool {
	return r.shape.IsContiguous(r.strides)
}

// maxReachableOffset returns the largest buffer offset (shape, strides) can
// produce, relative to the view's own offset.
func maxReachableOffset(shape Shape, strides []int) int {
	max := 0
	for i, dim := range shape {
		max += (dim - 1) * strides[i]
	}
	return max
}

// availElements returns how many elements of the buffer are addressable
// past this view's offset.
func (r *RawTensor) availElements() int {
	return (len(r.buffer.data) - r.offset*r.dtype.Size()) / r.dtype.Size()
}

// ViewWithStrides reinterprets the same buffer under a new (shape, strides)
// pair without copying. The caller chooses the strides; zero strides encode
// broadcast axes, permuted strides encode transposes. Errors if the view
// would reach outside the buffer or uses negative strides.
//
// Views alias the buffer: mutating through any sharing tensor goes through
// copy-on-write, so previously observed values of other views stay intact.
func (r *RawTensor) ViewWithStrides(shape Shape, strides []int) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid view shape")
	}
	if len(strides) != len(shape) {
		return nil, errors.Wrapf(ErrShapeMismatch, "view rank %d with %d strides", len(shape), len(strides))
	}
	for i, st := range strides {
		if st < 0 {
			return nil, errors.Wrapf(ErrStridesOutOfBounds, "negative stride %d on axis %d", st, i)
		}
	}
	if maxReachableOffset(shape, strides) >= r.availElements() {
		return nil, errors.Wrapf(ErrStridesOutOfBounds,
			"shape %v with strides %v needs %d elements, buffer has %d",
			shape, strides, maxReachableOffset(shape, strides)+1, r.availElements())
	}

	r.buffer.addRef()
	return &RawTensor{
		buffer:  r.buffer,
		shape:   shape.Clone(),
		strides: append([]int(nil), strides...),
		dtype:   r.dtype,
		device:  r.device,
		offset:  r.offset,
	}, nil
}

// Clone creates a shallow copy sharing the buffer: O(1), only the reference
// count is touched. Data is copied lazily on the first mutation of either
// side (copy-on-write).
func (r *RawTensor) Clone() *RawTensor {
	r.buffer.addRef()
	return &RawTensor{
		buffer:  r.buffer,
		shape:   r.shape.Clone(),
		strides: append([]int(nil), r.strides...),
		dtype:   r.dtype,
		device:  r.device,
		offset:  r.offset,
	}
}

// Release decrements the buffer's reference count, dropping the data once
// the last referencing tensor lets go.
func (r *RawTensor) Release() {
	r.buffer.release()
}

// IsUnique returns true if this tensor is the only reference to the buffer.
func (r *RawTensor) IsUnique() bool {
	return r.buffer.isUnique()
}

// EnsureUnique makes the buffer exclusively owned, cloning its bytes if it
// is currently shared. Mutations performed afterwards are not observable
// through tensors that shared the old buffer.
func (r *RawTensor) EnsureUnique() {
	if r.buffer.isUnique() {
		return
	}
	fresh := newTensorBuffer(len(r.buffer.data))
	copy(fresh.data, r.buffer.data)
	old := r.buffer
	r.buffer = fresh
	old.release()
}

// Iter returns a fresh offset iterator over every logical element in
// row-major order, honoring strides (including zero strides). Offsets index
// the slices returned by the As* accessors.
func (r *RawTensor) Iter() *NdIndex {
	return NewNdIndex(r.shape, r.strides)
}

// IterMut is Iter preceded by copy-on-write: the buffer is cloned first if
// shared, so writes through the returned offsets stay local to this tensor.
// Do not use on broadcast (zero-stride) views; repeated offsets would alias.
func (r *RawTensor) IterMut() *NdIndex {
	r.EnsureUnique()
	return NewNdIndex(r.shape, r.strides)
}

// AsFloat32 interprets the buffer past the view offset as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	data := r.buffer.data[r.offset*r.dtype.Size():]
	return unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), r.availElements())
}

// AsFloat64 interprets the buffer past the view offset as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", r.dtype))
	}
	data := r.buffer.data[r.offset*r.dtype.Size():]
	return unsafe.Slice((*float64)(unsafe.Pointer(&data[0])), r.availElements())
}

// AsInt32 interprets the buffer past the view offset as []int32.
// Panics if the tensor's dtype is not Int32.
func (r *RawTensor) AsInt32() []int32 {
	if r.dtype != Int32 {
		panic(fmt.Sprintf("tensor dtype is %s, not int32", r.dtype))
	}
	data := r.buffer.data[r.offset*r.dtype.Size():]
	return unsafe.Slice((*int32)(unsafe.Pointer(&data[0])), r.availElements())
}

// AsInt64 interprets the buffer past the view offset as []int64.
// Panics if the tensor's dtype is not Int64.
func (r *RawTensor) AsInt64() []int64 {
	if r.dtype != Int64 {
		panic(fmt.Sprintf("tensor dtype is %s, not int64", r.dtype))
	}
	data := r.buffer.data[r.offset*r.dtype.Size():]
	return unsafe.Slice((*int64)(unsafe.Pointer(&data[0])), r.availElements())
}
