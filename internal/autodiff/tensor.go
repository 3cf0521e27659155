package autodiff

import (
	"github.com/coreylowman/stag/internal/tensor"
	"github.com/pkg/errors"
)

// Tensor couples strided storage with an identity, the backend that computes
// on it, and a tape carrier. The identity survives tracing and storage
// copies, so gradients computed through a traced copy land on the same map
// key the caller holds.
type Tensor struct {
	id      tensor.UniqueID
	raw     *tensor.RawTensor
	backend tensor.Backend
	tape    Tape
}

// NewTensor wraps raw storage in a fresh-identity, non-traced tensor.
func NewTensor(raw *tensor.RawTensor, backend tensor.Backend) *Tensor {
	return &Tensor{
		id:      tensor.NextUniqueID(),
		raw:     raw,
		backend: backend,
		tape:    NoneTape{},
	}
}

// ID returns the tensor's identity, the key its gradient appears under.
func (t *Tensor) ID() tensor.UniqueID { return t.id }

// Shape returns the logical shape.
func (t *Tensor) Shape() tensor.Shape { return t.raw.Shape() }

// DType returns the element type.
func (t *Tensor) DType() tensor.DataType { return t.raw.DType() }

// Raw exposes the underlying storage.
func (t *Tensor) Raw() *tensor.RawTensor { return t.raw }

// Backend returns the compute backend the tensor's operations run on.
func (t *Tensor) Backend() tensor.Backend { return t.backend }

// IsTraced reports whether operations on this tensor record backward
// closures.
func (t *Tensor) IsTraced() bool { return t.tape.Owning() }

// Trace returns a copy of t carrying a fresh owning tape. The copy shares
// the identity and (copy-on-write) storage of t, so the gradient computed
// through the traced graph is keyed by t's own id. t itself stays
// non-recording.
func (t *Tensor) Trace() *Tensor {
	return &Tensor{
		id:      t.id,
		raw:     t.raw.Clone(),
		backend: t.backend,
		tape:    NewOwnedTape(),
	}
}

// Detach returns a copy of t that carries no tape; operations on it are
// never recorded.
func (t *Tensor) Detach() *Tensor {
	return &Tensor{
		id:      t.id,
		raw:     t.raw.Clone(),
		backend: t.backend,
		tape:    NoneTape{},
	}
}

// SplitTape separates t's value from its tape carrier: the returned tensor
// is the same quantity without a tape, and the carrier can be put back on
// another tensor with PutTape. This is how multi-output graph shapes keep a
// single tape threaded through.
func (t *Tensor) SplitTape() (*Tensor, Tape) {
	return t.Detach(), t.tape
}

// PutTape returns a copy of t carrying the given tape.
func (t *Tensor) PutTape(tape Tape) *Tensor {
	return &Tensor{
		id:      t.id,
		raw:     t.raw.Clone(),
		backend: t.backend,
		tape:    tape,
	}
}

// Float32s gathers the tensor's elements into a fresh contiguous slice in
// row-major order. Panics if the dtype is not Float32.
func (t *Tensor) Float32s() []float32 {
	buf := t.raw.AsFloat32()
	out := make([]float32, 0, t.raw.NumElements())
	it := t.raw.Iter()
	for {
		off, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, buf[off])
	}
	return out
}

// Float64s gathers the tensor's elements into a fresh contiguous slice in
// row-major order. Panics if the dtype is not Float64.
func (t *Tensor) Float64s() []float64 {
	buf := t.raw.AsFloat64()
	out := make([]float64, 0, t.raw.NumElements())
	it := t.raw.Iter()
	for {
		off, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, buf[off])
	}
	return out
}

// Item returns the single element of a one-element float tensor as float64.
func (t *Tensor) Item() (float64, error) {
	if t.raw.NumElements() != 1 {
		return 0, errors.Wrapf(tensor.ErrShapeMismatch, "item: %d elements", t.raw.NumElements())
	}
	it := t.raw.Iter()
	off, _ := it.Next()
	switch t.raw.DType() {
	case tensor.Float32:
		return float64(t.raw.AsFloat32()[off]), nil
	case tensor.Float64:
		return t.raw.AsFloat64()[off], nil
	default:
		return 0, errors.Wrapf(tensor.ErrDTypeMismatch, "item: %s", t.raw.DType())
	}
}
