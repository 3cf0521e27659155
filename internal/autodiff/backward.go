package autodiff

import (
	"github.com/coreylowman/stag/internal/tensor"
	"github.com/pkg/errors"
)

// ErrNotTraced is returned when Backward is asked to differentiate a tensor
// that never carried an owning tape.
var ErrNotTraced = errors.New("tensor is not traced")

// Backward runs reverse-mode differentiation from a one-element float
// tensor: it seeds the tensor's own gradient with 1, then replays the tape
// in reverse, and returns the accumulated gradient map. The tape is
// consumed; tracing must start over for another pass.
func Backward(t *Tensor) (*Gradients, error) {
	if !t.DType().IsFloat() {
		return nil, errors.Wrapf(tensor.ErrDTypeMismatch, "backward: %s", t.DType())
	}
	if t.raw.NumElements() != 1 {
		return nil, errors.Wrapf(tensor.ErrShapeMismatch,
			"backward: expected a scalar, got shape %v", t.Shape())
	}
	owned, ok := t.tape.(*OwnedTape)
	if !ok {
		return nil, errors.WithStack(ErrNotTraced)
	}

	// The seed is recorded as the final closure, so it is the first thing
	// reverse execution runs.
	seed := t.Detach()
	owned.tape.AddBackwardOp(func(g *Gradients) error {
		sg, err := g.GetOrAlloc(seed)
		if err != nil {
			return err
		}
		it := sg.IterMut()
		switch sg.DType() {
		case tensor.Float32:
			buf := sg.AsFloat32()
			for {
				off, ok := it.Next()
				if !ok {
					break
				}
				buf[off] = 1
			}
		case tensor.Float64:
			buf := sg.AsFloat64()
			for {
				off, ok := it.Next()
				if !ok {
					break
				}
				buf[off] = 1
			}
		}
		return nil
	})
	return owned.tape.Execute()
}
