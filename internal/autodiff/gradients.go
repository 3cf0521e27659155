// Package autodiff implements reverse-mode automatic differentiation on top
// of the tensor core.
//
// Forward operations execute eagerly; when an operand carries an owning tape,
// the operation also records a backward closure. Backward closures run in
// reverse registration order during Backward, reading the output's gradient
// from a Gradients map and accumulating into the inputs' gradients. Tensors
// are keyed by UniqueID, so gradients reach the original quantity even though
// tracing copies storage.
package autodiff

import (
	"fmt"

	"github.com/coreylowman/stag/internal/tensor"
)

// Gradients maps tensor identities to their accumulated gradient storage.
// Entries are allocated lazily as zero tensors the first time a backward
// closure asks to accumulate into them.
//
// Reading a gradient that no closure ever wrote is a bug in operation
// wiring, not a runtime condition, so Get panics. The same goes for asking
// to mutate and read the same identity in one call.
type Gradients struct {
	grads map[tensor.UniqueID]*tensor.RawTensor
}

// NewGradients creates an empty gradient map.
func NewGradients() *Gradients {
	return &Gradients{grads: make(map[tensor.UniqueID]*tensor.RawTensor)}
}

// Len returns the number of tensors with a gradient entry.
func (g *Gradients) Len() int {
	return len(g.grads)
}

// GetOrAlloc returns the gradient storage for t, allocating a zero-filled
// tensor of t's shape and dtype on first access.
func (g *Gradients) GetOrAlloc(t *Tensor) (*tensor.RawTensor, error) {
	if grad, ok := g.grads[t.id]; ok {
		return grad, nil
	}
	grad, err := tensor.NewRawLike(t.raw)
	if err != nil {
		return nil, err
	}
	g.grads[t.id] = grad
	return grad, nil
}

// Get returns the gradient accumulated for t. Panics if no backward closure
// ever wrote one; in a correctly wired tape the output gradient always
// exists by the time an earlier operation reads it.
func (g *Gradients) Get(t *Tensor) *tensor.RawTensor {
	grad, ok := g.grads[t.id]
	if !ok {
		panic(fmt.Sprintf("autodiff: no gradient recorded for tensor %d", t.id))
	}
	return grad
}

// GetByID is Get keyed directly by identity, for callers that kept the id
// but not the tensor (optimizers walking a parameter list).
func (g *Gradients) GetByID(id tensor.UniqueID) (*tensor.RawTensor, bool) {
	grad, ok := g.grads[id]
	return grad, ok
}

// Remove takes the gradient for t out of the map, returning nil if absent.
func (g *Gradients) Remove(t *Tensor) *tensor.RawTensor {
	grad := g.grads[t.id]
	delete(g.grads, t.id)
	return grad
}

// MutAndRef returns the gradient to accumulate into for mut (allocating it
// if needed) and the already-written gradient of ref. Panics if both name
// the same identity; a closure must never read and write one entry at once.
func (g *Gradients) MutAndRef(mut, ref *Tensor) (*tensor.RawTensor, *tensor.RawTensor, error) {
	if mut.id == ref.id {
		panic(fmt.Sprintf("autodiff: tensor %d borrowed mutably and immutably at once", mut.id))
	}
	mg, err := g.GetOrAlloc(mut)
	if err != nil {
		return nil, nil, err
	}
	return mg, g.Get(ref), nil
}

// MutsAndRef is the fused-operation variant of MutAndRef: three input
// gradients mutably plus one shared downstream gradient immutably. Panics
// on any pairwise identity aliasing among the four.
func (g *Gradients) MutsAndRef(m1, m2, m3, ref *Tensor) (*tensor.RawTensor, *tensor.RawTensor, *tensor.RawTensor, *tensor.RawTensor, error) {
	ids := [4]tensor.UniqueID{m1.id, m2.id, m3.id, ref.id}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if ids[i] == ids[j] {
				panic(fmt.Sprintf("autodiff: aliased gradient borrow %v", ids))
			}
		}
	}
	g1, err := g.GetOrAlloc(m1)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	g2, err := g.GetOrAlloc(m2)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	g3, err := g.GetOrAlloc(m3)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return g1, g2, g3, g.Get(ref), nil
}
