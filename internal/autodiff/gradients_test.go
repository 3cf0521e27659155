package autodiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreylowman/stag/internal/backend/cpu"
	"github.com/coreylowman/stag/internal/tensor"
)

func TestGradientsGetOrAllocLazyZeros(t *testing.T) {
	b := cpu.New()
	x, err := FromSlice(b, tensor.Shape{3}, []float32{1, 2, 3})
	require.NoError(t, err)

	g := NewGradients()
	assert.Equal(t, 0, g.Len())

	grad, err := g.GetOrAlloc(x)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())
	assert.True(t, grad.Shape().Equal(tensor.Shape{3}))
	assert.Equal(t, []float32{0, 0, 0}, grad.AsFloat32()[:3])

	// Second call returns the same storage.
	again, err := g.GetOrAlloc(x)
	require.NoError(t, err)
	assert.Same(t, grad, again)
}

func TestGradientsGetPanicsWhenMissing(t *testing.T) {
	b := cpu.New()
	x, err := FromSlice(b, tensor.Shape{2}, []float32{1, 2})
	require.NoError(t, err)

	g := NewGradients()
	assert.Panics(t, func() { g.Get(x) })
}

func TestGradientsMutAndRefAliasPanics(t *testing.T) {
	b := cpu.New()
	x, err := FromSlice(b, tensor.Shape{2}, []float32{1, 2})
	require.NoError(t, err)

	g := NewGradients()
	assert.Panics(t, func() { _, _, _ = g.MutAndRef(x, x) })
}

func TestGradientsMutsAndRef(t *testing.T) {
	b := cpu.New()
	mk := func(v float32) *Tensor {
		x, err := FromSlice(b, tensor.Shape{1}, []float32{v})
		require.NoError(t, err)
		return x
	}
	x, y, z, out := mk(1), mk(2), mk(3), mk(4)

	g := NewGradients()
	_, err := g.GetOrAlloc(out)
	require.NoError(t, err)

	g1, g2, g3, ref, err := g.MutsAndRef(x, y, z, out)
	require.NoError(t, err)
	assert.NotSame(t, g1, g2)
	assert.NotSame(t, g2, g3)
	assert.Same(t, g.Get(out), ref)

	assert.Panics(t, func() { _, _, _, _, _ = g.MutsAndRef(x, y, z, x) })
	assert.Panics(t, func() { _, _, _, _, _ = g.MutsAndRef(x, x, z, out) })
}

func TestGradientsRemove(t *testing.T) {
	b := cpu.New()
	x, err := FromSlice(b, tensor.Shape{2}, []float32{1, 2})
	require.NoError(t, err)

	g := NewGradients()
	grad, err := g.GetOrAlloc(x)
	require.NoError(t, err)

	removed := g.Remove(x)
	assert.Same(t, grad, removed)
	assert.Equal(t, 0, g.Len())
	assert.Nil(t, g.Remove(x))
}

func TestGradientsKeyedByIdentityAcrossTrace(t *testing.T) {
	b := cpu.New()
	x, err := FromSlice(b, tensor.Shape{2}, []float32{1, 2})
	require.NoError(t, err)
	traced := x.Trace()
	require.Equal(t, x.ID(), traced.ID())

	g := NewGradients()
	grad, err := g.GetOrAlloc(traced)
	require.NoError(t, err)
	assert.Same(t, grad, g.Get(x))
}
