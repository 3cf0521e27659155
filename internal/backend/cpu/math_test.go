package cpu

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreylowman/stag/internal/tensor"
)

func fromFloat32(t *testing.T, shape tensor.Shape, data []float32) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	copy(raw.AsFloat32(), data)
	return raw
}

func gather32(raw *tensor.RawTensor) []float32 {
	buf := raw.AsFloat32()
	out := make([]float32, 0, raw.NumElements())
	it := raw.Iter()
	for {
		off, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, buf[off])
	}
	return out
}

func TestBinaryOps(t *testing.T) {
	b := New()
	x := fromFloat32(t, tensor.Shape{4}, []float32{1, 2, 3, 4})
	y := fromFloat32(t, tensor.Shape{4}, []float32{4, 3, 2, 1})

	sum, err := b.Add(x, y)
	require.NoError(t, err)
	assert.Equal(t, []float32{5, 5, 5, 5}, gather32(sum))

	diff, err := b.Sub(x, y)
	require.NoError(t, err)
	assert.Equal(t, []float32{-3, -1, 1, 3}, gather32(diff))

	prod, err := b.Mul(x, y)
	require.NoError(t, err)
	assert.Equal(t, []float32{4, 6, 6, 4}, gather32(prod))

	quot, err := b.Div(x, y)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.25, 2.0 / 3.0, 1.5, 4}, gather32(quot))
}

func TestBinaryOpsLeaveOperandsIntact(t *testing.T) {
	b := New()
	x := fromFloat32(t, tensor.Shape{2}, []float32{1, 2})
	y := fromFloat32(t, tensor.Shape{2}, []float32{3, 4})

	_, err := b.Add(x, y)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, gather32(x))
	assert.Equal(t, []float32{3, 4}, gather32(y))
}

func TestBinaryOpsStridedOperand(t *testing.T) {
	b := New()
	// Broadcast view [3] -> [2 3] added to a dense [2 3].
	base := fromFloat32(t, tensor.Shape{3}, []float32{1, 2, 3})
	bcast, err := base.ViewWithStrides(tensor.Shape{2, 3}, []int{0, 1})
	require.NoError(t, err)
	dense := fromFloat32(t, tensor.Shape{2, 3}, []float32{10, 20, 30, 40, 50, 60})

	sum, err := b.Add(dense, bcast)
	require.NoError(t, err)
	assert.Equal(t, []float32{11, 22, 33, 41, 52, 63}, gather32(sum))
	assert.True(t, sum.IsContiguous())
}

func TestBinaryOpShapeMismatch(t *testing.T) {
	b := New()
	x := fromFloat32(t, tensor.Shape{2}, []float32{1, 2})
	y := fromFloat32(t, tensor.Shape{3}, []float32{1, 2, 3})
	_, err := b.Add(x, y)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestBinaryOpDTypeMismatch(t *testing.T) {
	b := New()
	x := fromFloat32(t, tensor.Shape{2}, []float32{1, 2})
	y, err := tensor.NewRaw(tensor.Shape{2}, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	_, err = b.Add(x, y)
	assert.ErrorIs(t, err, tensor.ErrDTypeMismatch)
}

func TestIntBinaryOps(t *testing.T) {
	b := New()
	x, err := tensor.NewRaw(tensor.Shape{3}, tensor.Int64, tensor.CPU)
	require.NoError(t, err)
	y, err := tensor.NewRaw(tensor.Shape{3}, tensor.Int64, tensor.CPU)
	require.NoError(t, err)
	copy(x.AsInt64(), []int64{6, 7, 8})
	copy(y.AsInt64(), []int64{2, 2, 2})

	prod, err := b.Mul(x, y)
	require.NoError(t, err)
	assert.Equal(t, []int64{12, 14, 16}, prod.AsInt64()[:3])
}

func TestScalarOps(t *testing.T) {
	b := New()
	x := fromFloat32(t, tensor.Shape{3}, []float32{1, 2, 3})

	r, err := b.AddScalar(x, 1)
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 3, 4}, gather32(r))

	r, err = b.SubScalar(x, 1)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 2}, gather32(r))

	r, err = b.MulScalar(x, 2)
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 4, 6}, gather32(r))

	r, err = b.DivScalar(x, 2)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 1, 1.5}, gather32(r))
}

func TestDivScalarIntegerZero(t *testing.T) {
	b := New()
	x, err := tensor.NewRaw(tensor.Shape{2}, tensor.Int32, tensor.CPU)
	require.NoError(t, err)
	_, err = b.DivScalar(x, 0.4) // truncates to int32(0)
	assert.Error(t, err)
}

func TestUnaryOps(t *testing.T) {
	b := New()
	x := fromFloat32(t, tensor.Shape{3}, []float32{0, 1, 4})

	neg, err := b.Neg(x)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, -1, -4}, gather32(neg))

	exp, err := b.Exp(x)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, exp.AsFloat32()[0], 1e-6)
	assert.InDelta(t, math.E, exp.AsFloat32()[1], 1e-5)

	sqrt, err := b.Sqrt(x)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 2}, gather32(sqrt))

	tanh, err := b.Tanh(x)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, tanh.AsFloat32()[0], 1e-6)
	assert.InDelta(t, math.Tanh(1), float64(tanh.AsFloat32()[1]), 1e-6)

	lg, err := b.Log(fromFloat32(t, tensor.Shape{2}, []float32{1, float32(math.E)}))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, lg.AsFloat32()[0], 1e-6)
	assert.InDelta(t, 1.0, lg.AsFloat32()[1], 1e-5)
}

func TestFloatUnaryRejectsInts(t *testing.T) {
	b := New()
	x, err := tensor.NewRaw(tensor.Shape{2}, tensor.Int32, tensor.CPU)
	require.NoError(t, err)
	_, err = b.Exp(x)
	assert.ErrorIs(t, err, tensor.ErrDTypeMismatch)
}

func TestAccumulateInto(t *testing.T) {
	b := New()
	dst := fromFloat32(t, tensor.Shape{3}, []float32{1, 1, 1})
	src := fromFloat32(t, tensor.Shape{3}, []float32{1, 2, 3})

	require.NoError(t, b.AddInto(dst, src))
	assert.Equal(t, []float32{2, 3, 4}, gather32(dst))

	require.NoError(t, b.AddScaledInto(dst, src, -1))
	assert.Equal(t, []float32{1, 1, 1}, gather32(dst))

	require.NoError(t, b.AddMulInto(dst, src, src))
	assert.Equal(t, []float32{2, 5, 10}, gather32(dst))
}

func TestAccumulateIntoCopyOnWrite(t *testing.T) {
	b := New()
	dst := fromFloat32(t, tensor.Shape{2}, []float32{1, 2})
	snapshot := dst.Clone()
	src := fromFloat32(t, tensor.Shape{2}, []float32{10, 10})

	require.NoError(t, b.AddInto(dst, src))
	assert.Equal(t, []float32{11, 12}, gather32(dst))
	assert.Equal(t, []float32{1, 2}, gather32(snapshot))
}

func TestAccumulateIntoRejectsInts(t *testing.T) {
	b := New()
	dst, err := tensor.NewRaw(tensor.Shape{2}, tensor.Int32, tensor.CPU)
	require.NoError(t, err)
	src, err := tensor.NewRaw(tensor.Shape{2}, tensor.Int32, tensor.CPU)
	require.NoError(t, err)
	assert.ErrorIs(t, b.AddInto(dst, src), tensor.ErrDTypeMismatch)
}

func TestFillRandnDeterministic(t *testing.T) {
	a := WithSeed(42)
	b := WithSeed(42)
	x, err := tensor.NewRaw(tensor.Shape{8}, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	y, err := tensor.NewRaw(tensor.Shape{8}, tensor.Float64, tensor.CPU)
	require.NoError(t, err)

	require.NoError(t, a.FillRandn(x))
	require.NoError(t, b.FillRandn(y))
	assert.Equal(t, x.AsFloat64()[:8], y.AsFloat64()[:8])
}

func TestFillRandnRejectsInts(t *testing.T) {
	b := New()
	x, err := tensor.NewRaw(tensor.Shape{2}, tensor.Int64, tensor.CPU)
	require.NoError(t, err)
	assert.ErrorIs(t, b.FillRandn(x), tensor.ErrDTypeMismatch)
}
