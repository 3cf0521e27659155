// Package cpu implements the tensor.Backend interface in pure Go.
//
// The backend owns a seeded pseudo-random generator guarded by a mutex, so
// tensor creation from multiple goroutines is safe but serialized at that
// single point. Everything else is stateless: kernels read operands through
// strided offset iteration and write fresh contiguous outputs, or mutate a
// destination in place after copy-on-write.
package cpu

import (
	"sync"

	"golang.org/x/exp/rand"

	"github.com/coreylowman/stag/internal/tensor"
	"github.com/pkg/errors"
)

// Backend is the CPU compute device.
type Backend struct {
	device tensor.Device
	mu     sync.Mutex
	rng    *rand.Rand
}

// New creates a CPU backend with a fixed default seed, so runs are
// reproducible unless a seed is chosen explicitly.
func New() *Backend {
	return WithSeed(0)
}

// WithSeed creates a CPU backend whose random fills draw from a generator
// seeded with the given value.
func WithSeed(seed uint64) *Backend {
	return &Backend{
		device: tensor.CPU,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (b *Backend) Device() tensor.Device {
	return b.device
}

// AllocZeros allocates a contiguous zero-filled tensor.
func (b *Backend) AllocZeros(shape tensor.Shape, dtype tensor.DataType) (*tensor.RawTensor, error) {
	return tensor.NewRaw(shape, dtype, b.device)
}

// AllocLike allocates a contiguous zero-filled tensor matching t's shape
// and dtype.
func (b *Backend) AllocLike(t *tensor.RawTensor) (*tensor.RawTensor, error) {
	return tensor.NewRawLike(t)
}

// RandomUint64 draws one value from the backend's generator.
func (b *Backend) RandomUint64() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rng.Uint64()
}

// FillRandn fills t with standard-normal samples. Only float tensors can be
// filled; the generator lock is held for the whole fill so concurrent
// creators see disjoint sample streams.
func (b *Backend) FillRandn(t *tensor.RawTensor) error {
	it := t.IterMut()
	b.mu.Lock()
	defer b.mu.Unlock()

	switch t.DType() {
	case tensor.Float32:
		data := t.AsFloat32()
		for {
			off, ok := it.Next()
			if !ok {
				break
			}
			data[off] = float32(b.rng.NormFloat64())
		}
	case tensor.Float64:
		data := t.AsFloat64()
		for {
			off, ok := it.Next()
			if !ok {
				break
			}
			data[off] = b.rng.NormFloat64()
		}
	default:
		return errors.Wrapf(tensor.ErrDTypeMismatch, "randn: %s", t.DType())
	}
	return nil
}
