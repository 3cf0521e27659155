package tensor

// Backend is the storage-and-kernel interface tensor operations are written
// against. The CPU implementation lives in internal/backend/cpu; accelerator
// backends would be alternate implementations behind this same seam.
//
// All binary operations require equal shapes and dtypes; operands may carry
// arbitrary strides (views), outputs are fresh contiguous tensors. Shape and
// dtype incompatibilities surface as typed errors before any mutation.
type Backend interface {
	// Metadata
	Name() string
	Device() Device

	// Allocation
	AllocZeros(shape Shape, dtype DataType) (*RawTensor, error)
	AllocLike(t *RawTensor) (*RawTensor, error)

	// FillRandn fills t with samples from the standard normal distribution
	// using the backend's seeded generator.
	FillRandn(t *RawTensor) error
	// RandomUint64 draws from the backend's generator. Safe for concurrent
	// use; serialized internally.
	RandomUint64() uint64

	// Element-wise binary operations
	Add(a, b *RawTensor) (*RawTensor, error)
	Sub(a, b *RawTensor) (*RawTensor, error)
	Mul(a, b *RawTensor) (*RawTensor, error)
	Div(a, b *RawTensor) (*RawTensor, error)

	// Element-wise operations with a scalar
	AddScalar(x *RawTensor, s float64) (*RawTensor, error)
	SubScalar(x *RawTensor, s float64) (*RawTensor, error)
	MulScalar(x *RawTensor, s float64) (*RawTensor, error)
	DivScalar(x *RawTensor, s float64) (*RawTensor, error)

	// Element-wise unary operations
	Neg(x *RawTensor) (*RawTensor, error)
	Exp(x *RawTensor) (*RawTensor, error)
	Log(x *RawTensor) (*RawTensor, error)
	Sqrt(x *RawTensor) (*RawTensor, error)
	Tanh(x *RawTensor) (*RawTensor, error)

	// In-place accumulation kernels, the gradient-update hot path.
	// dst += src, dst += src*scale, dst += a*b. dst goes through
	// copy-on-write before mutation.
	AddInto(dst, src *RawTensor) error
	AddScaledInto(dst, src *RawTensor, scale float64) error
	AddMulInto(dst, a, b *RawTensor) error

	// Broadcast/reduce engine. ReduceInto folds src into dst (shaped as src
	// with the axes dropped) using the accumulator, initializing dst to the
	// accumulator's identity; BroadcastInto is the adjoint, replicating the
	// reduced src across the dropped axes of dst. The NoReset variants skip
	// the identity fill and accumulate into dst's existing contents, which
	// is what gradient accumulation needs.
	ReduceInto(acc Accumulator, dst, src *RawTensor, axes ...int) error
	ReduceIntoNoReset(acc Accumulator, dst, src *RawTensor, axes ...int) error
	BroadcastInto(acc Accumulator, dst, src *RawTensor, axes ...int) error
	BroadcastIntoNoReset(acc Accumulator, dst, src *RawTensor, axes ...int) error
}
