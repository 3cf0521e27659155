package tensor

import "github.com/pkg/errors"

// Sentinel errors for the recoverable error class: conditions a caller can
// detect before or instead of mutating any state. Contract violations
// (aliased gradient borrows, reading a gradient never written, wrong dtype
// reinterpretation) panic instead.
var (
	// ErrShapeMismatch indicates two shapes that were required to match
	// (or to be in the documented reduce/broadcast relation) do not.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrDTypeMismatch indicates an operation received a data type it does
	// not support, or two operands with differing data types.
	ErrDTypeMismatch = errors.New("dtype mismatch")

	// ErrAxisOutOfRange indicates a reduce/broadcast axis outside
	// [-rank, rank) or named twice.
	ErrAxisOutOfRange = errors.New("axis out of range")

	// ErrEmptyAxes indicates a reduction was requested with no axes to
	// consume. Pure broadcast (the adjoint direction) permits empty axes;
	// reduction does not.
	ErrEmptyAxes = errors.New("reduction requires at least one axis")

	// ErrRankUnsupported indicates a source rank above what the
	// broadcast/reduce engine supports (4 dimensions).
	ErrRankUnsupported = errors.New("rank not supported")

	// ErrStridesOutOfBounds indicates a (shape, strides) view whose maximum
	// reachable offset lies outside the underlying buffer.
	ErrStridesOutOfBounds = errors.New("strides reach outside buffer")
)
