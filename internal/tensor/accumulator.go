package tensor

// Accumulator names the combining function a reduce or broadcast operation
// folds elements with. Add, Mul, Max and Min are commutative and
// associative, so their results do not depend on element visitation order.
// Copy is only defined when no real reduction happens (empty axis set, or
// every reduced axis has extent 1).
type Accumulator int

// Supported accumulators and their identity elements.
const (
	AddAccum Accumulator = iota // identity 0
	MulAccum                    // identity 1
	MaxAccum                    // identity -Inf
	MinAccum                    // identity +Inf
	CopyAccum                   // replaces, no identity
)

// String returns the accumulator's name.
func (a Accumulator) String() string {
	switch a {
	case AddAccum:
		return "add"
	case MulAccum:
		return "mul"
	case MaxAccum:
		return "max"
	case MinAccum:
		return "min"
	case CopyAccum:
		return "copy"
	default:
		return "unknown"
	}
}
