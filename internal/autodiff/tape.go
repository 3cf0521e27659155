package autodiff

// BackwardOp propagates gradients one operation backwards: it reads the
// output's gradient from the map and accumulates into the inputs' entries.
type BackwardOp func(*Gradients) error

// GradientTape records backward closures in forward execution order and
// replays them in reverse. A tape is consumed by a single Execute; reusing
// it afterwards is a programming error and panics.
type GradientTape struct {
	ops      []BackwardOp
	consumed bool
}

// NewGradientTape creates an empty tape.
func NewGradientTape() *GradientTape {
	return &GradientTape{}
}

// AddBackwardOp appends a backward closure. Closures are appended in
// forward order as operations execute.
func (t *GradientTape) AddBackwardOp(op BackwardOp) {
	if t.consumed {
		panic("autodiff: recording onto a consumed tape")
	}
	t.ops = append(t.ops, op)
}

// Append moves every closure of other onto t, preserving other's order,
// and empties other. This is how two owning tapes merge when both operands
// of an operation were traced.
func (t *GradientTape) Append(other *GradientTape) {
	t.ops = append(t.ops, other.ops...)
	other.ops = nil
}

// Len returns the number of recorded closures.
func (t *GradientTape) Len() int {
	return len(t.ops)
}

// Execute runs the recorded closures in reverse order against a fresh
// gradient map, stopping at the first failure. The tape is consumed either
// way; executing twice panics.
func (t *GradientTape) Execute() (*Gradients, error) {
	if t.consumed {
		panic("autodiff: tape executed twice")
	}
	t.consumed = true

	grads := NewGradients()
	for i := len(t.ops) - 1; i >= 0; i-- {
		if err := t.ops[i](grads); err != nil {
			return nil, err
		}
	}
	t.ops = nil
	return grads, nil
}

// Tape is what a tensor carries between operations: either an owning tape
// that records backward closures, or nothing. The two implementations are
// OwnedTape and NoneTape; the interface is sealed.
type Tape interface {
	// Owning reports whether operations on a tensor carrying this tape
	// should record backward closures.
	Owning() bool

	sealed()
}

// OwnedTape wraps a GradientTape; a tensor carrying one is "traced" and
// every operation it participates in is recorded.
type OwnedTape struct {
	tape *GradientTape
}

// NewOwnedTape creates an owning carrier around a fresh tape.
func NewOwnedTape() *OwnedTape {
	return &OwnedTape{tape: NewGradientTape()}
}

// Owning reports true.
func (o *OwnedTape) Owning() bool { return true }

func (o *OwnedTape) sealed() {}

// NoneTape is the non-recording carrier. It is the zero state of every
// tensor until Trace is called.
type NoneTape struct{}

// Owning reports false.
func (NoneTape) Owning() bool { return false }

func (NoneTape) sealed() {}

// MergeTapes combines the carriers of an operation's two operands into the
// carrier of its output. An owning carrier always wins over a non-owning
// one; when both own, the right tape's closures are appended onto the left
// tape (which empties the right) and the left carrier is the result. Two
// non-owning carriers merge to non-owning.
func MergeTapes(l, r Tape) Tape {
	lo, lOwns := l.(*OwnedTape)
	ro, rOwns := r.(*OwnedTape)
	switch {
	case lOwns && rOwns:
		if lo != ro {
			lo.tape.Append(ro.tape)
		}
		return lo
	case lOwns:
		return lo
	case rOwns:
		return ro
	default:
		return NoneTape{}
	}
}

// record registers op on the carrier when it owns a tape. Operations call
// this unconditionally; non-traced paths fall through for free.
func record(t Tape, op BackwardOp) {
	if o, ok := t.(*OwnedTape); ok {
		o.tape.AddBackwardOp(op)
	}
}
