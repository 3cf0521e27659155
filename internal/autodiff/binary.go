package autodiff

import "github.com/coreylowman/stag/internal/tensor"

// newResult wraps an operation output: fresh identity, merged tape carrier.
func newResult(raw *tensor.RawTensor, backend tensor.Backend, tape Tape) *Tensor {
	return &Tensor{
		id:      tensor.NextUniqueID(),
		raw:     raw,
		backend: backend,
		tape:    tape,
	}
}

// Binary backward closures accumulate into each input through its own
// MutAndRef call rather than one combined borrow, so an expression like
// Mul(x, x) folds both contributions into the same entry instead of
// panicking on an aliased borrow.

// Add computes lhs + rhs element-wise.
//
// d/dlhs = 1, d/drhs = 1.
func Add(lhs, rhs *Tensor) (*Tensor, error) {
	raw, err := lhs.backend.Add(lhs.raw, rhs.raw)
	if err != nil {
		return nil, err
	}
	out := newResult(raw, lhs.backend, MergeTapes(lhs.tape, rhs.tape))
	b := lhs.backend
	record(out.tape, func(g *Gradients) error {
		lg, og, err := g.MutAndRef(lhs, out)
		if err != nil {
			return err
		}
		if err := b.AddInto(lg, og); err != nil {
			return err
		}
		rg, _, err := g.MutAndRef(rhs, out)
		if err != nil {
			return err
		}
		return b.AddInto(rg, og)
	})
	return out, nil
}

// Sub computes lhs - rhs element-wise.
//
// d/dlhs = 1, d/drhs = -1.
func Sub(lhs, rhs *Tensor) (*Tensor, error) {
	raw, err := lhs.backend.Sub(lhs.raw, rhs.raw)
	if err != nil {
		return nil, err
	}
	out := newResult(raw, lhs.backend, MergeTapes(lhs.tape, rhs.tape))
	b := lhs.backend
	record(out.tape, func(g *Gradients) error {
		lg, og, err := g.MutAndRef(lhs, out)
		if err != nil {
			return err
		}
		if err := b.AddInto(lg, og); err != nil {
			return err
		}
		rg, _, err := g.MutAndRef(rhs, out)
		if err != nil {
			return err
		}
		return b.AddScaledInto(rg, og, -1)
	})
	return out, nil
}

// Mul computes lhs * rhs element-wise.
//
// d/dlhs = rhs, d/drhs = lhs. The operand values are captured as
// copy-on-write clones, so mutating an input after the forward pass does
// not corrupt the backward pass.
func Mul(lhs, rhs *Tensor) (*Tensor, error) {
	raw, err := lhs.backend.Mul(lhs.raw, rhs.raw)
	if err != nil {
		return nil, err
	}
	out := newResult(raw, lhs.backend, MergeTapes(lhs.tape, rhs.tape))
	b := lhs.backend
	lv, rv := lhs.raw.Clone(), rhs.raw.Clone()
	record(out.tape, func(g *Gradients) error {
		lg, og, err := g.MutAndRef(lhs, out)
		if err != nil {
			return err
		}
		if err := b.AddMulInto(lg, rv, og); err != nil {
			return err
		}
		rg, _, err := g.MutAndRef(rhs, out)
		if err != nil {
			return err
		}
		return b.AddMulInto(rg, lv, og)
	})
	return out, nil
}

// Div computes lhs / rhs element-wise.
//
// d/dlhs = 1/rhs, d/drhs = -lhs/rhs^2 = -(out/rhs).
func Div(lhs, rhs *Tensor) (*Tensor, error) {
	raw, err := lhs.backend.Div(lhs.raw, rhs.raw)
	if err != nil {
		return nil, err
	}
	out := newResult(raw, lhs.backend, MergeTapes(lhs.tape, rhs.tape))
	b := lhs.backend
	rv, ov := rhs.raw.Clone(), raw.Clone()
	record(out.tape, func(g *Gradients) error {
		lg, og, err := g.MutAndRef(lhs, out)
		if err != nil {
			return err
		}
		byR, err := b.Div(og, rv)
		if err != nil {
			return err
		}
		if err := b.AddInto(lg, byR); err != nil {
			return err
		}
		rg, _, err := g.MutAndRef(rhs, out)
		if err != nil {
			return err
		}
		scaled, err := b.Mul(og, ov)
		if err != nil {
			return err
		}
		scaled, err = b.Div(scaled, rv)
		if err != nil {
			return err
		}
		return b.AddScaledInto(rg, scaled, -1)
	})
	return out, nil
}
