package autodiff

// AddScalar computes x + s element-wise.
func AddScalar(x *Tensor, s float64) (*Tensor, error) {
	raw, err := x.backend.AddScalar(x.raw, s)
	if err != nil {
		return nil, err
	}
	out := newResult(raw, x.backend, x.tape)
	b := x.backend
	record(out.tape, func(g *Gradients) error {
		xg, og, err := g.MutAndRef(x, out)
		if err != nil {
			return err
		}
		return b.AddInto(xg, og)
	})
	return out, nil
}

// SubScalar computes x - s element-wise.
func SubScalar(x *Tensor, s float64) (*Tensor, error) {
	raw, err := x.backend.SubScalar(x.raw, s)
	if err != nil {
		return nil, err
	}
	out := newResult(raw, x.backend, x.tape)
	b := x.backend
	record(out.tape, func(g *Gradients) error {
		xg, og, err := g.MutAndRef(x, out)
		if err != nil {
			return err
		}
		return b.AddInto(xg, og)
	})
	return out, nil
}

// MulScalar computes x * s element-wise.
func MulScalar(x *Tensor, s float64) (*Tensor, error) {
	raw, err := x.backend.MulScalar(x.raw, s)
	if err != nil {
		return nil, err
	}
	out := newResult(raw, x.backend, x.tape)
	b := x.backend
	record(out.tape, func(g *Gradients) error {
		xg, og, err := g.MutAndRef(x, out)
		if err != nil {
			return err
		}
		return b.AddScaledInto(xg, og, s)
	})
	return out, nil
}

// DivScalar computes x / s element-wise.
func DivScalar(x *Tensor, s float64) (*Tensor, error) {
	raw, err := x.backend.DivScalar(x.raw, s)
	if err != nil {
		return nil, err
	}
	out := newResult(raw, x.backend, x.tape)
	b := x.backend
	record(out.tape, func(g *Gradients) error {
		xg, og, err := g.MutAndRef(x, out)
		if err != nil {
			return err
		}
		return b.AddScaledInto(xg, og, 1/s)
	})
	return out, nil
}

// Square computes x * x without a second tensor operand.
func Square(x *Tensor) (*Tensor, error) {
	raw, err := x.backend.Mul(x.raw, x.raw)
	if err != nil {
		return nil, err
	}
	out := newResult(raw, x.backend, x.tape)
	b := x.backend
	xv := x.raw.Clone()
	record(out.tape, func(g *Gradients) error {
		xg, og, err := g.MutAndRef(x, out)
		if err != nil {
			return err
		}
		twice, err := b.MulScalar(xv, 2)
		if err != nil {
			return err
		}
		return b.AddMulInto(xg, twice, og)
	})
	return out, nil
}
