package autodiff

// Neg computes -x element-wise.
func Neg(x *Tensor) (*Tensor, error) {
	raw, err := x.backend.Neg(x.raw)
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
		return b.AddScaledInto(xg, og, -1)
	})
	return out, nil
}

// Exp computes e^x element-wise.
//
// d/dx e^x = e^x, which is the forward output itself.
func Exp(x *Tensor) (*Tensor, error) {
	raw, err := x.backend.Exp(x.raw)
	if err != nil {
		return nil, err
	}
	out := newResult(raw, x.backend, x.tape)
	b := x.backend
	ov := raw.Clone()
	record(out.tape, func(g *Gradients) error {
		xg, og, err := g.MutAndRef(x, out)
		if err != nil {
			return err
		}
		return b.AddMulInto(xg, ov, og)
	})
	return out, nil
}

// Log computes the natural logarithm element-wise.
//
// d/dx ln(x) = 1/x.
func Log(x *Tensor) (*Tensor, error) {
	raw, err := x.backend.Log(x.raw)
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
		byX, err := b.Div(og, xv)
		if err != nil {
			return err
		}
		return b.AddInto(xg, byX)
	})
	return out, nil
}

// Sqrt computes the square root element-wise.
//
// d/dx sqrt(x) = 1/(2*sqrt(x)) = 0.5/out.
func Sqrt(x *Tensor) (*Tensor, error) {
	raw, err := x.backend.Sqrt(x.raw)
	if err != nil {
		return nil, err
	}
	out := newResult(raw, x.backend, x.tape)
	b := x.backend
	ov := raw.Clone()
	record(out.tape, func(g *Gradients) error {
		xg, og, err := g.MutAndRef(x, out)
		if err != nil {
			return err
		}
		byOut, err := b.Div(og, ov)
		if err != nil {
			return err
		}
		return b.AddScaledInto(xg, byOut, 0.5)
	})
	return out, nil
}

// Tanh computes the hyperbolic tangent element-wise.
//
// d/dx tanh(x) = 1 - tanh(x)^2 = 1 - out^2.
func Tanh(x *Tensor) (*Tensor, error) {
	raw, err := x.backend.Tanh(x.raw)
	if err != nil {
		return nil, err
	}
	out := newResult(raw, x.backend, x.tape)
	b := x.backend
	ov := raw.Clone()
	record(out.tape, func(g *Gradients) error {
		xg, og, err := g.MutAndRef(x, out)
		if err != nil {
			return err
		}
		sq, err := b.Mul(ov, ov)
		if err != nil {
			return err
		}
		d, err := b.MulScalar(sq, -1)
		if err != nil {
			return err
		}
		d, err = b.AddScalar(d, 1)
		if err != nil {
			return err
		}
		return b.AddMulInto(xg, d, og)
	})
	return out, nil
}
