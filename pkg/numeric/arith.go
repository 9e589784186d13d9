package numeric

import (
	"math/big"

	"github.com/cockroachdb/apd/v3"
)

// tier orders the representations for promotion. Operands are lifted to the
// highest tier present before a kernel runs.
type tier int

const (
	tierFraction tier = iota
	tierDecimal
	tierFloat
	tierComplex
)

// promote picks the common tier for args. A Fraction mixed with a Decimal
// has no implicit conversion and fails with ErrMismatch.
func promote(args []Value) (tier, error) {
	var hasFrac, hasDec, hasFloat, hasComplex bool
	for _, a := range args {
		switch a.(type) {
		case Fraction:
			hasFrac = true
		case Decimal:
			hasDec = true
		case Float:
			hasFloat = true
		case Complex:
			hasComplex = true
		default:
			return 0, ErrMismatch
		}
	}
	switch {
	case hasComplex:
		return tierComplex, nil
	case hasFrac && hasDec:
		return 0, ErrMismatch
	case hasDec:
		return tierDecimal, nil
	case hasFloat:
		return tierFloat, nil
	default:
		return tierFraction, nil
	}
}

// next returns the tier a kernel-less tier falls through to.
func (t tier) next() tier {
	switch t {
	case tierFraction, tierDecimal:
		return tierFloat
	default:
		return tierComplex
	}
}

// unaryKernels holds one implementation per tier. A nil kernel means the
// operand is lifted to the next tier.
type unaryKernels struct {
	rat func(x *big.Rat) (Value, error)
	dec func(ctx *apd.Context, x *apd.Decimal) (Value, error)
	flt func(x float64) (Value, error)
	cpx func(x complex128) (Value, error)
}

type binaryKernels struct {
	rat func(x, y *big.Rat) (Value, error)
	dec func(ctx *apd.Context, x, y *apd.Decimal) (Value, error)
	flt func(x, y float64) (Value, error)
	cpx func(x, y complex128) (Value, error)
}

func (k unaryKernels) apply(ctx *apd.Context, v Value) (Value, error) {
	t, err := promote([]Value{v})
	if err != nil {
		return nil, err
	}
	for {
		switch t {
		case tierFraction:
			if k.rat != nil {
				x, err := toRat(v)
				if err != nil {
					return nil, err
				}
				return k.rat(x)
			}
		case tierDecimal:
			if k.dec != nil {
				x, err := toDecimal(v)
				if err != nil {
					return nil, err
				}
				return k.dec(ctx, x)
			}
		case tierFloat:
			if k.flt != nil {
				x, err := toFloat(v)
				if err != nil {
					return nil, err
				}
				return k.flt(x)
			}
		case tierComplex:
			if k.cpx == nil {
				return nil, ErrDomain
			}
			x, err := toComplex(v)
			if err != nil {
				return nil, err
			}
			return k.cpx(x)
		}
		t = t.next()
	}
}

func (k binaryKernels) apply(ctx *apd.Context, a, b Value) (Value, error) {
	t, err := promote([]Value{a, b})
	if err != nil {
		return nil, err
	}
	for {
		switch t {
		case tierFraction:
			if k.rat != nil {
				x, errX := toRat(a)
				y, errY := toRat(b)
				if errX != nil || errY != nil {
					return nil, ErrMismatch
				}
				return k.rat(x, y)
			}
		case tierDecimal:
			if k.dec != nil {
				x, errX := toDecimal(a)
				y, errY := toDecimal(b)
				if errX != nil || errY != nil {
					return nil, ErrMismatch
				}
				return k.dec(ctx, x, y)
			}
		case tierFloat:
			if k.flt != nil {
				x, errX := toFloat(a)
				y, errY := toFloat(b)
				if errX != nil || errY != nil {
					return nil, ErrMismatch
				}
				return k.flt(x, y)
			}
		case tierComplex:
			if k.cpx == nil {
				return nil, ErrDomain
			}
			x, errX := toComplex(a)
			y, errY := toComplex(b)
			if errX != nil || errY != nil {
				return nil, ErrMismatch
			}
			return k.cpx(x, y)
		}
		t = t.next()
	}
}

// decOp runs an apd operation into a fresh decimal, turning traps into
// ErrDomain.
func decOp(op func(d *apd.Decimal) (apd.Condition, error)) (Value, error) {
	d := new(apd.Decimal)
	if _, err := op(d); err != nil {
		return nil, ErrDomain
	}
	return Decimal{Dec: d}, nil
}

func ratResult(r *big.Rat) (Value, error) {
	return Fraction{Rat: r}, nil
}

func floatResult(f float64) (Value, error) {
	return Float(f), nil
}

func complexResult(c complex128) (Value, error) {
	return Complex(c), nil
}
