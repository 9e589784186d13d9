package numeric

import (
	"math"
	"math/big"
	"math/cmplx"

	"github.com/cockroachdb/apd/v3"
)

const (
	// maxExactExponent caps integer powers computed over fractions.
	maxExactExponent = 1024

	// maxExactBits caps the estimated size of an exact power's numerator
	// or denominator.
	maxExactBits = 1 << 20

	// maxFactorialInput caps exact factorials.
	maxFactorialInput = 1000
)

var (
	ratHalf = big.NewRat(1, 2)
	ratOne  = big.NewRat(1, 1)
)

var addKernels = binaryKernels{
	rat: func(x, y *big.Rat) (Value, error) { return ratResult(new(big.Rat).Add(x, y)) },
	dec: func(ctx *apd.Context, x, y *apd.Decimal) (Value, error) {
		return decOp(func(d *apd.Decimal) (apd.Condition, error) { return ctx.Add(d, x, y) })
	},
	flt: func(x, y float64) (Value, error) { return floatResult(x + y) },
	cpx: func(x, y complex128) (Value, error) { return complexResult(x + y) },
}

var subtractKernels = binaryKernels{
	rat: func(x, y *big.Rat) (Value, error) { return ratResult(new(big.Rat).Sub(x, y)) },
	dec: func(ctx *apd.Context, x, y *apd.Decimal) (Value, error) {
		return decOp(func(d *apd.Decimal) (apd.Condition, error) { return ctx.Sub(d, x, y) })
	},
	flt: func(x, y float64) (Value, error) { return floatResult(x - y) },
	cpx: func(x, y complex128) (Value, error) { return complexResult(x - y) },
}

var multiplyKernels = binaryKernels{
	rat: func(x, y *big.Rat) (Value, error) { return ratResult(new(big.Rat).Mul(x, y)) },
	dec: func(ctx *apd.Context, x, y *apd.Decimal) (Value, error) {
		return decOp(func(d *apd.Decimal) (apd.Condition, error) { return ctx.Mul(d, x, y) })
	},
	flt: func(x, y float64) (Value, error) { return floatResult(x * y) },
	cpx: func(x, y complex128) (Value, error) { return complexResult(x * y) },
}

var divideKernels = binaryKernels{
	rat: func(x, y *big.Rat) (Value, error) {
		if y.Sign() == 0 {
			return nil, ErrDomain
		}
		return ratResult(new(big.Rat).Quo(x, y))
	},
	dec: func(ctx *apd.Context, x, y *apd.Decimal) (Value, error) {
		return decOp(func(d *apd.Decimal) (apd.Condition, error) { return ctx.Quo(d, x, y) })
	},
	flt: func(x, y float64) (Value, error) { return floatResult(x / y) },
	cpx: func(x, y complex128) (Value, error) { return complexResult(x / y) },
}

var powKernels = binaryKernels{
	rat: ratPow,
	dec: func(ctx *apd.Context, x, y *apd.Decimal) (Value, error) {
		return decOp(func(d *apd.Decimal) (apd.Condition, error) { return ctx.Pow(d, x, y) })
	},
	flt: floatPow,
	cpx: func(x, y complex128) (Value, error) { return complexResult(cmplx.Pow(x, y)) },
}

// ratPow is exact for integer exponents and goes through float64 otherwise.
func ratPow(x, y *big.Rat) (Value, error) {
	if !y.IsInt() || !y.Num().IsInt64() {
		xf, _ := x.Float64()
		yf, _ := y.Float64()
		return floatPow(xf, yf)
	}
	n := y.Num().Int64()
	if n > maxExactExponent || n < -maxExactExponent {
		xf, _ := x.Float64()
		return floatPow(xf, float64(n))
	}
	bits := max(x.Num().BitLen(), x.Denom().BitLen())
	if int64(bits)*max(n, -n) > maxExactBits {
		xf, _ := x.Float64()
		return floatPow(xf, float64(n))
	}
	neg := n < 0
	if neg {
		if x.Sign() == 0 {
			return nil, ErrDomain
		}
		n = -n
	}
	e := big.NewInt(n)
	num := new(big.Int).Exp(x.Num(), e, nil)
	den := new(big.Int).Exp(x.Denom(), e, nil)
	r := new(big.Rat).SetFrac(num, den)
	if neg {
		r.Inv(r)
	}
	return ratResult(r)
}

// floatPow returns a complex result for a negative base raised to a
// non-integer exponent.
func floatPow(x, y float64) (Value, error) {
	if x < 0 && y != math.Trunc(y) {
		return complexResult(cmplx.Pow(complex(x, 0), complex(y, 0)))
	}
	return floatResult(math.Pow(x, y))
}

// modKernels implement the floored modulo. A zero divisor returns x and a
// negative divisor is out of domain.
var modKernels = binaryKernels{
	rat: func(x, y *big.Rat) (Value, error) {
		switch y.Sign() {
		case 0:
			return ratResult(new(big.Rat).Set(x))
		case -1:
			return nil, ErrDomain
		}
		q := new(big.Rat).Quo(x, y)
		fl := new(big.Int).Div(q.Num(), q.Denom())
		r := new(big.Rat).Mul(y, new(big.Rat).SetInt(fl))
		return ratResult(r.Sub(x, r))
	},
	dec: func(ctx *apd.Context, x, y *apd.Decimal) (Value, error) {
		switch y.Sign() {
		case 0:
			return Decimal{Dec: new(apd.Decimal).Set(x)}, nil
		case -1:
			return nil, ErrDomain
		}
		return decOp(func(d *apd.Decimal) (apd.Condition, error) {
			cond, err := ctx.Rem(d, x, y)
			if err != nil || d.Sign() >= 0 {
				return cond, err
			}
			return ctx.Add(d, d, y)
		})
	},
	flt: func(x, y float64) (Value, error) {
		switch {
		case y == 0:
			return floatResult(x)
		case y < 0:
			return nil, ErrDomain
		}
		return floatResult(x - y*math.Floor(x/y))
	},
}

var negKernels = unaryKernels{
	rat: func(x *big.Rat) (Value, error) { return ratResult(new(big.Rat).Neg(x)) },
	dec: func(ctx *apd.Context, x *apd.Decimal) (Value, error) {
		return decOp(func(d *apd.Decimal) (apd.Condition, error) { return ctx.Neg(d, x) })
	},
	flt: func(x float64) (Value, error) { return floatResult(-x) },
	cpx: func(x complex128) (Value, error) { return complexResult(-x) },
}

var absKernels = unaryKernels{
	rat: func(x *big.Rat) (Value, error) { return ratResult(new(big.Rat).Abs(x)) },
	dec: func(ctx *apd.Context, x *apd.Decimal) (Value, error) {
		return decOp(func(d *apd.Decimal) (apd.Condition, error) { return ctx.Abs(d, x) })
	},
	flt: func(x float64) (Value, error) { return floatResult(math.Abs(x)) },
	cpx: func(x complex128) (Value, error) { return floatResult(cmplx.Abs(x)) },
}

var sqrtKernels = unaryKernels{
	rat: func(x *big.Rat) (Value, error) {
		if x.Sign() >= 0 {
			num := new(big.Int).Sqrt(x.Num())
			den := new(big.Int).Sqrt(x.Denom())
			r := new(big.Rat).SetFrac(num, den)
			if new(big.Rat).Mul(r, r).Cmp(x) == 0 {
				return ratResult(r)
			}
		}
		f, _ := x.Float64()
		return floatSqrt(f)
	},
	dec: func(ctx *apd.Context, x *apd.Decimal) (Value, error) {
		if x.Sign() < 0 {
			f, err := decimalFloat(x)
			if err != nil {
				return nil, err
			}
			return floatSqrt(f)
		}
		return decOp(func(d *apd.Decimal) (apd.Condition, error) { return ctx.Sqrt(d, x) })
	},
	flt: floatSqrt,
	cpx: func(x complex128) (Value, error) { return complexResult(cmplx.Sqrt(x)) },
}

func floatSqrt(x float64) (Value, error) {
	if x < 0 {
		return complexResult(cmplx.Sqrt(complex(x, 0)))
	}
	return floatResult(math.Sqrt(x))
}

var expKernels = unaryKernels{
	dec: func(ctx *apd.Context, x *apd.Decimal) (Value, error) {
		return decOp(func(d *apd.Decimal) (apd.Condition, error) { return ctx.Exp(d, x) })
	},
	flt: func(x float64) (Value, error) { return floatResult(math.Exp(x)) },
	cpx: func(x complex128) (Value, error) { return complexResult(cmplx.Exp(x)) },
}

// logKernels builds a logarithm. Negative reals give complex results and
// zero gives -Inf.
func logKernels(
	decFn func(ctx *apd.Context, d, x *apd.Decimal) (apd.Condition, error),
	fltFn func(float64) float64,
	cpxFn func(complex128) complex128,
) unaryKernels {
	flt := func(x float64) (Value, error) {
		if x < 0 {
			return complexResult(cpxFn(complex(x, 0)))
		}
		return floatResult(fltFn(x))
	}
	return unaryKernels{
		dec: func(ctx *apd.Context, x *apd.Decimal) (Value, error) {
			if x.Sign() <= 0 {
				f, err := decimalFloat(x)
				if err != nil {
					return nil, err
				}
				return flt(f)
			}
			return decOp(func(d *apd.Decimal) (apd.Condition, error) { return decFn(ctx, d, x) })
		},
		flt: flt,
		cpx: func(x complex128) (Value, error) { return complexResult(cpxFn(x)) },
	}
}

var lnKernels = logKernels(
	func(ctx *apd.Context, d, x *apd.Decimal) (apd.Condition, error) { return ctx.Ln(d, x) },
	math.Log, cmplx.Log,
)

var log10Kernels = logKernels(
	func(ctx *apd.Context, d, x *apd.Decimal) (apd.Condition, error) { return ctx.Log10(d, x) },
	math.Log10, cmplx.Log10,
)

func trigKernels(fltFn func(float64) float64, cpxFn func(complex128) complex128) unaryKernels {
	return unaryKernels{
		flt: func(x float64) (Value, error) { return floatResult(fltFn(x)) },
		cpx: func(x complex128) (Value, error) { return complexResult(cpxFn(x)) },
	}
}

var floorKernels = unaryKernels{
	rat: func(x *big.Rat) (Value, error) { return ratResult(ratFloor(x)) },
	dec: func(ctx *apd.Context, x *apd.Decimal) (Value, error) {
		return decOp(func(d *apd.Decimal) (apd.Condition, error) { return ctx.Floor(d, x) })
	},
	flt: func(x float64) (Value, error) { return floatResult(math.Floor(x)) },
	cpx: func(x complex128) (Value, error) {
		return complexResult(complex(math.Floor(real(x)), math.Floor(imag(x))))
	},
}

var ceilKernels = unaryKernels{
	rat: func(x *big.Rat) (Value, error) {
		r := ratFloor(new(big.Rat).Neg(x))
		return ratResult(r.Neg(r))
	},
	dec: func(ctx *apd.Context, x *apd.Decimal) (Value, error) {
		return decOp(func(d *apd.Decimal) (apd.Condition, error) { return ctx.Ceil(d, x) })
	},
	flt: func(x float64) (Value, error) { return floatResult(math.Ceil(x)) },
	cpx: func(x complex128) (Value, error) {
		return complexResult(complex(math.Ceil(real(x)), math.Ceil(imag(x))))
	},
}

// roundKernels round half away from zero.
var roundKernels = unaryKernels{
	rat: func(x *big.Rat) (Value, error) {
		r := new(big.Rat).Abs(x)
		r = ratFloor(r.Add(r, ratHalf))
		if x.Sign() < 0 {
			r.Neg(r)
		}
		return ratResult(r)
	},
	dec: func(ctx *apd.Context, x *apd.Decimal) (Value, error) {
		c := *ctx
		c.Rounding = apd.RoundHalfUp
		return decOp(func(d *apd.Decimal) (apd.Condition, error) { return c.RoundToIntegralValue(d, x) })
	},
	flt: func(x float64) (Value, error) { return floatResult(math.Round(x)) },
	cpx: func(x complex128) (Value, error) {
		return complexResult(complex(math.Round(real(x)), math.Round(imag(x))))
	},
}

var factorialKernels = unaryKernels{
	rat: func(x *big.Rat) (Value, error) {
		if !x.IsInt() || x.Sign() < 0 {
			f, _ := x.Float64()
			return floatFactorial(f)
		}
		if !x.Num().IsInt64() || x.Num().Int64() > maxFactorialInput {
			return nil, ErrDomain
		}
		n := x.Num().Int64()
		if n < 2 {
			return ratResult(new(big.Rat).Set(ratOne))
		}
		return ratResult(new(big.Rat).SetInt(new(big.Int).MulRange(2, n)))
	},
	flt: floatFactorial,
}

// floatFactorial uses gamma(x+1), which is exact for small integers.
func floatFactorial(x float64) (Value, error) {
	if x < 0 && x == math.Trunc(x) {
		return nil, ErrDomain
	}
	return floatResult(math.Gamma(x + 1))
}

func ratFloor(x *big.Rat) *big.Rat {
	// Int.Div is Euclidean; with a positive denominator it floors.
	return new(big.Rat).SetInt(new(big.Int).Div(x.Num(), x.Denom()))
}

// truthy reports whether v is nonzero.
func truthy(v Value) (bool, error) {
	switch x := v.(type) {
	case Fraction:
		return x.Rat.Sign() != 0, nil
	case Decimal:
		return !x.Dec.IsZero(), nil
	case Float:
		return x != 0, nil
	case Complex:
		return x != 0, nil
	}
	return false, ErrMismatch
}

func boolValue(b bool) Value {
	if b {
		return Float(1)
	}
	return Float(0)
}

// compare orders two real values after promotion.
func compare(a, b Value) (int, error) {
	t, err := promote([]Value{a, b})
	if err != nil {
		return 0, err
	}
	switch t {
	case tierFraction:
		x, _ := toRat(a)
		y, _ := toRat(b)
		return x.Cmp(y), nil
	case tierDecimal:
		x, errX := toDecimal(a)
		y, errY := toDecimal(b)
		if errX != nil || errY != nil {
			return 0, ErrMismatch
		}
		return x.Cmp(y), nil
	case tierFloat:
		x, _ := toFloat(a)
		y, _ := toFloat(b)
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		}
		return 0, nil
	}
	return 0, ErrDomain
}
