package numeric

import (
	"math"
	"math/big"

	"github.com/cockroachdb/apd/v3"
)

const (
	// maxFractionPlaces is the most decimal places a Decimal may carry and
	// still be stored as an exact fraction.
	maxFractionPlaces = 15

	// maxConvergents bounds the continued-fraction expansion used to find
	// the simplest fraction for a float64.
	maxConvergents = 64
)

// maxDenominator bounds the denominators accepted for float64 conversion.
var maxDenominator = new(big.Int).Exp(big.NewInt(10), big.NewInt(16), nil)

// Normalize applies the literal coercion rule. With exact set, a finite real
// that is exactly expressible as a fraction becomes a Fraction; otherwise the
// value keeps its native representation (Fraction values turn into Float).
// A Complex with zero imaginary part is treated as its real part.
func Normalize(v Value, exact bool) Value {
	switch x := v.(type) {
	case Fraction:
		if exact {
			return x
		}
		f, _ := x.Rat.Float64()
		return Float(f)

	case Decimal:
		if exact {
			if r, ok := decimalToRat(x.Dec); ok {
				return Fraction{Rat: r}
			}
		}
		return x

	case Float:
		if exact {
			if r, ok := floatToRat(float64(x)); ok {
				return Fraction{Rat: r}
			}
		}
		return x

	case Complex:
		if x.Imag() != 0 {
			return x
		}
		return Normalize(Float(x.Real()), exact)
	}
	return v
}

// Native returns the fallback form of v used when evaluation over exact
// representations fails: Fraction and Decimal become Float, Float and
// Complex are returned as they are.
func Native(v Value) Value {
	switch x := v.(type) {
	case Fraction:
		f, _ := x.Rat.Float64()
		return Float(f)
	case Decimal:
		f, err := decimalFloat(x.Dec)
		if err != nil {
			return x
		}
		return Float(f)
	}
	return v
}

// NativeAll maps Native over args into a new slice.
func NativeAll(args []Value) []Value {
	out := make([]Value, len(args))
	for i, a := range args {
		out[i] = Native(a)
	}
	return out
}

// decimalToRat converts a finite decimal with at most maxFractionPlaces
// places whose magnitude fits a float64.
func decimalToRat(d *apd.Decimal) (*big.Rat, bool) {
	if d.Form != apd.Finite {
		return nil, false
	}
	reduced := new(apd.Decimal)
	reduced.Reduce(d)
	if reduced.Exponent < -maxFractionPlaces {
		return nil, false
	}
	if f, err := reduced.Float64(); err != nil || math.IsInf(f, 0) {
		return nil, false
	}
	r, ok := new(big.Rat).SetString(reduced.Text('f'))
	return r, ok
}

// floatToRat finds the simplest fraction whose float64 value is exactly f,
// walking the continued-fraction convergents of f's binary expansion.
func floatToRat(f float64) (*big.Rat, bool) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, false
	}
	if f == math.Trunc(f) {
		return new(big.Rat).SetFloat64(f), true
	}

	x := new(big.Rat).SetFloat64(f)
	p0, q0 := big.NewInt(0), big.NewInt(1)
	p1, q1 := big.NewInt(1), big.NewInt(0)
	a := new(big.Int)
	rem := new(big.Rat)

	for i := 0; i < maxConvergents; i++ {
		a.Div(x.Num(), x.Denom())

		p2 := new(big.Int).Mul(a, p1)
		p2.Add(p2, p0)
		q2 := new(big.Int).Mul(a, q1)
		q2.Add(q2, q0)
		if q2.Cmp(maxDenominator) > 0 {
			return nil, false
		}

		candidate := new(big.Rat).SetFrac(p2, q2)
		if got, _ := candidate.Float64(); got == f {
			return candidate, true
		}

		rem.Sub(x, new(big.Rat).SetInt(a))
		if rem.Sign() == 0 {
			return nil, false
		}
		x = new(big.Rat).Inv(rem)
		p0, q0, p1, q1 = p1, q1, p2, q2
	}
	return nil, false
}
