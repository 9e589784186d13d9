// Package numeric implements the numeric tower used by the constant folder:
// exact fractions, arbitrary-precision decimals, float64 and complex128
// values, plus a registry of named functions that evaluate over them.
package numeric

import (
	"math"
	"math/big"
	"math/cmplx"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// Value is a literal number in one of the tower's representations.
// The set of implementations is closed: Fraction, Decimal, Float, Complex.
type Value interface {
	String() string
	isValue()
}

// Kind identifies the representation of a Value.
type Kind int

const (
	KindFraction Kind = iota
	KindDecimal
	KindFloat
	KindComplex
)

var kindNames = map[Kind]string{
	KindFraction: "fraction",
	KindDecimal:  "decimal",
	KindFloat:    "float",
	KindComplex:  "complex",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Fraction is an exact rational number. The Rat must not be mutated once
// wrapped.
type Fraction struct {
	Rat *big.Rat
}

// Decimal is an arbitrary-precision decimal.
type Decimal struct {
	Dec *apd.Decimal
}

// Float is an IEEE-754 double.
type Float float64

// Complex is a complex number with float64 parts.
type Complex complex128

func (Fraction) isValue() {}
func (Decimal) isValue()  {}
func (Float) isValue()    {}
func (Complex) isValue()  {}

// NewFraction returns p/q. It panics if q is zero, like big.Rat.SetFrac.
func NewFraction(p, q int64) Fraction {
	return Fraction{Rat: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// Int returns the integer n as an exact fraction.
func Int(n int64) Fraction {
	return Fraction{Rat: new(big.Rat).SetInt64(n)}
}

// NewDecimal returns coeff * 10^exp as a decimal.
func NewDecimal(coeff int64, exp int32) Decimal {
	return Decimal{Dec: apd.New(coeff, exp)}
}

func (f Fraction) String() string {
	if f.Rat.IsInt() {
		return f.Rat.Num().String()
	}
	return f.Rat.RatString()
}

// IsInt reports whether the fraction has denominator 1.
func (f Fraction) IsInt() bool { return f.Rat.IsInt() }

func (d Decimal) String() string { return d.Dec.String() }

func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }

func (c Complex) String() string { return strconv.FormatComplex(complex128(c), 'g', -1, 128) }

// Real returns the real part.
func (c Complex) Real() float64 { return real(complex128(c)) }

// Imag returns the imaginary part.
func (c Complex) Imag() float64 { return imag(complex128(c)) }

// KindOf returns the representation of v.
func KindOf(v Value) Kind {
	switch v.(type) {
	case Fraction:
		return KindFraction
	case Decimal:
		return KindDecimal
	case Complex:
		return KindComplex
	default:
		return KindFloat
	}
}

// Sign returns -1, 0 or +1 for real values. Complex values report the sign
// of their real part. NaN reports 0.
func Sign(v Value) int {
	switch x := v.(type) {
	case Fraction:
		return x.Rat.Sign()
	case Decimal:
		return x.Dec.Sign()
	case Float:
		return floatSign(float64(x))
	case Complex:
		return floatSign(x.Real())
	}
	return 0
}

func floatSign(f float64) int {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	default:
		return 0
	}
}

// Equal reports whether a and b denote the same number. Values of different
// kinds are compared through float64, so Equal(Int(1), Float(1)) is true.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Fraction:
		if y, ok := b.(Fraction); ok {
			return x.Rat.Cmp(y.Rat) == 0
		}
	case Decimal:
		if y, ok := b.(Decimal); ok {
			return x.Dec.Cmp(y.Dec) == 0
		}
	}
	ca, errA := toComplex(a)
	cb, errB := toComplex(b)
	if errA != nil || errB != nil {
		return false
	}
	return ca == cb
}

// ToFloat64 converts a real value to float64. Complex values with a nonzero
// imaginary part fail with ErrDomain.
func ToFloat64(v Value) (float64, error) {
	return toFloat(v)
}

func toFloat(v Value) (float64, error) {
	switch x := v.(type) {
	case Fraction:
		f, _ := x.Rat.Float64()
		return f, nil
	case Decimal:
		return decimalFloat(x.Dec)
	case Float:
		return float64(x), nil
	case Complex:
		if x.Imag() != 0 {
			return 0, ErrDomain
		}
		return x.Real(), nil
	}
	return 0, ErrMismatch
}

func decimalFloat(d *apd.Decimal) (float64, error) {
	switch d.Form {
	case apd.Infinite:
		if d.Negative {
			return math.Inf(-1), nil
		}
		return math.Inf(1), nil
	case apd.NaN, apd.NaNSignaling:
		return math.NaN(), nil
	}
	f, err := d.Float64()
	if err != nil {
		return 0, ErrDomain
	}
	return f, nil
}

func toComplex(v Value) (complex128, error) {
	if c, ok := v.(Complex); ok {
		return complex128(c), nil
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, err
	}
	return complex(f, 0), nil
}

func toDecimal(v Value) (*apd.Decimal, error) {
	switch x := v.(type) {
	case Decimal:
		return x.Dec, nil
	case Float:
		d, err := new(apd.Decimal).SetFloat64(float64(x))
		if err != nil {
			return nil, ErrDomain
		}
		return d, nil
	}
	return nil, ErrMismatch
}

func toRat(v Value) (*big.Rat, error) {
	if f, ok := v.(Fraction); ok {
		return f.Rat, nil
	}
	return nil, ErrMismatch
}

// Abs returns the magnitude of v. Complex values yield their modulus as a
// Float.
func Abs(v Value) Value {
	switch x := v.(type) {
	case Fraction:
		return Fraction{Rat: new(big.Rat).Abs(x.Rat)}
	case Decimal:
		return Decimal{Dec: new(apd.Decimal).Abs(x.Dec)}
	case Float:
		return Float(math.Abs(float64(x)))
	case Complex:
		return Float(cmplx.Abs(complex128(x)))
	}
	return v
}
