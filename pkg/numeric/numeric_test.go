package numeric

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, kind, text string) Value {
	t.Helper()
	v, err := Parse(kind, text)
	require.NoError(t, err)
	return v
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		in    Value
		exact bool
		want  string
		kind  Kind
	}{
		{"fraction kept in exact mode", NewFraction(1, 3), true, "1/3", KindFraction},
		{"fraction to float", NewFraction(1, 2), false, "0.5", KindFloat},
		{"float to fraction", Float(0.1), true, "1/10", KindFraction},
		{"integer float to fraction", Float(5), true, "5", KindFraction},
		{"float kept without exact", Float(0.1), false, "0.1", KindFloat},
		{"infinity stays float", Float(math.Inf(1)), true, "+Inf", KindFloat},
		{"nan stays float", Float(math.NaN()), true, "NaN", KindFloat},
		{"decimal to fraction", NewDecimal(125, -2), true, "5/4", KindFraction},
		{"decimal stays decimal", NewDecimal(125, -2), false, "1.25", KindDecimal},
		{"long decimal stays decimal", mustParse(t, "decimal", "0.1234567890123456789"), true, "0.1234567890123456789", KindDecimal},
		{"real complex to fraction", Complex(complex(0.25, 0)), true, "1/4", KindFraction},
		{"real complex to float", Complex(complex(0.25, 0)), false, "0.25", KindFloat},
		{"complex kept", Complex(complex(1, 2)), true, "(1+2i)", KindComplex},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.in, tc.exact)
			assert.Equal(t, tc.kind, KindOf(got))
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestNormalizeRoundTripsFloat(t *testing.T) {
	for _, f := range []float64{1.0 / 3, 0.3, 2.5e-7, -7.125, 0.1 + 0.2} {
		v := Normalize(Float(f), true)
		got, err := ToFloat64(v)
		require.NoError(t, err)
		assert.Equal(t, f, got, "value %v normalized to %s", f, v)
	}
}

func TestNative(t *testing.T) {
	assert.Equal(t, Float(0.5), Native(NewFraction(1, 2)))
	assert.Equal(t, Float(1.25), Native(NewDecimal(125, -2)))
	assert.Equal(t, Float(3), Native(Float(3)))
	assert.Equal(t, Complex(complex(1, 1)), Native(Complex(complex(1, 1))))
}

func TestArithmeticPromotion(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		fn   string
		args []Value
		want string
		kind Kind
	}{
		{"fractions stay exact", "add", []Value{NewFraction(1, 3), NewFraction(1, 6)}, "1/2", KindFraction},
		{"fraction and float", "multiply", []Value{NewFraction(1, 2), Float(3)}, "1.5", KindFloat},
		{"decimal and float", "add", []Value{NewDecimal(1, -1), Float(0.5)}, "0.6", KindDecimal},
		{"complex wins", "add", []Value{Float(1), Complex(complex(0, 1))}, "(1+1i)", KindComplex},
		{"exact power", "pow", []Value{NewFraction(2, 3), Int(-2)}, "9/4", KindFraction},
		{"fractional power", "pow", []Value{Int(4), NewFraction(1, 2)}, "2", KindFloat},
		{"negative base fractional power", "pow", []Value{Float(-8), Float(0.5)}, "", KindComplex},
		{"floored mod", "mod", []Value{Int(-7), Int(3)}, "2", KindFraction},
		{"float mod", "mod", []Value{Float(7.5), Float(2)}, "1.5", KindFloat},
		{"sqrt perfect square", "sqrt", []Value{NewFraction(9, 4)}, "3/2", KindFraction},
		{"sqrt negative", "sqrt", []Value{Float(-4)}, "(0+2i)", KindComplex},
		{"ln of negative is complex", "ln", []Value{Float(-1)}, "", KindComplex},
		{"log base 10", "log", []Value{Float(1000)}, "", KindFloat},
		{"round half away", "round", []Value{NewFraction(-5, 2)}, "-3", KindFraction},
		{"floor fraction", "floor", []Value{NewFraction(-1, 2)}, "-1", KindFraction},
		{"ceil fraction", "ceil", []Value{NewFraction(1, 2)}, "1", KindFraction},
		{"factorial", "factorial", []Value{Int(5)}, "120", KindFraction},
		{"and", "and", []Value{Int(2), Float(0)}, "0", KindFloat},
		{"or", "or", []Value{Int(0), Float(3)}, "1", KindFloat},
		{"max", "max", []Value{Int(1), Float(2.5), NewFraction(7, 3)}, "2.5", KindFloat},
		{"min", "min", []Value{Int(1), Float(2.5), NewFraction(1, 3)}, "1/3", KindFraction},
		{"unary minus", "unaryMinus", []Value{NewDecimal(15, -1)}, "-1.5", KindDecimal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.Call(tc.fn, tc.args...)
			require.NoError(t, err)
			assert.Equal(t, tc.kind, KindOf(got))
			if tc.want != "" {
				assert.Equal(t, tc.want, got.String())
			}
		})
	}
}

func TestLogarithms(t *testing.T) {
	r := NewRegistry()

	v, err := r.Call("ln", Float(-1))
	require.NoError(t, err)
	c := v.(Complex)
	assert.InDelta(t, 0, c.Real(), 1e-15)
	assert.InDelta(t, math.Pi, c.Imag(), 1e-15)

	v, err = r.Call("ln", Float(0))
	require.NoError(t, err)
	assert.True(t, math.IsInf(float64(v.(Float)), -1))

	v, err = r.Call("log", Float(8), Float(2))
	require.NoError(t, err)
	assert.InDelta(t, 3, float64(v.(Float)), 1e-12)

	v, err = r.Call("log", Float(0.00001))
	require.NoError(t, err)
	assert.InDelta(t, -5, float64(v.(Float)), 1e-12)
}

func TestMismatchAndFallback(t *testing.T) {
	r := NewRegistry()

	_, err := r.Call("add", NewFraction(1, 3), NewDecimal(1, -1))
	require.ErrorIs(t, err, ErrMismatch)

	v, err := r.Call("add", NativeAll([]Value{NewFraction(1, 2), NewDecimal(25, -2)})...)
	require.NoError(t, err)
	assert.Equal(t, Float(0.75), v)
}

func TestPowResultSize(t *testing.T) {
	r := NewRegistry()

	v, err := r.Call("pow", Int(2), Int(1000))
	require.NoError(t, err)
	want := new(big.Int).Lsh(big.NewInt(1), 1000)
	assert.True(t, Equal(Fraction{Rat: new(big.Rat).SetInt(want)}, v))

	big1000 := Fraction{Rat: new(big.Rat).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(1000), nil))}
	v, err = r.Call("pow", big1000, Int(1000))
	require.NoError(t, err)
	f, ok := v.(Float)
	require.True(t, ok, "got %T", v)
	assert.True(t, math.IsInf(float64(f), 1))

	v, err = r.Call("pow", big1000, Int(-1000))
	require.NoError(t, err)
	assert.Equal(t, Float(0), v)
}

func TestDivideByZero(t *testing.T) {
	r := NewRegistry()

	_, err := r.Call("divide", Int(1), Int(0))
	require.ErrorIs(t, err, ErrDomain)

	_, err = r.Call("divide", NewDecimal(1, 0), NewDecimal(0, 0))
	require.ErrorIs(t, err, ErrDomain)

	v, err := r.Call("divide", Float(1), Float(0))
	require.NoError(t, err)
	assert.True(t, math.IsInf(float64(v.(Float)), 1))
}

func TestRegistryCall(t *testing.T) {
	r := NewRegistry(WithRaw("f"))

	_, err := r.Call("nope", Int(1))
	assert.True(t, errors.Is(err, ErrUnknownFunction))

	_, err = r.Call("subtract", Int(1))
	assert.True(t, errors.Is(err, ErrArity))

	_, err = r.Call("f", Int(1))
	assert.True(t, errors.Is(err, ErrRaw))
	assert.True(t, r.IsRaw("f"))
	assert.True(t, r.IsRaw("derivative"))
	assert.False(t, r.IsRaw("add"))

	v, err := r.Call("add", Int(1), Int(2), Int(3))
	require.NoError(t, err)
	assert.Equal(t, "6", v.String())

	names := r.Names()
	assert.Contains(t, names, "unaryMinus")
	assert.IsIncreasing(t, names)
}

func TestDecimalPrecision(t *testing.T) {
	r := NewRegistry(WithPrecision(10))
	assert.Equal(t, uint32(10), r.Precision())

	v, err := r.Call("divide", NewDecimal(1, 0), NewDecimal(3, 0))
	require.NoError(t, err)
	assert.Equal(t, "0.3333333333", v.String())
}

func TestParse(t *testing.T) {
	tests := []struct {
		kind, text string
		want       Value
	}{
		{"", "3/6", Fraction{Rat: big.NewRat(1, 2)}},
		{"auto", "2.5", Float(2.5)},
		{"", "1+2i", Complex(complex(1, 2))},
		{"fraction", "0.75", Fraction{Rat: big.NewRat(3, 4)}},
		{"float", "-4", Float(-4)},
	}
	for _, tc := range tests {
		got, err := Parse(tc.kind, tc.text)
		require.NoError(t, err, tc.text)
		assert.True(t, Equal(tc.want, got), "Parse(%q, %q) = %s", tc.kind, tc.text, got)
	}

	d, err := Parse("decimal", "1.50")
	require.NoError(t, err)
	assert.Equal(t, KindDecimal, KindOf(d))

	_, err = Parse("fraction", "x")
	assert.Error(t, err)
	_, err = Parse("quaternion", "1")
	assert.Error(t, err)
}

func TestEqualAndSign(t *testing.T) {
	assert.True(t, Equal(Int(2), Float(2)))
	assert.True(t, Equal(NewDecimal(20, -1), NewDecimal(2, 0)))
	assert.False(t, Equal(Complex(complex(1, 1)), Float(1)))
	assert.Equal(t, -1, Sign(NewFraction(-1, 2)))
	assert.Equal(t, 1, Sign(NewDecimal(1, -3)))
	assert.Equal(t, 0, Sign(Float(math.NaN())))
}
