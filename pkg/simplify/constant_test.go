package simplify

import (
	"bytes"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfunctions/constfold/pkg/expr"
	"github.com/wildfunctions/constfold/pkg/numeric"
)

func fold(t *testing.T, n expr.Node, exact bool) expr.Node {
	t.Helper()
	out, err := SimplifyConstant(n, exact)
	require.NoError(t, err, "SimplifyConstant(%s)", n)
	return out
}

func TestSimplifyConstant(t *testing.T) {
	x, a, b := expr.Sym("x"), expr.Sym("a"), expr.Sym("b")
	num := expr.Num

	tests := []struct {
		name  string
		node  expr.Node
		exact bool
		want  string
	}{
		{"symbol", x, false, "x"},
		{"literal", num(4), false, "4"},
		{"sum", expr.Add(num(1), num(2)), false, "3"},
		{"collect literals", expr.Add(a, num(1), num(2), b), false, "((3 + a) + b)"},
		{"collect nested literals", expr.Add(expr.Add(expr.Add(a, num(1)), num(2)), b), false, "((3 + a) + b)"},
		{"single literal keeps order", expr.Add(x, num(1)), false, "(x + 1)"},
		{"exact fractions", expr.Add(expr.Div(num(1), num(3)), expr.Div(num(1), num(6))), true, "(1 / 2)"},
		{"float fractions", expr.Add(expr.Div(num(1), num(4)), expr.Div(num(1), num(4))), false, "0.5"},
		{"negative result", expr.Sub(num(0), num(5)), false, "(-5)"},
		{"negative fraction", expr.Div(num(-1), num(3)), true, "((-1) / 3)"},
		{"unary over symbol", expr.Neg(x), false, "(-x)"},
		{"unary over literal", expr.Neg(expr.Neg(num(2))), false, "2"},
		{"function of literal", expr.Fn("sqrt", num(16)), false, "4"},
		{"function of symbol", expr.Fn("sin", expr.Add(num(1), num(1), x)), false, "sin((2 + x))"},
		{"paren unwrapped", expr.Group(expr.Mul(num(2), num(3))), false, "6"},
		{"binary with symbol", expr.Sub(expr.Mul(num(2), num(3)), x), false, "(6 - x)"},
		{"pow", expr.Pow(num(2), num(10)), true, "1024"},
		{"unknown function", expr.Fn("f", num(1), expr.Add(num(1), num(1))), false, "f(1, 2)"},
		{"variadic evaluated", expr.Fn("max", num(1), num(7), num(3)), false, "7"},
		{"variadic with symbol", expr.Fn("max", num(1), x, expr.Add(num(1), num(1))), false, "max(1, x, 2)"},
		{"zero-arg unknown", expr.Fn("rand"), false, "rand()"},
		{"opaque call", expr.Fn("derivative", expr.Add(x, num(0)), x), false, "derivative((x + 0), x)"},
		{"mixed decimal", expr.Add(expr.Const(numeric.NewDecimal(25, -2)), expr.Const(numeric.NewFraction(1, 2))), false, "0.75"},
		{"fraction and decimal fall back", expr.Add(expr.Const(numeric.NewDecimal(1, -20)), expr.Const(numeric.NewFraction(1, 2))), true, "(1 / 2)"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := fold(t, tc.node, tc.exact)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestSimplifyConstantOpaqueIdentity(t *testing.T) {
	reg := numeric.NewRegistry(numeric.WithRaw("f"))
	f := NewFolder(WithEvaluator(reg))

	call := expr.Fn("f", expr.Add(expr.Sym("x"), expr.Num(0)))
	out, err := f.Fold(call, false)
	require.NoError(t, err)
	assert.Same(t, call, out)
	assert.Equal(t, "f((x + 0))", out.String())
}

func TestSimplifyConstantErrors(t *testing.T) {
	arr := &expr.Array{Items: []expr.Node{expr.Num(1), expr.Num(2)}}

	_, err := SimplifyConstant(arr, false)
	assert.ErrorIs(t, err, ErrUnsupportedNode)

	_, err = SimplifyConstant(expr.Add(expr.Sym("x"), arr), false)
	assert.ErrorIs(t, err, ErrUnsupportedNode)

	var ferr *Error
	_, err = SimplifyConstant(&expr.Conditional{Cond: expr.Sym("c"), Then: expr.Num(1), Else: expr.Num(0)}, false)
	require.ErrorAs(t, err, &ferr)
	assert.IsType(t, &expr.Conditional{}, ferr.Node)

	// ln(-1) is i*pi, which has no node form.
	_, err = SimplifyConstant(expr.Fn("ln", expr.Num(-1)), false)
	assert.ErrorIs(t, err, ErrNonConvertible)
	assert.NotErrorIs(t, err, numeric.ErrDomain)
}

func TestSimplifyConstantNonCommutative(t *testing.T) {
	x := expr.Sym("x")
	n := expr.Add(x, expr.Num(1), expr.Num(2))

	assert.Equal(t, "(3 + x)", fold(t, n, false).String())

	f := NewFolder(WithContext(Context{"add": {Commutative: Deny}}))
	out, err := f.Fold(n, false)
	require.NoError(t, err)
	assert.Equal(t, "((x + 1) + 2)", out.String())

	// Literals adjacent in source order still combine.
	out, err = f.Fold(expr.Add(expr.Num(1), expr.Num(2), x), false)
	require.NoError(t, err)
	assert.Equal(t, "(3 + x)", out.String())
}

func TestSimplifyConstantIdempotent(t *testing.T) {
	x, y := expr.Sym("x"), expr.Sym("y")
	num := expr.Num

	nodes := []expr.Node{
		expr.Add(x, num(1), num(2), y),
		expr.Div(num(1), num(3)),
		expr.Sub(num(0), num(5)),
		expr.Mul(expr.Fn("cos", num(0)), expr.Pow(x, expr.Add(num(1), num(1)))),
		expr.Fn("f", expr.Neg(num(2.5)), y),
		expr.Add(expr.Div(num(-7), num(4)), x),
	}
	for _, exact := range []bool{false, true} {
		for _, n := range nodes {
			once := fold(t, n, exact)
			twice := fold(t, once, exact)
			assert.Equal(t, once.String(), twice.String(), "exact=%v input=%s", exact, n)
		}
	}
}

func TestSimplifyConstantPreservesValue(t *testing.T) {
	x, y := expr.Sym("x"), expr.Sym("y")
	num := expr.Num
	reg := numeric.NewRegistry()
	scope := expr.Scope{"x": numeric.Float(1.5), "y": numeric.Float(-2)}

	nodes := []expr.Node{
		expr.Add(x, num(1), num(2), y),
		expr.Mul(num(2), x, num(3), expr.Sub(y, expr.Div(num(1), num(8)))),
		expr.Pow(expr.Add(x, expr.Neg(num(0.5))), expr.Sub(num(4), num(2))),
		expr.Div(expr.Fn("exp", num(1)), expr.Add(y, expr.Fn("sqrt", num(2)))),
		expr.Sub(expr.Sub(num(10), x), expr.Fn("mod", num(7), num(3))),
	}
	for _, exact := range []bool{false, true} {
		for _, n := range nodes {
			want, err := expr.Evaluate(n, scope, reg)
			require.NoError(t, err)
			out := fold(t, n, exact)
			got, err := expr.Evaluate(out, scope, reg)
			require.NoError(t, err, "Evaluate(%s)", out)

			wf, err := numeric.ToFloat64(want)
			require.NoError(t, err)
			gf, err := numeric.ToFloat64(got)
			require.NoError(t, err)
			if math.Abs(wf-gf) > 1e-12*math.Max(1, math.Abs(wf)) {
				t.Errorf("fold(%s) = %s evaluates to %v, want %v (exact=%v)", n, out, gf, wf, exact)
			}
		}
	}
}

func TestFolderLogsFallbacks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	f := NewFolder(WithLogger(logger))

	out, err := f.Fold(expr.Fn("f", expr.Num(1)), false)
	require.NoError(t, err)
	assert.Equal(t, "f(1)", out.String())
	assert.Contains(t, buf.String(), "evaluation deferred")
	assert.Contains(t, buf.String(), "fn=f")
}

func TestValueToNode(t *testing.T) {
	tests := []struct {
		v    numeric.Value
		want string
	}{
		{numeric.Int(3), "3"},
		{numeric.Int(-3), "(-3)"},
		{numeric.NewFraction(2, 6), "(1 / 3)"},
		{numeric.NewFraction(-5, 2), "((-5) / 2)"},
		{numeric.Float(-0.25), "(-0.25)"},
		{numeric.NewDecimal(-15, -1), "(-1.5)"},
		{numeric.Complex(complex(4, 0)), "4"},
	}
	for _, tc := range tests {
		n, err := ValueToNode(tc.v)
		require.NoError(t, err)
		assert.Equal(t, tc.want, n.String())
	}

	_, err := ValueToNode(numeric.Complex(complex(1, 2)))
	assert.ErrorIs(t, err, ErrNonConvertible)
}

func TestValueToNodeNegativeZero(t *testing.T) {
	negZero := math.Copysign(0, -1)
	for _, v := range []numeric.Value{
		numeric.Float(negZero),
		numeric.Complex(complex(negZero, 0)),
	} {
		n, err := ValueToNode(v)
		require.NoError(t, err)
		c, ok := n.(*expr.Constant)
		require.True(t, ok, "ValueToNode(%v) = %s", v, n)
		assert.Equal(t, "0", c.String())
		assert.False(t, math.Signbit(float64(c.Value.(numeric.Float))))
	}

	out := fold(t, expr.Neg(expr.Num(0)), false)
	assert.Equal(t, "0", out.String())
	out = fold(t, expr.Mul(expr.Num(-1), expr.Num(0)), false)
	assert.Equal(t, "0", out.String())
}

func TestSimplifyConstantNestedPow(t *testing.T) {
	ten, k := expr.Num(10), expr.Num(1000)
	tree := expr.Pow(expr.Pow(expr.Pow(ten, k), k), k)

	for _, exact := range []bool{true, false} {
		done := make(chan expr.Node, 1)
		go func() {
			out, err := SimplifyConstant(tree, exact)
			if err != nil {
				t.Errorf("SimplifyConstant(%s, %v): %v", tree, exact, err)
			}
			done <- out
		}()

		select {
		case out := <-done:
			c, ok := out.(*expr.Constant)
			require.True(t, ok, "got %s", out)
			f, err := numeric.ToFloat64(c.Value)
			require.NoError(t, err)
			assert.True(t, math.IsInf(f, 1), "got %s", out)
		case <-time.After(10 * time.Second):
			t.Fatalf("folding %s did not finish (exact=%v)", tree, exact)
		}
	}
}
