package treeio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfunctions/constfold/pkg/expr"
	"github.com/wildfunctions/constfold/pkg/numeric"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"symbol", "x", "x"},
		{"number", "2.5", "2.5"},
		{"fraction", `{num: "1/3"}`, "1/3"},
		{"decimal", `{num: "0.10", kind: decimal}`, "0.10"},
		{"operator", "{op: add, args: [a, 1, 2, b]}", "(a + 1 + 2 + b)"},
		{"custom token", "{op: mod, token: '%', args: [7, 3]}", "(7 % 3)"},
		{"unary", "{op: unaryMinus, args: [5]}", "(-5)"},
		{"call", "{call: sin, args: [{op: multiply, args: [2, x]}]}", "sin((2 * x))"},
		{"zero-arg call", "{call: rand}", "rand()"},
		{"paren", "{paren: {op: subtract, args: [x, 1]}}", "((x - 1))"},
		{"quoted symbol", `{sym: "2"}`, "2"},
		{"array", "{array: [1, 2]}", "[1, 2]"},
		{"block", "{block: [a, b]}", "a; b"},
		{"assign", "{assign: x, value: 3}", "x = 3"},
		{"conditional", "{if: c, then: 1, else: 0}", "(c ? 1 : 0)"},
		{"range", "{range: [1, 2, 9]}", "1:2:9"},
		{"json", `{"op": "divide", "args": [1, {"sym": "y"}]}`, "(1 / y)"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n, err := ParseString(tc.src)
			require.NoError(t, err)
			assert.Equal(t, tc.want, n.String())
		})
	}
}

func TestDecodeKinds(t *testing.T) {
	n, err := ParseString(`{num: "0.10", kind: decimal}`)
	require.NoError(t, err)
	assert.Equal(t, numeric.KindDecimal, numeric.KindOf(n.(*expr.Constant).Value))

	n, err = ParseString(`{sym: "2"}`)
	require.NoError(t, err)
	assert.IsType(t, &expr.Symbol{}, n)
}

func TestDecodeStream(t *testing.T) {
	src := strings.Join([]string{
		"{op: add, args: [1, 2]}",
		"x",
		"{call: f, args: [y]}",
	}, "\n---\n")
	nodes, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, "(1 + 2)", nodes[0].String())
	assert.Equal(t, "x", nodes[1].String())
	assert.Equal(t, "f(y)", nodes[2].String())

	nodes, err = Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"sequence", "[1, 2]"},
		{"bool", "true"},
		{"no kind", "{foo: 1}"},
		{"extra key", "{sym: x, args: [1]}"},
		{"bad arity", "{op: subtract, args: [1]}"},
		{"bad number", `{num: "abc", kind: fraction}`},
		{"bad kind", `{num: "1", kind: quaternion}`},
		{"range bounds", "{range: [1]}"},
		{"missing else", "{if: c, then: 1}"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseString(tc.src)
			assert.ErrorIs(t, err, ErrFormat)
		})
	}

	_, err := ParseString("a\n---\nb")
	assert.ErrorIs(t, err, ErrFormat)
}

func TestRoundTrip(t *testing.T) {
	nodes := []expr.Node{
		expr.Add(expr.Sym("x"), expr.Num(1), expr.Num(-2.5)),
		expr.Div(expr.Neg(expr.Const(numeric.Int(1))), expr.Const(numeric.Int(3))),
		expr.Fn("g", expr.Const(numeric.NewDecimal(75, -2)), expr.Const(numeric.Complex(complex(1, 2)))),
		expr.Fn("rand"),
		expr.Group(expr.Sym("true")),
		expr.Sym("1e3"),
		&expr.Operator{Op: "%", Fn: "mod", Args: []expr.Node{expr.Num(7), expr.Num(3)}},
		&expr.Range{Start: expr.Num(1), End: expr.Num(1e300)},
		&expr.Conditional{Cond: expr.Sym("c"), Then: expr.Num(1), Else: expr.Num(0)},
		&expr.Assignment{Target: expr.Sym("y"), Value: &expr.Array{Items: []expr.Node{expr.Num(0.1)}}},
		&expr.Block{Items: []expr.Node{expr.Sym("a")}},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, nodes...))

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, decoded, len(nodes))
	for i := range nodes {
		assert.Equal(t, nodes[i].String(), decoded[i].String())
	}

	// Kinds survive, too.
	c := decoded[2].(*expr.Call)
	assert.Equal(t, numeric.KindDecimal, numeric.KindOf(c.Args[0].(*expr.Constant).Value))
	assert.Equal(t, numeric.KindComplex, numeric.KindOf(c.Args[1].(*expr.Constant).Value))
	assert.IsType(t, &expr.Symbol{}, decoded[5])
}

func TestEncodeUnsupported(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, &expr.Object{Keys: []string{"k"}, Values: []expr.Node{expr.Num(1)}})
	assert.ErrorIs(t, err, ErrFormat)
}
