package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfunctions/constfold/pkg/numeric"
	"github.com/wildfunctions/constfold/pkg/treeio"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	return out.String(), err
}

func TestFoldCommand(t *testing.T) {
	out, err := execute(t, "{op: add, args: [a, 1, 2, b]}\n---\n{op: subtract, args: [0, 5]}\n", "fold")
	require.NoError(t, err)
	assert.Equal(t, "(a + 1 + 2 + b)  =>  ((3 + a) + b)\n(0 - 5)  =>  (-5)\n", out)
}

func TestFoldCommandExactYAML(t *testing.T) {
	out, err := execute(t, `{op: add, args: [{op: divide, args: [1, 3]}, {op: divide, args: [1, 6]}]}`,
		"fold", "--exact", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "op: divide")
	assert.Contains(t, out, "kind: fraction")
}

func TestFoldCommandShape(t *testing.T) {
	out, err := execute(t, "{op: add, args: [a, b, c, 1]}", "fold", "--shape", "right")
	require.NoError(t, err)
	assert.Contains(t, out, "=>  (a + (b + (c + 1)))")
}

func TestFoldCommandFailure(t *testing.T) {
	out, err := execute(t, "{array: [1, 2]}", "fold")
	assert.ErrorContains(t, err, "1 of 1 trees failed")
	assert.Contains(t, out, "error:")

	_, err = execute(t, "[1, 2]", "fold")
	assert.Error(t, err)

	_, err = execute(t, "", "fold", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")

	_, err = execute(t, "1", "fold", "--watch")
	assert.ErrorContains(t, err, "needs a file")
}

func TestEvalCommand(t *testing.T) {
	out, err := execute(t, "{op: multiply, args: [x, {op: add, args: [1, 2]}]}", "eval", "--set", "x=2")
	require.NoError(t, err)
	assert.Equal(t, "(x * (1 + 2)) = 6\n", out)

	_, err = execute(t, "{op: multiply, args: [x, y]}", "eval", "--set", "x=2")
	assert.ErrorContains(t, err, "unbound")
}

func TestFuncsCommand(t *testing.T) {
	out, err := execute(t, "", "funcs", "--opaque", "hold")
	require.NoError(t, err)
	assert.Contains(t, out, "derivative")
	assert.Contains(t, out, "hold")
	assert.Contains(t, out, "log10")
}

func TestParseBindings(t *testing.T) {
	scope, err := parseBindings([]string{"x=2", " y = 1/3"})
	require.NoError(t, err)
	assert.True(t, numeric.Equal(numeric.Float(2), scope["x"]))
	assert.True(t, numeric.Equal(numeric.NewFraction(1, 3), scope["y"]))

	for _, bad := range []string{"x", "=1", "x=abc"} {
		_, err := parseBindings([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestGenCommand(t *testing.T) {
	out, err := execute(t, "", "gen", "--pool", "conservative", "--count", "5", "--seed", "3")
	require.NoError(t, err)

	again, err := execute(t, "", "gen", "--pool", "conservative", "--count", "5", "--seed", "3")
	require.NoError(t, err)
	assert.Equal(t, out, again, "same seed, same stream")

	trees, err := treeio.Decode(strings.NewReader(out))
	require.NoError(t, err)
	assert.Len(t, trees, 5)

	folded, err := execute(t, out, "fold")
	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(folded, "=>"))

	_, err = execute(t, "", "gen", "--pool", "nope")
	assert.ErrorContains(t, err, "unknown pool")

	_, err = execute(t, "", "gen", "--count", "0")
	assert.Error(t, err)
}
