// Package pool generates random expression trees from named pools of
// building blocks. The trees exercise the folder in property tests and are
// emitted by the gen command.
package pool

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/wildfunctions/constfold/pkg/expr"
)

// Pool provides random building blocks for constructing expression trees.
type Pool interface {
	Name() string
	RandomLeaf(rng *rand.Rand) expr.Node
	// RandomUnary and RandomBinary return function names.
	RandomUnary(rng *rand.Rand) string
	RandomBinary(rng *rand.Rand) string
	RandomTree(rng *rand.Rand, maxDepth int) expr.Node
}

var registry = map[string]func() Pool{}

// Register adds a pool constructor to the registry.
func Register(name string, constructor func() Pool) {
	registry[name] = constructor
}

// Get returns a pool by name.
func Get(name string) (Pool, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown pool: %s (available: %v)", name, Names())
	}
	return ctor(), nil
}

// Names returns all registered pool names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Forest returns count random trees of at most maxDepth levels.
func Forest(p Pool, rng *rand.Rand, count, maxDepth int) []expr.Node {
	trees := make([]expr.Node, count)
	for i := range trees {
		trees[i] = p.RandomTree(rng, maxDepth)
	}
	return trees
}

// apply builds an operator node when fn has an operator token and a call
// otherwise.
func apply(fn string, args ...expr.Node) expr.Node {
	if tok, ok := expr.OperatorToken(fn); ok {
		if op, err := expr.NewOperator(tok, fn, args...); err == nil {
			return op
		}
	}
	return expr.Fn(fn, args...)
}

// randomTree is a shared helper for building random trees.
func randomTree(p Pool, rng *rand.Rand, maxDepth int) expr.Node {
	if maxDepth <= 1 {
		return p.RandomLeaf(rng)
	}
	// Bias toward leaves at shallow depths to keep trees small
	r := rng.Float64()
	switch {
	case r < 0.35:
		return p.RandomLeaf(rng)
	case r < 0.55:
		return apply(p.RandomUnary(rng), randomTree(p, rng, maxDepth-1))
	case r < 0.65:
		// Three-operand chains exercise literal collection.
		fn := p.RandomBinary(rng)
		if fn != "add" && fn != "multiply" {
			fn = "add"
		}
		return apply(fn,
			randomTree(p, rng, maxDepth-1),
			randomTree(p, rng, maxDepth-1),
			randomTree(p, rng, maxDepth-1))
	default:
		return apply(p.RandomBinary(rng),
			randomTree(p, rng, maxDepth-1),
			randomTree(p, rng, maxDepth-1))
	}
}
