package pool

import (
	"math/rand"

	"github.com/wildfunctions/constfold/pkg/expr"
	"github.com/wildfunctions/constfold/pkg/numeric"
)

func init() {
	Register("kitchensink", func() Pool { return &KitchenSinkPool{} })
}

// KitchenSinkPool extends moderate with decimals, trig, logarithms,
// rounding, mod, extrema, grouping and opaque calls.
type KitchenSinkPool struct {
	moderate ModeratePool
}

func (p *KitchenSinkPool) Name() string { return "kitchensink" }

func (p *KitchenSinkPool) RandomLeaf(rng *rand.Rand) expr.Node {
	r := rng.Float64()
	switch {
	case r < 0.1:
		return expr.Sym("z")
	case r < 0.2:
		// one-decimal-place literals 0.1 .. 9.9
		return expr.Const(numeric.NewDecimal(int64(rng.Intn(99)+1), -1))
	default:
		return p.moderate.RandomLeaf(rng)
	}
}

var kitchenSinkUnary = []string{
	"unaryMinus",
	"sqrt",
	"factorial",
	"abs",
	"sin",
	"cos",
	"ln",
	"exp",
	"floor",
	"ceil",
	"round",
}

func (p *KitchenSinkPool) RandomUnary(rng *rand.Rand) string {
	return kitchenSinkUnary[rng.Intn(len(kitchenSinkUnary))]
}

var kitchenSinkBinary = []string{
	"add",
	"subtract",
	"multiply",
	"divide",
	"pow",
	"mod",
	"max",
	"min",
}

func (p *KitchenSinkPool) RandomBinary(rng *rand.Rand) string {
	return kitchenSinkBinary[rng.Intn(len(kitchenSinkBinary))]
}

func (p *KitchenSinkPool) RandomTree(rng *rand.Rand, maxDepth int) expr.Node {
	t := randomTree(p, rng, maxDepth)
	switch r := rng.Float64(); {
	case r < 0.1:
		return expr.Group(t)
	case r < 0.15:
		return expr.Fn("derivative", t, expr.Sym("x"))
	}
	return t
}
