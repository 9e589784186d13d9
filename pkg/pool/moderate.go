package pool

import (
	"math/rand"

	"github.com/wildfunctions/constfold/pkg/expr"
	"github.com/wildfunctions/constfold/pkg/numeric"
)

func init() {
	Register("moderate", func() Pool { return &ModeratePool{} })
}

// ModeratePool extends conservative with powers of 2 and 3, exact fractions
// as leaves, sqrt and factorial as unary and power as binary.
type ModeratePool struct{}

func (p *ModeratePool) Name() string { return "moderate" }

func (p *ModeratePool) RandomLeaf(rng *rand.Rand) expr.Node {
	r := rng.Float64()
	switch {
	case r < 0.35:
		return expr.Sym(conservativeSymbols[rng.Intn(len(conservativeSymbols))])
	case r < 0.65:
		return expr.Num(float64(rng.Intn(10) + 1))
	case r < 0.75:
		// powers of 2: 2, 4, 8, 16
		return expr.Num(float64(int64(1) << uint(rng.Intn(4)+1)))
	case r < 0.85:
		vals := []float64{3, 9, 27}
		return expr.Num(vals[rng.Intn(len(vals))])
	default:
		return expr.Const(numeric.NewFraction(int64(rng.Intn(9)+1), int64(rng.Intn(8)+2)))
	}
}

var moderateUnary = []string{
	"unaryMinus",
	"sqrt",
	"factorial",
	"abs",
}

func (p *ModeratePool) RandomUnary(rng *rand.Rand) string {
	return moderateUnary[rng.Intn(len(moderateUnary))]
}

var moderateBinary = []string{
	"add",
	"subtract",
	"multiply",
	"divide",
	"pow",
}

func (p *ModeratePool) RandomBinary(rng *rand.Rand) string {
	return moderateBinary[rng.Intn(len(moderateBinary))]
}

func (p *ModeratePool) RandomTree(rng *rand.Rand, maxDepth int) expr.Node {
	return randomTree(p, rng, maxDepth)
}
