package pool

import (
	"math/rand"

	"github.com/wildfunctions/constfold/pkg/expr"
)

func init() {
	Register("conservative", func() Pool { return &ConservativePool{} })
}

// ConservativePool provides basic building blocks: x, y, integers 1-10,
// negation and the four arithmetic operators.
type ConservativePool struct{}

func (p *ConservativePool) Name() string { return "conservative" }

func (p *ConservativePool) RandomLeaf(rng *rand.Rand) expr.Node {
	if rng.Float64() < 0.4 {
		return expr.Sym(conservativeSymbols[rng.Intn(len(conservativeSymbols))])
	}
	return expr.Num(float64(rng.Intn(10) + 1))
}

var conservativeSymbols = []string{"x", "y"}

var conservativeUnary = []string{
	"unaryMinus",
}

func (p *ConservativePool) RandomUnary(rng *rand.Rand) string {
	return conservativeUnary[rng.Intn(len(conservativeUnary))]
}

var conservativeBinary = []string{
	"add",
	"subtract",
	"multiply",
	"divide",
}

func (p *ConservativePool) RandomBinary(rng *rand.Rand) string {
	return conservativeBinary[rng.Intn(len(conservativeBinary))]
}

func (p *ConservativePool) RandomTree(rng *rand.Rand, maxDepth int) expr.Node {
	return randomTree(p, rng, maxDepth)
}
