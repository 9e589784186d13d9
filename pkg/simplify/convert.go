package simplify

import (
	"math/big"

	"github.com/wildfunctions/constfold/pkg/expr"
	"github.com/wildfunctions/constfold/pkg/numeric"
)

// ValueToNode returns the node form of v. Negative numbers become a unary
// minus around their magnitude and non-integer fractions become a division
// of two integer literals, so every Constant in the result is non-negative.
func ValueToNode(v numeric.Value) (expr.Node, error) {
	switch x := v.(type) {
	case numeric.Fraction:
		return fractionNode(x.Rat), nil

	case numeric.Complex:
		if x.Imag() != 0 {
			return nil, &Error{Kind: ErrNonConvertible, Value: v}
		}
		return signed(numeric.Float(x.Real())), nil

	case numeric.Decimal, numeric.Float:
		return signed(x), nil

	default:
		return nil, &Error{Kind: ErrNonConvertible, Value: v}
	}
}

func signed(v numeric.Value) expr.Node {
	switch numeric.Sign(v) {
	case -1:
		return expr.Neg(expr.Const(numeric.Abs(v)))
	case 0:
		// negative zero
		return expr.Const(numeric.Abs(v))
	}
	return expr.Const(v)
}

func fractionNode(r *big.Rat) expr.Node {
	num := expr.Node(expr.Const(numeric.Fraction{Rat: new(big.Rat).SetInt(new(big.Int).Abs(r.Num()))}))
	if r.Sign() < 0 {
		num = expr.Neg(num)
	}
	if r.IsInt() {
		return num
	}
	return expr.Div(num, expr.Const(numeric.Fraction{Rat: new(big.Rat).SetInt(r.Denom())}))
}
