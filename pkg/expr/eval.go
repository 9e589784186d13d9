package expr

import (
	"errors"
	"fmt"

	"github.com/wildfunctions/constfold/pkg/numeric"
)

var (
	// ErrUnsupported is returned when evaluation meets a node kind that has
	// no numeric meaning.
	ErrUnsupported = errors.New("expr: unsupported node")

	// ErrUnbound is returned for a symbol missing from the scope.
	ErrUnbound = errors.New("expr: unbound symbol")
)

// Calculator evaluates named functions over numeric values.
// *numeric.Registry implements it.
type Calculator interface {
	Call(name string, args ...numeric.Value) (numeric.Value, error)
}

// Scope binds symbol names to values.
type Scope map[string]numeric.Value

// Evaluate computes the value of the tree. A call that fails over the
// operands' own representations is retried over their native forms.
func Evaluate(n Node, scope Scope, calc Calculator) (numeric.Value, error) {
	switch n := n.(type) {
	case *Symbol:
		v, ok := scope[n.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnbound, n.Name)
		}
		return v, nil

	case *Constant:
		return n.Value, nil

	case *Paren:
		return Evaluate(n.Content, scope, calc)

	case *Operator:
		return evalApplied(n.Fn, n.Args, scope, calc)

	case *Call:
		return evalApplied(n.Name, n.Args, scope, calc)

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupported, n)
	}
}

func evalApplied(fn string, argNodes []Node, scope Scope, calc Calculator) (numeric.Value, error) {
	args := make([]numeric.Value, len(argNodes))
	for i, a := range argNodes {
		v, err := Evaluate(a, scope, calc)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	v, err := calc.Call(fn, args...)
	if err == nil {
		return v, nil
	}
	if errors.Is(err, numeric.ErrUnknownFunction) || errors.Is(err, numeric.ErrArity) || errors.Is(err, numeric.ErrRaw) {
		return nil, err
	}
	return calc.Call(fn, numeric.NativeAll(args)...)
}
