package simplify

import (
	"errors"
	"fmt"

	"github.com/wildfunctions/constfold/pkg/expr"
	"github.com/wildfunctions/constfold/pkg/numeric"
)

var (
	// ErrUnsupportedNode is returned for node kinds the folder cannot handle
	// (arrays, assignments, blocks, conditionals and the like).
	ErrUnsupportedNode = errors.New("simplify: unsupported node")

	// ErrNonConvertible is returned when a folded value has no node form,
	// such as a complex number with a nonzero imaginary part.
	ErrNonConvertible = errors.New("simplify: value has no node form")

	// ErrNodeConstruction is returned when a node of the required kind
	// cannot be built from the folded arguments.
	ErrNodeConstruction = errors.New("simplify: cannot construct node")
)

// Error describes a fold failure. Kind is one of the package sentinels, so
// errors.Is(err, ErrUnsupportedNode) and friends work on it.
type Error struct {
	Kind  error
	Node  expr.Node
	Value numeric.Value
	Err   error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	switch {
	case e.Node != nil:
		msg = fmt.Sprintf("%s: %T %s", msg, e.Node, e.Node)
	case e.Value != nil:
		msg = fmt.Sprintf("%s: %s", msg, e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }
