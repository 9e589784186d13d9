// Package simplify folds constant subexpressions of an expression tree and
// provides the tree-shape utilities the folder is built on: flattening and
// unflattening of associative chains and same-kind node construction.
package simplify

import (
	"fmt"

	"github.com/wildfunctions/constfold/pkg/expr"
)

// Override is a tri-state flag that lets a Context replace an operator's
// built-in algebraic property.
type Override int8

const (
	Inherit Override = iota
	Force
	Deny
)

// Props holds per-operator overrides.
type Props struct {
	Commutative Override
	Associative Override
}

// Context maps operator function names to property overrides. A nil Context
// uses the built-in tables.
type Context map[string]Props

var commutativeFns = map[string]bool{
	"add":      true,
	"multiply": true,
	"and":      true,
	"or":       true,
}

var associativeFns = map[string]bool{
	"add":      true,
	"multiply": true,
	"and":      true,
	"or":       true,
}

func resolve(o Override, builtin bool) bool {
	switch o {
	case Force:
		return true
	case Deny:
		return false
	}
	return builtin
}

// IsCommutativeFn reports whether the named operator is commutative.
func IsCommutativeFn(name string, ctx Context) bool {
	return resolve(ctx[name].Commutative, commutativeFns[name])
}

// IsAssociativeFn reports whether the named operator is associative.
func IsAssociativeFn(name string, ctx Context) bool {
	return resolve(ctx[name].Associative, associativeFns[name])
}

// IsCommutative reports whether n may have its arguments reordered. Nodes
// with at most one argument are trivially commutative.
func IsCommutative(n expr.Node, ctx Context) bool {
	a, ok := n.(expr.Applied)
	if !ok || len(a.Arguments()) <= 1 {
		return true
	}
	return IsCommutativeFn(a.FnName(), ctx)
}

// IsAssociative reports whether n may be regrouped. Nodes with at most one
// argument are trivially associative.
func IsAssociative(n expr.Node, ctx Context) bool {
	a, ok := n.(expr.Applied)
	if !ok || len(a.Arguments()) <= 1 {
		return true
	}
	return IsAssociativeFn(a.FnName(), ctx)
}

// AllChildren returns the arguments n would have after flattening, without
// modifying the tree. Same-operator children are expanded recursively in
// order, looking through grouping parentheses.
func AllChildren(n expr.Node, ctx Context) []expr.Node {
	a, ok := n.(expr.Applied)
	if !ok {
		return expr.Children(n)
	}
	args := a.Arguments()
	if len(args) < 2 || !IsAssociative(n, ctx) {
		return args
	}

	fn := a.FnName()
	var out []expr.Node
	var collect func([]expr.Node)
	collect = func(args []expr.Node) {
		for _, c := range args {
			if inner, ok := sameChain(c, fn); ok {
				collect(inner.Arguments())
				continue
			}
			out = append(out, c)
		}
	}
	collect(args)
	return out
}

// sameChain unwraps parentheses around c and reports whether the result is
// an application of fn with at least two arguments.
func sameChain(c expr.Node, fn string) (expr.Applied, bool) {
	for {
		p, ok := c.(*expr.Paren)
		if !ok {
			break
		}
		c = p.Content
	}
	a, ok := c.(expr.Applied)
	if !ok || a.FnName() != fn || len(a.Arguments()) < 2 {
		return nil, false
	}
	return a, true
}

// Flatten merges nested applications of associative operators into their
// parent, in place.
func Flatten(n expr.Node, ctx Context) {
	a, ok := n.(expr.Applied)
	if !ok {
		for _, c := range expr.Children(n) {
			Flatten(c, ctx)
		}
		return
	}
	if len(a.Arguments()) > 1 && IsAssociative(n, ctx) {
		a.SetArguments(AllChildren(n, ctx))
	}
	for _, c := range a.Arguments() {
		Flatten(c, ctx)
	}
}

// UnflattenRight rewrites associative nodes with more than two arguments into
// right-nested binary chains: a+b+c+d becomes a+(b+(c+d)). Children are
// processed first. On a construction error the offending node is left as it
// was.
func UnflattenRight(n expr.Node, ctx Context) error {
	return unflatten(n, ctx, true)
}

// UnflattenLeft is UnflattenRight producing left-nested chains:
// a+b+c+d becomes ((a+b)+c)+d.
func UnflattenLeft(n expr.Node, ctx Context) error {
	return unflatten(n, ctx, false)
}

func unflatten(n expr.Node, ctx Context, right bool) error {
	for _, c := range expr.Children(n) {
		if err := unflatten(c, ctx, right); err != nil {
			return err
		}
	}

	a, ok := n.(expr.Applied)
	if !ok {
		return nil
	}
	args := a.Arguments()
	if len(args) <= 2 || !IsAssociative(n, ctx) {
		return nil
	}

	makeNode := MakeNodeFunc(n)
	last := len(args) - 1
	if right {
		cur := args[last]
		for i := last - 1; i >= 1; i-- {
			next, err := makeNode([]expr.Node{args[i], cur})
			if err != nil {
				return err
			}
			cur = next
		}
		a.SetArguments([]expr.Node{args[0], cur})
		return nil
	}

	cur := args[0]
	for i := 1; i < last; i++ {
		next, err := makeNode([]expr.Node{cur, args[i]})
		if err != nil {
			return err
		}
		cur = next
	}
	a.SetArguments([]expr.Node{cur, args[last]})
	return nil
}

// NodeFunc builds a node from its arguments.
type NodeFunc func(args []expr.Node) (expr.Node, error)

// MakeNodeFunc returns a constructor for nodes of the same kind as template:
// the same operator token and function for operators, the same name for
// calls. Arity violations are returned as errors wrapping
// ErrNodeConstruction.
func MakeNodeFunc(template expr.Node) NodeFunc {
	switch t := template.(type) {
	case *expr.Operator:
		op, fn := t.Op, t.Fn
		return func(args []expr.Node) (expr.Node, error) {
			node, err := expr.NewOperator(op, fn, append([]expr.Node(nil), args...)...)
			if err != nil {
				return nil, &Error{Kind: ErrNodeConstruction, Node: template, Err: err}
			}
			return node, nil
		}
	case *expr.Call:
		name := t.Name
		return func(args []expr.Node) (expr.Node, error) {
			return &expr.Call{Name: name, Args: append([]expr.Node(nil), args...)}, nil
		}
	default:
		return func([]expr.Node) (expr.Node, error) {
			return nil, &Error{Kind: ErrNodeConstruction, Node: template, Err: fmt.Errorf("no constructor for %T", template)}
		}
	}
}
