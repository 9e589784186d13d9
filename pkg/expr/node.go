// Package expr defines the expression tree consumed by the constant folder.
package expr

import (
	"errors"
	"fmt"

	"github.com/wildfunctions/constfold/pkg/numeric"
)

// Node is the interface for all expression tree nodes. The set of
// implementations is closed; code switching over node kinds handles every
// type declared in this file.
type Node interface {
	String() string
	Clone() Node
	NodeCount() int
	Depth() int
	exprNode()
}

// Applied is implemented by nodes that apply a named function to an ordered
// argument list: *Operator and *Call.
type Applied interface {
	Node
	FnName() string
	Arguments() []Node
	SetArguments(args []Node)
}

// ErrOperatorArity is returned when an operator is built with a number of
// arguments its function does not take.
var ErrOperatorArity = errors.New("expr: wrong number of operator arguments")

// Symbol is a named free variable.
type Symbol struct {
	Name string
}

// Constant holds a literal value.
type Constant struct {
	Value numeric.Value
}

// Operator applies an operator to its arguments. Op is the token ("+") and
// Fn the canonical function name ("add").
type Operator struct {
	Op   string
	Fn   string
	Args []Node
}

// Call applies a named function.
type Call struct {
	Name string
	Args []Node
}

// Paren is an explicit grouping.
type Paren struct {
	Content Node
}

// Array is an array literal.
type Array struct {
	Items []Node
}

// Index holds the dimensions of an index expression.
type Index struct {
	Dims []Node
}

// Accessor indexes into an object: Object[Index].
type Accessor struct {
	Object Node
	Index  *Index
}

// Assignment binds Value to Target.
type Assignment struct {
	Target Node
	Value  Node
}

// Block is a sequence of expressions.
type Block struct {
	Items []Node
}

// FunctionAssignment defines a function.
type FunctionAssignment struct {
	Name   string
	Params []string
	Body   Node
}

// Object is an object literal with ordered keys.
type Object struct {
	Keys   []string
	Values []Node
}

// Range is start:end or start:step:end. Step may be nil.
type Range struct {
	Start, Step, End Node
}

// Conditional is cond ? then : else.
type Conditional struct {
	Cond, Then, Else Node
}

func (*Symbol) exprNode()             {}
func (*Constant) exprNode()           {}
func (*Operator) exprNode()           {}
func (*Call) exprNode()               {}
func (*Paren) exprNode()              {}
func (*Array) exprNode()              {}
func (*Index) exprNode()              {}
func (*Accessor) exprNode()           {}
func (*Assignment) exprNode()         {}
func (*Block) exprNode()              {}
func (*FunctionAssignment) exprNode() {}
func (*Object) exprNode()             {}
func (*Range) exprNode()              {}
func (*Conditional) exprNode()        {}

func (o *Operator) FnName() string           { return o.Fn }
func (o *Operator) Arguments() []Node        { return o.Args }
func (o *Operator) SetArguments(args []Node) { o.Args = args }

func (c *Call) FnName() string           { return c.Name }
func (c *Call) Arguments() []Node        { return c.Args }
func (c *Call) SetArguments(args []Node) { c.Args = args }

// IsOperator reports whether n is an operator node.
func IsOperator(n Node) bool {
	_, ok := n.(*Operator)
	return ok
}

// IsCall reports whether n is a function call node.
func IsCall(n Node) bool {
	_, ok := n.(*Call)
	return ok
}

// arity classes for operator functions.
const (
	arityAny = iota
	arityUnary
	arityBinary
	arityChain
)

var operatorArity = map[string]int{
	"add":        arityChain,
	"multiply":   arityChain,
	"and":        arityChain,
	"or":         arityChain,
	"subtract":   arityBinary,
	"divide":     arityBinary,
	"pow":        arityBinary,
	"mod":        arityBinary,
	"xor":        arityBinary,
	"unaryMinus": arityUnary,
	"unaryPlus":  arityUnary,
	"not":        arityUnary,
	"factorial":  arityUnary,
}

var operatorTokens = map[string]string{
	"add":        "+",
	"multiply":   "*",
	"and":        "and",
	"or":         "or",
	"subtract":   "-",
	"divide":     "/",
	"pow":        "^",
	"mod":        "mod",
	"xor":        "xor",
	"unaryMinus": "-",
	"unaryPlus":  "+",
	"not":        "not",
	"factorial":  "!",
}

// OperatorToken returns the token conventionally used for fn.
func OperatorToken(fn string) (string, bool) {
	op, ok := operatorTokens[fn]
	return op, ok
}

// NewOperator builds an operator node, checking the argument count against
// the function's arity.
func NewOperator(op, fn string, args ...Node) (*Operator, error) {
	n := len(args)
	var ok bool
	switch operatorArity[fn] {
	case arityUnary:
		ok = n == 1
	case arityBinary:
		ok = n == 2
	case arityChain:
		ok = n >= 2
	default:
		ok = n >= 1
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s (%s) with %d", ErrOperatorArity, fn, op, n)
	}
	for i, a := range args {
		if a == nil {
			return nil, fmt.Errorf("%w: %s argument %d is nil", ErrOperatorArity, fn, i)
		}
	}
	return &Operator{Op: op, Fn: fn, Args: args}, nil
}

func mustOperator(fn string, args ...Node) *Operator {
	o, err := NewOperator(operatorTokens[fn], fn, args...)
	if err != nil {
		panic(err)
	}
	return o
}

// Convenience constructors. They panic on a wrong argument count.

func Sym(name string) *Symbol            { return &Symbol{Name: name} }
func Const(v numeric.Value) *Constant    { return &Constant{Value: v} }
func Num(f float64) *Constant            { return &Constant{Value: numeric.Float(f)} }
func Add(args ...Node) *Operator         { return mustOperator("add", args...) }
func Mul(args ...Node) *Operator         { return mustOperator("multiply", args...) }
func Sub(a, b Node) *Operator            { return mustOperator("subtract", a, b) }
func Div(a, b Node) *Operator            { return mustOperator("divide", a, b) }
func Pow(a, b Node) *Operator            { return mustOperator("pow", a, b) }
func Neg(a Node) *Operator               { return mustOperator("unaryMinus", a) }
func Fn(name string, args ...Node) *Call { return &Call{Name: name, Args: args} }
func Group(content Node) *Paren          { return &Paren{Content: content} }
