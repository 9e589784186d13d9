package simplify

import (
	"log/slog"

	"github.com/wildfunctions/constfold/pkg/expr"
	"github.com/wildfunctions/constfold/pkg/numeric"
)

// Evaluator resolves named functions for the folder. *numeric.Registry
// implements it.
type Evaluator interface {
	Call(name string, args ...numeric.Value) (numeric.Value, error)
	IsRaw(name string) bool
}

// Folder replaces constant subexpressions of a tree with their values.
// A Folder is immutable after construction and safe for concurrent use as
// long as its Evaluator is.
type Folder struct {
	eval   Evaluator
	ctx    Context
	logger *slog.Logger
}

// Option configures a Folder.
type Option func(*Folder)

// WithEvaluator sets the function registry used for evaluation.
func WithEvaluator(e Evaluator) Option {
	return func(f *Folder) { f.eval = e }
}

// WithContext sets operator property overrides.
func WithContext(ctx Context) Option {
	return func(f *Folder) { f.ctx = ctx }
}

// WithLogger sets the logger used for fallback and construction reports.
func WithLogger(l *slog.Logger) Option {
	return func(f *Folder) { f.logger = l }
}

// NewFolder returns a Folder over the default numeric registry.
func NewFolder(opts ...Option) *Folder {
	f := &Folder{}
	for _, opt := range opts {
		opt(f)
	}
	if f.eval == nil {
		f.eval = numeric.NewRegistry()
	}
	if f.logger == nil {
		f.logger = slog.New(slog.DiscardHandler)
	}
	return f
}

var defaultFolder = NewFolder()

// SimplifyConstant folds root with the default registry. With
// useExactFractions set, literal values are kept as exact fractions where
// they round-trip.
func SimplifyConstant(root expr.Node, useExactFractions bool) (expr.Node, error) {
	return defaultFolder.Fold(root, useExactFractions)
}

// Fold returns a tree equivalent to root with every constant subexpression
// evaluated. Surviving subtrees are reused, so root must not be modified
// while the result is in use.
func (f *Folder) Fold(root expr.Node, useExactFractions bool) (expr.Node, error) {
	s := &foldState{Folder: f, exact: useExactFractions}
	t, err := s.fold(root)
	if err != nil {
		return nil, err
	}
	return s.asNode(t)
}

// term is the result of folding a subtree: a literal value, or a node that
// could not be reduced to one.
type term struct {
	val  numeric.Value
	node expr.Node
}

func valueTerm(v numeric.Value) term { return term{val: v} }
func nodeTerm(n expr.Node) term      { return term{node: n} }

func (t term) isNode() bool { return t.node != nil }

// foldState carries the per-call settings of one Fold.
type foldState struct {
	*Folder
	exact bool
}

func (s *foldState) fold(n expr.Node) (term, error) {
	switch n := n.(type) {
	case *expr.Symbol:
		return nodeTerm(n), nil

	case *expr.Constant:
		return valueTerm(numeric.Normalize(n.Value, s.exact)), nil

	case *expr.Paren:
		return s.fold(n.Content)

	case *expr.Call:
		if s.eval.IsRaw(n.Name) {
			return nodeTerm(n), nil
		}
		return s.foldApplied(n)

	case *expr.Operator:
		return s.foldApplied(n)

	default:
		return term{}, &Error{Kind: ErrUnsupportedNode, Node: n}
	}
}

func (s *foldState) foldApplied(a expr.Applied) (term, error) {
	fn := a.FnName()
	args := a.Arguments()
	makeNode := MakeNodeFunc(a)

	switch {
	case len(args) == 0:
		if v, err := s.evaluate(fn); err == nil {
			return valueTerm(v), nil
		}
		return nodeTerm(a), nil

	case len(args) == 1:
		child, err := s.fold(args[0])
		if err != nil {
			return term{}, err
		}
		if !child.isNode() {
			if v, err := s.evaluate(fn, child.val); err == nil {
				return valueTerm(v), nil
			}
		}
		return s.build(makeNode, child)

	case IsAssociative(a, s.ctx):
		folded, err := s.foldAll(AllChildren(a, s.ctx))
		if err != nil {
			return term{}, err
		}
		if !IsCommutative(a, s.ctx) {
			return s.foldOp(fn, folded, makeNode)
		}
		var consts, vars []term
		for _, t := range folded {
			if t.isNode() {
				vars = append(vars, t)
			} else {
				consts = append(consts, t)
			}
		}
		if len(consts) <= 1 {
			return s.foldOp(fn, folded, makeNode)
		}
		head, err := s.foldOp(fn, consts, makeNode)
		if err != nil {
			return term{}, err
		}
		return s.foldOp(fn, append([]term{head}, vars...), makeNode)

	default:
		folded, err := s.foldAll(args)
		if err != nil {
			return term{}, err
		}
		if len(folded) > 2 {
			return s.foldWhole(fn, folded, makeNode)
		}
		return s.foldOp(fn, folded, makeNode)
	}
}

func (s *foldState) foldAll(nodes []expr.Node) ([]term, error) {
	out := make([]term, len(nodes))
	for i, c := range nodes {
		t, err := s.fold(c)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// foldOp reduces terms pairwise from the left. Two values are combined by
// evaluation; otherwise both sides become nodes and are joined with
// makeNode. Once the accumulator is a node it stays one.
func (s *foldState) foldOp(fn string, terms []term, makeNode NodeFunc) (term, error) {
	acc := terms[0]
	for _, t := range terms[1:] {
		if !acc.isNode() && !t.isNode() {
			if v, err := s.evaluate(fn, acc.val, t.val); err == nil {
				acc = valueTerm(v)
				continue
			}
		}
		next, err := s.build(makeNode, acc, t)
		if err != nil {
			return term{}, err
		}
		acc = next
	}
	return acc, nil
}

// foldWhole handles functions of more than two arguments that are not
// associative: they are evaluated in one call when every argument is a
// value and rebuilt otherwise.
func (s *foldState) foldWhole(fn string, terms []term, makeNode NodeFunc) (term, error) {
	vals := make([]numeric.Value, 0, len(terms))
	for _, t := range terms {
		if t.isNode() {
			return s.build(makeNode, terms...)
		}
		vals = append(vals, t.val)
	}
	if v, err := s.evaluate(fn, vals...); err == nil {
		return valueTerm(v), nil
	}
	return s.build(makeNode, terms...)
}

// evaluate calls fn over args, retrying over their native forms when the
// first attempt fails. The result is normalized for the current mode.
func (s *foldState) evaluate(fn string, args ...numeric.Value) (numeric.Value, error) {
	v, err := s.eval.Call(fn, args...)
	if err != nil {
		s.logger.Debug("evaluation failed, retrying with native values", "fn", fn, "err", err)
		v, err = s.eval.Call(fn, numeric.NativeAll(args)...)
	}
	if err != nil {
		s.logger.Debug("evaluation deferred", "fn", fn, "err", err)
		return nil, err
	}
	return numeric.Normalize(v, s.exact), nil
}

func (s *foldState) build(makeNode NodeFunc, terms ...term) (term, error) {
	args := make([]expr.Node, len(terms))
	for i, t := range terms {
		n, err := s.asNode(t)
		if err != nil {
			return term{}, err
		}
		args[i] = n
	}
	n, err := makeNode(args)
	if err != nil {
		s.logger.Warn("node construction failed", "args", len(args), "err", err)
		return term{}, err
	}
	return nodeTerm(n), nil
}

func (s *foldState) asNode(t term) (expr.Node, error) {
	if t.isNode() {
		return t.node, nil
	}
	return ValueToNode(t.val)
}
