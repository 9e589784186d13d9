package engine

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wildfunctions/constfold/pkg/expr"
	"github.com/wildfunctions/constfold/pkg/numeric"
	"github.com/wildfunctions/constfold/pkg/simplify"
)

// Engine folds expression trees according to a Config.
type Engine struct {
	cfg    Config
	reg    *numeric.Registry
	folder *simplify.Folder
	ctx    simplify.Context
	logger *slog.Logger
}

// New creates a new engine from the given config. A nil logger discards
// output.
func New(cfg Config, logger *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	reg := numeric.NewRegistry(numeric.WithPrecision(cfg.Precision), numeric.WithRaw(cfg.Opaque...))

	var sctx simplify.Context
	if len(cfg.NonCommutative) > 0 {
		sctx = make(simplify.Context, len(cfg.NonCommutative))
		for _, name := range cfg.NonCommutative {
			sctx[name] = simplify.Props{Commutative: simplify.Deny}
		}
	}

	return &Engine{
		cfg: cfg,
		reg: reg,
		folder: simplify.NewFolder(
			simplify.WithEvaluator(reg),
			simplify.WithContext(sctx),
			simplify.WithLogger(logger),
		),
		ctx:    sctx,
		logger: logger,
	}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// Registry returns the function registry used for evaluation.
func (e *Engine) Registry() *numeric.Registry { return e.reg }

// Run folds a single tree. A fold failure is returned as an error and also
// recorded in the report.
func (e *Engine) Run(n expr.Node) (Report, error) {
	r := Report{
		Input:       n.String(),
		NodesBefore: n.NodeCount(),
		DepthBefore: n.Depth(),
		Exact:       e.cfg.Exact,
	}

	start := time.Now()
	out, err := e.folder.Fold(n, e.cfg.Exact)
	if err == nil && e.cfg.Shape != ShapeAsIs {
		out, err = e.reshape(out)
	}
	r.Elapsed = time.Since(start)
	if err != nil {
		r.Error = err.Error()
		return r, err
	}

	r.Tree = out
	r.Output = out.String()
	r.NodesAfter = out.NodeCount()
	r.DepthAfter = out.Depth()
	return r, nil
}

// reshape rewrites associative chains of a copy of n. Folded trees share
// subtrees with their input, so n itself is never modified.
func (e *Engine) reshape(n expr.Node) (expr.Node, error) {
	n = n.Clone()
	simplify.Flatten(n, e.ctx)
	var err error
	switch e.cfg.Shape {
	case ShapeLeft:
		err = simplify.UnflattenLeft(n, e.ctx)
	case ShapeRight:
		err = simplify.UnflattenRight(n, e.ctx)
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// RunAll folds trees in parallel on up to Workers goroutines and returns
// one report per tree, in input order. Individual fold failures are
// recorded in their reports; the returned error is non-nil only when ctx
// is cancelled.
func (e *Engine) RunAll(ctx context.Context, nodes []expr.Node) ([]Report, error) {
	reports := make([]Report, len(nodes))

	workers := e.cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, n := range nodes {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := e.Run(n)
			r.Index = i
			if err != nil {
				e.logger.Error("fold failed", "index", i, "input", r.Input, "err", err)
			} else {
				e.logger.Info("folded", "index", i, "nodes_before", r.NodesBefore, "nodes_after", r.NodesAfter, "elapsed", r.Elapsed)
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return reports, err
	}
	return reports, ctx.Err()
}

// Evaluate folds n and evaluates the result with the given bindings.
func (e *Engine) Evaluate(n expr.Node, scope expr.Scope) (numeric.Value, error) {
	folded, err := e.folder.Fold(n, e.cfg.Exact)
	if err != nil {
		return nil, err
	}
	return expr.Evaluate(folded, scope, e.reg)
}
