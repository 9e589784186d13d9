package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wildfunctions/constfold/pkg/config"
	"github.com/wildfunctions/constfold/pkg/engine"
	"github.com/wildfunctions/constfold/pkg/expr"
	"github.com/wildfunctions/constfold/pkg/numeric"
	"github.com/wildfunctions/constfold/pkg/pool"
	"github.com/wildfunctions/constfold/pkg/treeio"
)

// app is the state shared by subcommands once flags and config are loaded.
type app struct {
	cfgFile string
	cfg     engine.Config
	engine  *engine.Engine
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	def := engine.DefaultConfig()

	root := &cobra.Command{
		Use:   "constfold",
		Short: "Fold constant subexpressions of expression trees",
		Long: `constfold reads expression trees serialized as YAML or JSON documents and
replaces every subexpression whose operands are all literal numbers with its
value. Trees are read from a file or standard input, one per document.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			return a.load(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: ./constfold.yaml)")
	pf.Bool("exact", def.Exact, "keep exactly representable numbers as fractions")
	pf.StringP("format", "o", def.Format, "output format ("+strings.Join(engine.Formats, ", ")+")")
	pf.Int("workers", def.Workers, "number of parallel workers")
	pf.String("log-level", def.LogLevel, "log level (debug, info, warn, error)")
	pf.Uint32("precision", def.Precision, "decimal precision in significant digits")
	pf.StringSlice("opaque", nil, "functions whose arguments are never folded")
	pf.StringSlice("non-commutative", nil, "operators whose operands must keep their order")
	pf.String("shape", def.Shape, "reshape associative chains (flat, left, right)")

	_ = root.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return engine.Formats, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(a.newFoldCmd(), a.newEvalCmd(), a.newFuncsCmd(), a.newGenCmd())
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, used, err := config.Load(a.cfgFile, cmd.Root().PersistentFlags())
	if err != nil {
		return err
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	if used != "" {
		a.logger.Debug("using config file", "path", used)
	}

	a.cfg = cfg
	a.engine, err = engine.New(cfg, a.logger)
	return err
}

// readTrees decodes the tree stream from the named file, or from in when no
// file is given or the name is "-".
func readTrees(args []string, in io.Reader) ([]expr.Node, error) {
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}
	return treeio.Decode(in)
}

func (a *app) newFoldCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "fold [file]",
		Short: "Fold every tree of a YAML/JSON stream",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !watch {
				return a.fold(cmd, args)
			}
			if len(args) == 0 || args[0] == "-" {
				return fmt.Errorf("--watch needs a file argument")
			}
			return engine.Watch(cmd.Context(), args[0], a.logger, func() error {
				return a.fold(cmd, args)
			})
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "fold the file again whenever it changes")
	return cmd
}

func (a *app) fold(cmd *cobra.Command, args []string) error {
	nodes, err := readTrees(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	reports, err := a.engine.RunAll(cmd.Context(), nodes)
	if err != nil {
		return err
	}
	if err := engine.Write(cmd.OutOrStdout(), a.cfg.Format, reports); err != nil {
		return err
	}

	failed := 0
	for _, r := range reports {
		if r.Failed() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d trees failed to fold", failed, len(reports))
	}
	return nil
}

func (a *app) newEvalCmd() *cobra.Command {
	var bindings []string
	cmd := &cobra.Command{
		Use:   "eval [file]",
		Short: "Fold and evaluate trees with symbol bindings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := parseBindings(bindings)
			if err != nil {
				return err
			}
			nodes, err := readTrees(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			for _, n := range nodes {
				v, err := a.engine.Evaluate(n, scope)
				if err != nil {
					return fmt.Errorf("evaluating %s: %w", n, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", n, v)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&bindings, "set", nil, "bind a symbol, e.g. --set x=2 or --set y=1/3")
	return cmd
}

// parseBindings reads name=value pairs. Values use the automatic literal
// syntax of numeric.Parse.
func parseBindings(pairs []string) (expr.Scope, error) {
	scope := expr.Scope{}
	for _, p := range pairs {
		name, text, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid binding %q, want name=value", p)
		}
		v, err := numeric.Parse("auto", text)
		if err != nil {
			return nil, fmt.Errorf("binding %s: %w", name, err)
		}
		scope[name] = v
	}
	return scope, nil
}

func (a *app) newFuncsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "funcs",
		Short: "List the functions available for folding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine.WriteFunctions(cmd.OutOrStdout(), a.engine.Registry())
			return nil
		},
	}
}

func (a *app) newGenCmd() *cobra.Command {
	var (
		poolName string
		count    int
		depth    int
		seed     int64
	)
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate random expression trees as a YAML stream",
		Long: `gen writes random trees drawn from a named pool of building blocks. The
output is accepted by fold and eval, e.g.

  constfold gen --pool kitchensink --count 20 | constfold fold --exact`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := pool.Get(poolName)
			if err != nil {
				return err
			}
			if count < 1 || depth < 1 {
				return fmt.Errorf("count and depth must be positive, got %d and %d", count, depth)
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			a.logger.Info("generating trees", "pool", p.Name(), "count", count, "depth", depth, "seed", seed)

			rng := rand.New(rand.NewSource(seed))
			return treeio.Encode(cmd.OutOrStdout(), pool.Forest(p, rng, count, depth)...)
		},
	}
	f := cmd.Flags()
	f.StringVar(&poolName, "pool", "moderate", "building block pool ("+strings.Join(pool.Names(), ", ")+")")
	f.IntVar(&count, "count", 10, "number of trees")
	f.IntVar(&depth, "depth", 4, "maximum tree depth")
	f.Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	_ = cmd.RegisterFlagCompletionFunc("pool", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return pool.Names(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}
