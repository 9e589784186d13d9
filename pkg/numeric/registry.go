package numeric

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"github.com/cockroachdb/apd/v3"
)

// DefaultPrecision is the number of significant digits for decimal
// arithmetic.
const DefaultPrecision = 64

// EvalFunc evaluates a function over already-evaluated arguments.
type EvalFunc func(args ...Value) (Value, error)

// Func describes a registered function.
type Func struct {
	Name string
	Doc  string
	// MinArgs and MaxArgs bound the argument count; MaxArgs < 0 means
	// unbounded.
	MinArgs, MaxArgs int
	// Raw functions take unevaluated expressions. The folder leaves their
	// arguments untouched and Call refuses them.
	Raw  bool
	Eval EvalFunc
}

// Accepts reports whether n arguments are within the function's arity.
func (f Func) Accepts(n int) bool {
	if n < f.MinArgs {
		return false
	}
	return f.MaxArgs < 0 || n <= f.MaxArgs
}

// Registry maps canonical function names to evaluators.
type Registry struct {
	ctx   *apd.Context
	funcs map[string]Func
}

// Option configures a Registry.
type Option func(*Registry)

// WithPrecision sets the decimal precision in significant digits.
func WithPrecision(digits uint32) Option {
	return func(r *Registry) {
		if digits > 0 {
			r.ctx = apd.BaseContext.WithPrecision(digits)
		}
	}
}

// WithRaw registers extra raw function names.
func WithRaw(names ...string) Option {
	return func(r *Registry) {
		for _, n := range names {
			r.Register(Func{Name: n, Doc: "raw", MinArgs: 0, MaxArgs: -1, Raw: true})
		}
	}
}

// NewRegistry returns a registry holding the default functions.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		ctx:   apd.BaseContext.WithPrecision(DefaultPrecision),
		funcs: map[string]Func{},
	}
	r.registerDefaults()
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds or replaces a function.
func (r *Registry) Register(f Func) {
	r.funcs[f.Name] = f
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (Func, bool) {
	f, ok := r.funcs[name]
	return f, ok
}

// IsRaw reports whether name is registered as a raw function.
func (r *Registry) IsRaw(name string) bool {
	f, ok := r.funcs[name]
	return ok && f.Raw
}

// Names returns all registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for k := range r.funcs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Precision returns the decimal precision in significant digits.
func (r *Registry) Precision() uint32 { return r.ctx.Precision }

// Call evaluates name over args.
func (r *Registry) Call(name string, args ...Value) (Value, error) {
	f, ok := r.funcs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	if f.Raw || f.Eval == nil {
		return nil, fmt.Errorf("%w: %s", ErrRaw, name)
	}
	if !f.Accepts(len(args)) {
		return nil, fmt.Errorf("%w: %s got %d", ErrArity, name, len(args))
	}
	return f.Eval(args...)
}

func (r *Registry) unary(name, doc string, k unaryKernels) {
	r.Register(Func{Name: name, Doc: doc, MinArgs: 1, MaxArgs: 1,
		Eval: func(args ...Value) (Value, error) {
			return k.apply(r.ctx, args[0])
		},
	})
}

func (r *Registry) binary(name, doc string, k binaryKernels) {
	r.Register(Func{Name: name, Doc: doc, MinArgs: 2, MaxArgs: 2,
		Eval: func(args ...Value) (Value, error) {
			return k.apply(r.ctx, args[0], args[1])
		},
	})
}

// chain registers an associative operation reducing left to right.
func (r *Registry) chain(name, doc string, k binaryKernels) {
	r.Register(Func{Name: name, Doc: doc, MinArgs: 2, MaxArgs: -1,
		Eval: func(args ...Value) (Value, error) {
			acc := args[0]
			for _, a := range args[1:] {
				v, err := k.apply(r.ctx, acc, a)
				if err != nil {
					return nil, err
				}
				acc = v
			}
			return acc, nil
		},
	})
}

func (r *Registry) logical(name, doc string, lo, hi int, fn func([]bool) bool) {
	r.Register(Func{Name: name, Doc: doc, MinArgs: lo, MaxArgs: hi,
		Eval: func(args ...Value) (Value, error) {
			bs := make([]bool, len(args))
			for i, a := range args {
				b, err := truthy(a)
				if err != nil {
					return nil, err
				}
				bs[i] = b
			}
			return boolValue(fn(bs)), nil
		},
	})
}

func (r *Registry) extremum(name, doc string, want int) {
	r.Register(Func{Name: name, Doc: doc, MinArgs: 1, MaxArgs: -1,
		Eval: func(args ...Value) (Value, error) {
			best := args[0]
			for _, a := range args[1:] {
				c, err := compare(a, best)
				if err != nil {
					return nil, err
				}
				if c == want {
					best = a
				}
			}
			if _, ok := best.(Complex); ok {
				return nil, ErrDomain
			}
			return best, nil
		},
	})
}

func (r *Registry) registerDefaults() {
	r.chain("add", "x + y", addKernels)
	r.chain("multiply", "x * y", multiplyKernels)
	r.binary("subtract", "x - y", subtractKernels)
	r.binary("divide", "x / y", divideKernels)
	r.binary("pow", "x ^ y", powKernels)
	r.binary("mod", "floored modulo", modKernels)

	r.unary("unaryMinus", "-x", negKernels)
	r.Register(Func{Name: "unaryPlus", Doc: "+x", MinArgs: 1, MaxArgs: 1,
		Eval: func(args ...Value) (Value, error) { return args[0], nil },
	})
	r.unary("abs", "absolute value", absKernels)
	r.unary("sqrt", "square root", sqrtKernels)
	r.unary("exp", "natural exponential", expKernels)
	r.unary("ln", "natural logarithm", lnKernels)
	r.unary("log10", "base-10 logarithm", log10Kernels)
	r.Register(Func{Name: "log", Doc: "log(x) base 10, log(x, b) base b", MinArgs: 1, MaxArgs: 2,
		Eval: func(args ...Value) (Value, error) {
			if len(args) == 1 {
				return log10Kernels.apply(r.ctx, args[0])
			}
			x, err := lnKernels.apply(r.ctx, args[0])
			if err != nil {
				return nil, err
			}
			b, err := lnKernels.apply(r.ctx, args[1])
			if err != nil {
				return nil, err
			}
			return divideKernels.apply(r.ctx, x, b)
		},
	})
	r.unary("sin", "sine", trigKernels(math.Sin, cmplx.Sin))
	r.unary("cos", "cosine", trigKernels(math.Cos, cmplx.Cos))
	r.unary("tan", "tangent", trigKernels(math.Tan, cmplx.Tan))
	r.unary("floor", "round toward -Inf", floorKernels)
	r.unary("ceil", "round toward +Inf", ceilKernels)
	r.unary("round", "round half away from zero", roundKernels)
	r.unary("factorial", "x!", factorialKernels)

	r.logical("and", "logical and", 2, -1, func(bs []bool) bool {
		for _, b := range bs {
			if !b {
				return false
			}
		}
		return true
	})
	r.logical("or", "logical or", 2, -1, func(bs []bool) bool {
		for _, b := range bs {
			if b {
				return true
			}
		}
		return false
	})
	r.logical("xor", "logical xor", 2, 2, func(bs []bool) bool { return bs[0] != bs[1] })
	r.logical("not", "logical not", 1, 1, func(bs []bool) bool { return !bs[0] })

	r.extremum("max", "largest argument", 1)
	r.extremum("min", "smallest argument", -1)

	for _, name := range []string{"derivative", "simplify", "rationalize"} {
		r.Register(Func{Name: name, Doc: "raw", MinArgs: 1, MaxArgs: -1, Raw: true})
	}
}
