package numeric

import "errors"

var (
	// ErrMismatch is returned when operands mix representations that have
	// no implicit conversion (a Fraction with a Decimal, for instance).
	ErrMismatch = errors.New("numeric: representation mismatch")

	// ErrDomain is returned when an argument is outside a function's domain
	// for the representation it was given.
	ErrDomain = errors.New("numeric: argument out of domain")

	// ErrUnknownFunction is returned by Registry.Call for unregistered names.
	ErrUnknownFunction = errors.New("numeric: unknown function")

	// ErrArity is returned when a function receives the wrong number of
	// arguments.
	ErrArity = errors.New("numeric: wrong number of arguments")

	// ErrRaw is returned when a raw function is called with values. Raw
	// functions consume unevaluated expressions and cannot be folded.
	ErrRaw = errors.New("numeric: function takes raw arguments")
)
