package numeric

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// ParseKind parses a representation name. The empty string and "auto" map
// to ok with auto set.
func ParseKind(s string) (k Kind, auto bool, err error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return KindFloat, true, nil
	case "fraction":
		return KindFraction, false, nil
	case "decimal", "bignumber":
		return KindDecimal, false, nil
	case "float", "number":
		return KindFloat, false, nil
	case "complex":
		return KindComplex, false, nil
	}
	return 0, false, fmt.Errorf("unknown numeric kind %q", s)
}

// Parse reads text as a value of the named kind. With kind "auto" (or empty)
// text containing '/' is a fraction, text ending in 'i' is complex and
// anything else is a float.
func Parse(kind, text string) (Value, error) {
	k, auto, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if auto {
		switch {
		case strings.Contains(text, "/"):
			k = KindFraction
		case strings.HasSuffix(text, "i"):
			k = KindComplex
		}
	}

	switch k {
	case KindFraction:
		r, ok := new(big.Rat).SetString(text)
		if !ok {
			return nil, fmt.Errorf("invalid fraction %q", text)
		}
		return Fraction{Rat: r}, nil
	case KindDecimal:
		d, _, err := apd.NewFromString(text)
		if err != nil {
			return nil, fmt.Errorf("invalid decimal %q: %w", text, err)
		}
		return Decimal{Dec: d}, nil
	case KindComplex:
		c, err := strconv.ParseComplex(text, 128)
		if err != nil {
			return nil, fmt.Errorf("invalid complex %q: %w", text, err)
		}
		return Complex(c), nil
	default:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", text, err)
		}
		return Float(f), nil
	}
}
