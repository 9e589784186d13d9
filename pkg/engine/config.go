package engine

import (
	"fmt"
	"runtime"
	"slices"

	"github.com/wildfunctions/constfold/pkg/numeric"
)

// Output shapes applied to folded trees.
const (
	ShapeAsIs  = ""
	ShapeFlat  = "flat"
	ShapeLeft  = "left"
	ShapeRight = "right"
)

// Formats understood by Write.
var Formats = []string{"text", "json", "table", "yaml"}

// Config holds all parameters for a folding run.
type Config struct {
	Exact          bool     `koanf:"exact" json:"exact"`
	Precision      uint32   `koanf:"precision" json:"precision"`
	Format         string   `koanf:"format" json:"format"`
	Workers        int      `koanf:"workers" json:"workers"`
	LogLevel       string   `koanf:"log_level" json:"log_level"`
	Opaque         []string `koanf:"opaque" json:"opaque,omitempty"`
	NonCommutative []string `koanf:"non_commutative" json:"non_commutative,omitempty"`
	Shape          string   `koanf:"shape" json:"shape,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Exact:     false,
		Precision: numeric.DefaultPrecision,
		Format:    "text",
		Workers:   runtime.NumCPU(),
		LogLevel:  "warn",
		Shape:     ShapeAsIs,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("unknown format %q (available: %v)", c.Format, Formats)
	}
	switch c.Shape {
	case ShapeAsIs, ShapeFlat, ShapeLeft, ShapeRight:
	default:
		return fmt.Errorf("unknown shape %q (available: flat, left, right)", c.Shape)
	}
	if c.Precision == 0 {
		return fmt.Errorf("precision must be positive")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}
