// Package treeio reads and writes expression trees as YAML (and therefore
// JSON) documents.
//
// A tree is either a scalar shorthand or a mapping:
//
//	x                          symbol
//	2.5                        float literal
//	{num: "1/3"}               literal; kind defaults to auto
//	{num: "0.1", kind: decimal}
//	{op: add, args: [...]}     operator; token defaults to the usual one
//	{call: sin, args: [...]}   function call
//	{paren: ...}               grouping
//	{array: [...]}             array literal
//	{block: [...]}             statement block
//	{assign: x, value: ...}    assignment
//	{if: ..., then: ..., else: ...}
//	{range: [start, end]} or {range: [start, step, end]}
package treeio

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wildfunctions/constfold/pkg/expr"
	"github.com/wildfunctions/constfold/pkg/numeric"
)

// ErrFormat is returned for documents that do not describe a tree.
var ErrFormat = errors.New("treeio: malformed tree")

// Decode reads every document of a YAML stream as a tree.
func Decode(r io.Reader) ([]expr.Node, error) {
	dec := yaml.NewDecoder(r)
	var nodes []expr.Node
	for i := 0; ; i++ {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return nodes, nil
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		if len(doc.Content) == 0 {
			continue
		}
		n, err := DecodeNode(doc.Content[0])
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		nodes = append(nodes, n)
	}
}

// ParseString decodes a single tree from s.
func ParseString(s string) (expr.Node, error) {
	nodes, err := Decode(strings.NewReader(s))
	if err != nil {
		return nil, err
	}
	if len(nodes) != 1 {
		return nil, fmt.Errorf("%w: want one document, got %d", ErrFormat, len(nodes))
	}
	return nodes[0], nil
}

// DecodeNode converts a parsed YAML node into a tree.
func DecodeNode(y *yaml.Node) (expr.Node, error) {
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) != 1 {
			return nil, errorAt(y, "empty document")
		}
		return DecodeNode(y.Content[0])
	case yaml.AliasNode:
		return DecodeNode(y.Alias)
	case yaml.ScalarNode:
		return decodeScalar(y)
	case yaml.MappingNode:
		return decodeMapping(y)
	}
	return nil, errorAt(y, "unexpected sequence")
}

func errorAt(y *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrFormat, y.Line, fmt.Sprintf(format, args...))
}

func decodeScalar(y *yaml.Node) (expr.Node, error) {
	switch y.ShortTag() {
	case "!!int", "!!float":
		var f float64
		if err := y.Decode(&f); err != nil {
			return nil, errorAt(y, "%v", err)
		}
		return expr.Num(f), nil
	case "!!str":
		if y.Value == "" {
			return nil, errorAt(y, "empty symbol")
		}
		return expr.Sym(y.Value), nil
	}
	return nil, errorAt(y, "unexpected %s scalar %q", y.ShortTag(), y.Value)
}

// mapping pairs keys with their value nodes.
type mapping map[string]*yaml.Node

func (m mapping) str(key string) (string, bool) {
	v, ok := m[key]
	if !ok || v.Kind != yaml.ScalarNode {
		return "", false
	}
	return v.Value, true
}

func (m mapping) node(key string) (expr.Node, error) {
	v, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", ErrFormat, key)
	}
	return DecodeNode(v)
}

func (m mapping) list(key string) ([]expr.Node, error) {
	v, ok := m[key]
	if !ok {
		return nil, nil
	}
	if v.Kind != yaml.SequenceNode {
		return nil, errorAt(v, "%q must be a sequence", key)
	}
	out := make([]expr.Node, len(v.Content))
	for i, c := range v.Content {
		n, err := DecodeNode(c)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

var allowedKeys = map[string][]string{
	"sym":    {"sym"},
	"num":    {"num", "kind"},
	"op":     {"op", "token", "args"},
	"call":   {"call", "args"},
	"paren":  {"paren"},
	"array":  {"array"},
	"block":  {"block"},
	"assign": {"assign", "value"},
	"if":     {"if", "then", "else"},
	"range":  {"range"},
}

// variantOrder fixes which key names the variant when several are present.
var variantOrder = []string{"sym", "num", "op", "call", "paren", "array", "block", "assign", "if", "range"}

func decodeMapping(y *yaml.Node) (expr.Node, error) {
	m := make(mapping, len(y.Content)/2)
	for i := 0; i+1 < len(y.Content); i += 2 {
		m[y.Content[i].Value] = y.Content[i+1]
	}

	variant := ""
	for _, k := range variantOrder {
		if _, ok := m[k]; ok {
			variant = k
			break
		}
	}
	if variant == "" {
		return nil, errorAt(y, "mapping names no node kind")
	}
	for k := range m {
		if !slices.Contains(allowedKeys[variant], k) {
			return nil, errorAt(y, "unexpected key %q in %s node", k, variant)
		}
	}

	switch variant {
	case "sym":
		name, ok := m.str("sym")
		if !ok || name == "" {
			return nil, errorAt(y, "sym must be a non-empty string")
		}
		return expr.Sym(name), nil

	case "num":
		text, ok := m.str("num")
		if !ok {
			return nil, errorAt(y, "num must be a scalar")
		}
		kind, _ := m.str("kind")
		v, err := numeric.Parse(kind, text)
		if err != nil {
			return nil, errorAt(y, "%v", err)
		}
		return expr.Const(v), nil

	case "op":
		fn, ok := m.str("op")
		if !ok || fn == "" {
			return nil, errorAt(y, "op must name a function")
		}
		token, ok := m.str("token")
		if !ok {
			if token, ok = expr.OperatorToken(fn); !ok {
				token = fn
			}
		}
		args, err := m.list("args")
		if err != nil {
			return nil, err
		}
		op, err := expr.NewOperator(token, fn, args...)
		if err != nil {
			return nil, errorAt(y, "%v", err)
		}
		return op, nil

	case "call":
		name, ok := m.str("call")
		if !ok || name == "" {
			return nil, errorAt(y, "call must name a function")
		}
		args, err := m.list("args")
		if err != nil {
			return nil, err
		}
		return expr.Fn(name, args...), nil

	case "paren":
		content, err := m.node("paren")
		if err != nil {
			return nil, err
		}
		return expr.Group(content), nil

	case "array":
		items, err := m.list("array")
		if err != nil {
			return nil, err
		}
		return &expr.Array{Items: items}, nil

	case "block":
		items, err := m.list("block")
		if err != nil {
			return nil, err
		}
		return &expr.Block{Items: items}, nil

	case "assign":
		target, err := m.node("assign")
		if err != nil {
			return nil, err
		}
		value, err := m.node("value")
		if err != nil {
			return nil, err
		}
		return &expr.Assignment{Target: target, Value: value}, nil

	case "if":
		cond, err := m.node("if")
		if err != nil {
			return nil, err
		}
		then, err := m.node("then")
		if err != nil {
			return nil, err
		}
		els, err := m.node("else")
		if err != nil {
			return nil, err
		}
		return &expr.Conditional{Cond: cond, Then: then, Else: els}, nil

	default: // range
		parts, err := m.list("range")
		if err != nil {
			return nil, err
		}
		switch len(parts) {
		case 2:
			return &expr.Range{Start: parts[0], End: parts[1]}, nil
		case 3:
			return &expr.Range{Start: parts[0], Step: parts[1], End: parts[2]}, nil
		}
		return nil, errorAt(y, "range takes two or three bounds, got %d", len(parts))
	}
}
