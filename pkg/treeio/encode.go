package treeio

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wildfunctions/constfold/pkg/expr"
	"github.com/wildfunctions/constfold/pkg/numeric"
)

// Encode writes each tree as one YAML document.
func Encode(w io.Writer, nodes ...expr.Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, n := range nodes {
		y, err := EncodeNode(n)
		if err != nil {
			return err
		}
		if err := enc.Encode(y); err != nil {
			return fmt.Errorf("encoding tree: %w", err)
		}
	}
	return enc.Close()
}

// EncodeNode converts a tree to its YAML form. Index, accessor, object and
// function-assignment nodes have no YAML form.
func EncodeNode(n expr.Node) (*yaml.Node, error) {
	switch n := n.(type) {
	case *expr.Symbol:
		if _, err := strconv.ParseFloat(n.Name, 64); err == nil {
			return mapOf("sym", scalar(n.Name)), nil
		}
		return scalar(n.Name), nil

	case *expr.Constant:
		return encodeValue(n.Value), nil

	case *expr.Operator:
		args, err := seqOf(n.Args)
		if err != nil {
			return nil, err
		}
		m := mapOf("op", scalar(n.Fn))
		if tok, ok := expr.OperatorToken(n.Fn); !ok || tok != n.Op {
			m.Content = append(m.Content, scalar("token"), scalar(n.Op))
		}
		m.Content = append(m.Content, scalar("args"), args)
		return m, nil

	case *expr.Call:
		m := mapOf("call", scalar(n.Name))
		if len(n.Args) > 0 {
			args, err := seqOf(n.Args)
			if err != nil {
				return nil, err
			}
			m.Content = append(m.Content, scalar("args"), args)
		}
		return m, nil

	case *expr.Paren:
		content, err := EncodeNode(n.Content)
		if err != nil {
			return nil, err
		}
		return mapOf("paren", content), nil

	case *expr.Array:
		items, err := seqOf(n.Items)
		if err != nil {
			return nil, err
		}
		return mapOf("array", items), nil

	case *expr.Block:
		items, err := seqOf(n.Items)
		if err != nil {
			return nil, err
		}
		return mapOf("block", items), nil

	case *expr.Assignment:
		target, err := EncodeNode(n.Target)
		if err != nil {
			return nil, err
		}
		value, err := EncodeNode(n.Value)
		if err != nil {
			return nil, err
		}
		return mapOf("assign", target, "value", value), nil

	case *expr.Conditional:
		parts, err := seqOf([]expr.Node{n.Cond, n.Then, n.Else})
		if err != nil {
			return nil, err
		}
		return mapOf("if", parts.Content[0], "then", parts.Content[1], "else", parts.Content[2]), nil

	case *expr.Range:
		bounds := []expr.Node{n.Start, n.End}
		if n.Step != nil {
			bounds = []expr.Node{n.Start, n.Step, n.End}
		}
		seq, err := seqOf(bounds)
		if err != nil {
			return nil, err
		}
		seq.Style = yaml.FlowStyle
		return mapOf("range", seq), nil
	}
	return nil, fmt.Errorf("%w: cannot encode %T", ErrFormat, n)
}

func encodeValue(v numeric.Value) *yaml.Node {
	if f, ok := v.(numeric.Float); ok {
		x := float64(f)
		if !math.IsInf(x, 0) && !math.IsNaN(x) {
			s := f.String()
			tag := "!!float"
			if x == math.Trunc(x) && !strings.ContainsAny(s, ".eE") {
				tag = "!!int"
			}
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: s}
		}
	}
	m := mapOf("num", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.String()})
	if kind := numeric.KindOf(v); kind != numeric.KindFloat {
		m.Content = append(m.Content, scalar("kind"), scalar(kind.String()))
	}
	return m
}

func scalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// mapOf builds a mapping from alternating keys and values.
func mapOf(pairs ...any) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Content = append(m.Content, scalar(pairs[i].(string)), pairs[i+1].(*yaml.Node))
	}
	return m
}

func seqOf(nodes []expr.Node) (*yaml.Node, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, n := range nodes {
		y, err := EncodeNode(n)
		if err != nil {
			return nil, err
		}
		seq.Content = append(seq.Content, y)
	}
	return seq, nil
}
