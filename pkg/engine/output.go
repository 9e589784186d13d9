package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/wildfunctions/constfold/pkg/expr"
	"github.com/wildfunctions/constfold/pkg/numeric"
	"github.com/wildfunctions/constfold/pkg/treeio"
)

// Report summarizes the folding of one tree.
type Report struct {
	Index       int           `json:"index"`
	Input       string        `json:"input"`
	Output      string        `json:"output,omitempty"`
	NodesBefore int           `json:"nodes_before"`
	NodesAfter  int           `json:"nodes_after,omitempty"`
	DepthBefore int           `json:"depth_before"`
	DepthAfter  int           `json:"depth_after,omitempty"`
	Exact       bool          `json:"exact"`
	Elapsed     time.Duration `json:"elapsed_ns"`
	Error       string        `json:"error,omitempty"`

	// Tree is the folded tree; nil when folding failed.
	Tree expr.Node `json:"-"`
}

// Failed reports whether folding the tree failed.
func (r Report) Failed() bool { return r.Error != "" }

// Write renders reports in the named format.
func Write(w io.Writer, format string, reports []Report) error {
	switch format {
	case "json":
		return WriteJSON(w, reports)
	case "table":
		WriteTable(w, reports)
		return nil
	case "yaml":
		return WriteYAML(w, reports)
	case "text", "":
		WriteText(w, reports)
		return nil
	}
	return fmt.Errorf("unknown format %q (available: %v)", format, Formats)
}

// WriteText writes one line per report in human-readable format.
func WriteText(w io.Writer, reports []Report) {
	for _, r := range reports {
		if r.Failed() {
			fmt.Fprintf(w, "%s  =>  error: %s\n", r.Input, r.Error)
			continue
		}
		fmt.Fprintf(w, "%s  =>  %s\n", r.Input, r.Output)
	}
}

// WriteJSON writes the reports as a JSON array.
func WriteJSON(w io.Writer, reports []Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

// WriteTable writes the reports as a table with size statistics.
func WriteTable(w io.Writer, reports []Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Input", "Output", "Nodes", "Depth", "Time"})
	for _, r := range reports {
		out := r.Output
		if r.Failed() {
			out = "error: " + r.Error
		}
		t.AppendRow(table.Row{
			r.Index,
			r.Input,
			out,
			fmt.Sprintf("%d -> %d", r.NodesBefore, r.NodesAfter),
			fmt.Sprintf("%d -> %d", r.DepthBefore, r.DepthAfter),
			r.Elapsed.Round(time.Microsecond),
		})
	}
	t.Render()
}

// WriteYAML writes the folded trees as a YAML stream that Decode reads back.
// Failed reports are skipped.
func WriteYAML(w io.Writer, reports []Report) error {
	trees := make([]expr.Node, 0, len(reports))
	for _, r := range reports {
		if r.Tree != nil {
			trees = append(trees, r.Tree)
		}
	}
	return treeio.Encode(w, trees...)
}

// WriteFunctions lists the functions of a registry.
func WriteFunctions(w io.Writer, reg *numeric.Registry) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Args", "Raw", "Description"})
	for _, name := range reg.Names() {
		f, _ := reg.Lookup(name)
		t.AppendRow(table.Row{f.Name, arity(f), f.Raw, f.Doc})
	}
	t.Render()
}

func arity(f numeric.Func) string {
	switch {
	case f.MaxArgs < 0:
		return fmt.Sprintf("%d+", f.MinArgs)
	case f.MinArgs == f.MaxArgs:
		return fmt.Sprintf("%d", f.MinArgs)
	default:
		return fmt.Sprintf("%d-%d", f.MinArgs, f.MaxArgs)
	}
}
