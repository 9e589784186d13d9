package expr

import (
	"fmt"
	"strings"
)

func joinNodes(nodes []Node, sep string) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, sep)
}

func (s *Symbol) String() string {
	return s.Name
}

func (c *Constant) String() string {
	return c.Value.String()
}

func (o *Operator) String() string {
	if len(o.Args) == 1 {
		child := o.Args[0].String()
		if o.Fn == "factorial" {
			return fmt.Sprintf("(%s)%s", child, o.Op)
		}
		if len(o.Op) > 1 {
			return fmt.Sprintf("(%s %s)", o.Op, child)
		}
		return fmt.Sprintf("(%s%s)", o.Op, child)
	}
	return "(" + joinNodes(o.Args, " "+o.Op+" ") + ")"
}

func (c *Call) String() string {
	return fmt.Sprintf("%s(%s)", c.Name, joinNodes(c.Args, ", "))
}

func (p *Paren) String() string {
	return fmt.Sprintf("(%s)", p.Content.String())
}

func (a *Array) String() string {
	return "[" + joinNodes(a.Items, ", ") + "]"
}

func (i *Index) String() string {
	return "[" + joinNodes(i.Dims, ", ") + "]"
}

func (a *Accessor) String() string {
	return a.Object.String() + a.Index.String()
}

func (a *Assignment) String() string {
	return fmt.Sprintf("%s = %s", a.Target.String(), a.Value.String())
}

func (b *Block) String() string {
	return joinNodes(b.Items, "; ")
}

func (f *FunctionAssignment) String() string {
	return fmt.Sprintf("%s(%s) = %s", f.Name, strings.Join(f.Params, ", "), f.Body.String())
}

func (o *Object) String() string {
	parts := make([]string, len(o.Keys))
	for i, k := range o.Keys {
		parts[i] = fmt.Sprintf("%q: %s", k, o.Values[i].String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (r *Range) String() string {
	if r.Step == nil {
		return fmt.Sprintf("%s:%s", r.Start.String(), r.End.String())
	}
	return fmt.Sprintf("%s:%s:%s", r.Start.String(), r.Step.String(), r.End.String())
}

func (c *Conditional) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", c.Cond.String(), c.Then.String(), c.Else.String())
}
