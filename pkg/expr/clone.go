package expr

func cloneAll(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

func cloneOpt(n Node) Node {
	if n == nil {
		return nil
	}
	return n.Clone()
}

func (s *Symbol) Clone() Node {
	return &Symbol{Name: s.Name}
}

// Clone shares the value; numeric values are never mutated in place.
func (c *Constant) Clone() Node {
	return &Constant{Value: c.Value}
}

func (o *Operator) Clone() Node {
	return &Operator{Op: o.Op, Fn: o.Fn, Args: cloneAll(o.Args)}
}

func (c *Call) Clone() Node {
	return &Call{Name: c.Name, Args: cloneAll(c.Args)}
}

func (p *Paren) Clone() Node {
	return &Paren{Content: p.Content.Clone()}
}

func (a *Array) Clone() Node {
	return &Array{Items: cloneAll(a.Items)}
}

func (i *Index) Clone() Node {
	return &Index{Dims: cloneAll(i.Dims)}
}

func (a *Accessor) Clone() Node {
	return &Accessor{Object: a.Object.Clone(), Index: a.Index.Clone().(*Index)}
}

func (a *Assignment) Clone() Node {
	return &Assignment{Target: a.Target.Clone(), Value: a.Value.Clone()}
}

func (b *Block) Clone() Node {
	return &Block{Items: cloneAll(b.Items)}
}

func (f *FunctionAssignment) Clone() Node {
	params := append([]string(nil), f.Params...)
	return &FunctionAssignment{Name: f.Name, Params: params, Body: f.Body.Clone()}
}

func (o *Object) Clone() Node {
	keys := append([]string(nil), o.Keys...)
	return &Object{Keys: keys, Values: cloneAll(o.Values)}
}

func (r *Range) Clone() Node {
	return &Range{Start: r.Start.Clone(), Step: cloneOpt(r.Step), End: r.End.Clone()}
}

func (c *Conditional) Clone() Node {
	return &Conditional{Cond: c.Cond.Clone(), Then: c.Then.Clone(), Else: c.Else.Clone()}
}
