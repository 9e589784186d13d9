package expr

// Children returns the direct children of n in source order. The returned
// slice must not be modified.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Operator:
		return n.Args
	case *Call:
		return n.Args
	case *Paren:
		return []Node{n.Content}
	case *Array:
		return n.Items
	case *Index:
		return n.Dims
	case *Accessor:
		return []Node{n.Object, n.Index}
	case *Assignment:
		return []Node{n.Target, n.Value}
	case *Block:
		return n.Items
	case *FunctionAssignment:
		return []Node{n.Body}
	case *Object:
		return n.Values
	case *Range:
		if n.Step == nil {
			return []Node{n.Start, n.End}
		}
		return []Node{n.Start, n.Step, n.End}
	case *Conditional:
		return []Node{n.Cond, n.Then, n.Else}
	default:
		return nil
	}
}

func countNodes(n Node) int {
	total := 1
	for _, c := range Children(n) {
		total += c.NodeCount()
	}
	return total
}

func depthOf(n Node) int {
	deepest := 0
	for _, c := range Children(n) {
		if d := c.Depth(); d > deepest {
			deepest = d
		}
	}
	return 1 + deepest
}

func (s *Symbol) NodeCount() int             { return 1 }
func (c *Constant) NodeCount() int           { return 1 }
func (o *Operator) NodeCount() int           { return countNodes(o) }
func (c *Call) NodeCount() int               { return countNodes(c) }
func (p *Paren) NodeCount() int              { return countNodes(p) }
func (a *Array) NodeCount() int              { return countNodes(a) }
func (i *Index) NodeCount() int              { return countNodes(i) }
func (a *Accessor) NodeCount() int           { return countNodes(a) }
func (a *Assignment) NodeCount() int         { return countNodes(a) }
func (b *Block) NodeCount() int              { return countNodes(b) }
func (f *FunctionAssignment) NodeCount() int { return countNodes(f) }
func (o *Object) NodeCount() int             { return countNodes(o) }
func (r *Range) NodeCount() int              { return countNodes(r) }
func (c *Conditional) NodeCount() int        { return countNodes(c) }

func (s *Symbol) Depth() int             { return 1 }
func (c *Constant) Depth() int           { return 1 }
func (o *Operator) Depth() int           { return depthOf(o) }
func (c *Call) Depth() int               { return depthOf(c) }
func (p *Paren) Depth() int              { return depthOf(p) }
func (a *Array) Depth() int              { return depthOf(a) }
func (i *Index) Depth() int              { return depthOf(i) }
func (a *Accessor) Depth() int           { return depthOf(a) }
func (a *Assignment) Depth() int         { return depthOf(a) }
func (b *Block) Depth() int              { return depthOf(b) }
func (f *FunctionAssignment) Depth() int { return depthOf(f) }
func (o *Object) Depth() int             { return depthOf(o) }
func (r *Range) Depth() int              { return depthOf(r) }
func (c *Conditional) Depth() int        { return depthOf(c) }

// ContainsSymbol reports whether the tree contains any free variable.
func ContainsSymbol(n Node) bool {
	if _, ok := n.(*Symbol); ok {
		return true
	}
	for _, c := range Children(n) {
		if ContainsSymbol(c) {
			return true
		}
	}
	return false
}
