package decl

// Children returns the direct child nodes of n in source order.
func Children(n Node) (out []Node) {
	addExpr := func(e Expr) {
		if e != nil {
			out = append(out, e)
		}
	}
	switch n := n.(type) {
	case *FileDecl:
		for _, a := range n.Attributes {
			out = append(out, a)
		}
	case *Attribute:
		out = append(out, n.Name)
		addExpr(n.Value)
	case *TupleExpr:
		for _, e := range n.Items {
			addExpr(e)
		}
	case *ObjectExpr:
		for _, e := range n.Elems {
			out = append(out, e)
		}
	case *ObjectElem:
		out = append(out, n.Key())
		addExpr(n.Value)
	case *CallExpr:
		out = append(out, n.Name)
		for _, e := range n.Args {
			addExpr(e)
		}
	case *ParenExpr:
		addExpr(n.Inner)
	case *ForIntro:
		out = append(out, n.Var1)
		if n.Var2 != nil {
			out = append(out, n.Var2)
		}
		addExpr(n.Source)
	case *ForTupleExpr:
		out = append(out, n.Intro)
		addExpr(n.Body)
		addExpr(n.Cond)
	case *ForObjectExpr:
		out = append(out, n.Intro)
		addExpr(n.KeyExpr)
		addExpr(n.ValueExpr)
		addExpr(n.Cond)
	case *IndexExpr:
		addExpr(n.Base)
		addExpr(n.Index)
	case *GetAttrExpr:
		addExpr(n.Base)
		out = append(out, n.Name)
	case *TraverseAttr:
		out = append(out, n.Name)
	case *TraverseIndex:
		addExpr(n.Key)
	case *SplatAttrExpr:
		addExpr(n.Base)
		for _, t := range n.Chain {
			out = append(out, t)
		}
	case *SplatFullExpr:
		addExpr(n.Base)
		for _, t := range n.Chain {
			out = append(out, t)
		}
	}
	return
}

// Inspect walks the tree rooted at n in pre-order, calling f for every node.
// Children of a node are skipped when f returns false.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}
