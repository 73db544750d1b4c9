package decl

import (
	"fmt"

	gfn "github.com/panyam/goutils/fn"
)

// ToMap converts a node into plain maps and slices suitable for YAML or JSON
// encoding. Every map carries a "type" key and a "span" key.
func ToMap(n Node) map[string]any {
	if n == nil {
		return nil
	}
	out := map[string]any{
		"span": fmt.Sprintf("%s-%s", n.Pos(), n.End()),
	}
	exprs := func(es []Expr) []any {
		return gfn.Map(es, func(e Expr) any { return ToMap(e) })
	}
	optional := func(key string, e Expr) {
		if e != nil {
			out[key] = ToMap(e)
		}
	}
	switch n := n.(type) {
	case *FileDecl:
		out["type"] = "File"
		out["attributes"] = gfn.Map(n.Attributes, func(a *Attribute) any { return ToMap(a) })
	case *Attribute:
		out["type"] = "Attribute"
		out["name"] = n.Name.Name
		out["value"] = ToMap(n.Value)
	case *Identifier:
		out["type"] = "Identifier"
		out["name"] = n.Name
	case *LiteralExpr:
		out["type"] = "Literal"
		out["kind"] = n.Kind.String()
		switch n.Kind {
		case NumberLiteral:
			out["value"] = n.Number
			out["raw"] = n.Raw
		case BoolLiteral:
			out["value"] = n.Bool
		case StringLiteral:
			out["value"] = n.Str
		case NullLiteral:
			out["value"] = nil
		}
	case *TupleExpr:
		out["type"] = "Tuple"
		out["items"] = exprs(n.Items)
	case *ObjectExpr:
		out["type"] = "Object"
		out["elems"] = gfn.Map(n.Elems, func(e *ObjectElem) any { return ToMap(e) })
	case *ObjectElem:
		out["type"] = "ObjectElem"
		out["key"] = ToMap(n.Key())
		out["value"] = ToMap(n.Value)
	case *VariableExpr:
		out["type"] = "Variable"
		out["name"] = n.Name
	case *CallExpr:
		out["type"] = "Call"
		out["name"] = n.Name.Name
		out["args"] = exprs(n.Args)
		out["expand_final"] = n.ExpandFinal
	case *ParenExpr:
		out["type"] = "Paren"
		out["inner"] = ToMap(n.Inner)
	case *ForIntro:
		out["type"] = "ForIntro"
		out["var1"] = n.Var1.Name
		if n.Var2 != nil {
			out["var2"] = n.Var2.Name
		}
		out["source"] = ToMap(n.Source)
	case *ForTupleExpr:
		out["type"] = "ForTuple"
		out["intro"] = ToMap(n.Intro)
		out["body"] = ToMap(n.Body)
		optional("cond", n.Cond)
	case *ForObjectExpr:
		out["type"] = "ForObject"
		out["intro"] = ToMap(n.Intro)
		out["key"] = ToMap(n.KeyExpr)
		out["value"] = ToMap(n.ValueExpr)
		out["group"] = n.Group
		optional("cond", n.Cond)
	case *IndexExpr:
		out["type"] = "Index"
		out["base"] = ToMap(n.Base)
		out["index"] = ToMap(n.Index)
	case *GetAttrExpr:
		out["type"] = "GetAttr"
		out["base"] = ToMap(n.Base)
		out["name"] = n.Name.Name
	case *TraverseAttr:
		out["type"] = "Attr"
		out["name"] = n.Name.Name
	case *TraverseIndex:
		out["type"] = "Index"
		out["key"] = ToMap(n.Key)
	case *SplatAttrExpr:
		out["type"] = "SplatAttr"
		out["base"] = ToMap(n.Base)
		out["chain"] = gfn.Map(n.Chain, func(t *TraverseAttr) any { return t.Name.Name })
	case *SplatFullExpr:
		out["type"] = "SplatFull"
		out["base"] = ToMap(n.Base)
		out["chain"] = gfn.Map(n.Chain, func(t Traverser) any { return ToMap(t) })
	default:
		out["type"] = fmt.Sprintf("%T", n)
	}
	return out
}
