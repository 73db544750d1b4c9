package decl

import (
	"strconv"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

// Expr represents an expression node.
type Expr interface {
	Node
	exprNode() // Marker method for expressions
}

type ExprBase struct {
	NodeInfo
}

func (me *ExprBase) exprNode() {}

func joinExprs(exprs []Expr) string {
	return strings.Join(gfn.Map(exprs, func(e Expr) string { return e.String() }), ", ")
}

func printExprList(cp CodePrinter, exprs []Expr) {
	for i, e := range exprs {
		if i > 0 {
			cp.Print(", ")
		}
		e.PrettyPrint(cp)
	}
}

// --- Literals ---

type LiteralKind int

const (
	NumberLiteral LiteralKind = iota
	BoolLiteral
	NullLiteral
	StringLiteral
)

func (k LiteralKind) String() string {
	switch k {
	case NumberLiteral:
		return "Number"
	case BoolLiteral:
		return "Bool"
	case NullLiteral:
		return "Null"
	case StringLiteral:
		return "String"
	}
	return "LiteralKind(" + strconv.Itoa(int(k)) + ")"
}

// LiteralExpr is a number, bool, null or quoted string literal.
// Raw holds the source text; the typed field matching Kind holds the value.
type LiteralExpr struct {
	ExprBase
	Kind   LiteralKind
	Raw    string
	Number float64
	Bool   bool
	Str    string
}

func (l *LiteralExpr) String() string {
	switch l.Kind {
	case BoolLiteral:
		return strconv.FormatBool(l.Bool)
	case NullLiteral:
		return "null"
	case StringLiteral:
		return QuoteString(l.Str)
	}
	return l.Raw
}

func (l *LiteralExpr) PrettyPrint(cp CodePrinter) { cp.Print(l.String()) }

// QuoteString renders s as a double-quoted literal using only the escapes
// the lexer understands.  `${` and `%{` are doubled so they stay literal.
func QuoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return templateEscaper.Replace(sb.String())
}

var templateEscaper = strings.NewReplacer("${", "$${", "%{", "%%{")

// --- Collections ---

// TupleExpr is `[e1, e2, ...]`.
type TupleExpr struct {
	ExprBase
	Items []Expr
}

func (t *TupleExpr) String() string { return "[" + joinExprs(t.Items) + "]" }

func (t *TupleExpr) PrettyPrint(cp CodePrinter) {
	cp.Print("[")
	printExprList(cp, t.Items)
	cp.Print("]")
}

// ObjectElem is one `key = value` (or `key: value`) item of an object.
// Exactly one of KeyIdent and KeyExpr is set.
type ObjectElem struct {
	NodeInfo
	KeyIdent *Identifier
	KeyExpr  Expr
	Value    Expr
}

// Key returns whichever key variant is set.
func (o *ObjectElem) Key() Node {
	if o.KeyIdent != nil {
		return o.KeyIdent
	}
	return o.KeyExpr
}

func (o *ObjectElem) String() string {
	return o.Key().String() + " = " + o.Value.String()
}

func (o *ObjectElem) PrettyPrint(cp CodePrinter) {
	o.Key().PrettyPrint(cp)
	cp.Print(" = ")
	o.Value.PrettyPrint(cp)
}

// ObjectExpr is `{k1 = v1, k2: v2, ...}`.
type ObjectExpr struct {
	ExprBase
	Elems []*ObjectElem
}

func (o *ObjectExpr) String() string {
	return "{" + strings.Join(gfn.Map(o.Elems, func(e *ObjectElem) string { return e.String() }), ", ") + "}"
}

// PrettyPrint puts objects with more than one element on separate lines.
func (o *ObjectExpr) PrettyPrint(cp CodePrinter) {
	if len(o.Elems) <= 1 {
		cp.Print(o.String())
		return
	}
	cp.Println("{")
	WithIndent(1, cp, func(cp CodePrinter) {
		for _, e := range o.Elems {
			e.PrettyPrint(cp)
			cp.Println(",")
		}
	})
	cp.Print("}")
}

// --- References and calls ---

// VariableExpr is a bare identifier reference.
type VariableExpr struct {
	ExprBase
	Name string
}

func (v *VariableExpr) String() string             { return v.Name }
func (v *VariableExpr) PrettyPrint(cp CodePrinter) { cp.Print(v.Name) }

// CallExpr is `name(args)`. ExpandFinal records a trailing `...` after the
// last argument.
type CallExpr struct {
	ExprBase
	Name        *Identifier
	Args        []Expr
	ExpandFinal bool
}

func (c *CallExpr) String() string {
	out := c.Name.Name + "(" + joinExprs(c.Args)
	if c.ExpandFinal {
		out += "..."
	}
	return out + ")"
}

func (c *CallExpr) PrettyPrint(cp CodePrinter) {
	cp.Print(c.Name.Name + "(")
	printExprList(cp, c.Args)
	if c.ExpandFinal {
		cp.Print("...")
	}
	cp.Print(")")
}

// ParenExpr is `(inner)`.
type ParenExpr struct {
	ExprBase
	Inner Expr
}

func (p *ParenExpr) String() string { return "(" + p.Inner.String() + ")" }

func (p *ParenExpr) PrettyPrint(cp CodePrinter) {
	cp.Print("(")
	p.Inner.PrettyPrint(cp)
	cp.Print(")")
}

// --- For expressions ---

// ForIntro is `for Var1 (, Var2)? in Source :`.
type ForIntro struct {
	NodeInfo
	Var1   *Identifier
	Var2   *Identifier
	Source Expr
}

// KeyVar returns the key variable of a two-variable intro, or nil.
func (f *ForIntro) KeyVar() *Identifier {
	if f.Var2 == nil {
		return nil
	}
	return f.Var1
}

// ValueVar returns the variable bound to each element's value.
func (f *ForIntro) ValueVar() *Identifier {
	if f.Var2 == nil {
		return f.Var1
	}
	return f.Var2
}

func (f *ForIntro) String() string {
	vars := f.Var1.Name
	if f.Var2 != nil {
		vars += ", " + f.Var2.Name
	}
	return "for " + vars + " in " + f.Source.String() + " :"
}

func (f *ForIntro) PrettyPrint(cp CodePrinter) {
	cp.Print("for " + f.Var1.Name)
	if f.Var2 != nil {
		cp.Print(", " + f.Var2.Name)
	}
	cp.Print(" in ")
	f.Source.PrettyPrint(cp)
	cp.Print(" :")
}

// ForTupleExpr is `[for ... : Body if Cond]`. Cond may be nil.
type ForTupleExpr struct {
	ExprBase
	Intro *ForIntro
	Body  Expr
	Cond  Expr
}

func (f *ForTupleExpr) String() string {
	out := "[" + f.Intro.String() + " " + f.Body.String()
	if f.Cond != nil {
		out += " if " + f.Cond.String()
	}
	return out + "]"
}

func (f *ForTupleExpr) PrettyPrint(cp CodePrinter) {
	cp.Print("[")
	f.Intro.PrettyPrint(cp)
	cp.Print(" ")
	f.Body.PrettyPrint(cp)
	if f.Cond != nil {
		cp.Print(" if ")
		f.Cond.PrettyPrint(cp)
	}
	cp.Print("]")
}

// ForObjectExpr is `{for ... : Key => Value... if Cond}`. Group records the
// `...` grouping marker; Cond may be nil.
type ForObjectExpr struct {
	ExprBase
	Intro     *ForIntro
	KeyExpr   Expr
	ValueExpr Expr
	Group     bool
	Cond      Expr
}

func (f *ForObjectExpr) String() string {
	out := "{" + f.Intro.String() + " " + f.KeyExpr.String() + " => " + f.ValueExpr.String()
	if f.Group {
		out += "..."
	}
	if f.Cond != nil {
		out += " if " + f.Cond.String()
	}
	return out + "}"
}

func (f *ForObjectExpr) PrettyPrint(cp CodePrinter) {
	cp.Print("{")
	f.Intro.PrettyPrint(cp)
	cp.Print(" ")
	f.KeyExpr.PrettyPrint(cp)
	cp.Print(" => ")
	f.ValueExpr.PrettyPrint(cp)
	if f.Group {
		cp.Print("...")
	}
	if f.Cond != nil {
		cp.Print(" if ")
		f.Cond.PrettyPrint(cp)
	}
	cp.Print("}")
}

// --- Postfix expressions ---

// IndexExpr is `Base[Index]`.
type IndexExpr struct {
	ExprBase
	Base  Expr
	Index Expr
}

func (i *IndexExpr) String() string { return i.Base.String() + "[" + i.Index.String() + "]" }

func (i *IndexExpr) PrettyPrint(cp CodePrinter) {
	i.Base.PrettyPrint(cp)
	cp.Print("[")
	i.Index.PrettyPrint(cp)
	cp.Print("]")
}

// GetAttrExpr is `Base.Name`.
type GetAttrExpr struct {
	ExprBase
	Base Expr
	Name *Identifier
}

func (g *GetAttrExpr) String() string { return g.Base.String() + "." + g.Name.Name }

func (g *GetAttrExpr) PrettyPrint(cp CodePrinter) {
	g.Base.PrettyPrint(cp)
	cp.Print("." + g.Name.Name)
}

// Traverser is one step of a splat chain.
type Traverser interface {
	Node
	traverser()
}

// TraverseAttr is a `.name` step; its span includes the dot.
type TraverseAttr struct {
	NodeInfo
	Name *Identifier
}

func (t *TraverseAttr) traverser()                 {}
func (t *TraverseAttr) String() string             { return "." + t.Name.Name }
func (t *TraverseAttr) PrettyPrint(cp CodePrinter) { cp.Print(t.String()) }

// TraverseIndex is a `[key]` step; its span includes the brackets.
type TraverseIndex struct {
	NodeInfo
	Key Expr
}

func (t *TraverseIndex) traverser()     {}
func (t *TraverseIndex) String() string { return "[" + t.Key.String() + "]" }

func (t *TraverseIndex) PrettyPrint(cp CodePrinter) {
	cp.Print("[")
	t.Key.PrettyPrint(cp)
	cp.Print("]")
}

// SplatAttrExpr is `Base.*` followed by zero or more attribute steps.
type SplatAttrExpr struct {
	ExprBase
	Base  Expr
	Chain []*TraverseAttr
}

func (s *SplatAttrExpr) String() string {
	return s.Base.String() + ".*" + strings.Join(gfn.Map(s.Chain, func(t *TraverseAttr) string { return t.String() }), "")
}

func (s *SplatAttrExpr) PrettyPrint(cp CodePrinter) {
	s.Base.PrettyPrint(cp)
	cp.Print(".*")
	for _, t := range s.Chain {
		t.PrettyPrint(cp)
	}
}

// SplatFullExpr is `Base[*]` followed by zero or more attribute or index steps.
type SplatFullExpr struct {
	ExprBase
	Base  Expr
	Chain []Traverser
}

func (s *SplatFullExpr) String() string {
	return s.Base.String() + "[*]" + strings.Join(gfn.Map(s.Chain, func(t Traverser) string { return t.String() }), "")
}

func (s *SplatFullExpr) PrettyPrint(cp CodePrinter) {
	s.Base.PrettyPrint(cp)
	cp.Print("[*]")
	for _, t := range s.Chain {
		t.PrettyPrint(cp)
	}
}
