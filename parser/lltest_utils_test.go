package parser

import (
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/panyam/hclexpr/decl"
	"github.com/stretchr/testify/require"
)

// --- AST builders for expected values.  Spans are left zero and ignored. ---

func numLit(raw string) *decl.LiteralExpr {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		panic(err)
	}
	return &decl.LiteralExpr{Kind: decl.NumberLiteral, Raw: raw, Number: f}
}

func strLit(s string) *decl.LiteralExpr {
	return &decl.LiteralExpr{Kind: decl.StringLiteral, Raw: decl.QuoteString(s), Str: s}
}

func boolLit(b bool) *decl.LiteralExpr {
	return &decl.LiteralExpr{Kind: decl.BoolLiteral, Raw: strconv.FormatBool(b), Bool: b}
}

func nullLit() *decl.LiteralExpr {
	return &decl.LiteralExpr{Kind: decl.NullLiteral, Raw: "null"}
}

func ident(name string) *decl.Identifier { return &decl.Identifier{Name: name} }

func newVar(name string) *decl.VariableExpr { return &decl.VariableExpr{Name: name} }

func newTuple(items ...decl.Expr) *decl.TupleExpr { return &decl.TupleExpr{Items: items} }

func newObject(elems ...*decl.ObjectElem) *decl.ObjectExpr { return &decl.ObjectExpr{Elems: elems} }

func bareElem(key string, value decl.Expr) *decl.ObjectElem {
	return &decl.ObjectElem{KeyIdent: ident(key), Value: value}
}

func exprElem(key, value decl.Expr) *decl.ObjectElem {
	return &decl.ObjectElem{KeyExpr: key, Value: value}
}

func newCall(name string, expandFinal bool, args ...decl.Expr) *decl.CallExpr {
	return &decl.CallExpr{Name: ident(name), Args: args, ExpandFinal: expandFinal}
}

func newParen(inner decl.Expr) *decl.ParenExpr { return &decl.ParenExpr{Inner: inner} }

func getAttr(base decl.Expr, name string) *decl.GetAttrExpr {
	return &decl.GetAttrExpr{Base: base, Name: ident(name)}
}

func newIndex(base, index decl.Expr) *decl.IndexExpr {
	return &decl.IndexExpr{Base: base, Index: index}
}

func splatAttr(base decl.Expr, names ...string) *decl.SplatAttrExpr {
	out := &decl.SplatAttrExpr{Base: base}
	for _, n := range names {
		out.Chain = append(out.Chain, stepAttr(n))
	}
	return out
}

func splatFull(base decl.Expr, steps ...decl.Traverser) *decl.SplatFullExpr {
	return &decl.SplatFullExpr{Base: base, Chain: steps}
}

func stepAttr(name string) *decl.TraverseAttr { return &decl.TraverseAttr{Name: ident(name)} }

func stepIndex(key decl.Expr) *decl.TraverseIndex { return &decl.TraverseIndex{Key: key} }

// forIntro builds an intro; pass "" as key for the single variable form.
func forIntro(key, value string, source decl.Expr) *decl.ForIntro {
	if key == "" {
		return &decl.ForIntro{Var1: ident(value), Source: source}
	}
	return &decl.ForIntro{Var1: ident(key), Var2: ident(value), Source: source}
}

func forTuple(intro *decl.ForIntro, body, cond decl.Expr) *decl.ForTupleExpr {
	return &decl.ForTupleExpr{Intro: intro, Body: body, Cond: cond}
}

func forObject(intro *decl.ForIntro, key, value decl.Expr, group bool, cond decl.Expr) *decl.ForObjectExpr {
	return &decl.ForObjectExpr{Intro: intro, KeyExpr: key, ValueExpr: value, Group: group, Cond: cond}
}

func newAttr(name string, value decl.Expr) *decl.Attribute {
	return &decl.Attribute{Name: ident(name), Value: value}
}

// --- Assertions ---

var ignoreSpans = cmp.Options{
	cmpopts.IgnoreTypes(decl.NodeInfo{}),
	cmpopts.EquateEmpty(),
}

// assertNodeEqual compares two trees ignoring source positions.
func assertNodeEqual(t *testing.T, input string, expected, actual any) {
	t.Helper()
	if diff := cmp.Diff(expected, actual, ignoreSpans); diff != "" {
		t.Errorf("Input: %q\nAST mismatch (-want +got):\n%s", input, diff)
	}
}

// parseExpr parses input as a single expression and fails the test on error.
func parseExpr(t *testing.T, input string) decl.Expr {
	t.Helper()
	expr, err := ParseExpression([]byte(input))
	require.NoError(t, err, "Input: %q", input)
	return expr
}

// requireParseErrors parses input as a file and returns the diagnostics.
func requireParseErrors(t *testing.T, input string, opts ...ParserOpt) ([]*decl.Attribute, ErrorList) {
	t.Helper()
	attrs, err := Parse([]byte(input), opts...)
	require.Error(t, err, "Input: %q", input)
	var errs ErrorList
	require.True(t, errors.As(err, &errs), "Input: %q: expected ErrorList, got %T: %v", input, err, err)
	return attrs, errs
}
