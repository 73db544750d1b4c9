package decl_test

import (
	"testing"

	"github.com/panyam/hclexpr/decl"
	"github.com/panyam/hclexpr/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func parseFile(t *testing.T, src string) *decl.FileDecl {
	t.Helper()
	file, err := parser.ParseFile("test.hcl", []byte(src))
	require.NoError(t, err)
	return file
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"spacing is normalised", "a=[ 1 ,2, ]\nb   =   f( x , y ... )", "a = [1, 2]\nb = f(x, y...)\n"},
		{"single element object stays inline", "o = {x:1}", "o = {x = 1}\n"},
		{"object elements on separate lines", "o = {x = 1, y = [2]}", "o = {\n  x = 1,\n  y = [2],\n}\n"},
		{"for expressions", "f = {for k,v in m:k=>v...if v}\ng = [for x in xs:x]",
			"f = {for k, v in m : k => v... if v}\ng = [for x in xs : x]\n"},
		{"strings are requoted", `s = "a\"b\n"`, "s = \"a\\\"b\\n\"\n"},
		{"splats", "s = a [*] . b . * . c", "s = a[*].b.*.c\n"},
		{"empty file", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, decl.Format(parseFile(t, tt.input)))
		})
	}
}

func TestCodePrinterIndent(t *testing.T) {
	cp := decl.NewCodePrinter()
	cp.Println("root {")
	decl.WithIndent(1, cp, func(cp decl.CodePrinter) {
		cp.Printf("%s = %d\n", "a", 1)
		cp.Print("b = ")
		cp.Println("2")
	})
	cp.Unindent(5)
	cp.Print("}")
	assert.Equal(t, "root {\n  a = 1\n  b = 2\n}", cp.(interface{ String() string }).String())
}

func TestQuoteString(t *testing.T) {
	assert.Equal(t, `"plain"`, decl.QuoteString("plain"))
	assert.Equal(t, `"tab\tquote\"slash\\"`, decl.QuoteString("tab\tquote\"slash\\"))
	assert.Equal(t, `"$${x} %%{y} $$${z}"`, decl.QuoteString("${x} %{y} $${z}"))
}

func TestResolveDuplicates(t *testing.T) {
	file := parseFile(t, "a = 1\nb = 2\na = 3\na = 4\n")
	errs := file.Resolve()
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "attribute 'a' already defined at 1:1")
	assert.Contains(t, errs[1].Error(), "4:1")
	assert.Equal(t, "1", file.GetAttribute("a").Value.String())
	assert.Empty(t, file.Resolve(), "second resolve is a no-op")
}

func TestInspect(t *testing.T) {
	file := parseFile(t, "a = f(x, [y.z])\nb = {k = v}")
	var kinds []string
	decl.Inspect(file, func(n decl.Node) bool {
		switch n := n.(type) {
		case *decl.VariableExpr:
			kinds = append(kinds, "var:"+n.Name)
		case *decl.Identifier:
			kinds = append(kinds, "ident:"+n.Name)
		}
		return true
	})
	assert.Equal(t, []string{
		"ident:a", "ident:f", "var:x", "var:y", "ident:z",
		"ident:b", "ident:k", "var:v",
	}, kinds)

	// Returning false prunes the subtree
	count := 0
	decl.Inspect(file, func(n decl.Node) bool {
		count++
		_, isAttr := n.(*decl.Attribute)
		return !isAttr
	})
	assert.Equal(t, 3, count)
}

func TestToMap(t *testing.T) {
	file := parseFile(t, "a = list[*].id\nb = {for k, v in m : k => v...}")
	out := decl.ToMap(file)
	assert.Equal(t, "File", out["type"])
	attrs := out["attributes"].([]any)
	require.Len(t, attrs, 2)

	a := attrs[0].(map[string]any)
	assert.Equal(t, "a", a["name"])
	assert.Equal(t, "1:1-1:15", a["span"])
	splat := a["value"].(map[string]any)
	assert.Equal(t, "SplatFull", splat["type"])
	assert.Equal(t, "Variable", splat["base"].(map[string]any)["type"])

	b := attrs[1].(map[string]any)["value"].(map[string]any)
	assert.Equal(t, "ForObject", b["type"])
	assert.Equal(t, true, b["group"])
	assert.NotContains(t, b, "cond")
	assert.Equal(t, "k", b["intro"].(map[string]any)["var1"])

	// The map form encodes cleanly
	encoded, err := yaml.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), "type: ForObject")
}
