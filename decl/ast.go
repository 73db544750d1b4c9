package decl

import (
	"fmt"
)

// --- Interfaces ---

// Node represents any node in the Abstract Syntax Tree.
type Node interface {
	Pos() Location  // Starting position (inclusive)
	End() Location  // Ending position (exclusive)
	String() string // String representation for debugging/printing
	PrettyPrint(cp CodePrinter)
}

// Location is a point in the source text.
// Offset is a 0-based byte offset, Line and Column are 1-based and Column counts runes.
type Location struct {
	Offset int
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// IsValid reports whether the location was set by the lexer.
func (l Location) IsValid() bool {
	return l.Line > 0
}

// --- Base Struct ---

// NodeInfo embeddable struct for position tracking.
// The span is half-open: [StartPos, StopPos).
type NodeInfo struct{ StartPos, StopPos Location }

func (n *NodeInfo) Pos() Location  { return n.StartPos }
func (n *NodeInfo) End() Location  { return n.StopPos }
func (n *NodeInfo) String() string { return "{Node}" } // Default stringer

// Text returns the slice of src covered by the node.
func (n *NodeInfo) Text(src []byte) string {
	if n.StartPos.Offset < 0 || n.StopPos.Offset > len(src) || n.StartPos.Offset > n.StopPos.Offset {
		return ""
	}
	return string(src[n.StartPos.Offset:n.StopPos.Offset])
}

// Identifier is a name appearing in the source: attribute names, attribute
// accesses, loop variables and bareword object keys.
type Identifier struct {
	NodeInfo
	Name string
}

func (i *Identifier) String() string             { return i.Name }
func (i *Identifier) PrettyPrint(cp CodePrinter) { cp.Print(i.Name) }

// --- Top Level declarations ---

// Attribute is a top-level `name = expression` statement.
type Attribute struct {
	NodeInfo
	Name  *Identifier
	Value Expr
}

func (a *Attribute) String() string {
	return fmt.Sprintf("%s = %s", a.Name.String(), a.Value.String())
}

func (a *Attribute) PrettyPrint(cp CodePrinter) {
	a.Name.PrettyPrint(cp)
	cp.Print(" = ")
	a.Value.PrettyPrint(cp)
}
