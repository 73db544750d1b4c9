package parser

import (
	"fmt"

	"github.com/panyam/hclexpr/decl"
)

// TokenType identifies the kind of a lexical token.
type TokenType int

const (
	EOF TokenType = iota
	NEWLINE

	// Literals and names
	IDENTIFIER
	NUMBER_LITERAL
	STRING_LITERAL

	// Keywords
	TRUE
	FALSE
	NULL
	FOR
	IN
	IF

	// Punctuation
	ASSIGN   // =
	ARROW    // =>
	LBRACE   // {
	RBRACE   // }
	LBRACKET // [
	RBRACKET // ]
	LPAREN   // (
	RPAREN   // )
	COMMA    // ,
	COLON    // :
	DOT      // .
	ELLIPSIS // ...
	STAR     // *
)

var tokenNames = [...]string{
	EOF:            "EOF",
	NEWLINE:        "NEWLINE",
	IDENTIFIER:     "IDENTIFIER",
	NUMBER_LITERAL: "NUMBER_LITERAL",
	STRING_LITERAL: "STRING_LITERAL",
	TRUE:           "TRUE",
	FALSE:          "FALSE",
	NULL:           "NULL",
	FOR:            "FOR",
	IN:             "IN",
	IF:             "IF",
	ASSIGN:         "ASSIGN",
	ARROW:          "ARROW",
	LBRACE:         "LBRACE",
	RBRACE:         "RBRACE",
	LBRACKET:       "LBRACKET",
	RBRACKET:       "RBRACKET",
	LPAREN:         "LPAREN",
	RPAREN:         "RPAREN",
	COMMA:          "COMMA",
	COLON:          "COLON",
	DOT:            "DOT",
	ELLIPSIS:       "ELLIPSIS",
	STAR:           "STAR",
}

// Source spelling of fixed tokens, used in diagnostics.
var tokenSpellings = map[TokenType]string{
	TRUE:     "true",
	FALSE:    "false",
	NULL:     "null",
	FOR:      "for",
	IN:       "in",
	IF:       "if",
	ASSIGN:   "=",
	ARROW:    "=>",
	LBRACE:   "{",
	RBRACE:   "}",
	LBRACKET: "[",
	RBRACKET: "]",
	LPAREN:   "(",
	RPAREN:   ")",
	COMMA:    ",",
	COLON:    ":",
	DOT:      ".",
	ELLIPSIS: "...",
	STAR:     "*",
}

var keywords = map[string]TokenType{
	"true":  TRUE,
	"false": FALSE,
	"null":  NULL,
	"for":   FOR,
	"in":    IN,
	"if":    IF,
}

func (t TokenType) String() string {
	if int(t) >= 0 && int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Describe returns a human readable name for the token type as it would be
// written in the source: `']'`, `identifier`, `newline`.
func (t TokenType) Describe() string {
	if s, ok := tokenSpellings[t]; ok {
		return "'" + s + "'"
	}
	switch t {
	case EOF:
		return "end of input"
	case NEWLINE:
		return "newline"
	case IDENTIFIER:
		return "identifier"
	case NUMBER_LITERAL:
		return "number"
	case STRING_LITERAL:
		return "string"
	}
	return t.String()
}

// Token is a single lexical token. Text is the raw source text; Value is the
// normalised identifier name or the unescaped string content (equal to Text
// for all other tokens).  The span is half-open: [Start, End).
type Token struct {
	Type  TokenType
	Text  string
	Value string
	Start decl.Location
	End   decl.Location
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Type, t.Text, t.Start)
}

// Describe renders the token for "found ..." parts of diagnostics.
func (t Token) Describe() string {
	switch t.Type {
	case EOF, NEWLINE:
		return t.Type.Describe()
	case IDENTIFIER, NUMBER_LITERAL, STRING_LITERAL:
		return fmt.Sprintf("%s %s", t.Type.Describe(), t.Text)
	}
	return t.Type.Describe()
}

// canStartExpr reports whether a token of this type may begin an expression.
func (t TokenType) canStartExpr() bool {
	switch t {
	case IDENTIFIER, NUMBER_LITERAL, STRING_LITERAL, TRUE, FALSE, NULL, LPAREN, LBRACKET, LBRACE:
		return true
	}
	return false
}
