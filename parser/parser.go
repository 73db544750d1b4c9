package parser

import (
	"bytes"

	"github.com/panyam/hclexpr/decl"
)

// Tokenize lexes all of src.  On success the returned slice ends with an EOF
// token.  On failure it holds the tokens read before the *LexError.  Of the
// options only WithMaxInputBytes applies.
func Tokenize(src []byte, opts ...ParserOpt) ([]Token, error) {
	if err := newParserConfig(opts...).checkInputSize(src); err != nil {
		return nil, err
	}
	lexer := NewLexer(bytes.NewReader(src))
	var tokens []Token
	for {
		tok, err := lexer.Next()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

// Parse parses a sequence of attributes.  Attributes that parsed cleanly are
// returned even when err is an ErrorList describing the ones that did not.
// A *LexError or ErrInputTooLarge means nothing was parsed.
func Parse(src []byte, opts ...ParserOpt) ([]*decl.Attribute, error) {
	file, err := ParseFile("", src, opts...)
	if file == nil {
		return nil, err
	}
	return file.Attributes, err
}

// ParseFile is Parse with the result wrapped in a FileDecl named name.
func ParseFile(name string, src []byte, opts ...ParserOpt) (*decl.FileDecl, error) {
	config := newParserConfig(opts...)
	if err := config.checkInputSize(src); err != nil {
		return nil, err
	}
	tokens, err := Tokenize(src)
	if err != nil {
		config.logger.Debug("lexing failed", "file", name, "error", err)
		return nil, err
	}
	p := NewLLParser(tokens, opts...)
	file := &decl.FileDecl{FullPath: name}
	err = p.Parse(file)
	return file, err
}

// ParseExpression parses src as exactly one expression.  Surrounding blank
// lines are allowed; anything else after the expression is an error.
func ParseExpression(src []byte, opts ...ParserOpt) (decl.Expr, error) {
	config := newParserConfig(opts...)
	if err := config.checkInputSize(src); err != nil {
		return nil, err
	}
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := NewLLParser(tokens, opts...)
	p.skipNewlines()
	expr, perr := p.ParseExpression()
	if perr != nil {
		return nil, perr
	}
	p.skipNewlines()
	if p.PeekToken() != EOF {
		return nil, p.unexpected(EOF)
	}
	return expr, nil
}
