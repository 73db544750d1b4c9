package parser

import (
	"slices"

	"github.com/panyam/hclexpr/decl"
	gfn "github.com/panyam/goutils/fn"
)

// LLParser is a hand written recursive descent parser over a fully lexed
// token stream.  The stream always ends with an EOF token.
type LLParser struct {
	tokens []Token
	pos    int

	// Opening brackets of the constructs currently being parsed, innermost last
	brackets []Token

	config *ParserConfig
	Errors ErrorList
}

func NewLLParser(tokens []Token, opts ...ParserOpt) *LLParser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != EOF {
		tokens = append(tokens, Token{Type: EOF})
	}
	return &LLParser{tokens: tokens, config: newParserConfig(opts...)}
}

// Parse reads `attribute terminator` statements until EOF.  A malformed
// attribute is recorded in p.Errors and skipped up to the next newline so
// later attributes are still collected.
func (p *LLParser) Parse(file *decl.FileDecl) error {
	file.StartPos = p.Peek().Start
	for {
		p.skipNewlines()
		if p.PeekToken() == EOF {
			break
		}
		attr, err := p.ParseAttribute()
		if err == nil {
			file.Attributes = append(file.Attributes, attr)
			continue
		}
		p.Errors = append(p.Errors, err)
		p.config.logger.Debug("recovering from parse error",
			"file", file.FullPath, "pos", err.Pos.String(), "kind", err.Kind.String())
		if p.config.maxErrors > 0 && len(p.Errors) >= p.config.maxErrors {
			p.config.logger.Debug("error limit reached, stopping", "file", file.FullPath, "limit", p.config.maxErrors)
			break
		}
		p.synchronize()
	}
	file.StopPos = p.Peek().Start
	return p.Errors.Err()
}

// ParseAttribute parses `IDENTIFIER '=' Expression` followed by a newline or
// the end of input.  The terminating newline is consumed.
func (p *LLParser) ParseAttribute() (*decl.Attribute, *ParseError) {
	name, err := p.ParseIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err = p.AdvanceIf(ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if _, err = p.Expect(NEWLINE, EOF); err != nil {
		return nil, err
	}
	if p.PeekToken() == NEWLINE {
		p.Advance()
	}
	return &decl.Attribute{
		NodeInfo: decl.NodeInfo{StartPos: name.Pos(), StopPos: value.End()},
		Name:     name,
		Value:    value,
	}, nil
}

// synchronize drops every open construct and skips past the next newline.
func (p *LLParser) synchronize() {
	p.brackets = p.brackets[:0]
	skipped := 0
	for tt := p.PeekToken(); tt != NEWLINE && tt != EOF; tt = p.PeekToken() {
		p.Advance()
		skipped++
	}
	if p.PeekToken() == NEWLINE {
		p.Advance()
	}
	p.config.logger.Debug("resynchronized", "skipped_tokens", skipped, "resume", p.Peek().Start.String())
}

// --- Token stream helpers ---

func (p *LLParser) Peek() Token {
	return p.PeekN(0)
}

// PeekN returns the token n positions ahead without consuming anything.
// Looking past the end yields the final EOF token.
func (p *LLParser) PeekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *LLParser) PeekToken() TokenType {
	return p.Peek().Type
}

// Advance consumes and returns the current token.  EOF is never consumed.
func (p *LLParser) Advance() Token {
	tok := p.Peek()
	if tok.Type != EOF {
		p.pos++
	}
	return tok
}

// Expect checks if the current token is one of the expected tokens.
// It does NOT advance.
func (p *LLParser) Expect(tokensIn ...TokenType) (Token, *ParseError) {
	tok := p.Peek()
	if slices.Contains(tokensIn, tok.Type) {
		return tok, nil
	}
	return tok, p.unexpected(tokensIn...)
}

// AdvanceIf expects one of the given tokens and advances if found.
func (p *LLParser) AdvanceIf(tokensIn ...TokenType) (Token, *ParseError) {
	tok, err := p.Expect(tokensIn...)
	if err != nil {
		return tok, err
	}
	return p.Advance(), nil
}

// ParseIdentifier consumes an IDENTIFIER token.
func (p *LLParser) ParseIdentifier() (*decl.Identifier, *ParseError) {
	tok, err := p.AdvanceIf(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	return newIdentifier(tok), nil
}

func newIdentifier(tok Token) *decl.Identifier {
	return &decl.Identifier{NodeInfo: tokenInfo(tok), Name: tok.Value}
}

func tokenInfo(tok Token) decl.NodeInfo {
	return decl.NodeInfo{StartPos: tok.Start, StopPos: tok.End}
}

// --- Brackets and newlines ---

// open consumes an opening bracket and pushes it on the construct stack.
func (p *LLParser) open() Token {
	tok := p.Advance()
	p.brackets = append(p.brackets, tok)
	return tok
}

// close consumes the closing bracket of the innermost construct.
func (p *LLParser) close(tt TokenType) (Token, *ParseError) {
	tok, err := p.AdvanceIf(tt)
	if err != nil {
		return tok, err
	}
	p.brackets = p.brackets[:len(p.brackets)-1]
	return tok, nil
}

func (p *LLParser) skipNewlines() {
	for p.PeekToken() == NEWLINE {
		p.Advance()
	}
}

// skipNewlinesBefore skips a run of newlines only if the first token after
// it is one of tokensIn.  Otherwise the newline is left in place so it can
// end the construct.
func (p *LLParser) skipNewlinesBefore(tokensIn ...TokenType) {
	n := 0
	for p.PeekN(n).Type == NEWLINE {
		n++
	}
	if n > 0 && slices.Contains(tokensIn, p.PeekN(n).Type) {
		p.pos += n
	}
}

// --- Diagnostics ---

func describeAll(tokensIn []TokenType) []string {
	return gfn.Map(tokensIn, TokenType.Describe)
}

// unexpected reports the current token as not being one of tokensIn.
func (p *LLParser) unexpected(tokensIn ...TokenType) *ParseError {
	return p.errorAt(UnexpectedToken, p.Peek(), describeAll(tokensIn))
}

// errorAt builds a diagnostic for tok.  Running into a newline or the end of
// input while a bracket is open is reported against that bracket instead.
func (p *LLParser) errorAt(kind ErrorKind, tok Token, expected []string) *ParseError {
	err := &ParseError{Kind: kind, Pos: tok.Start, Expected: expected, Found: tok.Describe()}
	if (tok.Type == NEWLINE || tok.Type == EOF) && len(p.brackets) > 0 {
		opener := p.brackets[len(p.brackets)-1]
		err.Kind = UnterminatedConstruct
		err.Opener = opener.Text
		err.OpenedAt = opener.Start
	}
	return err
}

// listError is reported when a list item is not followed by a separator or
// the closing bracket.  Another expression in that position means a comma
// was left out.
func (p *LLParser) listError(tokensIn ...TokenType) *ParseError {
	tok := p.Peek()
	if tok.Type.canStartExpr() {
		return p.errorAt(MissingSeparator, tok, describeAll(tokensIn))
	}
	return p.unexpected(tokensIn...)
}
