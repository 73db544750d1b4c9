package parser

import (
	"strconv"

	"github.com/panyam/hclexpr/decl"
)

// ParseExpression parses one expression.  The grammar has no operators, so
// an expression is a single term with its postfix suffixes applied.
func (p *LLParser) ParseExpression() (decl.Expr, *ParseError) {
	return p.ParseExprTerm()
}

// ParseExprTerm parses a primary expression and then wraps it in index,
// attribute access and splat suffixes for as long as they follow.  This is
// the iterative form of the left recursive rules
//
//	ExprTerm: ExprTerm '[' Expression ']'
//	ExprTerm: ExprTerm '.' IDENTIFIER
//	ExprTerm: ExprTerm Splat
func (p *LLParser) ParseExprTerm() (expr decl.Expr, err *ParseError) {
	if expr, err = p.ParsePrimaryExpr(); err != nil {
		return nil, err
	}
	for {
		switch p.PeekToken() {
		case LBRACKET:
			if p.PeekN(1).Type == STAR && p.PeekN(2).Type == RBRACKET {
				expr, err = p.parseSplatFull(expr)
			} else {
				expr, err = p.parseIndex(expr)
			}
		case DOT:
			switch p.PeekN(1).Type {
			case STAR:
				expr, err = p.parseSplatAttr(expr)
			case IDENTIFIER:
				p.Advance() // Consume DOT
				name := newIdentifier(p.Advance())
				expr = &decl.GetAttrExpr{
					ExprBase: exprBase(expr.Pos(), name.End()),
					Base:     expr,
					Name:     name,
				}
			default:
				p.Advance()
				return nil, p.unexpected(IDENTIFIER, STAR)
			}
		default:
			return expr, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func exprBase(start, stop decl.Location) decl.ExprBase {
	return decl.ExprBase{NodeInfo: decl.NodeInfo{StartPos: start, StopPos: stop}}
}

// ParsePrimaryExpr dispatches on the current token.  `[` and `{` are
// resolved by looking at the token after the bracket: `for` starts a
// comprehension.  An identifier directly followed by `(` is a call.
func (p *LLParser) ParsePrimaryExpr() (decl.Expr, *ParseError) {
	tok := p.Peek()
	switch tok.Type {
	case NUMBER_LITERAL, TRUE, FALSE, NULL, STRING_LITERAL:
		lit, err := p.ParseLiteralExpr()
		if err != nil {
			return nil, err
		}
		return lit, nil
	case IDENTIFIER:
		if p.PeekN(1).Type == LPAREN {
			return p.parseCall()
		}
		p.Advance()
		return &decl.VariableExpr{ExprBase: exprBase(tok.Start, tok.End), Name: tok.Value}, nil
	case LPAREN:
		return p.parseParen()
	case LBRACKET:
		opener := p.open()
		p.skipNewlines()
		if p.PeekToken() == FOR {
			return p.parseForTuple(opener)
		}
		return p.parseTuple(opener)
	case LBRACE:
		opener := p.open()
		p.skipNewlines()
		if p.PeekToken() == FOR {
			return p.parseForObject(opener)
		}
		return p.parseObject(opener)
	}
	return nil, p.errorAt(UnexpectedToken, tok, []string{"expression"})
}

// ParseLiteralExpr parses a literal value.
// Grammar: NUMBER_LITERAL | STRING_LITERAL | TRUE | FALSE | NULL
func (p *LLParser) ParseLiteralExpr() (*decl.LiteralExpr, *ParseError) {
	tok, err := p.AdvanceIf(NUMBER_LITERAL, STRING_LITERAL, TRUE, FALSE, NULL)
	if err != nil {
		return nil, err
	}
	out := &decl.LiteralExpr{ExprBase: exprBase(tok.Start, tok.End), Raw: tok.Text}
	switch tok.Type {
	case NUMBER_LITERAL:
		out.Kind = decl.NumberLiteral
		// The lexer only emits numbers that parse
		out.Number, _ = strconv.ParseFloat(tok.Text, 64)
	case STRING_LITERAL:
		out.Kind = decl.StringLiteral
		out.Str = tok.Value
	case TRUE, FALSE:
		out.Kind = decl.BoolLiteral
		out.Bool = tok.Type == TRUE
	case NULL:
		out.Kind = decl.NullLiteral
	}
	return out, nil
}

func (p *LLParser) parseParen() (decl.Expr, *ParseError) {
	opener := p.open()
	p.skipNewlines()
	inner, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	p.skipNewlinesBefore(RPAREN)
	closer, err := p.close(RPAREN)
	if err != nil {
		return nil, err
	}
	return &decl.ParenExpr{ExprBase: exprBase(opener.Start, closer.End), Inner: inner}, nil
}

// parseCall parses `IDENTIFIER '(' (Expression (',' Expression)* (',' | '...')?)? ')'`.
func (p *LLParser) parseCall() (decl.Expr, *ParseError) {
	out := &decl.CallExpr{Name: newIdentifier(p.Advance())}
	p.open()
	p.skipNewlines()
args:
	for p.PeekToken() != RPAREN {
		arg, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		out.Args = append(out.Args, arg)
		p.skipNewlinesBefore(COMMA, ELLIPSIS, RPAREN)
		switch p.PeekToken() {
		case COMMA:
			p.Advance()
			p.skipNewlines()
		case ELLIPSIS:
			p.Advance()
			out.ExpandFinal = true
			p.skipNewlinesBefore(RPAREN)
			break args
		case RPAREN:
		default:
			return nil, p.listError(COMMA, ELLIPSIS, RPAREN)
		}
	}
	closer, err := p.close(RPAREN)
	if err != nil {
		return nil, err
	}
	out.ExprBase = exprBase(out.Name.Pos(), closer.End)
	return out, nil
}

// parseTuple parses the rest of `'[' (Expression (',' Expression)* ','?)? ']'`
// after the opening bracket.
func (p *LLParser) parseTuple(opener Token) (decl.Expr, *ParseError) {
	out := &decl.TupleExpr{}
	for p.PeekToken() != RBRACKET {
		item, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, item)
		p.skipNewlinesBefore(COMMA, RBRACKET)
		if p.PeekToken() == COMMA {
			p.Advance()
			p.skipNewlines()
		} else if p.PeekToken() != RBRACKET {
			return nil, p.listError(COMMA, RBRACKET)
		}
	}
	closer, err := p.close(RBRACKET)
	if err != nil {
		return nil, err
	}
	out.ExprBase = exprBase(opener.Start, closer.End)
	return out, nil
}

// parseObject parses the rest of `'{' (ObjectElem (',' ObjectElem)* ','?)? '}'`
// after the opening brace.
func (p *LLParser) parseObject(opener Token) (decl.Expr, *ParseError) {
	out := &decl.ObjectExpr{}
	for p.PeekToken() != RBRACE {
		elem, err := p.parseObjectElem()
		if err != nil {
			return nil, err
		}
		out.Elems = append(out.Elems, elem)
		p.skipNewlinesBefore(COMMA, RBRACE)
		if p.PeekToken() == COMMA {
			p.Advance()
			p.skipNewlines()
		} else if p.PeekToken() != RBRACE {
			return nil, p.listError(COMMA, RBRACE)
		}
	}
	closer, err := p.close(RBRACE)
	if err != nil {
		return nil, err
	}
	out.ExprBase = exprBase(opener.Start, closer.End)
	return out, nil
}

// parseObjectElem parses `(IDENTIFIER | Expression) ('=' | ':') Expression`.
// An identifier directly followed by a separator is always a bareword key,
// even though it would also parse as a variable expression.
func (p *LLParser) parseObjectElem() (*decl.ObjectElem, *ParseError) {
	out := &decl.ObjectElem{}
	keyTok := p.Peek()
	if next := p.PeekN(1).Type; keyTok.Type == IDENTIFIER && (next == ASSIGN || next == COLON) {
		out.KeyIdent = newIdentifier(p.Advance())
	} else if keyTok.Type.canStartExpr() {
		key, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		out.KeyExpr = key
	} else {
		return nil, p.errorAt(InvalidObjectElemKey, keyTok, []string{"object key"})
	}

	sep := p.Peek()
	if sep.Type != ASSIGN && sep.Type != COLON {
		expected := describeAll([]TokenType{ASSIGN, COLON})
		if sep.Type == NEWLINE || sep.Type == EOF {
			return nil, p.errorAt(UnexpectedToken, sep, expected)
		}
		err := p.errorAt(InvalidObjectElemKey, sep, expected)
		err.Pos = keyTok.Start
		return nil, err
	}
	p.Advance()

	value, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	out.Value = value
	out.NodeInfo = decl.NodeInfo{StartPos: keyTok.Start, StopPos: value.End()}
	return out, nil
}

// parseForIntro parses `'for' IDENTIFIER (',' IDENTIFIER)? 'in' Expression ':'`.
func (p *LLParser) parseForIntro() (*decl.ForIntro, *ParseError) {
	forTok, err := p.AdvanceIf(FOR)
	if err != nil {
		return nil, err
	}
	out := &decl.ForIntro{}
	if out.Var1, err = p.ParseIdentifier(); err != nil {
		return nil, err
	}
	if p.PeekToken() == COMMA {
		p.Advance()
		if out.Var2, err = p.ParseIdentifier(); err != nil {
			return nil, err
		}
	}
	if _, err = p.AdvanceIf(IN); err != nil {
		return nil, err
	}
	if out.Source, err = p.ParseExpression(); err != nil {
		return nil, err
	}
	colon, err := p.AdvanceIf(COLON)
	if err != nil {
		return nil, err
	}
	out.NodeInfo = decl.NodeInfo{StartPos: forTok.Start, StopPos: colon.End}
	p.skipNewlines()
	return out, nil
}

// parseForCond parses an optional `'if' Expression` and leaves the parser at
// the closing token.
func (p *LLParser) parseForCond(closer TokenType) (cond decl.Expr, err *ParseError) {
	p.skipNewlinesBefore(IF, closer)
	if p.PeekToken() == IF {
		p.Advance()
		if cond, err = p.ParseExpression(); err != nil {
			return nil, err
		}
		p.skipNewlinesBefore(closer)
		if p.PeekToken() != closer {
			return nil, p.unexpected(closer)
		}
		return cond, nil
	}
	if p.PeekToken() != closer {
		return nil, p.unexpected(IF, closer)
	}
	return nil, nil
}

// parseForTuple parses the rest of `'[' ForIntro Expression ('if' Expression)? ']'`.
func (p *LLParser) parseForTuple(opener Token) (decl.Expr, *ParseError) {
	out := &decl.ForTupleExpr{}
	var err *ParseError
	if out.Intro, err = p.parseForIntro(); err != nil {
		return nil, err
	}
	if out.Body, err = p.ParseExpression(); err != nil {
		return nil, err
	}
	if out.Cond, err = p.parseForCond(RBRACKET); err != nil {
		return nil, err
	}
	closer, err := p.close(RBRACKET)
	if err != nil {
		return nil, err
	}
	out.ExprBase = exprBase(opener.Start, closer.End)
	return out, nil
}

// parseForObject parses the rest of
// `'{' ForIntro Expression '=>' Expression '...'? ('if' Expression)? '}'`.
func (p *LLParser) parseForObject(opener Token) (decl.Expr, *ParseError) {
	out := &decl.ForObjectExpr{}
	var err *ParseError
	if out.Intro, err = p.parseForIntro(); err != nil {
		return nil, err
	}
	if out.KeyExpr, err = p.ParseExpression(); err != nil {
		return nil, err
	}
	p.skipNewlinesBefore(ARROW)
	if _, err = p.AdvanceIf(ARROW); err != nil {
		return nil, err
	}
	p.skipNewlines()
	if out.ValueExpr, err = p.ParseExpression(); err != nil {
		return nil, err
	}
	p.skipNewlinesBefore(ELLIPSIS, IF, RBRACE)
	if p.PeekToken() == ELLIPSIS {
		p.Advance()
		out.Group = true
	} else if tt := p.PeekToken(); tt != IF && tt != RBRACE {
		return nil, p.unexpected(ELLIPSIS, IF, RBRACE)
	}
	if out.Cond, err = p.parseForCond(RBRACE); err != nil {
		return nil, err
	}
	closer, err := p.close(RBRACE)
	if err != nil {
		return nil, err
	}
	out.ExprBase = exprBase(opener.Start, closer.End)
	return out, nil
}

// parseIndex parses `'[' Expression ']'` after base.
func (p *LLParser) parseIndex(base decl.Expr) (decl.Expr, *ParseError) {
	key, closer, err := p.parseBracketKey()
	if err != nil {
		return nil, err
	}
	return &decl.IndexExpr{ExprBase: exprBase(base.Pos(), closer.End), Base: base, Index: key}, nil
}

func (p *LLParser) parseBracketKey() (key decl.Expr, closer Token, err *ParseError) {
	p.open()
	p.skipNewlines()
	if key, err = p.ParseExpression(); err != nil {
		return nil, closer, err
	}
	p.skipNewlinesBefore(RBRACKET)
	closer, err = p.close(RBRACKET)
	return key, closer, err
}

// parseSplatAttr parses `'.' '*'` and the `.name` steps that follow it.
func (p *LLParser) parseSplatAttr(base decl.Expr) (decl.Expr, *ParseError) {
	p.Advance() // Consume DOT
	star := p.Advance()
	out := &decl.SplatAttrExpr{Base: base}
	stop := star.End
	for p.PeekToken() == DOT && p.PeekN(1).Type == IDENTIFIER {
		step := p.parseTraverseAttr()
		out.Chain = append(out.Chain, step)
		stop = step.End()
	}
	out.ExprBase = exprBase(base.Pos(), stop)
	return out, nil
}

// parseSplatFull parses `'[' '*' ']'` and the `.name` and `[key]` steps that
// follow it.  Another splat ends the chain.
func (p *LLParser) parseSplatFull(base decl.Expr) (decl.Expr, *ParseError) {
	p.Advance() // Consume LBRACKET
	p.Advance() // Consume STAR
	closer := p.Advance()
	out := &decl.SplatFullExpr{Base: base}
	stop := closer.End
	for {
		var step decl.Traverser
		if p.PeekToken() == DOT && p.PeekN(1).Type == IDENTIFIER {
			step = p.parseTraverseAttr()
		} else if p.PeekToken() == LBRACKET && p.PeekN(1).Type != STAR {
			start := p.Peek().Start
			key, closer, err := p.parseBracketKey()
			if err != nil {
				return nil, err
			}
			step = &decl.TraverseIndex{NodeInfo: decl.NodeInfo{StartPos: start, StopPos: closer.End}, Key: key}
		} else {
			break
		}
		out.Chain = append(out.Chain, step)
		stop = step.End()
	}
	out.ExprBase = exprBase(base.Pos(), stop)
	return out, nil
}

func (p *LLParser) parseTraverseAttr() *decl.TraverseAttr {
	dot := p.Advance()
	name := newIdentifier(p.Advance())
	return &decl.TraverseAttr{NodeInfo: decl.NodeInfo{StartPos: dot.Start, StopPos: name.End()}, Name: name}
}
