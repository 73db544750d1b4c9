package parser

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/panyam/hclexpr/decl"
	"golang.org/x/text/unicode/norm"
)

const eof = -1

// Lexer structure
type Lexer struct {
	lookaheadRunes  []rune
	lookaheadWidths []int
	reader          *bufio.Reader
	buf             bytes.Buffer    // Temporary buffer for scanned values
	raw             strings.Builder // Raw text of string literals
	pos             int             // Current byte offset from the beginning of the input
	lastError       *LexError

	// Position where the current token started
	tokenStart decl.Location

	// Current line and column (rune-based) in the input
	line int
	col  int
}

// NewLexer creates a new lexer instance
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(r),
		pos:    0,
		line:   1,
		col:    1,
	}
}

// Location returns the current position of the lexer.
func (l *Lexer) Location() decl.Location {
	return decl.Location{Offset: l.pos, Line: l.line, Column: l.col}
}

// Err returns the error that halted the lexer, if any.
func (l *Lexer) Err() error {
	if l.lastError == nil {
		return nil
	}
	return l.lastError
}

// --- Rune Reading Helpers (with line/col tracking) ---
func (l *Lexer) read() (r rune, width int) {
	if l.peek() == eof {
		return eof, 0
	}
	r, width = l.lookaheadRunes[0], l.lookaheadWidths[0]
	l.lookaheadRunes, l.lookaheadWidths = l.lookaheadRunes[1:], l.lookaheadWidths[1:]
	l.updatePosition(r, width)
	return r, width
}

func (l *Lexer) updatePosition(r rune, width int) {
	l.pos += width
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *Lexer) peekN(nthchar int) rune {
	if l.ensureLookAhead(nthchar+1) <= nthchar {
		return eof
	}
	return l.lookaheadRunes[nthchar]
}

func (l *Lexer) peek() rune {
	return l.peekN(0)
}

func (l *Lexer) ensureLookAhead(numchars int) int {
	for len(l.lookaheadRunes) < numchars {
		r, width, err := l.reader.ReadRune()
		if err != nil {
			break
		}
		l.lookaheadRunes = append(l.lookaheadRunes, r)
		l.lookaheadWidths = append(l.lookaheadWidths, width)
	}
	return len(l.lookaheadRunes)
}

// --- Scanning Functions ---

// skipWhitespace skips everything unicode considers a space except '\n',
// which is a token of its own.
func (l *Lexer) skipWhitespace() {
	for r := l.peek(); r != eof && r != '\n' && unicode.IsSpace(r); r = l.peek() {
		l.read()
	}
}

func isDecimal(r rune) bool { return r >= '0' && r <= '9' }

func isIdentifierRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-'
}

func (l *Lexer) emit(tt TokenType, text, value string) Token {
	return Token{Type: tt, Text: text, Value: value, Start: l.tokenStart, End: l.Location()}
}

func (l *Lexer) fail(kind LexErrorKind, at decl.Location, text string) (Token, error) {
	l.lastError = &LexError{Kind: kind, Pos: at, Text: text}
	return Token{Type: EOF, Start: at, End: at}, l.lastError
}

func (l *Lexer) scanIdentifierOrKeyword() Token {
	l.buf.Reset()
	for r := l.peek(); r != eof && isIdentifierRune(r); r = l.peek() {
		l.read()
		l.buf.WriteRune(r)
	}
	text := l.buf.String()
	if tt, ok := keywords[text]; ok {
		return l.emit(tt, text, text)
	}
	return l.emit(IDENTIFIER, text, norm.NFC.String(text))
}

func (l *Lexer) scanDigits() {
	for r := l.peek(); isDecimal(r); r = l.peek() {
		l.read()
		l.buf.WriteRune(r)
	}
}

// scanNumber reads decimal+ ("." decimal+)? (("e"|"E") ("+"|"-")? decimal+)?
// A '.' not followed by a digit is left for the punctuation scanner.
func (l *Lexer) scanNumber() (Token, error) {
	l.buf.Reset()
	l.scanDigits()
	if l.peek() == '.' && isDecimal(l.peekN(1)) {
		l.read()
		l.buf.WriteRune('.')
		l.scanDigits()
	}
	if r := l.peek(); r == 'e' || r == 'E' {
		markLen := 1
		if sign := l.peekN(1); sign == '+' || sign == '-' {
			markLen = 2
		}
		hasDigits := isDecimal(l.peekN(markLen))
		for range markLen {
			r, _ := l.read()
			l.buf.WriteRune(r)
		}
		if !hasDigits {
			return l.fail(MalformedNumber, l.tokenStart, l.buf.String())
		}
		l.scanDigits()
	}
	text := l.buf.String()
	// Out of range values are still numbers; the parser stores them as ±Inf or 0
	if _, err := strconv.ParseFloat(text, 64); err != nil && !errors.Is(err, strconv.ErrRange) {
		return l.fail(MalformedNumber, l.tokenStart, text)
	}
	return l.emit(NUMBER_LITERAL, text, text), nil
}

// scanString reads a double quoted literal.  `$${` and `%%{` stand for a
// literal `${` and `%{`; unescaped template openers are rejected.
func (l *Lexer) scanString() (Token, error) {
	l.buf.Reset()
	l.raw.Reset()
	l.read() // Consume opening '"'
	l.raw.WriteRune('"')
	for {
		r := l.peek()
		switch {
		case r == eof || r == '\n':
			return l.fail(UnterminatedString, l.tokenStart, l.raw.String())
		case r == '"':
			l.read()
			l.raw.WriteRune('"')
			return l.emit(STRING_LITERAL, l.raw.String(), l.buf.String()), nil
		case r == '\\':
			escAt := l.Location()
			l.read()
			esc := l.peek()
			var out rune
			switch esc {
			case 'n':
				out = '\n'
			case 'r':
				out = '\r'
			case 't':
				out = '\t'
			case '"', '\\':
				out = esc
			default:
				if esc == eof || esc == '\n' {
					return l.fail(UnterminatedString, l.tokenStart, l.raw.String()+`\`)
				}
				return l.fail(InvalidEscape, escAt, `\`+string(esc))
			}
			l.read()
			l.raw.WriteRune('\\')
			l.raw.WriteRune(esc)
			l.buf.WriteRune(out)
		case (r == '$' || r == '%') && l.peekN(1) == r && l.peekN(2) == '{':
			l.read()
			l.read()
			l.read()
			l.raw.WriteString(string([]rune{r, r, '{'}))
			l.buf.WriteString(string([]rune{r, '{'}))
		case (r == '$' || r == '%') && l.peekN(1) == '{':
			return l.fail(TemplateNotSupported, l.Location(), string([]rune{r, '{'}))
		case r == utf8.RuneError && l.lookaheadWidths[0] == 1:
			return l.fail(UnexpectedChar, l.Location(), string(r))
		default:
			l.read()
			l.raw.WriteRune(r)
			l.buf.WriteRune(r)
		}
	}
}

var singleCharTokens = map[rune]TokenType{
	'{': LBRACE,
	'}': RBRACE,
	'[': LBRACKET,
	']': RBRACKET,
	'(': LPAREN,
	')': RPAREN,
	',': COMMA,
	':': COLON,
	'*': STAR,
}

func (l *Lexer) scanPunctuation() (Token, error) {
	r, _ := l.read()
	if tt, ok := singleCharTokens[r]; ok {
		return l.emit(tt, string(r), string(r)), nil
	}
	switch r {
	case '=':
		if l.peek() == '>' {
			l.read()
			return l.emit(ARROW, "=>", "=>"), nil
		}
		return l.emit(ASSIGN, "=", "="), nil
	case '.':
		if l.peek() == '.' {
			if l.peekN(1) == '.' {
				l.read()
				l.read()
				return l.emit(ELLIPSIS, "...", "..."), nil
			}
			return l.fail(UnexpectedChar, l.tokenStart, "..")
		}
		return l.emit(DOT, ".", "."), nil
	}
	return l.fail(UnexpectedChar, l.tokenStart, string(r))
}

// Next returns the next token.  After EOF it keeps returning EOF; after a
// LexError it keeps returning the same error.
func (l *Lexer) Next() (Token, error) {
	if l.lastError != nil {
		return Token{Type: EOF, Start: l.lastError.Pos, End: l.lastError.Pos}, l.lastError
	}
	l.skipWhitespace()
	l.tokenStart = l.Location()

	r := l.peek()
	switch {
	case r == eof:
		return l.emit(EOF, "", ""), nil
	case r == '\n':
		l.read()
		return l.emit(NEWLINE, "\n", "\n"), nil
	case unicode.IsLetter(r) || r == '_':
		return l.scanIdentifierOrKeyword(), nil
	case isDecimal(r):
		return l.scanNumber()
	case r == '"':
		return l.scanString()
	}
	return l.scanPunctuation()
}
