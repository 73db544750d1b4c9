package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/panyam/hclexpr/decl"
)

// ErrInputTooLarge is returned before lexing when the source exceeds the
// configured maximum size.
var ErrInputTooLarge = errors.New("input exceeds maximum size")

// LexErrorKind categorises lexical failures.
type LexErrorKind int

const (
	UnexpectedChar LexErrorKind = iota
	MalformedNumber
	UnterminatedString
	InvalidEscape
	TemplateNotSupported
)

func (k LexErrorKind) String() string {
	switch k {
	case UnexpectedChar:
		return "unexpected character"
	case MalformedNumber:
		return "malformed number"
	case UnterminatedString:
		return "unterminated string"
	case InvalidEscape:
		return "invalid escape sequence"
	case TemplateNotSupported:
		return "template sequences are not supported"
	}
	return fmt.Sprintf("LexErrorKind(%d)", int(k))
}

// LexError halts tokenization. Text is the offending source fragment.
type LexError struct {
	Kind LexErrorKind
	Pos  decl.Location
	Text string
}

func (e *LexError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("%s: %s", e.Pos, e.Kind)
	}
	return fmt.Sprintf("%s: %s %q", e.Pos, e.Kind, e.Text)
}

// ErrorKind categorises parse failures.
type ErrorKind int

const (
	UnexpectedToken ErrorKind = iota
	UnterminatedConstruct
	MissingSeparator
	InvalidObjectElemKey
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "unexpected token"
	case UnterminatedConstruct:
		return "unterminated construct"
	case MissingSeparator:
		return "missing separator"
	case InvalidObjectElemKey:
		return "invalid object key"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ParseError is one diagnostic produced while parsing.  Pos is where the
// offending token starts.  Opener and OpenedAt are only set for
// UnterminatedConstruct and name the bracket that was never closed.
type ParseError struct {
	Kind     ErrorKind
	Pos      decl.Location
	Expected []string
	Found    string
	Opener   string
	OpenedAt decl.Location
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Pos.String())
	sb.WriteString(": ")
	switch e.Kind {
	case UnterminatedConstruct:
		fmt.Fprintf(&sb, "unterminated '%s' opened at %s", e.Opener, e.OpenedAt)
	default:
		sb.WriteString(e.Kind.String())
	}
	if len(e.Expected) > 0 {
		sb.WriteString(": expected ")
		sb.WriteString(joinAlternatives(e.Expected))
		if e.Found != "" {
			sb.WriteString(", found ")
			sb.WriteString(e.Found)
		}
	} else if e.Found != "" {
		sb.WriteString(": found ")
		sb.WriteString(e.Found)
	}
	return sb.String()
}

func joinAlternatives(alts []string) string {
	switch len(alts) {
	case 1:
		return alts[0]
	case 2:
		return alts[0] + " or " + alts[1]
	}
	return "one of " + strings.Join(alts, ", ")
}

// ErrorList is the set of diagnostics collected from one parse call, in
// source order.
type ErrorList []*ParseError

func (l ErrorList) Error() string {
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

func (l ErrorList) Unwrap() []error {
	out := make([]error, len(l))
	for i, e := range l {
		out[i] = e
	}
	return out
}

// Err returns nil for an empty list so callers can test err != nil.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
