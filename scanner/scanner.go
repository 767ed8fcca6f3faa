/*
Package scanner defines the tokenizer interface shared by the engines of
package formlang, together with the token type all tokenizers produce.

Definitions of pushdown automata are read with a tokenizer for Go-like
tokens, built on 'text/scanner'. Expressions are tokenized by DFAs generated
with lexmachine, see sub-package `lexmach`.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"fmt"
	"io"
	"text/scanner"

	"github.com/npillmayer/formlang"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'formlang.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("formlang.scanner")
}

// Token categories shared by all tokenizers. Single-character tokens use the
// character itself as their category.
const (
	EOF    = scanner.EOF
	Ident  = scanner.Ident
	Int    = scanner.Int
	Float  = scanner.Float
	String = scanner.String
)

// Tokenizer produces a stream of tokens, terminated by a token of category EOF.
// Errors are reported to the error handler; tokenizers recover from them and
// continue.
type Tokenizer interface {
	NextToken() formlang.Token
	SetErrorHandler(func(error))
}

// Tokens drains t, returning all tokens before EOF.
func Tokens(t Tokenizer) []formlang.Token {
	var toks []formlang.Token
	for token := t.NextToken(); token.TokType() != EOF; token = t.NextToken() {
		toks = append(toks, token)
	}
	return toks
}

// --- Tokens ----------------------------------------------------------------

// Token is the token type produced by the tokenizers of this module.
type Token struct {
	category formlang.TokType
	lexeme   string
	span     formlang.Span
}

var _ formlang.Token = Token{}

// NewToken creates a token of a category, with its lexeme and its position
// in the input.
func NewToken(category formlang.TokType, lexeme string, span formlang.Span) Token {
	return Token{category: category, lexeme: lexeme, span: span}
}

// TokType returns the category of t.
func (t Token) TokType() formlang.TokType { return t.category }

// Lexeme returns t as it appeared in the input.
func (t Token) Lexeme() string { return t.lexeme }

// Span returns the byte offsets of t in the input.
func (t Token) Span() formlang.Span { return t.span }

func (t Token) String() string {
	return fmt.Sprintf("%q%v", t.lexeme, t.span)
}

// --- Go-like tokens --------------------------------------------------------

// TextTokenizer reads Go-like tokens: identifiers, numbers, strings and
// single characters. Comments are skipped.
type TextTokenizer struct {
	sc      scanner.Scanner
	onError func(error)
}

var _ Tokenizer = (*TextTokenizer)(nil)

// GoTokenizer creates a tokenizer for Go-like tokens. Identifiers may contain
// any Unicode letter, thus 'δ' and 'ε' are scanned as identifiers. source names
// the input in error messages.
func GoTokenizer(source string, input io.Reader) *TextTokenizer {
	t := &TextTokenizer{onError: traceError}
	t.sc.Init(input)
	t.sc.Filename = source
	t.sc.Error = func(s *scanner.Scanner, msg string) {
		t.onError(fmt.Errorf("%s: %s", s.Position, msg))
	}
	return t
}

// SetErrorHandler replaces the default handler, which writes errors to the
// tracer. A nil handler restores the default.
func (t *TextTokenizer) SetErrorHandler(h func(error)) {
	if h == nil {
		h = traceError
	}
	t.onError = h
}

// NextToken is part of the Tokenizer interface.
func (t *TextTokenizer) NextToken() formlang.Token {
	r := t.sc.Scan()
	from, to := uint64(t.sc.Position.Offset), uint64(t.sc.Pos().Offset)
	if r == scanner.EOF {
		from = to
	}
	return NewToken(formlang.TokType(r), t.sc.TokenText(), formlang.Span{from, to})
}

func traceError(e error) {
	tracer().Errorf("scanner error: %v", e)
}
