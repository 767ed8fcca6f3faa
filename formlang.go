package formlang

import (
	"errors"
	"fmt"
)

// --- A general purpose interface for tokens --------------------------------

// TokType is a category type for a Token. We do not define any constants here, as
// it is up to the engines to define them.
type TokType int

// Tokens represent input tokens. They are produced by the tokenizers of the
// expression engines and reflect terminals of the respective grammar.
//
// An example would be a token for an integer literal:
//
//    TokType = Number      // identifier for this kind of tokens (engine specific)
//    Lexeme  = "42"        // lexeme how it appeared in the input
//    Span    = 6…8         // occured from byte position 6 in the input
//
type Token interface {
	TokType() TokType
	Lexeme() string
	Span() Span
}

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing the extent of a token in the input.
// A span denotes a start position and the position just behind the end,
// both as byte offsets.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

// Position returns the 1-based input position of the first character of s.
func (s Span) Position() int {
	return int(s[0]) + 1
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}

// --- Error categories --------------------------------------------------

// Errors returned by the engines wrap one of these, so clients may test
// with errors.Is.
var (
	// ErrMalformedSpec flags a top-level definition with the wrong shape or
	// field count.
	ErrMalformedSpec = errors.New("malformed specification")

	// ErrUnknownReference flags a state or symbol which is used but not declared.
	ErrUnknownReference = errors.New("unknown reference")

	// ErrSyntax flags a grammar violation in an expression or a rule line.
	ErrSyntax = errors.New("syntax error")
)
