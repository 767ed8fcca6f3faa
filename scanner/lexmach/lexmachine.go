package lexmach

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/formlang"
	"github.com/npillmayer/formlang/scanner"
	"github.com/npillmayer/schuko/tracing"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// tracer traces with key 'formlang.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("formlang.scanner")
}

// Rule is a lexer rule: a lexmachine regular expression together with the
// action to perform for its matches.
type Rule struct {
	Pattern string
	Action  lexmachine.Action
}

// Token is a rule producing tokens of category cat for every match of pattern.
func Token(pattern string, cat formlang.TokType) Rule {
	return Rule{Pattern: pattern, Action: emit(cat)}
}

// Literal is a rule producing tokens of category cat for every occurence of
// text lit. lit may contain regular expression operators, which are matched
// verbatim.
func Literal(lit string, cat formlang.TokType) Rule {
	quoted := "\\" + strings.Join(strings.Split(lit, ""), "\\")
	return Rule{Pattern: quoted, Action: emit(cat)}
}

// Ignore is a rule dropping every match of pattern.
func Ignore(pattern string) Rule {
	return Rule{Pattern: pattern, Action: skip}
}

func emit(cat formlang.TokType) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(int(cat), nil, m), nil
	}
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// --- Lexer -----------------------------------------------------------------

// Lexer is a compiled set of rules.
type Lexer struct {
	lm *lexmachine.Lexer
}

// Compile creates a lexer from rules. If two rules match input of equal length,
// the one given first wins.
func Compile(rules ...Rule) (*Lexer, error) {
	lm := lexmachine.NewLexer()
	for _, r := range rules {
		lm.Add([]byte(r.Pattern), r.Action)
	}
	if err := lm.Compile(); err != nil {
		tracer().Errorf("cannot compile lexer DFA: %v", err)
		return nil, fmt.Errorf("compiling lexer: %w", err)
	}
	return &Lexer{lm: lm}, nil
}

// Scan creates a tokenizer for input.
func (lx *Lexer) Scan(input string) (*Scanner, error) {
	s, err := lx.lm.Scanner([]byte(input))
	if err != nil {
		return nil, err
	}
	return &Scanner{lm: s, input: input, onError: traceError}, nil
}

// --- Scanner ---------------------------------------------------------------

// Illegal is a character of the input which does not start any token.
type Illegal struct {
	Char   rune
	Offset int // byte offset in the input
}

// Scanner tokenizes a single input. Characters which do not start a token are
// skipped; Illegal lists them after scanning.
type Scanner struct {
	lm      *lexmachine.Scanner
	input   string
	onError func(error)
	illegal []Illegal
	done    bool
}

var _ scanner.Tokenizer = (*Scanner)(nil)

// SetErrorHandler installs a handler for scanning errors. Handlers receive
// lexmachine's *machines.UnconsumedInput for illegal characters, which are
// skipped after the handler returns. A nil handler restores the default,
// which writes errors to the tracer.
func (s *Scanner) SetErrorHandler(h func(error)) {
	if h == nil {
		h = traceError
	}
	s.onError = h
}

// Illegal returns the characters skipped so far, in input order.
func (s *Scanner) Illegal() []Illegal {
	return s.illegal
}

// NextToken is part of the Tokenizer interface. Token spans are byte offsets
// into the input. The EOF token has an empty span at the end of the input.
func (s *Scanner) NextToken() formlang.Token {
	for !s.done {
		tok, err, eof := s.lm.Next()
		switch {
		case err != nil:
			s.recover(err)
		case eof:
			s.done = true
		default:
			t := tok.(*lexmachine.Token)
			from := uint64(t.TC)
			return scanner.NewToken(formlang.TokType(t.Type), string(t.Lexeme),
				formlang.Span{from, from + uint64(len(t.Lexeme))})
		}
	}
	end := uint64(len(s.input))
	return scanner.NewToken(scanner.EOF, "", formlang.Span{end, end})
}

// recover reports err and moves the scanner behind the offending character.
// Errors other than unconsumed input end the scan.
func (s *Scanner) recover(err error) {
	s.onError(err)
	ui, ok := err.(*machines.UnconsumedInput)
	if !ok || ui.StartTC >= len(s.input) {
		s.done = true
		return
	}
	r, size := utf8.DecodeRuneInString(s.input[ui.StartTC:])
	s.illegal = append(s.illegal, Illegal{Char: r, Offset: ui.StartTC})
	tracer().Debugf("skipping illegal character %q at offset %d", r, ui.StartTC)
	next := ui.StartTC + size
	if ui.FailTC > next {
		next = ui.FailTC
	}
	s.lm.TC = next
}

func traceError(e error) {
	tracer().Infof("scanner: %v", e)
}
