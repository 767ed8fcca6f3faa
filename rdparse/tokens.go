package rdparse

import (
	"strings"
	"sync"
	"unicode"

	"github.com/npillmayer/formlang"
	"github.com/npillmayer/formlang/scanner"
	"github.com/npillmayer/formlang/scanner/lexmach"
)

// Token types. Operators and parentheses use their character as token type.
const (
	Number = formlang.TokType(scanner.Int)
	Ident  = formlang.TokType(scanner.Ident)
	EOF    = formlang.TokType(scanner.EOF)
)

var literals = []string{"+", "-", "*", "/", "(", ")"}

var lexer *lexmach.Lexer
var lexerErr error
var initOnce sync.Once // monitors one-time initialization

func initLexer() {
	initOnce.Do(func() {
		rules := []lexmach.Rule{
			lexmach.Token(`[0-9]+`, Number),
			lexmach.Token(`([a-z]|[A-Z])([a-z]|[A-Z]|[0-9])*`, Ident),
		}
		for _, lit := range literals {
			rules = append(rules, lexmach.Literal(lit, formlang.TokType(lit[0])))
		}
		lexer, lexerErr = lexmach.Compile(rules...)
	})
}

// Tokenize strips all whitespace from input and splits the rest into tokens.
// Characters not starting a token are dropped and returned as skipped.
// Token spans refer to the input with whitespace removed.
func Tokenize(input string) (tokens []formlang.Token, skipped []string, err error) {
	initLexer()
	if lexerErr != nil {
		return nil, nil, lexerErr
	}
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, input)
	scan, err := lexer.Scan(stripped)
	if err != nil {
		return nil, nil, err
	}
	scan.SetErrorHandler(func(e error) {
		tracer().Debugf("dropping input: %v", e)
	})
	tokens = scanner.Tokens(scan)
	for _, ill := range scan.Illegal() {
		skipped = append(skipped, string(ill.Char))
	}
	return tokens, skipped, nil
}

func describe(t formlang.Token) string {
	switch t.TokType() {
	case Number:
		return "number " + t.Lexeme()
	case Ident:
		return "identifier " + t.Lexeme()
	case EOF:
		return "end of input"
	}
	return "'" + t.Lexeme() + "'"
}
