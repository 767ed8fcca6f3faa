package rpn

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/npillmayer/formlang"
	"github.com/npillmayer/formlang/scanner"
	"github.com/npillmayer/formlang/scanner/lexmach"
)

// Token types. Operators and parentheses use their character as token type.
const (
	Number = formlang.TokType(scanner.Int)
	LParen = formlang.TokType('(')
	RParen = formlang.TokType(')')
	EOF    = formlang.TokType(scanner.EOF)
)

var operators = []string{"+", "-", "*", "/"}
var literals = append([]string{"(", ")"}, operators...)

// precedence of operators; non-operators have precedence 0.
func precedence(op string) int {
	switch op {
	case "+", "-":
		return 1
	case "*", "/":
		return 2
	}
	return 0
}

func isOperator(s string) bool {
	return precedence(s) > 0
}

var lexer *lexmach.Lexer
var lexerErr error
var initOnce sync.Once // monitors one-time initialization

func initLexer() {
	initOnce.Do(func() {
		rules := []lexmach.Rule{
			lexmach.Token(`[0-9]+`, Number),
			lexmach.Ignore(`( )+`),
		}
		for _, lit := range literals {
			rules = append(rules, lexmach.Literal(lit, formlang.TokType(lit[0])))
		}
		lexer, lexerErr = lexmach.Compile(rules...)
	})
}

// Tokenize splits an arithmetic expression into tokens. Spaces separate tokens,
// any other character not part of a number, an operator or a parenthesis is an
// error. Errors are of type *SyntaxError and report the 1-based position of
// the illegal character.
func Tokenize(expression string) ([]formlang.Token, error) {
	initLexer()
	if lexerErr != nil {
		return nil, lexerErr
	}
	scan, err := lexer.Scan(expression)
	if err != nil {
		return nil, err
	}
	scan.SetErrorHandler(func(error) {}) // reported below
	toks := scanner.Tokens(scan)
	if illegal := scan.Illegal(); len(illegal) > 0 {
		first := illegal[0]
		serr := &SyntaxError{
			Msg:      fmt.Sprintf("illegal character %q", first.Char),
			Token:    string(first.Char),
			Position: utf8.RuneCountInString(expression[:first.Offset]) + 1,
		}
		tracer().Infof("tokenizer: %v", serr)
		return nil, serr
	}
	return toks, nil
}
