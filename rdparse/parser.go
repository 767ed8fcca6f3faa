package rdparse

import (
	"fmt"
	"strings"

	"github.com/npillmayer/formlang"
	"github.com/npillmayer/formlang/scanner"
)

// Epsilon marks empty productions.
const Epsilon = "ε"

// Node is a node of a parse tree. Inner nodes are tagged with a non-terminal,
// leaves with the category of their token ("number", "identifier", or the
// operator or parenthesis itself). Nodes for empty productions have no children
// and Value ε.
type Node struct {
	Tag      string
	Value    string
	Children []*Node
}

// IsLeaf returns true for nodes without children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Walk calls f for n and all of its descendants in depth-first order.
// depth is 0 for n.
func (n *Node) Walk(f func(node *Node, depth int)) {
	n.walk(f, 0)
}

func (n *Node) walk(f func(*Node, int), depth int) {
	f(n, depth)
	for _, ch := range n.Children {
		ch.walk(f, depth+1)
	}
}

// String renders a tree in bracket notation, e.g. "F(number:2)".
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	var b strings.Builder
	n.render(&b)
	return b.String()
}

func (n *Node) render(b *strings.Builder) {
	b.WriteString(n.Tag)
	if n.Value != "" {
		if n.Tag != n.Value {
			b.WriteString(":" + n.Value)
		}
	}
	if len(n.Children) == 0 {
		return
	}
	b.WriteByte('(')
	for i, ch := range n.Children {
		if i > 0 {
			b.WriteByte(' ')
		}
		ch.render(b)
	}
	b.WriteByte(')')
}

// Result is the outcome of parsing an expression.
// If the input is invalid, Tree is nil and Err describes the first error.
// Derivation holds the sentential forms derived up to that point.
type Result struct {
	Valid      bool
	Tree       *Node
	Derivation []string // starting with "S"
	Skipped    []string // characters dropped by the tokenizer
	Err        error    // wraps formlang.ErrSyntax
}

// Parse parses an arithmetic expression. It never fails with a panic;
// all errors are reported in the result.
func Parse(input string) *Result {
	tokens, skipped, err := Tokenize(input)
	if err != nil {
		return &Result{Err: err, Derivation: []string{"S"}}
	}
	p := &parser{tokens: tokens, form: []symbol{nonterm("S")}}
	p.chain = []string{"S"}
	result := &Result{Skipped: skipped}
	tree, err := p.parseS()
	if err == nil && p.current().TokType() != EOF {
		err = p.errorf("unexpected %s after end of expression", describe(p.current()))
	}
	result.Derivation = p.chain
	if err != nil {
		tracer().Infof("%q: %v", input, err)
		result.Err = err
		return result
	}
	result.Valid, result.Tree = true, tree
	return result
}

// --- Sentential forms ------------------------------------------------------

type symbol struct {
	name        string
	nonterminal bool
}

func nonterm(name string) symbol {
	return symbol{name: name, nonterminal: true}
}

func term(name string) symbol {
	return symbol{name: name}
}

// --- Parser ----------------------------------------------------------------

type parser struct {
	tokens []formlang.Token
	pos    int
	form   []symbol // current sentential form
	chain  []string // derivation so far
}

func (p *parser) current() formlang.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	end := uint64(0)
	if len(p.tokens) > 0 {
		end = p.tokens[len(p.tokens)-1].Span().To()
	}
	return scanner.NewToken(EOF, "", formlang.Span{end, end})
}

func (p *parser) advance() formlang.Token {
	t := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

// expect consumes a token of type typ or fails with "expected <what>".
func (p *parser) expect(typ formlang.TokType, what string) (formlang.Token, error) {
	if p.current().TokType() != typ {
		return nil, p.errorf("expected %s, found %s", what, describe(p.current()))
	}
	return p.advance(), nil
}

func (p *parser) errorf(format string, args ...interface{}) error {
	pos := p.current().Span().Position()
	return fmt.Errorf("%w: %s at position %d", formlang.ErrSyntax, fmt.Sprintf(format, args...), pos)
}

// derive replaces the leftmost occurrence of non-terminal A in the current
// sentential form by rhs.
func (p *parser) derive(A string, rhs ...symbol) {
	for i, sym := range p.form {
		if sym.nonterminal && sym.name == A {
			form := make([]symbol, 0, len(p.form)+len(rhs)-1)
			form = append(form, p.form[:i]...)
			form = append(form, rhs...)
			p.form = append(form, p.form[i+1:]...)
			break
		}
	}
	names := make([]string, len(p.form))
	for i, sym := range p.form {
		names[i] = sym.name
	}
	p.chain = append(p.chain, strings.Join(names, " "))
	tracer().Debugf("%s → %v", A, rhs)
}

// S → T E
func (p *parser) parseS() (*Node, error) {
	p.derive("S", nonterm("T"), nonterm("E"))
	t, err := p.parseT()
	if err != nil {
		return nil, err
	}
	e, err := p.parseE()
	if err != nil {
		return nil, err
	}
	return &Node{Tag: "S", Children: []*Node{t, e}}, nil
}

// E → + T E | - T E | ε
func (p *parser) parseE() (*Node, error) {
	switch p.current().TokType() {
	case '+', '-':
		op := p.advance().Lexeme()
		p.derive("E", term(op), nonterm("T"), nonterm("E"))
		t, err := p.parseT()
		if err != nil {
			return nil, err
		}
		e, err := p.parseE()
		if err != nil {
			return nil, err
		}
		return &Node{Tag: "E", Children: []*Node{{Tag: op, Value: op}, t, e}}, nil
	}
	p.derive("E", term(Epsilon))
	return &Node{Tag: "E", Value: Epsilon}, nil
}

// T → F T'
func (p *parser) parseT() (*Node, error) {
	p.derive("T", nonterm("F"), nonterm("T'"))
	f, err := p.parseF()
	if err != nil {
		return nil, err
	}
	tt, err := p.parseTPrime()
	if err != nil {
		return nil, err
	}
	return &Node{Tag: "T", Children: []*Node{f, tt}}, nil
}

// T' → * F T' | / F T' | ε
func (p *parser) parseTPrime() (*Node, error) {
	switch p.current().TokType() {
	case '*', '/':
		op := p.advance().Lexeme()
		p.derive("T'", term(op), nonterm("F"), nonterm("T'"))
		f, err := p.parseF()
		if err != nil {
			return nil, err
		}
		tt, err := p.parseTPrime()
		if err != nil {
			return nil, err
		}
		return &Node{Tag: "T'", Children: []*Node{{Tag: op, Value: op}, f, tt}}, nil
	}
	p.derive("T'", term(Epsilon))
	return &Node{Tag: "T'", Value: Epsilon}, nil
}

// F → ( S ) | number | identifier
func (p *parser) parseF() (*Node, error) {
	switch p.current().TokType() {
	case '(':
		p.advance()
		p.derive("F", term("("), nonterm("S"), term(")"))
		s, err := p.parseS()
		if err != nil {
			return nil, err
		}
		if _, err = p.expect(')', "')'"); err != nil {
			return nil, err
		}
		return &Node{Tag: "F", Children: []*Node{{Tag: "(", Value: "("}, s, {Tag: ")", Value: ")"}}}, nil
	case Number:
		n := p.advance().Lexeme()
		p.derive("F", term(n))
		return &Node{Tag: "F", Children: []*Node{{Tag: "number", Value: n}}}, nil
	case Ident:
		id := p.advance().Lexeme()
		p.derive("F", term(id))
		return &Node{Tag: "F", Children: []*Node{{Tag: "identifier", Value: id}}}, nil
	}
	return nil, p.errorf("expected number, identifier or '(', found %s", describe(p.current()))
}
