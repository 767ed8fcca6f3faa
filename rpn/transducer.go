package rpn

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/formlang"
)

// Markers for trace steps which are not caused by an input token.
const (
	StartMarker = "start"
	EndMarker   = "end"
	Lambda      = "λ" // operator popped while draining the stack
)

// BottomMarker is the bottom-of-stack symbol used when grammar checks are enabled.
const BottomMarker = "Z"

// TraceStep is a snapshot of the transducer after one action.
// Stack is listed bottom to top.
type TraceStep struct {
	Step   int      // serial number, starting at 1
	Input  string   // token lexeme or one of the markers
	Stack  []string // operator stack, bottom first
	Output []string // postfix output so far
	Err    string   // non-empty for a terminal error step
}

func (s TraceStep) String() string {
	out := fmt.Sprintf("%3d | %-5s | %-20s | %s", s.Step, s.Input,
		strings.Join(s.Stack, " "), strings.Join(s.Output, " "))
	if s.Err != "" {
		out += " | error: " + s.Err
	}
	return out
}

// SyntaxError is returned for invalid expressions. It wraps formlang.ErrSyntax.
type SyntaxError struct {
	Token    string // offending token
	Position int    // 1-based input position of Token, 0 if at end of input
	StackTop string // top of operator stack when the error occured
	Previous string // category of the last token recognized before Token
	Msg      string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	b.WriteString("syntax error")
	if e.Token != "" {
		fmt.Fprintf(&b, " at %q", e.Token)
	}
	if e.Position > 0 {
		fmt.Fprintf(&b, " (position %d)", e.Position)
	}
	b.WriteString(": " + e.Msg)
	if e.StackTop != "" || e.Previous != "" {
		fmt.Fprintf(&b, " [stack top: %s, previous: %s]", orNone(e.StackTop), orNone(e.Previous))
	}
	return b.String()
}

func (e *SyntaxError) Unwrap() error {
	return formlang.ErrSyntax
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

// category of the last token processed, needed for grammar checks.
type category int

const (
	catStart category = iota
	catNumber
	catOperator
	catOpen
	catClose
)

func (c category) String() string {
	return [...]string{"start", "number", "operator", "'('", "')'"}[c]
}

func (c category) isOperand() bool {
	return c == catNumber || c == catClose
}

// Transducer converts infix expressions to postfix notation.
// Create one with NewTransducer.
type Transducer struct {
	checks bool
	stack  *arraystack.Stack
	output []string
	trace  *arraylist.List
	prev   category
}

// Option configures a transducer.
type Option func(t *Transducer)

// GrammarChecks enables or disables grammar checks. They are enabled by default.
func GrammarChecks(b bool) Option {
	return func(t *Transducer) {
		t.checks = b
	}
}

// NewTransducer creates a transducer.
func NewTransducer(opts ...Option) *Transducer {
	t := &Transducer{checks: true}
	for _, opt := range opts {
		opt(t)
	}
	t.reset()
	return t
}

// Convert is a shortcut for converting an expression with a fresh, default
// transducer.
func Convert(expression string) (string, error) {
	return NewTransducer().Convert(expression)
}

func (t *Transducer) reset() {
	t.stack = arraystack.New()
	if t.checks {
		t.stack.Push(BottomMarker)
	}
	t.output = nil
	t.trace = arraylist.New()
	t.prev = catStart
}

// Convert transforms an infix expression into a postfix expression, with tokens
// separated by a single space. Every call starts from a clean state;
// the trace of a previous conversion is discarded.
//
// Errors are of type *SyntaxError. After an error, the last step of the trace is
// flagged as an error step.
func (t *Transducer) Convert(expression string) (string, error) {
	t.reset()
	tokens, err := Tokenize(expression)
	if err != nil {
		if serr, ok := err.(*SyntaxError); ok {
			t.record(serr.Token, serr.Msg)
		}
		return "", err
	}
	if len(tokens) == 0 {
		return "", t.fail(nil, "empty expression")
	}
	t.record(StartMarker, "")
	var last formlang.Token
	for _, token := range tokens {
		last = token
		lexeme := token.Lexeme()
		switch token.TokType() {
		case Number:
			if t.checks && t.prev.isOperand() {
				return "", t.fail(token, "missing operator between operands")
			}
			t.output = append(t.output, lexeme)
			t.record(lexeme, "")
			t.prev = catNumber
		case LParen:
			if t.checks && t.prev.isOperand() {
				return "", t.fail(token, "missing operator before '('")
			}
			t.stack.Push(lexeme)
			t.record(lexeme, "")
			t.prev = catOpen
		case RParen:
			if !t.hasOpenParen() {
				return "", t.fail(token, "unmatched closing parenthesis")
			}
			if t.checks && t.prev == catOpen {
				return "", t.fail(token, "empty parentheses")
			}
			if t.checks && t.prev == catOperator {
				return "", t.fail(token, "missing operand before ')'")
			}
			for {
				op, _ := t.stack.Pop()
				if op.(string) == "(" {
					break
				}
				t.output = append(t.output, op.(string))
				t.record(lexeme, "")
			}
			t.record(lexeme, "")
			t.prev = catClose
		default:
			if t.checks && !t.prev.isOperand() {
				return "", t.fail(token, "operator without preceding operand")
			}
			for t.topIsOperator() && precedence(t.top()) >= precedence(lexeme) {
				op, _ := t.stack.Pop()
				t.output = append(t.output, op.(string))
				t.record(lexeme, "")
			}
			t.stack.Push(lexeme)
			t.record(lexeme, "")
			t.prev = catOperator
		}
	}
	if t.checks && t.prev == catOperator {
		return "", t.fail(last, "trailing operator")
	}
	for !t.stack.Empty() && t.top() != BottomMarker {
		op, _ := t.stack.Pop()
		if op.(string) == "(" {
			t.stack.Push(op)
			return "", t.fail(nil, "unmatched opening parenthesis")
		}
		t.output = append(t.output, op.(string))
		t.record(Lambda, "")
	}
	if t.checks && len(t.output) == 0 {
		return "", t.fail(nil, "expression without operands")
	}
	t.record(EndMarker, "")
	postfix := strings.Join(t.output, " ")
	tracer().Debugf("%q => %q", expression, postfix)
	return postfix, nil
}

// Trace returns the trace of the last conversion.
func (t *Transducer) Trace() []TraceStep {
	steps := make([]TraceStep, 0, t.trace.Size())
	for _, x := range t.trace.Values() {
		steps = append(steps, x.(TraceStep))
	}
	return steps
}

// --- Helpers ---------------------------------------------------------------

func (t *Transducer) record(input string, err string) {
	step := TraceStep{
		Step:   t.trace.Size() + 1,
		Input:  input,
		Stack:  t.stackSnapshot(),
		Output: append([]string{}, t.output...),
		Err:    err,
	}
	tracer().Debugf("%v", step)
	t.trace.Add(step)
}

// fail records a terminal error step and creates a syntax error. token is nil
// for errors detected at the end of input.
func (t *Transducer) fail(token formlang.Token, msg string) error {
	err := &SyntaxError{
		StackTop: t.top(),
		Previous: t.prev.String(),
		Msg:      msg,
	}
	input := EndMarker
	if token != nil {
		err.Token = token.Lexeme()
		err.Position = token.Span().Position()
		input = err.Token
	}
	t.record(input, msg)
	tracer().Infof("%v", err)
	return err
}

// stackSnapshot lists the operator stack bottom to top.
func (t *Transducer) stackSnapshot() []string {
	values := t.stack.Values() // top first
	snap := make([]string, len(values))
	for i, x := range values {
		snap[len(values)-1-i] = x.(string)
	}
	return snap
}

func (t *Transducer) top() string {
	if x, ok := t.stack.Peek(); ok {
		return x.(string)
	}
	return ""
}

func (t *Transducer) topIsOperator() bool {
	return isOperator(t.top())
}

func (t *Transducer) hasOpenParen() bool {
	for _, x := range t.stack.Values() {
		if x.(string) == "(" {
			return true
		}
	}
	return false
}
