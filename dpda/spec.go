package dpda

import (
	"fmt"
	"strings"

	"github.com/npillmayer/formlang"
	"github.com/npillmayer/formlang/scanner"
	"golang.org/x/exp/slices"
)

// Spec is the 7-tuple definition of a pushdown automaton, without its
// transition function.
type Spec struct {
	Name          string   // optional, e.g. "P"
	States        []string // Q
	InputAlphabet []string // Σ
	StackAlphabet []string // Γ
	Start         string   // q₀ ∈ Q
	StartStack    string   // Z₀ ∈ Γ
	Accepts       []string // F ⊆ Q
}

// ParseSpec reads a definition of the form
//
//     P = ({q0, q1}, {a, b}, {Z, A}, δ, q0, Z, {q1})
//
// The name prefix and the enclosing parentheses are optional. The fourth
// component is the symbol of the transition function, which is ignored.
//
// Errors wrap formlang.ErrMalformedSpec if the text does not consist of 7
// components, and formlang.ErrUnknownReference if the start state, an accepting
// state or the start stack symbol is not declared.
func ParseSpec(text string) (*Spec, error) {
	lx, err := lexemes("dpda", text)
	if err != nil {
		return nil, err
	}
	spec := &Spec{}
	if len(lx) >= 2 && lx[1] == "=" {
		spec.Name = lx[0]
		lx = lx[2:]
	}
	if len(lx) >= 2 && lx[0] == "(" && closing(lx, 0) == len(lx)-1 {
		lx = lx[1 : len(lx)-1]
	}
	fields, err := splitTop(lx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v in %q", formlang.ErrMalformedSpec, err, text)
	}
	if len(fields) != 7 {
		return nil, fmt.Errorf("%w: expected 7 components, found %d in %q",
			formlang.ErrMalformedSpec, len(fields), text)
	}
	sets := make([][]string, 7)
	for _, i := range []int{0, 1, 2, 6} {
		if sets[i], err = setField(fields[i]); err != nil {
			return nil, fmt.Errorf("%w: component %d: %v in %q", formlang.ErrMalformedSpec, i+1, err, text)
		}
	}
	singles := make([]string, 7)
	for _, i := range []int{3, 4, 5} {
		if singles[i], err = singleField(fields[i]); err != nil {
			return nil, fmt.Errorf("%w: component %d: %v in %q", formlang.ErrMalformedSpec, i+1, err, text)
		}
	}
	spec.States, spec.InputAlphabet, spec.StackAlphabet = sets[0], sets[1], sets[2]
	spec.Start, spec.StartStack, spec.Accepts = singles[4], singles[5], sets[6]
	if err = spec.Validate(); err != nil {
		return nil, err
	}
	tracer().Debugf("parsed %v", spec)
	return spec, nil
}

// Validate checks the references of a definition.
func (spec *Spec) Validate() error {
	if len(spec.States) == 0 {
		return fmt.Errorf("%w: set of states is empty", formlang.ErrMalformedSpec)
	}
	if !slices.Contains(spec.States, spec.Start) {
		return fmt.Errorf("%w: start state %q is not a state", formlang.ErrUnknownReference, spec.Start)
	}
	for _, q := range spec.Accepts {
		if !slices.Contains(spec.States, q) {
			return fmt.Errorf("%w: accepting state %q is not a state", formlang.ErrUnknownReference, q)
		}
	}
	if !slices.Contains(spec.StackAlphabet, spec.StartStack) {
		return fmt.Errorf("%w: start stack symbol %q is not in the stack alphabet",
			formlang.ErrUnknownReference, spec.StartStack)
	}
	return nil
}

// IsAccepting returns true if q is an accepting state.
func (spec *Spec) IsAccepting(q string) bool {
	return slices.Contains(spec.Accepts, q)
}

func (spec *Spec) String() string {
	name := spec.Name
	if name == "" {
		name = "P"
	}
	set := func(s []string) string {
		return "{" + strings.Join(s, ", ") + "}"
	}
	return fmt.Sprintf("%s = (%s, %s, %s, δ, %s, %s, %s)", name, set(spec.States),
		set(spec.InputAlphabet), set(spec.StackAlphabet), spec.Start, spec.StartStack,
		set(spec.Accepts))
}

// --- Tokenizing ------------------------------------------------------------

// lexemes splits a line into the lexemes of the Go tokenizer.
func lexemes(source, text string) ([]string, error) {
	tok := scanner.GoTokenizer(source, strings.NewReader(text))
	var scanErr error
	tok.SetErrorHandler(func(e error) {
		if scanErr == nil {
			scanErr = e
		}
	})
	var lx []string
	for _, t := range scanner.Tokens(tok) {
		lx = append(lx, t.Lexeme())
	}
	if scanErr != nil {
		return nil, fmt.Errorf("%w: %v", formlang.ErrMalformedSpec, scanErr)
	}
	return lx, nil
}

// closing returns the index of the bracket closing the one at position at,
// or -1.
func closing(lx []string, at int) int {
	depth := 0
	for i := at; i < len(lx); i++ {
		switch lx[i] {
		case "(", "{":
			depth++
		case ")", "}":
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitTop splits lexemes at commas which are not enclosed in brackets.
func splitTop(lx []string) ([][]string, error) {
	var fields [][]string
	depth, from := 0, 0
	for i, l := range lx {
		switch l {
		case "(", "{":
			depth++
		case ")", "}":
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced %q", l)
			}
		case ",":
			if depth == 0 {
				fields = append(fields, lx[from:i])
				from = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced brackets")
	}
	return append(fields, lx[from:]), nil
}

// setField reads "{a, b, c}". A single element may omit the braces.
// Empty elements are dropped.
func setField(lx []string) ([]string, error) {
	if len(lx) >= 2 && lx[0] == "{" && lx[len(lx)-1] == "}" {
		lx = lx[1 : len(lx)-1]
	}
	elements := []string{}
	from := 0
	for i := 0; i <= len(lx); i++ {
		if i < len(lx) && lx[i] != "," {
			continue
		}
		e, err := join(lx[from:i])
		if err != nil {
			return nil, err
		}
		if e != "" && !slices.Contains(elements, e) {
			elements = append(elements, e)
		}
		from = i + 1
	}
	return elements, nil
}

func singleField(lx []string) (string, error) {
	s, err := join(lx)
	if err == nil && s == "" {
		err = fmt.Errorf("empty component")
	}
	return s, err
}

// join concatenates lexemes which are not brackets.
func join(lx []string) (string, error) {
	var b strings.Builder
	for _, l := range lx {
		if strings.ContainsAny(l, "(){},") {
			return "", fmt.Errorf("unexpected %q", l)
		}
		b.WriteString(l)
	}
	return b.String(), nil
}
