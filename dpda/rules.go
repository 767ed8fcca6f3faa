package dpda

import (
	"fmt"
	"strings"

	"github.com/npillmayer/formlang"
	"golang.org/x/exp/slices"
)

// Rule is a transition δ(State, Input, Top) = (Next, Push).
// Input is Epsilon for ε-rules. Push lists stack symbols, one per character,
// with the first character ending up on top; it is empty for pop-only rules.
type Rule struct {
	State, Input, Top string
	Next, Push        string
	Description       string // optional, human readable
}

func (r Rule) String() string {
	push := r.Push
	if push == "" {
		push = Epsilon
	}
	return fmt.Sprintf("δ(%s,%s,%s) = (%s,%s)", r.State, r.Input, r.Top, r.Next, push)
}

type ruleKey struct {
	state, input, top string
}

func (r Rule) key() ruleKey {
	return ruleKey{r.State, r.Input, r.Top}
}

// ParseRules reads transition rules, one per line, of the form
//
//     δ(q0, a, Z) = (q1, AZ)
//
// The leading δ is optional, and '->' or '→' may be used instead of '='.
// An empty input field or ε denotes an ε-rule, a push string of ε pops the
// stack top without replacement. Blank lines and lines starting with '#' or '//'
// are ignored.
//
// Every symbol is checked against spec. Errors wrap formlang.ErrSyntax or
// formlang.ErrUnknownReference and name the offending line.
func ParseRules(spec *Spec, text string) ([]Rule, error) {
	var rules []Rule
	for n, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		rule, err := parseRule(line)
		if err == nil {
			err = spec.check(rule)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d %q: %w", n+1, line, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func parseRule(line string) (Rule, error) {
	lx, err := lexemes("rule", line)
	if err != nil {
		return Rule{}, err
	}
	if len(lx) > 0 && lx[0] == "δ" {
		lx = lx[1:]
	}
	lhs, rest, err := tuple(lx, 3)
	if err != nil {
		return Rule{}, err
	}
	arrow := strings.Join(rest[:min(len(rest), 2)], "")
	switch {
	case len(rest) > 0 && (rest[0] == "=" || rest[0] == "→"):
		rest = rest[1:]
	case arrow == "->":
		rest = rest[2:]
	default:
		return Rule{}, fmt.Errorf("%w: expected '=' between left and right side", formlang.ErrSyntax)
	}
	rhs, rest, err := tuple(rest, 2)
	if err != nil {
		return Rule{}, err
	}
	if len(rest) > 0 {
		return Rule{}, fmt.Errorf("%w: unexpected %q after rule", formlang.ErrSyntax, rest[0])
	}
	rule := Rule{State: lhs[0], Input: lhs[1], Top: lhs[2], Next: rhs[0], Push: rhs[1]}
	if rule.Input == "" {
		rule.Input = Epsilon
	}
	if rule.Push == Epsilon {
		rule.Push = ""
	}
	if rule.State == "" || rule.Top == "" || rule.Next == "" {
		return Rule{}, fmt.Errorf("%w: missing state or stack symbol", formlang.ErrSyntax)
	}
	return rule, nil
}

// tuple reads a parenthesized tuple of n components at the start of lx and
// returns the components and the lexemes following the tuple.
func tuple(lx []string, n int) ([]string, []string, error) {
	if len(lx) == 0 || lx[0] != "(" {
		return nil, nil, fmt.Errorf("%w: expected '('", formlang.ErrSyntax)
	}
	end := closing(lx, 0)
	if end < 0 {
		return nil, nil, fmt.Errorf("%w: missing ')'", formlang.ErrSyntax)
	}
	fields, err := splitTop(lx[1:end])
	if err == nil && len(fields) != n {
		err = fmt.Errorf("expected %d components, found %d", n, len(fields))
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", formlang.ErrSyntax, err)
	}
	comps := make([]string, n)
	for i, f := range fields {
		if comps[i], err = join(f); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", formlang.ErrSyntax, err)
		}
	}
	return comps, lx[end+1:], nil
}

// check tests every symbol of a rule against the declarations of spec.
func (spec *Spec) check(r Rule) error {
	unknown := func(what, sym string) error {
		return fmt.Errorf("%w: %s %q", formlang.ErrUnknownReference, what, sym)
	}
	if !slices.Contains(spec.States, r.State) {
		return unknown("state", r.State)
	}
	if !slices.Contains(spec.States, r.Next) {
		return unknown("state", r.Next)
	}
	if r.Input != Epsilon && !slices.Contains(spec.InputAlphabet, r.Input) {
		return unknown("input symbol", r.Input)
	}
	if !slices.Contains(spec.StackAlphabet, r.Top) {
		return unknown("stack symbol", r.Top)
	}
	for _, z := range r.Push {
		if !slices.Contains(spec.StackAlphabet, string(z)) {
			return unknown("stack symbol", string(z))
		}
	}
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
