package automata

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/npillmayer/formlang"
	"golang.org/x/exp/slices"
)

var definitionPattern = regexp.MustCompile(
	`M\s*=\s*\(\s*\{([^}]+)\}\s*,\s*\{([^}]+)\}\s*,\s*δ\s*,\s*(\w+)\s*,\s*\{([^}]+)\}\s*\)`)

// Transition lines may be given in one of these formats.
var (
	deltaLine = regexp.MustCompile(`^δ\s*\(\s*([^,\s]+)\s*,\s*([^)\s]+)\s*\)\s*=\s*(.+)$`) // δ(q,a)=p
	arrowLine = regexp.MustCompile(`^([^,\s]+)\s*,\s*([^,\s=]+?)\s*(?:->|→|=)\s*(.+)$`)    // q,a->p  q,a=p
	spaceLine = regexp.MustCompile(`^(\S+)\s+(\S+)\s+(\{[^}]*\}|\S+)$`)                    // q a p  q a {p,r}
)

// ParseDefinition creates an automaton from its definition in mathematical
// notation:
//
//     M=({q0, q1, q2}, {0, 1}, δ, q0, {q2})
//
// The resulting automaton has no transitions.
func ParseDefinition(def string) (*Automaton, error) {
	def = strings.TrimSpace(def)
	if def == "" {
		return nil, fmt.Errorf("%w: empty automaton definition", formlang.ErrMalformedSpec)
	}
	match := definitionPattern.FindStringSubmatch(def)
	if match == nil {
		return nil, fmt.Errorf("%w: expected M=({q0, q1}, {0, 1}, δ, q0, {q1}), have %q",
			formlang.ErrMalformedSpec, def)
	}
	states := splitList(match[1])
	alphabet := splitList(match[2])
	start := strings.TrimSpace(match[3])
	finals := splitList(match[4])
	if !slices.Contains(states, start) {
		return nil, fmt.Errorf("%w: start state %s is not in the set of states",
			formlang.ErrUnknownReference, start)
	}
	for _, f := range finals {
		if !slices.Contains(states, f) {
			return nil, fmt.Errorf("%w: final state %s is not in the set of states",
				formlang.ErrUnknownReference, f)
		}
	}
	tracer().Debugf("automaton definition: states=%v, alphabet=%v, start=%s, finals=%v",
		states, alphabet, start, finals)
	return New(states, alphabet, nil, start, finals), nil
}

// ParseTransitionTable adds the transitions given in table to the definition
// of automaton A, returning a new automaton. Every non-empty line holds one
// transition in one of the formats
//
//     δ(q,a)=p      q,a->p      q a p      q,a=p
//
// where p may be a set {p1,p2,…} as well. Comments start with '//' anywhere,
// or with '#' at the beginning of a line or after a blank. Multiple lines for
// the same (state, symbol) pair are merged.
func ParseTransitionTable(A *Automaton, table string) (*Automaton, error) {
	delta := make(map[Edge][]string, len(A.delta))
	for e, targets := range A.delta {
		delta[e] = slices.Clone(targets)
	}
	for i, line := range strings.Split(table, "\n") {
		line = stripComment(line)
		if line == "" {
			continue
		}
		lineno := i + 1
		from, symbol, rhs, ok := matchTransition(line)
		if !ok {
			return nil, fmt.Errorf("%w: cannot read transition in line %d: %q",
				formlang.ErrSyntax, lineno, line)
		}
		if !slices.Contains(A.states, from) {
			return nil, unknown("state", from, lineno, line)
		}
		if symbol != Epsilon && !slices.Contains(A.alphabet, symbol) {
			return nil, unknown("symbol", symbol, lineno, line)
		}
		targets, err := parseTargets(rhs)
		if err != nil {
			return nil, fmt.Errorf("%w in line %d: %q", err, lineno, line)
		}
		e := Edge{from, symbol}
		for _, p := range targets {
			if !slices.Contains(A.states, p) {
				return nil, unknown("state", p, lineno, line)
			}
			if !slices.Contains(delta[e], p) {
				delta[e] = append(delta[e], p)
			}
		}
	}
	return New(A.states, A.alphabet, delta, A.start, A.finals), nil
}

// FromDefinitionAndTransitions parses an automaton definition in mathematical
// notation together with a transition table. See ParseDefinition and
// ParseTransitionTable.
func FromDefinitionAndTransitions(def, table string) (*Automaton, error) {
	A, err := ParseDefinition(def)
	if err != nil {
		return nil, err
	}
	return ParseTransitionTable(A, table)
}

// ---------------------------------------------------------------------------

var commentStart = regexp.MustCompile(`//|(?:^|\s)#`)

// stripComment removes a comment from a line of a transition table and trims
// the rest.
func stripComment(line string) string {
	if loc := commentStart.FindStringIndex(line); loc != nil {
		line = line[:loc[0]]
	}
	return strings.TrimSpace(line)
}

func matchTransition(line string) (from, symbol, rhs string, ok bool) {
	for _, pattern := range []*regexp.Regexp{deltaLine, arrowLine, spaceLine} {
		if m := pattern.FindStringSubmatch(line); m != nil {
			return m[1], m[2], strings.TrimSpace(m[3]), true
		}
	}
	return
}

// parseTargets reads the right hand side of a transition, either a single state
// or a set of states in braces.
func parseTargets(rhs string) ([]string, error) {
	if strings.HasPrefix(rhs, "{") {
		if !strings.HasSuffix(rhs, "}") {
			return nil, fmt.Errorf("%w: unterminated target set %q", formlang.ErrSyntax, rhs)
		}
		targets := splitList(rhs[1 : len(rhs)-1])
		if len(targets) == 0 {
			return nil, fmt.Errorf("%w: empty target set", formlang.ErrSyntax)
		}
		return targets, nil
	}
	if strings.ContainsAny(rhs, " \t,{}") {
		return nil, fmt.Errorf("%w: malformed target %q", formlang.ErrSyntax, rhs)
	}
	return []string{rhs}, nil
}

func unknown(what, token string, lineno int, line string) error {
	return fmt.Errorf("%w: %s %s in line %d: %q", formlang.ErrUnknownReference, what, token, lineno, line)
}

// splitList splits a comma-separated list and trims its elements. Empty elements
// are dropped.
func splitList(s string) []string {
	var l []string
	for _, x := range strings.Split(s, ",") {
		if x = strings.TrimSpace(x); x != "" {
			l = append(l, x)
		}
	}
	return l
}
