package automata

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Epsilon is the reserved pseudo-symbol marking ε-moves.
const Epsilon = "ε"

// Edge is the key for a transition: a source state together with an input
// symbol (or Epsilon).
type Edge struct {
	From   string
	Symbol string
}

// Automaton is a finite automaton. It may be deterministic or not; targets of
// transitions are stored as lists in either case.
//
// Automata are not modified after creation. Accessors return copies.
type Automaton struct {
	states   []string
	alphabet []string
	delta    map[Edge][]string
	start    string
	finals   []string
}

// New creates an automaton from its components. New does not check the
// components for consistency, use Validate for that.
// Duplicate states, symbols and targets are silently merged.
func New(states, alphabet []string, delta map[Edge][]string, start string, finals []string) *Automaton {
	A := &Automaton{
		states:   uniq(states),
		alphabet: uniq(alphabet),
		delta:    make(map[Edge][]string, len(delta)),
		start:    start,
		finals:   uniq(finals),
	}
	for e, targets := range delta {
		if len(targets) > 0 {
			A.delta[e] = uniq(targets)
		}
	}
	return A
}

// States returns the states of A in declaration order.
func (A *Automaton) States() []string {
	return slices.Clone(A.states)
}

// Alphabet returns the input symbols of A in declaration order.
func (A *Automaton) Alphabet() []string {
	return slices.Clone(A.alphabet)
}

// Start returns the start state of A.
func (A *Automaton) Start() string {
	return A.start
}

// Finals returns the final states of A.
func (A *Automaton) Finals() []string {
	return slices.Clone(A.finals)
}

// IsFinal is a predicate: is state q a final state of A?
func (A *Automaton) IsFinal(q string) bool {
	return slices.Contains(A.finals, q)
}

// Targets returns the target states for a transition from q, reading symbol a.
func (A *Automaton) Targets(q, a string) []string {
	return slices.Clone(A.delta[Edge{q, a}])
}

// TransitionCount returns the number of (state, symbol) pairs having targets.
func (A *Automaton) TransitionCount() int {
	return len(A.delta)
}

// EachTransition calls f for every transition of A, in declaration order of
// states and symbols, ε-moves last.
func (A *Automaton) EachTransition(f func(from, symbol string, targets []string)) {
	symbols := append(slices.Clone(A.alphabet), Epsilon)
	for _, q := range A.states {
		for _, a := range symbols {
			if targets, ok := A.delta[Edge{q, a}]; ok {
				f(q, a, slices.Clone(targets))
			}
		}
	}
}

// IsDeterministic returns true if every (state, symbol) pair maps to at most one
// target and no ε-moves are present.
func (A *Automaton) IsDeterministic() bool {
	for e, targets := range A.delta {
		if e.Symbol == Epsilon || len(targets) > 1 {
			return false
		}
	}
	return true
}

// IsNFA returns true if some (state, symbol) pair maps to more than one target,
// or if A contains ε-moves.
func (A *Automaton) IsNFA() bool {
	return !A.IsDeterministic()
}

// Accepts simulates A on a word, given as a sequence of input symbols.
// Works for NFAs as well as DFAs.
func (A *Automaton) Accepts(word ...string) bool {
	current := EpsilonClosure(A, A.start)
	for _, a := range word {
		var image []string
		for _, q := range current.states {
			image = append(image, A.delta[Edge{q, a}]...)
		}
		if len(image) == 0 {
			return false
		}
		current = EpsilonClosure(A, image...)
	}
	for _, q := range current.states {
		if A.IsFinal(q) {
			return true
		}
	}
	return false
}

// String returns a multi-line description of A.
func (A *Automaton) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "states: {%s}\n", strings.Join(A.states, ", "))
	fmt.Fprintf(&b, "alphabet: {%s}\n", strings.Join(A.alphabet, ", "))
	fmt.Fprintf(&b, "start: %s\n", A.start)
	fmt.Fprintf(&b, "finals: {%s}\n", strings.Join(A.finals, ", "))
	b.WriteString("transitions:\n")
	A.EachTransition(func(from, symbol string, targets []string) {
		fmt.Fprintf(&b, "  δ(%s, %s) = {%s}\n", from, symbol, strings.Join(targets, ", "))
	})
	return b.String()
}

// --- Validation ------------------------------------------------------------

// Validation is the result of a structural check of an automaton.
type Validation struct {
	IsValid bool
	Errors  []string
}

// Validate checks A for structural well-formedness: it must have states and
// input symbols, a start state and at least one final state, all of them
// declared as states. Transitions must connect declared states and read
// declared symbols (or ε).
//
// Validate neither checks reachability nor completeness of the transition
// function. Partial DFAs are valid.
func (A *Automaton) Validate() Validation {
	var errs []string
	if len(A.states) == 0 {
		errs = append(errs, "automaton must have at least one state")
	}
	if len(A.alphabet) == 0 {
		errs = append(errs, "automaton must have at least one input symbol")
	}
	if A.start == "" {
		errs = append(errs, "automaton has no start state")
	} else if !slices.Contains(A.states, A.start) {
		errs = append(errs, fmt.Sprintf("start state %s is not in the set of states", A.start))
	}
	if len(A.finals) == 0 {
		errs = append(errs, "automaton must have at least one final state")
	}
	for _, f := range A.finals {
		if !slices.Contains(A.states, f) {
			errs = append(errs, fmt.Sprintf("final state %s is not in the set of states", f))
		}
	}
	errs = append(errs, A.undeclaredReferences()...)
	return Validation{IsValid: len(errs) == 0, Errors: errs}
}

// undeclaredReferences lists transitions of A which mention a state or an input
// symbol missing from A's declaration. Messages are sorted.
func (A *Automaton) undeclaredReferences() []string {
	var msgs []string
	for e, targets := range A.delta {
		if !slices.Contains(A.states, e.From) {
			msgs = append(msgs, fmt.Sprintf("transition source %s is not in the set of states", e.From))
		}
		if e.Symbol != Epsilon && !slices.Contains(A.alphabet, e.Symbol) {
			msgs = append(msgs, fmt.Sprintf("transition symbol %s is not in the alphabet", e.Symbol))
		}
		for _, p := range targets {
			if !slices.Contains(A.states, p) {
				msgs = append(msgs, fmt.Sprintf("transition target %s of δ(%s,%s) is not in the set of states",
					p, e.From, e.Symbol))
			}
		}
	}
	slices.Sort(msgs)
	return slices.Compact(msgs)
}

// ---------------------------------------------------------------------------

// uniq removes duplicates, keeping the first occurence of each element.
func uniq(l []string) []string {
	r := make([]string, 0, len(l))
	for _, s := range l {
		if !slices.Contains(r, s) {
			r = append(r, s)
		}
	}
	return r
}
