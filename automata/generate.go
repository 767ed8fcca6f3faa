package automata

import (
	"math/rand"
)

// GenerateTransitions creates a demo automaton from a definition, which may lack
// transitions: states are chained in declaration order, the last state and the
// final states tend to loop, and some random transitions are added. The start
// state is guaranteed to have at least one outgoing transition.
// Every generated transition is deterministic.
//
// Randomness is taken from rnd exclusively, thus a seeded source will reproduce
// the same automaton. Existing transitions of A are discarded.
func GenerateTransitions(A *Automaton, rnd *rand.Rand) *Automaton {
	states, alphabet := A.states, A.alphabet
	if len(states) == 0 || len(alphabet) == 0 {
		return New(states, alphabet, nil, A.start, A.finals)
	}
	delta := make(map[Edge][]string)
	set := func(q, a, p string) {
		delta[Edge{q, a}] = []string{p}
	}
	for i := 0; i < len(states)-1; i++ {
		for _, a := range alphabet {
			if rnd.Float64() < 0.8 {
				set(states[i], a, states[i+1])
			}
		}
	}
	last := states[len(states)-1]
	for _, a := range alphabet {
		if rnd.Float64() < 0.6 {
			if rnd.Float64() < 0.7 {
				set(last, a, last)
			} else {
				set(last, a, states[rnd.Intn(len(states))])
			}
		}
	}
	for _, q := range states {
		for _, a := range alphabet {
			if _, ok := delta[Edge{q, a}]; !ok && rnd.Float64() < 0.3 {
				set(q, a, states[rnd.Intn(len(states))])
			}
		}
	}
	hasMove := false
	for _, a := range alphabet {
		if _, ok := delta[Edge{A.start, a}]; ok {
			hasMove = true
			break
		}
	}
	if !hasMove {
		set(A.start, alphabet[rnd.Intn(len(alphabet))], states[rnd.Intn(len(states))])
	}
	for _, f := range A.finals {
		for _, a := range alphabet {
			if rnd.Float64() < 0.5 {
				set(f, a, f)
			}
		}
	}
	tracer().Debugf("generated %d transitions", len(delta))
	return New(states, alphabet, delta, A.start, A.finals)
}

// ExampleNFA returns a small NFA over {a,b}, accepting the words of a⁺ba(b*).
//
//     δ(q0, a) = {q0, q1}
//     δ(q1, b) = {q2}
//     δ(q2, a) = {q3}
//     δ(q3, b) = {q3}
func ExampleNFA() *Automaton {
	return New(
		[]string{"q0", "q1", "q2", "q3"},
		[]string{"a", "b"},
		map[Edge][]string{
			{"q0", "a"}: {"q0", "q1"},
			{"q1", "b"}: {"q2"},
			{"q2", "a"}: {"q3"},
			{"q3", "b"}: {"q3"},
		},
		"q0",
		[]string{"q3"},
	)
}
