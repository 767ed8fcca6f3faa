/*
Package automata implements finite automata for teaching purposes.

Automata are immutable values. They are either created from text, or derived
from other automata by one of the algorithms of this package, each of which
returns a brand-new automaton.

Defining an Automaton

Automata are defined in mathematical notation, optionally accompanied by a
transition table:

    def := "M=({q0, q1, q2}, {a, b}, δ, q0, {q2})"
    table := `
        δ(q0, a) = q1
        q0, b -> q0
        q1 b q2
        q2,a={q0,q2}   // brace sets define multiple targets
    `
    A, err := automata.FromDefinitionAndTransitions(def, table)

Text following '//', or '#' after a blank, is a comment. Lines for the same
(state, symbol) pair are merged, thus NFAs may be given
either with brace sets or with repeated lines. ε-moves use the reserved symbol
'ε', which must not be part of the input alphabet.

Subset Construction and Minimization

    if A.IsNFA() {
        A = automata.ConvertToDFA(A)
    }
    min, err := automata.Minimize(A)

ConvertToDFA uses subset construction with ε-closures. Sets of NFA states are
represented by StateSet, which canonicalizes its members, so equal sets
are recognized regardless of discovery order.

Minimize applies partition refinement (Moore's algorithm) on the reachable part
of a DFA. Partial DFAs are allowed; a missing transition behaves like a
transition into an implicit dead state. This implicit state is never merged
with a declared dead state, so a partial DFA with an explicit dead state keeps
it after minimization. States of the minimized DFA are named q0, q1, …, with
q0 always denoting the start state.

Setting the global configuration key "trace-partitions" will print every
refinement pass to the tracer.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package automata

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'formlang.automata'.
func tracer() tracing.Trace {
	return tracing.Select("formlang.automata")
}
