/*
Package dpda implements a simulator for deterministic pushdown automata.

A machine is created from a textual definition in the usual 7-tuple notation

    P = ({q0, q1, q2}, {a, b}, {Z, A}, δ, q0, Z, {q2})

and a list of transition rules, one per line:

    δ(q0, a, Z) = (q0, AZ)
    δ(q0, b, A) = (q1, ε)
    δ(q1, ε, Z) = (q2, Z)

The push string of a rule is a sequence of stack symbols, one per character,
where the first character ends up on top of the stack. A push string of ε
pops the stack top without pushing anything.

Running a machine on an input word produces a Result, which contains the
complete history of configurations (state, remaining input, stack). The
machine accepts by final state: as soon as the input is consumed and the
current state is an accepting one. Because ε-rules may loop forever, every
run is bounded by a step budget (see option MaxSteps).

Function FromLanguage creates ready-made machines for a few families of
languages, given in set notation.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dpda

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'formlang.dpda'.
func tracer() tracing.Trace {
	return tracing.Select("formlang.dpda")
}

// Epsilon denotes the empty word, both as input symbol and as push string.
const Epsilon = "ε"
