/*
Package rpn implements a transducer from infix arithmetic expressions to
postfix notation (reverse Polish notation), using Dijkstra's shunting-yard
algorithm.

Input expressions consist of non-negative integers, the four left-associative
operators + - * / and parentheses, separated by spaces:

    t := rpn.NewTransducer()
    postfix, err := t.Convert("(5 + 3) * 2")   // "5 3 + 2 *"
    for _, step := range t.Trace() {
        fmt.Println(step)
    }

The transducer records a trace of every action: one step per input token, one
step per operator popped during bracket or precedence resolution, a step
labeled λ per operator popped when draining the stack at the end of input, and
bracketing start and end steps.

By default the transducer checks the input for grammatical correctness
(operands and operators have to alternate, parentheses have to be balanced and
non-empty). With these checks enabled, the operator stack is seeded with a
bottom marker Z. Option GrammarChecks(false) switches to the plain algorithm,
which only detects unbalanced parentheses.

A Transducer may be used for any number of conversions, but not concurrently.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package rpn

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'formlang.rpn'.
func tracer() tracing.Trace {
	return tracing.Select("formlang.rpn")
}
