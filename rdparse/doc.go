/*
Package rdparse implements a recursive descent parser for arithmetic
expressions.

The grammar is free of left recursion:

    S  → T E
    E  → + T E | - T E | ε
    T  → F T'
    T' → * F T' | / F T' | ε
    F  → ( S ) | number | identifier

Parsing produces a parse tree and the leftmost derivation of the input, as a
chain of sentential forms, starting with "S". Empty productions appear as ε in
the sentential forms.

Whitespace is insignificant. Characters which are neither part of a number, an
identifier, an operator nor a parenthesis are dropped from the input, but
reported in the result.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package rdparse

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'formlang.rdparse'.
func tracer() tracing.Trace {
	return tracing.Select("formlang.rdparse")
}
