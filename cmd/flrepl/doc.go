/*
Package flrepl/main provides an interactive command line tool (FL.REPL)
for the engines of module formlang. FL.REPL serves as a sandbox for
experiments with finite automata, pushdown automata, infix-to-postfix
conversion and recursive descent parsing.

Commands:

    rpn <expression>          convert an infix expression to postfix notation
    parse <expression>        parse an arithmetic expression, print tree and derivation
    dfa <definition>          read a finite automaton, with transition lines
                              following until an empty line; convert and minimize it
    example                   load the built-in example NFA
    random <definition>       generate transitions for an automaton at random
    accepts <symbols …>       test a word against the current finite automaton
    dpda <definition>         read a pushdown automaton, with rules following
                              until an empty line
    lang <language>           create a pushdown automaton for a language
    run <word>                run the current pushdown automaton
    help                      list commands
    quit                      leave FL.REPL

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'formlang.repl'
func tracer() tracing.Trace {
	return tracing.Select("formlang.repl")
}
