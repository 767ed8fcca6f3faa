/*
Package formlang is a toolbox for teaching formal-language theory.

It bundles four independent engines, each of which operates on
caller-supplied input and returns fully materialized, structured results
for display by some presentation layer. Package structure is as follows:

■ automata: Package automata implements finite automata, NFA to DFA subset
construction and DFA minimization by partition refinement, together with
parsers for textual automaton definitions and transition tables.

■ rpn: Package rpn implements an infix to postfix transducer (shunting-yard)
which records a full trace of its stack discipline.

■ dpda: Package dpda implements a simulator for deterministic pushdown
automata, stepping through instantaneous descriptions.

■ rdparse: Package rdparse implements a recursive-descent parser for
arithmetic expressions, producing a parse tree and a leftmost derivation.

■ scanner: Package scanner contains tokenizer adapters shared by the expression
engines.

■ cmd/flrepl: An interactive sandbox (FL.REPL) over all four engines.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package formlang
