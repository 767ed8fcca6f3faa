/*
Package lexmach provides an adapter to use the lexmachine scanner generator with
the expression engines of formlang.

For more information on lexmachine, see e.g.
https://hackthology.com/how-to-tokenize-complex-strings-with-lexmachine.html

A lexer is compiled from a list of rules. Each rule pairs a lexmachine regular
expression with an action; package lexmach offers constructors for the three
actions the engines need.

	lexer, err := lexmach.Compile(
		lexmach.Token(`[0-9]+`, Number),     // emit a token of category Number
		lexmach.Ignore(`( )+`),              // drop blanks
		lexmach.Literal("(", '('),           // match text verbatim
	)

A lexer may be used for any number of inputs. Every input gets a scanner of
its own, which implements scanner.Tokenizer.

	scan, err := lexer.Scan("(17 + 4")
	toks := scanner.Tokens(scan)

Characters not starting any token are reported to the scanner's error handler
and skipped. Scanner.Illegal lists them together with their byte offsets, so
clients may decide after scanning whether to reject the input or not.

Token spans are byte offsets into the input.

________________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lexmach
