/*
Package lexmach provides an adapter to use the lexmachine scanner generator with
the parsers of package lr/parser.

For more information on lexmachine, see e.g.
https://hackthology.com/how-to-tokenize-complex-strings-with-lexmachine.html

Lexmachine has to be initialized by providing regular expressions, each
one associated with a tag. A tag is the name of a terminal of a grammar.
Package lexmach is very opinionated on how to do the setup of lexmachine.
Clients who need more liberty in how to create the scanner should use their
own wrapper code to fit lexmachine into the scanner.Tokenizer interface.

	patterns := []lexmach.Pattern{
		{Regex: `( |\t|\n)+`},              // empty tag: skip whitespace
		{Regex: `[0-9]+`, Tag: "num"},
		{Regex: `[a-z]+`, Tag: "id"},
	}
	patterns = append(patterns, lexmach.Literals("+", "*", "(", ")")...)

Having that, clients use `New` to wrap lexmachine into a scanner.Tokenizer.
New will return an error if compiling the DFA failed.

	LM, err := lexmach.New(patterns...)
	if err != nil {
		// do error handling
	}

The lexer splits complete input strings into tokens. The token sequence is
terminated by a token with tag "$".

	tokens, err := LM.Tokenize("input string to tokenize")
	if err != nil {
		// a *scanner.LexError tells where no pattern matched
	}

Please refer to package lr/parser on
how to create parsers and plug in a scanner.Tokenizer.

________________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lexmach
