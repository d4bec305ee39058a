/*
Package lr implements table generation for LR parsing.

Building a Grammar

Grammars are specified as a list of productions in textual form. The
left-hand side of the first production is the start symbol. Productions may
carry a semantic routine, which is called by a parser whenever the rule is
reduced.

Example:

    b := lr.NewGrammarBuilder("Sums")
    b.Rule("S -> E")
    b.Rule("E -> E + E", add)          // add is an lr.Routine
    b.Rule("E -> num")
    b.Precedence("+", 1)
    b.Associativity(1, lr.Left)
    g, err := b.Grammar()

Symbols are either identifiers (letters, underscores and primes) or
operator literals made of punctuation characters, such as `+` or `(`.
Every symbol occuring on the left-hand side of a production is a variable,
all others are terminals. The grammar is augmented by a rule

   0: S' -> S

where S is the start symbol; user rules are numbered from 1.

Static Grammar Analysis

FIRST and FOLLOW sets are computed on demand by an Analysis object.
Although mainly intended for internal purposes of constructing the parser
tables, they are public:

    ga := g.Analysis()
    fmt.Printf("FIRST(E) = %v", ga.First(g.Symbol("E")))

Parser Tables

The canonical collection of item sets is built from the grammar, either as
LR(0) item sets for an SLR parser or as canonical LR(1) item sets, depending on
the grammar's variant. From the collection a transition table is derived,
holding shift, reduce, goto and accept actions. Shift/reduce conflicts are
resolved by operator precedence, reduce/reduce conflicts by rule order
(configurable). Collection and table are computed once and cached.

    table, err := g.Table()
    action, ok := table.Get(0, g.Symbol("num"))

The collection can be exported to Graphviz's Dot format, the table to HTML.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrgo.lr'.
func tracer() tracing.Trace {
	return tracing.Select("lrgo.lr")
}
