/*
Package lrgo is a table-driven LR parsing toolbox.

LRGo generates LR parser tables from a context-free grammar at runtime and
drives a shift-reduce automaton over a token stream, producing a parse tree
and evaluating semantic routines attached to grammar rules. There is no
code-generation step: clients declare a grammar, optionally together with
operator precedences, and use the parser directly.
Package structure is as follows:

■ lr: Package lr implements the grammar model, FIRST/FOLLOW analysis, the
canonical collection of LR(0) and LR(1) item sets and the transition table.

■ lr/parser: Package parser implements the shift-reduce engine.

■ lr/tree: Package tree holds parse tree nodes.

■ lr/scanner: Package scanner defines the lexer contract; sub-package lexmach
implements a pattern-to-tag lexer on top of lexmachine.

■ lr/gspec: Package gspec reads grammar declarations from YAML files.

■ runtime: Package runtime provides an environment for semantic routines.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lrgo
