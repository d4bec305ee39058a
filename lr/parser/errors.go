package parser

import (
	"fmt"
	"strings"

	"github.com/npillmayer/lrgo"
	"github.com/npillmayer/lrgo/lr"
)

// SyntaxError is returned if the parse table holds no action for the current
// state and input token.
type SyntaxError struct {
	Token    lrgo.Token // offending token
	Position int        // index of the token in the input sequence
	State    int        // state of the automaton
	Expected []string   // tags acceptable in State
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: unexpected %v at token #%d (state %d), expected one of [%s]",
		e.Token, e.Position, e.State, strings.Join(e.Expected, " "))
}

// ParserLoopError is returned if a parse exceeds the step limit of a parser.
// It indicates a defective parse table rather than a problem with the input.
type ParserLoopError struct {
	Steps int
}

func (e *ParserLoopError) Error() string {
	return fmt.Sprintf("parser stopped after %d steps without accepting", e.Steps)
}

// GrammarTokenMismatchError is returned if a lexer is unable to produce
// tokens for some terminals of a grammar.
type GrammarTokenMismatchError struct {
	Missing []string // terminals without a lexer tag
}

func (e *GrammarTokenMismatchError) Error() string {
	return fmt.Sprintf("lexer does not produce tags for terminals [%s]", strings.Join(e.Missing, " "))
}

// SemanticError wraps an error returned by the semantic routine of a rule.
type SemanticError struct {
	Rule *lr.Rule
	Err  error
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("semantic routine for %v failed: %v", e.Rule, e.Err)
}

func (e *SemanticError) Unwrap() error {
	return e.Err
}

// ConflictError is returned if a parse reaches a table cell holding an
// unresolved conflict.
type ConflictError struct {
	State      int
	Symbol     string
	Candidates []lr.Action
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("unresolved conflict in state %d on %s: %v", e.State, e.Symbol, e.Candidates)
}
