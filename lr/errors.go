package lr

import (
	"errors"
	"fmt"
)

// ErrEmptyGrammar is returned when building a grammar without any rules.
var ErrEmptyGrammar = errors.New("grammar has no rules")

// ErrGrammarFrozen is returned for changes to precedence declarations after
// the transition table has been built.
var ErrGrammarFrozen = errors.New("grammar tables already built, precedence is frozen")

// MalformedRuleError is returned for productions which do not follow the
// syntax `LHS -> sym sym …`.
type MalformedRuleError struct {
	Text   string // production as given
	Reason string
}

func (e *MalformedRuleError) Error() string {
	return fmt.Sprintf("malformed rule %q: %s", e.Text, e.Reason)
}

// RuleLookupError signals that a rule index referenced by a table entry does not
// exist. It indicates a construction bug.
type RuleLookupError struct {
	Index int
}

func (e *RuleLookupError) Error() string {
	return fmt.Sprintf("no rule with index %d", e.Index)
}

// StateLookupError signals a missing goto target. It indicates a construction bug.
type StateLookupError struct {
	State  int
	Symbol string
}

func (e *StateLookupError) Error() string {
	return fmt.Sprintf("no goto target for state %d and symbol %s", e.State, e.Symbol)
}
