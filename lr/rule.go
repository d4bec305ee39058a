package lr

import (
	"regexp"
	"strings"

	"github.com/npillmayer/lrgo"
	"github.com/npillmayer/lrgo/runtime"
)

// Routine is a semantic routine attached to a rule. A parser calls it when
// reducing the rule, with the values of the rule's children in left-to-right
// order. Children for terminals are passed as lrgo.Token, children for
// variables carry the value synthesized for them by an earlier reduction.
// The result is the synthesized value of the reduced rule.
//
// Routines should not rely on shared state. Side effects, if any, go to the
// runtime environment handed in by the parser (which may be nil).
type Routine func(env *runtime.Runtime, args []interface{}) (interface{}, error)

// Rule is a production of a grammar
//
//    LHS -> X1 X2 … Xn      (n ≥ 0)
//
// with an optional semantic routine. Rules are numbered by their position in
// the grammar; rule 0 is the augmented start rule.
type Rule struct {
	Serial  int     // position within the grammar
	LHS     *Symbol // always a variable
	rhs     []*Symbol
	Routine Routine
}

// RHS returns the right-hand side symbols of a rule. Clients must not modify
// the slice.
func (r *Rule) RHS() []*Symbol {
	return r.rhs
}

// Len returns the number of symbols on the right-hand side.
func (r *Rule) Len() int {
	return len(r.rhs)
}

// IsEpsilon is true for ε-productions.
func (r *Rule) IsEpsilon() bool {
	return len(r.rhs) == 0
}

// Equals compares two rules by LHS and RHS.
func (r *Rule) Equals(other *Rule) bool {
	if r.LHS != other.LHS || len(r.rhs) != len(other.rhs) {
		return false
	}
	for i, A := range r.rhs {
		if other.rhs[i] != A {
			return false
		}
	}
	return true
}

// lastTerminal returns the right-most terminal of the RHS, or nil. It decides
// the precedence of a rule.
func (r *Rule) lastTerminal() *Symbol {
	for i := len(r.rhs) - 1; i >= 0; i-- {
		if r.rhs[i].IsTerminal() {
			return r.rhs[i]
		}
	}
	return nil
}

func (r *Rule) String() string {
	var b strings.Builder
	b.WriteString(r.LHS.Name)
	b.WriteString(" ->")
	if len(r.rhs) == 0 {
		b.WriteString(" ε")
	}
	for _, A := range r.rhs {
		b.WriteByte(' ')
		b.WriteString(A.Name)
	}
	return b.String()
}

// --- Parsing productions ---------------------------------------------------

const arrow = "->"

var (
	identifierSyntax = regexp.MustCompile(`^[A-Za-z_][A-Za-z_']*$`)
	literalSyntax    = regexp.MustCompile("^[!-/:-@\\[-^`{-~]+$")
)

// ParseProduction splits a production `LHS -> X1 … Xn` into its left-hand side
// and right-hand side symbol names. The left-hand side has to be an identifier.
// Symbols on the right-hand side are identifiers or operator literals
// (punctuation only, like `+` or `<=`), separated by white space. An empty
// right-hand side denotes an ε-production.
func ParseProduction(text string) (string, []string, error) {
	parts := strings.Split(text, arrow)
	if len(parts) != 2 {
		return "", nil, &MalformedRuleError{Text: text, Reason: "production needs exactly one '->'"}
	}
	lhs := strings.TrimSpace(parts[0])
	if !identifierSyntax.MatchString(lhs) {
		return "", nil, &MalformedRuleError{Text: text, Reason: "invalid left-hand side " + quote(lhs)}
	}
	rhs := strings.Fields(parts[1])
	for _, sym := range rhs {
		if sym == lrgo.EOF {
			return "", nil, &MalformedRuleError{Text: text, Reason: "$ is reserved for end of input"}
		}
		if !identifierSyntax.MatchString(sym) && !literalSyntax.MatchString(sym) {
			return "", nil, &MalformedRuleError{Text: text, Reason: "invalid symbol " + quote(sym)}
		}
	}
	return lhs, rhs, nil
}

func quote(s string) string {
	return "'" + s + "'"
}
