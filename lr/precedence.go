package lr

import (
	"fmt"
	"strings"
)

// Relation decides shift/reduce conflicts between operators of equal priority.
// A relation is declared per priority level. When an incoming terminal and the
// rule to reduce have the same priority p, the relation is applied as p ⋈ p:
// if it holds, the parser reduces, otherwise it shifts. The strict relations
// therefore make operators of a level right-associative, the non-strict ones
// left-associative.
type Relation int8

// Relations for precedence levels. Less is the default for undeclared levels.
const (
	Less         Relation = iota // <
	Greater                      // >
	LessEqual                    // <=
	GreaterEqual                 // >=
	NonAssoc                     // operators of this level may not be chained
)

// Aliases for the common cases.
const (
	Right = Less
	Left  = LessEqual
)

var relationNames = map[string]Relation{
	"<": Less, ">": Greater, "<=": LessEqual, ">=": GreaterEqual,
	"right": Right, "left": Left, "none": NonAssoc, "nonassoc": NonAssoc,
}

// ParseRelation reads a relation from its operator form (`<`, `>`, `<=`, `>=`)
// or from one of the names `left`, `right` and `none`.
func ParseRelation(s string) (Relation, error) {
	if r, ok := relationNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return r, nil
	}
	return Less, fmt.Errorf("unknown associativity relation %q", s)
}

// holds applies the relation to two priorities.
func (r Relation) holds(a, b int) bool {
	switch r {
	case Less:
		return a < b
	case Greater:
		return a > b
	case LessEqual:
		return a <= b
	case GreaterEqual:
		return a >= b
	}
	return false
}

func (r Relation) String() string {
	switch r {
	case Less:
		return "<"
	case Greater:
		return ">"
	case LessEqual:
		return "<="
	case GreaterEqual:
		return ">="
	case NonAssoc:
		return "none"
	}
	return "?"
}

// --- Precedence table ------------------------------------------------------

type precedenceTable struct {
	priority  map[string]int   // terminal name -> priority
	relations map[int]Relation // priority level -> relation
}

func newPrecedenceTable() *precedenceTable {
	return &precedenceTable{
		priority:  make(map[string]int),
		relations: make(map[int]Relation),
	}
}

func (pt *precedenceTable) priorityOf(A *Symbol) (int, bool) {
	if A == nil {
		return 0, false
	}
	p, ok := pt.priority[A.Name]
	return p, ok
}

func (pt *precedenceTable) relation(level int) Relation {
	if r, ok := pt.relations[level]; ok {
		return r
	}
	return Less
}

type resolution int8

const (
	keepExisting resolution = iota // no precedence declared
	preferShift
	preferReduce
	preferError // non-associative operators
)

// resolve decides a shift/reduce conflict between shifting terminal a and
// reducing rule r. The rule's priority is the priority of its right-most
// terminal. Undeclared priorities default to 0; if neither side is declared,
// the decision is left to the caller.
func (pt *precedenceTable) resolve(a *Symbol, r *Rule) resolution {
	pin, inDeclared := pt.priorityOf(a)
	prule, ruleDeclared := pt.priorityOf(r.lastTerminal())
	if !inDeclared && !ruleDeclared {
		return keepExisting
	}
	if pin > prule {
		return preferShift
	} else if pin < prule {
		return preferReduce
	}
	rel := pt.relation(pin)
	if rel == NonAssoc {
		return preferError
	}
	if rel.holds(pin, prule) {
		return preferReduce
	}
	return preferShift
}
