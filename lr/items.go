package lr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cnf/structhash"
)

// Item is a rule together with a dot position, marking how much of the rule's
// right-hand side has been matched. For LR(1) grammars an item carries a
// lookahead terminal; LR(0) items have a nil lookahead.
//
// Items are values and are comparable with ==.
type Item struct {
	rule *Rule
	dot  int
	la   *Symbol
}

// StartItem returns the item S' -> • S for the augmented start rule, with
// lookahead $ for LR(1) grammars.
func StartItem(g *Grammar) Item {
	i := Item{rule: g.rules[0]}
	if g.variant == LR1 {
		i.la = g.eof
	}
	return i
}

// Rule returns the rule of an item.
func (i Item) Rule() *Rule {
	return i.rule
}

// Dot returns the dot position, 0 … len(RHS).
func (i Item) Dot() int {
	return i.dot
}

// Lookahead returns the lookahead terminal of an LR(1) item, or nil.
func (i Item) Lookahead() *Symbol {
	return i.la
}

// PeekSymbol returns the symbol after the dot, or nil for completed items.
func (i Item) PeekSymbol() *Symbol {
	if i.dot >= len(i.rule.rhs) {
		return nil
	}
	return i.rule.rhs[i.dot]
}

// IsComplete is true if the dot is behind the RHS.
func (i Item) IsComplete() bool {
	return i.dot >= len(i.rule.rhs)
}

// Advance moves the dot one symbol to the right.
func (i Item) Advance() Item {
	if i.IsComplete() {
		return i
	}
	i.dot++
	return i
}

// Rest returns the symbols behind the symbol after the dot.
func (i Item) Rest() []*Symbol {
	if i.dot+1 >= len(i.rule.rhs) {
		return nil
	}
	return i.rule.rhs[i.dot+1:]
}

// Core returns the item without its lookahead.
func (i Item) Core() Item {
	i.la = nil
	return i
}

func (i Item) String() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(i.rule.LHS.Name)
	b.WriteString(" ->")
	for k, A := range i.rule.rhs {
		if k == i.dot {
			b.WriteString(" •")
		}
		b.WriteByte(' ')
		b.WriteString(A.Name)
	}
	if i.IsComplete() {
		b.WriteString(" •")
	}
	if i.la != nil {
		b.WriteString(", ")
		b.WriteString(i.la.Name)
	}
	b.WriteByte(']')
	return b.String()
}

func (i Item) less(j Item) bool {
	if i.rule.Serial != j.rule.Serial {
		return i.rule.Serial < j.rule.Serial
	}
	if i.dot != j.dot {
		return i.dot < j.dot
	}
	return laID(i.la) < laID(j.la)
}

func laID(A *Symbol) int {
	if A == nil {
		return -1
	}
	return A.ID
}

// === Item Sets =============================================================

// ItemSet is a set of items, i.e. a state of an LR automaton. Item sets
// stored in a canonical collection are closed and kept in canonical order
// (by rule, dot position and lookahead); they are not modified afterwards.
type ItemSet struct {
	items []Item
	index map[Item]struct{}
}

func newItemSet() *ItemSet {
	return &ItemSet{index: make(map[Item]struct{})}
}

// Add inserts an item, if not already present. It returns true if the item
// has been added.
func (S *ItemSet) Add(i Item) bool {
	if _, ok := S.index[i]; ok {
		return false
	}
	S.index[i] = struct{}{}
	S.items = append(S.items, i)
	return true
}

// Contains checks for membership of an item.
func (S *ItemSet) Contains(i Item) bool {
	_, ok := S.index[i]
	return ok
}

// Size returns the number of items.
func (S *ItemSet) Size() int {
	return len(S.items)
}

// Empty is true for an item set without items.
func (S *ItemSet) Empty() bool {
	return len(S.items) == 0
}

// Items returns the items of a set. Clients must not modify the slice.
func (S *ItemSet) Items() []Item {
	return S.items
}

// Equals compares two item sets structurally.
func (S *ItemSet) Equals(other *ItemSet) bool {
	if S.Size() != other.Size() {
		return false
	}
	for _, i := range S.items {
		if !other.Contains(i) {
			return false
		}
	}
	return true
}

// canonicalize sorts the items.
func (S *ItemSet) canonicalize() *ItemSet {
	sort.Slice(S.items, func(a, b int) bool {
		return S.items[a].less(S.items[b])
	})
	return S
}

// signature types are used for structural hashing of item sets.
type itemSignature struct {
	Rule      int
	Dot       int
	Lookahead int
}

type itemSetSignature struct {
	Items []itemSignature
}

// hash computes a structural hash for a canonicalized item set.
func (S *ItemSet) hash() string {
	sig := itemSetSignature{Items: make([]itemSignature, len(S.items))}
	for k, i := range S.items {
		sig.Items[k] = itemSignature{Rule: i.rule.Serial, Dot: i.dot, Lookahead: laID(i.la)}
	}
	h, err := structhash.Hash(sig, 1)
	if err != nil { // should not happen for plain structs
		tracer().Errorf("cannot hash item set: %v", err)
		return fmt.Sprintf("%v", sig)
	}
	return h
}

func (S *ItemSet) String() string {
	var b strings.Builder
	b.WriteString("{")
	for k, i := range S.items {
		if k > 0 {
			b.WriteString(",")
		}
		b.WriteString(" ")
		b.WriteString(i.String())
	}
	b.WriteString(" }")
	return b.String()
}

// Dump is a debugging helper, tracing the items of a set line by line.
func (S *ItemSet) Dump() {
	for _, i := range S.items {
		tracer().Debugf("    %s", i)
	}
}
