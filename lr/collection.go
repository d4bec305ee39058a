package lr

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
)

// === Closure and Goto-Set Operations =======================================

// Refer to "Crafting A Compiler" by Charles N. Fisher & Richard J. LeBlanc, Jr.
// Section 6.2.1 LR(0) Parsing, and Section 6.4 for LR(1).

// closure extends an item set by all items [B -> • γ] for variables B
// occuring after a dot. For LR(1) items [A -> α • B β, a] the new items get
// lookaheads FIRST(β a). The item set is extended in place and returned in
// canonical order.
func (ga *Analysis) closure(S *ItemSet) *ItemSet {
	for k := 0; k < len(S.items); k++ { // S.items grows while we iterate
		item := S.items[k]
		B := item.PeekSymbol()
		if B == nil || !B.IsVariable() {
			continue
		}
		if item.la == nil {
			for _, r := range ga.g.RulesFor(B) {
				S.Add(Item{rule: r})
			}
			continue
		}
		lookaheads := ga.firstOfSequence(item.Rest(), item.la).AppendTo(nil)
		for _, r := range ga.g.RulesFor(B) {
			for _, la := range lookaheads {
				S.Add(Item{rule: r, la: ga.g.symbols[la]})
			}
		}
	}
	return S.canonicalize()
}

// gotoSet collects the items of S with A after the dot, advances the dot over
// A and returns the closure. The result is empty if A does not occur after
// a dot in S.
func (ga *Analysis) gotoSet(S *ItemSet, A *Symbol) *ItemSet {
	G := newItemSet()
	for _, i := range S.items {
		if i.PeekSymbol() == A {
			G.Add(i.Advance())
		}
	}
	if G.Empty() {
		return G
	}
	return ga.closure(G)
}

// Closure returns the closure of a set of items.
func (ga *Analysis) Closure(items ...Item) *ItemSet {
	S := newItemSet()
	for _, i := range items {
		S.Add(i)
	}
	return ga.closure(S)
}

// Goto returns goto(S, A), which is empty if there is no transition.
func (ga *Analysis) Goto(S *ItemSet, A *Symbol) *ItemSet {
	return ga.gotoSet(S, A)
}

// === Canonical Collection ==================================================

// State is a state of the LR automaton, i.e. a closed item set with a serial ID.
type State struct {
	ID     int      // index within the canonical collection
	Items  *ItemSet // closed item set
	Accept bool     // contains the completed augmented start item
}

func (s *State) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.ID, s.Items.Size())
}

// Transition is an edge between two states, labeled with a grammar symbol.
type Transition struct {
	From, To int
	Label    *Symbol
}

type gotoKey struct {
	state  int
	symbol *Symbol
}

// CanonicalCollection is the collection of distinct item sets reachable from
// the closure of the start item. The position of an item set within the
// collection is its state number; state 0 is the start state.
//
// Clients normally do not use it directly, but there are some methods defined
// on it for debugging purposes or for building tables of their own.
type CanonicalCollection struct {
	g      *Grammar
	states *arraylist.List     // of *State, in order of creation
	edges  *arraylist.List     // of Transition
	gotos  map[gotoKey]int     // goto(state, symbol) -> state
	byHash map[string][]*State // structural hash buckets
}

func buildCanonicalCollection(g *Grammar, ga *Analysis) *CanonicalCollection {
	tracer().Debugf("=== build %s collection ===========================", g.variant)
	cc := &CanonicalCollection{
		g:      g,
		states: arraylist.New(),
		edges:  arraylist.New(),
		gotos:  make(map[gotoKey]int),
		byHash: make(map[string][]*State),
	}
	cc.add(ga.Closure(StartItem(g)))
	for n := 0; n < cc.states.Size(); n++ { // worklist: states are appended while iterating
		s := cc.State(n)
		for _, A := range cc.successorSymbols(s) {
			G := ga.gotoSet(s.Items, A)
			if G.Empty() {
				continue
			}
			target := cc.add(G)
			cc.gotos[gotoKey{s.ID, A}] = target.ID
			cc.edges.Add(Transition{From: s.ID, To: target.ID, Label: A})
			tracer().Debugf("goto(%d, %s) = %d", s.ID, A, target.ID)
		}
	}
	tracer().Infof("%s collection for %s has %d states", g.variant, g.Name, cc.Size())
	return cc
}

// add inserts a closed item set, if no structurally equal set is present, and
// returns its state.
func (cc *CanonicalCollection) add(S *ItemSet) *State {
	h := S.hash()
	for _, s := range cc.byHash[h] {
		if s.Items.Equals(S) {
			return s
		}
	}
	s := &State{ID: cc.states.Size(), Items: S}
	for _, i := range S.items {
		if i.rule.Serial == 0 && i.IsComplete() {
			s.Accept = true
		}
	}
	cc.states.Add(s)
	cc.byHash[h] = append(cc.byHash[h], s)
	tracer().Debugf("--- state %03d -----------", s.ID)
	S.Dump()
	return s
}

// successorSymbols lists the symbols occuring after a dot in s, in grammar
// order (variables first, then terminals).
func (cc *CanonicalCollection) successorSymbols(s *State) []*Symbol {
	seen := make(map[*Symbol]bool)
	for _, i := range s.Items.items {
		if A := i.PeekSymbol(); A != nil {
			seen[A] = true
		}
	}
	syms := make([]*Symbol, 0, len(seen))
	cc.g.EachSymbol(func(A *Symbol) {
		if seen[A] {
			syms = append(syms, A)
		}
	})
	return syms
}

// Size returns the number of states.
func (cc *CanonicalCollection) Size() int {
	return cc.states.Size()
}

// State returns state no. n, or nil.
func (cc *CanonicalCollection) State(n int) *State {
	s, ok := cc.states.Get(n)
	if !ok {
		return nil
	}
	return s.(*State)
}

// States returns all states in order.
func (cc *CanonicalCollection) States() []*State {
	states := make([]*State, 0, cc.states.Size())
	it := cc.states.Iterator()
	for it.Next() {
		states = append(states, it.Value().(*State))
	}
	return states
}

// Goto returns the target of the transition from state n with symbol A.
func (cc *CanonicalCollection) Goto(n int, A *Symbol) (int, bool) {
	target, ok := cc.gotos[gotoKey{n, A}]
	return target, ok
}

// Transitions returns all edges of the automaton, in order of creation.
func (cc *CanonicalCollection) Transitions() []Transition {
	edges := make([]Transition, 0, cc.edges.Size())
	it := cc.edges.Iterator()
	for it.Next() {
		edges = append(edges, it.Value().(Transition))
	}
	return edges
}

// Find returns the state with an item set structurally equal to S, if any.
func (cc *CanonicalCollection) Find(S *ItemSet) (*State, bool) {
	S.canonicalize()
	for _, s := range cc.byHash[S.hash()] {
		if s.Items.Equals(S) {
			return s, true
		}
	}
	return nil, false
}

// ToGraphViz exports the automaton to the Graphviz Dot format.
func (cc *CanonicalCollection) ToGraphViz(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	for _, s := range cc.States() {
		fmt.Fprintf(bw, "s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.ID, nodecolor(s), s.ID, forGraphviz(s.Items))
	}
	for _, e := range cc.Transitions() {
		fmt.Fprintf(bw, "s%03d -> s%03d [label=\"%s\"]\n", e.From, e.To, escapeDot(e.Label.Name))
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

func nodecolor(s *State) string {
	if s.Accept {
		return "lightgray"
	}
	return "white"
}

func forGraphviz(S *ItemSet) string {
	var b strings.Builder
	for k, i := range S.items {
		if k > 0 {
			b.WriteString("\\l")
		}
		b.WriteString(escapeDot(i.String()))
	}
	b.WriteString("\\l")
	return b.String()
}

var dotEscaper = strings.NewReplacer(`"`, `\"`, `{`, `\{`, `}`, `\}`, `|`, `\|`,
	`<`, `\<`, `>`, `\>`)

func escapeDot(s string) string {
	return dotEscaper.Replace(s)
}
