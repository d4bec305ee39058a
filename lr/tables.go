package lr

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/npillmayer/lrgo/lr/sparse"
	"github.com/npillmayer/schuko/gconf"
)

// ActionKind is the kind of an entry in a transition table.
type ActionKind uint8

// Kinds of actions. Empty is the zero value, i.e. no action.
const (
	Empty ActionKind = iota
	Shift
	Reduce
	Goto
	Accept
	Conflict
)

func (k ActionKind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	case Goto:
		return "goto"
	case Accept:
		return "accept"
	case Conflict:
		return "conflict"
	}
	return "?"
}

// Action is an entry in a transition table. Target is the state to shift or
// go to, or the index of the rule to reduce. Conflict actions list the
// competing actions in Candidates.
type Action struct {
	Kind       ActionKind
	Target     int
	Candidates []Action
}

// ShiftTo creates a shift action.
func ShiftTo(state int) Action { return Action{Kind: Shift, Target: state} }

// ReduceBy creates a reduce action.
func ReduceBy(rule int) Action { return Action{Kind: Reduce, Target: rule} }

// GotoState creates a goto action.
func GotoState(state int) Action { return Action{Kind: Goto, Target: state} }

// AcceptInput creates an accept action.
func AcceptInput() Action { return Action{Kind: Accept} }

// IsEmpty is true for Empty actions.
func (a Action) IsEmpty() bool {
	return a.Kind == Empty
}

// Equals compares two actions.
func (a Action) Equals(b Action) bool {
	if a.Kind != b.Kind || a.Target != b.Target || len(a.Candidates) != len(b.Candidates) {
		return false
	}
	for k, c := range a.Candidates {
		if !c.Equals(b.Candidates[k]) {
			return false
		}
	}
	return true
}

// String renders an action the way LR tables are usually printed:
// s4 (shift), r2 (reduce), 3 (goto), acc, and s4/r2 for conflicts.
func (a Action) String() string {
	switch a.Kind {
	case Shift:
		return "s" + strconv.Itoa(a.Target)
	case Reduce:
		return "r" + strconv.Itoa(a.Target)
	case Goto:
		return strconv.Itoa(a.Target)
	case Accept:
		return "acc"
	case Conflict:
		c := make([]string, len(a.Candidates))
		for k, cand := range a.Candidates {
			c[k] = cand.String()
		}
		return strings.Join(c, "/")
	}
	return ""
}

// ConflictReport documents a conflict found while building a table, and how
// it has been resolved.
type ConflictReport struct {
	State      int
	Symbol     *Symbol
	Actions    []Action // competing actions, in order of proposal
	Resolution Action   // surviving entry
	Resolved   bool     // false if the cell holds a Conflict action
	Reason     string
}

func (c ConflictReport) String() string {
	acts := make([]string, len(c.Actions))
	for k, a := range c.Actions {
		acts[k] = a.String()
	}
	res := c.Resolution.String()
	if c.Resolution.IsEmpty() {
		res = "error"
	}
	return fmt.Sprintf("state %d, %s: %s -> %s (%s)", c.State, c.Symbol, strings.Join(acts, " vs "), res, c.Reason)
}

// === Transition Table ======================================================

// TransitionTable maps (state, symbol) to actions. Columns of terminals hold
// shift, reduce and accept actions, columns of variables hold goto actions.
// A table is built once per grammar, see Grammar.Table(), and is read-only
// afterwards.
type TransitionTable struct {
	g         *Grammar
	cc        *CanonicalCollection
	prec      *precedenceTable
	cells     *sparse.Matrix[Action]
	conflicts []ConflictReport
	blocked   map[[2]int]bool // cells emptied by non-associativity
}

// Get returns the action for a state and a symbol. It returns false if the
// cell is empty.
func (t *TransitionTable) Get(state int, A *Symbol) (Action, bool) {
	if A == nil {
		return Action{}, false
	}
	a := t.cells.Value(state, A.ID)
	return a, !a.IsEmpty()
}

// Action returns the action for a state and the tag of an input token.
// Tags which are not terminals of the grammar yield an Empty action.
func (t *TransitionTable) Action(state int, tag string) Action {
	A := t.g.Symbol(tag)
	if A == nil || !A.IsTerminal() {
		return Action{}
	}
	a, _ := t.Get(state, A)
	return a
}

// StateCount returns the number of states, i.e. the number of rows.
func (t *TransitionTable) StateCount() int {
	return t.cc.Size()
}

// Grammar returns the grammar this table is for.
func (t *TransitionTable) Grammar() *Grammar {
	return t.g
}

// CanonicalCollection returns the collection this table has been built from.
func (t *TransitionTable) CanonicalCollection() *CanonicalCollection {
	return t.cc
}

// Conflicts returns all conflicts found during construction.
func (t *TransitionTable) Conflicts() []ConflictReport {
	return t.conflicts
}

// HasConflicts is true if any cell holds a Conflict action.
func (t *TransitionTable) HasConflicts() bool {
	for _, c := range t.conflicts {
		if !c.Resolved {
			return true
		}
	}
	return false
}

// Expected returns the names of the terminals with a non-empty action in a
// state, sorted by name.
func (t *TransitionTable) Expected(state int) []string {
	set := treeset.NewWithStringComparator()
	for _, A := range t.g.terminals {
		if _, ok := t.Get(state, A); ok {
			set.Add(A.Name)
		}
	}
	names := make([]string, 0, set.Size())
	for _, v := range set.Values() {
		names = append(names, v.(string))
	}
	return names
}

// Columns returns the symbols in column order: terminals (including $),
// then variables.
func (t *TransitionTable) Columns() []*Symbol {
	cols := make([]*Symbol, 0, len(t.g.terminals)+len(t.g.variables))
	cols = append(cols, t.g.terminals...)
	return append(cols, t.g.variables...)
}

// Rows returns a tabular dump of the table, one row per state and one column
// per symbol. The first row is a header row with the symbol names, the first
// column holds the state number.
func (t *TransitionTable) Rows() [][]string {
	cols := t.Columns()
	rows := make([][]string, 0, t.StateCount()+1)
	header := make([]string, 0, len(cols)+1)
	header = append(header, "")
	for _, A := range cols {
		header = append(header, A.Name)
	}
	rows = append(rows, header)
	for n := 0; n < t.StateCount(); n++ {
		row := make([]string, 0, len(cols)+1)
		row = append(row, strconv.Itoa(n))
		for _, A := range cols {
			a, _ := t.Get(n, A)
			row = append(row, a.String())
		}
		rows = append(rows, row)
	}
	return rows
}

// ToHTML exports the table in HTML format.
func (t *TransitionTable) ToHTML(w io.Writer) error {
	bw := bufio.NewWriter(w)
	rows := t.Rows()
	bw.WriteString("<html><body>\n")
	fmt.Fprintf(bw, "<p>%s table for %s, %d states, %d entries</p>\n",
		t.g.variant, html.EscapeString(t.g.Name), t.StateCount(), t.cells.ValueCount())
	bw.WriteString("<table border=1 cellspacing=0 cellpadding=5>\n")
	for k, row := range rows {
		if k == 0 {
			bw.WriteString("<tr bgcolor=#cccccc>")
		} else {
			bw.WriteString("<tr>")
		}
		for _, cell := range row {
			if cell == "" {
				cell = "&nbsp;"
			} else {
				cell = html.EscapeString(cell)
			}
			bw.WriteString("<td>")
			bw.WriteString(cell)
			bw.WriteString("</td>")
		}
		bw.WriteString("</tr>\n")
	}
	bw.WriteString("</table></body></html>\n")
	return bw.Flush()
}

// === Table Construction ====================================================

// buildTable iterates over the states of the collection and over the items
// within each state.
//
// - An item with a variable A after the dot produces a goto entry for A.
// - An item with a terminal a after the dot proposes a shift on a.
// - A completed item proposes a reduce of its rule, for every terminal in
//   FOLLOW(LHS) (SLR) or for the item's lookahead (LR(1)).
// - The completed augmented start item produces accept on $.
//
// Proposals for cells which are already set are subject to conflict resolution.
func buildTable(g *Grammar, cc *CanonicalCollection, ga *Analysis, prec *precedenceTable) (*TransitionTable, error) {
	t := &TransitionTable{
		g:       g,
		cc:      cc,
		prec:    prec,
		cells:   sparse.NewMatrix[Action](cc.Size(), len(g.symbols), Action{}),
		blocked: make(map[[2]int]bool),
	}
	tracer().Infof("%s table of size %d x %d", g.variant, cc.Size(), len(g.symbols))
	for _, s := range cc.States() {
		for _, i := range s.Items.items {
			A := i.PeekSymbol()
			switch {
			case A != nil:
				target, ok := cc.Goto(s.ID, A)
				if !ok {
					err := &StateLookupError{State: s.ID, Symbol: A.Name}
					tracer().Errorf("%v", err)
					return nil, err
				}
				if A.IsVariable() {
					t.cells.Set(s.ID, A.ID, GotoState(target))
				} else {
					t.propose(s.ID, A, ShiftTo(target))
				}
			case i.rule.Serial == 0:
				t.accept(s.ID)
			case i.la != nil:
				t.propose(s.ID, i.la, ReduceBy(i.rule.Serial))
			default:
				for _, la := range ga.followSet(i.rule.LHS).AppendTo(nil) {
					t.propose(s.ID, g.symbols[la], ReduceBy(i.rule.Serial))
				}
			}
		}
	}
	tracer().Infof("%s table has %d entries, %d conflicts", g.variant, t.cells.ValueCount(), len(t.conflicts))
	if t.HasConflicts() && gconf.GetBool("lr-panic-on-conflict") {
		panic(fmt.Sprintf(`Unresolved conflicts in grammar %s.

Configuration flag lr-panic-on-conflict is set to true. It is aimed at helping
to debug a grammar. If you did not expect this to panic, please unset
lr-panic-on-conflict to its default (false).

%v`, g.Name, t.conflicts))
	}
	return t, nil
}

func (t *TransitionTable) accept(state int) {
	old := t.cells.Value(state, eofID)
	if !old.IsEmpty() && old.Kind != Accept {
		t.report(state, t.g.eof, []Action{old, AcceptInput()}, AcceptInput(), true, "accept wins")
	}
	t.cells.Set(state, eofID, AcceptInput())
}

// propose puts a shift or reduce action into a cell, resolving conflicts
// with an action already present.
func (t *TransitionTable) propose(state int, a *Symbol, act Action) {
	if t.blocked[[2]int{state, a.ID}] {
		return
	}
	old := t.cells.Value(state, a.ID)
	switch {
	case old.IsEmpty():
		t.cells.Set(state, a.ID, act)
	case old.Equals(act):
		// relax, double proposal
	case old.Kind == Accept:
		t.report(state, a, []Action{old, act}, old, true, "accept wins")
	case old.Kind == Conflict:
		for _, c := range old.Candidates {
			if c.Equals(act) {
				return
			}
		}
		old.Candidates = append(old.Candidates, act)
		t.cells.Set(state, a.ID, old)
		t.report(state, a, old.Candidates, old, false, "unresolved")
	case old.Kind == Reduce && act.Kind == Reduce:
		t.resolveReduceReduce(state, a, old, act)
	default:
		t.resolveShiftReduce(state, a, old, act)
	}
}

func (t *TransitionTable) resolveShiftReduce(state int, a *Symbol, old, act Action) {
	shift, reduce := old, act
	if old.Kind == Reduce {
		shift, reduce = act, old
	}
	tracer().Debugf("shift/reduce conflict in state %d on %s: %v vs %v", state, a, old, act)
	var winner Action
	var reason string
	switch t.prec.resolve(a, t.g.rules[reduce.Target]) {
	case preferShift:
		winner, reason = shift, "precedence"
	case preferReduce:
		winner, reason = reduce, "precedence"
	case preferError:
		winner, reason = Action{}, "non-associative"
		t.blocked[[2]int{state, a.ID}] = true
	default:
		if t.g.policy == KeepConflicts {
			t.keepConflict(state, a, old, act)
			return
		}
		winner, reason = old, "first proposal"
	}
	t.cells.Set(state, a.ID, winner)
	t.report(state, a, []Action{old, act}, winner, true, reason)
}

func (t *TransitionTable) resolveReduceReduce(state int, a *Symbol, old, act Action) {
	tracer().Debugf("reduce/reduce conflict in state %d on %s: %v vs %v", state, a, old, act)
	if t.g.policy == KeepConflicts {
		t.keepConflict(state, a, old, act)
		return
	}
	winner := old
	if act.Target < old.Target {
		winner = act
	}
	t.cells.Set(state, a.ID, winner)
	t.report(state, a, []Action{old, act}, winner, true, "lowest rule index")
}

func (t *TransitionTable) keepConflict(state int, a *Symbol, old, act Action) {
	c := Action{Kind: Conflict, Candidates: []Action{old, act}}
	t.cells.Set(state, a.ID, c)
	t.report(state, a, c.Candidates, c, false, "unresolved")
}

// report records a conflict. A cell's conflict is reported once; later
// reports for the same cell replace earlier ones.
func (t *TransitionTable) report(state int, a *Symbol, acts []Action, res Action, resolved bool, reason string) {
	r := ConflictReport{
		State:      state,
		Symbol:     a,
		Actions:    append([]Action(nil), acts...),
		Resolution: res,
		Resolved:   resolved,
		Reason:     reason,
	}
	tracer().P("state", state).Infof("conflict: %s", r)
	for k, c := range t.conflicts {
		if c.State == state && c.Symbol == a {
			r.Actions = mergeActions(c.Actions, r.Actions)
			t.conflicts[k] = r
			return
		}
	}
	t.conflicts = append(t.conflicts, r)
}

func mergeActions(a, b []Action) []Action {
	merged := append([]Action(nil), a...)
	for _, x := range b {
		present := false
		for _, y := range merged {
			if x.Equals(y) {
				present = true
				break
			}
		}
		if !present {
			merged = append(merged, x)
		}
	}
	return merged
}
