package lr

import (
	"fmt"
	"strings"
	"sync"

	"github.com/npillmayer/lrgo"
)

// Variant selects the kind of item sets a grammar's tables are built from.
type Variant int8

const (
	// SLR uses LR(0) item sets and FOLLOW sets for reduce lookaheads.
	SLR Variant = iota
	// LR1 uses canonical LR(1) item sets; every item carries its own lookahead.
	LR1
)

func (v Variant) String() string {
	if v == LR1 {
		return "LR(1)"
	}
	return "SLR"
}

// ParseVariant reads a variant name ("slr", "lr0", "lr1", "LR(1)", …).
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.NewReplacer("(", "", ")", "").Replace(s)) {
	case "slr", "slr1", "lr0", "":
		return SLR, nil
	case "lr1", "clr", "clr1":
		return LR1, nil
	}
	return SLR, fmt.Errorf("unknown grammar variant %q", s)
}

// ConflictPolicy determines what happens to reduce/reduce conflicts and to
// shift/reduce conflicts which are not covered by precedence declarations.
type ConflictPolicy int8

const (
	// PreferFirst keeps the action proposed first for shift/reduce conflicts
	// and the rule with the lowest index for reduce/reduce conflicts.
	PreferFirst ConflictPolicy = iota
	// KeepConflicts leaves all candidates in the table cell. A parser running
	// into such a cell fails.
	KeepConflicts
)

// Grammar is a context-free grammar, augmented by a start rule. It owns the
// derived data for parsing (analysis, canonical collection, transition table),
// which is computed lazily on first request and cached afterwards.
//
// A grammar is immutable except for precedence declarations, which may be
// changed until the transition table is built. Once built, a grammar may be
// shared between goroutines.
type Grammar struct {
	Name      string
	variant   Variant
	policy    ConflictPolicy
	rules     []*Rule             // rules[0] is the augmented start rule
	symbols   []*Symbol           // indexed by symbol ID
	byName    map[string]*Symbol  // interned symbols
	rulesFor  map[*Symbol][]*Rule // rules by LHS
	variables []*Symbol           // user variables, start symbol first
	terminals []*Symbol           // in order of appearance, $ last
	epsilon   *Symbol
	eof       *Symbol
	mu        sync.Mutex // guards prec and frozen
	prec      *precedenceTable
	frozen    bool
	anaOnce   sync.Once
	analysis  *Analysis
	ccOnce    sync.Once
	cc        *CanonicalCollection
	tabOnce   sync.Once
	table     *TransitionTable
	tableErr  error
}

// Variant returns the kind of item sets used for this grammar.
func (g *Grammar) Variant() Variant {
	return g.variant
}

// Rule returns rule no. n, or nil if there is no such rule.
// Rule 0 is the augmented start rule.
func (g *Grammar) Rule(n int) *Rule {
	if n < 0 || n >= len(g.rules) {
		return nil
	}
	return g.rules[n]
}

// Rules returns all rules, including the augmented start rule at index 0.
// Clients must not modify the slice.
func (g *Grammar) Rules() []*Rule {
	return g.rules
}

// Size returns the number of rules, including the augmented start rule.
func (g *Grammar) Size() int {
	return len(g.rules)
}

// RulesFor returns the rules with left-hand side A.
func (g *Grammar) RulesFor(A *Symbol) []*Rule {
	return g.rulesFor[A]
}

// Symbol returns the symbol for a name, or nil if the grammar has no such symbol.
func (g *Grammar) Symbol(name string) *Symbol {
	return g.byName[name]
}

// SymbolByID returns the symbol with the given ID, or nil.
func (g *Grammar) SymbolByID(id int) *Symbol {
	if id < 0 || id >= len(g.symbols) {
		return nil
	}
	return g.symbols[id]
}

// Start returns the start symbol, i.e. the LHS of the first user rule.
func (g *Grammar) Start() *Symbol {
	return g.rules[0].rhs[0]
}

// AugmentedStart returns the LHS of the augmented start rule S' -> S.
func (g *Grammar) AugmentedStart() *Symbol {
	return g.rules[0].LHS
}

// EOF returns the end of input marker $.
func (g *Grammar) EOF() *Symbol {
	return g.eof
}

// Epsilon returns the symbol for the empty word, which occurs in FIRST sets.
func (g *Grammar) Epsilon() *Symbol {
	return g.epsilon
}

// Variables returns the variables of the grammar in order of first
// appearance, the start symbol first. The augmented start symbol is not
// included.
func (g *Grammar) Variables() []*Symbol {
	return g.variables
}

// Terminals returns the terminals of the grammar in order of first
// appearance, followed by $.
func (g *Grammar) Terminals() []*Symbol {
	return g.terminals
}

// EachSymbol iterates over variables and terminals of the grammar, in this order.
func (g *Grammar) EachSymbol(mapper func(A *Symbol)) {
	for _, A := range g.variables {
		mapper(A)
	}
	for _, A := range g.terminals {
		mapper(A)
	}
}

// SetPrecedence declares the priority of a terminal. It fails with
// ErrGrammarFrozen after the transition table has been built.
func (g *Grammar) SetPrecedence(terminal string, priority int) error {
	if A := g.Symbol(terminal); A != nil && !A.IsTerminal() {
		return fmt.Errorf("cannot set precedence for variable %s", terminal)
	} else if A == nil {
		tracer().Infof("precedence declared for %q, which does not occur in grammar %s", terminal, g.Name)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.frozen {
		return ErrGrammarFrozen
	}
	g.prec.priority[terminal] = priority
	return nil
}

// SetAssociativity declares the relation for a priority level.
// It fails with ErrGrammarFrozen after the transition table has been built.
func (g *Grammar) SetAssociativity(level int, rel Relation) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.frozen {
		return ErrGrammarFrozen
	}
	g.prec.relations[level] = rel
	return nil
}

// freeze ends the phase of precedence declarations.
func (g *Grammar) freeze() *precedenceTable {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.frozen = true
	return g.prec
}

// Analysis returns FIRST and FOLLOW sets for the grammar.
func (g *Grammar) Analysis() *Analysis {
	g.anaOnce.Do(func() {
		g.analysis = analyse(g)
	})
	return g.analysis
}

// CanonicalCollection returns the collection of item sets for the grammar,
// LR(0) or LR(1) depending on the grammar's variant.
func (g *Grammar) CanonicalCollection() *CanonicalCollection {
	g.ccOnce.Do(func() {
		g.cc = buildCanonicalCollection(g, g.Analysis())
	})
	return g.cc
}

// Table returns the transition table for the grammar. It is built on first
// call; subsequent calls return the same table (or the same error).
func (g *Grammar) Table() (*TransitionTable, error) {
	g.tabOnce.Do(func() {
		g.table, g.tableErr = buildTable(g, g.CanonicalCollection(), g.Analysis(), g.freeze())
	})
	return g.table, g.tableErr
}

func (g *Grammar) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s grammar %s\n", g.variant, g.Name)
	for _, r := range g.rules {
		fmt.Fprintf(&b, "%3d: %s\n", r.Serial, r)
	}
	return b.String()
}

// Dump is a debugging helper, tracing the rules of a grammar.
func (g *Grammar) Dump() {
	tracer().Debugf("--- %s grammar %s ---------------", g.variant, g.Name)
	for _, r := range g.rules {
		tracer().Debugf("%3d: %s", r.Serial, r)
	}
	tracer().Debugf("-------------------------------------")
}

// === Grammar Builder =======================================================

// RuleSpec is the specification of a rule, i.e. a production text and an
// optional semantic routine.
type RuleSpec struct {
	Production string
	Routine    Routine
}

// GrammarBuilder collects rules and precedence declarations for a grammar.
// Errors are deferred to the call of Grammar(). Usage:
//
//     b := lr.NewGrammarBuilder("G")
//     b.Rule("S -> A b")
//     b.Rule("A -> a")
//     b.Rule("A ->")          // ε-production
//     g, err := b.Grammar()
//
type GrammarBuilder struct {
	name      string
	variant   Variant
	policy    ConflictPolicy
	specs     []RuleSpec
	priority  []precDecl
	relations map[int]Relation
}

type precDecl struct {
	terminal string
	priority int
}

// NewGrammarBuilder creates a builder for an SLR grammar.
func NewGrammarBuilder(name string) *GrammarBuilder {
	return &GrammarBuilder{
		name:      name,
		relations: make(map[int]Relation),
	}
}

// NewGrammar is a shortcut for building a grammar from a list of rule specs.
func NewGrammar(name string, variant Variant, specs ...RuleSpec) (*Grammar, error) {
	b := NewGrammarBuilder(name).Variant(variant)
	b.specs = append(b.specs, specs...)
	return b.Grammar()
}

// Rule adds a production, optionally with a semantic routine.
func (b *GrammarBuilder) Rule(production string, routine ...Routine) *GrammarBuilder {
	rs := RuleSpec{Production: production}
	if len(routine) > 0 {
		rs.Routine = routine[0]
	}
	b.specs = append(b.specs, rs)
	return b
}

// Precedence declares the priority of a terminal.
func (b *GrammarBuilder) Precedence(terminal string, priority int) *GrammarBuilder {
	b.priority = append(b.priority, precDecl{terminal, priority})
	return b
}

// Associativity declares the relation for a priority level.
func (b *GrammarBuilder) Associativity(level int, rel Relation) *GrammarBuilder {
	b.relations[level] = rel
	return b
}

// Variant sets the kind of item sets to build the tables from. Default is SLR.
func (b *GrammarBuilder) Variant(v Variant) *GrammarBuilder {
	b.variant = v
	return b
}

// ReduceConflicts sets the conflict policy. Default is PreferFirst.
func (b *GrammarBuilder) ReduceConflicts(p ConflictPolicy) *GrammarBuilder {
	b.policy = p
	return b
}

type production struct {
	lhs     string
	rhs     []string
	routine Routine
}

// Grammar parses the productions, interns the symbols and augments the grammar
// with a start rule. It returns a *MalformedRuleError for productions which do
// not parse.
func (b *GrammarBuilder) Grammar() (*Grammar, error) {
	if len(b.specs) == 0 {
		return nil, ErrEmptyGrammar
	}
	prods := make([]production, 0, len(b.specs))
	for _, rs := range b.specs {
		lhs, rhs, err := ParseProduction(rs.Production)
		if err != nil {
			tracer().Errorf("%v", err)
			return nil, err
		}
		prods = append(prods, production{lhs: lhs, rhs: rhs, routine: rs.Routine})
	}
	g := &Grammar{
		Name:     b.name,
		variant:  b.variant,
		policy:   b.policy,
		byName:   make(map[string]*Symbol),
		rulesFor: make(map[*Symbol][]*Rule),
		epsilon:  newEpsilon(),
		eof:      newEOF(),
		prec:     newPrecedenceTable(),
	}
	g.symbols = []*Symbol{g.epsilon, g.eof}
	g.byName[g.eof.Name] = g.eof
	start := g.intern(augmentedName(prods[0].lhs, prods), variableSymbol)
	for _, p := range prods { // variables first
		if g.byName[p.lhs] == nil {
			g.variables = append(g.variables, g.intern(p.lhs, variableSymbol))
		}
	}
	for _, p := range prods {
		for _, name := range p.rhs {
			if g.byName[name] == nil {
				g.terminals = append(g.terminals, g.intern(name, terminalSymbol))
			}
		}
	}
	g.terminals = append(g.terminals, g.eof)
	g.addRule(start, []*Symbol{g.variables[0]}, nil)
	for _, p := range prods {
		rhs := make([]*Symbol, len(p.rhs))
		for i, name := range p.rhs {
			rhs[i] = g.byName[name]
		}
		g.addRule(g.byName[p.lhs], rhs, p.routine)
	}
	for _, decl := range b.priority {
		if err := g.SetPrecedence(decl.terminal, decl.priority); err != nil {
			return nil, err
		}
	}
	for level, rel := range b.relations {
		g.prec.relations[level] = rel
	}
	tracer().Infof("grammar %s: %d rules, %d variables, %d terminals", g.Name,
		len(g.rules), len(g.variables), len(g.terminals))
	g.Dump()
	return g, nil
}

func (g *Grammar) intern(name string, kind symbolKind) *Symbol {
	A := &Symbol{Name: name, ID: len(g.symbols), kind: kind}
	g.symbols = append(g.symbols, A)
	g.byName[name] = A
	return A
}

func (g *Grammar) addRule(lhs *Symbol, rhs []*Symbol, routine Routine) *Rule {
	r := &Rule{Serial: len(g.rules), LHS: lhs, rhs: rhs, Routine: routine}
	g.rules = append(g.rules, r)
	g.rulesFor[lhs] = append(g.rulesFor[lhs], r)
	return r
}

// augmentedName derives S' from start symbol S, appending primes until the
// name is not used by any other symbol.
func augmentedName(start string, prods []production) string {
	used := make(map[string]bool)
	for _, p := range prods {
		used[p.lhs] = true
		for _, name := range p.rhs {
			used[name] = true
		}
	}
	name := start + "'"
	for used[name] {
		name += "'"
	}
	return name
}

// TerminalNames returns the names of the grammar's terminals, excluding $.
func (g *Grammar) TerminalNames() []string {
	names := make([]string, 0, len(g.terminals))
	for _, A := range g.terminals {
		if !A.IsEOF() {
			names = append(names, A.Name)
		}
	}
	return names
}

// Lookup finds the terminal for a token. It returns nil for tags which are
// not terminals of the grammar.
func (g *Grammar) Lookup(tok lrgo.Token) *Symbol {
	if A := g.byName[tok.Tag]; A != nil && A.IsTerminal() {
		return A
	}
	return nil
}
