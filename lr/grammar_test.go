package lr

import (
	"errors"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// We use the expression grammar of the dragon book (Aho et al., section 4.6)
// for most of the tests.
//
//     E  ->  E + T  |  T
//     T  ->  T * F  |  F
//     F  ->  ( E )  |  id
//
func exprGrammar(t *testing.T, v Variant) *Grammar {
	g, err := NewGrammarBuilder("Expr").Variant(v).
		Rule("E -> E + T").
		Rule("E -> T").
		Rule("T -> T * F").
		Rule("T -> F").
		Rule("F -> ( E )").
		Rule("F -> id").
		Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func names(syms []*Symbol) []string {
	n := make([]string, len(syms))
	for i, A := range syms {
		n[i] = A.Name
	}
	return n
}

func sortedNames(syms []*Symbol) []string {
	n := names(syms)
	sort.Strings(n)
	return n
}

func TestParseProduction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgo.lr")
	defer teardown()
	//
	valid := []struct {
		text string
		lhs  string
		rhs  []string
	}{
		{"S -> A b", "S", []string{"A", "b"}},
		{"A ->", "A", []string{}},
		{"  A   ->   ", "A", []string{}},
		{"E' -> E", "E'", []string{"E"}},
		{"F -> ( E )", "F", []string{"(", "E", ")"}},
		{"Cmp -> E <= E", "Cmp", []string{"E", "<=", "E"}},
		{"exp_a -> T_NUM", "exp_a", []string{"T_NUM"}},
	}
	for _, v := range valid {
		lhs, rhs, err := ParseProduction(v.text)
		if err != nil {
			t.Errorf("expected %q to parse, got %v", v.text, err)
			continue
		}
		if lhs != v.lhs {
			t.Errorf("expected LHS %q for %q, got %q", v.lhs, v.text, lhs)
		}
		if len(rhs) != 0 || len(v.rhs) != 0 {
			if diff := cmp.Diff(v.rhs, rhs); diff != "" {
				t.Errorf("RHS mismatch for %q (-want +got):\n%s", v.text, diff)
			}
		}
	}
	malformed := []string{
		"A => b",
		"A -> b -> c",
		"-> b",
		"1A -> b",
		"A B -> c",
		"A -> b2",
		"A -> b $",
		"+ -> a",
	}
	for _, text := range malformed {
		_, _, err := ParseProduction(text)
		var mre *MalformedRuleError
		if !errors.As(err, &mre) {
			t.Errorf("expected %q to be malformed, got %v", text, err)
		}
	}
}

func TestMalformedRuleAbortsGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgo.lr")
	defer teardown()
	//
	g, err := NewGrammarBuilder("G").Rule("S -> A").Rule("A => b").Grammar()
	var mre *MalformedRuleError
	if !errors.As(err, &mre) {
		t.Fatalf("expected MalformedRuleError, got %v", err)
	}
	if g != nil {
		t.Errorf("expected no grammar for malformed rules")
	}
	if mre.Text != "A => b" {
		t.Errorf("expected error to name the offending rule, got %q", mre.Text)
	}
}

func TestMalformedRuleWithPercentSign(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgo.lr")
	defer teardown()
	//
	_, err := NewGrammarBuilder("G").Rule("A -> 50%d").Grammar()
	if err == nil {
		t.Fatalf("expected MalformedRuleError")
	}
	if expected := `malformed rule "A -> 50%d": invalid symbol '50%d'`; err.Error() != expected {
		t.Errorf("expected error %s, have %s", expected, err.Error())
	}
}

func TestEmptyGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgo.lr")
	defer teardown()
	//
	if _, err := NewGrammarBuilder("G").Grammar(); !errors.Is(err, ErrEmptyGrammar) {
		t.Errorf("expected ErrEmptyGrammar, got %v", err)
	}
}

func TestGrammarSymbols(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgo.lr")
	defer teardown()
	//
	g := exprGrammar(t, SLR)
	if diff := cmp.Diff([]string{"E", "T", "F"}, names(g.Variables())); diff != "" {
		t.Errorf("variables (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"+", "*", "(", ")", "id", "$"}, names(g.Terminals())); diff != "" {
		t.Errorf("terminals (-want +got):\n%s", diff)
	}
	if g.Start().Name != "E" {
		t.Errorf("expected start symbol E, got %s", g.Start())
	}
	if g.AugmentedStart().Name != "E'" {
		t.Errorf("expected augmented start symbol E', got %s", g.AugmentedStart())
	}
	if g.Size() != 7 {
		t.Errorf("expected 7 rules (including augmented start rule), got %d", g.Size())
	}
	if r := g.Rule(0); r.String() != "E' -> E" {
		t.Errorf("expected rule 0 to be the augmented start rule, got %s", r)
	}
	if r := g.Rule(1); r.String() != "E -> E + T" {
		t.Errorf("expected rule 1 to be E -> E + T, got %s", r)
	}
	if g.Rule(7) != nil || g.Rule(-1) != nil {
		t.Errorf("expected nil for non-existent rules")
	}
	if !g.Symbol("id").IsTerminal() || !g.Symbol("T").IsVariable() {
		t.Errorf("symbol kinds mixed up")
	}
	if len(g.RulesFor(g.Symbol("F"))) != 2 {
		t.Errorf("expected 2 rules for F")
	}
	t.Logf("\n%s", g)
}

func TestAugmentedNameIsUnique(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgo.lr")
	defer teardown()
	//
	g, err := NewGrammarBuilder("G").Rule("S -> S' a").Rule("S' -> b").Grammar()
	if err != nil {
		t.Fatal(err)
	}
	if g.AugmentedStart().Name != "S''" {
		t.Errorf("expected augmented start symbol S'', got %s", g.AugmentedStart())
	}
}

func TestRuleEquality(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgo.lr")
	defer teardown()
	//
	g, err := NewGrammarBuilder("G").Rule("S -> a S").Rule("S -> a S").Rule("S ->").Grammar()
	if err != nil {
		t.Fatal(err)
	}
	if !g.Rule(1).Equals(g.Rule(2)) {
		t.Errorf("expected rules 1 and 2 to be equal")
	}
	if g.Rule(1).Equals(g.Rule(3)) {
		t.Errorf("expected rules 1 and 3 to differ")
	}
	if !g.Rule(3).IsEpsilon() || g.Rule(3).String() != "S -> ε" {
		t.Errorf("expected rule 3 to be an ε-production, is %s", g.Rule(3))
	}
}

func TestPrecedenceDeclarations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgo.lr")
	defer teardown()
	//
	g, err := NewGrammarBuilder("G").Rule("E -> E + E").Rule("E -> n").Grammar()
	if err != nil {
		t.Fatal(err)
	}
	if err = g.SetPrecedence("E", 3); err == nil {
		t.Errorf("expected precedence for a variable to be rejected")
	}
	if err = g.SetPrecedence("+", 1); err != nil {
		t.Error(err)
	}
	if _, err = g.Table(); err != nil {
		t.Fatal(err)
	}
	if err = g.SetPrecedence("+", 2); !errors.Is(err, ErrGrammarFrozen) {
		t.Errorf("expected ErrGrammarFrozen, got %v", err)
	}
	if err = g.SetAssociativity(1, Left); !errors.Is(err, ErrGrammarFrozen) {
		t.Errorf("expected ErrGrammarFrozen, got %v", err)
	}
}

func TestParseRelation(t *testing.T) {
	for s, want := range map[string]Relation{
		"<": Less, ">": Greater, "<=": LessEqual, ">=": GreaterEqual,
		"left": Left, "Right": Right, "none": NonAssoc,
	} {
		r, err := ParseRelation(s)
		if err != nil || r != want {
			t.Errorf("expected %q to parse as %v, got %v (%v)", s, want, r, err)
		}
	}
	if _, err := ParseRelation("=="); err == nil {
		t.Errorf("expected == to be rejected")
	}
}

func TestParseVariant(t *testing.T) {
	for s, want := range map[string]Variant{"slr": SLR, "LR(0)": SLR, "lr1": LR1, "LR(1)": LR1} {
		v, err := ParseVariant(s)
		if err != nil || v != want {
			t.Errorf("expected %q to parse as %v, got %v (%v)", s, want, v, err)
		}
	}
	if _, err := ParseVariant("lalr"); err == nil {
		t.Errorf("expected lalr to be rejected")
	}
}
