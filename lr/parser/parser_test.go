package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/lrgo"
	"github.com/npillmayer/lrgo/lr"
	"github.com/npillmayer/lrgo/lr/scanner/lexmach"
	"github.com/npillmayer/lrgo/lr/tree"
	"github.com/npillmayer/lrgo/runtime"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// --- Helpers ---------------------------------------------------------------

func tokens(tags ...string) []lrgo.Token {
	toks := make([]lrgo.Token, len(tags))
	for i, tag := range tags {
		toks[i] = lrgo.MakeToken(tag, tag)
	}
	return toks
}

// sexpr renders the shape of a parse tree as an s-expression.
func sexpr(n *tree.Node) string {
	if n.IsLeaf() {
		return n.Token.Tag
	}
	parts := []string{n.Symbol.Name}
	for _, ch := range n.Children {
		parts = append(parts, sexpr(ch))
	}
	return "(" + strings.Join(parts, " ") + ")"
}

type skeleton struct {
	Symbol string
	Value  string
	Kids   []skeleton
}

func skeletonOf(n *tree.Node) skeleton {
	sk := skeleton{Symbol: n.Symbol.Name}
	if n.IsLeaf() {
		sk.Value = n.Token.Value
	}
	for _, ch := range n.Children {
		sk.Kids = append(sk.Kids, skeletonOf(ch))
	}
	return sk
}

func sums(t *testing.T, rel lr.Relation) *lr.Grammar {
	g, err := lr.NewGrammarBuilder("Sums").
		Rule("S -> A").
		Rule("A -> A + A").
		Rule("A -> num").
		Precedence("+", 1).
		Associativity(1, rel).
		Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func number(env *runtime.Runtime, args []interface{}) (interface{}, error) {
	return strconv.ParseFloat(args[0].(lrgo.Token).Value, 64)
}

func binop(op func(a, b float64) (float64, error)) lr.Routine {
	return func(env *runtime.Runtime, args []interface{}) (interface{}, error) {
		return op(args[0].(float64), args[2].(float64))
	}
}

var errDivisionByZero = errors.New("division by zero")

func calculator(t *testing.T, v lr.Variant) *lr.Grammar {
	g, err := lr.NewGrammarBuilder("Calculator").
		Variant(v).
		Rule("E -> E + E", binop(func(a, b float64) (float64, error) { return a + b, nil })).
		Rule("E -> E - E", binop(func(a, b float64) (float64, error) { return a - b, nil })).
		Rule("E -> E * E", binop(func(a, b float64) (float64, error) { return a * b, nil })).
		Rule("E -> E / E", binop(func(a, b float64) (float64, error) {
			if b == 0 {
				return 0, errDivisionByZero
			}
			return a / b, nil
		})).
		Rule("E -> ( E )", func(env *runtime.Runtime, args []interface{}) (interface{}, error) {
			return args[1], nil
		}).
		Rule("E -> num", number).
		Precedence("+", 1).Precedence("-", 1).
		Precedence("*", 2).Precedence("/", 2).
		Associativity(1, lr.Left).
		Associativity(2, lr.Left).
		Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func calcLexer(t *testing.T, extra ...lexmach.Pattern) *lexmach.Lexer {
	patterns := []lexmach.Pattern{
		{Regex: `( |\t)+`},
		{Regex: `[0-9]+(\.[0-9]+)?`, Tag: "num"},
	}
	patterns = append(patterns, lexmach.Literals("+", "-", "*", "/", "(", ")")...)
	patterns = append(patterns, extra...)
	LM, err := lexmach.New(patterns...)
	if err != nil {
		t.Fatal(err)
	}
	return LM
}

// --- Tests -----------------------------------------------------------------

func TestAssociativity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgo.lr")
	defer teardown()
	//
	cases := []struct {
		rel      lr.Relation
		expected string
	}{
		{lr.Left, "(S (A (A (A num) + (A num)) + (A num)))"},
		{lr.Right, "(S (A (A num) + (A (A num) + (A num))))"},
	}
	for _, c := range cases {
		p, err := New(sums(t, c.rel))
		if err != nil {
			t.Fatal(err)
		}
		root, err := p.Run(tokens("num", "+", "num", "+", "num"))
		if err != nil {
			t.Fatalf("%v: %v", c.rel, err)
		}
		if s := sexpr(root); s != c.expected {
			t.Errorf("%v: expected tree %s, have %s", c.rel, c.expected, s)
		}
	}
}

func TestCalculatorPrecedence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgo.lr")
	defer teardown()
	//
	for _, v := range []lr.Variant{lr.SLR, lr.LR1} {
		p, err := New(calculator(t, v), WithLexer(calcLexer(t)))
		if err != nil {
			t.Fatal(err)
		}
		root, err := p.Parse("2 + 3 * 4")
		if err != nil {
			t.Fatalf("%v: %v", v, err)
		}
		if p.Value() != 14.0 {
			t.Errorf("%v: expected 2 + 3 * 4 = 14, have %v", v, p.Value())
		}
		if len(root.Children) != 3 || root.Children[2].Rule.String() != "E -> E * E" {
			t.Errorf("%v: expected 3 * 4 to be grouped, tree is\n%s", v, root)
		}
		if len(p.Warnings()) != 0 {
			t.Errorf("%v: did not expect warnings, have %v", v, p.Warnings())
		}
	}
}

func TestEpsilonRule(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgo.lr")
	defer teardown()
	//
	g, err := lr.NewGrammarBuilder("Epsilon").
		Rule("S -> A b").
		Rule("A ->").
		Grammar()
	if err != nil {
		t.Fatal(err)
	}
	p, err := New(g)
	if err != nil {
		t.Fatal(err)
	}
	root, err := p.Run(tokens("b"))
	if err != nil {
		t.Fatal(err)
	}
	if s := sexpr(root); s != "(S (A) b)" {
		t.Errorf("unexpected tree %s", s)
	}
	if v, ok := p.Value().([]interface{}); !ok || len(v) != 2 || v[0] != nil {
		t.Errorf("expected default value [nil b], have %v", p.Value())
	}
}

func TestUnknownTokenIsSyntaxError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgo.lr")
	defer teardown()
	//
	p, err := New(sums(t, lr.Left))
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Run(tokens("num", "x"))
	var synerr *SyntaxError
	if !errors.As(err, &synerr) {
		t.Fatalf("expected syntax error, have %v", err)
	}
	if synerr.Position != 1 || synerr.Token.Tag != "x" {
		t.Errorf("expected error at token #1 'x', have %v", synerr)
	}
	if diff := cmp.Diff([]string{"$", "+"}, synerr.Expected); diff != "" {
		t.Errorf("unexpected expected-set (-want +got):\n%s", diff)
	}
}

func TestEOFInsideInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgo.lr")
	defer teardown()
	//
	p, err := New(sums(t, lr.Left))
	if err != nil {
		t.Fatal(err)
	}
	for _, input := range [][]lrgo.Token{
		tokens("num", "$", "+", "num", "$"),
		tokens("num", "$", "+", "num"),
	} {
		root, err := p.Run(input)
		var synerr *SyntaxError
		if !errors.As(err, &synerr) {
			t.Fatalf("expected syntax error for %v, have tree %v", lrgo.Tags(input), root)
		}
		if !synerr.Token.IsEOF() || synerr.Position != 1 {
			t.Errorf("expected error at token #1 $, have %v", synerr)
		}
		if diff := cmp.Diff([]string{"+"}, synerr.Expected); diff != "" {
			t.Errorf("unexpected expected-set (-want +got):\n%s", diff)
		}
	}
}

func TestPrematureEndOfInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgo.lr")
	defer teardown()
	//
	p, err := New(sums(t, lr.Left))
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Run(tokens("num", "+"))
	var synerr *SyntaxError
	if !errors.As(err, &synerr) {
		t.Fatalf("expected syntax error, have %v", err)
	}
	if !synerr.Token.IsEOF() || synerr.Position != 2 {
		t.Errorf("expected error at final token $, have %v", synerr)
	}
	if diff := cmp.Diff([]string{"num"}, synerr.Expected); diff != "" {
		t.Errorf("unexpected expected-set (-want +got):\n%s", diff)
	}
	// the parser remains usable
	if _, err = p.Run(tokens("num", "+", "num")); err != nil {
		t.Errorf("parser not reusable after error: %v", err)
	}
}

func TestLexerValidation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgo.lr")
	defer teardown()
	//
	g := calculator(t, lr.SLR)
	lexer, err := lexmach.New(lexmach.Pattern{Regex: `[0-9]+`, Tag: "num"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = New(g, WithLexer(lexer))
	var mismatch *GrammarTokenMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected token mismatch error, have %v", err)
	}
	if diff := cmp.Diff([]string{"+", "-", "*", "/", "(", ")"}, mismatch.Missing); diff != "" {
		t.Errorf("unexpected missing terminals (-want +got):\n%s", diff)
	}
	lexer = calcLexer(t, lexmach.Pattern{Regex: `[a-z]+`, Tag: "id"})
	p, err := New(g, WithLexer(lexer))
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Warnings()) != 1 || !strings.Contains(p.Warnings()[0], `"id"`) {
		t.Errorf("expected a warning about tag id, have %v", p.Warnings())
	}
	if err = p.Validate(lexer.Tags()); err != nil {
		t.Fatal(err)
	}
	if len(p.Warnings()) != 1 {
		t.Errorf("expected re-validation to replace warnings, have %v", p.Warnings())
	}
}

func TestRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgo.lr")
	defer teardown()
	//
	p, err := New(calculator(t, lr.LR1), WithLexer(calcLexer(t)))
	if err != nil {
		t.Fatal(err)
	}
	inputs := []string{"1", "2+3*4", "(1 - 2)/ 4*(7+8)", "((3))"}
	for _, input := range inputs {
		root, err := p.Parse(input)
		if err != nil {
			t.Fatalf("%q: %v", input, err)
		}
		again, err := p.Parse(root.Unparse())
		if err != nil {
			t.Fatalf("%q: %v", root.Unparse(), err)
		}
		if diff := cmp.Diff(skeletonOf(root), skeletonOf(again)); diff != "" {
			t.Errorf("%q: round trip changed tree (-want +got):\n%s", input, diff)
		}
	}
}

func TestConcurrentParses(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgo.lr")
	defer teardown()
	//
	g := calculator(t, lr.SLR)
	lexer := calcLexer(t)
	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			p, err := New(g, WithLexer(lexer), WithRuntime(runtime.NewRuntime()))
			if err != nil {
				t.Error(err)
				return
			}
			input := fmt.Sprintf("%d * (%d + 1)", n, n)
			if _, err := p.Parse(input); err != nil {
				t.Errorf("%q: %v", input, err)
				return
			}
			if p.Value() != float64(n*(n+1)) {
				t.Errorf("%q: expected %d, have %v", input, n*(n+1), p.Value())
			}
		}(i)
	}
	wg.Wait()
}

func TestStepLimit(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgo.lr")
	defer teardown()
	//
	p, err := New(sums(t, lr.Left), StepLimit(3))
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Run(tokens("num", "+", "num"))
	var looperr *ParserLoopError
	if !errors.As(err, &looperr) || looperr.Steps != 3 {
		t.Errorf("expected loop error after 3 steps, have %v", err)
	}
}

func TestStepLimitScalesWithInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgo.lr")
	defer teardown()
	//
	p, err := New(sums(t, lr.Left))
	if err != nil {
		t.Fatal(err)
	}
	if n := p.stepLimit(2000000); n != StepsPerToken*2000001 {
		t.Errorf("expected step limit relative to input, have %d", n)
	}
	p, err = New(sums(t, lr.Left), StepLimit(3))
	if err != nil {
		t.Fatal(err)
	}
	if n := p.stepLimit(2000000); n != 3 {
		t.Errorf("expected absolute step limit 3, have %d", n)
	}
}

func TestLongInput(t *testing.T) {
	if testing.Short() {
		t.Skip("long input")
	}
	teardown := gotestingadapter.QuickConfig(t, "lrgo.lr")
	defer teardown()
	//
	p, err := New(sums(t, lr.Left))
	if err != nil {
		t.Fatal(err)
	}
	const pairs = 300000 // well beyond a million steps
	tags := make([]string, 0, 2*pairs+1)
	tags = append(tags, "num")
	for i := 0; i < pairs; i++ {
		tags = append(tags, "+", "num")
	}
	root, err := p.Run(tokens(tags...))
	if err != nil {
		t.Fatalf("expected long input to parse, have %v", err)
	}
	if len(root.Leaves()) != len(tags) {
		t.Errorf("expected %d leaves, have %d", len(tags), len(root.Leaves()))
	}
	if len(p.Trace()) <= 1000000 {
		t.Errorf("expected more than a million steps, have %d", len(p.Trace()))
	}
}

func TestLR1OnlyGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgo.lr")
	defer teardown()
	//
	build := func(v lr.Variant) *lr.Grammar {
		g, err := lr.NewGrammarBuilder("Assignments").
			Rule("S -> L = R").
			Rule("S -> R").
			Rule("L -> * R").
			Rule("L -> id").
			Rule("R -> L").
			Variant(v).
			ReduceConflicts(lr.KeepConflicts).
			Grammar()
		if err != nil {
			t.Fatal(err)
		}
		return g
	}
	p, err := New(build(lr.LR1))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		input []string
		tree  string
	}{
		{[]string{"id", "=", "id"}, "(S (L id) = (R (L id)))"},
		{[]string{"*", "id", "=", "*", "*", "id"}, "(S (L * (R (L id))) = (R (L * (R (L * (R (L id)))))))"},
		{[]string{"*", "id"}, "(S (R (L * (R (L id)))))"},
	}
	for _, test := range tests {
		root, err := p.Run(tokens(test.input...))
		if err != nil {
			t.Fatalf("%v: %v", test.input, err)
		}
		if have := sexpr(root); have != test.tree {
			t.Errorf("%v: expected %s, have %s", test.input, test.tree, have)
		}
	}
	// SLR stumbles over the same input
	p, err = New(build(lr.SLR))
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Run(tokens("id", "=", "id"))
	var conflict *ConflictError
	if !errors.As(err, &conflict) || conflict.Symbol != "=" {
		t.Errorf("expected SLR conflict on '=', have %v", err)
	}
}

func TestSemanticError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgo.lr")
	defer teardown()
	//
	p, err := New(calculator(t, lr.SLR), WithLexer(calcLexer(t)))
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Parse("1 / (2 - 2)")
	var semerr *SemanticError
	if !errors.As(err, &semerr) || !errors.Is(err, errDivisionByZero) {
		t.Fatalf("expected division by zero, have %v", err)
	}
	if semerr.Rule.String() != "E -> E / E" {
		t.Errorf("expected error from division rule, have %v", semerr.Rule)
	}
}

func TestRuntimeSideEffects(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgo.lr")
	defer teardown()
	//
	g, err := lr.NewGrammarBuilder("Assignment").
		Rule("S -> id = num", func(env *runtime.Runtime, args []interface{}) (interface{}, error) {
			name := args[0].(lrgo.Token).Value
			env.Set(name, args[2].(lrgo.Token).Value)
			return name, nil
		}).
		Grammar()
	if err != nil {
		t.Fatal(err)
	}
	env := runtime.NewRuntime()
	p, err := New(g, WithRuntime(env))
	if err != nil {
		t.Fatal(err)
	}
	toks := []lrgo.Token{lrgo.MakeToken("id", "x"), lrgo.MakeToken("=", "="), lrgo.MakeToken("num", "7")}
	if _, err := p.Run(toks); err != nil {
		t.Fatal(err)
	}
	if v, err := env.Get("x"); err != nil || v != "7" {
		t.Errorf("expected x = 7 in runtime, have %v (%v)", v, err)
	}
}

func TestTrace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgo.lr")
	defer teardown()
	//
	g, err := lr.NewGrammarBuilder("Trivial").Rule("S -> a").Grammar()
	if err != nil {
		t.Fatal(err)
	}
	p, err := New(g)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Run(tokens("a")); err != nil {
		t.Fatal(err)
	}
	var trace []string
	for _, step := range p.Trace() {
		trace = append(trace, step.String())
	}
	expected := []string{
		"stack: 0 | input: ^a $ | action: s2",
		"stack: 0 2 | input: ^$ | action: r1",
		"stack: 0 1 | input: ^$ | action: acc",
	}
	if diff := cmp.Diff(expected, trace); diff != "" {
		t.Errorf("unexpected trace (-want +got):\n%s", diff)
	}
}

func TestUnresolvedConflict(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgo.lr")
	defer teardown()
	//
	g, err := lr.NewGrammarBuilder("Reduce/Reduce").
		Rule("S -> A").
		Rule("S -> B").
		Rule("A -> x").
		Rule("B -> x").
		ReduceConflicts(lr.KeepConflicts).
		Grammar()
	if err != nil {
		t.Fatal(err)
	}
	p, err := New(g)
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Run(tokens("x"))
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected conflict error, have %v", err)
	}
	if conflict.Symbol != "$" || len(conflict.Candidates) != 2 {
		t.Errorf("expected r3/r4 conflict on $, have %v", conflict)
	}
}
