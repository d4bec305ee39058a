package tree

import (
	"strings"
	"testing"

	"github.com/npillmayer/lrgo"
	"github.com/npillmayer/lrgo/lr"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// sumTree builds the tree for 'num + num' by hand.
func sumTree(t *testing.T) *Node {
	g, err := lr.NewGrammarBuilder("Sums").
		Rule("S -> E").
		Rule("E -> E + num").
		Rule("E -> num").
		Grammar()
	if err != nil {
		t.Fatal(err)
	}
	num, plus := g.Symbol("num"), g.Symbol("+")
	tok := func(tag, value string, pos uint64) lrgo.Token {
		t := lrgo.MakeToken(tag, value)
		t.Span = lrgo.Span{pos, pos + uint64(len(value))}
		return t
	}
	e1 := Internal(g.Rule(3), []*Node{Leaf(num, tok("num", "1", 0))})
	e2 := Internal(g.Rule(2), []*Node{e1, Leaf(plus, tok("+", "+", 2)), Leaf(num, tok("num", "23", 4))})
	return Internal(g.Rule(1), []*Node{e2})
}

func TestLeavesAndUnparse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgo.lr")
	defer teardown()
	//
	root := sumTree(t)
	if len(root.Leaves()) != 3 {
		t.Fatalf("expected 3 leaves, have %d", len(root.Leaves()))
	}
	if s := root.Unparse(); s != "1 + 23" {
		t.Errorf("expected unparse to be '1 + 23', is %q", s)
	}
	if tags := lrgo.Tags(root.Tokens()); strings.Join(tags, " ") != "num + num" {
		t.Errorf("unexpected token tags %v", tags)
	}
	if root.Span != (lrgo.Span{0, 6}) {
		t.Errorf("expected root to span (0…6), is %v", root.Span)
	}
	if root.IsLeaf() || !root.Leaves()[0].IsLeaf() {
		t.Errorf("leaf/internal confusion")
	}
}

func TestTreeString(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgo.lr")
	defer teardown()
	//
	expected := "S\n-E\n--E\n---num(1)\n--+\n--num(23)\n"
	if s := sumTree(t).String(); s != expected {
		t.Errorf("unexpected tree dump:\n%s", s)
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgo.lr")
	defer teardown()
	//
	count := 0
	sumTree(t).Walk(func(node *Node, depth int) bool {
		count++
		return depth < 1
	})
	if count != 2 { // S and its child E
		t.Errorf("expected walk to visit 2 nodes, visited %d", count)
	}
}
