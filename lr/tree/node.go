/*
Package tree implements parse trees, as produced by the parsers of package
lr/parser.

A parse tree has leaves for terminals, carrying the token matched from the
input, and internal nodes for variables, carrying the rule the parser reduced.
Every node holds the value synthesized for it: the token for leaves, the
result of the rule's semantic routine for internal nodes.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tree

import (
	"fmt"
	"strings"

	"github.com/npillmayer/lrgo"
	"github.com/npillmayer/lrgo/lr"
)

// Node is a node of a parse tree.
type Node struct {
	Symbol   *lr.Symbol  // grammar symbol of this node
	Rule     *lr.Rule    // reduced rule, nil for leaves
	Token    lrgo.Token  // input token, for leaves only
	Children []*Node     // children in left-to-right order
	Value    interface{} // synthesized value
	Span     lrgo.Span   // extent of the input covered
}

// Leaf creates a node for a terminal matched by an input token. Its value is
// the token.
func Leaf(A *lr.Symbol, tok lrgo.Token) *Node {
	return &Node{
		Symbol: A,
		Token:  tok,
		Value:  tok,
		Span:   tok.Span,
	}
}

// Internal creates a node for a reduced rule. The span of the node covers the
// spans of all the children.
func Internal(r *lr.Rule, children []*Node) *Node {
	n := &Node{
		Symbol:   r.LHS,
		Rule:     r,
		Children: children,
	}
	for _, ch := range children {
		n.Span = n.Span.Extend(ch.Span)
	}
	return n
}

// IsLeaf is true for nodes of terminals.
func (n *Node) IsLeaf() bool {
	return n.Rule == nil
}

// Walk visits a tree in pre-order, calling f with every node and its depth.
// If f returns false, the children of the node are skipped.
func (n *Node) Walk(f func(node *Node, depth int) bool) {
	n.walk(f, 0)
}

func (n *Node) walk(f func(*Node, int) bool, depth int) {
	if n == nil || !f(n, depth) {
		return
	}
	for _, ch := range n.Children {
		ch.walk(f, depth+1)
	}
}

// Leaves returns the leaves of a tree in left-to-right order.
func (n *Node) Leaves() []*Node {
	var leaves []*Node
	n.Walk(func(node *Node, _ int) bool {
		if node.IsLeaf() {
			leaves = append(leaves, node)
		}
		return true
	})
	return leaves
}

// Tokens returns the tokens of the leaves of a tree in left-to-right order.
func (n *Node) Tokens() []lrgo.Token {
	leaves := n.Leaves()
	tokens := make([]lrgo.Token, len(leaves))
	for i, l := range leaves {
		tokens[i] = l.Token
	}
	return tokens
}

// Unparse concatenates the token values of the leaves, separated by single
// spaces. Re-tokenizing the result reproduces the leaves' tokens for lexers
// which skip whitespace.
func (n *Node) Unparse() string {
	leaves := n.Leaves()
	values := make([]string, len(leaves))
	for i, l := range leaves {
		values[i] = l.Token.Value
	}
	return strings.Join(values, " ")
}

// String returns an indented dump of a tree, one node per line, with each
// line prefixed by one '-' per level of depth.
func (n *Node) String() string {
	var b strings.Builder
	n.Walk(func(node *Node, depth int) bool {
		b.WriteString(strings.Repeat("-", depth))
		if node.IsLeaf() {
			fmt.Fprintf(&b, "%s\n", node.Token)
		} else {
			fmt.Fprintf(&b, "%s\n", node.Symbol.Name)
		}
		return true
	})
	return b.String()
}
