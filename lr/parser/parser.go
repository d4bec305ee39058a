/*
Package parser provides a table-driven shift-reduce parser. Clients have to
use the tools of package lr to prepare a grammar and its parse table. The
parser utilizes this table to create a right derivation for a given input,
provided as a sequence of tokens or through a lexer.

This parser is intended for small to moderate grammars, e.g. for configuration
input or small domain-specific languages. It is *not* intended for full-fledged
programming languages (there are superb other tools around for these kinds of
usages, usually creating LALR(1)-parsers with code generation).

The main focus for this implementation is adaptability and on-the-fly usage.
Clients are able to construct the parse tables from a grammar and use the
parser directly, without a code-generation or compile step. If you want, you
can create a grammar from user input and use a parser for it in a couple of
lines of code.

Usage

Clients construct a grammar, usually by using a grammar builder:

	g, err := lr.NewGrammarBuilder("Signed Variables").
		Rule("Var -> Sign id").
		Rule("Sign -> +").
		Rule("Sign -> -").
		Rule("Sign ->").
		Grammar()

A parser builds the parse table of the grammar on first use:

	p, err := parser.New(g, parser.WithLexer(lexer))
	root, err := p.Parse("+ a")

Clients may instrument the grammar with semantic routines. The value
synthesized for the root of the parse tree is available as p.Value().

A grammar, and its parse table, may be shared between parsers running
concurrently. A parser itself must not be used concurrently.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/lrgo"
	"github.com/npillmayer/lrgo/lr"
	"github.com/npillmayer/lrgo/lr/scanner"
	"github.com/npillmayer/lrgo/lr/tree"
	"github.com/npillmayer/lrgo/runtime"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrgo.lr'.
func tracer() tracing.Trace {
	return tracing.Select("lrgo.lr")
}

// StepsPerToken scales the step limit of a parser with the length of its
// input, unless an absolute limit is configured. A parser performs at most
// max(StepsPerToken, number of states) steps per token.
const StepsPerToken = 64

// Parser is a shift-reduce parser type. Create and initialize one with
// parser.New(…).
type Parser struct {
	g        *lr.Grammar
	table    *lr.TransitionTable
	lexer    scanner.Tokenizer
	env      *runtime.Runtime
	maxSteps int // absolute step limit, or 0 for a limit relative to the input
	warnings []string
	states   []int        // state stack
	nodes    []*tree.Node // tree stack, one node per state above state 0
	trace    []Step
	root     *tree.Node
}

// Option configures a parser.
type Option func(p *Parser)

// StepLimit sets the number of steps after which a parse is aborted with a
// ParserLoopError, regardless of the length of the input. Values <= 0 select
// a limit relative to the input.
func StepLimit(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxSteps = n
		}
	}
}

// WithRuntime sets the environment handed to semantic routines.
func WithRuntime(env *runtime.Runtime) Option {
	return func(p *Parser) {
		p.env = env
	}
}

// WithLexer sets a lexer for Parse. Its tags are validated against the
// terminals of the grammar.
func WithLexer(t scanner.Tokenizer) Option {
	return func(p *Parser) {
		p.lexer = t
	}
}

// New creates a parser for a grammar. The parse table of the grammar is built
// if it does not exist yet.
//
// An absolute step limit of the parser is taken from configuration key
// 'lr-parser-step-limit', if set, and may be overridden by option StepLimit.
// Without either, the limit grows with the number of input tokens.
func New(g *lr.Grammar, opts ...Option) (*Parser, error) {
	table, err := g.Table()
	if err != nil {
		return nil, err
	}
	p := &Parser{
		g:     g,
		table: table,
	}
	if n := gconf.GetInt("lr-parser-step-limit"); n > 0 {
		p.maxSteps = n
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.lexer != nil {
		if err := p.Validate(p.lexer.Tags()); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Validate checks a set of lexer tags against the terminals of the grammar.
// If a terminal has no tag, a GrammarTokenMismatchError is returned. Tags not
// referenced by the grammar are recorded as warnings.
func (p *Parser) Validate(tags []string) error {
	p.warnings = nil
	have := make(map[string]bool, len(tags))
	for _, tag := range tags {
		have[tag] = true
	}
	var missing []string
	for _, name := range p.g.TerminalNames() {
		if !have[name] {
			missing = append(missing, name)
		}
		delete(have, name)
	}
	if len(missing) > 0 {
		err := &GrammarTokenMismatchError{Missing: missing}
		tracer().Errorf("%v", err)
		return err
	}
	for _, tag := range tags {
		if have[tag] && tag != lrgo.EOF {
			w := fmt.Sprintf("lexer tag %q is not used by grammar %s", tag, p.g.Name)
			tracer().Infof("%s", w)
			p.warnings = append(p.warnings, w)
		}
	}
	return nil
}

// Warnings returns the warnings collected by validating lexer tags.
func (p *Parser) Warnings() []string {
	return p.warnings
}

// Parse tokenizes an input with the lexer of the parser, then runs the
// parser on the tokens.
func (p *Parser) Parse(input string) (*tree.Node, error) {
	if p.lexer == nil {
		return nil, errors.New("parser has no lexer, use option WithLexer")
	}
	tokens, err := p.lexer.Tokenize(input)
	if err != nil {
		return nil, err
	}
	return p.Run(tokens)
}

// Value returns the value synthesized for the root of the most recent
// successful parse.
func (p *Parser) Value() interface{} {
	if p.root == nil {
		return nil
	}
	return p.root.Value
}

// Run parses a sequence of tokens. If the sequence is not terminated by an
// EOF token, one is appended. An EOF token anywhere else in the sequence is a
// syntax error. On success Run returns the root of the parse tree, which is a
// node for the start symbol of the grammar.
func (p *Parser) Run(tokens []lrgo.Token) (*tree.Node, error) {
	tracer().Debugf("~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~")
	if len(tokens) == 0 || !tokens[len(tokens)-1].IsEOF() {
		var pos uint64
		if len(tokens) > 0 {
			pos = tokens[len(tokens)-1].Span.To()
		}
		tokens = append(tokens[:len(tokens):len(tokens)], lrgo.EOFToken(pos))
	}
	p.states = append(p.states[:0], 0) // push start state
	p.nodes = p.nodes[:0]
	p.trace = nil
	p.root = nil
	pos := 0
	last := len(tokens) - 1
	limit := p.stepLimit(len(tokens))
	for step := 0; ; step++ {
		if step >= limit {
			err := &ParserLoopError{Steps: step}
			tracer().Errorf("%v", err)
			return nil, err
		}
		token := tokens[pos]
		state := p.states[len(p.states)-1] // TOS
		if token.IsEOF() && pos < last {
			err := &SyntaxError{
				Token:    token,
				Position: pos,
				State:    state,
				Expected: withoutEOF(p.table.Expected(state)),
			}
			tracer().Errorf("%v", err)
			return nil, err
		}
		A := p.g.Lookup(token)
		action, _ := p.table.Get(state, A)
		p.trace = append(p.trace, Step{
			Stack:  append([]int(nil), p.states...),
			Input:  tokens[pos:],
			Action: action,
		})
		tracer().Debugf("action(%d, %s) = %v", state, token.Tag, action)
		switch action.Kind {
		case lr.Shift:
			p.states = append(p.states, action.Target)
			p.nodes = append(p.nodes, tree.Leaf(A, token))
			pos++
		case lr.Reduce:
			if err := p.reduce(action.Target, token); err != nil {
				return nil, err
			}
		case lr.Accept:
			p.root = p.nodes[len(p.nodes)-1]
			tracer().Infof("accepted input of %d tokens after %d steps", len(tokens), step+1)
			return p.root, nil
		case lr.Conflict:
			err := &ConflictError{State: state, Symbol: token.Tag, Candidates: action.Candidates}
			tracer().Errorf("%v", err)
			return nil, err
		default:
			err := &SyntaxError{
				Token:    token,
				Position: pos,
				State:    state,
				Expected: p.table.Expected(state),
			}
			tracer().Errorf("%v", err)
			return nil, err
		}
	}
}

// stepLimit returns the number of steps allowed for an input of n tokens.
func (p *Parser) stepLimit(n int) int {
	if p.maxSteps > 0 {
		return p.maxSteps
	}
	perToken := StepsPerToken
	if sc := p.table.StateCount(); sc > perToken {
		perToken = sc
	}
	return perToken * (n + 1)
}

func withoutEOF(tags []string) []string {
	expected := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag != lrgo.EOF {
			expected = append(expected, tag)
		}
	}
	return expected
}

// reduce performs a reduce action for a rule
//
//    LHS -> X1 ... Xn   (with X being terminals or variables)
//
// Symbols X1 to Xn are represented on the stacks as states and tree nodes
//
//    [TOS]  Sn(Xn) ... S1(X1)  ...
//
// They are popped and replaced by a state for LHS and a new node, carrying the
// value synthesized by the rule's semantic routine.
func (p *Parser) reduce(ruleno int, lookahead lrgo.Token) error {
	rule := p.g.Rule(ruleno)
	if rule == nil {
		err := &lr.RuleLookupError{Index: ruleno}
		tracer().Errorf("%v", err)
		return err
	}
	tracer().Debugf("reduce %v", rule)
	k := rule.Len()
	children := append([]*tree.Node(nil), p.nodes[len(p.nodes)-k:]...)
	p.nodes = p.nodes[:len(p.nodes)-k]
	p.states = p.states[:len(p.states)-k]
	state := p.states[len(p.states)-1] // TOS
	next, ok := p.table.Get(state, rule.LHS)
	if !ok || next.Kind != lr.Goto {
		err := &lr.StateLookupError{State: state, Symbol: rule.LHS.Name}
		tracer().Errorf("%v", err)
		return err
	}
	node := tree.Internal(rule, children)
	if rule.IsEpsilon() { // epsilon is just before lookahead
		from := lookahead.Span.From()
		node.Span = lrgo.Span{from, from}
	}
	value, err := p.synthesize(rule, children)
	if err != nil {
		err = &SemanticError{Rule: rule, Err: err}
		tracer().Errorf("%v", err)
		return err
	}
	node.Value = value
	p.states = append(p.states, next.Target)
	p.nodes = append(p.nodes, node)
	return nil
}

// synthesize calls the semantic routine of a rule. Without a routine, the
// synthesized value is nil for ε-rules, the child's value for unit rules and
// the slice of child values otherwise.
func (p *Parser) synthesize(rule *lr.Rule, children []*tree.Node) (interface{}, error) {
	args := make([]interface{}, len(children))
	for i, ch := range children {
		args[i] = ch.Value
	}
	if rule.Routine != nil {
		return rule.Routine(p.env, args)
	}
	switch len(args) {
	case 0:
		return nil, nil
	case 1:
		return args[0], nil
	}
	return args, nil
}

// --- Trace -----------------------------------------------------------------

// Step is an entry of a parser's trace: the state stack and remaining input
// before a step, and the action chosen.
type Step struct {
	Stack  []int
	Input  []lrgo.Token
	Action lr.Action
}

func (s Step) String() string {
	var b strings.Builder
	b.WriteString("stack:")
	for _, st := range s.Stack {
		fmt.Fprintf(&b, " %d", st)
	}
	b.WriteString(" | input: ^")
	b.WriteString(strings.Join(lrgo.Tags(s.Input), " "))
	fmt.Fprintf(&b, " | action: %v", s.Action)
	return b.String()
}

// Trace returns the steps of the most recent parse, in order.
func (p *Parser) Trace() []Step {
	return p.trace
}
