/*
Package gspec reads grammar declarations from YAML files.

A declaration lists the productions of a grammar, together with operator
precedence and the token patterns of a lexer for the grammar:

	name: Calculator
	variant: slr          # or lr1
	tokens:
	  - pattern: '( |\t)+' # no tag: skip
	  - pattern: '[0-9]+'
	    tag: num
	literals: [ "+", "*", "(", ")" ]
	rules:
	  - E -> E + E
	  - E -> E * E
	  - E -> ( E )
	  - E -> num
	precedence:
	  "+": 1
	  "*": 2
	associativity:
	  1: left
	  2: left

Semantic routines cannot be declared in YAML. Clients attach them to rules by
production text when creating the grammar.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package gspec

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/lrgo/lr"
	"github.com/npillmayer/lrgo/lr/scanner/lexmach"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// tracer traces with key 'lrgo.lr'.
func tracer() tracing.Trace {
	return tracing.Select("lrgo.lr")
}

// Declaration is the content of a grammar file.
type Declaration struct {
	Name          string         `yaml:"name"`
	Variant       string         `yaml:"variant"`
	Tokens        []TokenDecl    `yaml:"tokens"`
	Literals      []string       `yaml:"literals"`
	Rules         []string       `yaml:"rules"`
	Precedence    map[string]int `yaml:"precedence"`
	Associativity map[int]string `yaml:"associativity"`
}

// TokenDecl declares a token pattern of the lexer. Matches of patterns
// without a tag are skipped.
type TokenDecl struct {
	Pattern string `yaml:"pattern"`
	Tag     string `yaml:"tag"`
}

// Load reads a grammar declaration from a YAML file.
func Load(path string) (*Declaration, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	decl, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("grammar file %s: %w", path, err)
	}
	return decl, nil
}

// Read reads a grammar declaration from YAML input.
func Read(r io.Reader) (*Declaration, error) {
	decl := &Declaration{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(decl); err != nil {
		return nil, err
	}
	if len(decl.Rules) == 0 {
		return nil, lr.ErrEmptyGrammar
	}
	if decl.Name == "" {
		decl.Name = "G"
	}
	tracer().Debugf("read declaration of grammar %s with %d rules", decl.Name, len(decl.Rules))
	return decl, nil
}

// Grammar creates the grammar declared. Semantic routines are attached to
// rules by their production text, with white space normalized, e.g.
// "E -> E + E".
func (decl *Declaration) Grammar(routines map[string]lr.Routine) (*lr.Grammar, error) {
	b := lr.NewGrammarBuilder(decl.Name)
	if decl.Variant != "" {
		v, err := lr.ParseVariant(decl.Variant)
		if err != nil {
			return nil, err
		}
		b.Variant(v)
	}
	used := make(map[string]bool, len(routines))
	for _, text := range decl.Rules {
		key := Normalize(text)
		if r, ok := routines[key]; ok {
			used[key] = true
			b.Rule(text, r)
		} else {
			b.Rule(text)
		}
	}
	for _, key := range sortedKeys(routines) {
		if !used[key] {
			return nil, fmt.Errorf("routine for unknown rule %q", key)
		}
	}
	for _, terminal := range sortedKeys(decl.Precedence) {
		b.Precedence(terminal, decl.Precedence[terminal])
	}
	for _, level := range sortedKeys(decl.Associativity) {
		rel, err := lr.ParseRelation(decl.Associativity[level])
		if err != nil {
			return nil, fmt.Errorf("associativity of level %d: %w", level, err)
		}
		b.Associativity(level, rel)
	}
	return b.Grammar()
}

// Lexer creates a lexer from the token patterns and literals declared.
// Literals are added after the patterns.
func (decl *Declaration) Lexer() (*lexmach.Lexer, error) {
	patterns := make([]lexmach.Pattern, 0, len(decl.Tokens)+len(decl.Literals))
	for _, t := range decl.Tokens {
		patterns = append(patterns, lexmach.Pattern{Regex: t.Pattern, Tag: t.Tag})
	}
	patterns = append(patterns, lexmach.Literals(decl.Literals...)...)
	return lexmach.New(patterns...)
}

// Normalize collapses the white space of a production text.
func Normalize(text string) string {
	lhs, rhs, found := strings.Cut(text, "->")
	if !found {
		return strings.Join(strings.Fields(text), " ")
	}
	norm := strings.TrimSpace(lhs) + " ->"
	if r := strings.Fields(rhs); len(r) > 0 {
		norm += " " + strings.Join(r, " ")
	}
	return norm
}

func sortedKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
