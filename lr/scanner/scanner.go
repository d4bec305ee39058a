/*
Package scanner defines the lexer contract for parsers of package lr/parser.

A lexer turns an input string into a sequence of tokens, each tagged with the
name of a terminal of a grammar. The sequence is always terminated by a token
with tag "$". Lexers report the set of tags they are able to produce, which
lets a parser check that a grammar and a lexer fit together before parsing.

Two lexer implementations are provided: (1) a thin wrapper over the Go std lib
'text/scanner', and (2) an adapter for lexmachine, living in sub-package `lexmach`.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"fmt"
	"sort"
	"strings"
	"text/scanner"

	"github.com/npillmayer/lrgo"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrgo.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("lrgo.scanner")
}

// Tokenizer is the lexer interface parsers rely on.
type Tokenizer interface {
	// Tokenize splits an input into tokens, terminated by an EOF token "$".
	Tokenize(input string) ([]lrgo.Token, error)
	// Tags lists every tag the tokenizer may produce, excluding "$".
	Tags() []string
}

// LexError is returned by tokenizers if no token pattern matches the input
// at a position.
type LexError struct {
	Char   rune // offending character
	Offset int  // byte offset into the input
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexical error: unexpected character %q at offset %d", e.Char, e.Offset)
}

// Token classes of the Go tokenizer are replicated here for practical reasons.
const (
	Ident     = scanner.Ident
	Int       = scanner.Int
	Float     = scanner.Float
	Char      = scanner.Char
	String    = scanner.String
	RawString = scanner.RawString
)

// GoTokenizer is a tokenizer accepting tokens similar to the Go language,
// backed by scanner.Scanner. Token classes (identifiers, numbers, strings)
// are mapped to tags, as are keywords and single-character literals.
// Create one with NewGoTokenizer.
type GoTokenizer struct {
	classes  map[rune]string
	keywords map[string]bool
	literals map[rune]bool
	mode     uint
}

var _ Tokenizer = (*GoTokenizer)(nil)

// NewGoTokenizer creates a tokenizer. By default identifiers are tagged "id",
// integer and float numbers "num" and strings "string". Comments are skipped.
func NewGoTokenizer(opts ...Option) *GoTokenizer {
	t := &GoTokenizer{
		classes: map[rune]string{
			Ident:     "id",
			Int:       "num",
			Float:     "num",
			String:    "string",
			RawString: "string",
			Char:      "string",
		},
		keywords: make(map[string]bool),
		literals: make(map[rune]bool),
		mode:     scanner.GoTokens,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tokenize is part of the Tokenizer interface.
func (t *GoTokenizer) Tokenize(input string) ([]lrgo.Token, error) {
	var s scanner.Scanner
	s.Init(strings.NewReader(input))
	s.Mode = t.mode
	var lexerr error
	s.Error = func(s *scanner.Scanner, msg string) {
		if lexerr == nil {
			lexerr = &LexError{Char: s.Peek(), Offset: s.Pos().Offset}
		}
		tracer().Errorf("scanner error: %s", msg)
	}
	var tokens []lrgo.Token
	for r := s.Scan(); r != scanner.EOF; r = s.Scan() {
		if lexerr != nil {
			return tokens, lexerr
		}
		text := s.TokenText()
		tag, ok := t.tagFor(r, text)
		if !ok {
			return tokens, &LexError{Char: r, Offset: s.Position.Offset}
		}
		tok := lrgo.MakeToken(tag, text)
		tok.Span = lrgo.Span{uint64(s.Position.Offset), uint64(s.Pos().Offset)}
		tracer().Debugf("token %v at %v", tok, tok.Span)
		tokens = append(tokens, tok)
	}
	if lexerr != nil {
		return tokens, lexerr
	}
	tokens = append(tokens, lrgo.EOFToken(uint64(len(input))))
	return tokens, nil
}

func (t *GoTokenizer) tagFor(r rune, text string) (string, bool) {
	if r == Ident && t.keywords[text] {
		return text, true
	}
	if tag, ok := t.classes[r]; ok {
		return tag, tag != ""
	}
	if t.literals[r] {
		return string(r), true
	}
	return "", false
}

// Tags is part of the Tokenizer interface. Tags are sorted.
func (t *GoTokenizer) Tags() []string {
	set := make(map[string]bool)
	for _, tag := range t.classes {
		if tag != "" {
			set[tag] = true
		}
	}
	for kw := range t.keywords {
		set[kw] = true
	}
	for r := range t.literals {
		set[string(r)] = true
	}
	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// --- Options for the Go tokenizer ------------------------------------------

// Option configures a Go tokenizer.
type Option func(t *GoTokenizer)

// ClassTag sets the tag for a token class (one of Ident, Int, Float, Char,
// String, RawString). An empty tag makes the tokenizer reject the class.
func ClassTag(class rune, tag string) Option {
	return func(t *GoTokenizer) {
		t.classes[class] = tag
	}
}

// Keywords declares identifiers which are tagged with their own text.
func Keywords(kw ...string) Option {
	return func(t *GoTokenizer) {
		for _, k := range kw {
			t.keywords[k] = true
		}
	}
}

// Literals declares single-character tokens, tagged with the character
// itself. Characters not declared as literals result in a LexError.
func Literals(chars string) Option {
	return func(t *GoTokenizer) {
		for _, r := range chars {
			t.literals[r] = true
		}
	}
}

// SkipComments sets or clears mode-flag SkipComments. If cleared, comments
// are reported as errors, as no tag is attached to them.
func SkipComments(b bool) Option {
	return func(t *GoTokenizer) {
		if b {
			t.mode |= scanner.SkipComments
		} else {
			t.mode &^= scanner.SkipComments
		}
	}
}
