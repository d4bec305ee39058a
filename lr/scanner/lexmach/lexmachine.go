package lexmach

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/lrgo"
	"github.com/npillmayer/lrgo/lr/scanner"
	"github.com/npillmayer/schuko/tracing"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// lexmachine adapter

// tracer traces with key 'lrgo.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("lrgo.scanner")
}

// Pattern associates a regular expression (in lexmachine syntax) with a tag.
// Matches of a pattern with an empty tag are skipped.
type Pattern struct {
	Regex string
	Tag   string
}

// Lexer is a lexmachine adapter to use lexmachine as a scanner. It implements
// the scanner.Tokenizer interface and is safe for concurrent use once
// created.
type Lexer struct {
	lexer *lexmachine.Lexer
	tags  []string       // tags, ordered by token type
	ids   map[string]int // tag -> token type
}

var _ scanner.Tokenizer = (*Lexer)(nil)

// New creates a new lexer from a list of patterns. If more than one pattern
// matches at an input position, the longest match wins; on equal length the
// pattern listed first wins.
//
// New will return an error if compiling the DFA failed.
func New(patterns ...Pattern) (*Lexer, error) {
	if len(patterns) == 0 {
		return nil, errors.New("lexer needs at least one token pattern")
	}
	lm := &Lexer{
		lexer: lexmachine.NewLexer(),
		ids:   make(map[string]int),
	}
	for _, p := range patterns {
		if p.Tag == lrgo.EOF {
			return nil, fmt.Errorf("tag %q is reserved for end of input", lrgo.EOF)
		}
		if p.Tag == "" {
			lm.lexer.Add([]byte(p.Regex), Skip)
			continue
		}
		id, ok := lm.ids[p.Tag]
		if !ok {
			id = len(lm.tags)
			lm.ids[p.Tag] = id
			lm.tags = append(lm.tags, p.Tag)
		}
		lm.lexer.Add([]byte(p.Regex), MakeToken(p.Tag, id))
	}
	if err := lm.lexer.Compile(); err != nil {
		tracer().Errorf("Error compiling DFA: %v", err)
		return nil, err
	}
	return lm, nil
}

// Tokenize is part of the scanner.Tokenizer interface.
func (lm *Lexer) Tokenize(input string) ([]lrgo.Token, error) {
	s, err := lm.lexer.Scanner([]byte(input))
	if err != nil {
		return nil, err
	}
	var tokens []lrgo.Token
	for tok, err, eof := s.Next(); !eof; tok, err, eof = s.Next() {
		if err != nil {
			var ui *machines.UnconsumedInput
			if errors.As(err, &ui) {
				r, _ := utf8.DecodeRuneInString(input[ui.StartTC:])
				lexerr := &scanner.LexError{Char: r, Offset: ui.StartTC}
				tracer().Errorf("scanner error: %v", lexerr)
				return tokens, lexerr
			}
			return tokens, err
		}
		token := tok.(*lexmachine.Token)
		t := lrgo.MakeToken(lm.tags[token.Type], string(token.Lexeme))
		t.Span = lrgo.Span{uint64(token.TC), uint64(token.TC + len(token.Lexeme))}
		tracer().Debugf("token %v at %v", t, t.Span)
		tokens = append(tokens, t)
	}
	tokens = append(tokens, lrgo.EOFToken(uint64(len(input))))
	return tokens, nil
}

// Tags is part of the scanner.Tokenizer interface. Tags are sorted.
func (lm *Lexer) Tags() []string {
	tags := append([]string(nil), lm.tags...)
	sort.Strings(tags)
	return tags
}

// ---------------------------------------------------------------------------

// Literals creates patterns for literal strings, tagging each one with
// itself.
func Literals(lits ...string) []Pattern {
	patterns := make([]Pattern, len(lits))
	for i, lit := range lits {
		patterns[i] = Pattern{Regex: Quote(lit), Tag: lit}
	}
	return patterns
}

// Quote escapes every non-alphanumeric character of a literal string, making
// it a regular expression matching exactly this string.
func Quote(lit string) string {
	var b strings.Builder
	for _, r := range lit {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Skip is a pre-defined action which ignores the scanned match.
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// MakeToken is a pre-defined action which wraps a scanned match into a token.
func MakeToken(name string, id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}
