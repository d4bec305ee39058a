package lrgo

import "fmt"

// EOF is the tag of the end-of-input marker. Every token sequence handed to a
// parser is terminated by exactly one token carrying this tag.
const EOF = "$"

// Token represents an input token. Tokens are produced by a lexer and
// reflect terminals of a grammar: the tag of a token is the name of the
// terminal symbol it stands for.
//
// An example would be a token for an integer:
//
//    Tag   = "num"       // terminal of the grammar
//    Value = "4711"      // lexeme as it appeared in the input
//    Span  = 67…71       // occured from position 67 in the input stream
//
type Token struct {
	Tag   string
	Value string
	Span  Span
}

// MakeToken is a shortcut for creating a token without position information.
func MakeToken(tag, value string) Token {
	return Token{Tag: tag, Value: value}
}

// EOFToken creates an end-of-input token at position pos.
func EOFToken(pos uint64) Token {
	return Token{Tag: EOF, Value: EOF, Span: Span{pos, pos}}
}

// IsEOF is true for the end-of-input marker.
func (t Token) IsEOF() bool {
	return t.Tag == EOF
}

func (t Token) String() string {
	if t.Tag == t.Value {
		return t.Tag
	}
	return fmt.Sprintf("%s(%s)", t.Tag, t.Value)
}

// Tags extracts the tags of a token sequence.
func Tags(tokens []Token) []string {
	tags := make([]string, len(tokens))
	for i, t := range tokens {
		tags[i] = t.Tag
	}
	return tags
}

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a length of input token run. For every
// terminal and non-terminal, a parse tree will track which input positions
// this symbol covers. A span denotes a start position and the position just
// behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

// IsNull is true for the zero span.
func (s Span) IsNull() bool {
	return s == Span{}
}

// Extend returns the smallest span covering s and other. A null span is
// neutral.
func (s Span) Extend(other Span) Span {
	if s.IsNull() {
		return other
	}
	if other.IsNull() {
		return s
	}
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
