package lrgo

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSpanExtend(t *testing.T) {
	s := Span{3, 5}
	if x := s.Extend(Span{}); x != s {
		t.Errorf("null span should be neutral, have %v", x)
	}
	if x := (Span{}).Extend(s); x != s {
		t.Errorf("null span should be neutral, have %v", x)
	}
	if x := s.Extend(Span{1, 4}); x != (Span{1, 5}) {
		t.Errorf("expected (1…5), have %v", x)
	}
	if s.Len() != 2 || s.From() != 3 || s.To() != 5 {
		t.Errorf("unexpected span accessors for %v", s)
	}
}

func TestTokens(t *testing.T) {
	toks := []Token{MakeToken("num", "42"), MakeToken("+", "+"), EOFToken(4)}
	if diff := cmp.Diff([]string{"num", "+", "$"}, Tags(toks)); diff != "" {
		t.Errorf("unexpected tags (-want +got):\n%s", diff)
	}
	if toks[0].String() != "num(42)" || toks[1].String() != "+" {
		t.Errorf("unexpected token rendering %v %v", toks[0], toks[1])
	}
	if !toks[2].IsEOF() || toks[2].Span != (Span{4, 4}) {
		t.Errorf("unexpected EOF token %v at %v", toks[2], toks[2].Span)
	}
}
