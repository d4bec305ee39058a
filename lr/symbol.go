package lr

import "github.com/npillmayer/lrgo"

type symbolKind uint8

const (
	terminalSymbol symbolKind = iota
	variableSymbol
	epsilonSymbol
)

// Reserved symbol IDs.
const (
	epsilonID = 0 // ε, occurs in FIRST sets only
	eofID     = 1 // end of input marker $
)

// Symbol is a grammar symbol, either a terminal or a variable (non-terminal).
// Symbols are interned by their grammar: for a given grammar there is exactly
// one *Symbol per name, so symbols may be compared by identity.
type Symbol struct {
	Name string
	ID   int // unique within a grammar
	kind symbolKind
}

// IsTerminal is true for terminals, including the end of input marker.
func (A *Symbol) IsTerminal() bool {
	return A.kind == terminalSymbol
}

// IsVariable is true for symbols occuring on the left-hand side of a rule.
func (A *Symbol) IsVariable() bool {
	return A.kind == variableSymbol
}

// IsEOF is true for the end of input marker $.
func (A *Symbol) IsEOF() bool {
	return A.ID == eofID
}

// IsEpsilon is true for the empty word ε.
func (A *Symbol) IsEpsilon() bool {
	return A.kind == epsilonSymbol
}

func (A *Symbol) String() string {
	if A == nil {
		return "<nil>"
	}
	return A.Name
}

func newEpsilon() *Symbol {
	return &Symbol{Name: "ε", ID: epsilonID, kind: epsilonSymbol}
}

func newEOF() *Symbol {
	return &Symbol{Name: lrgo.EOF, ID: eofID, kind: terminalSymbol}
}
