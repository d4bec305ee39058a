package lr

import (
	"golang.org/x/tools/container/intsets"
)

// Analysis holds FIRST and FOLLOW sets for a grammar. Sets are represented as
// sparse sets of symbol IDs; ε has ID 0 and occurs in FIRST sets only.
//
// An Analysis is computed once per grammar, see Grammar.Analysis().
type Analysis struct {
	g      *Grammar
	first  []*intsets.Sparse // by symbol ID
	follow []*intsets.Sparse // by symbol ID, variables only
}

func analyse(g *Grammar) *Analysis {
	ga := &Analysis{
		g:      g,
		first:  make([]*intsets.Sparse, len(g.symbols)),
		follow: make([]*intsets.Sparse, len(g.symbols)),
	}
	for _, A := range g.symbols {
		ga.first[A.ID] = &intsets.Sparse{}
		ga.follow[A.ID] = &intsets.Sparse{}
		if !A.IsVariable() {
			ga.first[A.ID].Insert(A.ID) // FIRST(a) = {a}, FIRST(ε) = {ε}
		}
	}
	ga.computeFirst()
	ga.computeFollow()
	return ga
}

// Grammar returns the grammar this analysis is for.
func (ga *Analysis) Grammar() *Grammar {
	return ga.g
}

// FIRST(A) is the fixed point of FIRST(A) = ⋃ FIRST(β) over all rules A -> β.
func (ga *Analysis) computeFirst() {
	for changed, round := true, 1; changed; round++ {
		changed = false
		for _, r := range ga.g.rules {
			f := ga.firstOfSequence(r.rhs, nil)
			if ga.first[r.LHS.ID].UnionWith(f) {
				changed = true
			}
		}
		tracer().Debugf("FIRST sets, round %d", round)
	}
}

// FOLLOW(B) gains FIRST(β)\{ε} for every rule A -> α B β, and FOLLOW(A) if β
// is nullable. The start symbols are followed by $.
func (ga *Analysis) computeFollow() {
	ga.follow[ga.g.AugmentedStart().ID].Insert(eofID)
	ga.follow[ga.g.Start().ID].Insert(eofID)
	for changed, round := true, 1; changed; round++ {
		changed = false
		for _, r := range ga.g.rules {
			for k, B := range r.rhs {
				if !B.IsVariable() {
					continue
				}
				f := ga.firstOfSequence(r.rhs[k+1:], nil)
				nullable := f.Remove(epsilonID)
				if ga.follow[B.ID].UnionWith(f) {
					changed = true
				}
				if nullable && ga.follow[B.ID].UnionWith(ga.follow[r.LHS.ID]) {
					changed = true
				}
			}
		}
		tracer().Debugf("FOLLOW sets, round %d", round)
	}
}

// firstOfSequence computes FIRST(X1 … Xn la). la may be nil. The result is a
// fresh set which may be modified by the caller.
func (ga *Analysis) firstOfSequence(seq []*Symbol, la *Symbol) *intsets.Sparse {
	result := &intsets.Sparse{}
	for _, X := range seq {
		fx := ga.first[X.ID]
		nullable := fx.Has(epsilonID)
		result.UnionWith(fx)
		if !nullable {
			result.Remove(epsilonID)
			return result
		}
	}
	if la != nil {
		result.Remove(epsilonID)
		result.UnionWith(ga.first[la.ID])
		return result
	}
	result.Insert(epsilonID)
	return result
}

// First returns FIRST(A) for a single symbol. The result contains the
// grammar's ε symbol if A derives the empty word.
func (ga *Analysis) First(A *Symbol) []*Symbol {
	if A == nil {
		return nil
	}
	return ga.symbols(ga.first[A.ID])
}

// FirstOf returns FIRST(X1 … Xn) for a sequence of symbols. For the empty
// sequence the result is {ε}.
func (ga *Analysis) FirstOf(seq ...*Symbol) []*Symbol {
	return ga.symbols(ga.firstOfSequence(seq, nil))
}

// Follow returns FOLLOW(A) for a variable A.
func (ga *Analysis) Follow(A *Symbol) []*Symbol {
	if A == nil || !A.IsVariable() {
		return nil
	}
	return ga.symbols(ga.follow[A.ID])
}

// Nullable is true if A derives the empty word.
func (ga *Analysis) Nullable(A *Symbol) bool {
	return A != nil && ga.first[A.ID].Has(epsilonID)
}

// followSet is used by the table builder.
func (ga *Analysis) followSet(A *Symbol) *intsets.Sparse {
	return ga.follow[A.ID]
}

// symbols maps a set of IDs to symbols, ordered by ID.
func (ga *Analysis) symbols(set *intsets.Sparse) []*Symbol {
	ids := set.AppendTo(nil)
	syms := make([]*Symbol, 0, len(ids))
	for _, id := range ids {
		syms = append(syms, ga.g.symbols[id])
	}
	return syms
}
