package lr

import (
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// Analysis holds the FIRST and FOLLOW sets of a sealed grammar. Terminal
// sets are ordered by terminal registration, see Grammar.UsedTerminals.
type Analysis struct {
	g        *Grammar
	nullable []bool         // by non-terminal ID
	first    []*treeset.Set // by non-terminal ID, without ε
	follow   []*treeset.Set // by non-terminal ID
}

// Analyze computes FIRST and FOLLOW sets for g. The grammar will be sealed.
func Analyze(g *Grammar) (*Analysis, error) {
	if err := g.Seal(); err != nil {
		return nil, err
	}
	ga := &Analysis{g: g}
	n := len(g.nonterminals)
	ga.nullable = make([]bool, n)
	ga.first = make([]*treeset.Set, n)
	ga.follow = make([]*treeset.Set, n)
	for k := 0; k < n; k++ {
		ga.first[k] = ga.terminalSet()
		ga.follow[k] = ga.terminalSet()
	}
	ga.computeFirst()
	ga.computeFollow()
	return ga, nil
}

// Grammar returns the analysed grammar.
func (ga *Analysis) Grammar() *Grammar {
	return ga.g
}

// terminalSet creates a set of terminals, sorted by order of registration.
func (ga *Analysis) terminalSet() *treeset.Set {
	return treeset.NewWith(func(a, b interface{}) int {
		return utils.IntComparator(
			ga.g.terminalIndex(a.(*Terminal).class),
			ga.g.terminalIndex(b.(*Terminal).class))
	})
}

func (ga *Analysis) computeFirst() {
	for changed := true; changed; {
		changed = false
		for _, p := range ga.g.productions {
			A := p.Symbol.id
			before := ga.first[A].Size()
			if ga.firstOfSequence(p.Expression, ga.first[A]) && !ga.nullable[A] {
				ga.nullable[A] = true
				changed = true
			}
			if ga.first[A].Size() != before {
				changed = true
			}
		}
	}
}

// firstOfSequence adds FIRST(seq) to set and returns true if seq is nullable.
func (ga *Analysis) firstOfSequence(seq []GrammarEntity, set *treeset.Set) bool {
	for _, X := range seq {
		switch S := X.(type) {
		case *Terminal:
			set.Add(ga.g.Terminal(S.class))
			return false
		case *NonTerminal:
			set.Add(ga.first[S.id].Values()...)
			if !ga.nullable[S.id] {
				return false
			}
		}
	}
	return true
}

func (ga *Analysis) computeFollow() {
	if start := ga.g.Start(); start != nil {
		ga.follow[start.id].Add(ga.g.terminals[0])
	} else if len(ga.g.productions) > 0 {
		ga.follow[ga.g.productions[0].Symbol.id].Add(ga.g.terminals[0])
	}
	for changed := true; changed; {
		changed = false
		for _, p := range ga.g.productions {
			for k, X := range p.Expression {
				B, ok := X.(*NonTerminal)
				if !ok {
					continue
				}
				before := ga.follow[B.id].Size()
				if ga.firstOfSequence(p.Expression[k+1:], ga.follow[B.id]) {
					ga.follow[B.id].Add(ga.follow[p.Symbol.id].Values()...)
				}
				if ga.follow[B.id].Size() != before {
					changed = true
				}
			}
		}
	}
}

// IsNullable is true if N derives the empty word.
func (ga *Analysis) IsNullable(N *NonTerminal) bool {
	return ga.valid(N) && ga.nullable[N.id]
}

// First returns FIRST(N) without ε, in order of terminal registration.
// Use IsNullable to check for ε.
func (ga *Analysis) First(N *NonTerminal) []*Terminal {
	if !ga.valid(N) {
		return nil
	}
	return terminals(ga.first[N.id])
}

// Follow returns FOLLOW(N), in order of terminal registration.
func (ga *Analysis) Follow(N *NonTerminal) []*Terminal {
	if !ga.valid(N) {
		return nil
	}
	return terminals(ga.follow[N.id])
}

// FollowSets returns the FOLLOW sets of all non-terminals, indexed by
// non-terminal ID.
func (ga *Analysis) FollowSets() [][]*Terminal {
	r := make([][]*Terminal, len(ga.follow))
	for k, set := range ga.follow {
		r[k] = terminals(set)
	}
	return r
}

func (ga *Analysis) valid(N *NonTerminal) bool {
	return N != nil && N.owner == ga.g && N.id < len(ga.first)
}

func terminals(set *treeset.Set) []*Terminal {
	r := make([]*Terminal, 0, set.Size())
	for _, x := range set.Values() {
		r = append(r, x.(*Terminal))
	}
	return r
}
