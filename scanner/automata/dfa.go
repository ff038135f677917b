package automata

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/pingcap/errors"
)

// NoState is the result of a transition which does not exist.
const NoState = -1

// noClass marks non-accepting DFA states.
const noClass = -1

// TransitionTable is a deterministic transition function, produced by subset
// construction. State 0 is the start state. Tables are read-only after
// construction and may be shared between scanners.
type TransitionTable struct {
	next   []int32 // next[state*256+byte]
	accept []int32 // token class per state, or noClass
	greedy []Greediness
}

// Start returns the start state of the table.
func (tt *TransitionTable) Start() int {
	return 0
}

// StateCount returns the number of DFA states.
func (tt *TransitionTable) StateCount() int {
	return len(tt.accept)
}

// Next returns the successor of state for input byte b, or NoState.
func (tt *TransitionTable) Next(state int, b byte) int {
	return int(tt.next[state<<8|int(b)])
}

// Accepting returns the token class accepted in state, if any.
func (tt *TransitionTable) Accepting(state int) (int, bool) {
	c := tt.accept[state]
	return int(c), c != noClass
}

// Greediness returns the greediness of the token class accepted in state.
func (tt *TransitionTable) Greediness(state int) Greediness {
	return tt.greedy[state]
}

// Determinize performs subset construction over the NFA reachable from start.
// Every DFA state is the epsilon-closure of a set of NFA states. A DFA state
// accepts if any of its NFA states accepts; if more than one does, a
// FirstMatch state wins over LongestMatch states, and between equal
// greediness the lowest token class wins.
func Determinize(start *State) (*TransitionTable, error) {
	if start == nil {
		return nil, errors.New("cannot determinize automaton without start state")
	}
	nfa := reachable(start)
	for i, s := range nfa {
		s.serial = i
	}
	defer func() {
		for _, s := range nfa {
			s.serial = -1
		}
	}()
	tracer().Debugf("determinizing NFA with %d states", len(nfa))
	n := uint(len(nfa))
	closure := func(set *bitset.BitSet) *bitset.BitSet {
		stack := make([]*State, 0, 16)
		for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
			stack = append(stack, nfa[i])
		}
		for len(stack) > 0 {
			s := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, e := range s.edges {
				if e.on == Epsilon && !set.Test(uint(e.to.serial)) {
					set.Set(uint(e.to.serial))
					stack = append(stack, e.to)
				}
			}
		}
		return set
	}
	tt := &TransitionTable{}
	var subsets []*bitset.BitSet
	index := make(map[string]int)
	add := func(set *bitset.BitSet) int {
		key := set.String()
		if id, ok := index[key]; ok {
			return id
		}
		id := len(subsets)
		index[key] = id
		subsets = append(subsets, set)
		row := make([]int32, 256)
		for i := range row {
			row[i] = NoState
		}
		tt.next = append(tt.next, row...)
		class, g := acceptanceOf(set, nfa)
		tt.accept = append(tt.accept, int32(class))
		tt.greedy = append(tt.greedy, g)
		return id
	}
	add(closure(bitset.New(n).Set(uint(start.serial))))
	for d := 0; d < len(subsets); d++ {
		var moves [256]*bitset.BitSet
		set := subsets[d]
		for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
			for _, e := range nfa[i].edges {
				if e.on == Epsilon {
					continue
				}
				if moves[e.on] == nil {
					moves[e.on] = bitset.New(n)
				}
				moves[e.on].Set(uint(e.to.serial))
			}
		}
		for b, m := range moves {
			if m == nil {
				continue
			}
			target := add(closure(m))
			tt.next[d<<8|b] = int32(target)
		}
	}
	tracer().Infof("DFA has %d states (from %d NFA states)", len(subsets), len(nfa))
	return tt, nil
}

// acceptanceOf selects the winning accepting NFA state of a subset.
func acceptanceOf(set *bitset.BitSet, nfa []*State) (int, Greediness) {
	var best *State
	for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
		s := nfa[i]
		if !s.IsAccepting {
			continue
		}
		if best == nil || s.Greediness > best.Greediness ||
			s.Greediness == best.Greediness && s.TokenClass < best.TokenClass {
			best = s
		}
	}
	if best == nil {
		return noClass, LongestMatch
	}
	return best.TokenClass, best.Greediness
}

// Dump traces the table, one line per state and target.
func (tt *TransitionTable) Dump() {
	for s := 0; s < tt.StateCount(); s++ {
		line := fmt.Sprintf("DFA state %3d", s)
		if c, ok := tt.Accepting(s); ok {
			line += fmt.Sprintf(" accepts %d (%s)", c, tt.greedy[s])
		}
		tracer().Debugf("%s", line)
		for b := 0; b < 256; b++ {
			if to := tt.Next(s, byte(b)); to != NoState {
				tracer().Debugf("    --%s--> %d", InputChar(b), to)
			}
		}
	}
}
