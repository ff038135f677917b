package automata

import (
	"fmt"
	"strconv"
)

// --- Input characters ------------------------------------------------------

// InputChar is the label of an automaton edge: either a byte value (0…255)
// or Epsilon.
type InputChar int16

// Epsilon labels edges which consume no input.
const Epsilon InputChar = -1

// Byte returns the input char for byte b.
func Byte(b byte) InputChar {
	return InputChar(b)
}

// IsEpsilon is true for the epsilon label.
func (c InputChar) IsEpsilon() bool {
	return c == Epsilon
}

func (c InputChar) String() string {
	if c == Epsilon {
		return "ε"
	}
	if c > 32 && c < 127 {
		return string(rune(c))
	}
	return "0x" + strconv.FormatInt(int64(c), 16)
}

// --- Greediness ------------------------------------------------------------

// Greediness controls how the scanner treats an accepting state of a pattern.
type Greediness int8

const (
	// LongestMatch continues scanning after an accepting state, preferring
	// the longest prefix recognized by any pattern.
	LongestMatch Greediness = iota
	// FirstMatch accepts as soon as the pattern completes. It has priority
	// over LongestMatch patterns accepting in the same DFA state.
	FirstMatch
)

func (g Greediness) String() string {
	if g == FirstMatch {
		return "first-match"
	}
	return "longest-match"
}

// --- States ----------------------------------------------------------------

// State is a node of a non-deterministic finite automaton.
type State struct {
	Name        string     // for debugging
	IsAccepting bool       // is this an accepting state?
	TokenClass  int        // class of the accepted token, valid only if accepting
	Greediness  Greediness // valid only if accepting
	edges       []edge     // in order of insertion
	serial      int        // transient number during determinization
}

type edge struct {
	on InputChar
	to *State
}

// NewState creates a fresh, non-accepting state.
func NewState(name string) *State {
	return &State{Name: name, serial: -1}
}

// AddTransitionTo adds an edge to state on input char c. A nil target is ignored.
func (s *State) AddTransitionTo(to *State, c InputChar) {
	if to == nil {
		return
	}
	s.edges = append(s.edges, edge{on: c, to: to})
}

// Transitions returns the successors of s for input char c, in order of insertion.
func (s *State) Transitions(c InputChar) []*State {
	var r []*State
	for _, e := range s.edges {
		if e.on == c {
			r = append(r, e.to)
		}
	}
	return r
}

// EdgeCount returns the number of outgoing edges.
func (s *State) EdgeCount() int {
	return len(s.edges)
}

// Accept marks s as accepting for a token class.
func (s *State) Accept(tokenClass int, g Greediness) {
	s.IsAccepting = true
	s.TokenClass = tokenClass
	s.Greediness = g
}

func (s *State) String() string {
	if s.IsAccepting {
		return fmt.Sprintf("(%s ⇒ %d)", s.Name, s.TokenClass)
	}
	return "(" + s.Name + ")"
}

// --- Automata fragments ----------------------------------------------------

// FiniteAutomata is an NFA fragment with a single start state and a single
// terminator. The terminator has no outgoing edges until the fragment is
// composed with others.
type FiniteAutomata struct {
	Name       string
	Start      *State
	Terminator *State
}

// New creates a fragment with fresh, unconnected start and terminator states.
func New(name string) *FiniteAutomata {
	return &FiniteAutomata{
		Name:       name,
		Start:      NewState(name + ":start"),
		Terminator: NewState(name + ":end"),
	}
}

// Empty creates a fragment recognizing the empty word.
func Empty() *FiniteAutomata {
	fa := New("empty")
	fa.Start.AddTransitionTo(fa.Terminator, Epsilon)
	return fa
}

// Concat splices b behind a.
func Concat(a, b *FiniteAutomata) *FiniteAutomata {
	a.Terminator.AddTransitionTo(b.Start, Epsilon)
	return &FiniteAutomata{
		Name:       a.Name + "·" + b.Name,
		Start:      a.Start,
		Terminator: b.Terminator,
	}
}

// Alternate creates a fragment recognizing either a or b.
func Alternate(a, b *FiniteAutomata) *FiniteAutomata {
	fa := New("alt")
	fa.Start.AddTransitionTo(a.Start, Epsilon)
	fa.Start.AddTransitionTo(b.Start, Epsilon)
	a.Terminator.AddTransitionTo(fa.Terminator, Epsilon)
	b.Terminator.AddTransitionTo(fa.Terminator, Epsilon)
	return fa
}

// Repeat creates a fragment recognizing zero or more repetitions of inner.
func Repeat(inner *FiniteAutomata) *FiniteAutomata {
	fa := New("star")
	fa.Start.AddTransitionTo(inner.Start, Epsilon)
	fa.Start.AddTransitionTo(fa.Terminator, Epsilon)
	inner.Terminator.AddTransitionTo(fa.Terminator, Epsilon)
	inner.Terminator.AddTransitionTo(inner.Start, Epsilon)
	return fa
}

// Optional creates a fragment recognizing inner or the empty word.
func Optional(inner *FiniteAutomata) *FiniteAutomata {
	return Alternate(inner, Empty())
}

// States returns all states reachable from the start state, in depth-first
// order following edges in insertion order.
func (fa *FiniteAutomata) States() []*State {
	return reachable(fa.Start)
}

// Accepts runs the NFA directly on input. It is slow and intended for
// testing and debugging.
func (fa *FiniteAutomata) Accepts(input []byte) bool {
	current := epsilonClosure([]*State{fa.Start})
	for _, b := range input {
		var next []*State
		for _, s := range current {
			next = append(next, s.Transitions(Byte(b))...)
		}
		if len(next) == 0 {
			return false
		}
		current = epsilonClosure(next)
	}
	for _, s := range current {
		if s == fa.Terminator || s.IsAccepting {
			return true
		}
	}
	return false
}

func reachable(start *State) []*State {
	seen := map[*State]bool{start: true}
	states := []*State{}
	stack := []*State{start}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		states = append(states, s)
		for i := len(s.edges) - 1; i >= 0; i-- { // push in reverse to visit in insertion order
			if to := s.edges[i].to; !seen[to] {
				seen[to] = true
				stack = append(stack, to)
			}
		}
	}
	return states
}

func epsilonClosure(states []*State) []*State {
	seen := map[*State]bool{}
	var r []*State
	stack := append([]*State(nil), states...)
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[s] {
			continue
		}
		seen[s] = true
		r = append(r, s)
		for _, e := range s.edges {
			if e.on == Epsilon && !seen[e.to] {
				stack = append(stack, e.to)
			}
		}
	}
	return r
}
