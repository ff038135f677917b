package automata

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
)

func literal(s string) *FiniteAutomata {
	fa := New("lit")
	state := fa.Start
	for i := 0; i < len(s)-1; i++ {
		next := NewState("lit")
		state.AddTransitionTo(next, Byte(s[i]))
		state = next
	}
	state.AddTransitionTo(fa.Terminator, Byte(s[len(s)-1]))
	return fa
}

func run(tt *TransitionTable, input string) (int, bool) {
	s := tt.Start()
	for i := 0; i < len(input); i++ {
		if s = tt.Next(s, input[i]); s == NoState {
			return 0, false
		}
	}
	return tt.Accepting(s)
}

func TestFragments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scopus.scanner")
	defer teardown()
	//
	ab := Concat(literal("a"), literal("b"))
	require.True(t, ab.Accepts([]byte("ab")))
	require.False(t, ab.Accepts([]byte("a")))
	require.Equal(t, 0, ab.Terminator.EdgeCount())
	//
	alt := Alternate(literal("x"), literal("yz"))
	require.True(t, alt.Accepts([]byte("x")))
	require.True(t, alt.Accepts([]byte("yz")))
	require.False(t, alt.Accepts([]byte("xyz")))
	//
	star := Repeat(literal("ab"))
	require.True(t, star.Accepts(nil))
	require.True(t, star.Accepts([]byte("ababab")))
	require.False(t, star.Accepts([]byte("aba")))
	//
	opt := Optional(literal("q"))
	require.True(t, opt.Accepts(nil))
	require.True(t, opt.Accepts([]byte("q")))
	require.False(t, opt.Accepts([]byte("qq")))
}

func TestStatesReachable(t *testing.T) {
	fa := Concat(literal("ab"), literal("c"))
	states := fa.States()
	require.Equal(t, fa.Start, states[0])
	require.Contains(t, states, fa.Terminator)
	require.Len(t, states, 5)
}

func TestDeterminize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scopus.scanner")
	defer teardown()
	//
	start := NewState("global")
	ifKw := literal("if")
	ifKw.Terminator.Accept(1, LongestMatch)
	ident := Concat(literal("i"), Repeat(Alternate(literal("f"), literal("x"))))
	ident.Terminator.Accept(2, LongestMatch)
	start.AddTransitionTo(ifKw.Start, Epsilon)
	start.AddTransitionTo(ident.Start, Epsilon)
	tt, err := Determinize(start)
	require.NoError(t, err)
	tt.Dump()
	//
	c, ok := run(tt, "if")
	require.True(t, ok)
	require.Equal(t, 1, c, "lower token class wins a tie")
	c, ok = run(tt, "ifx")
	require.True(t, ok)
	require.Equal(t, 2, c)
	c, ok = run(tt, "i")
	require.True(t, ok)
	require.Equal(t, 2, c)
	_, ok = run(tt, "q")
	require.False(t, ok)
}

func TestFirstMatchPriority(t *testing.T) {
	start := NewState("global")
	a := literal("ab")
	a.Terminator.Accept(1, LongestMatch)
	b := literal("ab")
	b.Terminator.Accept(2, FirstMatch)
	start.AddTransitionTo(a.Start, Epsilon)
	start.AddTransitionTo(b.Start, Epsilon)
	tt, err := Determinize(start)
	require.NoError(t, err)
	c, ok := run(tt, "ab")
	require.True(t, ok)
	require.Equal(t, 2, c)
	s := tt.Next(tt.Next(tt.Start(), 'a'), 'b')
	require.Equal(t, FirstMatch, tt.Greediness(s))
}

func TestDeterminizeIsDeterministic(t *testing.T) {
	build := func() *TransitionTable {
		start := NewState("global")
		for i, w := range []string{"for", "fork", "f"} {
			fa := literal(w)
			fa.Terminator.Accept(i+1, LongestMatch)
			start.AddTransitionTo(fa.Start, Epsilon)
		}
		tt, err := Determinize(start)
		require.NoError(t, err)
		return tt
	}
	t1, t2 := build(), build()
	require.Equal(t, t1.next, t2.next)
	require.Equal(t, t1.accept, t2.accept)
}

func TestInputCharString(t *testing.T) {
	require.Equal(t, "ε", Epsilon.String())
	require.Equal(t, "a", Byte('a').String())
	require.Equal(t, "0xa", Byte('\n').String())
	require.True(t, Epsilon.IsEpsilon())
}
