package lr

import (
	"bytes"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/onirtuen/scopus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type arith struct {
	g                         *Grammar
	E, T, F                   *NonTerminal
	id, plus, mult, lbr, rbr  *Terminal
	pEplus, pE, pTmul, pT, pF *Production
	pFid                      *Production
}

// makeArith creates the classic expression grammar
//
//	E --> E + T | T
//	T --> T * F | F
//	F --> ( E ) | id
func makeArith(t *testing.T) *arith {
	a := &arith{
		E: NewNonTerminal("E"), T: NewNonTerminal("T"), F: NewNonTerminal("F"),
		id: NewTerminal("id", 1), plus: NewTerminal("+", 2), mult: NewTerminal("*", 3),
		lbr: NewTerminal("(", 4), rbr: NewTerminal(")", 5),
	}
	a.g = NewAugmentedGrammar("Arith")
	a.pEplus = NewProduction(a.E, a.E, a.plus, a.T)
	a.pE = NewProduction(a.E, a.T)
	a.pTmul = NewProduction(a.T, a.T, a.mult, a.F)
	a.pT = NewProduction(a.T, a.F)
	a.pF = NewProduction(a.F, a.lbr, a.E, a.rbr)
	a.pFid = NewProduction(a.F, a.id)
	for _, p := range []*Production{a.pEplus, a.pE, a.pTmul, a.pT, a.pF, a.pFid} {
		require.NoError(t, a.g.Add(p))
	}
	return a
}

func TestGrammarRegistration(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scopus.lr")
	defer teardown()
	//
	a := makeArith(t)
	require.NoError(t, a.g.Seal())
	assert.Equal(t, 7, a.g.Size())
	assert.Equal(t, 0, a.E.ID())
	assert.Equal(t, 1, a.T.ID())
	assert.Equal(t, 2, a.F.ID())
	assert.Equal(t, 3, a.g.Start().ID(), "S' is registered last")
	assert.Equal(t, 1, a.pEplus.ID)
	assert.Equal(t, 6, a.pFid.ID)
	var names []string
	for _, A := range a.g.GrammarSymbols() {
		names = append(names, A.Name())
	}
	assert.Equal(t, []string{"$", "E", "+", "T", "*", "F", "(", ")", "id"}, names)
	used := a.g.UsedTerminals()
	require.Len(t, used, 6)
	assert.Equal(t, scopus.EndMarker, used[0].TokenClass())
	assert.Equal(t, a.id, used[5])
	assert.Equal(t, "(0) E' --> E\n(1) E --> E + T\n(2) E --> T\n(3) T --> T * F\n"+
		"(4) T --> F\n(5) F --> ( E )\n(6) F --> id\n", a.g.String())
	assert.Equal(t, 1, a.pEplus.TerminalsCount())
	assert.Equal(t, 2, a.pF.TerminalsCount())
	assert.Error(t, a.g.Add(NewProduction(a.F, a.id)), "sealed grammar")
}

func TestGrammarErrors(t *testing.T) {
	N := NewNonTerminal("N")
	g1 := NewAugmentedGrammar("G1")
	require.NoError(t, g1.Add(NewProduction(N, NewTerminal("a", 1))))
	g2 := NewAugmentedGrammar("G2")
	assert.Error(t, g2.Add(NewProduction(N)), "N belongs to G1")
	p := NewProduction(NewNonTerminal("M"))
	require.NoError(t, g2.Add(p))
	assert.Error(t, g2.Add(p), "production added twice")
	//
	g3 := NewAugmentedGrammar("G3")
	require.NoError(t, g3.Add(NewProduction(NewNonTerminal("S"), NewNonTerminal("X"))))
	assert.Error(t, g3.Seal(), "X has no productions")
	assert.Error(t, NewAugmentedGrammar("empty").Seal())
}

func TestProductionEquality(t *testing.T) {
	a := makeArith(t)
	assert.True(t, a.pFid.Equals(NewProduction(a.F, NewTerminal("ident", 1))))
	assert.False(t, a.pFid.Equals(NewProduction(a.T, a.id)))
	assert.False(t, a.pE.Equals(a.pT))
	eps := NewProduction(a.E)
	assert.True(t, eps.IsEpsilon())
	assert.Equal(t, "E --> ε", eps.String())
	assert.Equal(t, "F --> ( E )", a.pF.String())
}

func TestClosure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scopus.lr")
	defer teardown()
	//
	a := makeArith(t)
	require.NoError(t, a.g.Seal())
	closure := Closure(a.g, []Item{StartItem(a.g.InitialProduction())})
	expected := []Item{
		StartItem(a.g.InitialProduction()),
		StartItem(a.pEplus), StartItem(a.pE),
		StartItem(a.pTmul), StartItem(a.pT),
		StartItem(a.pF), StartItem(a.pFid),
	}
	assert.Equal(t, expected, closure)
	assert.Equal(t, closure, Closure(a.g, closure), "closure is idempotent")
	assert.Equal(t, "E --> E · + T", Item{a.pEplus, 1}.String())
	assert.Equal(t, "F --> id ·", Item{a.pFid, 1}.String())
}

func TestGoto(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scopus.lr")
	defer teardown()
	//
	a := makeArith(t)
	require.NoError(t, a.g.Seal())
	s := NewItemSet(a.g, []Item{{a.g.InitialProduction(), 1}, {a.pEplus, 1}}, 0)
	kernel := Goto(s, a.plus)
	assert.Equal(t, []Item{{a.pEplus, 2}}, kernel)
	expected := []Item{
		{a.pEplus, 2},
		StartItem(a.pTmul), StartItem(a.pT),
		StartItem(a.pF), StartItem(a.pFid),
	}
	assert.ElementsMatch(t, expected, Closure(a.g, kernel))
	assert.Empty(t, Goto(s, a.mult))
	//
	s1 := NewItemSet(a.g, []Item{{a.pEplus, 2}}, 1)
	s2 := NewItemSet(a.g, kernel, 2)
	assert.True(t, s1.Equals(s2))
	assert.Equal(t, s1.Hash(), s2.Hash())
	assert.Equal(t, s1.Items, s2.Items, "equal kernels yield equal closures")
	assert.False(t, s.Equals(s1))
	assert.NotEqual(t, s.Hash(), s1.Hash())
	assert.Len(t, s1.Hash(), 32, "hex encoded MD5 of the kernel")
}

func TestFirstAndFollow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scopus.lr")
	defer teardown()
	//
	a := makeArith(t)
	ga, err := Analyze(a.g)
	require.NoError(t, err)
	end := a.g.UsedTerminals()[0]
	assert.Len(t, ga.FollowSets(), 4)
	assert.Equal(t, []*Terminal{end, a.plus, a.rbr}, ga.Follow(a.E))
	assert.Equal(t, []*Terminal{end, a.plus, a.mult, a.rbr}, ga.Follow(a.T))
	assert.Equal(t, []*Terminal{end, a.plus, a.mult, a.rbr}, ga.Follow(a.F))
	assert.Equal(t, []*Terminal{a.lbr, a.id}, ga.First(a.E))
	assert.False(t, ga.IsNullable(a.E))
}

func TestNullableFirst(t *testing.T) {
	b := NewGrammarBuilder("G")
	ta, tb, td := NewTerminal("a", 1), NewTerminal("b", 2), NewTerminal("d", 3)
	b.LHS("S").N("A").T(ta).End()
	b.LHS("A").N("B").N("D").End()
	b.LHS("B").T(tb).End()
	b.LHS("B").Epsilon()
	b.LHS("D").T(td).End()
	b.LHS("D").Epsilon()
	g, err := b.Grammar()
	require.NoError(t, err)
	ga, err := Analyze(g)
	require.NoError(t, err)
	A, B, D := g.NonTerminal("A"), g.NonTerminal("B"), g.NonTerminal("D")
	assert.True(t, ga.IsNullable(A))
	assert.True(t, ga.IsNullable(B))
	assert.False(t, ga.IsNullable(g.NonTerminal("S")))
	assert.Equal(t, []*Terminal{ta, tb, td}, ga.First(g.NonTerminal("S")))
	assert.Equal(t, []*Terminal{tb, td}, ga.First(A))
	assert.Equal(t, []*Terminal{ta}, ga.Follow(A))
	assert.Equal(t, []*Terminal{ta, td}, ga.Follow(B))
	assert.Equal(t, []*Terminal{ta}, ga.Follow(D))
	assert.Contains(t, g.String(), "(4) B --> ε\n")
}

func makeTables(t *testing.T, opts ...Option) (*arith, *TableGenerator) {
	a := makeArith(t)
	lrgen := NewTableGenerator(a.g, opts...)
	require.NoError(t, lrgen.CreateTables())
	return a, lrgen
}

func TestGotoTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scopus.lr")
	defer teardown()
	//
	_, lrgen := makeTables(t)
	require.Len(t, lrgen.ItemSets(), 12)
	expected := map[[2]int]int{
		{0, 0}: 1, {0, 1}: 2, {0, 2}: 3,
		{4, 0}: 8, {4, 1}: 2, {4, 2}: 3,
		{6, 1}: 9, {6, 2}: 3,
		{7, 2}: 10,
	}
	gotoT := lrgen.GotoTable()
	for state := 0; state < 12; state++ {
		for nt := 0; nt < 3; nt++ {
			dest, ok := expected[[2]int{state, nt}]
			if !ok {
				dest = -1
			}
			assert.Equal(t, dest, gotoT.Goto(state, nt), "GOTO[%d,%d]", state, nt)
		}
	}
}

func TestActionTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scopus.lr")
	defer teardown()
	//
	_, lrgen := makeTables(t)
	S := func(d int) Action { return Action{Kind: Shift, Dest: d} }
	R := func(p int) Action { return Action{Kind: Reduce, Dest: p} }
	acc := Action{Kind: Accept}
	expected := map[[2]int]Action{
		{0, 1}: S(5), {0, 4}: S(4),
		{1, 0}: acc, {1, 2}: S(6),
		{2, 0}: R(2), {2, 2}: R(2), {2, 3}: S(7), {2, 5}: R(2),
		{3, 0}: R(4), {3, 2}: R(4), {3, 3}: R(4), {3, 5}: R(4),
		{4, 1}: S(5), {4, 4}: S(4),
		{5, 0}: R(6), {5, 2}: R(6), {5, 3}: R(6), {5, 5}: R(6),
		{6, 1}: S(5), {6, 4}: S(4),
		{7, 1}: S(5), {7, 4}: S(4),
		{8, 2}: S(6), {8, 5}: S(11),
		{9, 0}: R(1), {9, 2}: R(1), {9, 3}: S(7), {9, 5}: R(1),
		{10, 0}: R(3), {10, 2}: R(3), {10, 3}: R(3), {10, 5}: R(3),
		{11, 0}: R(5), {11, 2}: R(5), {11, 3}: R(5), {11, 5}: R(5),
	}
	actionT := lrgen.ActionTable()
	assert.Equal(t, 6, actionT.Columns())
	for state := 0; state < 12; state++ {
		for class := 0; class < 6; class++ {
			a := expected[[2]int{state, class}] // zero value is Error
			assert.Equal(t, a, actionT.Action(state, scopus.TokType(class)), "ACTION[%d,%d]", state, class)
		}
	}
	assert.Equal(t, Error, actionT.Action(0, 42).Kind)
	assert.False(t, lrgen.HasConflicts)
}

func TestTablesAreDeterministic(t *testing.T) {
	_, lrgen1 := makeTables(t)
	_, lrgen2 := makeTables(t)
	assert.NotEmpty(t, lrgen1.Fingerprint())
	assert.Equal(t, lrgen1.Fingerprint(), lrgen2.Fingerprint())
	for k, s := range lrgen1.ItemSets() {
		assert.Equal(t, s.String(), lrgen2.ItemSets()[k].String())
	}
}

type vocabulary int

func (v vocabulary) TokenClassCount() int { return int(v) }
func (v vocabulary) IsTerminalClass(c scopus.TokType) bool {
	return c >= 0 && int(c) < int(v)
}

func TestVocabulary(t *testing.T) {
	_, lrgen := makeTables(t, WithVocabulary(vocabulary(8)))
	assert.Equal(t, 8, lrgen.ActionTable().Columns())
	//
	a := makeArith(t)
	lrgen = NewTableGenerator(a.g, WithVocabulary(vocabulary(4)))
	assert.Error(t, lrgen.CreateTables(), "classes 4 and 5 are unknown to the tokenizer")
	//
	assert.Error(t, NewTableGenerator(NewGrammar("plain")).CreateTables())
}

// ambiguous grammar E --> E + E | id
func makeAmbiguous(t *testing.T) *GrammarBuilder {
	id, plus := NewTerminal("id", 1), NewTerminal("+", 2)
	b := NewGrammarBuilder("Ambiguous")
	b.LHS("E").N("E").T(plus).N("E").End()
	b.LHS("E").T(id).End()
	return b
}

func TestConflicts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scopus.lr")
	defer teardown()
	//
	g, err := makeAmbiguous(t).Grammar()
	require.NoError(t, err)
	lrgen := NewTableGenerator(g)
	require.NoError(t, lrgen.CreateTables())
	require.True(t, lrgen.HasConflicts)
	c := lrgen.Conflicts()[0]
	assert.Equal(t, ShiftReduce, c.Kind)
	assert.Equal(t, "+", c.Terminal.Name())
	assert.Equal(t, Shift, c.Chosen.Kind)
	assert.Equal(t, Action{Kind: Reduce, Dest: 1}, c.Dropped)
	assert.Equal(t, Shift, lrgen.ActionTable().Action(c.State, 2).Kind, "shift wins")
	//
	g, err = makeAmbiguous(t).Grammar()
	require.NoError(t, err)
	err = NewTableGenerator(g, StrictConflicts()).CreateTables()
	var cerr *ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.NotEmpty(t, cerr.Conflicts)
}

func TestReduceReduceConflict(t *testing.T) {
	// S --> A | B ; A --> x ; B --> x
	x := NewTerminal("x", 1)
	b := NewGrammarBuilder("RR")
	b.LHS("S").N("A").End()
	b.LHS("S").N("B").End()
	b.LHS("A").T(x).End()
	b.LHS("B").T(x).End()
	g, err := b.Grammar()
	require.NoError(t, err)
	lrgen := NewTableGenerator(g)
	require.NoError(t, lrgen.CreateTables())
	require.Len(t, lrgen.Conflicts(), 1)
	c := lrgen.Conflicts()[0]
	assert.Equal(t, ReduceReduce, c.Kind)
	assert.Equal(t, Action{Kind: Reduce, Dest: 3}, c.Chosen, "lower production wins")
	assert.Equal(t, Action{Kind: Reduce, Dest: 4}, c.Dropped)
}

func TestExport(t *testing.T) {
	_, lrgen := makeTables(t)
	var buf bytes.Buffer
	require.NoError(t, ItemSetsAsGraphViz(lrgen, &buf))
	assert.Contains(t, buf.String(), "s000 -> s005 [label=\"id\"]")
	assert.Contains(t, buf.String(), "s001 [fillcolor=lightgray")
	buf.Reset()
	require.NoError(t, ActionTableAsHTML(lrgen, &buf))
	assert.Contains(t, buf.String(), "<td>S5</td>")
	assert.Contains(t, buf.String(), "<td>acc</td>")
	buf.Reset()
	require.NoError(t, GotoTableAsHTML(lrgen, &buf))
	assert.Contains(t, buf.String(), "<td>8</td>")
	assert.Error(t, GotoTableAsHTML(NewTableGenerator(nil), &buf))
}

func TestTerminalValues(t *testing.T) {
	tv := NewTerminalValues()
	tv.PushToken(tok{class: 1, lexeme: "a"})
	tv.PushToken(tok{class: 2, lexeme: "+"})
	tv.PushToken(tok{class: 1, lexeme: "b"})
	tv.SetWindow(2)
	assert.Equal(t, 2, tv.Len())
	assert.Equal(t, "+", tv.Lexeme(0))
	assert.Equal(t, "b", tv.Lexeme(1))
	assert.Nil(t, tv.Token(2))
	assert.Len(t, tv.Tokens(), 2)
	tv.DropWindow()
	assert.Equal(t, 1, tv.Size())
	assert.Equal(t, 0, tv.Len())
}

type tok struct {
	class  scopus.TokType
	lexeme string
}

func (t tok) TokType() scopus.TokType { return t.class }
func (t tok) Lexeme() string          { return t.lexeme }
func (t tok) Value() interface{}      { return nil }
func (t tok) Span() scopus.Span       { return scopus.Span{} }
