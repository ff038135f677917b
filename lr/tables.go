package lr

import (
	"encoding/hex"
	"fmt"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/onirtuen/scopus"
	"github.com/onirtuen/scopus/lr/dense"
	"github.com/pingcap/errors"
)

// === Parser Actions ========================================================

// ActionKind is the kind of an ACTION table entry.
type ActionKind int8

// Kinds of parser actions. The zero value is Error.
const (
	Error ActionKind = iota
	Shift
	Reduce
	Accept
)

func (k ActionKind) String() string {
	switch k {
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	case Accept:
		return "accept"
	}
	return "error"
}

// Action is an entry of the ACTION table. Dest is the destination state for
// shift actions and the production to reduce for reduce actions.
type Action struct {
	Kind ActionKind
	Dest int
}

func (a Action) String() string {
	switch a.Kind {
	case Shift:
		return fmt.Sprintf("S%d", a.Dest)
	case Reduce:
		return fmt.Sprintf("R%d", a.Dest)
	case Accept:
		return "acc"
	}
	return ""
}

// Actions are stored in a matrix of int32:
//
//	0        error
//	-1       accept
//	d+1      shift to state d
//	-(p+2)   reduce by production p
func (a Action) encode() int32 {
	switch a.Kind {
	case Shift:
		return int32(a.Dest) + 1
	case Reduce:
		return -int32(a.Dest) - 2
	case Accept:
		return -1
	}
	return 0
}

func decodeAction(v int32) Action {
	switch {
	case v > 0:
		return Action{Kind: Shift, Dest: int(v) - 1}
	case v == -1:
		return Action{Kind: Accept}
	case v < -1:
		return Action{Kind: Reduce, Dest: int(-v) - 2}
	}
	return Action{Kind: Error}
}

// ActionTable is the SLR(1) ACTION table, indexed by state and token class.
type ActionTable struct {
	matrix *dense.IntMatrix
}

// Action returns the action for a state and a lookahead token class.
// Token classes without a column yield an Error action.
func (t *ActionTable) Action(state int, class scopus.TokType) Action {
	return decodeAction(t.matrix.Value(state, int(class)))
}

// States returns the number of rows.
func (t *ActionTable) States() int {
	return t.matrix.M()
}

// Columns returns the number of token classes covered.
func (t *ActionTable) Columns() int {
	return t.matrix.N()
}

func (t *ActionTable) set(state int, class scopus.TokType, a Action) {
	t.matrix.Set(state, int(class), a.encode())
}

// GotoTable is the GOTO table, indexed by state and non-terminal ID.
type GotoTable struct {
	matrix *dense.IntMatrix
}

// Goto returns the destination state after reducing to non-terminal nt,
// or -1.
func (t *GotoTable) Goto(state int, nt int) int {
	return int(t.matrix.Value(state, nt))
}

// States returns the number of rows.
func (t *GotoTable) States() int {
	return t.matrix.M()
}

// === Conflicts ============================================================

// ConflictKind tells shift/reduce from reduce/reduce conflicts.
type ConflictKind int8

// Kinds of conflicts
const (
	ShiftReduce ConflictKind = iota
	ReduceReduce
)

func (k ConflictKind) String() string {
	if k == ReduceReduce {
		return "reduce/reduce"
	}
	return "shift/reduce"
}

// Conflict records two actions competing for an ACTION table cell.
type Conflict struct {
	Kind     ConflictKind
	State    int
	Terminal *Terminal
	Chosen   Action
	Dropped  Action
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s conflict in state %d on %s: %v wins over %v",
		c.Kind, c.State, c.Terminal, c.Chosen, c.Dropped)
}

// ConflictError is returned for grammars with conflicts, if option
// StrictConflicts is set.
type ConflictError struct {
	Grammar   string
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("grammar %s is not SLR(1): %d conflict(s), first is %v",
		e.Grammar, len(e.Conflicts), e.Conflicts[0])
}

// === Table Generation =====================================================

// Vocabulary describes the token classes a tokenizer hands out.
// *scanner.Tokenizer implements it.
type Vocabulary interface {
	TokenClassCount() int
	IsTerminalClass(scopus.TokType) bool
}

// Option configures a table generator.
type Option func(lrgen *TableGenerator)

// WithVocabulary checks every terminal of the grammar against a tokenizer's
// vocabulary and sizes the ACTION table for all of its token classes.
func WithVocabulary(v Vocabulary) Option {
	return func(lrgen *TableGenerator) {
		lrgen.vocabulary = v
	}
}

// StrictConflicts lets CreateTables fail with a *ConflictError if the
// grammar has conflicts.
func StrictConflicts() Option {
	return func(lrgen *TableGenerator) {
		lrgen.strict = true
	}
}

// TableGenerator is a generator object to construct SLR(1) parser tables.
// Clients usually create a grammar G, then a table generator for it.
// TableGenerator.CreateTables() constructs the item sets and parser tables
// for an SLR parser recognizing G.
type TableGenerator struct {
	g            *Grammar
	ga           *Analysis
	vocabulary   Vocabulary
	strict       bool
	itemsets     []*ItemSet
	edges        []edge
	gototable    *GotoTable
	actiontable  *ActionTable
	conflicts    []Conflict
	HasConflicts bool
}

// edge of the item set automaton
type edge struct {
	from, to int
	label    GrammarEntity
}

// NewTableGenerator creates a new TableGenerator for an augmented grammar.
func NewTableGenerator(g *Grammar, opts ...Option) *TableGenerator {
	lrgen := &TableGenerator{g: g}
	for _, opt := range opts {
		opt(lrgen)
	}
	return lrgen
}

// Grammar returns the grammar of the generator.
func (lrgen *TableGenerator) Grammar() *Grammar {
	return lrgen.g
}

// Analysis returns FIRST and FOLLOW sets of the grammar. Clients have to call
// CreateTables() first.
func (lrgen *TableGenerator) Analysis() *Analysis {
	return lrgen.ga
}

// ItemSets returns the states of the LR(0) automaton, ordered by ID.
func (lrgen *TableGenerator) ItemSets() []*ItemSet {
	return lrgen.itemsets
}

// GotoTable returns the GOTO table for LR-parsing a grammar. The tables have
// to be built by calling CreateTables() previously.
func (lrgen *TableGenerator) GotoTable() *GotoTable {
	if lrgen.gototable == nil {
		tracer().P("lr", "gen").Errorf("tables not yet initialized")
	}
	return lrgen.gototable
}

// ActionTable returns the ACTION table for LR-parsing a grammar. The tables
// have to be built by calling CreateTables() previously.
func (lrgen *TableGenerator) ActionTable() *ActionTable {
	if lrgen.actiontable == nil {
		tracer().P("lr", "gen").Errorf("tables not yet initialized")
	}
	return lrgen.actiontable
}

// Conflicts returns the conflicts found during table construction.
func (lrgen *TableGenerator) Conflicts() []Conflict {
	return lrgen.conflicts
}

// CreateTables seals the grammar, analyses it and creates the GOTO and
// ACTION tables for an SLR(1) parser.
func (lrgen *TableGenerator) CreateTables() error {
	G := lrgen.g
	if G == nil || !G.IsAugmented() {
		return errors.New("table generation requires an augmented grammar")
	}
	ga, err := Analyze(G)
	if err != nil {
		return err
	}
	lrgen.ga = ga
	width, err := lrgen.checkTerminals()
	if err != nil {
		return err
	}
	lrgen.buildItemSets()
	lrgen.gototable = lrgen.buildGotoTable()
	lrgen.actiontable = lrgen.buildActionTable(width)
	if lrgen.HasConflicts && lrgen.strict {
		return &ConflictError{Grammar: G.Name, Conflicts: lrgen.conflicts}
	}
	tracer().Infof("grammar %s: %d states, ACTION table %d x %d, GOTO table %d x %d",
		G.Name, len(lrgen.itemsets), len(lrgen.itemsets), width, len(lrgen.itemsets), len(G.nonterminals))
	return nil
}

// checkTerminals returns the width of the ACTION table. With a vocabulary,
// every terminal has to be known to it.
func (lrgen *TableGenerator) checkTerminals() (int, error) {
	width := 0
	for _, t := range lrgen.g.terminals {
		if t.class < 0 {
			return 0, errors.Errorf("terminal %s has negative token class %d", t, t.class)
		}
		if lrgen.vocabulary != nil && !lrgen.vocabulary.IsTerminalClass(t.class) {
			return 0, errors.Errorf("terminal %s (token class %d) is not registered with the tokenizer",
				t, t.class)
		}
		if int(t.class) >= width {
			width = int(t.class) + 1
		}
	}
	if lrgen.vocabulary != nil && lrgen.vocabulary.TokenClassCount() > width {
		width = lrgen.vocabulary.TokenClassCount()
	}
	return width, nil
}

// buildItemSets enumerates the item sets breadth first, starting with the
// closure of S' --> ·S. Successors are visited in order of GrammarSymbols,
// which makes the numbering of states deterministic.
func (lrgen *TableGenerator) buildItemSets() {
	tracer().Debugf("=== build item sets ==============================================")
	G := lrgen.g
	lrgen.itemsets, lrgen.edges = nil, nil
	known := make(map[string][]*ItemSet)
	add := func(kernel []Item) *ItemSet {
		s := NewItemSet(G, kernel, len(lrgen.itemsets))
		for _, t := range known[s.Hash()] {
			if t.Equals(s) {
				return t
			}
		}
		known[s.Hash()] = append(known[s.Hash()], s)
		lrgen.itemsets = append(lrgen.itemsets, s)
		s.Dump()
		return s
	}
	worklist := arraylist.New()
	worklist.Add(add([]Item{StartItem(G.InitialProduction())}))
	for k := 0; k < worklist.Size(); k++ {
		x, _ := worklist.Get(k)
		s := x.(*ItemSet)
		for _, A := range G.symbols {
			kernel := Goto(s, A)
			if len(kernel) == 0 {
				continue
			}
			cnt := len(lrgen.itemsets)
			snew := add(kernel)
			if snew.ID == cnt {
				worklist.Add(snew)
			}
			tracer().Debugf("goto(%d, %v) = %d", s.ID, entityString(A), snew.ID)
			lrgen.edges = append(lrgen.edges, edge{from: s.ID, to: snew.ID, label: A})
		}
	}
}

func (lrgen *TableGenerator) buildGotoTable() *GotoTable {
	statescnt := len(lrgen.itemsets)
	ntcnt := len(lrgen.g.nonterminals)
	tracer().Infof("GOTO table of size %d x %d", statescnt, ntcnt)
	gototable := &GotoTable{matrix: dense.NewIntMatrix(statescnt, ntcnt, -1)}
	for _, e := range lrgen.edges {
		if N, ok := e.label.(*NonTerminal); ok {
			gototable.matrix.Set(e.from, N.id, int32(e.to))
		}
	}
	return gototable
}

// For building an ACTION table we iterate over all the item sets. Edges
// labeled with a terminal produce shift entries. Every complete item
// A --> α· produces a reduce entry for each terminal in FOLLOW(A), except
// for the start production, which produces accept on the end marker.
// Shift entries win over reduce entries; of two reduce entries, the one with
// the lower production number wins. Either case is recorded as a conflict.
func (lrgen *TableGenerator) buildActionTable(width int) *ActionTable {
	statescnt := len(lrgen.itemsets)
	tracer().Infof("ACTION table of size %d x %d", statescnt, width)
	actions := &ActionTable{matrix: dense.NewIntMatrix(statescnt, width, 0)}
	lrgen.conflicts, lrgen.HasConflicts = nil, false
	for _, e := range lrgen.edges {
		if t, ok := e.label.(*Terminal); ok {
			actions.set(e.from, t.class, Action{Kind: Shift, Dest: e.to})
		}
	}
	for _, s := range lrgen.itemsets {
		for _, i := range s.CompleteItems() {
			p := i.Production
			if p.ID == 0 {
				lrgen.enter(actions, s.ID, lrgen.g.terminals[0], Action{Kind: Accept})
				continue
			}
			for _, la := range lrgen.ga.Follow(p.Symbol) {
				lrgen.enter(actions, s.ID, la, Action{Kind: Reduce, Dest: p.ID})
			}
		}
	}
	for _, c := range lrgen.conflicts {
		tracer().Errorf("%v", c)
	}
	return actions
}

func (lrgen *TableGenerator) enter(actions *ActionTable, state int, la *Terminal, a Action) {
	old := actions.Action(state, la.class)
	if old.Kind == Error || old == a {
		actions.set(state, la.class, a)
		return
	}
	c := Conflict{Kind: ReduceReduce, State: state, Terminal: la, Chosen: old, Dropped: a}
	if old.Kind == Shift {
		c.Kind = ShiftReduce
	} else if old.Kind == Reduce && a.Kind == Reduce && a.Dest < old.Dest {
		c.Chosen, c.Dropped = a, old
		actions.set(state, la.class, a)
	} else if a.Kind == Accept {
		c.Chosen, c.Dropped = a, old
		actions.set(state, la.class, a)
	}
	lrgen.conflicts = append(lrgen.conflicts, c)
	lrgen.HasConflicts = true
}

// tableImage is the hashed form of a pair of tables.
type tableImage struct {
	States  int
	Columns int
	Actions []int32
	Gotos   []int32
}

// Fingerprint returns a hash over the ACTION and GOTO tables. Building tables
// twice for the same grammar yields the same fingerprint.
func (lrgen *TableGenerator) Fingerprint() string {
	if lrgen.actiontable == nil || lrgen.gototable == nil {
		return ""
	}
	img := tableImage{
		States:  lrgen.actiontable.States(),
		Columns: lrgen.actiontable.Columns(),
		Actions: lrgen.actiontable.matrix.Values(),
		Gotos:   lrgen.gototable.matrix.Values(),
	}
	return hex.EncodeToString(structhash.Md5(img, 1))
}
