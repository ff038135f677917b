package lr

import (
	"fmt"
	"strings"

	"github.com/onirtuen/scopus"
	"github.com/pingcap/errors"
)

// Arrow separates left and right hand side of printed productions.
const Arrow = "-->"

// EpsilonName is printed for an empty right hand side.
const EpsilonName = "ε"

// SemanticAction is a function called whenever a production is reduced.
// It receives the tokens of the terminals of the production's right hand side.
type SemanticAction func(values *TerminalValues)

// Production is a grammar rule Symbol --> Expression. Its ID is the index
// within the grammar it has been added to.
type Production struct {
	ID         int
	Symbol     *NonTerminal
	Expression []GrammarEntity
	action     SemanticAction
	termcnt    int
}

// NewProduction creates a production. An empty expression denotes an
// epsilon-production.
func NewProduction(symbol *NonTerminal, expression ...GrammarEntity) *Production {
	p := &Production{
		ID:         -1,
		Symbol:     symbol,
		Expression: append([]GrammarEntity(nil), expression...),
	}
	for _, A := range p.Expression {
		if A != nil && A.IsTerminal() {
			p.termcnt++
		}
	}
	return p
}

// WithAction attaches a semantic action to p.
func (p *Production) WithAction(action SemanticAction) *Production {
	p.action = action
	return p
}

// HasAction is true if p carries a semantic action.
func (p *Production) HasAction() bool {
	return p.action != nil
}

// TerminalsCount returns the number of terminals in the right hand side of p,
// which is the size of the value window of p's semantic action.
func (p *Production) TerminalsCount() int {
	return p.termcnt
}

// IsEpsilon is true for productions with an empty right hand side.
func (p *Production) IsEpsilon() bool {
	return len(p.Expression) == 0
}

// Len returns the length of the right hand side.
func (p *Production) Len() int {
	return len(p.Expression)
}

// PerformSemanticAction calls the semantic action of p, if any.
func (p *Production) PerformSemanticAction(values *TerminalValues) {
	if p.action != nil {
		p.action(values)
	}
}

// Equals compares productions by value: same symbol and same expression.
func (p *Production) Equals(other *Production) bool {
	if other == nil || p.Symbol != other.Symbol || len(p.Expression) != len(other.Expression) {
		return false
	}
	for i, A := range p.Expression {
		if !sameEntity(A, other.Expression[i]) {
			return false
		}
	}
	return true
}

func (p *Production) String() string {
	var b strings.Builder
	b.WriteString(p.Symbol.Name())
	b.WriteString(" ")
	b.WriteString(Arrow)
	if p.IsEpsilon() {
		b.WriteString(" ")
		b.WriteString(EpsilonName)
	}
	for _, A := range p.Expression {
		b.WriteString(" ")
		b.WriteString(A.Name())
	}
	return b.String()
}

// --- Grammar ---------------------------------------------------------------

// Grammar is an ordered list of productions. Adding a production registers
// the symbols it mentions, in order of first appearance: the symbols of the
// right hand side first, then the left hand side. The end marker is always
// the first terminal.
//
// An augmented grammar additionally owns production 0, S' --> S, where S is
// the left hand side of the first production added. The start symbol S' is
// registered when the grammar is sealed.
type Grammar struct {
	Name         string
	productions  []*Production
	terminals    []*Terminal // terminals used in productions, end marker first
	nonterminals []*NonTerminal
	symbols      []GrammarEntity // all symbols, in order of registration
	augmented    bool
	start        *NonTerminal
	sealed       bool
}

// NewGrammar creates an empty grammar.
func NewGrammar(name string) *Grammar {
	g := &Grammar{Name: name}
	end := EndMarker()
	g.terminals = append(g.terminals, end)
	g.symbols = append(g.symbols, end)
	return g
}

// NewAugmentedGrammar creates an empty augmented grammar.
func NewAugmentedGrammar(name string) *Grammar {
	g := NewGrammar(name)
	g.augmented = true
	return g
}

// IsAugmented is true for augmented grammars.
func (g *Grammar) IsAugmented() bool {
	return g.augmented
}

// IsSealed is true after the grammar has been sealed.
func (g *Grammar) IsSealed() bool {
	return g.sealed
}

// Add appends a production to the grammar and assigns its ID.
func (g *Grammar) Add(p *Production) error {
	if g.sealed {
		return errors.Errorf("grammar %s is sealed, cannot add production %v", g.Name, p)
	}
	if p == nil || p.Symbol == nil {
		return errors.New("production without left hand side")
	}
	if p.ID >= 0 {
		return errors.Errorf("production %v has already been added to a grammar", p)
	}
	for _, A := range p.Expression {
		if A == nil {
			return errors.Errorf("production for %s contains nil symbol", p.Symbol)
		}
	}
	if err := g.checkOwner(p.Symbol); err != nil {
		return err
	}
	for _, A := range p.Expression {
		if N, ok := A.(*NonTerminal); ok {
			if err := g.checkOwner(N); err != nil {
				return err
			}
		}
	}
	if g.augmented && len(g.productions) == 0 {
		g.start = NewNonTerminal(p.Symbol.Name() + "'")
		start := NewProduction(g.start, p.Symbol)
		start.ID = 0
		g.productions = append(g.productions, start)
	}
	p.ID = len(g.productions)
	g.productions = append(g.productions, p)
	for _, A := range p.Expression {
		g.register(A)
	}
	g.register(p.Symbol)
	tracer().Debugf("(%d) %v", p.ID, p)
	return nil
}

func (g *Grammar) checkOwner(N *NonTerminal) error {
	if N.owner != nil && N.owner != g {
		return errors.Errorf("non-terminal %s belongs to grammar %s", N, N.owner.Name)
	}
	return nil
}

func (g *Grammar) register(A GrammarEntity) {
	switch S := A.(type) {
	case *Terminal:
		if g.Terminal(S.class) != nil {
			return
		}
		g.terminals = append(g.terminals, S)
	case *NonTerminal:
		if S.owner == g {
			return
		}
		S.owner = g
		S.id = len(g.nonterminals)
		g.nonterminals = append(g.nonterminals, S)
	}
	g.symbols = append(g.symbols, A)
}

// Seal completes a grammar. For augmented grammars the start symbol is
// registered. No productions may be added afterwards. Seal is idempotent.
func (g *Grammar) Seal() error {
	if g.sealed {
		return nil
	}
	if len(g.productions) == 0 {
		return errors.Errorf("grammar %s has no productions", g.Name)
	}
	for _, N := range g.nonterminals {
		if len(g.ProductionsFor(N)) == 0 {
			return errors.Errorf("non-terminal %s has no productions", N)
		}
	}
	if g.augmented { // S' never follows a dot, so it is not one of GrammarSymbols
		g.start.owner = g
		g.start.id = len(g.nonterminals)
		g.nonterminals = append(g.nonterminals, g.start)
	}
	g.sealed = true
	return nil
}

// Production returns production number i, or nil.
func (g *Grammar) Production(i int) *Production {
	if i < 0 || i >= len(g.productions) {
		return nil
	}
	return g.productions[i]
}

// Productions returns all productions in order.
func (g *Grammar) Productions() []*Production {
	return g.productions
}

// Size returns the number of productions.
func (g *Grammar) Size() int {
	return len(g.productions)
}

// InitialProduction returns production 0 of an augmented grammar.
func (g *Grammar) InitialProduction() *Production {
	if !g.augmented {
		return nil
	}
	return g.Production(0)
}

// Start returns the start symbol S' of an augmented grammar.
func (g *Grammar) Start() *NonTerminal {
	return g.start
}

// ProductionsFor returns the productions with left hand side N, in order.
func (g *Grammar) ProductionsFor(N *NonTerminal) []*Production {
	var r []*Production
	for _, p := range g.productions {
		if p.Symbol == N {
			r = append(r, p)
		}
	}
	return r
}

// UsedTerminals returns the terminals appearing in productions, in order of
// registration. The end marker is at index 0.
func (g *Grammar) UsedTerminals() []*Terminal {
	return g.terminals
}

// NonTerminals returns the non-terminals ordered by ID.
func (g *Grammar) NonTerminals() []*NonTerminal {
	return g.nonterminals
}

// GrammarSymbols returns all symbols in order of registration.
func (g *Grammar) GrammarSymbols() []GrammarEntity {
	return g.symbols
}

// Terminal finds a used terminal by token class.
func (g *Grammar) Terminal(class scopus.TokType) *Terminal {
	if i := g.terminalIndex(class); i >= 0 {
		return g.terminals[i]
	}
	return nil
}

// terminalIndex returns the registration index of a token class, or -1.
func (g *Grammar) terminalIndex(class scopus.TokType) int {
	for i, t := range g.terminals {
		if t.class == class {
			return i
		}
	}
	return -1
}

// NonTerminal finds a non-terminal by name.
func (g *Grammar) NonTerminal(name string) *NonTerminal {
	for _, N := range g.nonterminals {
		if N.name == name {
			return N
		}
	}
	return nil
}

func (g *Grammar) String() string {
	var b strings.Builder
	for _, p := range g.productions {
		fmt.Fprintf(&b, "(%d) %v\n", p.ID, p)
	}
	return b.String()
}

// Dump is a debugging helper.
func (g *Grammar) Dump() {
	tracer().Debugf("--- %s %s", g.Name, strings.Repeat("-", 40))
	for _, p := range g.productions {
		tracer().Debugf("(%d) %v", p.ID, p)
	}
	tracer().Debugf(strings.Repeat("-", 45))
}
