package lr

import "github.com/pingcap/errors"

// GrammarBuilder is a fluent interface to build augmented grammars. Create one
// with NewGrammarBuilder.
//
//	b := lr.NewGrammarBuilder("Expressions")
//	b.LHS("E").N("E").T(plus).N("T").Action(add).End()   // E --> E + T
//	b.LHS("E").N("T").End()                              // E --> T
//	g, err := b.Grammar()
//
// Non-terminals are referred to by name. Errors are collected and reported
// by Grammar().
type GrammarBuilder struct {
	g    *Grammar
	nts  map[string]*NonTerminal
	errs []error
}

// NewGrammarBuilder creates a builder for an augmented grammar.
func NewGrammarBuilder(name string) *GrammarBuilder {
	return &GrammarBuilder{
		g:   NewAugmentedGrammar(name),
		nts: make(map[string]*NonTerminal),
	}
}

// NonTerminal returns the non-terminal for a name, creating it if necessary.
func (gb *GrammarBuilder) NonTerminal(name string) *NonTerminal {
	if N, ok := gb.nts[name]; ok {
		return N
	}
	N := NewNonTerminal(name)
	gb.nts[name] = N
	return N
}

// LHS starts a new production with left hand side non-terminal name.
func (gb *GrammarBuilder) LHS(name string) *RuleBuilder {
	return &RuleBuilder{gb: gb, lhs: gb.NonTerminal(name)}
}

// Grammar seals and returns the grammar, or the first error encountered while
// building it.
func (gb *GrammarBuilder) Grammar() (*Grammar, error) {
	if len(gb.errs) > 0 {
		return nil, gb.errs[0]
	}
	if err := gb.g.Seal(); err != nil {
		return nil, err
	}
	return gb.g, nil
}

// RuleBuilder builds a single production. Call End() or Epsilon() to add it
// to the grammar.
type RuleBuilder struct {
	gb     *GrammarBuilder
	lhs    *NonTerminal
	rhs    []GrammarEntity
	action SemanticAction
}

// N appends a non-terminal to the right hand side.
func (rb *RuleBuilder) N(name string) *RuleBuilder {
	rb.rhs = append(rb.rhs, rb.gb.NonTerminal(name))
	return rb
}

// T appends a terminal to the right hand side.
func (rb *RuleBuilder) T(t *Terminal) *RuleBuilder {
	if t == nil {
		rb.gb.errs = append(rb.gb.errs, errors.Errorf("nil terminal in production for %s", rb.lhs))
		return rb
	}
	rb.rhs = append(rb.rhs, t)
	return rb
}

// Action sets the semantic action of the production.
func (rb *RuleBuilder) Action(action SemanticAction) *RuleBuilder {
	rb.action = action
	return rb
}

// End adds the production to the grammar.
func (rb *RuleBuilder) End() *Production {
	p := NewProduction(rb.lhs, rb.rhs...).WithAction(rb.action)
	if err := rb.gb.g.Add(p); err != nil {
		rb.gb.errs = append(rb.gb.errs, err)
	}
	return p
}

// Epsilon adds an epsilon-production to the grammar, ignoring symbols
// appended so far.
func (rb *RuleBuilder) Epsilon() *Production {
	rb.rhs = nil
	return rb.End()
}
