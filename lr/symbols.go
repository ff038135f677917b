package lr

import (
	"fmt"

	"github.com/onirtuen/scopus"
)

// GrammarEntity is a symbol of a grammar, either a *Terminal or a
// *NonTerminal.
type GrammarEntity interface {
	Name() string
	IsTerminal() bool
	String() string
}

// Terminal is a grammar symbol matched by a token class.
type Terminal struct {
	name  string
	class scopus.TokType
}

// NewTerminal creates a terminal for a token class.
func NewTerminal(name string, class scopus.TokType) *Terminal {
	return &Terminal{name: name, class: class}
}

// EndMarker returns a terminal for the end of input.
func EndMarker() *Terminal {
	return NewTerminal(scopus.EndMarkerName, scopus.EndMarker)
}

// Name is part of interface GrammarEntity.
func (t *Terminal) Name() string { return t.name }

// IsTerminal is part of interface GrammarEntity.
func (t *Terminal) IsTerminal() bool { return true }

// TokenClass returns the token class of the terminal.
func (t *Terminal) TokenClass() scopus.TokType { return t.class }

func (t *Terminal) String() string { return t.name }

// NonTerminal is a grammar symbol derived by productions. Its ID is assigned
// by the grammar the non-terminal first appears in.
type NonTerminal struct {
	name  string
	id    int
	owner *Grammar
}

// NewNonTerminal creates a non-terminal which is not yet part of a grammar.
func NewNonTerminal(name string) *NonTerminal {
	return &NonTerminal{name: name, id: -1}
}

// Name is part of interface GrammarEntity.
func (n *NonTerminal) Name() string { return n.name }

// IsTerminal is part of interface GrammarEntity.
func (n *NonTerminal) IsTerminal() bool { return false }

// ID returns the ID of the non-terminal, or -1 if it is not yet part of a
// grammar.
func (n *NonTerminal) ID() int { return n.id }

func (n *NonTerminal) String() string { return n.name }

// sameEntity compares grammar symbols: terminals by token class, non-terminals
// by identity.
func sameEntity(a, b GrammarEntity) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, aterm := a.(*Terminal)
	tb, bterm := b.(*Terminal)
	if aterm && bterm {
		return ta.class == tb.class
	}
	if aterm || bterm {
		return false
	}
	return a.(*NonTerminal) == b.(*NonTerminal)
}

func entityString(A GrammarEntity) string {
	if A == nil {
		return "<nil>"
	}
	if t, ok := A.(*Terminal); ok {
		return fmt.Sprintf("%s/%d", t.name, t.class)
	}
	return A.Name()
}
