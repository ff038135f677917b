/*
Package lr implements prerequisites for LR parsing: a grammar model,
grammar analysis (FIRST and FOLLOW sets) and the construction of SLR(1)
parser tables. The parser itself lives in sub-package slr.

# Building a Grammar

Grammars are specified using a grammar builder object. Clients add
productions, consisting of non-terminal symbols and terminals. Terminals
carry the token class a tokenizer hands out for them, with class 0
reserved for the end marker $. Grammars may contain epsilon-productions.

Example:

	b := lr.NewGrammarBuilder("G")
	b.LHS("S").N("A").T(a).End()       // S  ->  A a
	b.LHS("A").N("B").N("D").End()     // A  ->  B D
	b.LHS("B").T(b).End()              // B  ->  b
	b.LHS("B").Epsilon()               // B  ->
	b.LHS("D").T(d).End()              // D  ->  d
	b.LHS("D").Epsilon()               // D  ->
	g, err := b.Grammar()

The builder creates an augmented grammar: production 0 is the synthetic
start production S' --> S, where S is the left hand side of the first
production added. Printing the grammar above results in

	(0) S' --> S
	(1) S --> A a
	(2) A --> B D
	(3) B --> b
	(4) B --> ε
	(5) D --> d
	(6) D --> ε

Non-terminals receive dense IDs in order of first appearance; the start
symbol S' is registered last, when the grammar is sealed.

# Parser Construction

A TableGenerator enumerates the canonical LR(0) item sets of a grammar,
breadth first, and derives a GOTO table and an SLR(1) ACTION table, using
the FOLLOW sets of the grammar's non-terminals as lookahead.

	lrgen := lr.NewTableGenerator(g, lr.WithVocabulary(tokenizer))
	if err := lrgen.CreateTables(); err != nil { … }
	if lrgen.HasConflicts { … }   // grammar is not SLR(1)

Conflicts are resolved deterministically: shift wins over reduce, and the
lower production wins a reduce/reduce conflict. Clients who would rather
reject such grammars use option StrictConflicts.

The item set automaton can be exported to GraphViz's Dot-format, the
tables to HTML. This is intended for debugging purposes.

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'scopus.lr'.
func tracer() tracing.Trace {
	return tracing.Select("scopus.lr")
}
