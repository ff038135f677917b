/*
Package scanner implements a table-driven lexical analyzer.

Clients register terminal patterns with a Tokenizer, each one receiving a
token class, and compile them into a single deterministic automaton. A Lexer
then applies the tokenizer to an input stream, reading it in bounded chunks,
and hands out tokens one by one. Matching follows the longest-match rule;
patterns registered with FirstMatch greediness accept as soon as they match.
Ties between patterns are resolved in favour of the earlier registration.

A pattern may carry a lexical action, which sees every match of the pattern
before the lexer hands it out and may drop the token or attach a value:

	tz.RegisterTerminal("[a-z]+", scanner.WithLexicalAction(func(t *scanner.Token) bool {
		return !isReserved(t.Lexeme())
	}))

Token class 0 is reserved for the end marker. Classes handed out by a
tokenizer start at 1.

Patterns are parsed by sub-package rx and compiled by sub-package automata.
Sub-package lexmach offers an alternative token stream backed by lexmachine.

A Tokenizer is read-only after compilation and may be shared between
goroutines, as long as its lexical actions are. A Lexer is not safe for
concurrent use.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package scanner

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'scopus.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("scopus.scanner")
}
