/*
Package automata implements finite automata over bytes.

Regular expressions are compiled into non-deterministic automata (NFA) by
Thompson's construction: every fragment has a single start state and a single
terminator, and fragments are spliced together with epsilon edges. The
combination of all token patterns is then determinized by subset construction
into a TransitionTable, a dense table of 256 columns per DFA state.

	nfa := automata.Concat(a, automata.Repeat(b))
	nfa.Terminator.Accept(1, automata.LongestMatch)
	table, err := automata.Determinize(nfa.Start)

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package automata

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'scopus.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("scopus.scanner")
}
