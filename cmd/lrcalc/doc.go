/*
Command lrcalc is an interactive calculator (a REPL) built with the scopus
toolbox. Its grammar is compiled to SLR(1) tables at start-up, statements
are tokenized by the native scanner and evaluated by semantic actions of
the parser.

	lrcalc [--config lrcalc.toml] [--trace Info] [--init file] [--export dir] [statement]

Input lines are either statements

	x = (1 + 2) * 3
	x / 4

or commands, starting with a colon:

	:vars          list visible variables
	:push [name]   open a new variable scope
	:pop           drop the innermost variable scope
	:grammar       print the grammar
	:export dir    write parser tables (HTML) and the item set graph (dot)
	:quit          leave the REPL

Configuration is read from a TOML file:

	trace  = "Error"
	prompt = "calc> "
	format = "%g"

	[constants]
	pi = 3.141592653589793
	e  = 2.718281828459045

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'scopus.calc'.
func tracer() tracing.Trace {
	return tracing.Select("scopus.calc")
}
