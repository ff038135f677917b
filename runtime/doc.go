/*
Package runtime provides symbol tables for interpreters built with the
scopus toolbox.

Variables of an interpreted program are called tags, to keep them apart from
the symbols of a grammar. Tags are stored in symbol tables, which are attached
to scopes. Scopes are organized in a tree and searched upwards on lookup.

	env := runtime.NewEnvironment("calc")
	env.Assign("x", 3.0)
	tag, err := env.Lookup("x")

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package runtime

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'scopus.runtime'.
func tracer() tracing.Trace {
	return tracing.Select("scopus.runtime")
}
