package slr

import (
	"fmt"
	"strings"

	"github.com/onirtuen/scopus"
)

// SyntaxError is returned for input the grammar does not derive.
type SyntaxError struct {
	States   []int        // state stack, bottom first
	Token    scopus.Token // offending token, nil at the end of the token stream
	Terminal string       // name of the offending token's terminal
	Expected []string     // terminals valid in the current state
	Reason   string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	b.WriteString("syntax error")
	if e.Token != nil {
		if e.Token.TokType() == scopus.EndMarker {
			fmt.Fprintf(&b, " at offset %d: unexpected end of input", e.Token.Span().From())
		} else {
			fmt.Fprintf(&b, " at offset %d: unexpected %s %q", e.Token.Span().From(),
				e.Terminal, e.Token.Lexeme())
		}
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if len(e.States) > 0 {
		fmt.Fprintf(&b, " (state %d)", e.States[len(e.States)-1])
	}
	if len(e.Expected) > 0 {
		fmt.Fprintf(&b, ", expected one of [%s]", strings.Join(e.Expected, " "))
	}
	return b.String()
}
