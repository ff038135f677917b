package scanner

import "fmt"

// LexicalError is returned if no pattern matches at an input position.
type LexicalError struct {
	Offset uint64 // position in the input stream
	Byte   byte   // input byte at Offset
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("lexical error at offset %d: no token matches input byte %q", e.Offset, e.Byte)
}

// Default error reporting function for lexers.
func logError(e error) {
	tracer().Errorf("scanner error: %s", e.Error())
}
