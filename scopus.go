package scopus

import "fmt"

// --- A general purpose interface for tokens --------------------------------

// TokType is a category type for a Token. Token types are assigned by the
// tokenizer in order of registration, starting at 1.
type TokType int

// EndMarker is the token type of the synthetic token terminating every token
// stream. It is implicit in every grammar.
const EndMarker TokType = 0

// EndMarkerName is the printable name of the end marker terminal.
const EndMarkerName = "$"

// Tokens represent input tokens. They are usually produced by a scanner and
// reflect terminals in a language.
//
// An example would be a token for a number:
//
//	TokType = 1           // token class, as registered with the tokenizer
//	Lexeme  = "3141"      // lexeme how it appeared in the input stream
//	Value   = nil         // free for use by semantic actions
//	Span    = 67…71       // occured from byte position 67 in the input stream
type Token interface {
	TokType() TokType
	Lexeme() string
	Value() interface{}
	Span() Span
}

// TokTypeStringer is a type to be provided by a scanner/parser combination to be able
// to print out token categories.
type TokTypeStringer func(TokType) string

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a length of input token run.
// A span denotes a start position and the position just behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

// IsNull is true for the zero span.
func (s Span) IsNull() bool {
	return s == Span{}
}

// Extend returns the smallest span covering s and other.
func (s Span) Extend(other Span) Span {
	if s.IsNull() {
		return other
	}
	if other.IsNull() {
		return s
	}
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
