/*
Package rx implements regular expressions for the scanner.

A regular expression is an immutable syntax tree. Every node compiles itself
into a self-contained NFA fragment with one start state and one terminator,
by structural recursion over its sub-expressions. Characters are expanded to
byte sequences by a text encoding, which has to match the encoding of the
input to be scanned.

Patterns are usually given as strings in POSIX-like notation:

	re, err := rx.Parse(`[a-zA-Z_][a-zA-Z0-9_]*`, rx.POSIXNotation)

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package rx

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/schuko/tracing"
	"github.com/onirtuen/scopus/scanner/automata"
	"github.com/pingcap/errors"
	"golang.org/x/exp/slices"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// tracer traces with key 'scopus.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("scopus.scanner")
}

// RegExp is a node of a regular expression syntax tree.
type RegExp interface {
	// AsNFA builds a fresh NFA fragment for the expression. Acceptance is not
	// set; it is up to the tokenizer to mark the terminator.
	AsNFA(enc encoding.Encoding) (*automata.FiniteAutomata, error)
	// Equals compares expressions structurally.
	Equals(other RegExp) bool
	String() string
}

// --- Literal ---------------------------------------------------------------

// Literal matches a fixed string. The empty literal matches the empty word.
type Literal struct {
	Text string
}

// AsNFA creates one edge per byte of the encoded text.
func (l Literal) AsNFA(enc encoding.Encoding) (*automata.FiniteAutomata, error) {
	if l.Text == "" {
		return automata.Empty(), nil
	}
	bytes, err := encode(enc, l.Text)
	if err != nil {
		return nil, err
	}
	fa := automata.New("lit")
	state := fa.Start
	for _, b := range bytes[:len(bytes)-1] {
		next := automata.NewState(fmt.Sprintf("lit:%d", b))
		state.AddTransitionTo(next, automata.Byte(b))
		state = next
	}
	state.AddTransitionTo(fa.Terminator, automata.Byte(bytes[len(bytes)-1]))
	return fa, nil
}

// Equals is part of interface RegExp.
func (l Literal) Equals(other RegExp) bool {
	o, ok := other.(Literal)
	return ok && o.Text == l.Text
}

func (l Literal) String() string {
	var b strings.Builder
	for _, r := range l.Text {
		if strings.ContainsRune(metachars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// --- Range -----------------------------------------------------------------

// Range matches a single character between Lo and Hi, inclusive.
type Range struct {
	Lo, Hi rune
}

// AsNFA builds one path per character. All paths share the start state and
// common byte prefixes; the last byte of every character leads into the
// common terminator.
func (r Range) AsNFA(enc encoding.Encoding) (*automata.FiniteAutomata, error) {
	if r.Lo > r.Hi {
		return nil, errors.Errorf("invalid range %s: lower bound exceeds upper bound", r)
	}
	fa := automata.New("range")
	paths := newPaths(fa)
	if enc == unicode.UTF8 {
		paths.addUTF8(r.Lo, r.Hi)
		return fa, nil
	}
	encoder := enc.NewEncoder()
	for c := r.Lo; c <= r.Hi; c++ {
		if !utf8.ValidRune(c) {
			continue
		}
		bytes, err := encoder.Bytes([]byte(string(c)))
		if err != nil {
			return nil, errors.Annotatef(err, "character %q of range %s not encodable", c, r)
		}
		paths.add(bytes)
	}
	return fa, nil
}

// Equals is part of interface RegExp.
func (r Range) Equals(other RegExp) bool {
	o, ok := other.(Range)
	return ok && o == r
}

func (r Range) String() string {
	return fmt.Sprintf("[%s-%s]", escapeClassRune(r.Lo), escapeClassRune(r.Hi))
}

// --- Complement ------------------------------------------------------------

// Complement matches a single character of the input encoding which is not
// covered by any of the Excluded ranges. Characters the encoding cannot
// represent are not part of the domain, thus '.' matches every character of
// a single-byte charset except newline, and every Unicode character except
// newline for UTF-8.
type Complement struct {
	Excluded []Range
}

// AsNFA is part of interface RegExp.
func (c Complement) AsNFA(enc encoding.Encoding) (*automata.FiniteAutomata, error) {
	fa := automata.New("complement")
	excluded := normalize(c.Excluded)
	if cm, ok := enc.(*charmap.Charmap); ok {
		for b := 0; b < 256; b++ {
			r := cm.DecodeByte(byte(b))
			if r == utf8.RuneError || covers(excluded, r) {
				continue
			}
			fa.Start.AddTransitionTo(fa.Terminator, automata.Byte(byte(b)))
		}
		return fa, nil
	}
	paths := newPaths(fa)
	if enc == unicode.UTF8 {
		for _, rg := range complement(excluded) {
			paths.addUTF8(rg.Lo, rg.Hi)
		}
		return fa, nil
	}
	encoder := enc.NewEncoder()
	for _, rg := range complement(excluded) {
		for r := rg.Lo; r <= rg.Hi; r++ {
			if !utf8.ValidRune(r) {
				continue
			}
			bytes, err := encoder.Bytes([]byte(string(r)))
			if err != nil { // not in the repertoire of enc
				continue
			}
			paths.add(bytes)
		}
	}
	return fa, nil
}

// Equals is part of interface RegExp.
func (c Complement) Equals(other RegExp) bool {
	o, ok := other.(Complement)
	return ok && slices.Equal(normalize(c.Excluded), normalize(o.Excluded))
}

func (c Complement) String() string {
	var b strings.Builder
	b.WriteString("[^")
	for _, rg := range normalize(c.Excluded) {
		b.WriteString(escapeClassRune(rg.Lo))
		if rg.Hi != rg.Lo {
			b.WriteByte('-')
			b.WriteString(escapeClassRune(rg.Hi))
		}
	}
	b.WriteByte(']')
	return b.String()
}

func covers(ranges []Range, r rune) bool {
	for _, rg := range ranges {
		if rg.Lo <= r && r <= rg.Hi {
			return true
		}
	}
	return false
}

// --- Concatenation ---------------------------------------------------------

// Concatenation matches Left followed by Right.
type Concatenation struct {
	Left, Right RegExp
}

// AsNFA is part of interface RegExp.
func (c Concatenation) AsNFA(enc encoding.Encoding) (*automata.FiniteAutomata, error) {
	a, err := c.Left.AsNFA(enc)
	if err != nil {
		return nil, err
	}
	b, err := c.Right.AsNFA(enc)
	if err != nil {
		return nil, err
	}
	return automata.Concat(a, b), nil
}

// Equals is part of interface RegExp.
func (c Concatenation) Equals(other RegExp) bool {
	o, ok := other.(Concatenation)
	return ok && c.Left.Equals(o.Left) && c.Right.Equals(o.Right)
}

func (c Concatenation) String() string {
	return c.Left.String() + c.Right.String()
}

// --- Alternation -----------------------------------------------------------

// Alternation matches either Left or Right.
type Alternation struct {
	Left, Right RegExp
}

// AsNFA is part of interface RegExp.
func (a Alternation) AsNFA(enc encoding.Encoding) (*automata.FiniteAutomata, error) {
	l, err := a.Left.AsNFA(enc)
	if err != nil {
		return nil, err
	}
	r, err := a.Right.AsNFA(enc)
	if err != nil {
		return nil, err
	}
	return automata.Alternate(l, r), nil
}

// Equals is part of interface RegExp.
func (a Alternation) Equals(other RegExp) bool {
	o, ok := other.(Alternation)
	return ok && a.Left.Equals(o.Left) && a.Right.Equals(o.Right)
}

func (a Alternation) String() string {
	return "(" + a.Left.String() + "|" + a.Right.String() + ")"
}

// --- Repetitions -----------------------------------------------------------

// Repetition matches zero or more repetitions of Inner (Kleene star).
type Repetition struct {
	Inner RegExp
}

// AsNFA is part of interface RegExp.
func (r Repetition) AsNFA(enc encoding.Encoding) (*automata.FiniteAutomata, error) {
	inner, err := r.Inner.AsNFA(enc)
	if err != nil {
		return nil, err
	}
	return automata.Repeat(inner), nil
}

// Equals is part of interface RegExp.
func (r Repetition) Equals(other RegExp) bool {
	o, ok := other.(Repetition)
	return ok && r.Inner.Equals(o.Inner)
}

func (r Repetition) String() string {
	return group(r.Inner) + "*"
}

// Optional matches Inner or the empty word.
type Optional struct {
	Inner RegExp
}

// AsNFA builds the alternation of Inner with the empty word.
func (o Optional) AsNFA(enc encoding.Encoding) (*automata.FiniteAutomata, error) {
	return Alternation{Left: o.Inner, Right: Literal{}}.AsNFA(enc)
}

// Equals is part of interface RegExp.
func (o Optional) Equals(other RegExp) bool {
	x, ok := other.(Optional)
	return ok && o.Inner.Equals(x.Inner)
}

func (o Optional) String() string {
	return group(o.Inner) + "?"
}

// PositiveRepetition matches one or more repetitions of Inner.
type PositiveRepetition struct {
	Inner RegExp
}

// AsNFA builds the concatenation of one copy of Inner and a Kleene star of a
// second copy.
func (p PositiveRepetition) AsNFA(enc encoding.Encoding) (*automata.FiniteAutomata, error) {
	return Concatenation{Left: p.Inner, Right: Repetition{Inner: p.Inner}}.AsNFA(enc)
}

// Equals is part of interface RegExp.
func (p PositiveRepetition) Equals(other RegExp) bool {
	o, ok := other.(PositiveRepetition)
	return ok && p.Inner.Equals(o.Inner)
}

func (p PositiveRepetition) String() string {
	return group(p.Inner) + "+"
}

// --- Helpers ---------------------------------------------------------------

const metachars = `\.[]()|*+?^-`

func group(re RegExp) string {
	s := re.String()
	switch x := re.(type) {
	case Range, Complement, Alternation:
		return s
	case Literal:
		if utf8.RuneCountInString(x.Text) == 1 {
			return s
		}
	}
	return "(" + s + ")"
}

func escapeClassRune(r rune) string {
	switch {
	case r == '\n':
		return `\n`
	case r == '\t':
		return `\t`
	case r == '\r':
		return `\r`
	case r < 0x20 || r == 0x7f:
		return fmt.Sprintf(`\x%02x`, r)
	case strings.ContainsRune(metachars, r):
		return `\` + string(r)
	}
	return string(r)
}

func encode(enc encoding.Encoding, s string) ([]byte, error) {
	b, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, errors.Annotatef(err, "literal %q not encodable", s)
	}
	return b, nil
}
