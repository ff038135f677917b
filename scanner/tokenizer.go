package scanner

import (
	"fmt"

	"github.com/onirtuen/scopus"
	"github.com/onirtuen/scopus/scanner/automata"
	"github.com/onirtuen/scopus/scanner/rx"
	"github.com/pingcap/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Tokenizer holds the terminal patterns of a language and their compiled
// transition table. Create one with NewTokenizer, register patterns, and
// call Compile before scanning.
type Tokenizer struct {
	enc      encoding.Encoding
	notation rx.Notation
	start    *automata.State // global start state, with ε-edges to every pattern
	rules    []*rule         // rules[i] has token class i+1
	table    *automata.TransitionTable
}

type rule struct {
	class       scopus.TokType
	name        string
	pattern     string
	re          rx.RegExp
	ignored     bool
	greediness  automata.Greediness
	notation    rx.Notation
	hasNotation bool
	action      LexicalAction
}

// NewTokenizer creates an empty tokenizer. Patterns are interpreted in POSIX
// notation and encoded as ISO-8859-1 unless configured otherwise.
func NewTokenizer(opts ...Option) *Tokenizer {
	t := &Tokenizer{
		enc:      charmap.ISO8859_1,
		notation: rx.POSIXNotation,
		start:    automata.NewState("start"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Encoding returns the character encoding of the tokenizer.
func (t *Tokenizer) Encoding() encoding.Encoding {
	return t.enc
}

// SetEncoding changes the character encoding. It must be called before any
// pattern is registered.
func (t *Tokenizer) SetEncoding(enc encoding.Encoding) error {
	if len(t.rules) > 0 {
		return errors.New("cannot change encoding after patterns have been registered")
	}
	if enc == nil {
		return errors.New("encoding is nil")
	}
	t.enc = enc
	return nil
}

// RegisterTerminal adds a terminal pattern and returns its token class.
// Token classes are handed out in registration order; if two patterns match
// the same input, the earlier one wins.
func (t *Tokenizer) RegisterTerminal(pattern string, opts ...PatternOption) (scopus.TokType, error) {
	r, err := t.parse(pattern, opts)
	if err != nil {
		return 0, err
	}
	return t.register(r)
}

// RegisterIgnored adds a pattern for input to be skipped, e.g., whitespace.
// Ignored patterns take part in class priority like terminals, but their
// matches are never handed out as tokens.
func (t *Tokenizer) RegisterIgnored(pattern string, opts ...PatternOption) error {
	r, err := t.parse(pattern, opts)
	if err != nil {
		return err
	}
	r.ignored = true
	_, err = t.register(r)
	return err
}

// RegisterRegExp adds a terminal given as a regular expression tree.
func (t *Tokenizer) RegisterRegExp(re rx.RegExp, opts ...PatternOption) (scopus.TokType, error) {
	if re == nil {
		return 0, errors.New("regular expression is nil")
	}
	r := &rule{re: re, pattern: re.String()}
	for _, opt := range opts {
		opt(r)
	}
	return t.register(r)
}

func (t *Tokenizer) parse(pattern string, opts []PatternOption) (*rule, error) {
	r := &rule{pattern: pattern}
	for _, opt := range opts {
		opt(r)
	}
	notation := t.notation
	if r.hasNotation {
		notation = r.notation
	}
	re, err := rx.Parse(pattern, notation)
	if err != nil {
		return nil, err
	}
	r.re = re
	return r, nil
}

func (t *Tokenizer) register(r *rule) (scopus.TokType, error) {
	nfa, err := r.re.AsNFA(t.enc)
	if err != nil {
		return 0, errors.Annotatef(err, "cannot register pattern %q", r.pattern)
	}
	r.class = scopus.TokType(len(t.rules) + 1)
	if r.name == "" {
		r.name = r.pattern
	}
	nfa.Terminator.Accept(int(r.class), r.greediness)
	t.start.AddTransitionTo(nfa.Start, automata.Epsilon)
	t.rules = append(t.rules, r)
	t.table = nil
	tracer().Debugf("registered pattern %q as token class %d", r.pattern, r.class)
	return r.class, nil
}

// Compile builds the transition table for all patterns registered so far.
// Patterns matching the empty word are rejected.
func (t *Tokenizer) Compile() error {
	if len(t.rules) == 0 {
		return errors.New("tokenizer has no patterns")
	}
	table, err := automata.Determinize(t.start)
	if err != nil {
		return err
	}
	if c, ok := table.Accepting(table.Start()); ok {
		return errors.Errorf("pattern %q matches the empty input", t.ClassName(scopus.TokType(c)))
	}
	t.table = table
	tracer().Infof("tokenizer compiled %d patterns into %d states", len(t.rules), table.StateCount())
	return nil
}

// IsCompiled is true if the transition table reflects all registered patterns.
func (t *Tokenizer) IsCompiled() bool {
	return t.table != nil
}

// Table returns the compiled transition table, or nil.
func (t *Tokenizer) Table() *automata.TransitionTable {
	return t.table
}

// TokenClassCount returns the number of token classes, including the end
// marker.
func (t *Tokenizer) TokenClassCount() int {
	return len(t.rules) + 1
}

// IsTerminalClass is true for the end marker and for every class registered
// with RegisterTerminal.
func (t *Tokenizer) IsTerminalClass(c scopus.TokType) bool {
	if c == scopus.EndMarker {
		return true
	}
	r := t.rule(c)
	return r != nil && !r.ignored
}

// IsIgnored is true for classes registered with RegisterIgnored.
func (t *Tokenizer) IsIgnored(c scopus.TokType) bool {
	r := t.rule(c)
	return r != nil && r.ignored
}

// Action returns the lexical action of a token class, or nil.
func (t *Tokenizer) Action(c scopus.TokType) LexicalAction {
	if r := t.rule(c); r != nil {
		return r.action
	}
	return nil
}

// ClassName returns the name of a token class.
func (t *Tokenizer) ClassName(c scopus.TokType) string {
	if c == scopus.EndMarker {
		return scopus.EndMarkerName
	}
	if r := t.rule(c); r != nil {
		return r.name
	}
	return fmt.Sprintf("<%d>", c)
}

func (t *Tokenizer) rule(c scopus.TokType) *rule {
	if c < 1 || int(c) > len(t.rules) {
		return nil
	}
	return t.rules[c-1]
}

// Match is the result of a successful scan step. Start and End are indices
// into the scanned buffer.
type Match struct {
	Class      scopus.TokType
	Start, End int
}

// Len returns the length of the match in bytes.
func (m Match) Len() int {
	return m.End - m.Start
}

// Scan recognizes the token starting at buf[start]. It follows the longest
// match, backtracking to the last accepting position, unless the accepting
// class has FirstMatch greediness, in which case it stops immediately.
//
// If the automaton still runs when the end of buf is reached and atEOF is
// false, Scan reports more=true: the caller has to supply more input before
// the token can be decided. If no pattern matches at start, Scan returns a
// *LexicalError with an offset relative to buf.
func (t *Tokenizer) Scan(buf []byte, start int, atEOF bool) (m Match, more bool, err error) {
	if t.table == nil {
		return m, false, errors.New("tokenizer is not compiled")
	}
	if start >= len(buf) {
		return m, !atEOF, nil
	}
	tt := t.table
	state := tt.Start()
	lastClass, lastEnd := -1, -1
	for i := start; ; i++ {
		if c, ok := tt.Accepting(state); ok {
			lastClass, lastEnd = c, i
			if tt.Greediness(state) == automata.FirstMatch {
				break
			}
		}
		if i == len(buf) {
			if !atEOF {
				return m, true, nil
			}
			break
		}
		next := tt.Next(state, buf[i])
		if next == automata.NoState {
			break
		}
		state = next
	}
	if lastEnd < 0 {
		return m, false, &LexicalError{Offset: uint64(start), Byte: buf[start]}
	}
	m = Match{Class: scopus.TokType(lastClass), Start: start, End: lastEnd}
	return m, false, nil
}
