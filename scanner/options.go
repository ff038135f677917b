package scanner

import (
	"github.com/onirtuen/scopus/scanner/automata"
	"github.com/onirtuen/scopus/scanner/rx"
	"golang.org/x/text/encoding"
)

// DefaultBufferSize is the size of the lexer's input buffer, in bytes.
const DefaultBufferSize = 4096

// Option configures a tokenizer.
type Option func(t *Tokenizer)

// WithEncoding sets the character encoding used to translate pattern
// characters to input bytes. The default is ISO-8859-1.
func WithEncoding(enc encoding.Encoding) Option {
	return func(t *Tokenizer) {
		if enc != nil {
			t.enc = enc
		}
	}
}

// WithNotation sets the default pattern notation of a tokenizer.
func WithNotation(n rx.Notation) Option {
	return func(t *Tokenizer) {
		t.notation = n
	}
}

// PatternOption configures a single terminal pattern.
type PatternOption func(r *rule)

// WithGreediness sets the matching strategy for a pattern.
func WithGreediness(g automata.Greediness) PatternOption {
	return func(r *rule) {
		r.greediness = g
	}
}

// Named gives a pattern a name to be used in messages.
// The default name is the pattern text.
func Named(name string) PatternOption {
	return func(r *rule) {
		r.name = name
	}
}

// Literally treats the pattern text as a literal string,
// regardless of the tokenizer's notation.
func Literally() PatternOption {
	return func(r *rule) {
		r.notation = rx.LiteralNotation
		r.hasNotation = true
	}
}

// LexicalAction is called by the lexer for every match of a pattern, before
// the token is handed out. It may inspect the token and set its Val. For a
// terminal, a return value of false drops the token. Matches of ignored
// patterns are dropped regardless of the result.
type LexicalAction func(token *Token) bool

// WithLexicalAction attaches a lexical action to a pattern.
func WithLexicalAction(action LexicalAction) PatternOption {
	return func(r *rule) {
		r.action = action
	}
}

// LexerOption configures a lexer.
type LexerOption func(l *Lexer)

// WithBufferSize sets the initial size of the input buffer. The buffer will
// grow if a single token does not fit into it.
func WithBufferSize(n int) LexerOption {
	return func(l *Lexer) {
		if n > 0 {
			l.bufsize = n
		}
	}
}

// WithErrorHandler sets a function which is notified of lexical errors.
// The error is still returned to the caller.
func WithErrorHandler(h func(error)) LexerOption {
	return func(l *Lexer) {
		l.SetErrorHandler(h)
	}
}
