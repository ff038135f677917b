package lr

import (
	"github.com/onirtuen/scopus"
	"golang.org/x/exp/slices"
)

// TerminalValues is the value stack of a parse. The parser pushes every
// shifted token; on a reduce it opens a window over the topmost tokens,
// exactly as many as the production has terminals, and hands it to the
// production's semantic action. Tokens of nested productions have already
// been dropped at that point, therefore the window holds precisely the
// tokens matched by the production itself, in left-to-right order.
type TerminalValues struct {
	tokens []scopus.Token
	window int
}

// NewTerminalValues creates an empty value stack.
func NewTerminalValues() *TerminalValues {
	return &TerminalValues{tokens: make([]scopus.Token, 0, 64)}
}

// PushToken pushes a shifted token.
func (tv *TerminalValues) PushToken(t scopus.Token) {
	tv.tokens = append(tv.tokens, t)
}

// SetWindow opens a window over the n topmost tokens.
func (tv *TerminalValues) SetWindow(n int) {
	if n > len(tv.tokens) {
		n = len(tv.tokens)
	}
	tv.window = n
}

// DropWindow removes the tokens of the current window from the stack.
func (tv *TerminalValues) DropWindow() {
	tv.tokens = tv.tokens[:len(tv.tokens)-tv.window]
	tv.window = 0
}

// Reset clears the stack.
func (tv *TerminalValues) Reset() {
	tv.tokens = tv.tokens[:0]
	tv.window = 0
}

// Size returns the number of tokens on the stack.
func (tv *TerminalValues) Size() int {
	return len(tv.tokens)
}

// Len returns the size of the current window.
func (tv *TerminalValues) Len() int {
	return tv.window
}

// Token returns token i of the current window, counting from the left.
func (tv *TerminalValues) Token(i int) scopus.Token {
	if i < 0 || i >= tv.window {
		return nil
	}
	return tv.tokens[len(tv.tokens)-tv.window+i]
}

// Lexeme returns the lexeme of token i of the current window.
func (tv *TerminalValues) Lexeme(i int) string {
	if t := tv.Token(i); t != nil {
		return t.Lexeme()
	}
	return ""
}

// Tokens returns a copy of the current window.
func (tv *TerminalValues) Tokens() []scopus.Token {
	return slices.Clone(tv.tokens[len(tv.tokens)-tv.window:])
}
