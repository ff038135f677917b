package scanner

import (
	"fmt"

	"github.com/onirtuen/scopus"
)

// TokenStream is the token-stream contract the parser relies on. A stream
// delivers tokens in input order and terminates with a token of type
// scopus.EndMarker. After the end marker, NextToken returns io.EOF.
type TokenStream interface {
	NextToken() (scopus.Token, error)
}

// Token is the token type produced by the scanner. The lexeme is a private
// copy of the input bytes, not a view into the scanner's buffer.
type Token struct {
	class  scopus.TokType
	lexeme []byte
	offset uint64
	Val    interface{} // free for use by clients
}

var _ scopus.Token = Token{}

// MakeToken creates a token. The lexeme is copied.
func MakeToken(class scopus.TokType, lexeme []byte, offset uint64) Token {
	return Token{
		class:  class,
		lexeme: append([]byte(nil), lexeme...),
		offset: offset,
	}
}

// EndMarkerToken creates the end-of-input token at an input position.
func EndMarkerToken(offset uint64) Token {
	return Token{class: scopus.EndMarker, offset: offset}
}

// TokType is part of interface scopus.Token.
func (t Token) TokType() scopus.TokType {
	return t.class
}

// Lexeme returns the raw input bytes of the token as a string.
func (t Token) Lexeme() string {
	return string(t.lexeme)
}

// Bytes returns the raw input bytes of the token.
func (t Token) Bytes() []byte {
	return t.lexeme
}

// Value is part of interface scopus.Token.
func (t Token) Value() interface{} {
	return t.Val
}

// Span is part of interface scopus.Token.
func (t Token) Span() scopus.Span {
	return scopus.Span{t.offset, t.offset + uint64(len(t.lexeme))}
}

// Offset returns the byte offset of the token within the input stream.
func (t Token) Offset() uint64 {
	return t.offset
}

// Len returns the length of the token in bytes.
func (t Token) Len() int {
	return len(t.lexeme)
}

// IsEndMarker is true for the end-of-input token.
func (t Token) IsEndMarker() bool {
	return t.class == scopus.EndMarker
}

// Clone returns a deep copy of t.
func (t Token) Clone() Token {
	t.lexeme = append([]byte(nil), t.lexeme...)
	return t
}

func (t Token) String() string {
	if t.IsEndMarker() {
		return scopus.EndMarkerName
	}
	return fmt.Sprintf("%d:%q", t.class, t.lexeme)
}

// Lexeme is a helper function to receive a string from a token.
func Lexeme(token interface{}) string {
	switch t := token.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case scopus.Token:
		return t.Lexeme()
	default:
		return fmt.Sprintf("%v", t)
	}
}
