package scanner

import (
	"io"

	"github.com/onirtuen/scopus"
	"github.com/pingcap/errors"
	"golang.org/x/text/encoding"
)

// Chunk lists the tokens recognized by a single call to Lexer.ReadTokens.
// Indices are offsets into the lexer's buffer at the time of the call.
type Chunk struct {
	Classes []scopus.TokType
	Indices []int
	Lengths []int
}

// Len returns the number of tokens in the chunk.
func (c Chunk) Len() int {
	return len(c.Classes)
}

func (c *Chunk) reset() {
	c.Classes = c.Classes[:0]
	c.Indices = c.Indices[:0]
	c.Lengths = c.Lengths[:0]
}

func (c *Chunk) add(m Match) {
	c.Classes = append(c.Classes, m.Class)
	c.Indices = append(c.Indices, m.Start)
	c.Lengths = append(c.Lengths, m.Len())
}

// Lexer applies a compiled tokenizer to an input stream. It reads the input
// into a bounded buffer, recognizes all complete tokens in it, and carries
// an unfinished tail over to the next read. A Lexer implements TokenStream.
type Lexer struct {
	tokenizer *Tokenizer
	source    io.Reader
	bufsize   int
	buf       []byte
	filled    int    // number of valid bytes in buf
	pos       int    // scan position in buf
	base      uint64 // stream offset of buf[0]
	eof       bool   // source is exhausted
	done      bool   // all input has been scanned
	endSent   bool   // end marker has been handed out
	lastStart int
	chunk     Chunk
	pending   []Token
	errorfn   func(error)
}

var _ TokenStream = (*Lexer)(nil)

// NewLexer creates a lexer for a tokenizer. If the tokenizer has not been
// compiled yet, it will be compiled on the first read.
func NewLexer(t *Tokenizer, opts ...LexerOption) *Lexer {
	l := &Lexer{
		tokenizer: t,
		bufsize:   DefaultBufferSize,
		errorfn:   logError,
		lastStart: -1,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SetErrorHandler sets a function which is notified of lexical errors.
func (l *Lexer) SetErrorHandler(h func(error)) {
	if h == nil {
		l.errorfn = logError
		return
	}
	l.errorfn = h
}

// SetSource sets the input stream and resets the lexer, which may therefore
// be re-used for more than one input.
func (l *Lexer) SetSource(r io.Reader) {
	l.source = r
	l.Reset()
}

// Reset clears the scanning state, but keeps the source and the buffer.
func (l *Lexer) Reset() {
	l.filled, l.pos, l.base = 0, 0, 0
	l.eof, l.done, l.endSent = false, false, false
	l.lastStart = -1
	l.chunk.reset()
	l.pending = l.pending[:0]
}

// SetEncoding changes the encoding of the underlying tokenizer.
// See Tokenizer.SetEncoding.
func (l *Lexer) SetEncoding(enc encoding.Encoding) error {
	return l.tokenizer.SetEncoding(enc)
}

// Buffer returns the valid part of the input buffer.
func (l *Lexer) Buffer() []byte {
	return l.buf[:l.filled]
}

// LastTokenStartIndex returns the buffer index where the most recently
// recognized token starts, or -1.
func (l *Lexer) LastTokenStartIndex() int {
	return l.lastStart
}

// TokensNumber returns the number of token classes, including the end marker.
func (l *Lexer) TokensNumber() int {
	return l.tokenizer.TokenClassCount()
}

// Chunk returns the tokens recognized by the last call to ReadTokens.
// Ignored input is not part of a chunk.
func (l *Lexer) Chunk() Chunk {
	return l.chunk
}

// ReadTokens reads the next portion of input and recognizes all complete
// tokens in it. It returns true as long as the end of input has not been
// reached.
func (l *Lexer) ReadTokens() (bool, error) {
	if l.done {
		return false, nil
	}
	if l.source == nil {
		return false, errors.New("lexer has no input source")
	}
	if !l.tokenizer.IsCompiled() {
		if err := l.tokenizer.Compile(); err != nil {
			return false, err
		}
	}
	if err := l.fill(); err != nil {
		return false, err
	}
	l.chunk.reset()
	for l.pos < l.filled {
		m, more, err := l.tokenizer.Scan(l.buf[:l.filled], l.pos, l.eof)
		if err != nil {
			lexerr, ok := err.(*LexicalError)
			if !ok {
				return false, err
			}
			if l.chunk.Len() > 0 { // hand out the tokens before the error first
				break
			}
			lexerr.Offset += l.base
			l.errorfn(lexerr)
			return false, lexerr
		}
		if more {
			break
		}
		l.pos = m.End
		ignored := l.tokenizer.IsIgnored(m.Class)
		action := l.tokenizer.Action(m.Class)
		if ignored && action == nil {
			continue
		}
		token := MakeToken(m.Class, l.buf[m.Start:m.End], l.base+uint64(m.Start))
		if keep := action == nil || action(&token); !keep || ignored {
			continue
		}
		l.lastStart = m.Start
		l.chunk.add(m)
		l.pending = append(l.pending, token)
	}
	if l.eof && l.pos == l.filled {
		l.done = true
	}
	return !l.done, nil
}

// fill moves the unscanned tail of the buffer to the front and reads as much
// input as fits behind it. If the tail occupies the whole buffer, the buffer
// is doubled.
func (l *Lexer) fill() error {
	if l.buf == nil {
		l.buf = make([]byte, l.bufsize)
	}
	if l.pos > 0 {
		n := copy(l.buf, l.buf[l.pos:l.filled])
		l.base += uint64(l.pos)
		if l.lastStart >= l.pos {
			l.lastStart -= l.pos
		} else {
			l.lastStart = -1
		}
		l.filled, l.pos = n, 0
	} else if l.filled == len(l.buf) {
		buf := make([]byte, 2*len(l.buf))
		copy(buf, l.buf[:l.filled])
		l.buf = buf
		tracer().Debugf("lexer buffer grown to %d bytes", len(buf))
	}
	for empty := 0; !l.eof && l.filled < len(l.buf); {
		n, err := l.source.Read(l.buf[l.filled:])
		l.filled += n
		if err == io.EOF {
			l.eof = true
		} else if err != nil {
			return errors.Annotate(err, "cannot read lexer input")
		} else if n == 0 {
			if empty++; empty > 100 {
				return io.ErrNoProgress
			}
		}
	}
	return nil
}

// NextToken returns the next token from the input. After the last token it
// returns a token of type scopus.EndMarker, positioned at the end of input,
// and then io.EOF.
func (l *Lexer) NextToken() (scopus.Token, error) {
	for len(l.pending) == 0 {
		if l.done {
			if l.endSent {
				return nil, io.EOF
			}
			l.endSent = true
			return EndMarkerToken(l.base + uint64(l.filled)), nil
		}
		if _, err := l.ReadTokens(); err != nil {
			return nil, err
		}
	}
	token := l.pending[0]
	l.pending = l.pending[1:]
	return token, nil
}
