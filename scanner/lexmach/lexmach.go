/*
Package lexmach provides a token stream backed by lexmachine
(https://github.com/timtadh/lexmachine). It serves as an alternative to the
table-driven lexer of package scanner and produces the same token type,
terminated by an end marker.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package lexmach

import (
	"io"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/onirtuen/scopus"
	"github.com/onirtuen/scopus/scanner"
	"github.com/pingcap/errors"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// tracer traces with key 'scopus.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("scopus.scanner")
}

// Adapter wraps a compiled lexmachine lexer.
type Adapter struct {
	Lexer *lexmachine.Lexer
}

// NewAdapter creates a new lexmachine adapter. It receives an init function
// to add custom patterns, a list of literals ('[', ';', …), a list of
// keywords ("if", "for", …) and a map for translating token strings to
// token classes. Init runs first, so its patterns take priority.
//
// NewAdapter will return an error if compiling the DFA failed.
func NewAdapter(init func(*lexmachine.Lexer), literals []string, keywords []string,
	tokenIds map[string]scopus.TokType) (*Adapter, error) {
	//
	adapter := &Adapter{Lexer: lexmachine.NewLexer()}
	if init != nil {
		init(adapter.Lexer)
	}
	for _, lit := range literals {
		r := "\\" + strings.Join(strings.Split(lit, ""), "\\")
		adapter.Lexer.Add([]byte(r), MakeToken(lit, tokenIds[lit]))
	}
	for _, name := range keywords {
		adapter.Lexer.Add([]byte(strings.ToLower(name)), MakeToken(name, tokenIds[name]))
	}
	if err := adapter.Lexer.Compile(); err != nil {
		tracer().Errorf("error compiling DFA: %v", err)
		return nil, errors.Annotate(err, "cannot compile lexmachine DFA")
	}
	return adapter, nil
}

// Scanner creates a token stream for a given input.
func (lm *Adapter) Scanner(input []byte) (*Scanner, error) {
	s, err := lm.Lexer.Scanner(input)
	if err != nil {
		return nil, err
	}
	return &Scanner{scanner: s, input: input, Error: logError}, nil
}

// Scanner is a token stream over a lexmachine scanner. By default, input
// which no pattern matches stops the stream with a *scanner.LexicalError.
// If SkipErrors is set, unmatched input is reported to Error and skipped.
type Scanner struct {
	scanner    *lexmachine.Scanner
	input      []byte
	Error      func(error)
	SkipErrors bool
	endSent    bool
}

var _ scanner.TokenStream = (*Scanner)(nil)

// SetErrorHandler sets an error handler for the scanner.
func (lms *Scanner) SetErrorHandler(h func(error)) {
	if h == nil {
		lms.Error = logError
		return
	}
	lms.Error = h
}

// Default error reporting function for lexmachine-based scanners
func logError(e error) {
	tracer().Errorf("scanner error: %s", e.Error())
}

// NextToken is part of interface scanner.TokenStream.
func (lms *Scanner) NextToken() (scopus.Token, error) {
	if lms.endSent {
		return nil, io.EOF
	}
	tok, err, atEOF := lms.scanner.Next()
	for err != nil {
		ui, is := err.(*machines.UnconsumedInput)
		if !is {
			return nil, errors.Annotate(err, "lexmachine scanner failed")
		}
		lexerr := &scanner.LexicalError{Offset: uint64(ui.StartTC)}
		if ui.StartTC < len(lms.input) {
			lexerr.Byte = lms.input[ui.StartTC]
		}
		lms.Error(lexerr)
		if !lms.SkipErrors {
			return nil, lexerr
		}
		lms.scanner.TC = ui.FailTC
		if ui.FailTC <= ui.StartTC {
			lms.scanner.TC = ui.StartTC + 1
		}
		tok, err, atEOF = lms.scanner.Next()
	}
	if atEOF {
		lms.endSent = true
		return scanner.EndMarkerToken(uint64(len(lms.input))), nil
	}
	tracer().Debugf("tok is %T | %v", tok, tok)
	lmtok := tok.(*lexmachine.Token)
	token := scanner.MakeToken(scopus.TokType(lmtok.Type), lmtok.Lexeme, uint64(lmtok.TC))
	token.Val = lmtok.Value
	return token, nil
}

// ---------------------------------------------------------------------------

// Skip is a pre-defined action which ignores the scanned match.
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// MakeToken is a pre-defined action which wraps a scanned match into a token.
func MakeToken(name string, class scopus.TokType) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(int(class), string(m.Bytes), m), nil
	}
}
