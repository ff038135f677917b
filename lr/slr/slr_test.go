package slr

import (
	"strings"
	"sync"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/onirtuen/scopus"
	"github.com/onirtuen/scopus/lr"
	"github.com/onirtuen/scopus/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	tz      *scanner.Tokenizer
	g       *lr.Grammar
	lrgen   *lr.TableGenerator
	windows map[string][][]string // lexemes seen by semantic actions, per production
}

func (f *fixture) record(name string) lr.SemanticAction {
	if f.windows == nil {
		return func(*lr.TerminalValues) {}
	}
	return func(values *lr.TerminalValues) {
		var lexemes []string
		for _, t := range values.Tokens() {
			lexemes = append(lexemes, t.Lexeme())
		}
		f.windows[name] = append(f.windows[name], lexemes)
	}
}

// arithmetic expressions
//
//	E --> E + T | T
//	T --> T * F | F
//	F --> ( E ) | id
func makeFixture(t *testing.T) *fixture {
	return newFixture(t, make(map[string][][]string))
}

func newFixture(t *testing.T, windows map[string][][]string) *fixture {
	f := &fixture{tz: scanner.NewTokenizer(), windows: windows}
	terminal := func(name, pattern string, opts ...scanner.PatternOption) *lr.Terminal {
		class, err := f.tz.RegisterTerminal(pattern, opts...)
		require.NoError(t, err)
		return lr.NewTerminal(name, class)
	}
	id := terminal("id", "[a-z][a-z0-9]*")
	plus := terminal("+", "+", scanner.Literally())
	mult := terminal("*", "*", scanner.Literally())
	lbr := terminal("(", "(", scanner.Literally())
	rbr := terminal(")", ")", scanner.Literally())
	require.NoError(t, f.tz.RegisterIgnored(`[ \t\n]+`))
	require.NoError(t, f.tz.Compile())
	b := lr.NewGrammarBuilder("Arith")
	b.LHS("E").N("E").T(plus).N("T").Action(f.record("E+T")).End()
	b.LHS("E").N("T").Action(f.record("T")).End()
	b.LHS("T").N("T").T(mult).N("F").Action(f.record("T*F")).End()
	b.LHS("T").N("F").End()
	b.LHS("F").T(lbr).N("E").T(rbr).Action(f.record("(E)")).End()
	b.LHS("F").T(id).Action(f.record("id")).End()
	g, err := b.Grammar()
	require.NoError(t, err)
	f.g = g
	f.lrgen = lr.NewTableGenerator(g, lr.WithVocabulary(f.tz))
	require.NoError(t, f.lrgen.CreateTables())
	return f
}

func (f *fixture) parser(opts ...Option) *Parser {
	return NewParser(f.g, f.lrgen.GotoTable(), f.lrgen.ActionTable(), opts...)
}

func (f *fixture) lexer(input string) *scanner.Lexer {
	lexer := scanner.NewLexer(f.tz)
	lexer.SetSource(strings.NewReader(input))
	return lexer
}

type trace struct {
	reductions []int
	shifts     []string
}

func (tr *trace) listen(step Step) {
	switch step.Kind {
	case ShiftStep:
		tr.shifts = append(tr.shifts, step.Token.Lexeme())
	case ReduceStep:
		tr.reductions = append(tr.reductions, step.Production.ID)
	}
}

func TestParseExpression(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scopus.lr")
	defer teardown()
	//
	f := makeFixture(t)
	tr := &trace{}
	p := f.parser(WithStepListener(tr.listen))
	accepted, err := p.Parse(f.lexer("id + id * id"))
	require.NoError(t, err)
	assert.True(t, accepted)
	// F→id, T→F, E→T, F→id, T→F, F→id, T→T*F, E→E+T
	assert.Equal(t, []int{6, 4, 2, 6, 4, 6, 3, 1}, tr.reductions)
	assert.Equal(t, []string{"id", "+", "id", "*", "id"}, tr.shifts)
}

func TestParseSingleToken(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scopus.lr")
	defer teardown()
	//
	f := makeFixture(t)
	tr := &trace{}
	var last Step
	p := f.parser(WithStepListener(func(step Step) {
		tr.listen(step)
		last = step
	}))
	accepted, err := p.Parse(f.lexer("id"))
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, []int{6, 4, 2}, tr.reductions)
	assert.Equal(t, []string{"id"}, tr.shifts, "end marker is never shifted")
	assert.Equal(t, AcceptStep, last.Kind)
	assert.Equal(t, scopus.EndMarker, last.Token.TokType())
}

func TestSyntaxError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scopus.lr")
	defer teardown()
	//
	f := makeFixture(t)
	accepted, err := f.parser().Parse(f.lexer("id +"))
	assert.False(t, accepted)
	var serr *SyntaxError
	require.ErrorAs(t, err, &serr)
	require.NotNil(t, serr.Token)
	assert.Equal(t, scopus.EndMarker, serr.Token.TokType())
	assert.Equal(t, []int{0, 1, 6}, serr.States)
	assert.Equal(t, []string{"(", "id"}, serr.Expected)
	assert.Contains(t, serr.Error(), "unexpected end of input")
	//
	_, err = f.parser().Parse(f.lexer("id id"))
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "id", serr.Terminal)
	assert.Equal(t, uint64(3), serr.Token.Span().From())
}

func TestValueWindows(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scopus.lr")
	defer teardown()
	//
	f := makeFixture(t)
	accepted, err := f.parser().Parse(f.lexer("(a + b) * c"))
	require.NoError(t, err)
	require.True(t, accepted)
	assert.Equal(t, [][]string{{"a"}, {"b"}, {"c"}}, f.windows["id"])
	assert.Equal(t, [][]string{{"+"}}, f.windows["E+T"])
	assert.Equal(t, [][]string{{"(", ")"}}, f.windows["(E)"])
	assert.Equal(t, [][]string{{"*"}}, f.windows["T*F"])
	assert.Equal(t, [][]string{nil, nil}, f.windows["T"], "E --> T has no terminals")
}

func TestErrorRecovery(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scopus.lr")
	defer teardown()
	//
	f := makeFixture(t)
	var skipped []string
	var input string
	skip := func(ctx *ParserContext) error {
		skipped = append(skipped, ctx.Token.Lexeme())
		if lexer, ok := ctx.Input().(*scanner.Lexer); ok {
			input = string(lexer.Buffer())
		}
		return ctx.Skip()
	}
	accepted, err := f.parser(WithErrorHandler(skip)).Parse(f.lexer("a + + b"))
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, []string{"+"}, skipped)
	assert.Equal(t, "a + + b", input, "handler reaches the lexer")
	assert.Equal(t, [][]string{{"a"}, {"b"}}, f.windows["id"])
	//
	// a handler which does not change anything has not recovered
	idle := func(ctx *ParserContext) error { return nil }
	_, err = f.parser(WithErrorHandler(idle)).Parse(f.lexer("a + + b"))
	var serr *SyntaxError
	assert.ErrorAs(t, err, &serr)
	//
	// the end marker cannot be skipped
	_, err = f.parser(WithErrorHandler(skip)).Parse(f.lexer("a +"))
	assert.Error(t, err)
}

func TestPopStateRecovery(t *testing.T) {
	f := makeFixture(t)
	// pop states until the lookahead can be shifted or reduced
	pop := func(ctx *ParserContext) error {
		if !ctx.PopState() {
			return ctx.Skip()
		}
		return nil
	}
	accepted, err := f.parser(WithErrorHandler(pop)).Parse(f.lexer("a ) b"))
	require.NoError(t, err)
	assert.True(t, accepted)
}

func TestConcurrentParses(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "scopus.lr")
	defer teardown()
	//
	f := newFixture(t, nil) // semantic actions must not share state
	p := f.parser()
	inputs := []string{"a + b * c", "(a + b) * c", "a * (b + c * d) + e", "x"}
	var wg sync.WaitGroup
	errs := make(chan error, 8*50)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				input := inputs[(g+i)%len(inputs)]
				lexer := scanner.NewLexer(f.tz)
				lexer.SetSource(strings.NewReader(input))
				if accepted, err := p.Parse(lexer); err != nil {
					errs <- err
				} else if !accepted {
					errs <- assert.AnError
				}
			}
		}(g)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestLexicalErrorStopsParse(t *testing.T) {
	f := makeFixture(t)
	accepted, err := f.parser().Parse(f.lexer("a + #"))
	assert.False(t, accepted)
	var lexerr *scanner.LexicalError
	require.ErrorAs(t, err, &lexerr)
	assert.Equal(t, uint64(4), lexerr.Offset)
}

func TestParserNotInitialized(t *testing.T) {
	_, err := NewParser(nil, nil, nil).Parse(nil)
	assert.Error(t, err)
}
