/*
Package slr provides an SLR(1)-parser. Clients have to use the tools
of package lr to prepare the necessary parse tables. The SLR parser
utilizes these tables to create a right derivation for a given input,
provided through a token stream.

This parser is intended for small to moderate grammars, e.g. for configuration
input or small domain-specific languages. It is *not* intended for full-fledged
programming languages.

The main focus for this implementation is adaptability and on-the-fly usage.
Clients are able to construct the parse tables from a grammar and use the
parser directly, without a code-generation or compile step.

# Usage

Clients register terminals with a tokenizer and construct a grammar, usually
by using a grammar builder:

	tz := scanner.NewTokenizer()
	num, _ := tz.RegisterTerminal("[0-9]+")
	plus, _ := tz.RegisterTerminal("+", scanner.Literally())
	N, P := lr.NewTerminal("num", num), lr.NewTerminal("+", plus)
	b := lr.NewGrammarBuilder("Sums")
	b.LHS("S").N("S").T(P).T(N).Action(add).End()  // S --> S + num
	b.LHS("S").T(N).Action(push).End()             // S --> num
	g, err := b.Grammar()

This grammar is subjected to table generation.

	lrgen := lr.NewTableGenerator(g, lr.WithVocabulary(tz))
	err = lrgen.CreateTables()

Finally parse some input:

	p := slr.NewParser(g, lrgen.GotoTable(), lrgen.ActionTable())
	lexer := scanner.NewLexer(tz)
	lexer.SetSource(strings.NewReader("1+2+3"))
	accepted, err := p.Parse(lexer)

Semantic actions are called on every reduce, receiving the tokens of the
terminals of the reduced production.

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package slr

import (
	"io"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/schuko/tracing"
	"github.com/onirtuen/scopus"
	"github.com/onirtuen/scopus/lr"
	"github.com/onirtuen/scopus/scanner"
	"github.com/pingcap/errors"
)

// tracer traces with key 'scopus.lr'.
func tracer() tracing.Trace {
	return tracing.Select("scopus.lr")
}

// Parser is an SLR(1)-parser type. Create and initialize one with
// slr.NewParser(...). A parser holds no per-parse state and may be used for
// more than one parse, also concurrently.
type Parser struct {
	G        *lr.Grammar
	gotoT    *lr.GotoTable   // GOTO table
	actionT  *lr.ActionTable // ACTION table
	onError  ErrorHandler
	listener StepListener
}

// We store pairs of state-IDs and input spans on the parse stack.
type stackitem struct {
	stateID int         // ID of an item set
	span    scopus.Span // input span over which the state's symbol reaches
	shifted bool        // state has been entered by shifting a token
}

// Option configures a parser.
type Option func(p *Parser)

// WithErrorHandler installs a handler for syntax errors. Without a handler,
// the parser stops at the first syntax error.
func WithErrorHandler(h ErrorHandler) Option {
	return func(p *Parser) {
		p.onError = h
	}
}

// WithStepListener installs a function which is called for every step of
// the parser.
func WithStepListener(l StepListener) Option {
	return func(p *Parser) {
		p.listener = l
	}
}

// NewParser creates an SLR(1) parser.
func NewParser(g *lr.Grammar, gotoTable *lr.GotoTable, actionTable *lr.ActionTable, opts ...Option) *Parser {
	parser := &Parser{
		G:       g,
		gotoT:   gotoTable,
		actionT: actionTable,
	}
	for _, opt := range opts {
		opt(parser)
	}
	return parser
}

// Parse starts a new parse, given a token stream for the input. The stream
// has to terminate with an end marker token.
//
// The parser returns true if the input has been accepted. Lexical errors of
// the token stream are returned unchanged, syntax errors as *SyntaxError,
// unless an error handler recovers from them.
func (p *Parser) Parse(input scanner.TokenStream) (bool, error) {
	tracer().Debugf("~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~")
	if p.G == nil || p.gotoT == nil || p.actionT == nil {
		tracer().Errorf("SLR(1)-parser not initialized")
		return false, errors.New("SLR(1)-parser not initialized")
	}
	ctx := &ParserContext{
		parser: p,
		stack:  arraystack.New(),
		Values: lr.NewTerminalValues(),
		input:  input,
	}
	ctx.stack.Push(stackitem{stateID: 0})
	if err := ctx.advance(); err != nil {
		return false, err
	}
	for {
		state := ctx.top()
		tokval := ctx.Token.TokType()
		action := p.actionT.Action(state.stateID, tokval)
		tracer().Debugf("action(%d,%d)=%v for %q", state.stateID, tokval, action, ctx.Token.Lexeme())
		switch action.Kind {
		case lr.Accept:
			tracer().Infof("input accepted")
			p.notify(Step{Kind: AcceptStep, State: state.stateID, Token: ctx.Token})
			return true, nil
		case lr.Shift:
			tracer().Debugf("shifting, next state = %d", action.Dest)
			ctx.stack.Push(stackitem{stateID: action.Dest, span: ctx.Token.Span(), shifted: true})
			ctx.Values.PushToken(clone(ctx.Token))
			p.notify(Step{Kind: ShiftStep, State: state.stateID, Token: ctx.Token, Dest: action.Dest})
			if err := ctx.advance(); err != nil {
				return false, err
			}
		case lr.Reduce:
			production := p.G.Production(action.Dest)
			nextstate, span, err := p.reduce(ctx, production)
			if err != nil {
				return false, err
			}
			p.notify(Step{Kind: ReduceStep, State: state.stateID, Token: ctx.Token,
				Production: production, Dest: nextstate, Span: span})
		default:
			p.notify(Step{Kind: ErrorStep, State: state.stateID, Token: ctx.Token})
			if err := p.recover(ctx); err != nil {
				return false, err
			}
		}
	}
}

// reduce performs a reduce action for a production
//
//	LHS --> X1 ... Xn   (with X being terminals or non-terminals)
//
// Symbols X1 to Xn are represented on the stack as states
//
//	[TOS]  Sn(span_n) ... S1(span1)  ...
//
// which are replaced by the GOTO state for LHS. The semantic action of the
// production sees the tokens of its terminals.
func (p *Parser) reduce(ctx *ParserContext, production *lr.Production) (int, scopus.Span, error) {
	tracer().Infof("reduce %v", production)
	var handlespan scopus.Span
	for i := 0; i < production.Len(); i++ {
		x, _ := ctx.stack.Pop()
		handlespan = handlespan.Extend(x.(stackitem).span)
	}
	if handlespan.IsNull() { // resulted from an epsilon production
		pos := ctx.Token.Span().From()
		handlespan = scopus.Span{pos, pos} // epsilon was just before lookahead
	}
	state := ctx.top()
	nextstate := p.gotoT.Goto(state.stateID, production.Symbol.ID())
	if nextstate < 0 {
		return 0, handlespan, errors.Errorf("no GOTO entry for state %d and %v", state.stateID, production.Symbol)
	}
	tracer().Debugf("reduced to next state = %d", nextstate)
	ctx.stack.Push(stackitem{stateID: nextstate, span: handlespan})
	ctx.Values.SetWindow(production.TerminalsCount())
	production.PerformSemanticAction(ctx.Values)
	ctx.Values.DropWindow()
	return nextstate, handlespan, nil
}

// recover lets the error handler try to recover from a syntax error. A
// handler which neither skips a token nor pops a state has not recovered.
func (p *Parser) recover(ctx *ParserContext) error {
	if p.onError == nil {
		return ctx.syntaxError()
	}
	ctx.moved = false
	if err := p.onError(ctx); err != nil {
		return err
	}
	if !ctx.moved {
		return ctx.syntaxError()
	}
	tracer().Infof("recovered from syntax error, continuing in state %d", ctx.top().stateID)
	return nil
}

func (p *Parser) notify(step Step) {
	if p.listener != nil {
		p.listener(step)
	}
}

// TerminalName returns the name of the grammar terminal for a token class.
func (p *Parser) TerminalName(class scopus.TokType) string {
	if t := p.G.Terminal(class); t != nil {
		return t.Name()
	}
	return "<unknown>"
}

func clone(token scopus.Token) scopus.Token {
	if t, ok := token.(scanner.Token); ok {
		return t.Clone()
	}
	return token
}

// --- Parser steps ----------------------------------------------------------

// StepKind is the kind of a parser step.
type StepKind int8

// Kinds of parser steps
const (
	ShiftStep StepKind = iota
	ReduceStep
	AcceptStep
	ErrorStep
)

func (k StepKind) String() string {
	switch k {
	case ShiftStep:
		return "shift"
	case ReduceStep:
		return "reduce"
	case AcceptStep:
		return "accept"
	}
	return "error"
}

// Step describes a single step of the parser. State is the state before the
// step. Dest is the state after a shift or after the GOTO of a reduce.
type Step struct {
	Kind       StepKind
	State      int
	Token      scopus.Token   // lookahead
	Production *lr.Production // for reduce steps
	Dest       int
	Span       scopus.Span // input span of a reduced production
}

// StepListener is called for every parser step.
type StepListener func(Step)

// --- Parser context --------------------------------------------------------

// ErrorHandler is called for syntax errors. It may recover by skipping input
// tokens or popping states off the stack, and returns nil to continue the
// parse. An error aborts the parse with this error.
type ErrorHandler func(ctx *ParserContext) error

// ParserContext is the state of a running parse: the state stack, the value
// stack and the current lookahead token.
type ParserContext struct {
	parser *Parser
	stack  *arraystack.Stack
	input  scanner.TokenStream
	Values *lr.TerminalValues
	Token  scopus.Token // current lookahead token
	moved  bool
}

func (ctx *ParserContext) top() stackitem {
	x, _ := ctx.stack.Peek()
	return x.(stackitem)
}

// advance moves to the next token. A stream exhausted before the end marker
// could be shifted is a syntax error.
func (ctx *ParserContext) advance() error {
	token, err := ctx.input.NextToken()
	if err == io.EOF {
		ctx.Token = nil
		return &SyntaxError{States: ctx.States(), Reason: "unexpected end of token stream"}
	}
	if err != nil {
		return err
	}
	ctx.Token = token
	return nil
}

// Input returns the token stream the parser reads from, usually a
// *scanner.Lexer.
func (ctx *ParserContext) Input() scanner.TokenStream {
	return ctx.input
}

// State returns the current state.
func (ctx *ParserContext) State() int {
	return ctx.top().stateID
}

// States returns the state stack, bottom first.
func (ctx *ParserContext) States() []int {
	values := ctx.stack.Values() // top first
	states := make([]int, len(values))
	for i, x := range values {
		states[len(values)-1-i] = x.(stackitem).stateID
	}
	return states
}

// Expected returns the terminals with a valid action in the current state.
func (ctx *ParserContext) Expected() []*lr.Terminal {
	var r []*lr.Terminal
	for _, t := range ctx.parser.G.UsedTerminals() {
		if ctx.parser.actionT.Action(ctx.State(), t.TokenClass()).Kind != lr.Error {
			r = append(r, t)
		}
	}
	return r
}

// Skip discards the current lookahead token and reads the next one. The end
// marker cannot be skipped.
func (ctx *ParserContext) Skip() error {
	if ctx.Token.TokType() == scopus.EndMarker {
		return errors.New("cannot skip end of input")
	}
	tracer().Debugf("skipping token %q", ctx.Token.Lexeme())
	ctx.moved = true
	return ctx.advance()
}

// PopState pops the topmost state off the stack. The start state cannot be
// popped. If the state has been entered by a shift, the shifted token is
// removed from the value stack as well.
func (ctx *ParserContext) PopState() bool {
	if ctx.stack.Size() <= 1 {
		return false
	}
	x, _ := ctx.stack.Pop()
	if x.(stackitem).shifted {
		ctx.Values.SetWindow(1)
		ctx.Values.DropWindow()
	}
	ctx.moved = true
	return true
}

func (ctx *ParserContext) syntaxError() *SyntaxError {
	e := &SyntaxError{States: ctx.States(), Token: ctx.Token}
	if ctx.Token != nil {
		e.Terminal = ctx.parser.TerminalName(ctx.Token.TokType())
	}
	for _, t := range ctx.Expected() {
		e.Expected = append(e.Expected, t.Name())
	}
	tracer().Errorf("%v", e)
	return e
}
