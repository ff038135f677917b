package main

import (
	"math"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/onirtuen/scopus/lr"
	"github.com/onirtuen/scopus/lr/slr"
	"github.com/onirtuen/scopus/runtime"
	"github.com/onirtuen/scopus/scanner"
	"github.com/pingcap/errors"
)

// Calculator evaluates statements of a small expression language:
//
//	Stmt   ➞ ident = Expr  |  Expr
//	Expr   ➞ Expr + Term  |  Expr - Term  |  Term
//	Term   ➞ Term * Factor  |  Term / Factor  |  Factor
//	Factor ➞ - Factor  |  ( Expr )  |  number  |  ident
//
// Values are computed by the semantic actions of the productions, using an
// operand stack. Variables live in a runtime environment. A calculator is
// not safe for concurrent use.
type Calculator struct {
	env      *runtime.Environment
	tz       *scanner.Tokenizer
	lrgen    *lr.TableGenerator
	parser   *slr.Parser
	operands *arraystack.Stack
	err      error // first error of a semantic action
}

// NewCalculator creates a calculator operating on variables of env.
func NewCalculator(env *runtime.Environment) (*Calculator, error) {
	c := &Calculator{
		env:      env,
		tz:       scanner.NewTokenizer(),
		operands: arraystack.New(),
	}
	if err := c.makeGrammar(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Calculator) makeGrammar() error {
	terminals := make(map[string]*lr.Terminal)
	terminal := func(name, pattern string, opts ...scanner.PatternOption) error {
		class, err := c.tz.RegisterTerminal(pattern, append(opts, scanner.Named(name))...)
		if err != nil {
			return errors.Annotatef(err, "terminal %s", name)
		}
		terminals[name] = lr.NewTerminal(name, class)
		return nil
	}
	for _, op := range []string{"+", "-", "*", "/", "(", ")", "="} {
		if err := terminal(op, op, scanner.Literally()); err != nil {
			return err
		}
	}
	if err := terminal("number", `[0-9]+(\.[0-9]+)?`); err != nil {
		return err
	}
	if err := terminal("ident", `[a-zA-Z_][a-zA-Z0-9_]*`); err != nil {
		return err
	}
	if err := c.tz.RegisterIgnored(`[ \t\r\n]+`); err != nil {
		return errors.Trace(err)
	}
	if err := c.tz.Compile(); err != nil {
		return errors.Trace(err)
	}
	t := func(name string) *lr.Terminal { return terminals[name] }
	b := lr.NewGrammarBuilder("Calc")
	b.LHS("Stmt").T(t("ident")).T(t("=")).N("Expr").Action(c.assign).End()
	b.LHS("Stmt").N("Expr").End()
	b.LHS("Expr").N("Expr").T(t("+")).N("Term").Action(c.binary(add)).End()
	b.LHS("Expr").N("Expr").T(t("-")).N("Term").Action(c.binary(sub)).End()
	b.LHS("Expr").N("Term").End()
	b.LHS("Term").N("Term").T(t("*")).N("Factor").Action(c.binary(mul)).End()
	b.LHS("Term").N("Term").T(t("/")).N("Factor").Action(c.binary(div)).End()
	b.LHS("Term").N("Factor").End()
	b.LHS("Factor").T(t("-")).N("Factor").Action(c.negate).End()
	b.LHS("Factor").T(t("(")).N("Expr").T(t(")")).End()
	b.LHS("Factor").T(t("number")).Action(c.number).End()
	b.LHS("Factor").T(t("ident")).Action(c.variable).End()
	g, err := b.Grammar()
	if err != nil {
		return err
	}
	c.lrgen = lr.NewTableGenerator(g, lr.WithVocabulary(c.tz), lr.StrictConflicts())
	if err := c.lrgen.CreateTables(); err != nil {
		return err
	}
	c.parser = slr.NewParser(g, c.lrgen.GotoTable(), c.lrgen.ActionTable())
	return nil
}

// Eval parses and evaluates a single statement. Assignments evaluate to the
// value assigned.
func (c *Calculator) Eval(line string) (float64, error) {
	c.operands.Clear()
	c.err = nil
	lexer := scanner.NewLexer(c.tz)
	lexer.SetSource(strings.NewReader(line))
	accepted, err := c.parser.Parse(lexer)
	if err != nil {
		return 0, err
	}
	if !accepted {
		return 0, errors.Errorf("input not accepted: %q", line)
	}
	if c.err != nil {
		return 0, c.err
	}
	if c.operands.Size() != 1 {
		return 0, errors.Errorf("internal error: %d operands left on stack", c.operands.Size())
	}
	return c.pop(), nil
}

// Generator returns the table generator for the calculator's grammar.
func (c *Calculator) Generator() *lr.TableGenerator {
	return c.lrgen
}

// --- Semantic actions ------------------------------------------------------

func (c *Calculator) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *Calculator) push(v float64) {
	c.operands.Push(v)
}

func (c *Calculator) pop() float64 {
	v, ok := c.operands.Pop()
	if !ok {
		c.fail(errors.New("operand stack underflow"))
		return math.NaN()
	}
	return v.(float64)
}

func (c *Calculator) number(values *lr.TerminalValues) {
	v, err := strconv.ParseFloat(values.Lexeme(0), 64)
	if err != nil {
		c.fail(errors.Annotatef(err, "malformed number"))
	}
	c.push(v)
}

func (c *Calculator) variable(values *lr.TerminalValues) {
	name := values.Lexeme(0)
	tag, err := c.env.Lookup(name)
	if err != nil {
		c.fail(err)
		c.push(math.NaN())
		return
	}
	v, ok := tag.Float()
	if !ok {
		c.fail(errors.Errorf("variable '%s' is not a number: %v", name, tag.Value()))
		v = math.NaN()
	}
	c.push(v)
}

func (c *Calculator) assign(values *lr.TerminalValues) {
	v := c.pop()
	if c.err == nil {
		if _, err := c.env.Assign(values.Lexeme(0), v); err != nil {
			c.fail(err)
		}
	}
	c.push(v)
}

func (c *Calculator) negate(*lr.TerminalValues) {
	c.push(-c.pop())
}

type operator func(a, b float64) (float64, error)

func add(a, b float64) (float64, error) { return a + b, nil }
func sub(a, b float64) (float64, error) { return a - b, nil }
func mul(a, b float64) (float64, error) { return a * b, nil }

func div(a, b float64) (float64, error) {
	if b == 0 {
		return math.NaN(), errors.New("division by zero")
	}
	return a / b, nil
}

func (c *Calculator) binary(op operator) lr.SemanticAction {
	return func(*lr.TerminalValues) {
		b, a := c.pop(), c.pop()
		v, err := op(a, b)
		if err != nil {
			c.fail(err)
		}
		tracer().Debugf("%g %g => %g", a, b, v)
		c.push(v)
	}
}
