package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/onirtuen/scopus/lr"
	"github.com/onirtuen/scopus/runtime"
	"github.com/pingcap/errors"
	"github.com/pterm/pterm"
	flag "github.com/spf13/pflag"
)

// tracing keys of the toolbox
var traceKeys = []string{"scopus.calc", "scopus.lr", "scopus.scanner", "scopus.runtime"}

// main() starts an interactive calculator. Statements given on the command
// line are evaluated first.
func main() {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	configf := flag.StringP("config", "c", "", "Configuration file (TOML)")
	tlevel := flag.StringP("trace", "t", "", "Trace level [Debug|Info|Error]")
	initf := flag.StringP("init", "i", "", "File of statements to evaluate at start-up")
	exportd := flag.StringP("export", "x", "", "Directory to export parser tables to")
	flag.Parse()
	setTraceLevel(tracing.LevelInfo) // will set the correct level later
	conf, err := loadConfig(*configf)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
	if *tlevel != "" {
		conf.Trace = *tlevel
	}
	if *exportd != "" {
		conf.Export = *exportd
	}
	tracer().Infof("Trace level is %s", conf.Trace)
	setTraceLevel(tracing.TraceLevelFromString(conf.Trace))
	//
	intp, err := NewIntp(conf)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}
	if conf.Export != "" {
		if err := intp.export(conf.Export); err != nil {
			pterm.Error.Println(err.Error())
		}
	}
	if err := intp.loadInitFile(*initf); err != nil {
		pterm.Error.Println(err.Error())
	}
	if input := strings.TrimSpace(strings.Join(flag.Args(), " ")); input != "" {
		intp.Execute(input)
		return
	}
	repl, err := readline.New(conf.Prompt)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(3)
	}
	defer repl.Close()
	pterm.Info.Println("Welcome to lrcalc, quit with <ctrl>D")
	intp.REPL(repl)
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  =",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func setTraceLevel(level tracing.TraceLevel) {
	gtrace.SyntaxTracer.SetTraceLevel(level)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
}

// Intp is our interpreter object.
type Intp struct {
	conf   *Config
	env    *runtime.Environment
	calc   *Calculator
	scopes int // number of scopes opened by the user
	out    io.Writer
}

// NewIntp creates an interpreter with the constants of the configuration
// defined in the global scope and user variables in a session scope.
func NewIntp(conf *Config) (*Intp, error) {
	env := runtime.NewEnvironment("lrcalc")
	for name, v := range conf.Constants {
		if _, err := env.Define(name, v); err != nil {
			return nil, errors.Annotatef(err, "constant %q", name)
		}
	}
	env.PushScope("session")
	calc, err := NewCalculator(env)
	if err != nil {
		return nil, err
	}
	calc.Generator().Grammar().Dump() // only visible in debug mode
	return &Intp{conf: conf, env: env, calc: calc, out: os.Stdout}, nil
}

func (intp *Intp) loadInitFile(filename string) error {
	if filename == "" {
		return nil
	}
	f, err := os.Open(filename)
	if err != nil {
		return errors.Annotatef(err, "unable to open init file")
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, err := intp.calc.Eval(line); err != nil {
			tracer().Errorf("init file line %d: %v", lineno, err)
		}
	}
	return errors.Trace(scanner.Err())
}

// REPL starts interactive mode.
func (intp *Intp) REPL(repl *readline.Instance) {
	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		if quit := intp.Execute(line); quit {
			break
		}
	}
	pterm.Println("Good bye!")
}

// Execute evaluates a statement or performs a command. It returns true if
// the user wants to quit.
func (intp *Intp) Execute(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, ":") {
		quit, err := intp.command(strings.Fields(line[1:]))
		if err != nil {
			pterm.Error.Println(err.Error())
		}
		return quit
	}
	v, err := intp.calc.Eval(line)
	if err != nil {
		pterm.Error.Println(err.Error())
		return false
	}
	pterm.Info.Println(fmt.Sprintf(intp.conf.Format, v))
	return false
}

func (intp *Intp) command(args []string) (bool, error) {
	if len(args) == 0 {
		return false, errors.New("missing command")
	}
	switch args[0] {
	case "quit", "q":
		return true, nil
	case "vars":
		intp.listVariables()
	case "push":
		name := fmt.Sprintf("scope-%d", intp.scopes+1)
		if len(args) > 1 {
			name = args[1]
		}
		intp.env.PushScope(name)
		intp.scopes++
	case "pop":
		if intp.scopes == 0 {
			return false, errors.New("no scope to drop")
		}
		if err := intp.env.PopScope(); err != nil {
			return false, err
		}
		intp.scopes--
	case "grammar":
		fmt.Fprint(intp.out, intp.calc.Generator().Grammar().String())
	case "export":
		dir := intp.conf.Export
		if len(args) > 1 {
			dir = args[1]
		}
		if dir == "" {
			return false, errors.New("usage: :export <directory>")
		}
		return false, intp.export(dir)
	default:
		return false, errors.Errorf("unknown command :%s", args[0])
	}
	return false, nil
}

func (intp *Intp) listVariables() {
	data := pterm.TableData{{"Variable", "Type", "Value"}}
	for _, tag := range intp.env.Visible() {
		data = append(data, []string{tag.Name(), tag.Typ.String(), fmt.Sprintf("%v", tag.Value())})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// export writes the parser tables as HTML and the item set automaton in
// GraphViz format into a directory.
func (intp *Intp) export(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Trace(err)
	}
	lrgen := intp.calc.Generator()
	files := []struct {
		name   string
		writer func(*lr.TableGenerator, io.Writer) error
	}{
		{"goto.html", lr.GotoTableAsHTML},
		{"action.html", lr.ActionTableAsHTML},
		{"itemsets.dot", lr.ItemSetsAsGraphViz},
	}
	for _, file := range files {
		path := filepath.Join(dir, file.name)
		f, err := os.Create(path)
		if err != nil {
			return errors.Trace(err)
		}
		err = file.writer(lrgen, f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return errors.Annotatef(err, "exporting %s", path)
		}
		tracer().Infof("exported %s", path)
	}
	return nil
}
