package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/npillmayer/formlang/automata"
	"github.com/npillmayer/formlang/dpda"
	"github.com/npillmayer/formlang/rdparse"
	"github.com/npillmayer/formlang/rpn"
)

// tracing keys of the engines
var traceKeys = []string{
	"formlang.automata",
	"formlang.dpda",
	"formlang.rdparse",
	"formlang.rpn",
	"formlang.scanner",
}

// main() starts an interactive CLI ("FL.REPL"), where users may enter commands
// for the engines of formlang. Results are printed as tables and trees.
func main() {
	// set up logging
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	steps := flag.Int("steps", dpda.DefaultMaxSteps, "Step budget for pushdown automata")
	initf := flag.String("init", "", "Initial load")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelInfo) // will set the correct level later
	pterm.Info.Println("Welcome to FL.REPL")  // colored welcome message
	tracer().Infof("Trace level is %s", *tlevel)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(traceLevel(*tlevel))
	}
	//
	// set up REPL
	repl, err := readline.New("flrepl> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{
		repl:     repl,
		next:     repl.Readline,
		maxSteps: *steps,
	}
	input := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if input != "" {
		tracer().Infof("Input argument is \"%s\"", input)
		if _, err = intp.Eval(input); err != nil {
			os.Exit(2)
		}
	}
	//
	// load an init file and start receiving commands
	tracer().Infof("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.loadInitFile(*initf)           // init file name provided by flag
	intp.REPL()                         // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	repl     *readline.Instance
	next     func() (string, error) // source for continuation lines
	maxSteps int                    // step budget for pushdown automata
	fa       *automata.Automaton    // current finite automaton
	pda      *dpda.Machine          // current pushdown automaton
}

func (intp *Intp) loadInitFile(filename string) {
	if filename == "" {
		return
	}
	f, err := os.Open(filename)
	if err != nil {
		tracer().Errorf("Unable to open init file: %s", filename)
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineno := 0
	intp.next = func() (string, error) {
		if scanner.Scan() {
			lineno++
			return scanner.Text(), nil
		}
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	defer func() { intp.next = intp.repl.Readline }()
	for {
		line, err := intp.next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				tracer().Errorf("Error while reading init file: " + err.Error())
			}
			break
		}
		if line = strings.TrimSpace(line); line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		at := lineno
		if _, err := intp.Eval(line); err != nil {
			tracer().Errorf("Error line %d: "+err.Error(), at)
		}
	}
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.Eval(line)
		if err != nil {
			continue
		}
		if quit {
			break
		}
	}
	println("Good bye!")
}

// Eval executes a command, given on a line by itself. Commands dfa and dpda
// read additional lines, up to the next empty line.
func (intp *Intp) Eval(line string) (bool, error) {
	cmd, arg := line, ""
	if i := strings.IndexAny(line, " \t"); i > 0 {
		cmd, arg = line[:i], strings.TrimSpace(line[i+1:])
	}
	var err error
	switch cmd {
	case "quit", "exit":
		return true, nil
	case "help":
		intp.help()
	case "rpn":
		err = intp.rpn(arg)
	case "parse":
		err = intp.parse(arg)
	case "dfa":
		var A *automata.Automaton
		if A, err = automata.FromDefinitionAndTransitions(arg, intp.readBlock()); err == nil {
			err = intp.showAutomaton(A)
		}
	case "example":
		err = intp.showAutomaton(automata.ExampleNFA())
	case "random":
		var A *automata.Automaton
		if A, err = automata.ParseDefinition(arg); err == nil {
			rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
			err = intp.showAutomaton(automata.GenerateTransitions(A, rnd))
		}
	case "accepts":
		err = intp.accepts(strings.Fields(arg))
	case "dpda":
		var m *dpda.Machine
		if m, err = dpda.Parse(arg, intp.readBlock(), dpda.MaxSteps(intp.maxSteps)); err == nil {
			intp.showMachine(m)
		}
	case "lang":
		var m *dpda.Machine
		if m, err = dpda.FromLanguage(arg, dpda.MaxSteps(intp.maxSteps)); err == nil {
			intp.showMachine(m)
		}
	case "run":
		err = intp.run(arg)
	default:
		err = fmt.Errorf("unknown command %q, try 'help'", cmd)
	}
	if err != nil {
		pterm.Error.Println(err.Error())
	}
	return false, err
}

func (intp *Intp) help() {
	pterm.Info.Println("Commands:")
	pterm.Println(`  rpn <expression>      infix to postfix
  parse <expression>    recursive descent parse
  dfa <definition>      finite automaton, transitions follow up to an empty line
  example               load the example NFA
  random <definition>   finite automaton with random transitions
  accepts <symbols …>   test a word against the current finite automaton
  dpda <definition>     pushdown automaton, rules follow up to an empty line
  lang <language>       pushdown automaton for a language, e.g.`)
	for _, l := range dpda.Languages {
		pterm.Println("                          " + l)
	}
	pterm.Println(`  run <word>            run the current pushdown automaton
  quit                  leave`)
}

// readBlock reads continuation lines up to an empty line.
func (intp *Intp) readBlock() string {
	if intp.repl != nil {
		intp.repl.SetPrompt("   ...> ")
		defer intp.repl.SetPrompt("flrepl> ")
	}
	var lines []string
	for {
		line, err := intp.next()
		if err != nil || strings.TrimSpace(line) == "" {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// --- Infix to postfix ------------------------------------------------------

func (intp *Intp) rpn(expr string) error {
	t := rpn.NewTransducer()
	postfix, err := t.Convert(expr)
	data := pterm.TableData{{"#", "Input", "Stack", "Output", ""}}
	for _, step := range t.Trace() {
		data = append(data, []string{
			fmt.Sprintf("%d", step.Step),
			step.Input,
			strings.Join(step.Stack, " "),
			strings.Join(step.Output, " "),
			step.Err,
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	if err != nil {
		return err
	}
	pterm.Info.Println(postfix)
	return nil
}

// --- Recursive descent parsing ---------------------------------------------

func (intp *Intp) parse(expr string) error {
	result := rdparse.Parse(expr)
	if len(result.Skipped) > 0 {
		pterm.Warning.Println(fmt.Sprintf("dropped characters %q", result.Skipped))
	}
	for i, form := range result.Derivation {
		arrow := "   "
		if i > 0 {
			arrow = " ⇒ "
		}
		pterm.Println(arrow + form)
	}
	if !result.Valid {
		return result.Err
	}
	var ll pterm.LeveledList
	result.Tree.Walk(func(n *rdparse.Node, depth int) {
		text := n.Tag
		if n.Value != "" && n.Value != n.Tag {
			text += " " + n.Value
		}
		ll = append(ll, pterm.LeveledListItem{Level: depth, Text: text})
	})
	tracer().Debugf("|ll| = %d, ll = %v", len(ll), ll)
	pterm.DefaultTree.WithRoot(pterm.NewTreeFromLeveledList(ll)).Render()
	return nil
}

// --- Finite automata -------------------------------------------------------

func (intp *Intp) showAutomaton(A *automata.Automaton) error {
	if v := A.Validate(); !v.IsValid {
		return fmt.Errorf("invalid automaton: %s", strings.Join(v.Errors, "; "))
	}
	pterm.Info.Println("Automaton")
	transitionTable(A)
	dfa := automata.ConvertToDFA(A)
	if dfa != A {
		pterm.Info.Println("Subset construction")
		transitionTable(dfa)
	}
	min, err := automata.Minimize(dfa)
	if err != nil {
		return err
	}
	pterm.Info.Println(fmt.Sprintf("Minimal DFA with %d states", len(min.States())))
	transitionTable(min)
	intp.fa = min
	return nil
}

func transitionTable(A *automata.Automaton) {
	symbols := A.Alphabet()
	for _, q := range A.States() {
		if len(A.Targets(q, automata.Epsilon)) > 0 {
			symbols = append(symbols, automata.Epsilon)
			break
		}
	}
	data := pterm.TableData{append([]string{"δ"}, symbols...)}
	for _, q := range A.States() {
		label := q
		if q == A.Start() {
			label = "→ " + label
		}
		if A.IsFinal(q) {
			label += " *"
		}
		row := []string{label}
		for _, a := range symbols {
			cell := "-"
			if targets := A.Targets(q, a); len(targets) > 0 {
				cell = strings.Join(targets, ",")
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func (intp *Intp) accepts(word []string) error {
	if intp.fa == nil {
		return errors.New("no finite automaton loaded")
	}
	if intp.fa.Accepts(word...) {
		pterm.Info.Println("accepted")
	} else {
		pterm.Info.Println("rejected")
	}
	return nil
}

// --- Pushdown automata -----------------------------------------------------

func (intp *Intp) showMachine(m *dpda.Machine) {
	intp.pda = m
	pterm.Info.Println(m.Spec().String())
	data := pterm.TableData{{"Rule", "Description"}}
	for _, r := range m.Rules() {
		data = append(data, []string{r.String(), r.Description})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func (intp *Intp) run(word string) error {
	if intp.pda == nil {
		return errors.New("no pushdown automaton loaded")
	}
	result := intp.pda.Run(word)
	data := pterm.TableData{{"#", "State", "Input", "Stack", "Rule"}}
	for _, c := range result.History {
		stack := make([]string, len(c.Stack))
		for i, z := range c.Stack {
			stack[len(stack)-1-i] = z
		}
		data = append(data, []string{
			fmt.Sprintf("%d", c.Step),
			c.State,
			orEpsilon(c.Remaining),
			orEpsilon(strings.Join(stack, "")),
			c.Action,
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	if result.Accepted {
		pterm.Info.Println("accepted: " + result.Reason)
	} else {
		pterm.Info.Println("rejected: " + result.Reason)
	}
	return nil
}

func orEpsilon(s string) string {
	if s == "" {
		return dpda.Epsilon
	}
	return s
}

func traceLevel(l string) tracing.TraceLevel {
	return tracing.TraceLevelFromString(l)
}
