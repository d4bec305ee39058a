package main

import (
	"bufio"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/lrgo/lr/parser"
	"github.com/npillmayer/lrgo/runtime"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var replFlags = struct {
	init *string
	tree *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Read lines and evaluate them with a persistent runtime",
		Example: `  lrtool repl
  lrtool> let x = 6
  lrtool> x * 7`,
		Args: cobra.NoArgs,
		RunE: runREPL,
	}
	replFlags.init = cmd.Flags().String("init", "", "file with lines to evaluate initially")
	replFlags.tree = cmd.Flags().Bool("tree", false, "print the parse tree of every line")
	rootCmd.AddCommand(cmd)
}

// Intp is our interpreter object
type Intp struct {
	parser *parser.Parser
	env    *runtime.Runtime
	repl   *readline.Instance
	tree   bool
}

func runREPL(cmd *cobra.Command, args []string) error {
	g, lexer, err := loadGrammar()
	if err != nil {
		return err
	}
	env := runtime.NewRuntime()
	p, err := parser.New(g, parser.WithLexer(lexer), parser.WithRuntime(env))
	if err != nil {
		return err
	}
	repl, err := readline.New("lrtool> ")
	if err != nil {
		return err
	}
	defer repl.Close()
	intp := &Intp{parser: p, env: env, repl: repl, tree: *replFlags.tree}
	pterm.Info.Println("Welcome to lrtool, grammar is " + g.Name)
	tracer().Infof("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.loadInitFile(*replFlags.init)
	intp.REPL()
	return nil
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
	lineno := 1
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			if _, err := intp.Eval(line); err != nil {
				pterm.Error.Printf("line %d: %v\n", lineno, err)
			}
		}
		lineno++
	}
	if err := scanner.Err(); err != nil {
		tracer().Errorf("Error while reading init file: " + err.Error())
	}
}

// REPL reads lines until end of input and evaluates each one.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		value, err := intp.Eval(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		printValue(value)
	}
	println("Good bye!")
}

// Eval parses and evaluates a line of input. Variable assignments persist
// in the runtime of the interpreter.
func (intp *Intp) Eval(line string) (interface{}, error) {
	root, err := intp.parser.Parse(line)
	if err != nil {
		return nil, err
	}
	if intp.tree {
		printTree(root)
	}
	return intp.parser.Value(), nil
}
