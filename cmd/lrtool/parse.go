package main

import (
	"strings"

	"github.com/npillmayer/lrgo/lr/parser"
	"github.com/npillmayer/lrgo/lr/tree"
	"github.com/npillmayer/lrgo/runtime"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	steps *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse <input>",
		Short:   "Parse an input and print its parse tree and value",
		Example: `  lrtool parse "2 + 3 * 4"`,
		Args:    cobra.MinimumNArgs(1),
		RunE:    runParse,
	}
	parseFlags.steps = cmd.Flags().Bool("steps", false, "print the steps of the parser")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	g, lexer, err := loadGrammar()
	if err != nil {
		return err
	}
	p, err := parser.New(g, parser.WithLexer(lexer), parser.WithRuntime(runtime.NewRuntime()))
	if err != nil {
		return err
	}
	for _, w := range p.Warnings() {
		pterm.Warning.Println(w)
	}
	input := strings.Join(args, " ")
	tracer().Infof("input argument is %q", input)
	root, err := p.Parse(input)
	if *parseFlags.steps {
		for _, step := range p.Trace() {
			pterm.Println(step.String())
		}
	}
	if err != nil {
		return err
	}
	printTree(root)
	printValue(p.Value())
	return nil
}

// printTree displays a parse tree on a terminal.
func printTree(root *tree.Node) {
	pterm.DefaultTree.WithRoot(pterm.NewTreeFromLeveledList(leveledList(root))).Render()
}

func leveledList(root *tree.Node) pterm.LeveledList {
	var ll pterm.LeveledList
	root.Walk(func(node *tree.Node, depth int) bool {
		text := node.Symbol.Name
		if node.IsLeaf() {
			text = node.Token.String()
		}
		ll = append(ll, pterm.LeveledListItem{Level: depth, Text: text})
		return true
	})
	return ll
}
