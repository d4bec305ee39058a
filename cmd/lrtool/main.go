/*
Command lrtool is an interactive command line tool for grammars and parsers
of package lr. It serves as a sandbox for experiments with LR parse tables,
useful for early stages of parser/interpreter development.

Without a grammar file, lrtool uses a built-in calculator grammar:

	Stmt ➞ let id = E  |  E
	E    ➞ E + E  |  E - E  |  E * E  |  E / E  |  ( E )  |  num  |  id

Commands are

	lrtool table            print the parse table and its conflicts
	lrtool parse <input>    parse an input and print the tree and its value
	lrtool repl             read and evaluate lines interactively

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"fmt"
	"os"

	"github.com/npillmayer/schuko/tracing"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// tracer traces with key 'lrgo.cli'
func tracer() tracing.Trace {
	return tracing.Select("lrgo.cli")
}

var rootFlags = struct {
	grammar *string
	trace   *string
	variant *string
}{}

var rootCmd = &cobra.Command{
	Use:   "lrtool",
	Short: "Build LR parse tables and parse input with them",
	Long: `lrtool creates SLR or LR(1) parse tables for a grammar, either
the built-in calculator grammar or one declared in a YAML file,
and parses input with them.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initDisplay()
		level := tracing.TraceLevelFromString(*rootFlags.trace)
		for _, key := range []string{"lrgo.cli", "lrgo.lr", "lrgo.scanner", "lrgo.runtime"} {
			tracing.Select(key).SetTraceLevel(level)
		}
		tracer().Debugf("trace level is %s", *rootFlags.trace)
	},
}

func init() {
	rootFlags.grammar = rootCmd.PersistentFlags().StringP("grammar", "g", "", "YAML grammar file (default: calculator)")
	rootFlags.trace = rootCmd.PersistentFlags().StringP("trace", "t", "Error", "trace level [Debug|Info|Error]")
	rootFlags.variant = rootCmd.PersistentFlags().StringP("variant", "v", "", "table variant [slr|lr1] (default: as declared)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func printValue(v interface{}) {
	if v == nil {
		pterm.Info.Println("nil")
		return
	}
	pterm.Info.Println(fmt.Sprintf("%v", v))
}
