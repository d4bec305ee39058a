package main

import (
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var tableFlags = struct {
	html *string
	dot  *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "table",
		Short:   "Print the parse table of a grammar",
		Example: `  lrtool table --variant lr1 --dot cfsm.dot`,
		Args:    cobra.NoArgs,
		RunE:    runTable,
	}
	tableFlags.html = cmd.Flags().String("html", "", "write the table as HTML to a file")
	tableFlags.dot = cmd.Flags().String("dot", "", "write the canonical collection in GraphViz format to a file")
	rootCmd.AddCommand(cmd)
}

func runTable(cmd *cobra.Command, args []string) error {
	g, _, err := loadGrammar()
	if err != nil {
		return err
	}
	table, err := g.Table()
	if err != nil {
		return err
	}
	pterm.Println(g.String())
	pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData(table.Rows())).Render()
	for _, c := range table.Conflicts() {
		if c.Resolved {
			pterm.Info.Println(c.String())
		} else {
			pterm.Error.Println(c.String())
		}
	}
	if *tableFlags.html != "" {
		if err := writeFile(*tableFlags.html, table.ToHTML); err != nil {
			return err
		}
	}
	if *tableFlags.dot != "" {
		if err := writeFile(*tableFlags.dot, table.CanonicalCollection().ToGraphViz); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	tracer().Infof("wrote %s", path)
	return f.Close()
}
