package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dumpAST bool

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Parse a Weave script and report any errors",
	Long: `Parse a Weave script without running it, reporting every collected
parse error (spec §4.1: parse errors are batched, not reported one at a
time). Use --dump-ast to print the resulting syntax tree.`,
	Args: cobra.ExactArgs(1),
	RunE: compileScript,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed AST")
}

func compileScript(_ *cobra.Command, args []string) error {
	source, filename, err := readSource("", args)
	if err != nil {
		return err
	}

	e, err := newEngine()
	if err != nil {
		return err
	}

	prog, err := e.Compile(source)
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}

	if dumpAST {
		fmt.Println(prog.String())
	}
	fmt.Printf("%s: OK\n", filename)
	return nil
}
