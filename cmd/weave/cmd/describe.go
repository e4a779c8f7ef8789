package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe [file]",
	Short: "Print a script's function/module metadata as JSON",
	Long: `Compile a script and print the spec §6 metadata document: every
script-defined and host-registered function reachable from it, plus the
module tree, as a {modules, customTypes, functions} JSON document
(internal/metadata.Emit).`,
	Args: cobra.ExactArgs(1),
	RunE: describeScript,
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

func describeScript(_ *cobra.Command, args []string) error {
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

	doc, err := e.Metadata(prog)
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	fmt.Println(doc)
	return nil
}
