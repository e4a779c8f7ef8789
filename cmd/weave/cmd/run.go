package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/weavelang/weave/pkg/engine"
)

var evalExpr string

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Weave script file or inline expression",
	Long: `Execute a Weave program from a file or an inline expression.

Examples:
  weave run script.weave
  weave run -e 'print("hello");'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline source instead of reading a file")
}

func runScript(_ *cobra.Command, args []string) error {
	source, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	e, err := newEngine(engine.WithOutput(os.Stdout))
	if err != nil {
		return err
	}

	result, err := e.Eval(source)
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	if !result.Success {
		return fmt.Errorf("%s: execution failed", filename)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "result: %#v\n", result.Value)
	}
	return nil
}

// readSource resolves the script source from either the -e flag or a
// single file argument (teacher's run.go "either a file path or -e").
func readSource(inline string, args []string) (source, filename string, err error) {
	if inline != "" {
		return inline, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e for inline source")
}
