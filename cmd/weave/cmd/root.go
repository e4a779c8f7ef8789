package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weavelang/weave/pkg/engine"
)

// Version information, set by build flags (mirrors the teacher's
// cmd/dwscript/cmd/root.go).
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "weave",
	Short: "Weave scripting engine",
	Long: `weave is the reference command-line front end for the Weave
embeddable dynamic scripting engine: a Rhai-flavoured language with a
tree-walking evaluator, hash-resolved function dispatch, and a small
host-configurable standard library.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML file of resource limits (see internal/config)")
}

// newEngine builds an Engine honoring the shared --config flag, the one
// piece of setup every subcommand that runs or compiles a script needs.
func newEngine(opts ...engine.Option) (*engine.Engine, error) {
	if configPath != "" {
		opts = append([]engine.Option{engine.WithConfigFile(configPath)}, opts...)
	}
	e, err := engine.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("weave: %w", err)
	}
	return e, nil
}
