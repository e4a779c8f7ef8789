// Command weave is the reference CLI for the embeddable scripting engine
// (spec §6), a thin front end over pkg/engine.
//
// Grounded on the teacher's cmd/dwscript: a cobra command tree with a
// version stamped at build time plus run/compile/describe subcommands,
// collapsed to Weave's much smaller feature set (no bytecode backend —
// SPEC_FULL.md's Non-goals exclude a bytecode/streaming pipeline, so
// `compile` here validates and optionally dumps the AST rather than
// serializing a .dwc file).
package main

import (
	"fmt"
	"os"

	"github.com/weavelang/weave/cmd/weave/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
