package engine

import (
	"io"

	"go.uber.org/zap"

	"github.com/weavelang/weave/internal/config"
	"github.com/weavelang/weave/internal/eval"
)

// Option configures an Engine at construction time, applied in New() the
// way the teacher's lexer.LexerOption configures a Lexer. The options are
// output mirroring, resource limits (whole, from a config file, or call
// depth / operation count alone), a progress callback, a logger, and the
// strict-variables flag. There are no options for an optimization level,
// shadowing or looping toggles, or a module resolver.
type Option func(*Engine)

// WithOutput directs everything print()/debug() write to w (spec §6
// `Engine.set_print`/`set_debug`). A Result's Output field is always
// populated regardless of this option; WithOutput additionally mirrors
// writes to w as they happen, for a host that wants streaming output.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.extraOutput = w }
}

// WithLimits replaces the engine's default resource limits wholesale
// (spec §7). Use WithConfigFile to load limits from a YAML file instead.
func WithLimits(l config.Limits) Option {
	return func(e *Engine) { e.limits = l.ToEvalLimits() }
}

// WithConfigFile loads resource limits from a YAML file (internal/config),
// layered on top of eval.DefaultLimits(). The engine fails to construct if
// the file cannot be read or parsed.
func WithConfigFile(path string) Option {
	return func(e *Engine) {
		cfg, err := config.Load(path)
		if err != nil {
			e.initErr = err
			return
		}
		e.limits = cfg.ToEvalLimits()
	}
}

// WithMaxCallDepth overrides the call-stack depth limit alone, for a host
// that wants to tune one knob without building a full config.Limits.
func WithMaxCallDepth(n int) Option {
	return func(e *Engine) { e.limits.MaxCallDepth = n }
}

// WithMaxOperations overrides the operation-count limit alone (0 means
// unbounded).
func WithMaxOperations(n uint64) Option {
	return func(e *Engine) { e.limits.MaxOperations = n }
}

// WithProgressCallback registers a callback polled roughly once per
// evaluated operation (spec §6 `Engine.on_progress`); returning false
// aborts the running script with a Terminated error.
func WithProgressCallback(fn eval.ProgressFn) Option {
	return func(e *Engine) { e.progress = fn }
}

// WithLogger attaches a structured logger (default: a no-op logger) used
// for engine-level diagnostics — function, method and sub-module
// registration — not for anything a script itself prints.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithStrictVariables records the strict-variables flag (spec §6) on the
// Engine. Neither the parser nor the evaluator reads it: referencing an
// undeclared variable is a NotFound error at run time whether it is set
// or not, and is never a parse error.
func WithStrictVariables(strict bool) Option {
	return func(e *Engine) { e.strictVariables = strict }
}
