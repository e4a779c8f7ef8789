// Package config loads the resource-limit configuration a host can ship
// alongside an embedded engine (SPEC_FULL.md §1.3, spec §7 "Resource
// limits (all configurable, 0 = unlimited)"). In-process configuration
// stays a functional-options API on pkg/engine, matching the teacher's
// LexerOption/Option pattern; this package covers only the on-disk form,
// for the CLI and for hosts that want to hand operators a plain YAML
// file instead of Go code.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/weavelang/weave/internal/eval"
)

// Limits is the YAML-facing mirror of eval.Limits (its eight resource
// knobs, field for field). A separate struct — rather than yaml tags directly on
// eval.Limits — keeps internal/eval free of a config-file dependency it
// has no other reason to import.
type Limits struct {
	MaxOperations uint64 `yaml:"max_operations"`
	MaxCallDepth  int    `yaml:"max_call_depth"`
	MaxExprDepth  int    `yaml:"max_expr_depth"`
	MaxArrayLen   int    `yaml:"max_array_len"`
	MaxStringLen  int    `yaml:"max_string_len"`
	MaxMapLen     int    `yaml:"max_map_len"`
	MaxLocalVars  int    `yaml:"max_local_vars"`
	MaxModules    int    `yaml:"max_modules"`
}

// Config is the top-level shape of a resource-limit file.
type Config struct {
	Limits Limits `yaml:"limits"`
}

// Default returns a Config whose Limits mirror eval.DefaultLimits().
func Default() Config {
	d := eval.DefaultLimits()
	return Config{Limits: Limits{
		MaxOperations: d.MaxOperations,
		MaxCallDepth:  d.MaxCallDepth,
		MaxExprDepth:  d.MaxExprDepth,
		MaxArrayLen:   d.MaxArrayLen,
		MaxStringLen:  d.MaxStringLen,
		MaxMapLen:     d.MaxMapLen,
		MaxLocalVars:  d.MaxLocalVars,
		MaxModules:    d.MaxModules,
	}}
}

// Load reads and parses a resource-limit YAML file at path, starting
// from Default() so a file only needs to mention the knobs it overrides.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes raw YAML bytes into a Config layered on top of Default().
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects a negative limit; 0 means unlimited, negative never
// makes sense and is almost always a typo'd override.
func (c Config) Validate() error {
	l := c.Limits
	fields := map[string]int64{
		"max_call_depth": int64(l.MaxCallDepth),
		"max_expr_depth": int64(l.MaxExprDepth),
		"max_array_len":  int64(l.MaxArrayLen),
		"max_string_len": int64(l.MaxStringLen),
		"max_map_len":    int64(l.MaxMapLen),
		"max_local_vars": int64(l.MaxLocalVars),
		"max_modules":    int64(l.MaxModules),
	}
	for name, v := range fields {
		if v < 0 {
			return fmt.Errorf("config: %s must be >= 0, got %d", name, v)
		}
	}
	return nil
}

// ToEvalLimits converts to the shape internal/eval actually consumes.
func (c Config) ToEvalLimits() eval.Limits {
	return c.Limits.ToEvalLimits()
}

// ToEvalLimits converts to the shape internal/eval actually consumes.
func (l Limits) ToEvalLimits() eval.Limits {
	return eval.Limits{
		MaxOperations: l.MaxOperations,
		MaxCallDepth:  l.MaxCallDepth,
		MaxExprDepth:  l.MaxExprDepth,
		MaxArrayLen:   l.MaxArrayLen,
		MaxStringLen:  l.MaxStringLen,
		MaxMapLen:     l.MaxMapLen,
		MaxLocalVars:  l.MaxLocalVars,
		MaxModules:    l.MaxModules,
	}
}
