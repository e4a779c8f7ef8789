package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultMatchesEvalDefaults(t *testing.T) {
	cfg := Default()
	evalLimits := cfg.ToEvalLimits()
	if evalLimits.MaxCallDepth != 1024 {
		t.Errorf("MaxCallDepth = %d, want 1024", evalLimits.MaxCallDepth)
	}
	if evalLimits.MaxExprDepth != 256 {
		t.Errorf("MaxExprDepth = %d, want 256", evalLimits.MaxExprDepth)
	}
	if evalLimits.MaxOperations != 0 {
		t.Errorf("MaxOperations = %d, want 0 (unbounded)", evalLimits.MaxOperations)
	}
}

func TestParseOverridesOnlyNamedFields(t *testing.T) {
	cfg, err := Parse([]byte(`
limits:
  max_call_depth: 64
  max_string_len: 4096
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Limits.MaxCallDepth != 64 {
		t.Errorf("MaxCallDepth = %d, want 64", cfg.Limits.MaxCallDepth)
	}
	if cfg.Limits.MaxStringLen != 4096 {
		t.Errorf("MaxStringLen = %d, want 4096", cfg.Limits.MaxStringLen)
	}
	// Untouched fields should still carry the Default() value.
	if cfg.Limits.MaxExprDepth != 256 {
		t.Errorf("MaxExprDepth = %d, want default 256", cfg.Limits.MaxExprDepth)
	}
}

func TestParseRejectsNegativeLimit(t *testing.T) {
	_, err := Parse([]byte(`
limits:
  max_operations: 1000
  max_call_depth: -5
`))
	if err == nil {
		t.Fatal("expected an error for a negative limit")
	}
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "limits.yaml")
	content := "limits:\n  max_operations: 500000\n  max_modules: 8\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Limits.MaxOperations != 500000 {
		t.Errorf("MaxOperations = %d, want 500000", cfg.Limits.MaxOperations)
	}
	if cfg.Limits.MaxModules != 8 {
		t.Errorf("MaxModules = %d, want 8", cfg.Limits.MaxModules)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestToEvalLimitsRoundTrips(t *testing.T) {
	cfg, err := Parse([]byte(`
limits:
  max_operations: 1
  max_call_depth: 2
  max_expr_depth: 3
  max_array_len: 4
  max_string_len: 5
  max_map_len: 6
  max_local_vars: 7
  max_modules: 8
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	el := cfg.ToEvalLimits()
	want := [8]int{1, 2, 3, 4, 5, 6, 7, 8}
	got := [8]int{
		int(el.MaxOperations), el.MaxCallDepth, el.MaxExprDepth, el.MaxArrayLen,
		el.MaxStringLen, el.MaxMapLen, el.MaxLocalVars, el.MaxModules,
	}
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
