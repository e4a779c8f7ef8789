package engine_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/weavelang/weave/pkg/engine"
)

// TestRegisterFunctionAndEval mirrors the teacher's
// TestRegisterSimpleFunction: a registered Go function is callable from
// script, its result flows back as the program's value, and print()
// output is captured.
func TestRegisterFunctionAndEval(t *testing.T) {
	e, err := engine.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.RegisterFunction("add_numbers", func(a, b int64) int64 { return a + b }); err != nil {
		t.Fatalf("RegisterFunction: %v", err)
	}

	result, err := e.Eval(`
		let sum = add_numbers(40, 2);
		print(sum);
		sum;
	`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got err=%v", result.Err)
	}
	if got := strings.TrimSpace(result.Output); got != "42" {
		t.Errorf("Output = %q, want %q", got, "42")
	}
	if n, ok := result.Value.(int64); !ok || n != 42 {
		t.Errorf("Value = %#v, want int64(42)", result.Value)
	}
}

// TestRegisterFunctionWithErrorPropagates mirrors the teacher's
// TestRegisterFunctionWithError: a registered function's returned error
// surfaces as a failed Result rather than a panic.
func TestRegisterFunctionWithErrorPropagates(t *testing.T) {
	e, err := engine.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.RegisterFunction("divide", func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, errors.New("division by zero")
		}
		return a / b, nil
	}); err != nil {
		t.Fatalf("RegisterFunction: %v", err)
	}

	result, err := e.Eval(`divide(10, 2);`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if n, ok := result.Value.(int64); !ok || n != 5 {
		t.Errorf("Value = %#v, want int64(5)", result.Value)
	}

	result, err = e.Eval(`divide(10, 0);`)
	if err == nil {
		t.Fatal("expected an error dividing by zero")
	}
	if result.Success {
		t.Error("expected Result.Success = false")
	}
}

// counter is a plain Go struct whose bound method is registered via
// RegisterMethod (teacher's ffi_methods_test.go "Option 2" pattern).
type counter struct{ n int64 }

func (c *counter) Increment(by int64) int64 {
	c.n += by
	return c.n
}

func TestRegisterMethod(t *testing.T) {
	e, err := engine.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c := &counter{}
	if err := e.RegisterMethod("increment", c, "Increment"); err != nil {
		t.Fatalf("RegisterMethod: %v", err)
	}

	result, err := e.Eval(`
		increment(5);
		increment(5);
	`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if n, ok := result.Value.(int64); !ok || n != 10 {
		t.Errorf("Value = %#v, want int64(10)", result.Value)
	}
	if c.n != 10 {
		t.Errorf("counter.n = %d, want 10", c.n)
	}
}

func TestRegisterFunctionInModule(t *testing.T) {
	e, err := engine.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.RegisterFunctionIn("math", "square", func(x int64) int64 { return x * x }); err != nil {
		t.Fatalf("RegisterFunctionIn: %v", err)
	}

	result, err := e.Eval(`math.square(6);`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if n, ok := result.Value.(int64); !ok || n != 36 {
		t.Errorf("Value = %#v, want int64(36)", result.Value)
	}
}

func TestCompileReportsParseErrors(t *testing.T) {
	e, err := engine.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := e.Compile(`let = ;`); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestMetadataListsRegisteredFunctions(t *testing.T) {
	e, err := engine.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.RegisterFunction("greet", func(name string) string { return "hi " + name }); err != nil {
		t.Fatalf("RegisterFunction: %v", err)
	}
	prog, err := e.Compile(`fn double(x) { x * 2 }`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	doc, err := e.Metadata(prog)
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if !strings.Contains(doc, `"greet"`) {
		t.Errorf("metadata document missing registered function %q: %s", "greet", doc)
	}
	if !strings.Contains(doc, `"double"`) {
		t.Errorf("metadata document missing script function %q: %s", "double", doc)
	}
}
