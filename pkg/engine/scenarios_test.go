package engine_test

import (
	"strings"
	"testing"

	"github.com/weavelang/weave/pkg/engine"
)

// TestSpecScenarios runs spec.md §8's six concrete scenarios as literal
// source text through the public embedding API, the way a host actually
// exercises the engine rather than through hand-built AST nodes. Each
// subtest name matches the scenario it covers.
func TestSpecScenarios(t *testing.T) {
	t.Run("arithmetic", func(t *testing.T) {
		e, err := engine.New()
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		result, err := e.Eval(`40 + 2;`)
		if err != nil {
			t.Fatalf("Eval: %v", err)
		}
		if !result.Success {
			t.Fatalf("expected success, got err=%v", result.Err)
		}
		if n, ok := result.Value.(int64); !ok || n != 42 {
			t.Errorf("Value = %#v, want int64(42)", result.Value)
		}
	})

	t.Run("closure capture", func(t *testing.T) {
		e, err := engine.New()
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		result, err := e.Eval(`
			let x = 10;
			let f = |a| a + x;
			f(32);
		`)
		if err != nil {
			t.Fatalf("Eval: %v", err)
		}
		if !result.Success {
			t.Fatalf("expected success, got err=%v", result.Err)
		}
		if n, ok := result.Value.(int64); !ok || n != 42 {
			t.Errorf("Value = %#v, want int64(42)", result.Value)
		}
	})

	t.Run("array binding copies, not aliases", func(t *testing.T) {
		e, err := engine.New()
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		result, err := e.Eval(`
			let a = [1, 2, 3];
			let b = a;
			b.push(4);
			a.len();
		`)
		if err != nil {
			t.Fatalf("Eval: %v", err)
		}
		if !result.Success {
			t.Fatalf("expected success, got err=%v", result.Err)
		}
		if n, ok := result.Value.(int64); !ok || n != 3 {
			t.Errorf("Value = %#v, want int64(3) (a must not observe b's push)", result.Value)
		}
	})

	t.Run("missing map key is catchable", func(t *testing.T) {
		e, err := engine.New()
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		result, err := e.Eval(`
			let m = #{a: 1};
			try {
				m.b + 1;
			} catch(e) {
				99;
			}
		`)
		if err != nil {
			t.Fatalf("Eval: %v", err)
		}
		if !result.Success {
			t.Fatalf("expected success, got err=%v", result.Err)
		}
		if n, ok := result.Value.(int64); !ok || n != 99 {
			t.Errorf("Value = %#v, want int64(99)", result.Value)
		}
	})

	t.Run("existing map key reads through dot access", func(t *testing.T) {
		e, err := engine.New()
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		result, err := e.Eval(`
			let m = #{a: 1};
			m.a;
		`)
		if err != nil {
			t.Fatalf("Eval: %v", err)
		}
		if !result.Success {
			t.Fatalf("expected success, got err=%v", result.Err)
		}
		if n, ok := result.Value.(int64); !ok || n != 1 {
			t.Errorf("Value = %#v, want int64(1)", result.Value)
		}
	})

	t.Run("sieve of eratosthenes", func(t *testing.T) {
		e, err := engine.New()
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		result, err := e.Eval(`
			let n = 100;
			let is_composite = [];
			for i in 0..=n {
				is_composite.push(false);
			}
			let count = 0;
			let i = 2;
			while i * i <= n {
				if !is_composite[i] {
					let j = i * i;
					while j <= n {
						is_composite[j] = true;
						j = j + i;
					}
				}
				i = i + 1;
			}
			let k = 2;
			while k <= n {
				if !is_composite[k] {
					count = count + 1;
					print(k);
				}
				k = k + 1;
			}
			print(`Total ${count} primes.`);
		`)
		if err != nil {
			t.Fatalf("Eval: %v", err)
		}
		if !result.Success {
			t.Fatalf("expected success, got err=%v", result.Err)
		}
		if !strings.Contains(result.Output, "Total 25 primes.") {
			t.Errorf("Output = %q, want it to contain %q", result.Output, "Total 25 primes.")
		}
		if !strings.Contains(result.Output, "97") {
			t.Errorf("Output = %q, want it to contain the last prime below 100, 97", result.Output)
		}
	})

	t.Run("assignment to a const is a compile error", func(t *testing.T) {
		e, err := engine.New()
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		_, err = e.Eval(`
			const X = 5;
			X = 7;
		`)
		if err == nil {
			t.Fatal("expected a parse error assigning to a const")
		}
		if !strings.Contains(err.Error(), "constant") {
			t.Errorf("error = %q, want it to mention the constant", err.Error())
		}
	})
}
