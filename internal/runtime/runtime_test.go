package runtime_test

import (
	"context"
	"testing"

	"borth.dev/borth/internal/lang"
	"borth.dev/borth/internal/primitive"
	"borth.dev/borth/internal/runtime"
)

func newTestRuntime(t *testing.T) *runtime.Runtime {
	t.Helper()
	rt := runtime.New()
	primitive.Install(rt)
	if err := rt.SelectVocabulary("user"); err != nil {
		t.Fatalf("SelectVocabulary failed: %v", err)
	}
	return rt
}

func topOf(t *testing.T, rt *runtime.Runtime) lang.Value {
	t.Helper()
	v, err := rt.Target().Peek()
	if err != nil {
		t.Fatalf("Peek failed: %v", err)
	}
	return v
}

func run(t *testing.T, rt *runtime.Runtime, source string) {
	t.Helper()
	if err := rt.Run(context.Background(), source, "", 0); err != nil {
		t.Fatalf("Run(%q) failed: %v", source, err)
	}
}

func TestArithmeticIntPreserving(t *testing.T) {
	rt := newTestRuntime(t)
	run(t, rt, "10 3 +")
	if v := topOf(t, rt); v != int64(13) {
		t.Errorf("expected int64(13), got %#v", v)
	}
}

func TestModSignMatchesGoPercent(t *testing.T) {
	rt := newTestRuntime(t)
	run(t, rt, "-7 3 mod")
	if v := topOf(t, rt); v != int64(-1) {
		t.Errorf("expected -7 mod 3 == -1 (Go %% semantics), got %#v", v)
	}
}

func TestDivisionExactStaysInt(t *testing.T) {
	rt := newTestRuntime(t)
	run(t, rt, "10 5 /")
	if v := topOf(t, rt); v != int64(2) {
		t.Errorf("expected exact division to stay int64, got %#v", v)
	}
}

func TestDivisionInexactFallsBackToFloat(t *testing.T) {
	rt := newTestRuntime(t)
	run(t, rt, "10 3 /")
	v := topOf(t, rt)
	f, ok := v.(float64)
	if !ok {
		t.Fatalf("expected float64 for inexact division, got %#v", v)
	}
	if f < 3.332 || f > 3.334 {
		t.Errorf("unexpected quotient: %v", f)
	}
}

func TestDefinitionAndCall(t *testing.T) {
	rt := newTestRuntime(t)
	run(t, rt, ": square dup * ; 6 square")
	if v := topOf(t, rt); v != int64(36) {
		t.Errorf("expected 36, got %#v", v)
	}
}

func TestIfBranches(t *testing.T) {
	rt := newTestRuntime(t)
	run(t, rt, "true [ 1 ] [ 2 ] if")
	if v := topOf(t, rt); v != int64(1) {
		t.Errorf("expected then-branch result 1, got %#v", v)
	}
	run(t, rt, "false [ 1 ] [ 2 ] if")
	if v := topOf(t, rt); v != int64(2) {
		t.Errorf("expected else-branch result 2, got %#v", v)
	}
}

func TestRedefinitionRecompilesDependents(t *testing.T) {
	rt := newTestRuntime(t)
	run(t, rt, ": base 1 ; : caller base 1 + ; caller")
	if v := topOf(t, rt); v != int64(2) {
		t.Fatalf("expected 2 before redefinition, got %#v", v)
	}
	rt.Target().Pop()

	run(t, rt, ": base 100 ; caller")
	if v := topOf(t, rt); v != int64(101) {
		t.Errorf("expected caller to see redefined base (101), got %#v", v)
	}
}

func TestReferenceGraphDuplicateReferencesCollapse(t *testing.T) {
	rt := newTestRuntime(t)
	run(t, rt, ": foo dup + ; : bar foo foo ;")

	foo, ok := rt.Current().Lookup("foo", true)
	if !ok {
		t.Fatal("expected foo to be defined")
	}
	bar, ok := rt.Current().Lookup("bar", true)
	if !ok {
		t.Fatal("expected bar to be defined")
	}

	if _, ok := bar.References[foo]; !ok {
		t.Error("expected bar.References to include foo")
	}
	if _, ok := foo.ReferencedBy[bar]; !ok {
		t.Error("expected foo.ReferencedBy to include bar")
	}
	if len(bar.References) != 1 {
		t.Errorf("expected bar naming foo twice to collapse to one reference edge, got %d", len(bar.References))
	}
}

func TestPrivateWordNotVisibleToImporter(t *testing.T) {
	rt := runtime.New()
	primitive.Install(rt)

	rt.SelectVocabulary("lib")
	run(t, rt, ":_ helper 42 ; : pub helper ;")

	rt.SelectVocabulary("user")
	if err := rt.ImportVocabulary("lib"); err != nil {
		t.Fatalf("ImportVocabulary failed: %v", err)
	}
	run(t, rt, "pub")
	if v := topOf(t, rt); v != int64(42) {
		t.Errorf("expected pub (which can see its own private helper) to return 42, got %#v", v)
	}

	if err := rt.Run(context.Background(), "helper", "", 0); err == nil {
		t.Error("expected helper (private to lib) to be unresolvable from an importer")
	}
}

func TestUnboundWordAsStringFallback(t *testing.T) {
	rt := runtime.New(runtime.WithDefaultOption("unbound-word-as-string", true))
	primitive.Install(rt)
	rt.SelectVocabulary("user")

	run(t, rt, "totally-unbound-name")
	if v := topOf(t, rt); v != "totally-unbound-name" {
		t.Errorf("expected unbound word pushed as its own name, got %#v", v)
	}
}

func TestUnknownWordErrorsWithoutFallback(t *testing.T) {
	rt := newTestRuntime(t)
	err := rt.Run(context.Background(), "totally-unbound-name", "", 0)
	if err == nil {
		t.Error("expected an error resolving an unbound word with no fallback configured")
	}
}

func TestQuotationExecutesViaDo(t *testing.T) {
	rt := newTestRuntime(t)
	run(t, rt, "[ 1 2 + ] do")
	if v := topOf(t, rt); v != int64(3) {
		t.Errorf("expected quotation executed via do to push 3, got %#v", v)
	}
}

func TestInCoreFailsValidation(t *testing.T) {
	rt := newTestRuntime(t)
	if err := rt.Run(context.Background(), "in: core ;", "", 0); err == nil {
		t.Error("expected in: core to fail validation")
	}
}

func TestVariableWithNoCurrentFails(t *testing.T) {
	rt := runtime.New()
	primitive.Install(rt)
	// Deliberately skip SelectVocabulary: current is still unset.
	if err := rt.Run(context.Background(), "variable x", "", 0); err == nil {
		t.Error("expected variable with no current vocabulary to fail")
	}
}

func TestMapFold(t *testing.T) {
	rt := newTestRuntime(t)
	run(t, rt, "3 iota [ 1 + ] map")
	seq, ok := topOf(t, rt).([]lang.Value)
	if !ok || len(seq) != 3 {
		t.Fatalf("expected a 3-element array, got %#v", topOf(t, rt))
	}
	if seq[0] != int64(1) || seq[1] != int64(2) || seq[2] != int64(3) {
		t.Errorf("expected [1 2 3], got %#v", seq)
	}

	rt.Target().Pop()
	run(t, rt, "5 iota 0 [ + ] fold")
	if v := topOf(t, rt); v != int64(10) {
		t.Errorf("expected sum 0..4 == 10, got %#v", v)
	}
}
