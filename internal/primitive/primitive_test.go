package primitive_test

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

func run(t *testing.T, rt *runtime.Runtime, source string) {
	t.Helper()
	if err := rt.Run(context.Background(), source, "", 0); err != nil {
		t.Fatalf("Run(%q) failed: %v", source, err)
	}
}

func top(t *testing.T, rt *runtime.Runtime) lang.Value {
	t.Helper()
	v, err := rt.Target().Peek()
	if err != nil {
		t.Fatalf("Peek failed: %v", err)
	}
	return v
}

func TestStackShuffling(t *testing.T) {
	rt := newTestRuntime(t)
	run(t, rt, "1 2 swap")
	seq := rt.Target().(*runtime.Stack).Values()
	if seq[len(seq)-2] != int64(2) || seq[len(seq)-1] != int64(1) {
		t.Errorf("expected swap to reorder to [2 1], got %+v", seq)
	}
}

func TestStringPrimitives(t *testing.T) {
	rt := newTestRuntime(t)
	run(t, rt, `" hello" " world" concat`)
	if v := top(t, rt); v != "helloworld" {
		t.Errorf("expected \"helloworld\", got %#v", v)
	}

	run(t, rt, `"  padded  " trim`)
	if v := top(t, rt); v != "padded" {
		t.Errorf("expected trimmed string, got %#v", v)
	}

	run(t, rt, `" hello" " ell" includes`)
	if v := top(t, rt); v != true {
		t.Errorf("expected includes to return true, got %#v", v)
	}
}

func TestRecordGetSet(t *testing.T) {
	rt := newTestRuntime(t)
	run(t, rt, `[ " a" 1 " b" 2 ] structure`)
	rec, ok := top(t, rt).(map[string]lang.Value)
	if !ok {
		t.Fatalf("expected a record, got %#v", top(t, rt))
	}
	if rec["a"] != int64(1) || rec["b"] != int64(2) {
		t.Errorf("unexpected structure result: %+v", rec)
	}

	run(t, rt, `" c" 3 .set`)
	rec, _ = top(t, rt).(map[string]lang.Value)
	if rec["c"] != int64(3) || rec["a"] != int64(1) {
		t.Errorf("expected .set to add a key while preserving others, got %+v", rec)
	}
}

func TestExtractInverseOfStructure(t *testing.T) {
	rt := newTestRuntime(t)
	run(t, rt, `[ " a" 1 " b" 2 ] structure [ " b" " a" ] extract`)
	seq, ok := top(t, rt).([]lang.Value)
	if !ok || len(seq) != 2 {
		t.Fatalf("expected a 2-element array, got %#v", top(t, rt))
	}
	if seq[0] != int64(2) || seq[1] != int64(1) {
		t.Errorf("expected extract to follow key order [b a] -> [2 1], got %+v", seq)
	}
}

func TestVariableReadWrite(t *testing.T) {
	rt := newTestRuntime(t)
	run(t, rt, "variable counter")

	w, ok := rt.Current().Lookup("counter", true)
	if !ok {
		t.Fatal("expected counter to be defined")
	}
	if w.Kind != lang.KindVariable {
		t.Fatalf("expected KindVariable, got %v", w.Kind)
	}
	if w.Read() != nil {
		t.Errorf("expected a fresh variable to read nil, got %#v", w.Read())
	}

	w.Write(int64(5))
	run(t, rt, "counter")
	if v := top(t, rt); v != int64(5) {
		t.Errorf("expected executing the variable to push its current value 5, got %#v", v)
	}
}

func TestLengthAcrossKinds(t *testing.T) {
	rt := newTestRuntime(t)
	run(t, rt, `" hello" length`)
	if v := top(t, rt); v != int64(5) {
		t.Errorf("expected string length 5, got %#v", v)
	}
	run(t, rt, `3 iota length`)
	if v := top(t, rt); v != int64(3) {
		t.Errorf("expected array length 3, got %#v", v)
	}
}

func TestExitStopsTimesEarly(t *testing.T) {
	rt := newTestRuntime(t)
	// times runs its body for each index; exit should stop further
	// iterations without propagating as a runtime error (control.go's
	// runsLoopBody swallows exactly one ExitSignal).
	run(t, rt, ": stop-at-2 dup 2 = [ exit ] [ drop ] if ; 5 [ stop-at-2 ] times")
}
