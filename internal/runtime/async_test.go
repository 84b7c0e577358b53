package runtime_test

import (
	"context"
	"testing"
	"time"

	"borth.dev/borth/internal/lang"
	"borth.dev/borth/internal/primitive"
	"borth.dev/borth/internal/runtime"
)

func TestSpawnSuspendsUntilResolved(t *testing.T) {
	rt := newTestRuntime(t)
	rt.Def("slow-double", 1, false, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		n := args[0].(int64)
		v := runtime.Spawn(func() (lang.Value, error) {
			time.Sleep(10 * time.Millisecond)
			return n * 2, nil
		})
		return []lang.Value{v}, nil
	})

	run(t, rt, "21 slow-double")
	if v := topOf(t, rt); v != int64(42) {
		t.Errorf("expected the executor to block on the Awaitable and push 42, got %#v", v)
	}
}

func TestSpawnRespectsContextCancellation(t *testing.T) {
	rt := newTestRuntime(t)
	rt.Def("never-resolves", 0, false, func(inv lang.Invoker, args []lang.Value) ([]lang.Value, error) {
		v := runtime.Spawn(func() (lang.Value, error) {
			time.Sleep(time.Hour)
			return nil, nil
		})
		return []lang.Value{v}, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := rt.Run(ctx, "never-resolves", "", 0)
	if err == nil {
		t.Error("expected Run to fail once the context is canceled mid-await")
	}
}

func TestChronRegistryStopAllIsIdempotent(t *testing.T) {
	rt := newTestRuntime(t)
	fired := make(chan struct{}, 1)
	rt.Chrons().After("once", 5*time.Millisecond, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	rt.StopAllChrons()
	rt.StopAllChrons() // must not panic or block
}

func TestVocabularyResolverIsIdempotent(t *testing.T) {
	calls := 0
	rt := runtime.New(runtime.WithVocabularyFactory("aux", func(rt *runtime.Runtime) (*lang.Vocabulary, error) {
		calls++
		return lang.NewVocabulary("aux"), nil
	}))
	primitive.Install(rt)
	rt.SelectVocabulary("user")

	if err := rt.ImportVocabulary("aux"); err != nil {
		t.Fatalf("first ImportVocabulary failed: %v", err)
	}
	rt.SelectVocabulary("other")
	if err := rt.ImportVocabulary("aux"); err != nil {
		t.Fatalf("second ImportVocabulary failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected the factory to run exactly once, ran %d times", calls)
	}
}
