package borth

import (
	"context"
	"testing"

	"borth.dev/borth/internal/card"
)

func topValue(t *testing.T, rt *Runtime) interface{} {
	t.Helper()
	s := rt.Stack()
	if len(s) == 0 {
		t.Fatal("stack is empty")
	}
	return s[len(s)-1]
}

func TestScenarioBasicComputation(t *testing.T) {
	rt := New(WithMemoryStore())
	defer rt.Close()
	if err := rt.Run(context.Background(), "in: t ; 5 dup +"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if v := topValue(t, rt); v != int64(10) {
		t.Errorf("expected 10, got %#v", v)
	}
}

func TestScenarioRecompilationCorrectness(t *testing.T) {
	rt := New(WithMemoryStore())
	defer rt.Close()
	ctx := context.Background()

	if err := rt.Run(ctx, "in: t ; : foo 1 ; : bar foo ; bar"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if v := topValue(t, rt); v != int64(1) {
		t.Fatalf("expected 1, got %#v", v)
	}

	if err := rt.Run(ctx, ": foo 2 ; bar"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if v := topValue(t, rt); v != int64(2) {
		t.Errorf("expected 2 after redefining foo, got %#v", v)
	}
}

func TestScenarioPrivateIsolation(t *testing.T) {
	rt := New(WithMemoryStore())
	defer rt.Close()

	if err := rt.Run(context.Background(), "in: utils ; :_ internal 42 ;"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	utils := rt.rt.Current()
	if _, ok := utils.Lookup("internal", false); ok {
		t.Error("expected internal to be invisible with includePrivate=false")
	}
	if _, ok := utils.Lookup("internal", true); !ok {
		t.Error("expected internal to be visible with includePrivate=true")
	}
}

func TestScenarioShadowingOrder(t *testing.T) {
	rt := New(WithMemoryStore())
	defer rt.Close()
	ctx := context.Background()

	if err := rt.Run(ctx, `in: v1 ; : greet " hello" ;`); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if err := rt.Run(ctx, `in: v2 ; : greet " hi" ;`); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if err := rt.SelectVocabulary("user"); err != nil {
		t.Fatalf("SelectVocabulary failed: %v", err)
	}
	if err := rt.Run(ctx, "using: v1 ; using: v2 ; greet"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if v := topValue(t, rt); v != "hi" {
		t.Errorf("expected the later-imported v2's greet (\"hi\") to shadow v1's, got %#v", v)
	}
}

func TestScenarioCardVersioningAndProvenance(t *testing.T) {
	rt := New(WithMemoryStore())
	defer rt.Close()
	ctx := context.Background()

	rt.SelectVocabulary("user")

	c1, err := rt.Cards().CreateCard(nil, ": base 1 ;")
	if err != nil {
		t.Fatalf("CreateCard(C1) failed: %v", err)
	}
	if err := rt.RunCard(ctx, c1); err != nil {
		t.Fatalf("RunCard(C1) failed: %v", err)
	}

	c2, err := rt.Cards().CreateCard(nil, ": user base ;")
	if err != nil {
		t.Fatalf("CreateCard(C2) failed: %v", err)
	}
	if err := rt.RunCard(ctx, c2); err != nil {
		t.Fatalf("RunCard(C2) failed: %v", err)
	}

	baseWord, ok := rt.rt.Current().Lookup("base", true)
	if !ok {
		t.Fatal("expected base to be defined")
	}
	if baseWord.Provenance == nil || baseWord.Provenance.CardID != c1 || baseWord.Provenance.Version != 0 {
		t.Errorf("expected base's provenance to be (%s, 0), got %+v", c1, baseWord.Provenance)
	}

	userWord, ok := rt.rt.Current().Lookup("user", true)
	if !ok {
		t.Fatal("expected user to be defined")
	}
	if userWord.Provenance == nil || userWord.Provenance.CardID != c2 || userWord.Provenance.Version != 0 {
		t.Errorf("expected user's provenance to be (%s, 0), got %+v", c2, userWord.Provenance)
	}

	if _, err := rt.Cards().EditCard(c1, ": base 2 ;"); err != nil {
		t.Fatalf("EditCard(C1) failed: %v", err)
	}
	if err := rt.RunCard(ctx, c1); err != nil {
		t.Fatalf("RunCard(C1 v1) failed: %v", err)
	}

	userWord, _ = rt.rt.Current().Lookup("user", true)
	if userWord.Provenance.CardID != c2 || userWord.Provenance.Version != 0 {
		t.Errorf("expected user's provenance to remain (%s, 0) after base was redefined, got %+v", c2, userWord.Provenance)
	}

	if err := rt.Run(ctx, "user"); err != nil {
		t.Fatalf("Run(user) failed: %v", err)
	}
	if v := topValue(t, rt); v != int64(2) {
		t.Errorf("expected user to now yield 2, got %#v", v)
	}
}

func TestScenarioRollbackReversibility(t *testing.T) {
	store := card.NewMemory()
	defer store.Close()

	id, err := store.CreateCard(nil, "original")
	if err != nil {
		t.Fatalf("CreateCard failed: %v", err)
	}
	if _, err := store.EditCard(id, "changed"); err != nil {
		t.Fatalf("EditCard failed: %v", err)
	}

	if _, err := store.RollbackCard(id, 0); err != nil {
		t.Fatalf("RollbackCard(0) failed: %v", err)
	}
	source, _, _ := store.GetCardSource(id)
	if source != "original" {
		t.Fatalf("expected source to be restored to 'original', got %q", source)
	}

	if _, err := store.RollbackCard(id, 1); err != nil {
		t.Fatalf("RollbackCard(1) failed: %v", err)
	}
	source, _, _ = store.GetCardSource(id)
	if source != "changed" {
		t.Errorf("expected source to be restored to 'changed', got %q", source)
	}
}

func TestInCoreFailsValidation(t *testing.T) {
	rt := New(WithMemoryStore())
	defer rt.Close()
	if err := rt.Run(context.Background(), "in: core ;"); err == nil {
		t.Error("expected in: core to fail validation")
	}
}

