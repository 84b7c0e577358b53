package card

import (
	"os"
	"testing"
)

func testStores(t *testing.T) []Store {
	t.Helper()
	f, err := os.CreateTemp("", "borth-test-*.db")
	if err != nil {
		t.Fatalf("CreateTemp failed: %v", err)
	}
	path := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(path) })

	sqlite, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return []Store{NewMemory(), sqlite}
}

func TestCardCreateEditRollback(t *testing.T) {
	for _, s := range testStores(t) {
		id, err := s.CreateCard(nil, ": greet dup . ;")
		if err != nil {
			t.Fatalf("CreateCard failed: %v", err)
		}

		source, ok, err := s.GetCardSource(id)
		if err != nil || !ok {
			t.Fatalf("GetCardSource failed: ok=%v err=%v", ok, err)
		}
		if source != ": greet dup . ;" {
			t.Errorf("unexpected source: %q", source)
		}

		v, err := s.EditCard(id, ": greet dup dup . ;")
		if err != nil {
			t.Fatalf("EditCard failed: %v", err)
		}
		if v != 1 {
			t.Errorf("expected version 1, got %d", v)
		}

		source, _, _ = s.GetCardSource(id)
		if source != ": greet dup dup . ;" {
			t.Errorf("head source not updated: %q", source)
		}

		history, err := s.GetCardHistory(id)
		if err != nil {
			t.Fatalf("GetCardHistory failed: %v", err)
		}
		if len(history) != 2 {
			t.Fatalf("expected 2 versions, got %d", len(history))
		}
		if history[0].Version != 1 || history[1].Version != 0 {
			t.Errorf("expected newest-first order, got %+v", history)
		}

		newVersion, err := s.RollbackCard(id, 0)
		if err != nil {
			t.Fatalf("RollbackCard failed: %v", err)
		}
		if newVersion != 2 {
			t.Errorf("rollback should create a new version (2), got %d", newVersion)
		}
		source, _, _ = s.GetCardSource(id)
		if source != ": greet dup . ;" {
			t.Errorf("rollback did not restore original source: %q", source)
		}
	}
}

func TestCardVersionNotFound(t *testing.T) {
	for _, s := range testStores(t) {
		id, _ := s.CreateCard(nil, "1 1 +")
		_, err := s.GetCardVersion(id, 5)
		if err == nil {
			t.Fatal("expected error for missing version")
		}
		if _, ok := err.(*ErrVersionNotFound); !ok {
			t.Errorf("expected ErrVersionNotFound, got %T: %v", err, err)
		}
	}
}

func TestCardNotFound(t *testing.T) {
	for _, s := range testStores(t) {
		_, err := s.GetCard("does-not-exist")
		if err == nil {
			t.Fatal("expected error for missing card")
		}
		if _, ok := err.(*ErrCardNotFound); !ok {
			t.Errorf("expected ErrCardNotFound, got %T: %v", err, err)
		}
	}
}

func TestSetDeleteOrphansCards(t *testing.T) {
	for _, s := range testStores(t) {
		setID, err := s.CreateSet("scratch")
		if err != nil {
			t.Fatalf("CreateSet failed: %v", err)
		}
		cardID, err := s.CreateCard(&setID, "1 2 +")
		if err != nil {
			t.Fatalf("CreateCard failed: %v", err)
		}

		if err := s.DeleteSet(setID); err != nil {
			t.Fatalf("DeleteSet failed: %v", err)
		}

		c, err := s.GetCard(cardID)
		if err != nil {
			t.Fatalf("card should survive set deletion: %v", err)
		}
		if c.SetID != nil {
			t.Errorf("expected orphaned card to have nil SetID, got %v", *c.SetID)
		}

		sets, err := s.ListSets()
		if err != nil {
			t.Fatalf("ListSets failed: %v", err)
		}
		for _, set := range sets {
			if set.ID == setID {
				t.Errorf("deleted set %s still present in ListSets", setID)
			}
		}
	}
}

func TestMoveCard(t *testing.T) {
	for _, s := range testStores(t) {
		setA, _ := s.CreateSet("a")
		setB, _ := s.CreateSet("b")
		cardID, _ := s.CreateCard(&setA, "true")

		if err := s.MoveCard(cardID, &setB); err != nil {
			t.Fatalf("MoveCard failed: %v", err)
		}
		c, _ := s.GetCard(cardID)
		if c.SetID == nil || *c.SetID != setB {
			t.Errorf("expected card moved to set %s, got %+v", setB, c.SetID)
		}
	}
}

func TestDeleteCard(t *testing.T) {
	for _, s := range testStores(t) {
		id, _ := s.CreateCard(nil, "42")
		if err := s.DeleteCard(id); err != nil {
			t.Fatalf("DeleteCard failed: %v", err)
		}
		if _, err := s.GetCard(id); err == nil {
			t.Error("expected card to be gone after DeleteCard")
		}
	}
}
