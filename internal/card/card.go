// Package card implements Borth's card storage layer: sets, cards, and
// append-only card versions, with current-version pointers, history,
// rollback, and move semantics (spec.md §4.6, §6).
package card

import (
	"strconv"
	"time"
)

// Card is a source unit, optionally grouped into a Set, identified by
// UUID, with a pointer to its current (head) version.
type Card struct {
	ID          string
	SetID       *string
	HeadVersion int
	CreatedAt   time.Time
}

// Version is one immutable snapshot of a card's source.
type Version struct {
	CardID    string
	Version   int
	Source    string
	CreatedAt time.Time
}

// Set is a named group of cards. Deleting a set orphans its cards
// (set_id set to null) rather than cascading (spec.md §4.6).
type Set struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Store is the storage contract both the SQLite-backed and in-memory
// implementations satisfy — the same split the teacher's
// internal/store package draws between Store/HistoryStore and a
// concrete backend (internal/store/store.go, internal/store/memory.go).
type Store interface {
	CreateSet(name string) (string, error)
	ListSets() ([]Set, error)
	DeleteSet(id string) error

	CreateCard(setID *string, source string) (string, error)
	EditCard(id, newSource string) (int, error)
	GetCardSource(id string) (string, bool, error)
	GetCard(id string) (*Card, error)
	GetCardVersion(id string, version int) (*Version, error)
	GetCardHistory(id string) ([]Version, error)
	RollbackCard(id string, toVersion int) (int, error)
	MoveCard(id string, newSetID *string) error
	DeleteCard(id string) error

	Close() error
}

// ErrCardNotFound and ErrVersionNotFound back the exact error-message
// taxonomy spec.md §7 specifies ("Card not found: ID", "Version not
// found: ID@V").
type ErrCardNotFound struct{ ID string }

func (e *ErrCardNotFound) Error() string { return "Card not found: " + e.ID }

type ErrVersionNotFound struct {
	ID      string
	Version int
}

func (e *ErrVersionNotFound) Error() string {
	return "Version not found: " + e.ID + "@" + strconv.Itoa(e.Version)
}
