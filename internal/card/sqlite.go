package card

import (
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SQLite is a SQLite-backed Store, grounded on the teacher's
// internal/store/sqlite.go: a mutex-guarded *sql.DB opened once, schema
// created idempotently with CREATE TABLE IF NOT EXISTS, each operation
// run under the lock (multi-statement ones inside a transaction).
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite opens (creating if necessary) a SQLite-backed card store at
// path, installing the card_sets/cards/card_versions schema (spec.md §6
// DDL) if it isn't already present.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, err
	}
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS card_sets (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS cards (
			id           TEXT PRIMARY KEY,
			set_id       TEXT REFERENCES card_sets(id),
			head_version INTEGER NOT NULL DEFAULT 0,
			created_at   INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS card_versions (
			card_id    TEXT NOT NULL REFERENCES cards(id),
			version    INTEGER NOT NULL,
			source     TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			PRIMARY KEY (card_id, version)
		);
	`)
	return err
}

func (s *SQLite) CreateSet(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	_, err := s.db.Exec(
		"INSERT INTO card_sets (id, name, created_at) VALUES (?, ?, ?)",
		id, name, time.Now().Unix(),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListSets returns every set newest-first (spec.md §4.6).
func (s *SQLite) ListSets() ([]Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query("SELECT id, name, created_at FROM card_sets ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Set
	for rows.Next() {
		var set Set
		var ts int64
		if err := rows.Scan(&set.ID, &set.Name, &ts); err != nil {
			return nil, err
		}
		set.CreatedAt = time.Unix(ts, 0)
		out = append(out, set)
	}
	return out, rows.Err()
}

// DeleteSet orphans every card in the set (set_id → null) before removing
// the set row itself — a non-cascading delete (spec.md §4.6).
func (s *SQLite) DeleteSet(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec("UPDATE cards SET set_id = NULL WHERE set_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM card_sets WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLite) CreateCard(setID *string, source string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	now := time.Now().Unix()
	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(
		"INSERT INTO cards (id, set_id, head_version, created_at) VALUES (?, ?, 0, ?)",
		id, setID, now,
	); err != nil {
		return "", err
	}
	if _, err := tx.Exec(
		"INSERT INTO card_versions (card_id, version, source, created_at) VALUES (?, 0, ?, ?)",
		id, source, now,
	); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// EditCard appends version head_version+1 and advances the head pointer.
func (s *SQLite) EditCard(id, newSource string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var head int
	err := s.db.QueryRow("SELECT head_version FROM cards WHERE id = ?", id).Scan(&head)
	if err == sql.ErrNoRows {
		return 0, &ErrCardNotFound{ID: id}
	}
	if err != nil {
		return 0, err
	}
	newVersion := head + 1
	now := time.Now().Unix()
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(
		"INSERT INTO card_versions (card_id, version, source, created_at) VALUES (?, ?, ?, ?)",
		id, newVersion, newSource, now,
	); err != nil {
		return 0, err
	}
	if _, err := tx.Exec("UPDATE cards SET head_version = ? WHERE id = ?", newVersion, id); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return newVersion, nil
}

func (s *SQLite) GetCardSource(id string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var source string
	err := s.db.QueryRow(`
		SELECT cv.source FROM card_versions cv
		JOIN cards c ON c.id = cv.card_id AND c.head_version = cv.version
		WHERE cv.card_id = ?`, id).Scan(&source)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return source, true, nil
}

func (s *SQLite) GetCard(id string) (*Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var c Card
	var setID sql.NullString
	var ts int64
	err := s.db.QueryRow(
		"SELECT id, set_id, head_version, created_at FROM cards WHERE id = ?", id,
	).Scan(&c.ID, &setID, &c.HeadVersion, &ts)
	if err == sql.ErrNoRows {
		return nil, &ErrCardNotFound{ID: id}
	}
	if err != nil {
		return nil, err
	}
	if setID.Valid {
		c.SetID = &setID.String
	}
	c.CreatedAt = time.Unix(ts, 0)
	return &c, nil
}

func (s *SQLite) GetCardVersion(id string, version int) (*Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var v Version
	var ts int64
	err := s.db.QueryRow(
		"SELECT card_id, version, source, created_at FROM card_versions WHERE card_id = ? AND version = ?",
		id, version,
	).Scan(&v.CardID, &v.Version, &v.Source, &ts)
	if err == sql.ErrNoRows {
		return nil, &ErrVersionNotFound{ID: id, Version: version}
	}
	if err != nil {
		return nil, err
	}
	v.CreatedAt = time.Unix(ts, 0)
	return &v, nil
}

// GetCardHistory returns every version of id, newest-first.
func (s *SQLite) GetCardHistory(id string) ([]Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(
		"SELECT card_id, version, source, created_at FROM card_versions WHERE card_id = ? ORDER BY version DESC",
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Version
	for rows.Next() {
		var v Version
		var ts int64
		if err := rows.Scan(&v.CardID, &v.Version, &v.Source, &ts); err != nil {
			return nil, err
		}
		v.CreatedAt = time.Unix(ts, 0)
		out = append(out, v)
	}
	return out, rows.Err()
}

// RollbackCard is edit_card(id, get_card_version(id, to_v).source):
// itself a new version, so it is always reversible (spec.md §4.6, §8).
func (s *SQLite) RollbackCard(id string, toVersion int) (int, error) {
	v, err := s.GetCardVersion(id, toVersion)
	if err != nil {
		return 0, err
	}
	return s.EditCard(id, v.Source)
}

func (s *SQLite) MoveCard(id string, newSetID *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec("UPDATE cards SET set_id = ? WHERE id = ?", newSetID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &ErrCardNotFound{ID: id}
	}
	return nil
}

// DeleteCard removes a card and all of its versions.
func (s *SQLite) DeleteCard(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec("DELETE FROM card_versions WHERE card_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM cards WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
