package card

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Store, grounded on the teacher's
// internal/store/memory.go map-of-slices approach — used by tests and by
// hosts that don't need durability across process restarts.
type Memory struct {
	mu       sync.Mutex
	sets     map[string]*Set
	cards    map[string]*Card
	versions map[string][]Version // card id -> versions, index == version number
}

func NewMemory() *Memory {
	return &Memory{
		sets:     map[string]*Set{},
		cards:    map[string]*Card{},
		versions: map[string][]Version{},
	}
}

func (m *Memory) CreateSet(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.NewString()
	m.sets[id] = &Set{ID: id, Name: name, CreatedAt: time.Now()}
	return id, nil
}

// ListSets returns every set newest-first, ties broken by descending id,
// the same order the SQLite backend uses.
func (m *Memory) ListSets() ([]Set, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Set, 0, len(m.sets))
	for _, s := range m.sets {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *Memory) DeleteSet(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.cards {
		if c.SetID != nil && *c.SetID == id {
			c.SetID = nil
		}
	}
	delete(m.sets, id)
	return nil
}

func (m *Memory) CreateCard(setID *string, source string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.NewString()
	now := time.Now()
	m.cards[id] = &Card{ID: id, SetID: setID, HeadVersion: 0, CreatedAt: now}
	m.versions[id] = []Version{{CardID: id, Version: 0, Source: source, CreatedAt: now}}
	return id, nil
}

func (m *Memory) EditCard(id, newSource string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cards[id]
	if !ok {
		return 0, &ErrCardNotFound{ID: id}
	}
	newVersion := c.HeadVersion + 1
	m.versions[id] = append(m.versions[id], Version{
		CardID: id, Version: newVersion, Source: newSource, CreatedAt: time.Now(),
	})
	c.HeadVersion = newVersion
	return newVersion, nil
}

func (m *Memory) GetCardSource(id string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cards[id]
	if !ok {
		return "", false, nil
	}
	return m.versions[id][c.HeadVersion].Source, true, nil
}

func (m *Memory) GetCard(id string) (*Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cards[id]
	if !ok {
		return nil, &ErrCardNotFound{ID: id}
	}
	cp := *c
	return &cp, nil
}

func (m *Memory) GetCardVersion(id string, version int) (*Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	vs, ok := m.versions[id]
	if !ok || version < 0 || version >= len(vs) {
		return nil, &ErrVersionNotFound{ID: id, Version: version}
	}
	v := vs[version]
	return &v, nil
}

func (m *Memory) GetCardHistory(id string) ([]Version, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	vs, ok := m.versions[id]
	if !ok {
		return nil, &ErrCardNotFound{ID: id}
	}
	out := make([]Version, len(vs))
	for i, v := range vs {
		out[len(vs)-1-i] = v
	}
	return out, nil
}

func (m *Memory) RollbackCard(id string, toVersion int) (int, error) {
	v, err := m.GetCardVersion(id, toVersion)
	if err != nil {
		return 0, err
	}
	return m.EditCard(id, v.Source)
}

func (m *Memory) MoveCard(id string, newSetID *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cards[id]
	if !ok {
		return &ErrCardNotFound{ID: id}
	}
	c.SetID = newSetID
	return nil
}

func (m *Memory) DeleteCard(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cards, id)
	delete(m.versions, id)
	return nil
}

func (m *Memory) Close() error { return nil }
