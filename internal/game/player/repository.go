package player

import (
	"context"
	"sort"
	"strings"
	"sync"

	nxerror "github.com/nexusroot/nexus/foundation/core/error"
)

// Repository persists player records
type Repository interface {
	Create(ctx context.Context, r Record) error
	Get(ctx context.Context, id string) (Record, error)
	GetByName(ctx context.Context, name string) (Record, error)
	List(ctx context.Context) ([]Record, error)
	Save(ctx context.Context, r Record) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// ErrNotFound builds the error returned for a missing player
func ErrNotFound(key string) error {
	return nxerror.Newf(nxerror.CodeNotFound, "player '%s' not found", key)
}

// ErrDuplicate builds the error returned for a taken name
func ErrDuplicate(name string) error {
	return nxerror.Newf(nxerror.CodeDuplicate, "player '%s' already exists", name)
}

// MemoryRepository keeps records in memory. Names are case-insensitive.
type MemoryRepository struct {
	mu     sync.RWMutex
	byID   map[string]Record
	byName map[string]string
}

// NewMemoryRepository creates an empty repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:   make(map[string]Record),
		byName: make(map[string]string),
	}
}

// Create stores a new record
func (m *MemoryRepository) Create(_ context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(r.Name)
	if _, ok := m.byName[key]; ok {
		return ErrDuplicate(r.Name)
	}
	if _, ok := m.byID[r.ID]; ok {
		return ErrDuplicate(r.ID)
	}
	m.byID[r.ID] = r
	m.byName[key] = r.ID
	return nil
}

// Get returns a record by id
func (m *MemoryRepository) Get(_ context.Context, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.byID[id]
	if !ok {
		return Record{}, ErrNotFound(id)
	}
	return r, nil
}

// GetByName returns a record by name
func (m *MemoryRepository) GetByName(_ context.Context, name string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byName[strings.ToLower(name)]
	if !ok {
		return Record{}, ErrNotFound(name)
	}
	return m.byID[id], nil
}

// List returns all records ordered by name
func (m *MemoryRepository) List(_ context.Context) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Record, 0, len(m.byID))
	for _, r := range m.byID {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Save replaces an existing record
func (m *MemoryRepository) Save(_ context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[r.ID]; !ok {
		return ErrNotFound(r.ID)
	}
	m.byID[r.ID] = r
	return nil
}

// Delete removes a record
func (m *MemoryRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return ErrNotFound(id)
	}
	delete(m.byID, id)
	delete(m.byName, strings.ToLower(r.Name))
	return nil
}

// Close is a no-op
func (m *MemoryRepository) Close() error { return nil }
