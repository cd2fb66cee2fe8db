// mock_storage.go - Mock preset storage for handler tests
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/CryoKynase/wheel-lacing-app/internal/models"
	"github.com/CryoKynase/wheel-lacing-app/internal/storage"
)

// MockStorage implements storage.Store with sequential ids and injectable
// failures.
type MockStorage struct {
	presets map[string]*models.Preset
	mu      sync.RWMutex

	// Err, when set, is returned by every operation.
	Err error
	// FailCreateAt, when positive, fails the Nth preset created, counted
	// across Create and CreateMany. A failing CreateMany stores nothing.
	FailCreateAt int
	creates      int
}

// errInjectedCreate is returned for the preset selected by FailCreateAt.
var errInjectedCreate = errors.New("mock storage: injected create failure")

// NewMockStorage creates an empty mock store.
func NewMockStorage() *MockStorage {
	return &MockStorage{presets: make(map[string]*models.Preset)}
}

func (m *MockStorage) Create(ctx context.Context, p *models.Preset) (*models.Preset, error) {
	created, err := m.CreateMany(ctx, []*models.Preset{p})
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

func (m *MockStorage) CreateMany(_ context.Context, presets []*models.Preset) ([]*models.Preset, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	staged := make([]*models.Preset, 0, len(presets))
	for _, p := range presets {
		m.creates++
		if m.FailCreateAt > 0 && m.creates == m.FailCreateAt {
			return nil, errInjectedCreate
		}
		stored := *p
		stored.ID = generateTestID()
		stored.CreatedAt = time.Now().UTC()
		stored.UpdatedAt = stored.CreatedAt
		staged = append(staged, &stored)
	}

	out := make([]*models.Preset, 0, len(staged))
	for _, p := range staged {
		m.presets[p.ID] = p
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockStorage) Get(_ context.Context, id string) (*models.Preset, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.presets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	out := *p
	return &out, nil
}

func (m *MockStorage) List(_ context.Context, limit int) ([]*models.Preset, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*models.Preset, 0, len(m.presets))
	for _, p := range m.presets {
		out := *p
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (m *MockStorage) Update(_ context.Context, p *models.Preset) (*models.Preset, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.presets[p.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, p.ID)
	}
	stored := *p
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now().UTC()
	m.presets[p.ID] = &stored

	out := stored
	return &out, nil
}

func (m *MockStorage) Delete(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.presets[id]; !ok {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	delete(m.presets, id)
	return nil
}

func (m *MockStorage) Close() error {
	return nil
}

// Ensure MockStorage implements storage.Store
var _ storage.Store = (*MockStorage)(nil)

// Test Helper Methods

// AddPreset stores p under id directly.
func (m *MockStorage) AddPreset(id string, p models.Preset) *models.Preset {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.ID = id
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	m.presets[id] = &p

	out := p
	return &out
}

// PresetCount returns the number of stored presets.
func (m *MockStorage) PresetCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.presets)
}

// Clear removes all presets.
func (m *MockStorage) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.presets = make(map[string]*models.Preset)
}

// generateTestID generates a simple test ID
var testIDCounter int
var testIDMutex sync.Mutex

func generateTestID() string {
	testIDMutex.Lock()
	defer testIDMutex.Unlock()
	testIDCounter++
	return fmt.Sprintf("test-id-%d", testIDCounter)
}
