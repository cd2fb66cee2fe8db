package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/CryoKynase/wheel-lacing-app/internal/models"
	"github.com/google/uuid"
)

// MemoryStore implements Store in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	presets map[string]*models.Preset
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{presets: make(map[string]*models.Preset)}
}

func (s *MemoryStore) Create(_ context.Context, p *models.Preset) (*models.Preset, error) {
	stored := clonePreset(p)
	stored.ID = uuid.New().String()
	stored.CreatedAt = now()
	stored.UpdatedAt = stored.CreatedAt

	s.mu.Lock()
	defer s.mu.Unlock()
	s.presets[stored.ID] = stored

	return clonePreset(stored), nil
}

func (s *MemoryStore) CreateMany(_ context.Context, presets []*models.Preset) ([]*models.Preset, error) {
	created := make([]*models.Preset, 0, len(presets))
	ts := now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range presets {
		stored := clonePreset(p)
		stored.ID = uuid.New().String()
		stored.CreatedAt = ts
		stored.UpdatedAt = ts
		s.presets[stored.ID] = stored
		created = append(created, clonePreset(stored))
	}
	return created, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.presets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return clonePreset(p), nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]*models.Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*models.Preset, 0, len(s.presets))
	for _, p := range s.presets {
		list = append(list, clonePreset(p))
	}

	sort.Slice(list, func(i, j int) bool {
		if !list[i].UpdatedAt.Equal(list[j].UpdatedAt) {
			return list[i].UpdatedAt.After(list[j].UpdatedAt)
		}
		return list[i].Name < list[j].Name
	})

	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (s *MemoryStore) Update(_ context.Context, p *models.Preset) (*models.Preset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.presets[p.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p.ID)
	}
	stored := clonePreset(p)
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = now()
	s.presets[p.ID] = stored

	return clonePreset(stored), nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.presets[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.presets, id)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
