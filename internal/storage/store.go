// Package storage persists lacing presets.
//
// Three backends implement Store: DuckDB (the default, one database file in
// the data directory), SQLite through the pure-Go modernc driver, and an
// in-memory map for tests and throwaway servers.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/CryoKynase/wheel-lacing-app/internal/models"
)

// ErrNotFound is returned when a preset id does not exist.
var ErrNotFound = errors.New("storage: preset not found")

// Storage drivers accepted by Open.
const (
	DriverDuckDB = "duckdb"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Store defines the interface for preset storage.
type Store interface {
	// Create assigns an id and timestamps and stores the preset.
	Create(ctx context.Context, p *models.Preset) (*models.Preset, error)
	// CreateMany stores every preset or none of them.
	CreateMany(ctx context.Context, presets []*models.Preset) ([]*models.Preset, error)
	Get(ctx context.Context, id string) (*models.Preset, error)
	// List returns up to limit presets, most recently updated first.
	// A non-positive limit returns all of them.
	List(ctx context.Context, limit int) ([]*models.Preset, error)
	// Update replaces a stored preset, keeping its CreatedAt.
	Update(ctx context.Context, p *models.Preset) (*models.Preset, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// Open creates the store for driver. path is the database file for the SQL
// drivers and is ignored by the memory driver.
func Open(driver, path string) (Store, error) {
	switch strings.ToLower(driver) {
	case DriverDuckDB, "":
		return NewDuckStore(path)
	case DriverSQLite:
		return NewSQLiteStore(path)
	case DriverMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", driver)
}

// now is millisecond-truncated so timestamps survive a SQL round trip.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func clonePreset(p *models.Preset) *models.Preset {
	c := *p
	if p.Params != nil {
		c.Params = make(map[string]any, len(p.Params))
		for k, v := range p.Params {
			c.Params[k] = v
		}
	}
	return &c
}
