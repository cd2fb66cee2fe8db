package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/CryoKynase/wheel-lacing-app/internal/models"
	"github.com/google/uuid"
)

const createPresetsTable = `
	CREATE TABLE IF NOT EXISTS presets (
		id              VARCHAR PRIMARY KEY,
		name            VARCHAR NOT NULL,
		method_id       VARCHAR NOT NULL,
		holes           INTEGER NOT NULL,
		params          VARCHAR NOT NULL,
		start_rim_hole  INTEGER NOT NULL,
		valve_reference VARCHAR NOT NULL,
		created_at      BIGINT NOT NULL,
		updated_at      BIGINT NOT NULL
	)
`

const presetColumns = `id, name, method_id, holes, params, start_rim_hole, valve_reference, created_at, updated_at`

// sqlStore implements Store over database/sql. The schema and queries stick
// to the subset DuckDB and SQLite share.
type sqlStore struct {
	db *sql.DB
}

func newSQLStore(db *sql.DB) (*sqlStore, error) {
	if _, err := db.Exec(createPresetsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating presets table: %w", err)
	}
	return &sqlStore{db: db}, nil
}

// execer is the part of *sql.DB and *sql.Tx used for inserts.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *sqlStore) Create(ctx context.Context, p *models.Preset) (*models.Preset, error) {
	return insertPreset(ctx, s.db, p)
}

func (s *sqlStore) CreateMany(ctx context.Context, presets []*models.Preset) ([]*models.Preset, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	created := make([]*models.Preset, 0, len(presets))
	for _, p := range presets {
		stored, err := insertPreset(ctx, tx, p)
		if err != nil {
			return nil, err
		}
		created = append(created, stored)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing presets: %w", err)
	}
	return created, nil
}

func insertPreset(ctx context.Context, db execer, p *models.Preset) (*models.Preset, error) {
	stored := clonePreset(p)
	stored.ID = uuid.New().String()
	stored.CreatedAt = now()
	stored.UpdatedAt = stored.CreatedAt

	params, err := encodeParams(stored.Params)
	if err != nil {
		return nil, err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO presets (`+presetColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.ID, stored.Name, stored.MethodID, stored.Holes, params,
		stored.StartRimHole, string(stored.ValveReference),
		stored.CreatedAt.UnixMilli(), stored.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting preset: %w", err)
	}
	return stored, nil
}

func (s *sqlStore) Get(ctx context.Context, id string) (*models.Preset, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+presetColumns+` FROM presets WHERE id = ?`, id)
	p, err := scanPreset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading preset %s: %w", id, err)
	}
	return p, nil
}

func (s *sqlStore) List(ctx context.Context, limit int) ([]*models.Preset, error) {
	query := `SELECT ` + presetColumns + ` FROM presets ORDER BY updated_at DESC, name ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing presets: %w", err)
	}
	defer rows.Close()

	list := []*models.Preset{}
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning preset: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (s *sqlStore) Update(ctx context.Context, p *models.Preset) (*models.Preset, error) {
	existing, err := s.Get(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	stored := clonePreset(p)
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = now()

	params, err := encodeParams(stored.Params)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE presets SET name = ?, method_id = ?, holes = ?, params = ?, start_rim_hole = ?, valve_reference = ?, updated_at = ? WHERE id = ?`,
		stored.Name, stored.MethodID, stored.Holes, params, stored.StartRimHole,
		string(stored.ValveReference), stored.UpdatedAt.UnixMilli(), stored.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating preset %s: %w", p.ID, err)
	}
	return stored, nil
}

func (s *sqlStore) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM presets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting preset %s: %w", id, err)
	}
	return nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPreset(row rowScanner) (*models.Preset, error) {
	var (
		p                    models.Preset
		params, valveRef     string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&p.ID, &p.Name, &p.MethodID, &p.Holes, &params, &p.StartRimHole, &valveRef, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(params), &p.Params); err != nil {
		return nil, fmt.Errorf("decoding params of preset %s: %w", p.ID, err)
	}
	p.ValveReference = models.ValveReference(valveRef)
	p.CreatedAt = time.UnixMilli(createdAt).UTC()
	p.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &p, nil
}

func encodeParams(params map[string]any) (string, error) {
	if params == nil {
		params = map[string]any{}
	}
	data, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("encoding params: %w", err)
	}
	return string(data), nil
}
