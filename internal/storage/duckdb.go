package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb"
)

var duckPragmas = []string{
	"PRAGMA memory_limit='256MB'",
	"PRAGMA threads=2",
	"PRAGMA enable_progress_bar=false",
}

// NewDuckStore opens (or creates) a DuckDB preset database at path.
// An empty path opens an in-memory database.
func NewDuckStore(path string) (Store, error) {
	connector, err := duckdb.NewConnector(path, func(execer driver.ExecerContext) error {
		for _, pragma := range duckPragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				return fmt.Errorf("%s: %w", pragma, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}
	return newSQLStore(sql.OpenDB(connector))
}
