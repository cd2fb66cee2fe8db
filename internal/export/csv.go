package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/CryoKynase/wheel-lacing-app/internal/models"
)

// WriteCSV writes t as CSV with a header row of its columns.
func WriteCSV(w io.Writer, t models.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(Records(t)); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}
