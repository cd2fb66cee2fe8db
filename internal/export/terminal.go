package export

import (
	"strings"

	"github.com/CryoKynase/wheel-lacing-app/internal/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	rightStyle  = cellStyle.Foreground(lipgloss.Color("#FF8C42"))
	leftStyle   = cellStyle.Foreground(lipgloss.Color("#4FC1E9"))
	noteStyle   = cellStyle.Italic(true).Foreground(lipgloss.Color("#A0A0A0"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5C5C5C"))
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFCC00"))
)

// RenderTable renders t as a bordered terminal table. Rows are tinted by
// flange side when a "side" column is present.
func RenderTable(t models.Table) string {
	records := Records(t)
	sideCol, noteCol := -1, -1
	for i, col := range t.Columns {
		switch col {
		case "side":
			sideCol = i
		case "notes":
			noteCol = i
		}
	}

	body := records[1:]
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(records[0]...).
		Rows(body...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(body) {
				return cellStyle
			}
			if col == noteCol && noteCol >= 0 {
				return noteStyle
			}
			if sideCol >= 0 {
				switch body[row][sideCol] {
				case string(models.SideRight):
					return rightStyle
				case string(models.SideLeft):
					return leftStyle
				}
			}
			return cellStyle
		})

	return tbl.String()
}

// RenderPattern renders a titled table plus any warnings.
func RenderPattern(title string, r *models.PatternResult, t models.Table) string {
	parts := []string{titleStyle.Render(title), RenderTable(t)}
	if len(r.Warnings) > 0 {
		lines := make([]string, 0, len(r.Warnings))
		for _, w := range r.Warnings {
			lines = append(lines, warnStyle.Render("warning: "+w))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
