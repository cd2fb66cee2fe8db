package models

// PatternFormatVersion is the version tag written into every PatternResult.
const PatternFormatVersion = 1

// PatternResult is the envelope produced by a lacing method's compute step.
type PatternResult struct {
	Version    int              `json:"version"`
	MethodID   string           `json:"methodId"`
	HoleCount  int              `json:"holeCount"`
	Params     map[string]any   `json:"params"`
	Placements []SpokePlacement `json:"placements"`
	Table      Table            `json:"table"`
	Warnings   []string         `json:"warnings,omitempty"`
}

// Table is the tabular projection of a pattern. Every row carries exactly the
// keys listed in Columns.
type Table struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// ValveReference selects which rim hole is treated as adjacent to the valve.
type ValveReference string

const (
	RightOfValve ValveReference = "right_of_valve"
	LeftOfValve  ValveReference = "left_of_valve"
)

// Valid reports whether v is a known convention.
func (v ValveReference) Valid() bool {
	return v == RightOfValve || v == LeftOfValve
}
