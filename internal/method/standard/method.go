package standard

import (
	"fmt"

	"github.com/CryoKynase/wheel-lacing-app/internal/method"
	"github.com/CryoKynase/wheel-lacing-app/internal/models"
)

// ID is the registry id of the standard method.
const ID = "standard"

// SupportedHoles are the rim drillings the standard method is offered for.
var SupportedHoles = []int{20, 24, 28, 32, 36}

// Table columns, in display order.
var Columns = []string{"order", "step", "group", "side", "heads", "hubHole", "rimHole", "crosses", "notes"}

var steps = []method.Step{
	method.AllSteps,
	{ID: "step1", Label: "Step 1", Groups: []int{1}},
	{ID: "step2", Label: "Step 2", Groups: []int{2}},
	{ID: "step3", Label: "Step 3", Groups: []int{3}},
	{ID: "step4", Label: "Step 4", Groups: []int{4}},
}

var _ method.LacingMethod = (*Method)(nil)

// Method is the standard four-group lacing method.
type Method struct{}

// New returns the standard method.
func New() *Method {
	return &Method{}
}

func (m *Method) Descriptor() method.Descriptor {
	holes := make([]int, len(SupportedHoles))
	copy(holes, SupportedHoles)
	return method.Descriptor{
		ID:               ID,
		Name:             "Standard",
		ShortDescription: "Four-group Park-style lacing sequence.",
		SupportedHoles:   holes,
	}
}

func (m *Method) ParamSchema() []method.ParamDef {
	return ParamDefs()
}

func (m *Method) Steps() []method.Step {
	out := make([]method.Step, len(steps))
	copy(out, steps)
	return out
}

// MaxCrosses reports the crossing limit for holes.
func (m *Method) MaxCrosses(holes int) int {
	return MaxCrosses(holes)
}

// CommonCrosses reports the usual crossing choices for holes.
func (m *Method) CommonCrosses(holes int) []int {
	return CommonCrosses(holes)
}

// Compute builds the pattern envelope for holes. Malformed raw parameters fall
// back to their defaults; only an invalid hole count is an error.
func (m *Method) Compute(holes int, raw map[string]any) (*models.PatternResult, error) {
	if err := method.ValidateHoleCount(holes); err != nil {
		return nil, err
	}
	p := ResolveParams(raw)
	placements, err := Generate(holes, p)
	if err != nil {
		return nil, err
	}
	return &models.PatternResult{
		Version:    models.PatternFormatVersion,
		MethodID:   ID,
		HoleCount:  holes,
		Params:     p.Values().Map(),
		Placements: placements,
		Table:      BuildTable(placements, steps),
		Warnings:   warnings(holes, p, placements),
	}, nil
}

// BuildTable projects placements into display rows keyed by Columns.
func BuildTable(placements []models.SpokePlacement, steps []method.Step) models.Table {
	rows := make([]map[string]any, 0, len(placements))
	for _, sp := range placements {
		rows = append(rows, map[string]any{
			"order":   sp.Order,
			"step":    method.StepLabel(steps, sp.Group),
			"group":   sp.Group,
			"side":    string(sp.Side),
			"heads":   string(sp.Head),
			"hubHole": sp.HubHole,
			"rimHole": sp.RimHole,
			"crosses": sp.CrossingLabel,
			"notes":   sp.Note,
		})
	}
	cols := make([]string, len(Columns))
	copy(cols, Columns)
	return models.Table{Columns: cols, Rows: rows}
}

func warnings(holes int, p Params, placements []models.SpokePlacement) []string {
	var out []string
	if limit := MaxCrosses(holes); p.Crosses > limit {
		out = append(out, fmt.Sprintf("%d crosses exceeds the %d a %d-hole wheel can be laced with", p.Crosses, limit, holes))
	}
	if len(placements) < holes {
		out = append(out, fmt.Sprintf("only %d of %d spokes placed: rim and hub sequences differ in length", len(placements), holes))
	}
	return out
}
