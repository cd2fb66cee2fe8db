package method

import (
	"slices"

	"github.com/CryoKynase/wheel-lacing-app/internal/models"
)

// AllStepID names the step that shows every placement.
const AllStepID = "all"

// Step is a named phase of a lacing method exposing a set of groups.
// A step with no groups exposes everything.
type Step struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Groups []int  `json:"groups,omitempty"`
}

// AllSteps is the step selecting every placement.
var AllSteps = Step{ID: AllStepID, Label: "All spokes"}

// ShowsAll reports whether the step selects the full placement set.
func (s Step) ShowsAll() bool {
	return s.ID == AllStepID || len(s.Groups) == 0
}

// Includes reports whether group is visible in this step.
func (s Step) Includes(group int) bool {
	return s.ShowsAll() || slices.Contains(s.Groups, group)
}

// FindStep looks a step up by id.
func FindStep(steps []Step, id string) (Step, bool) {
	for _, s := range steps {
		if s.ID == id {
			return s, true
		}
	}
	return Step{}, false
}

// StepLabel returns the label of the first non-"all" step exposing group.
func StepLabel(steps []Step, group int) string {
	for _, s := range steps {
		if !s.ShowsAll() && slices.Contains(s.Groups, group) {
			return s.Label
		}
	}
	return ""
}

// Filter returns the placements visible in step, preserving order.
// The result never aliases the input slice.
func Filter(placements []models.SpokePlacement, step Step) []models.SpokePlacement {
	out := make([]models.SpokePlacement, 0, len(placements))
	for _, p := range placements {
		if step.Includes(p.Group) {
			out = append(out, p)
		}
	}
	return out
}

// FilterSide keeps the placements on one flange. An empty side keeps all.
func FilterSide(placements []models.SpokePlacement, side models.Side) []models.SpokePlacement {
	out := make([]models.SpokePlacement, 0, len(placements))
	for _, p := range placements {
		if side == "" || p.Side == side {
			out = append(out, p)
		}
	}
	return out
}
