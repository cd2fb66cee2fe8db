package method

import (
	"fmt"

	"github.com/CryoKynase/wheel-lacing-app/internal/models"
)

// Descriptor identifies a lacing method.
type Descriptor struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ShortDescription string `json:"shortDescription"`
	SupportedHoles   []int  `json:"supportedHoles"`
}

// LacingMethod is implemented once per lacing method.
type LacingMethod interface {
	Descriptor() Descriptor
	ParamSchema() []ParamDef
	Steps() []Step
	// Compute validates the hole count, coerces raw through ParamSchema and
	// builds the full pattern. It fails only on an invalid hole count.
	Compute(holes int, raw map[string]any) (*models.PatternResult, error)
}

// Validate checks the descriptor invariants: a non-empty id and a non-empty,
// strictly ascending list of even hole counts >= MinHoles.
func (d Descriptor) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidDescriptor)
	}
	if len(d.SupportedHoles) == 0 {
		return fmt.Errorf("%w: %s declares no supported hole counts", ErrInvalidDescriptor, d.ID)
	}
	for i, h := range d.SupportedHoles {
		if err := ValidateHoleCount(h); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidDescriptor, d.ID, err)
		}
		if i > 0 && h <= d.SupportedHoles[i-1] {
			return fmt.Errorf("%w: %s hole counts not strictly ascending", ErrInvalidDescriptor, d.ID)
		}
	}
	return nil
}

// Supports reports whether holes is one of the listed hole counts.
func (d Descriptor) Supports(holes int) bool {
	for _, h := range d.SupportedHoles {
		if h == holes {
			return true
		}
	}
	return false
}

// Info is the serializable view of a method.
type Info struct {
	Descriptor
	Params []ParamDef `json:"params"`
	Steps  []Step     `json:"steps"`
}

// Describe collects a method's descriptor, schema and steps.
func Describe(m LacingMethod) Info {
	return Info{
		Descriptor: m.Descriptor(),
		Params:     m.ParamSchema(),
		Steps:      m.Steps(),
	}
}
