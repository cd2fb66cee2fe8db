package models

import "time"

// Preset is a named, stored set of pattern inputs.
type Preset struct {
	ID             string         `json:"id" yaml:"id,omitempty"`
	Name           string         `json:"name" yaml:"name"`
	MethodID       string         `json:"methodId" yaml:"method"`
	Holes          int            `json:"holes" yaml:"holes"`
	Params         map[string]any `json:"params" yaml:"params"`
	StartRimHole   int            `json:"startRimHole" yaml:"start_rim_hole"`
	ValveReference ValveReference `json:"valveReference" yaml:"valve_reference"`
	CreatedAt      time.Time      `json:"createdAt" yaml:"created_at,omitempty"`
	UpdatedAt      time.Time      `json:"updatedAt" yaml:"updated_at,omitempty"`
}

// PresetSummary is the list view of a preset.
type PresetSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	MethodID  string    `json:"methodId"`
	Holes     int       `json:"holes"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary projects the preset into its list view.
func (p *Preset) Summary() PresetSummary {
	return PresetSummary{
		ID:        p.ID,
		Name:      p.Name,
		MethodID:  p.MethodID,
		Holes:     p.Holes,
		UpdatedAt: p.UpdatedAt,
	}
}
