// pattern_service.go - Request resolution shared by the HTTP and live handlers
package api

import (
	"context"
	"strings"

	"github.com/CryoKynase/wheel-lacing-app/internal/export"
	"github.com/CryoKynase/wheel-lacing-app/internal/layout"
	"github.com/CryoKynase/wheel-lacing-app/internal/method"
	"github.com/CryoKynase/wheel-lacing-app/internal/models"
	"github.com/CryoKynase/wheel-lacing-app/internal/storage"
)

// Side filter values accepted in requests
const (
	SideAll   = "all"
	SideRight = string(models.SideRight)
	SideLeft  = string(models.SideLeft)
)

// Defaults are the inputs applied when a request omits them
type Defaults struct {
	MethodID       string
	Holes          int
	StartRimHole   int
	ValveReference models.ValveReference
}

// DefaultInputs are used when the server is not configured otherwise.
var DefaultInputs = Defaults{
	Holes:          32,
	StartRimHole:   1,
	ValveReference: models.RightOfValve,
}

// patternRequest is the body of every pattern endpoint and live compute
// message. Pointer fields distinguish "omitted" from zero. When PresetID is
// set the stored preset supplies every omitted input.
type patternRequest struct {
	PresetID       string                `json:"presetId,omitempty"`
	MethodID       string                `json:"methodId,omitempty"`
	Holes          *int                  `json:"holes,omitempty"`
	Params         map[string]any        `json:"params,omitempty"`
	StartRimHole   *int                  `json:"startRimHole,omitempty"`
	ValveReference models.ValveReference `json:"valveReference,omitempty"`
	Step           string                `json:"step,omitempty"`
	Side           string                `json:"side,omitempty"`
}

// resolvedRequest is a patternRequest with every default applied and checked.
type resolvedRequest struct {
	method       method.LacingMethod
	holes        int
	params       map[string]any
	startRimHole int
	valveRef     models.ValveReference
	step         method.Step
	side         string
}

// layoutResponse is a computed pattern plus its filtered view and geometry.
type layoutResponse struct {
	Pattern        *models.PatternResult   `json:"pattern"`
	Step           method.Step             `json:"step"`
	Side           string                  `json:"side"`
	StartRimHole   int                     `json:"startRimHole"`
	ValveReference models.ValveReference   `json:"valveReference"`
	Anchor         layout.Anchor           `json:"anchor"`
	Visible        []models.SpokePlacement `json:"visible"`
	Table          models.Table            `json:"table"`
	Layout         layout.Result           `json:"layout"`
}

type patternService struct {
	registry *method.Registry
	store    storage.Store
	defaults Defaults
}

// withFallbacks fills unset fields from DefaultInputs.
func (d Defaults) withFallbacks() Defaults {
	if d.Holes == 0 {
		d.Holes = DefaultInputs.Holes
	}
	if d.StartRimHole == 0 {
		d.StartRimHole = DefaultInputs.StartRimHole
	}
	if d.ValveReference == "" {
		d.ValveReference = DefaultInputs.ValveReference
	}
	return d
}

func newPatternService(registry *method.Registry, store storage.Store, defaults Defaults) *patternService {
	return &patternService{registry: registry, store: store, defaults: defaults.withFallbacks()}
}

func (s *patternService) resolve(ctx context.Context, req patternRequest) (*resolvedRequest, error) {
	if req.PresetID != "" {
		if err := s.applyPreset(ctx, &req); err != nil {
			return nil, err
		}
	}

	methodID := req.MethodID
	if methodID == "" {
		methodID = s.defaults.MethodID
	}
	m, err := s.registry.Resolve(methodID)
	if err != nil {
		return nil, fromDomainError(err, 0, "method", methodID)
	}

	r := &resolvedRequest{
		method:       m,
		holes:        s.defaults.Holes,
		params:       req.Params,
		startRimHole: s.defaults.StartRimHole,
		valveRef:     s.defaults.ValveReference,
		side:         SideAll,
	}
	if req.Holes != nil {
		r.holes = *req.Holes
	}
	if err := method.ValidateHoleCount(r.holes); err != nil {
		return nil, NewInvalidHoleCountError(r.holes)
	}
	if req.StartRimHole != nil {
		r.startRimHole = *req.StartRimHole
	}
	if req.ValveReference != "" {
		if !req.ValveReference.Valid() {
			return nil, NewValidationError("valveReference")
		}
		r.valveRef = req.ValveReference
	}

	stepID := req.Step
	if stepID == "" {
		stepID = method.AllStepID
	}
	step, ok := method.FindStep(m.Steps(), stepID)
	if !ok {
		return nil, NewValidationError("step")
	}
	r.step = step

	switch side := strings.ToLower(req.Side); side {
	case "", SideAll:
	case SideRight, SideLeft:
		r.side = side
	default:
		return nil, NewValidationError("side")
	}

	return r, nil
}

// applyPreset fills the omitted inputs of req from a stored preset.
// Parameters given in the request override the preset's per key.
func (s *patternService) applyPreset(ctx context.Context, req *patternRequest) error {
	if s.store == nil {
		return NewNotFoundError("preset", req.PresetID)
	}
	p, err := s.store.Get(ctx, req.PresetID)
	if err != nil {
		return fromDomainError(err, 0, "preset", req.PresetID)
	}

	if req.MethodID == "" {
		req.MethodID = p.MethodID
	}
	if req.Holes == nil {
		holes := p.Holes
		req.Holes = &holes
	}
	if req.StartRimHole == nil {
		start := p.StartRimHole
		req.StartRimHole = &start
	}
	if req.ValveReference == "" {
		req.ValveReference = p.ValveReference
	}
	merged := make(map[string]any, len(p.Params)+len(req.Params))
	for k, v := range p.Params {
		merged[k] = v
	}
	for k, v := range req.Params {
		merged[k] = v
	}
	req.Params = merged
	return nil
}

func (s *patternService) compute(ctx context.Context, req patternRequest) (*models.PatternResult, *resolvedRequest, error) {
	r, err := s.resolve(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	res, err := r.method.Compute(r.holes, r.params)
	if err != nil {
		return nil, nil, fromDomainError(err, r.holes, "method", r.method.Descriptor().ID)
	}
	return res, r, nil
}

func (s *patternService) layout(ctx context.Context, req patternRequest) (*layoutResponse, error) {
	res, r, err := s.compute(ctx, req)
	if err != nil {
		return nil, err
	}

	visible := method.Filter(res.Placements, r.step)
	if r.side != SideAll {
		visible = method.FilterSide(visible, models.Side(r.side))
	}

	return &layoutResponse{
		Pattern:        res,
		Step:           r.step,
		Side:           r.side,
		StartRimHole:   r.startRimHole,
		ValveReference: r.valveRef,
		Anchor:         layout.NewAnchor(r.holes, r.startRimHole, r.valveRef),
		Visible:        visible,
		Table:          export.VisibleRows(res.Table, visible),
		Layout:         layout.Map(r.holes, res.Placements, r.startRimHole, r.valveRef, layout.WithVisible(visible)),
	}, nil
}
