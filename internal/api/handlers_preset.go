// handlers_preset.go - Stored preset handlers
package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"

	"github.com/CryoKynase/wheel-lacing-app/internal/layout"
	"github.com/CryoKynase/wheel-lacing-app/internal/method"
	"github.com/CryoKynase/wheel-lacing-app/internal/models"
	"github.com/CryoKynase/wheel-lacing-app/internal/storage"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// MaxImportPresets caps the presets accepted by one import
const MaxImportPresets = 500

// PresetHandlerImpl implements the PresetHandler interface
type PresetHandlerImpl struct {
	store    storage.Store
	registry *method.Registry
	defaults Defaults
	logger   *zap.Logger
}

// NewPresetHandler creates a new preset handler instance
func NewPresetHandler(store storage.Store, registry *method.Registry, defaults Defaults, logger *zap.Logger) PresetHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PresetHandlerImpl{
		store:    store,
		registry: registry,
		defaults: defaults.withFallbacks(),
		logger:   logger,
	}
}

// presetRequest is the body of create and update
type presetRequest struct {
	Name           string                `json:"name"`
	MethodID       string                `json:"methodId"`
	Holes          *int                  `json:"holes"`
	Params         map[string]any        `json:"params"`
	StartRimHole   *int                  `json:"startRimHole"`
	ValveReference models.ValveReference `json:"valveReference"`
}

type importPresetsRequest struct {
	Data string `json:"data"` // Base64 encoded YAML bundle
}

// normalize validates a preset and rewrites its inputs into canonical form:
// parameters resolved through the method schema and the start hole wrapped
// onto the rim.
func (h *PresetHandlerImpl) normalize(p *models.Preset) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return NewValidationError("name")
	}

	methodID := p.MethodID
	if methodID == "" {
		methodID = h.defaults.MethodID
	}
	m, err := h.registry.Resolve(methodID)
	if err != nil {
		return fromDomainError(err, 0, "method", methodID)
	}
	p.MethodID = m.Descriptor().ID

	if err := method.ValidateHoleCount(p.Holes); err != nil {
		return NewInvalidHoleCountError(p.Holes)
	}

	if p.ValveReference == "" {
		p.ValveReference = h.defaults.ValveReference
	}
	if !p.ValveReference.Valid() {
		return NewValidationError("valveReference")
	}
	if p.StartRimHole == 0 {
		p.StartRimHole = h.defaults.StartRimHole
	}
	p.StartRimHole = layout.Wrap(p.Holes, p.StartRimHole)

	p.Params = method.Resolve(m.ParamSchema(), p.Params).Map()
	return nil
}

func (h *PresetHandlerImpl) fromRequest(req presetRequest) (*models.Preset, error) {
	p := &models.Preset{
		Name:           req.Name,
		MethodID:       req.MethodID,
		Holes:          h.defaults.Holes,
		Params:         req.Params,
		ValveReference: req.ValveReference,
	}
	if req.Holes != nil {
		p.Holes = *req.Holes
	}
	if req.StartRimHole != nil {
		p.StartRimHole = *req.StartRimHole
	}
	if err := h.normalize(p); err != nil {
		return nil, err
	}
	return p, nil
}

// HandleListPresets lists stored presets, most recently updated first
func (h *PresetHandlerImpl) HandleListPresets(c echo.Context) error {
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return NewValidationError("limit")
		}
		limit = n
	}

	presets, err := h.store.List(c.Request().Context(), limit)
	if err != nil {
		return NewInternalError("failed to list presets", err)
	}

	summaries := make([]models.PresetSummary, 0, len(presets))
	for _, p := range presets {
		summaries = append(summaries, p.Summary())
	}
	return c.JSON(http.StatusOK, summaries)
}

// HandleCreatePreset stores a new preset
func (h *PresetHandlerImpl) HandleCreatePreset(c echo.Context) error {
	var req presetRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	p, err := h.fromRequest(req)
	if err != nil {
		return err
	}

	created, err := h.store.Create(c.Request().Context(), p)
	if err != nil {
		return NewInternalError("failed to save preset", err)
	}

	h.logger.Info("preset created", zap.String("id", created.ID), zap.String("name", created.Name))
	return c.JSON(http.StatusCreated, created)
}

// HandleGetPreset returns one preset
func (h *PresetHandlerImpl) HandleGetPreset(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	p, err := h.store.Get(c.Request().Context(), id)
	if err != nil {
		return fromDomainError(err, 0, "preset", id)
	}
	return c.JSON(http.StatusOK, p)
}

// HandleUpdatePreset replaces a preset's inputs
func (h *PresetHandlerImpl) HandleUpdatePreset(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	var req presetRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	p, err := h.fromRequest(req)
	if err != nil {
		return err
	}
	p.ID = id

	updated, err := h.store.Update(c.Request().Context(), p)
	if err != nil {
		return fromDomainError(err, 0, "preset", id)
	}

	h.logger.Info("preset updated", zap.String("id", id))
	return c.JSON(http.StatusOK, updated)
}

// HandleDeletePreset removes a preset
func (h *PresetHandlerImpl) HandleDeletePreset(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	if err := h.store.Delete(c.Request().Context(), id); err != nil {
		return fromDomainError(err, 0, "preset", id)
	}

	h.logger.Info("preset deleted", zap.String("id", id))
	return c.NoContent(http.StatusNoContent)
}

// HandleExportPresets downloads every preset as a YAML bundle
func (h *PresetHandlerImpl) HandleExportPresets(c echo.Context) error {
	presets, err := h.store.List(c.Request().Context(), 0)
	if err != nil {
		return NewInternalError("failed to list presets", err)
	}

	data, err := storage.EncodeBundle(presets)
	if err != nil {
		return NewInternalError("failed to encode presets", err)
	}

	setAttachment(c, "wheel-presets.yaml")
	return c.Blob(http.StatusOK, "application/x-yaml", data)
}

// HandleImportPresets stores every preset of a base64 encoded YAML bundle.
// The bundle is validated as a whole before anything is stored.
func (h *PresetHandlerImpl) HandleImportPresets(c echo.Context) error {
	var req importPresetsRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if req.Data == "" {
		return NewValidationError("data")
	}

	decoded, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return NewBadRequestError("invalid base64 data", err)
	}

	bundle, err := storage.DecodeBundle(bytes.NewReader(decoded))
	if err != nil {
		return NewBadRequestError("invalid preset bundle", err)
	}
	if len(bundle) > MaxImportPresets {
		return NewBadRequestError("too many presets in bundle", nil)
	}

	for i := range bundle {
		if err := h.normalize(&bundle[i]); err != nil {
			if apiErr, ok := err.(*APIError); ok {
				apiErr.Details = "preset " + strconv.Itoa(i+1) + ": " + apiErr.Message
			}
			return err
		}
	}

	created, err := h.createAll(c.Request().Context(), bundle)
	if err != nil {
		return NewInternalError("failed to import presets", err)
	}

	summaries := make([]models.PresetSummary, 0, len(created))
	for _, p := range created {
		summaries = append(summaries, p.Summary())
	}

	h.logger.Info("presets imported", zap.Int("count", len(created)))
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"imported": len(created),
		"presets":  summaries,
	})
}

func (h *PresetHandlerImpl) createAll(ctx context.Context, presets []models.Preset) ([]*models.Preset, error) {
	batch := make([]*models.Preset, len(presets))
	for i := range presets {
		batch[i] = &presets[i]
	}
	return h.store.CreateMany(ctx, batch)
}
