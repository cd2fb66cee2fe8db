// handlers_method.go - Lacing method discovery handlers
package api

import (
	"net/http"
	"strconv"

	"github.com/CryoKynase/wheel-lacing-app/internal/method"
	"github.com/labstack/echo/v4"
)

// MethodHandlerImpl implements the MethodHandler interface
type MethodHandlerImpl struct {
	registry *method.Registry
}

// NewMethodHandler creates a new method handler
func NewMethodHandler(registry *method.Registry) MethodHandler {
	return &MethodHandlerImpl{registry: registry}
}

// HandleListMethods lists every registered method with its parameters and steps
func (h *MethodHandlerImpl) HandleListMethods(c echo.Context) error {
	methods := h.registry.List()
	infos := make([]method.Info, 0, len(methods))
	for _, m := range methods {
		infos = append(infos, method.Describe(m))
	}

	defaultID := ""
	if d := h.registry.Default(); d != nil {
		defaultID = d.Descriptor().ID
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"methods": infos,
		"default": defaultID,
	})
}

// HandleGetMethod describes one method
func (h *MethodHandlerImpl) HandleGetMethod(c echo.Context) error {
	id := c.Param("id")
	m, err := h.registry.Get(id)
	if err != nil {
		return fromDomainError(err, 0, "method", id)
	}
	return c.JSON(http.StatusOK, method.Describe(m))
}

// HandleGetCrosses reports the crossing limit and usual choices for a hole count
func (h *MethodHandlerImpl) HandleGetCrosses(c echo.Context) error {
	id := c.Param("id")
	m, err := h.registry.Get(id)
	if err != nil {
		return fromDomainError(err, 0, "method", id)
	}

	holes, err := strconv.Atoi(c.QueryParam("holes"))
	if err != nil {
		return NewValidationError("holes")
	}
	if err := method.ValidateHoleCount(holes); err != nil {
		return NewInvalidHoleCountError(holes)
	}

	limiter, ok := m.(CrossLimiter)
	if !ok {
		return NewUnsupportedError("method " + m.Descriptor().ID + " has no crossing count")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"methodId": m.Descriptor().ID,
		"holes":    holes,
		"max":      limiter.MaxCrosses(holes),
		"common":   limiter.CommonCrosses(holes),
	})
}
