// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/CryoKynase/wheel-lacing-app/internal/models"
	"github.com/labstack/echo/v4"
)

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// MethodHandler describes the registered lacing methods
type MethodHandler interface {
	HandleListMethods(c echo.Context) error
	HandleGetMethod(c echo.Context) error
	HandleGetCrosses(c echo.Context) error
}

// PatternHandler computes patterns and renders them
type PatternHandler interface {
	HandleCompute(c echo.Context) error
	HandleLayout(c echo.Context) error
	HandleExportCSV(c echo.Context) error
	HandleDiagramSVG(c echo.Context) error
}

// PresetHandler handles stored preset operations
type PresetHandler interface {
	HandleListPresets(c echo.Context) error
	HandleCreatePreset(c echo.Context) error
	HandleGetPreset(c echo.Context) error
	HandleUpdatePreset(c echo.Context) error
	HandleDeletePreset(c echo.Context) error
	HandleExportPresets(c echo.Context) error
	HandleImportPresets(c echo.Context) error
}

// LiveHandler serves the live compute websocket
type LiveHandler interface {
	HandleLive(c echo.Context) error
}

// SessionManager defines the interface for live session tracking
// This allows mocking in tests
type SessionManager interface {
	StartSession() models.LiveSession
	Begin(id string, gen uint64) bool
	IsCurrent(id string, gen uint64) bool
	Finish(id string, gen uint64) bool
	TouchSession(id string) bool
	GetSession(id string) (models.LiveSession, bool)
	EndSession(id string)
	Count() int
}

// CrossLimiter is implemented by methods whose patterns have a cross count.
type CrossLimiter interface {
	MaxCrosses(holes int) int
	CommonCrosses(holes int) []int
}
