// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/CryoKynase/wheel-lacing-app/internal/logging"
	"github.com/CryoKynase/wheel-lacing-app/internal/method"
	"github.com/CryoKynase/wheel-lacing-app/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Registry          *method.Registry
	Store             storage.Store
	SessionMgr        SessionManager
	Defaults          Defaults
	Logger            *zap.Logger
	Version           string
	MaxLiveMessageLen int64
}

// Handlers holds all handler instances
type Handlers struct {
	Health  HealthHandler
	Methods MethodHandler
	Pattern PatternHandler
	Presets PresetHandler
	Live    LiveHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(deps.Version, deps.SessionMgr),
		Methods: NewMethodHandler(deps.Registry),
		Pattern: NewPatternHandler(deps.Registry, deps.Store, deps.Defaults),
		Presets: NewPresetHandler(deps.Store, deps.Registry, deps.Defaults, deps.Logger),
		Live:    NewWebSocketHandler(deps.Registry, deps.Store, deps.Defaults, deps.SessionMgr, deps.MaxLiveMessageLen, deps.Logger),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	apiGroup := e.Group("/api")

	// Health check
	apiGroup.GET("/health", handlers.Health.HandleHealth)

	// Method discovery
	apiGroup.GET("/methods", handlers.Methods.HandleListMethods)
	apiGroup.GET("/methods/:id", handlers.Methods.HandleGetMethod)
	apiGroup.GET("/methods/:id/crosses", handlers.Methods.HandleGetCrosses)

	// Pattern compute and rendering
	patternGroup := apiGroup.Group("/pattern")
	patternGroup.POST("/compute", handlers.Pattern.HandleCompute)
	patternGroup.POST("/layout", handlers.Pattern.HandleLayout)
	patternGroup.POST("/export/csv", handlers.Pattern.HandleExportCSV)
	patternGroup.POST("/diagram.svg", handlers.Pattern.HandleDiagramSVG)

	// Live compute
	apiGroup.GET("/ws/live", handlers.Live.HandleLive)

	// Presets
	presetGroup := apiGroup.Group("/presets")
	presetGroup.GET("", handlers.Presets.HandleListPresets)
	presetGroup.POST("", handlers.Presets.HandleCreatePreset)
	presetGroup.GET("/export", handlers.Presets.HandleExportPresets)
	presetGroup.POST("/import", handlers.Presets.HandleImportPresets)
	presetGroup.GET("/:id", handlers.Presets.HandleGetPreset)
	presetGroup.PUT("/:id", handlers.Presets.HandleUpdatePreset)
	presetGroup.DELETE("/:id", handlers.Presets.HandleDeletePreset)
}

// MiddlewareConfig selects the common middleware
type MiddlewareConfig struct {
	Logger           *zap.Logger
	RequestLogging   bool
	EnableCORS       bool
	AllowOrigins     []string
	EnableGzip       bool
	GzipLevel        int
	BodyLimit        string
	RequestTimeout   time.Duration
	ShowErrorDetails bool
}

// isLive reports whether the request targets the websocket endpoint, which
// must bypass response-wrapping middleware.
func isLive(c echo.Context) bool {
	return strings.HasSuffix(c.Request().URL.Path, "/ws/live")
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo, cfg MiddlewareConfig) {
	// Use custom error handler
	e.HTTPErrorHandler = ErrorHandler
	SetDevelopment(cfg.ShowErrorDetails)

	if cfg.RequestLogging {
		e.Use(logging.RequestLogger(cfg.Logger, "/api/health"))
	}

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logging.OrNop(cfg.Logger).Error("panic recovered",
				zap.Error(err),
				zap.String("uri", c.Request().RequestURI),
				zap.ByteString("stack", stack))
			return err
		},
	}))

	if cfg.RequestTimeout > 0 {
		e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
			Timeout:      cfg.RequestTimeout,
			Skipper:      isLive,
			ErrorMessage: "Request timeout - computation took too long",
		}))
	}

	if cfg.EnableGzip {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
			Level:   cfg.GzipLevel,
			Skipper: isLive,
		}))
	}

	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}

	if cfg.EnableCORS {
		origins := cfg.AllowOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}
}
