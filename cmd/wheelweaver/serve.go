package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/CryoKynase/wheel-lacing-app/internal/api"
	"github.com/CryoKynase/wheel-lacing-app/internal/config"
	"github.com/CryoKynase/wheel-lacing-app/internal/logging"
	"github.com/CryoKynase/wheel-lacing-app/internal/session"
	"github.com/CryoKynase/wheel-lacing-app/internal/storage"
	"github.com/CryoKynase/wheel-lacing-app/internal/web"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds graceful shutdown of in-flight requests.
const shutdownTimeout = 10 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and live-compute server",
		Long: `Starts the HTTP server. The config file is created with defaults when it
does not exist yet. PORT, DATA_DIR, WHEELWEAVER_STORAGE_DRIVER and
WHEELWEAVER_LOG_LEVEL override the file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(root.configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			logger := root.logger
			if !cmd.Flags().Changed("log-level") && !root.verbose {
				if logger, err = logging.New(cfg.Advanced.LogLevel, cfg.Advanced.DevelopmentLogging); err != nil {
					return err
				}
				defer func() { _ = logger.Sync() }()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runServer(ctx, cfg, root.configPath, logger)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Listen port (overrides the config file)")

	return cmd
}

func runServer(ctx context.Context, cfg *config.AppConfig, configPath string, logger *zap.Logger) error {
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	store, err := storage.Open(cfg.Storage.Driver, cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close preset store", zap.Error(err))
		}
	}()

	sessionMgr := session.NewManager(logger, session.WithMaxSessions(cfg.Live.MaxSessions))

	handlers := api.NewHandlers(&api.Dependencies{
		Registry:   newRegistry(),
		Store:      store,
		SessionMgr: sessionMgr,
		Defaults: api.Defaults{
			MethodID:       cfg.Defaults.Method,
			Holes:          cfg.Defaults.Holes,
			StartRimHole:   cfg.Defaults.StartRimHole,
			ValveReference: cfg.Defaults.ValveReference,
		},
		Logger:            logger,
		Version:           Version,
		MaxLiveMessageLen: int64(cfg.Live.MaxMessageSizeKB) * 1024,
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	api.SetupMiddleware(e, api.MiddlewareConfig{
		Logger:           logger,
		RequestLogging:   cfg.Advanced.EnableRequestLogging,
		EnableCORS:       cfg.Server.EnableCORS,
		AllowOrigins:     splitOrigins(cfg.Server.AllowOrigins),
		EnableGzip:       cfg.Processing.EnableCompression,
		GzipLevel:        cfg.Processing.CompressionLevel,
		BodyLimit:        cfg.Server.BodyLimit,
		RequestTimeout:   time.Duration(cfg.Server.RequestTimeout) * time.Second,
		ShowErrorDetails: cfg.Advanced.DevelopmentLogging,
	})
	api.RegisterRoutes(e, handlers)

	if err := web.RegisterStaticRoutes(e); err != nil {
		logger.Warn("failed to register static routes", zap.Error(err))
	}

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	printBanner(cfg, configPath)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server listening", zap.String("addr", s.Addr))
		if err := e.StartServer(s); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		interval := time.Duration(cfg.Live.CleanupIntervalMinutes) * time.Minute
		maxAge := time.Duration(cfg.Live.SessionTimeoutMinutes) * time.Minute
		if interval <= 0 || maxAge <= 0 {
			<-gctx.Done()
			return nil
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := sessionMgr.CleanupOldSessions(maxAge); n > 0 {
					logger.Debug("expired live sessions", zap.Int("count", n))
				}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// splitOrigins parses the comma-separated CORS origin list. Empty means any.
func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func printBanner(cfg *config.AppConfig, configPath string) {
	mode := "API only"
	if web.HasEmbeddedFiles() {
		mode = "API + embedded viewer"
	}

	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           Wheel Weaver Server                             ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("║  Mode:       %-45s║\n", mode)
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Config:    %-46s║\n", configPath)
	fmt.Printf("║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Storage:   %-46s║\n", cfg.Storage.Driver)
	fmt.Printf("║  Data Dir:  %-46s║\n", cfg.GetDataDir())
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")
}
