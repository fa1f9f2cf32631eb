package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"retailpulse/internal/config"
	apierrors "retailpulse/internal/errors"
	"retailpulse/internal/infrastructure"
	customMiddleware "retailpulse/internal/middleware"
	"retailpulse/internal/services"
	handlers "retailpulse/internal/transport/http"
)

const (
	VERSION = "v1.0.0"
	AppName = "RetailPulse - POS Promotion Analytics"
)

// BuildTime is set at compile time via ldflags
var BuildTime = ""

// Application represents the main application container
type Application struct {
	Config    *config.Config
	Router    *chi.Mux
	Server    *http.Server
	Logger    *slog.Logger
	Metrics   *infrastructure.Metrics
	Snapshots *services.SnapshotService
	Analytics *services.AnalyticsService
	Health    *services.HealthService
}

// NewApplication creates a new application instance with dependency injection
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", VERSION),
		slog.Int("port", cfg.Server.Port))

	app := &Application{
		Config:  cfg,
		Logger:  logger,
		Metrics: infrastructure.NewMetrics(),
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	a.Snapshots = services.NewSnapshotService(a.Config.Data, a.Metrics, a.Logger)

	// A missing or unreadable snapshot is not fatal: the service starts
	// degraded and the readiness probe reports it.
	if err := a.Snapshots.Load(context.Background()); err != nil {
		a.Logger.Warn("snapshot not loaded at startup",
			slog.String("path", a.Config.Data.SnapshotPath),
			slog.String("error", err.Error()))
	}

	analytics, err := services.NewAnalyticsService(a.Config.Analytics, a.Snapshots, a.Metrics, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize analytics service: %w", err)
	}
	a.Analytics = analytics

	a.Health = services.NewHealthService(VERSION, BuildTime, a.Snapshots, a.Logger)

	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	// Prometheus scrape endpoint stays outside the middleware group.
	r.Handle("/metrics", handlers.NewMetricsHandler(a.Metrics).Handler())

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.Metrics(a.Metrics))
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
	})

	errorHandler := apierrors.NewErrorHandler(a.Logger, false)
	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		handlers.NewHealthHandler(a.Health, a.Logger).RegisterRoutes(r)
		handlers.NewPromoHandler(a.Analytics, a.Logger).RegisterRoutes(r)
		handlers.NewQualityHandler(a.Analytics, a.Logger).RegisterRoutes(r)
		handlers.NewPricingHandler(a.Analytics, a.Logger).RegisterRoutes(r)
		handlers.NewKPIHandler(a.Analytics, a.Logger).RegisterRoutes(r)
		handlers.NewDashboardHandler(a.Analytics, a.Logger).RegisterRoutes(r)
	})
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
		Logger:         a.Logger,
	}
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start begins serving HTTP requests. It returns once the listener is
// running; serve errors are reported through the returned channel.
func (a *Application) Start(ctx context.Context) <-chan error {
	errCh := make(chan error, 1)

	go func() {
		a.Logger.InfoContext(ctx, "http server listening",
			slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	return errCh
}

// Stop shuts the application down gracefully.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.ErrorContext(ctx, "error closing log file", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

// Run starts the application and blocks until an interrupt signal or a
// fatal serve error.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errCh := a.Start(ctx)

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "received signal", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout+5*time.Second)
	defer stopCancel()
	return a.Stop(stopCtx)
}
