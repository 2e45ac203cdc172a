package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"staffing/internal/domain/allocation"
	"staffing/internal/domain/auth"
	"staffing/internal/domain/employee"
	"staffing/internal/domain/intent"
	"staffing/internal/domain/reports"
	"staffing/internal/platform/config"
	"staffing/internal/platform/db"
	"staffing/internal/platform/llm"
	"staffing/internal/platform/metrics"
	"staffing/internal/platform/storage/jsonfile"
	"staffing/internal/platform/storage/postgres"
	"staffing/internal/transport/http/api"
	allocationshandler "staffing/internal/transport/http/handlers/allocations"
	assistanthandler "staffing/internal/transport/http/handlers/assistant"
	authhandler "staffing/internal/transport/http/handlers/auth"
	employeeshandler "staffing/internal/transport/http/handlers/employees"
	reportshandler "staffing/internal/transport/http/handlers/reports"
	"staffing/internal/transport/http/middleware"
)

// Store is what every storage backend provides.
type Store interface {
	employee.Store
	allocation.Store
	Ping(ctx context.Context) error
	Close()
}

// OpenStore connects the configured backend. The postgres backend is
// migrated and, while empty, seeded from the JSON files in DataDir.
func OpenStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (Store, error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
		if err := db.SeedFromFiles(ctx, pool, cfg.DataDir, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
		return postgres.New(pool, logger), nil
	case config.BackendFile:
		return jsonfile.Open(cfg.DataDir, logger), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// Services is the domain layer shared by the HTTP server and staffctl.
type Services struct {
	Store       Store
	Metrics     *metrics.Collector
	Employees   *employee.Service
	Allocations *allocation.Service
	Assistant   *intent.Router
	Reports     *reports.Service
}

func NewServices(cfg config.Config, store Store, logger *slog.Logger) (*Services, error) {
	catalog := employee.DefaultCatalog()
	if cfg.CatalogFile != "" {
		loaded, err := employee.LoadCatalog(cfg.CatalogFile)
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		catalog = loaded
	}

	collector := metrics.New()
	employees := employee.NewService(store, catalog)
	allocations := allocation.NewService(store, store, allocation.WithRecorder(collector))

	routerOpts := []intent.RouterOption{intent.WithRecorder(collector), intent.WithLogger(logger)}
	if cfg.AssistantEnabled() {
		routerOpts = append(routerOpts, intent.WithParser(llm.NewGeminiClient(llm.Options{
			APIKey:       cfg.GeminiAPIKey,
			Model:        cfg.GeminiModel,
			BaseURL:      cfg.GeminiBaseURL,
			Timeout:      cfg.ParserTimeout,
			Designations: catalog.DesignationNames(),
		})))
	} else {
		logger.Warn("GEMINI_API_KEY not set; assistant disabled")
	}

	return &Services{
		Store:       store,
		Metrics:     collector,
		Employees:   employees,
		Allocations: allocations,
		Assistant:   intent.NewRouter(employees, allocations, routerOpts...),
		Reports:     reports.NewService(store, store, cfg.ReportsDir),
	}, nil
}

type App struct {
	Config   config.Config
	Services *Services
	Router   http.Handler
}

func (a *App) Close() {
	a.Services.Store.Close()
}

// New opens storage and builds the HTTP router.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	store, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	services, err := NewServices(cfg, store, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	router, err := NewRouter(cfg, services, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	return &App{Config: cfg, Services: services, Router: router}, nil
}

func NewRouter(cfg config.Config, services *Services, logger *slog.Logger) (http.Handler, error) {
	directory, err := auth.NewDirectory(
		auth.Credential{Username: cfg.AdminUsername, Password: cfg.AdminPassword, Role: auth.RoleAdmin},
		auth.Credential{Username: cfg.StaffUsername, Password: cfg.StaffPassword, Role: auth.RoleEmployee},
	)
	if err != nil {
		return nil, fmt.Errorf("auth directory: %w", err)
	}
	if directory.Len() == 0 {
		logger.Warn("no login accounts configured")
	}
	authService := auth.NewService(directory, cfg.JWTSecret, cfg.TokenTTL)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger, services.Metrics))
	router.Use(chimw.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(authService))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := services.Store.Ping(ctx); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, services.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(authService)
		r.With(middleware.LoginRateLimit(cfg.RateLimitPerMinute, time.Minute)).Post("/auth/login", authHandler.HandleLogin)
		r.Get("/me", authHandler.HandleMe)

		employeesHandler := employeeshandler.NewHandler(services.Employees, services.Allocations)
		employeesHandler.RegisterRoutes(r)

		allocationsHandler := allocationshandler.NewHandler(services.Allocations, middleware.NewIdempotencyStore(24*time.Hour))
		allocationsHandler.RegisterRoutes(r)

		assistantHandler := assistanthandler.NewHandler(services.Assistant, cfg.RateLimitPerMinute)
		assistantHandler.RegisterRoutes(r)

		reportsHandler := reportshandler.NewHandler(services.Reports)
		reportsHandler.RegisterRoutes(r)
	})

	return router, nil
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	app, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("staffing server listening", "addr", cfg.Addr, "backend", cfg.StorageBackend, "assistant", cfg.AssistantEnabled())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
