package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agencia-viajes/internal/config"
	"agencia-viajes/internal/domain"
	"agencia-viajes/internal/handler"
	"agencia-viajes/internal/messaging"
	"agencia-viajes/internal/middleware"
	"agencia-viajes/internal/observability"
	"agencia-viajes/internal/repository/postgres"
	"agencia-viajes/internal/service"
	"agencia-viajes/internal/web"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "json"
	}
	observability.InitLogger(logLevel, logFormat)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("starting web server")

	db, err := config.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("connected to postgresql")

	if err := config.ApplyMigrations(db); err != nil {
		slog.Error("failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rmqCtx, rmqCancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer rmqCancel()

	rmq, err := messaging.NewRabbitMQWithRetry(rmqCtx, cfg.RabbitMQURL, 5*time.Second)
	if err != nil {
		slog.Error("failed to connect to rabbitmq", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer rmq.Close()

	userRepo, err := postgres.NewUserRepository(db)
	if err != nil {
		slog.Error("failed to prepare user repository", slog.String("error", err.Error()))
		os.Exit(1)
	}
	sessionRepo, err := postgres.NewSessionRepository(db)
	if err != nil {
		slog.Error("failed to prepare session repository", slog.String("error", err.Error()))
		os.Exit(1)
	}
	destRepo, err := postgres.NewDestinationRepository(db)
	if err != nil {
		slog.Error("failed to prepare destination repository", slog.String("error", err.Error()))
		os.Exit(1)
	}

	authService := service.NewAuthService(userRepo, sessionRepo, cfg.SessionTTL)
	catalogService := service.NewCatalogService(destRepo)

	renderer, err := web.NewRenderer()
	if err != nil {
		slog.Error("failed to parse templates", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startSessionCleanup(ctx, sessionRepo)
	go trackGauges(ctx, db, sessionRepo)
	slog.Info("background tasks started")

	loginHandler := handler.NewLoginHandler(authService, renderer)
	registerHandler := handler.NewRegisterHandler(authService, renderer)
	catalogHandler := handler.NewCatalogHandler(catalogService, renderer)
	contactHandler := handler.NewContactHandler(authService, rmq, renderer)
	adminHandler := handler.NewAdminHandler(authService, renderer)

	loginLimiter := middleware.NewRateLimiter(5, 10)
	defer loginLimiter.Stop()

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Metrics())
	r.Use(middleware.LoadSession(sessionRepo))

	r.Get("/health", handler.Health)
	r.Get("/health/ready", handler.Ready(db, rmq))
	r.Handle("/metrics", promhttp.Handler())

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("./static"))))

	r.Get("/", catalogHandler.Home)
	r.Get("/viajes/{id}", catalogHandler.Detail)

	// The login POST does its own CSRF check so failures re-render the form
	// with the right message instead of a bare 403
	r.Group(func(r chi.Router) {
		r.Use(loginLimiter.Middleware())
		r.Get("/login", loginHandler.ShowForm)
		r.Post("/login", loginHandler.Submit)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.CSRF)
		r.Post("/logout", loginHandler.Logout)
		r.Post("/registro", registerHandler.Submit)
		r.Post("/contacto", contactHandler.Submit)
	})

	r.Get("/registro", registerHandler.ShowForm)
	r.Get("/contacto", contactHandler.ShowForm)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/administracion", adminHandler.Dashboard)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("web server listening", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", slog.String("error", err.Error()))
	}

	cancel()
	slog.Info("server stopped gracefully")
}

// startSessionCleanup runs a background task to delete expired sessions
func startSessionCleanup(ctx context.Context, repo domain.SessionRepository) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("stopping session cleanup task")
			return
		case <-ticker.C:
			cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 30*time.Second)
			count, err := repo.DeleteExpired(cleanupCtx)
			if err != nil {
				slog.Error("session cleanup failed", slog.String("error", err.Error()))
			} else {
				slog.Info("session cleanup completed",
					slog.Int64("sessions_deleted", count))
			}
			cleanupCancel()
		}
	}
}

// trackGauges mirrors sql.DB pool stats and the active session count into
// the Prometheus gauges
func trackGauges(ctx context.Context, db *sql.DB, sessionRepo *postgres.SessionRepository) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := db.Stats()
			observability.DBConnectionsOpen.Set(float64(stats.OpenConnections))
			observability.DBConnectionsInUse.Set(float64(stats.InUse))
			observability.DBConnectionsIdle.Set(float64(stats.Idle))

			countCtx, countCancel := context.WithTimeout(context.Background(), 5*time.Second)
			if count, err := sessionRepo.CountActive(countCtx); err == nil {
				observability.SessionsActive.Set(float64(count))
			}
			countCancel()
		}
	}
}
