package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"rentfolio/internal/auth"
	"rentfolio/internal/config"
	"rentfolio/internal/database"
	"rentfolio/internal/demo"
	"rentfolio/internal/handlers"
	"rentfolio/internal/middleware"
	"rentfolio/internal/models"
	"rentfolio/internal/repository"
	"rentfolio/internal/services"
)

// App holds the application dependencies.
type App struct {
	config          *config.Config
	db              *database.DB
	log             *logrus.Logger
	router          *chi.Mux
	authMiddleware  *middleware.AuthMiddleware
	snapshotService *services.SnapshotService

	authHandler        *handlers.AuthHandler
	propertyHandler    *handlers.PropertyHandler
	loanHandler        *handlers.LoanHandler
	transactionHandler *handlers.TransactionHandler
	portfolioHandler   *handlers.PortfolioHandler
	preferenceHandler  *handlers.PreferenceHandler
	shareHandler       *handlers.ShareHandler
	exportHandler      *handlers.ExportHandler
	adminHandler       *handlers.AdminHandler
}

func main() {
	cfg := config.New()
	log := newLogger(cfg.LogLevel)

	db, err := database.New(cfg.DBPath)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}
	log.Info("database migrations completed")

	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	preferenceRepo := repository.NewPreferenceRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)

	// In demo mode, seed demo data; otherwise create the default admin.
	if cfg.DemoMode {
		if err := demo.NewSeeder(db, log).SeedIfEmpty(); err != nil {
			log.WithError(err).Fatal("failed to seed demo data")
		}
	} else {
		if err := ensureDefaultAdmin(userRepo, log); err != nil {
			log.WithError(err).Fatal("failed to ensure default admin")
		}
	}

	sessionManager := auth.NewSessionManager(db).
		WithDuration(time.Duration(cfg.SessionMaxAge) * time.Second)
	tokenManager := auth.NewTokenManager(cfg.JWTSecret)

	metricsService := services.NewPropertyMetricsService(propertyRepo, loanRepo, transactionRepo)
	auditService := services.NewAuditService(db, log)
	snapshotService := services.NewSnapshotService(metricsService, propertyRepo, snapshotRepo, log)

	if err := snapshotService.Start(cfg.SnapshotSchedule); err != nil {
		log.WithError(err).Fatal("failed to start snapshot scheduler")
	}
	defer snapshotService.Stop()

	deps := handlers.NewDependencies().
		WithUserRepo(userRepo).
		WithPropertyRepo(propertyRepo).
		WithLoanRepo(loanRepo).
		WithTransactionRepo(transactionRepo).
		WithPreferenceRepo(preferenceRepo).
		WithSnapshotRepo(snapshotRepo).
		WithSessionManager(sessionManager).
		WithTokenManager(tokenManager).
		WithMetricsService(metricsService).
		WithSnapshotService(snapshotService).
		WithAuditService(auditService).
		WithBaseURL(cfg.BaseURL).
		WithDemoMode(cfg.DemoMode)

	app := &App{
		config:             cfg,
		db:                 db,
		log:                log,
		authMiddleware:     middleware.NewAuthMiddleware(sessionManager, tokenManager, userRepo, cfg.DemoMode),
		snapshotService:    snapshotService,
		authHandler:        handlers.NewAuthHandler(deps),
		propertyHandler:    handlers.NewPropertyHandler(deps),
		loanHandler:        handlers.NewLoanHandler(deps),
		transactionHandler: handlers.NewTransactionHandler(deps),
		portfolioHandler:   handlers.NewPortfolioHandler(deps),
		preferenceHandler:  handlers.NewPreferenceHandler(deps),
		shareHandler:       handlers.NewShareHandler(deps),
		exportHandler:      handlers.NewExportHandler(deps),
		adminHandler:       handlers.NewAdminHandler(deps),
	}
	app.setupRouter()

	server := &http.Server{
		Addr:         cfg.Address(),
		Handler:      app.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Address()).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	// Periodic cleanup of expired sessions.
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	go sessionCleanupLoop(cleanupCtx, sessionManager, log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}
	log.Info("server stopped")
}

func (app *App) setupRouter() {
	r := chi.NewRouter()

	// Chi middleware (aliased as chimw to avoid conflict with our middleware package)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))

	r.Use(middleware.SecurityHeaders)
	r.Use(app.authMiddleware.LoadUser)

	r.Get("/health", app.handleHealth)

	// Auth endpoints, rate limited against brute force.
	r.Group(func(r chi.Router) {
		r.Use(middleware.LimitAuth)
		r.Post("/api/auth/register", app.authHandler.Register)
		r.Post("/api/auth/login", app.authHandler.Login)
		r.Post("/api/auth/token", app.authHandler.Token)
	})

	r.Group(func(r chi.Router) {
		r.Use(app.authMiddleware.RequireAuth)
		r.Post("/api/auth/logout", app.authHandler.Logout)
		r.Get("/api/auth/me", app.authHandler.Me)
		r.With(middleware.LimitAuth).Post("/api/auth/change-password", app.authHandler.ChangePassword)
	})

	// Authenticated API.
	r.Group(func(r chi.Router) {
		r.Use(app.authMiddleware.RequireAuth)
		r.Use(app.authMiddleware.RequirePasswordChanged)
		r.Use(middleware.LimitAPI)

		r.Route("/api/properties", func(r chi.Router) {
			r.Get("/", app.propertyHandler.List)
			r.Post("/", app.propertyHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", app.propertyHandler.Get)
				r.Put("/", app.propertyHandler.Update)
				r.Delete("/", app.propertyHandler.Delete)
				r.Get("/metrics", app.propertyHandler.Metrics)
				r.Get("/pulse", app.propertyHandler.Pulse)
				r.Get("/depreciation", app.propertyHandler.DepreciationSchedule)
				r.Get("/depreciation.csv", app.exportHandler.PropertyDepreciation)
				r.Get("/transactions.csv", app.exportHandler.Transactions)

				r.Post("/share", app.shareHandler.Enable)
				r.Delete("/share", app.shareHandler.Disable)

				r.Route("/loans", func(r chi.Router) {
					r.Get("/", app.loanHandler.List)
					r.Post("/", app.loanHandler.Create)
					r.Put("/{loanID}", app.loanHandler.Update)
					r.Delete("/{loanID}", app.loanHandler.Delete)
				})

				r.Route("/transactions", func(r chi.Router) {
					r.Get("/", app.transactionHandler.List)
					r.Post("/", app.transactionHandler.Create)
					r.Get("/summary", app.transactionHandler.Summary)
					r.Put("/{txnID}", app.transactionHandler.Update)
					r.Delete("/{txnID}", app.transactionHandler.Delete)
				})
			})
		})

		r.Route("/api/portfolio", func(r chi.Router) {
			r.Get("/summary", app.portfolioHandler.Summary)
			r.Get("/history", app.portfolioHandler.History)
			r.Post("/snapshot", app.portfolioHandler.Snapshot)
		})

		r.Route("/api/preferences", func(r chi.Router) {
			r.Get("/", app.preferenceHandler.List)
			r.Get("/{key}", app.preferenceHandler.Get)
			r.Put("/{key}", app.preferenceHandler.Set)
			r.Delete("/{key}", app.preferenceHandler.Delete)
		})

		r.Route("/api/export", func(r chi.Router) {
			r.Get("/depreciation", app.exportHandler.DepreciationSchedule)
			r.Get("/portfolio", app.exportHandler.Portfolio)
		})
	})

	// Admin API.
	r.Group(func(r chi.Router) {
		r.Use(app.authMiddleware.RequireAuth)
		r.Use(app.authMiddleware.RequirePasswordChanged)
		r.Use(app.authMiddleware.RequireAdmin)

		r.Route("/api/admin", func(r chi.Router) {
			r.Get("/users", app.adminHandler.ListUsers)
			r.Post("/users", app.adminHandler.CreateUser)
			r.Get("/users/{id}", app.adminHandler.GetUser)
			r.Delete("/users/{id}", app.adminHandler.DeleteUser)
			r.Post("/users/{id}/reset-password", app.adminHandler.ResetPassword)
			r.Get("/audit", app.adminHandler.AuditLog)
		})
	})

	// Public share views, reachable without a session.
	r.Group(func(r chi.Router) {
		r.Use(middleware.LimitShare)
		r.Get("/share/{token}", app.shareHandler.View)
		r.Get("/share/{token}/qr.png", app.shareHandler.QR)
	})

	app.router = r
}

// handleHealth returns the server health status.
func (app *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// newLogger builds the application logger from the configured level.
func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// sessionCleanupLoop deletes expired sessions once an hour.
func sessionCleanupLoop(ctx context.Context, sm *auth.SessionManager, log *logrus.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sm.CleanExpired()
			if err != nil {
				log.WithError(err).Warn("session cleanup failed")
				continue
			}
			if n > 0 {
				log.WithField("count", n).Debug("removed expired sessions")
			}
		}
	}
}

// ensureDefaultAdmin creates a default admin user if no users exist.
// The default admin must change their password on first login.
func ensureDefaultAdmin(userRepo *repository.UserRepository, log *logrus.Logger) error {
	count, err := userRepo.CountAll()
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		return nil
	}

	passwordHash, err := auth.HashPassword("changeme")
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	admin := &models.User{
		Email:              "admin@localhost",
		PasswordHash:       passwordHash,
		Name:               "Admin",
		IsAdmin:            true,
		MustChangePassword: true,
	}
	if _, err := userRepo.Create(admin); err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	log.Info("========================================")
	log.Info("DEFAULT ADMIN CREATED")
	log.Info("Email:    admin@localhost")
	log.Info("Password: changeme")
	log.Info("You MUST change this password on first login!")
	log.Info("========================================")

	return nil
}
