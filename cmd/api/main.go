// cmd/api/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/opsledger/billingd/internal/auth"
	"github.com/opsledger/billingd/internal/config"
	"github.com/opsledger/billingd/internal/email"
	"github.com/opsledger/billingd/internal/gateway"
	"github.com/opsledger/billingd/internal/handler"
	"github.com/opsledger/billingd/internal/middleware"
	"github.com/opsledger/billingd/internal/repository"
	"github.com/opsledger/billingd/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := setupDatabase(cfg)
	if err != nil {
		return fmt.Errorf("setting up database: %w", err)
	}

	// Initialize repositories
	orgRepo := repository.NewOrganizationRepository(db)
	reportRepo := repository.NewUsageReportRepository(db)
	operatorRepo := repository.NewOperatorRepository(db)
	eventRepo := repository.NewWebhookEventRepository(db)

	// Initialize auth services
	passwordHasher := auth.NewPasswordHasher()
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiryPeriod)

	// Initialize email service; optional, billing works without it
	var emailService *email.Service
	if cfg.Sendgrid.APIKey != "" {
		emailService, err = email.NewEmailService(cfg, email.ProviderSendgrid)
		if err != nil {
			return fmt.Errorf("initializing email service: %w", err)
		}
	} else {
		logger.Warn("no Sendgrid API key configured, email notifications disabled")
	}

	// Initialize billing provider gateway
	stripeGateway := gateway.NewStripeGateway(cfg.Stripe.SecretKey, gateway.PriceCatalog{
		ManagedCloudMonthly: cfg.Stripe.PriceManagedCloudMonthly,
		ManagedCloudYearly:  cfg.Stripe.PriceManagedCloudYearly,
		OnPremiseMonthly:    cfg.Stripe.PriceOnPremiseMonthly,
		OnPremiseYearly:     cfg.Stripe.PriceOnPremiseYearly,
	}, cfg.Stripe.CallTimeout)

	// Initialize cache service
	cacheService := service.NewCacheService(service.CacheConfig{
		TTL:         5 * time.Minute,
		CleanupFreq: 1 * time.Minute,
	})
	defer cacheService.Close()

	// Initialize services
	billingService := service.NewBillingService(orgRepo, reportRepo, stripeGateway)
	orgService := service.NewOrganizationService(orgRepo, reportRepo, stripeGateway, emailService)
	statsService := service.NewStatsService(orgRepo, reportRepo, stripeGateway, cacheService)
	operatorService := service.NewOperatorService(operatorRepo, passwordHasher, tokenManager)
	webhookService := service.NewWebhookService(orgRepo, eventRepo, emailService)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(operatorService)
	usageReportHandler := handler.NewUsageReportHandler(billingService)
	adminHandler := handler.NewAdminHandler(orgService, statsService)
	webhookHandler := handler.NewWebhookHandler(cfg.Stripe.WebhookSecret, webhookService)

	// Create router
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(loggingMiddleware(logger))
	r.Use(recoveryMiddleware(logger))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Provider webhooks verify their own signature; no JSON content-type
	// middleware here, Stripe needs the raw body.
	r.Post("/webhooks/stripe", webhookHandler.ServeHTTP)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			r.Use(chimw.AllowContentType("application/json"))
			r.Post("/auth/login", authHandler.LoginHandler)
		})

		// Usage-report ingest, authenticated by shared deployment token
		r.Group(func(r chi.Router) {
			r.Use(chimw.AllowContentType("application/json"))
			r.Use(middleware.IngestAuthMiddleware(cfg.Ingest.Token))
			r.Post("/usage-reports", usageReportHandler.IngestHandler)
		})

		r.Route("/organizations", func(r chi.Router) {
			// Deployment-facing status read, same token as ingest
			r.With(middleware.IngestAuthMiddleware(cfg.Ingest.Token)).
				Get("/{id}/status", usageReportHandler.StatusHandler)

			// Operator console routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthMiddleware(tokenManager))

				r.Get("/", adminHandler.ListOrganizations)
				r.Get("/{id}", adminHandler.GetOrganization)
				r.Get("/{id}/invoices", adminHandler.OrganizationInvoices)

				// Mutations need the admin role
				r.Group(func(r chi.Router) {
					r.Use(chimw.AllowContentType("application/json"))
					r.Use(middleware.AdminOnly)

					r.Post("/{id}/link", adminHandler.LinkOrganization)
					r.Post("/{id}/unlink", adminHandler.UnlinkOrganization)
					r.Patch("/{id}/tags", adminHandler.UpdateTags)
					r.Patch("/{id}/display-name", adminHandler.UpdateDisplayName)
					r.Patch("/{id}/quantity", adminHandler.UpdateQuantity)
					r.Post("/{id}/resync", adminHandler.ResyncOrganization)
				})
			})
		})

		// Operator stats
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(tokenManager))

			r.Route("/stats", func(r chi.Router) {
				r.Get("/", adminHandler.Stats)
				r.Get("/evolution", adminHandler.StatsEvolution)
			})
		})
	})

	// Create server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Server error channel
	serverErrors := make(chan error, 1)

	// Start server
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Shutdown channel
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Wait for shutdown or error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("shutdown started", "signal", sig)

		// Give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Gracefully shutdown the server
		if err := srv.Shutdown(ctx); err != nil {
			// If shutdown times out, forcefully close
			srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

func setupDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return db, nil
}

func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"size", ww.BytesWritten(),
				"duration", time.Since(start),
				"requestID", chimw.GetReqID(r.Context()),
			)
		})
	}
}

func recoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						"panic", rvr,
						"stack", string(debug.Stack()),
						"requestID", chimw.GetReqID(r.Context()),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"ok":false,"error":"Internal server error"}`))
					return
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
