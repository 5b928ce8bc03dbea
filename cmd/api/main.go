package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/luxone/quotation-api/internal/auth"
	"github.com/luxone/quotation-api/internal/config"
	"github.com/luxone/quotation-api/internal/database"
	"github.com/luxone/quotation-api/internal/http/handler"
	"github.com/luxone/quotation-api/internal/http/middleware"
	"github.com/luxone/quotation-api/internal/http/router"
	"github.com/luxone/quotation-api/internal/jobs"
	"github.com/luxone/quotation-api/internal/logger"
	"github.com/luxone/quotation-api/internal/pricing"
	"github.com/luxone/quotation-api/internal/repository"
	"github.com/luxone/quotation-api/internal/service"
	"github.com/luxone/quotation-api/internal/storage"
	"go.uber.org/zap"
)

// @title Luxone Quotation API
// @version 1.0
// @description Worktop quotation pricing, quotation records and the admin panel backend

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token issued by /auth/login

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations

// ruleRefreshTimeout bounds one scheduled reload of the cost rules
const ruleRefreshTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
		zap.String("pricing_policy", cfg.Pricing.Policy),
	)

	policy, err := pricing.PolicyByVersion(cfg.Pricing.Policy)
	if err != nil {
		return fmt.Errorf("invalid pricing policy: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Postgres schemas come from cmd/migrate. A sqlite database is local only
	// and is migrated from the models.
	if cfg.Database.Driver == "sqlite" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Info("SQLite schema migrated", zap.String("path", cfg.Database.Path))
	}

	fileStorage, err := storage.NewStorage(ctx, &cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Repositories
	costRuleRepo := repository.NewCostRuleRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	numberSequenceRepo := repository.NewNumberSequenceRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	adminUserRepo := repository.NewAdminUserRepository(db)
	fileRepo := repository.NewFileRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)
	formFieldRepo := repository.NewFormFieldRepository(db)

	// Pricing core: one rule table shared by the engine and rule administration
	ruleStore := pricing.NewCostRuleStore()
	engine := pricing.NewEngine(policy, cfg.Pricing.Currency)
	pricingService := service.NewPricingService(ruleStore, engine, costRuleRepo, log)
	costRuleService := service.NewCostRuleService(costRuleRepo, ruleStore, log)

	if cfg.Pricing.SeedDefaultRules {
		seeded, err := costRuleService.SeedDefaults(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed cost rules: %w", err)
		}
		if seeded > 0 {
			log.Info("Default cost rules seeded", zap.Int("rules", seeded))
		}
	}
	if err := pricingService.Reload(ctx); err != nil {
		return fmt.Errorf("failed to load cost rules: %w", err)
	}

	// Services
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	authService := service.NewAuthService(adminUserRepo, tokens, log)
	if err := authService.EnsureBootstrapAdmin(ctx, cfg.Auth.BootstrapUsername, cfg.Auth.BootstrapPassword); err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	numberSequenceService := service.NewNumberSequenceService(numberSequenceRepo, log)
	quotationService := service.NewQuotationService(quotationRepo, numberSequenceService, pricingService, cfg.Pricing.Currency, log)
	settingsService := service.NewSettingsService(settingsRepo, log)
	documentService := service.NewDocumentService(quotationService, settingsService, log)
	dashboardService := service.NewDashboardService(quotationRepo, cfg.Pricing.Currency, log)
	fileService := service.NewFileService(fileRepo, quotationRepo, fileStorage, log)
	auditLogService := service.NewAuditLogService(auditLogRepo, log)
	formFieldService := service.NewFormFieldService(formFieldRepo, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(tokens, cfg.Auth.ApiKey, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)
	auditMiddleware := middleware.NewAuditMiddleware(auditLogService, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		auditMiddleware,
		handler.NewPricingHandler(pricingService, log),
		handler.NewQuotationHandler(quotationService, documentService, log),
		handler.NewCostRuleHandler(costRuleService, log),
		handler.NewSettingsHandler(settingsService, log),
		handler.NewDashboardHandler(dashboardService, log),
		handler.NewAuthHandler(authService, log),
		handler.NewFileHandler(fileService, cfg.Storage.MaxUploadSizeMB, log),
		handler.NewAuditHandler(auditLogService, log),
		handler.NewFormFieldHandler(formFieldService, log),
	)

	scheduler := jobs.NewScheduler(log)
	if err := jobs.RegisterRuleRefreshJob(scheduler, pricingService, log, cfg.Pricing.RuleRefreshCron, ruleRefreshTimeout); err != nil {
		return fmt.Errorf("failed to register cost rule refresh: %w", err)
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		<-scheduler.Stop().Done()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		<-scheduler.Stop().Done()
		log.Info("Scheduler stopped")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
