package router

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/luxone/quotation-api/internal/auth"
	"github.com/luxone/quotation-api/internal/config"
	"github.com/luxone/quotation-api/internal/database"
	"github.com/luxone/quotation-api/internal/http/handler"
	"github.com/luxone/quotation-api/internal/http/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Router struct {
	cfg              *config.Config
	logger           *zap.Logger
	db               *gorm.DB
	authMiddleware   *auth.Middleware
	rateLimiter      *middleware.RateLimiter
	auditMiddleware  *middleware.AuditMiddleware
	pricingHandler   *handler.PricingHandler
	quotationHandler *handler.QuotationHandler
	costRuleHandler  *handler.CostRuleHandler
	settingsHandler  *handler.SettingsHandler
	dashboardHandler *handler.DashboardHandler
	authHandler      *handler.AuthHandler
	fileHandler      *handler.FileHandler
	auditHandler     *handler.AuditHandler
	formFieldHandler *handler.FormFieldHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	auditMiddleware *middleware.AuditMiddleware,
	pricingHandler *handler.PricingHandler,
	quotationHandler *handler.QuotationHandler,
	costRuleHandler *handler.CostRuleHandler,
	settingsHandler *handler.SettingsHandler,
	dashboardHandler *handler.DashboardHandler,
	authHandler *handler.AuthHandler,
	fileHandler *handler.FileHandler,
	auditHandler *handler.AuditHandler,
	formFieldHandler *handler.FormFieldHandler,
) *Router {
	return &Router{
		cfg:              cfg,
		logger:           logger,
		db:               db,
		authMiddleware:   authMiddleware,
		rateLimiter:      rateLimiter,
		auditMiddleware:  auditMiddleware,
		pricingHandler:   pricingHandler,
		quotationHandler: quotationHandler,
		costRuleHandler:  costRuleHandler,
		settingsHandler:  settingsHandler,
		dashboardHandler: dashboardHandler,
		authHandler:      authHandler,
		fileHandler:      fileHandler,
		auditHandler:     auditHandler,
		formFieldHandler: formFieldHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, &rt.cfg.App, rt.logger))
	if timeout := rt.cfg.Server.RequestTimeoutDuration(); timeout > 0 {
		r.Use(chimw.Timeout(timeout))
	}

	// Liveness check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Database health check with pool stats
	r.Get("/health/db", rt.databaseHealth)

	// Readiness check over every dependency
	r.Get("/health/ready", rt.readiness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.rateLimiter.LimitByIP)

		// Public routes used by the quotation form
		r.With(rt.rateLimiter.LimitCalculate).Post("/quotations/calculate", rt.pricingHandler.Calculate)
		r.Post("/quotations", rt.quotationHandler.Create)
		r.Get("/settings/company", rt.settingsHandler.GetCompany)
		r.Get("/settings/form-fields", rt.formFieldHandler.ListVisible)
		r.Post("/auth/login", rt.authHandler.Login)

		// Admin panel
		r.Route("/admin", func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.LimitAdmin)
			r.Use(rt.auditMiddleware.Audit)

			r.Get("/auth/me", rt.authHandler.Me)
			r.Get("/dashboard", rt.dashboardHandler.Get)
			r.Get("/analytics", rt.dashboardHandler.Analytics)
			r.Get("/audit-logs", rt.auditHandler.List)

			r.Route("/quotations", func(r chi.Router) {
				r.Get("/", rt.quotationHandler.List)
				r.Get("/number/{quoteNumber}", rt.quotationHandler.GetByQuoteNumber)
				r.Get("/{id}", rt.quotationHandler.GetByID)
				r.Put("/{id}", rt.quotationHandler.Update)
				r.Delete("/{id}", rt.quotationHandler.Delete)
				r.Patch("/{id}/status", rt.quotationHandler.UpdateStatus)
				r.Put("/{id}/pieces", rt.quotationHandler.Revise)
				r.Get("/{id}/revisions", rt.quotationHandler.ListRevisions)
				r.Get("/{id}/pdf", rt.quotationHandler.PDF)
				r.Get("/{id}/files", rt.fileHandler.ListByQuotation)
			})

			r.Route("/cost-rules", func(r chi.Router) {
				r.Get("/", rt.costRuleHandler.List)
				r.Post("/", rt.costRuleHandler.Create)
				r.Get("/{id}", rt.costRuleHandler.GetByID)
				r.Put("/{id}", rt.costRuleHandler.Update)
				r.Delete("/{id}", rt.costRuleHandler.Delete)
				r.Post("/{id}/toggle", rt.costRuleHandler.Toggle)
			})

			r.Put("/settings/company", rt.settingsHandler.UpdateCompany)

			r.Route("/templates", func(r chi.Router) {
				r.Get("/", rt.settingsHandler.ListTemplates)
				r.Post("/", rt.settingsHandler.CreateTemplate)
				r.Get("/{id}", rt.settingsHandler.GetTemplate)
				r.Put("/{id}", rt.settingsHandler.UpdateTemplate)
				r.Delete("/{id}", rt.settingsHandler.DeleteTemplate)
				r.Post("/{id}/activate", rt.settingsHandler.ActivateTemplate)
			})

			r.Route("/form-fields", func(r chi.Router) {
				r.Get("/", rt.formFieldHandler.List)
				r.Post("/", rt.formFieldHandler.Create)
				r.Get("/{id}", rt.formFieldHandler.GetByID)
				r.Put("/{id}", rt.formFieldHandler.Update)
				r.Delete("/{id}", rt.formFieldHandler.Delete)
			})

			r.Route("/files", func(r chi.Router) {
				r.Get("/", rt.fileHandler.List)
				r.Post("/", rt.fileHandler.Upload)
				r.Get("/{id}", rt.fileHandler.GetByID)
				r.Get("/{id}/download", rt.fileHandler.Download)
				r.Post("/{id}/attach", rt.fileHandler.Attach)
				r.Delete("/{id}", rt.fileHandler.Delete)
			})
		})
	})

	return r
}

func (rt *Router) databaseHealth(w http.ResponseWriter, r *http.Request) {
	stats, err := database.HealthCheckWithStats(rt.db)
	if err != nil {
		rt.logger.Error("Database health check failed", zap.Error(err))
		writeHealth(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "unhealthy",
			"error":   err.Error(),
			"service": "database",
		})
		return
	}

	writeHealth(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "database",
		"stats": map[string]interface{}{
			"max_open_connections": stats.MaxOpenConnections,
			"open_connections":     stats.OpenConnections,
			"in_use":               stats.InUse,
			"idle":                 stats.Idle,
			"wait_count":           stats.WaitCount,
			"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
		},
	})
}

func (rt *Router) readiness(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]interface{})
	allHealthy := true

	if err := database.HealthCheck(rt.db); err != nil {
		rt.logger.Error("Database health check failed", zap.Error(err))
		checks["database"] = map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		}
		allHealthy = false
	} else {
		checks["database"] = map[string]interface{}{"status": "healthy"}
	}

	status, code := "healthy", http.StatusOK
	if !allHealthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}
	writeHealth(w, code, map[string]interface{}{
		"status":    status,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeHealth(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
