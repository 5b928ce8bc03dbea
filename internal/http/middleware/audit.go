package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/luxone/quotation-api/internal/domain"
	"github.com/luxone/quotation-api/internal/service"
	"go.uber.org/zap"
)

// maxAuditBody caps how much of a request body is kept for the audit trail
const maxAuditBody = 64 << 10

// entityTypes maps admin route segments to audited entity names
var entityTypes = map[string]string{
	"quotations":  "Quotation",
	"cost-rules":  "CostRule",
	"templates":   "PDFTemplate",
	"settings":    "CompanySettings",
	"files":       "File",
	"form-fields": "FormField",
}

// AuditMiddleware records successful admin changes
type AuditMiddleware struct {
	auditService *service.AuditLogService
	logger       *zap.Logger
}

// NewAuditMiddleware creates a new audit middleware
func NewAuditMiddleware(auditService *service.AuditLogService, logger *zap.Logger) *AuditMiddleware {
	return &AuditMiddleware{
		auditService: auditService,
		logger:       logger,
	}
}

// Audit logs mutating requests that succeed. Mount it after authentication.
func (m *AuditMiddleware) Audit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		action := methodToAction(r.Method)
		if action == "" {
			next.ServeHTTP(w, r)
			return
		}

		// Multipart uploads are recorded without their content
		var body []byte
		if r.Body != nil && strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			body, _ = io.ReadAll(io.LimitReader(r.Body, maxAuditBody))
			r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), r.Body))
		}

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		if rw.statusCode < 200 || rw.statusCode >= 300 {
			return
		}

		entityType, entityID := extractEntityInfo(r)
		if action == domain.AuditActionCreate && entityID != "" {
			// POST on an existing entity: toggle, activate, attach
			action = domain.AuditActionUpdate
		}

		err := m.auditService.Log(r.Context(), service.LogEntry{
			Action:     action,
			EntityType: entityType,
			EntityID:   entityID,
			Method:     r.Method,
			Path:       r.URL.Path,
			StatusCode: rw.statusCode,
			Body:       body,
			IPAddress:  clientIP(r),
			RequestID:  RequestID(r.Context()),
		})
		if err != nil {
			m.logger.Warn("failed to create audit log entry",
				zap.String("path", r.URL.Path),
				zap.String("method", r.Method),
				zap.Error(err))
		}
	})
}

func methodToAction(method string) domain.AuditAction {
	switch method {
	case http.MethodPost:
		return domain.AuditActionCreate
	case http.MethodPut, http.MethodPatch:
		return domain.AuditActionUpdate
	case http.MethodDelete:
		return domain.AuditActionDelete
	default:
		return ""
	}
}

// extractEntityInfo reads the entity from the matched chi route
func extractEntityInfo(r *http.Request) (string, string) {
	path := r.URL.Path
	var entityID string
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		entityID = rctx.URLParam("id")
		if pattern := rctx.RoutePattern(); pattern != "" {
			path = pattern
		}
	}

	for _, part := range strings.Split(strings.Trim(path, "/"), "/") {
		if entityType, ok := entityTypes[part]; ok {
			return entityType, entityID
		}
	}
	return "Unknown", entityID
}
