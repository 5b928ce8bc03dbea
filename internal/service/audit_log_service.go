package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/luxone/quotation-api/internal/auth"
	"github.com/luxone/quotation-api/internal/domain"
	"github.com/luxone/quotation-api/internal/mapper"
	"github.com/luxone/quotation-api/internal/repository"
	"go.uber.org/zap"
)

// redactedKeys are request body fields never written to the audit trail
var redactedKeys = map[string]bool{
	"password":   true,
	"token":      true,
	"secret":     true,
	"api_key":    true,
	"jwt_secret": true,
}

// AuditLogService records and lists admin changes
type AuditLogService struct {
	auditRepo *repository.AuditLogRepository
	logger    *zap.Logger
}

// NewAuditLogService creates a new audit log service
func NewAuditLogService(auditRepo *repository.AuditLogRepository, logger *zap.Logger) *AuditLogService {
	return &AuditLogService{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// LogEntry is the input for one audit record. The admin is taken from ctx.
type LogEntry struct {
	Action     domain.AuditAction
	EntityType string
	EntityID   string
	Method     string
	Path       string
	StatusCode int
	// Body is the raw JSON request body. Sensitive fields are dropped before storing.
	Body      []byte
	IPAddress string
	RequestID string
}

// Log stores entry attributed to the admin in ctx
func (s *AuditLogService) Log(ctx context.Context, entry LogEntry) error {
	admin, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}

	auditLog := &domain.AuditLog{
		Username:    admin.Username,
		AuthType:    string(admin.AuthType),
		Action:      entry.Action,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Method:      entry.Method,
		Path:        entry.Path,
		StatusCode:  entry.StatusCode,
		RequestBody: redactBody(entry.Body),
		IPAddress:   entry.IPAddress,
		RequestID:   entry.RequestID,
	}

	if err := s.auditRepo.Create(ctx, auditLog); err != nil {
		s.logger.Error("failed to create audit log",
			zap.String("action", string(entry.Action)),
			zap.String("entity_type", entry.EntityType),
			zap.Error(err))
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// List returns a page of audit entries, newest first
func (s *AuditLogService) List(ctx context.Context, filters domain.AuditLogFilters, page, pageSize int) (*domain.PaginatedResponse, error) {
	if filters.Action != "" && !filters.Action.IsValid() {
		return nil, fmt.Errorf("%w: unknown audit action %q", ErrInvalidInput, filters.Action)
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	logs, total, err := s.auditRepo.List(ctx, filters, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}

	dtos := make([]domain.AuditLogDTO, len(logs))
	for i := range logs {
		dtos[i] = mapper.ToAuditLogDTO(&logs[i])
	}

	resp := domain.NewPaginatedResponse(dtos, total, page, pageSize)
	return &resp, nil
}

// redactBody drops sensitive top-level fields from a JSON object body.
// Bodies that are not JSON objects are not stored.
func redactBody(body []byte) []byte {
	if len(body) == 0 {
		return nil
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil
	}
	for key := range parsed {
		if redactedKeys[strings.ToLower(key)] {
			delete(parsed, key)
		}
	}

	out, err := json.Marshal(parsed)
	if err != nil {
		return nil
	}
	return out
}
