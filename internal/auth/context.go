package auth

import (
	"context"

	"github.com/google/uuid"
)

// AuthType records how a request was authenticated
type AuthType string

const (
	AuthTypeJWT    AuthType = "jwt"
	AuthTypeAPIKey AuthType = "api_key"
)

// SystemUserID is the subject of requests authenticated with the API key
var SystemUserID = uuid.MustParse("00000000-0000-0000-0000-000000000000")

// AdminContext holds the authenticated admin for a request
type AdminContext struct {
	UserID   uuid.UUID
	Username string
	AuthType AuthType
}

type contextKey string

const adminContextKey contextKey = "adminContext"

// WithAdminContext adds the admin to the context
func WithAdminContext(ctx context.Context, admin *AdminContext) context.Context {
	return context.WithValue(ctx, adminContextKey, admin)
}

// FromContext extracts the admin from the context
func FromContext(ctx context.Context) (*AdminContext, bool) {
	admin, ok := ctx.Value(adminContextKey).(*AdminContext)
	return admin, ok
}

// ActorName returns the username recorded on audited changes, or "system"
// when the context carries no admin
func ActorName(ctx context.Context) string {
	if admin, ok := FromContext(ctx); ok && admin.Username != "" {
		return admin.Username
	}
	return "system"
}
