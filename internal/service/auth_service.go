package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/luxone/quotation-api/internal/auth"
	"github.com/luxone/quotation-api/internal/domain"
	"github.com/luxone/quotation-api/internal/mapper"
	"github.com/luxone/quotation-api/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService logs admins in and issues session tokens
type AuthService struct {
	users  *repository.AdminUserRepository
	tokens *auth.TokenManager
	logger *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users *repository.AdminUserRepository, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Login checks the password and returns a signed token. Unknown users,
// inactive users and wrong passwords all fail with ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("login failed", zap.String("username", username), zap.String("reason", "unknown user"))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get admin user: %w", err)
	}

	if !user.IsActive {
		s.logger.Warn("login failed", zap.String("username", username), zap.String("reason", "inactive"))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("login failed", zap.String("username", username), zap.String("reason", "wrong password"))
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	now := time.Now().UTC()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("failed to record last login", zap.Error(err), zap.String("username", username))
	}
	user.LastLoginAt = &now

	s.logger.Info("admin logged in", zap.String("username", user.Username))

	return &domain.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		User:      mapper.ToAdminUserDTO(user),
	}, nil
}

// Me returns the admin behind the request context
func (s *AuthService) Me(ctx context.Context) (*domain.AdminUserDTO, error) {
	admin, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if admin.AuthType == auth.AuthTypeAPIKey {
		return &domain.AdminUserDTO{ID: admin.UserID, Username: admin.Username}, nil
	}

	user, err := s.users.GetByID(ctx, admin.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get admin user: %w", err)
	}
	dto := mapper.ToAdminUserDTO(user)
	return &dto, nil
}

// CreateAdmin stores a new admin with a bcrypt password hash
func (s *AuthService) CreateAdmin(ctx context.Context, username, email, password string) (*domain.AdminUser, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < 8 {
		return nil, fmt.Errorf("%w: username is required and password needs at least 8 characters", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.AdminUser{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}
	return user, nil
}

// EnsureBootstrapAdmin creates the first admin when none exists. It does
// nothing when admins exist or no password is configured.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, username, password string) error {
	if password == "" {
		return nil
	}

	count, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count admin users: %w", err)
	}
	if count > 0 {
		return nil
	}

	if _, err := s.CreateAdmin(ctx, username, "", password); err != nil {
		return err
	}
	s.logger.Info("bootstrap admin created", zap.String("username", username))
	return nil
}
