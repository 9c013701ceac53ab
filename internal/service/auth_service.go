package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// AuthService issues access tokens and manages user accounts.
type AuthService struct {
	users   repository.UserRepository
	clients repository.ClientRepository
	tokens  *auth.TokenManager
	cfg     config.AuthConfig
	logger  *zap.Logger
}

// NewAuthService constructs the service.
func NewAuthService(users repository.UserRepository, clients repository.ClientRepository, tokens *auth.TokenManager, cfg config.AuthConfig, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{users: users, clients: clients, tokens: tokens, cfg: cfg, logger: logger}
}

// LoginResult carries the issued token and its subject.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// CreateUserInput holds fields for account provisioning.
type CreateUserInput struct {
	OrganizationID string
	ClientID       *string
	Name           string
	Email          string
	Password       string
	Role           domain.UserRole
}

// Login authenticates credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if !user.Active {
		return nil, apperrors.NewUnauthorized("account disabled")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// CreateUser provisions an account. CLIENT users must reference an
// existing client; staff users must not.
func (s *AuthService) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Name == "" || input.Email == "" {
		return nil, apperrors.NewValidationError("name and email required", nil)
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}

	switch input.Role {
	case domain.RoleAdmin, domain.RoleEmployee:
		if input.ClientID != nil {
			return nil, apperrors.NewValidationError("staff accounts cannot belong to a client", nil)
		}
	case domain.RoleClient:
		if input.ClientID == nil {
			return nil, apperrors.NewValidationError("client accounts require client_id", nil)
		}
		if _, err := s.clients.GetByID(ctx, *input.ClientID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("client", map[string]any{"client_id": *input.ClientID})
			}
			return nil, apperrors.MapError(err)
		}
	default:
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": string(input.Role)})
	}

	hashed, err := auth.HashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		OrganizationID: input.OrganizationID,
		ClientID:       input.ClientID,
		Name:           input.Name,
		Email:          input.Email,
		PasswordHash:   hashed,
		Role:           input.Role,
		Active:         true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("user created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// SetUserActive enables or disables an account. Disabled accounts fail
// login and token verification on the next request.
func (s *AuthService) SetUserActive(ctx context.Context, userID string, active bool) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	if user.Active == active {
		return user, nil
	}
	user.Active = active
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("user active flag changed", zap.String("user_id", user.ID), zap.Bool("active", active))
	return user, nil
}
