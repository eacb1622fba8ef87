package service

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/pixelcraft/booking-service/internal/auth"
	"github.com/pixelcraft/booking-service/internal/repository"
	apperrors "github.com/pixelcraft/booking-service/pkg/errors"
	"github.com/pixelcraft/booking-service/pkg/validator"
)

// AuthService authenticates admin accounts and issues session tokens.
type AuthService struct {
	admins repository.AdminRepository
	jwt    *auth.JWTManager
	logger *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(admins repository.AdminRepository, jwt *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		admins: admins,
		jwt:    jwt,
		logger: logger,
	}
}

// LoginInput holds admin credentials.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the issued session token.
type LoginResult struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Login checks credentials against the stored bcrypt hash and returns a
// signed session token. Wrong email and wrong password are indistinguishable
// to the caller.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginResult, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	admin, err := s.admins.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(input.Password)); err != nil {
		s.logger.WarnContext(ctx, "failed admin login attempt",
			slog.String("email", input.Email),
		)
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	token, err := s.jwt.Generate(admin.ID, admin.Email, admin.Role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &LoginResult{
		Token: token,
		Email: admin.Email,
		Role:  admin.Role,
	}, nil
}

// ValidateToken parses a session token into middleware claims.
func (s *AuthService) ValidateToken(token string) (*auth.Claims, error) {
	return s.jwt.Validate(token)
}
