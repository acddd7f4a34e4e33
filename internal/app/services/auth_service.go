package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/app/models/dto"
	"github.com/yigit/campusportal/internal/app/repositories"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
	"github.com/yigit/campusportal/internal/pkg/auth"
	"github.com/yigit/campusportal/internal/pkg/logger"
	"github.com/yigit/campusportal/internal/pkg/ratelimit"
)

// AuthService handles login and identity lookups
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Me(ctx context.Context, userID int64) (*models.User, error)
}

type authServiceImpl struct {
	userRepo   repositories.IUserRepository
	jwtService *auth.JWTService
	limiter    ratelimit.Limiter
}

// NewAuthService creates a new auth service. A nil limiter disables login
// throttling.
func NewAuthService(userRepo repositories.IUserRepository, jwtService *auth.JWTService, limiter ratelimit.Limiter) AuthService {
	if limiter == nil {
		limiter = ratelimit.Nop{}
	}
	return &authServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
		limiter:    limiter,
	}
}

// Login checks the credentials and returns a signed token. Unknown users,
// users without a password and wrong passwords all fail the same way.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	email := NormalizeEmail(req.Identifier)

	allowed, err := s.limiter.Allow(ctx, email)
	if err != nil {
		// Limiter failures never block a login.
		logger.Warn().Err(err).Msg("Login rate limiter unavailable")
	} else if !allowed {
		return nil, apperrors.ErrTooManyAttempts
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	if user.PasswordHash == nil || !auth.CheckPassword(*user.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	if err := s.limiter.Reset(ctx, email); err != nil {
		logger.Warn().Err(err).Msg("Failed to reset login attempts")
	}

	logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User logged in")
	return &dto.LoginResponse{Token: token, ExpiresIn: expiresIn, User: user}, nil
}

func (s *authServiceImpl) Me(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
