package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/app/models/dto"
	"github.com/yigit/campusportal/internal/app/repositories"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
	"github.com/yigit/campusportal/internal/pkg/auth"
)

// UserService defines the interface for user management
type UserService interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	CreateUser(ctx context.Context, req *dto.UserRequest) (*models.User, error)
	// UpdateUser re-hashes the password only when req carries one.
	UpdateUser(ctx context.Context, id int64, req *dto.UserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	// SetPassword replaces a user's password hash.
	SetPassword(ctx context.Context, id int64, password string) error
}

type userServiceImpl struct {
	userRepo repositories.IUserRepository
}

// NewUserService creates a new user service instance
func NewUserService(userRepo repositories.IUserRepository) UserService {
	return &userServiceImpl{userRepo: userRepo}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashOptional(password *string) (*string, error) {
	if password == nil {
		return nil, nil
	}
	if len(*password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", apperrors.ErrValidationFailed)
	}
	hash, err := auth.HashPassword(*password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	return &hash, nil
}

func userFromRequest(req *dto.UserRequest) (*models.User, error) {
	name, err := requireText(req.Name, "name")
	if err != nil {
		return nil, err
	}
	email := NormalizeEmail(req.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email cannot be empty", apperrors.ErrValidationFailed)
	}
	if !req.Role.Valid() {
		return nil, fmt.Errorf("%w: role must be one of STUDENT, INSTRUCTOR, ADMIN", apperrors.ErrValidationFailed)
	}
	hash, err := hashOptional(req.Password)
	if err != nil {
		return nil, err
	}
	return &models.User{Name: name, Email: email, Role: req.Role, PasswordHash: hash}, nil
}

func (s *userServiceImpl) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving users: %w", err)
	}
	return users, nil
}

func (s *userServiceImpl) GetUser(ctx context.Context, id int64) (*models.User, error) {
	if err := validateID(id, "user"); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, id)
}

func (s *userServiceImpl) CreateUser(ctx context.Context, req *dto.UserRequest) (*models.User, error) {
	user, err := userFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userServiceImpl) UpdateUser(ctx context.Context, id int64, req *dto.UserRequest) (*models.User, error) {
	if err := validateID(id, "user"); err != nil {
		return nil, err
	}
	user, err := userFromRequest(req)
	if err != nil {
		return nil, err
	}
	user.ID = id
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userServiceImpl) DeleteUser(ctx context.Context, id int64) error {
	if err := validateID(id, "user"); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}

func (s *userServiceImpl) SetPassword(ctx context.Context, id int64, password string) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	hash, err := hashOptional(&password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.userRepo.Update(ctx, user)
}
