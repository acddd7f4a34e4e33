package auth

import (
	"context"

	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/app/repositories"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
)

// ErrNotOwner is returned when a non-admin acts on another user's records.
var ErrNotOwner = apperrors.NewForbiddenError("you can only act on your own records")

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID int64
	Role   models.RoleType
}

// IsAdmin reports whether the actor holds the ADMIN role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// AuthorizationService answers ownership questions that need stored data.
type AuthorizationService struct {
	enrollmentRepo repositories.IEnrollmentRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(enrollmentRepo repositories.IEnrollmentRepository) *AuthorizationService {
	return &AuthorizationService{enrollmentRepo: enrollmentRepo}
}

// RequireSelfOrAdmin allows admins and the user identified by userID.
func (s *AuthorizationService) RequireSelfOrAdmin(actor Actor, userID int64) error {
	if actor.IsAdmin() || actor.UserID == userID {
		return nil
	}
	return ErrNotOwner
}

// CanModifyEnrollment allows admins and the enrolled user. A missing
// enrollment is reported as not found.
func (s *AuthorizationService) CanModifyEnrollment(ctx context.Context, actor Actor, enrollmentID int64) error {
	if actor.IsAdmin() {
		return nil
	}
	enrollment, err := s.enrollmentRepo.GetByID(ctx, enrollmentID)
	if err != nil {
		return err
	}
	if enrollment.UserID != actor.UserID {
		return ErrNotOwner
	}
	return nil
}
