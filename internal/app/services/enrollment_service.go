package services

import (
	"context"
	"fmt"

	appauth "github.com/yigit/campusportal/internal/app/auth"
	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/app/models/dto"
	"github.com/yigit/campusportal/internal/app/repositories"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
	"github.com/yigit/campusportal/internal/pkg/logger"
)

// EnrollmentService defines the interface for the enrollment ledger
type EnrollmentService interface {
	ListEnrollments(ctx context.Context) ([]*models.Enrollment, error)
	ListForUser(ctx context.Context, actor appauth.Actor, userID int64) ([]*models.Enrollment, error)
	Enroll(ctx context.Context, actor appauth.Actor, req *dto.CreateEnrollmentRequest) (*models.Enrollment, error)
	UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus) (*models.Enrollment, error)
	Drop(ctx context.Context, actor appauth.Actor, id int64) error
}

type enrollmentServiceImpl struct {
	enrollmentRepo   repositories.IEnrollmentRepository
	authz            *appauth.AuthorizationService
	waitlistWhenFull bool
}

// NewEnrollmentService creates a new enrollment service. With
// waitlistWhenFull set, enrolling into a full section creates a WAITLISTED
// row instead of failing.
func NewEnrollmentService(enrollmentRepo repositories.IEnrollmentRepository, authz *appauth.AuthorizationService, waitlistWhenFull bool) EnrollmentService {
	return &enrollmentServiceImpl{
		enrollmentRepo:   enrollmentRepo,
		authz:            authz,
		waitlistWhenFull: waitlistWhenFull,
	}
}

func (s *enrollmentServiceImpl) ListEnrollments(ctx context.Context) ([]*models.Enrollment, error) {
	enrollments, err := s.enrollmentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving enrollments: %w", err)
	}
	return enrollments, nil
}

func (s *enrollmentServiceImpl) ListForUser(ctx context.Context, actor appauth.Actor, userID int64) ([]*models.Enrollment, error) {
	if err := validateID(userID, "user"); err != nil {
		return nil, err
	}
	if err := s.authz.RequireSelfOrAdmin(actor, userID); err != nil {
		return nil, err
	}
	enrollments, err := s.enrollmentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving enrollments: %w", err)
	}
	return enrollments, nil
}

func (s *enrollmentServiceImpl) Enroll(ctx context.Context, actor appauth.Actor, req *dto.CreateEnrollmentRequest) (*models.Enrollment, error) {
	if err := validateID(req.UserID, "user"); err != nil {
		return nil, err
	}
	if err := validateID(req.SectionID, "section"); err != nil {
		return nil, err
	}
	if err := s.authz.RequireSelfOrAdmin(actor, req.UserID); err != nil {
		return nil, err
	}

	enrollment, err := s.enrollmentRepo.Create(ctx, req.UserID, req.SectionID, s.waitlistWhenFull)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Int64("userID", enrollment.UserID).
		Int64("sectionID", enrollment.SectionID).
		Str("status", string(enrollment.Status)).
		Msg("Enrollment created")
	return enrollment, nil
}

func (s *enrollmentServiceImpl) UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus) (*models.Enrollment, error) {
	if err := validateID(id, "enrollment"); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: status must be one of ENROLLED, WAITLISTED, DROPPED", apperrors.ErrValidationFailed)
	}
	return s.enrollmentRepo.UpdateStatus(ctx, id, status)
}

func (s *enrollmentServiceImpl) Drop(ctx context.Context, actor appauth.Actor, id int64) error {
	if err := validateID(id, "enrollment"); err != nil {
		return err
	}
	if err := s.authz.CanModifyEnrollment(ctx, actor, id); err != nil {
		return err
	}
	return s.enrollmentRepo.Delete(ctx, id)
}
