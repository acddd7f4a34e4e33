package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/app/repositories/memory"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
)

func TestRequireSelfOrAdmin(t *testing.T) {
	svc := NewAuthorizationService(nil)

	assert.NoError(t, svc.RequireSelfOrAdmin(Actor{UserID: 3, Role: models.RoleStudent}, 3))
	assert.NoError(t, svc.RequireSelfOrAdmin(Actor{UserID: 1, Role: models.RoleAdmin}, 3))
	assert.ErrorIs(t, svc.RequireSelfOrAdmin(Actor{UserID: 4, Role: models.RoleInstructor}, 3), apperrors.ErrPermissionDenied)

	assert.True(t, Actor{UserID: 1, Role: models.RoleAdmin}.IsAdmin())
	assert.False(t, Actor{UserID: 1, Role: models.RoleStudent}.IsAdmin())
}

func TestCanModifyEnrollment(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()

	term := &models.Term{Name: "2025 Fall"}
	course := &models.Course{Code: "CSC 301", Title: "Database Systems", Credits: 3}
	require.NoError(t, repos.TermRepository.Create(ctx, term))
	require.NoError(t, repos.CourseRepository.Create(ctx, course))
	section := &models.Section{CourseID: course.ID, TermID: term.ID}
	require.NoError(t, repos.SectionRepository.Create(ctx, section))
	owner := &models.User{Name: "Owner", Email: "owner@example.com", Role: models.RoleStudent}
	require.NoError(t, repos.UserRepository.Create(ctx, owner))

	enrollment, err := repos.EnrollmentRepository.Create(ctx, owner.ID, section.ID, true)
	require.NoError(t, err)

	svc := NewAuthorizationService(repos.EnrollmentRepository)
	assert.NoError(t, svc.CanModifyEnrollment(ctx, Actor{UserID: owner.ID, Role: models.RoleStudent}, enrollment.ID))
	assert.NoError(t, svc.CanModifyEnrollment(ctx, Actor{UserID: 99, Role: models.RoleAdmin}, enrollment.ID))
	assert.ErrorIs(t, svc.CanModifyEnrollment(ctx, Actor{UserID: 99, Role: models.RoleStudent}, enrollment.ID), ErrNotOwner)
	assert.ErrorIs(t, svc.CanModifyEnrollment(ctx, Actor{UserID: owner.ID, Role: models.RoleStudent}, 404), apperrors.ErrEnrollmentNotFound)
}
