package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appauth "github.com/yigit/campusportal/internal/app/auth"
	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/app/models/dto"
	"github.com/yigit/campusportal/internal/app/repositories/memory"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
	"github.com/yigit/campusportal/internal/pkg/auth"
)

func strPtr(v string) *string { return &v }
func int64Ptr(v int64) *int64 { return &v }

type deniedLimiter struct{}

func (deniedLimiter) Allow(context.Context, string) (bool, error) { return false, nil }
func (deniedLimiter) Reset(context.Context, string) error         { return nil }

func newTestServices(t *testing.T, waitlist bool) *Services {
	t.Helper()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "test",
	})
	return NewServices(memory.NewRepositories(), jwtService, Options{WaitlistWhenFull: waitlist})
}

func mustUser(t *testing.T, svc *Services, name, email string, role models.RoleType) *models.User {
	t.Helper()
	user, err := svc.UserService.CreateUser(context.Background(), &dto.UserRequest{
		Name:     name,
		Email:    email,
		Role:     role,
		Password: strPtr("password123"),
	})
	require.NoError(t, err)
	return user
}

func mustSection(t *testing.T, svc *Services, capacity *int) *models.Section {
	t.Helper()
	ctx := context.Background()
	term, err := svc.TermService.CreateTerm(ctx, &dto.TermRequest{Name: "2025 Fall"})
	require.NoError(t, err)
	course, err := svc.CourseService.CreateCourse(ctx, &dto.CourseRequest{Code: "CSC 301", Title: "Database Systems", Credits: 3})
	require.NoError(t, err)
	section, err := svc.SectionService.CreateSection(ctx, &dto.SectionRequest{
		CourseID: course.ID,
		TermID:   term.ID,
		Room:     strPtr(" B101 "),
		Capacity: capacity,
	})
	require.NoError(t, err)
	return section
}

func TestCatalogServices(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t, true)

	_, err := svc.TermService.CreateTerm(ctx, &dto.TermRequest{Name: "   "})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.CourseService.CreateCourse(ctx, &dto.CourseRequest{Code: "CSC 301", Title: "DB", Credits: 0})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	section := mustSection(t, svc, intPtr(60))
	assert.Equal(t, "B101", *section.Room)
	assert.Equal(t, "CSC 301", section.Course.Code)

	_, err = svc.TermService.UpdateTerm(ctx, 999, &dto.TermRequest{Name: "x"})
	assert.ErrorIs(t, err, apperrors.ErrTermNotFound)
	assert.ErrorIs(t, svc.TermService.DeleteTerm(ctx, section.TermID), apperrors.ErrTermHasSections)
	assert.ErrorIs(t, svc.CourseService.DeleteCourse(ctx, 0), apperrors.ErrValidationFailed)

	updated, err := svc.SectionService.UpdateSection(ctx, section.ID, &dto.SectionRequest{
		CourseID: section.CourseID,
		TermID:   section.TermID,
		Capacity: intPtr(30),
	})
	require.NoError(t, err)
	assert.Equal(t, 30, *updated.Capacity)
	assert.Equal(t, "B101", *updated.Room, "omitted room is kept")

	student := mustUser(t, svc, "Sam", "sam@example.com", models.RoleStudent)
	_, err = svc.SectionService.UpdateSection(ctx, section.ID, &dto.SectionRequest{
		CourseID:     section.CourseID,
		TermID:       section.TermID,
		InstructorID: int64Ptr(student.ID),
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	instructor := mustUser(t, svc, "Ines", "ines@example.com", models.RoleInstructor)
	updated, err = svc.SectionService.UpdateSection(ctx, section.ID, &dto.SectionRequest{
		CourseID:     section.CourseID,
		TermID:       section.TermID,
		InstructorID: int64Ptr(instructor.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, instructor.ID, *updated.InstructorID)

	_, err = svc.SectionService.CreateSection(ctx, &dto.SectionRequest{CourseID: 999, TermID: section.TermID})
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	_, err = svc.SectionService.UpdateSection(ctx, section.ID, &dto.SectionRequest{TermID: section.TermID})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	other, err := svc.CourseService.CreateCourse(ctx, &dto.CourseRequest{Code: "CSC 305", Title: "Software Engineering", Credits: 3})
	require.NoError(t, err)
	moved, err := svc.SectionService.UpdateSection(ctx, section.ID, &dto.SectionRequest{CourseID: other.ID, TermID: section.TermID})
	require.NoError(t, err)
	assert.Equal(t, other.ID, moved.CourseID)
	assert.Equal(t, "CSC 305", moved.Course.Code)
	assert.Equal(t, 30, *moved.Capacity, "omitted capacity is kept")
}

func TestUserAndAuthServices(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t, true)

	user := mustUser(t, svc, "Ada", "  Ada@Example.COM ", models.RoleAdmin)
	assert.Equal(t, "ada@example.com", user.Email)

	_, err := svc.UserService.CreateUser(ctx, &dto.UserRequest{Name: "Dup", Email: "ada@example.com", Role: models.RoleStudent})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	resp, err := svc.AuthService.Login(ctx, &dto.LoginRequest{Identifier: " ADA@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)

	_, err = svc.AuthService.Login(ctx, &dto.LoginRequest{Identifier: "ada@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = svc.AuthService.Login(ctx, &dto.LoginRequest{Identifier: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	nopass, err := svc.UserService.CreateUser(ctx, &dto.UserRequest{Name: "No Pass", Email: "nopass@example.com", Role: models.RoleStudent})
	require.NoError(t, err)
	_, err = svc.AuthService.Login(ctx, &dto.LoginRequest{Identifier: nopass.Email, Password: "anything-at-all"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// Updating without a password keeps the stored hash.
	_, err = svc.UserService.UpdateUser(ctx, user.ID, &dto.UserRequest{Name: "Ada L.", Email: "ada@example.com", Role: models.RoleAdmin})
	require.NoError(t, err)
	_, err = svc.AuthService.Login(ctx, &dto.LoginRequest{Identifier: "ada@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.UserService.SetPassword(ctx, user.ID, "another-secret"))
	_, err = svc.AuthService.Login(ctx, &dto.LoginRequest{Identifier: "ada@example.com", Password: "another-secret"})
	require.NoError(t, err)

	me, err := svc.AuthService.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", me.Name)

	require.NoError(t, svc.UserService.DeleteUser(ctx, user.ID))
	_, err = svc.AuthService.Me(ctx, user.ID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestLoginThrottled(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "s", AccessTokenExp: time.Hour, TokenIssuer: "i"})
	svc := NewAuthService(repos.UserRepository, jwtService, deniedLimiter{})

	_, err := svc.Login(ctx, &dto.LoginRequest{Identifier: "a@example.com", Password: "password123"})
	assert.ErrorIs(t, err, apperrors.ErrTooManyAttempts)
}

func TestEnrollmentService(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t, true)
	section := mustSection(t, svc, intPtr(1))
	alice := mustUser(t, svc, "Alice", "alice@example.com", models.RoleStudent)
	bob := mustUser(t, svc, "Bob", "bob@example.com", models.RoleStudent)
	admin := mustUser(t, svc, "Root", "root@example.com", models.RoleAdmin)

	asAlice := appauth.Actor{UserID: alice.ID, Role: models.RoleStudent}
	asBob := appauth.Actor{UserID: bob.ID, Role: models.RoleStudent}
	asAdmin := appauth.Actor{UserID: admin.ID, Role: models.RoleAdmin}

	_, err := svc.EnrollmentService.Enroll(ctx, asBob, &dto.CreateEnrollmentRequest{UserID: alice.ID, SectionID: section.ID})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	first, err := svc.EnrollmentService.Enroll(ctx, asAlice, &dto.CreateEnrollmentRequest{UserID: alice.ID, SectionID: section.ID})
	require.NoError(t, err)
	assert.Equal(t, models.StatusEnrolled, first.Status)

	second, err := svc.EnrollmentService.Enroll(ctx, asAdmin, &dto.CreateEnrollmentRequest{UserID: bob.ID, SectionID: section.ID})
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaitlisted, second.Status)

	_, err = svc.EnrollmentService.Enroll(ctx, asAlice, &dto.CreateEnrollmentRequest{UserID: alice.ID, SectionID: 999})
	assert.ErrorIs(t, err, apperrors.ErrSectionNotFound)

	_, err = svc.EnrollmentService.ListForUser(ctx, asBob, alice.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	mine, err := svc.EnrollmentService.ListForUser(ctx, asAlice, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "CSC 301", mine[0].Section.Course.Code)

	_, err = svc.EnrollmentService.UpdateStatus(ctx, second.ID, models.EnrollmentStatus("PENDING"))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	_, err = svc.EnrollmentService.UpdateStatus(ctx, second.ID, models.StatusEnrolled)
	assert.ErrorIs(t, err, apperrors.ErrSectionFull)

	assert.ErrorIs(t, svc.EnrollmentService.Drop(ctx, asBob, first.ID), apperrors.ErrPermissionDenied)
	require.NoError(t, svc.EnrollmentService.Drop(ctx, asAlice, first.ID))
	assert.ErrorIs(t, svc.EnrollmentService.Drop(ctx, asAdmin, first.ID), apperrors.ErrEnrollmentNotFound)

	promoted, err := svc.EnrollmentService.UpdateStatus(ctx, second.ID, models.StatusEnrolled)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEnrolled, promoted.Status)

	all, err := svc.EnrollmentService.ListEnrollments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Bob", all[0].User.Name)
}

func TestEnrollmentRejectsWhenWaitlistDisabled(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t, false)
	section := mustSection(t, svc, intPtr(1))
	admin := appauth.Actor{UserID: 1, Role: models.RoleAdmin}
	a := mustUser(t, svc, "A", "a@example.com", models.RoleStudent)
	b := mustUser(t, svc, "B", "b@example.com", models.RoleStudent)

	_, err := svc.EnrollmentService.Enroll(ctx, admin, &dto.CreateEnrollmentRequest{UserID: a.ID, SectionID: section.ID})
	require.NoError(t, err)
	_, err = svc.EnrollmentService.Enroll(ctx, admin, &dto.CreateEnrollmentRequest{UserID: b.ID, SectionID: section.ID})
	assert.ErrorIs(t, err, apperrors.ErrSectionFull)
}

func TestNotificationService(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t, true)
	s1 := mustUser(t, svc, "S1", "s1@example.com", models.RoleStudent)
	s2 := mustUser(t, svc, "S2", "s2@example.com", models.RoleStudent)
	mustUser(t, svc, "T", "t@example.com", models.RoleInstructor)

	count, err := svc.NotificationService.BroadcastToStudents(ctx, &dto.NotificationRequest{Title: "Exams", Message: "Timetable is out", Priority: strPtr("high")})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = svc.NotificationService.CreateForUser(ctx, 999, &dto.NotificationRequest{Title: "x", Message: "y"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	direct, err := svc.NotificationService.CreateForUser(ctx, s1.ID, &dto.NotificationRequest{Title: "Hi", Message: "Welcome", Category: strPtr("  ")})
	require.NoError(t, err)
	assert.Nil(t, direct.Category)
	assert.False(t, direct.Read)

	inbox, err := svc.NotificationService.ListMine(ctx, appauth.Actor{UserID: s1.ID, Role: models.RoleStudent})
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, direct.ID, inbox[0].ID, "newest first")

	_, err = svc.NotificationService.MarkRead(ctx, appauth.Actor{UserID: s2.ID, Role: models.RoleStudent}, direct.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	inbox, err = svc.NotificationService.ListMine(ctx, appauth.Actor{UserID: s1.ID, Role: models.RoleStudent})
	require.NoError(t, err)
	assert.False(t, inbox[0].Read, "row unchanged after forbidden mark-read")

	read, err := svc.NotificationService.MarkRead(ctx, appauth.Actor{UserID: s1.ID, Role: models.RoleStudent}, direct.ID)
	require.NoError(t, err)
	assert.True(t, read.Read)

	_, err = svc.NotificationService.MarkRead(ctx, appauth.Actor{UserID: s1.ID, Role: models.RoleStudent}, 999)
	assert.ErrorIs(t, err, apperrors.ErrNotificationNotFound)
}
