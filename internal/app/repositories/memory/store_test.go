package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

type fixture struct {
	store      *Store
	term       *models.Term
	course     *models.Course
	section    *models.Section
	student    *models.User
	instructor *models.User
}

func newFixture(t *testing.T, capacity *int) *fixture {
	t.Helper()
	ctx := context.Background()
	s := NewStore()
	repos := s.Repositories()

	f := &fixture{
		store:      s,
		term:       &models.Term{Name: "2025 Fall"},
		course:     &models.Course{Code: "CSC 301", Title: "Database Systems", Credits: 3},
		student:    &models.User{Name: "Sam", Email: "sam@example.com", Role: models.RoleStudent},
		instructor: &models.User{Name: "Ines", Email: "ines@example.com", Role: models.RoleInstructor},
	}
	require.NoError(t, repos.TermRepository.Create(ctx, f.term))
	require.NoError(t, repos.CourseRepository.Create(ctx, f.course))
	require.NoError(t, repos.UserRepository.Create(ctx, f.student))
	require.NoError(t, repos.UserRepository.Create(ctx, f.instructor))

	f.section = &models.Section{CourseID: f.course.ID, TermID: f.term.ID, Capacity: capacity, InstructorID: int64Ptr(f.instructor.ID)}
	require.NoError(t, repos.SectionRepository.Create(ctx, f.section))
	return f
}

func TestCatalogUniqueAndRestrict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	repos := f.store.Repositories()

	assert.ErrorIs(t, repos.TermRepository.Create(ctx, &models.Term{Name: "2025 Fall"}), apperrors.ErrTermAlreadyExists)
	assert.ErrorIs(t, repos.CourseRepository.Create(ctx, &models.Course{Code: "CSC 301", Title: "x", Credits: 1}), apperrors.ErrCourseAlreadyExists)

	assert.ErrorIs(t, repos.TermRepository.Delete(ctx, f.term.ID), apperrors.ErrTermHasSections)
	assert.ErrorIs(t, repos.CourseRepository.Delete(ctx, f.course.ID), apperrors.ErrCourseHasSections)
	assert.ErrorIs(t, repos.TermRepository.Delete(ctx, 999), apperrors.ErrTermNotFound)

	err := repos.SectionRepository.Create(ctx, &models.Section{CourseID: 999, TermID: f.term.ID})
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	second := &models.Term{Name: "2026 Spring"}
	require.NoError(t, repos.TermRepository.Create(ctx, second))
	terms, err := repos.TermRepository.List(ctx)
	require.NoError(t, err)
	require.Len(t, terms, 2)
	assert.Equal(t, second.ID, terms[0].ID, "newest first")
}

func TestEnrollmentCapacity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, intPtr(1))
	repos := f.store.Repositories()

	first, err := repos.EnrollmentRepository.Create(ctx, f.student.ID, f.section.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEnrolled, first.Status)

	second, err := repos.EnrollmentRepository.Create(ctx, f.instructor.ID, f.section.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaitlisted, second.Status)

	_, err = repos.EnrollmentRepository.Create(ctx, f.instructor.ID, f.section.ID, false)
	assert.ErrorIs(t, err, apperrors.ErrSectionFull)

	_, err = repos.EnrollmentRepository.Create(ctx, f.student.ID, 999, true)
	assert.ErrorIs(t, err, apperrors.ErrSectionNotFound)
	_, err = repos.EnrollmentRepository.Create(ctx, 999, f.section.ID, true)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = repos.EnrollmentRepository.UpdateStatus(ctx, second.ID, models.StatusEnrolled)
	assert.ErrorIs(t, err, apperrors.ErrSectionFull)

	_, err = repos.EnrollmentRepository.UpdateStatus(ctx, first.ID, models.StatusDropped)
	require.NoError(t, err)
	_, err = repos.EnrollmentRepository.UpdateStatus(ctx, first.ID, models.StatusWaitlisted)
	assert.ErrorIs(t, err, apperrors.ErrEnrollmentDropped)

	promoted, err := repos.EnrollmentRepository.UpdateStatus(ctx, second.ID, models.StatusEnrolled)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEnrolled, promoted.Status)

	section, err := repos.SectionRepository.GetByID(ctx, f.section.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, section.EnrolledCount)
	assert.Equal(t, "CSC 301", section.Course.Code)
	assert.Equal(t, "2025 Fall", section.Term.Name)
}

func TestDuplicateEnrollmentsAreSeparateRows(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	repos := f.store.Repositories()

	first, err := repos.EnrollmentRepository.Create(ctx, f.student.ID, f.section.ID, true)
	require.NoError(t, err)
	second, err := repos.EnrollmentRepository.Create(ctx, f.student.ID, f.section.ID, true)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, models.StatusEnrolled, first.Status)
	assert.Equal(t, models.StatusEnrolled, second.Status)

	mine, err := repos.EnrollmentRepository.ListByUser(ctx, f.student.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestConcurrentEnrollmentsRespectCapacity(t *testing.T) {
	const capacity, students = 3, 20

	tests := []struct {
		name     string
		waitlist bool
	}{
		{name: "waitlist when full", waitlist: true},
		{name: "reject when full", waitlist: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t, intPtr(capacity))
			repos := f.store.Repositories()

			ids := make([]int64, students)
			for i := range ids {
				u := &models.User{Name: fmt.Sprintf("Student %d", i), Email: fmt.Sprintf("s%d@example.com", i), Role: models.RoleStudent}
				require.NoError(t, repos.UserRepository.Create(ctx, u))
				ids[i] = u.ID
			}

			var (
				wg       sync.WaitGroup
				mu       sync.Mutex
				statuses = map[models.EnrollmentStatus]int{}
				rejected int
			)
			for _, id := range ids {
				wg.Add(1)
				go func(userID int64) {
					defer wg.Done()
					e, err := repos.EnrollmentRepository.Create(ctx, userID, f.section.ID, tt.waitlist)
					mu.Lock()
					defer mu.Unlock()
					if err != nil {
						assert.ErrorIs(t, err, apperrors.ErrSectionFull)
						rejected++
						return
					}
					statuses[e.Status]++
				}(id)
			}
			wg.Wait()

			assert.Equal(t, capacity, statuses[models.StatusEnrolled])
			if tt.waitlist {
				assert.Equal(t, students-capacity, statuses[models.StatusWaitlisted])
				assert.Zero(t, rejected)
			} else {
				assert.Zero(t, statuses[models.StatusWaitlisted])
				assert.Equal(t, students-capacity, rejected)
			}

			section, err := repos.SectionRepository.GetByID(ctx, f.section.ID)
			require.NoError(t, err)
			assert.Equal(t, capacity, section.EnrolledCount)
		})
	}
}

func TestDeleteCascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	repos := f.store.Repositories()

	_, err := repos.EnrollmentRepository.Create(ctx, f.student.ID, f.section.ID, true)
	require.NoError(t, err)
	require.NoError(t, repos.NotificationRepository.Create(ctx, &models.Notification{UserID: f.student.ID, Title: "t", Message: "m"}))

	require.NoError(t, repos.UserRepository.Delete(ctx, f.instructor.ID))
	section, err := repos.SectionRepository.GetByID(ctx, f.section.ID)
	require.NoError(t, err)
	assert.Nil(t, section.InstructorID)

	require.NoError(t, repos.UserRepository.Delete(ctx, f.student.ID))
	enrollments, err := repos.EnrollmentRepository.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, enrollments)
	inbox, err := repos.NotificationRepository.ListByUser(ctx, f.student.ID)
	require.NoError(t, err)
	assert.Empty(t, inbox)

	assert.ErrorIs(t, repos.UserRepository.Delete(ctx, f.student.ID), apperrors.ErrUserNotFound)
}

func TestBroadcastAndSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, intPtr(2))
	repos := f.store.Repositories()

	other := &models.User{Name: "Ola", Email: "ola@example.com", Role: models.RoleStudent}
	require.NoError(t, repos.UserRepository.Create(ctx, other))

	count, err := repos.NotificationRepository.CreateForRole(ctx, models.RoleStudent, &models.Notification{Title: "Hi", Message: "There"})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	inbox, err := repos.NotificationRepository.ListByUser(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.False(t, inbox[0].Read)

	_, err = repos.EnrollmentRepository.Create(ctx, other.ID, f.section.ID, true)
	require.NoError(t, err)

	snapshot, err := repos.MetricsRepository.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, snapshot.UsersByRole[models.RoleStudent])
	assert.Equal(t, 1, snapshot.UsersByRole[models.RoleInstructor])
	assert.Equal(t, 1, snapshot.EnrollmentsByStatus[models.StatusEnrolled])
	require.Len(t, snapshot.Sections, 1)
	assert.Equal(t, models.SectionLoad{SectionID: f.section.ID, CourseCode: "CSC 301", Capacity: intPtr(2), Enrolled: 1}, snapshot.Sections[0])
}
