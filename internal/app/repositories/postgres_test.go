package repositories

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusportal/internal/app/migrations"
	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/db"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
)

// openTestDB connects to TEST_DATABASE_URL, applies the schema and empties
// every table. Tests are skipped when no database is configured.
func openTestDB(t *testing.T) *db.PostgresDB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
		return nil
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Skipf("db unavailable: %v", err)
		return nil
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("db unavailable: %v", err)
		return nil
	}
	t.Cleanup(pool.Close)

	require.NoError(t, migrations.NewMigrator(pool, migrations.Files()).Migrate(ctx))
	_, err = pool.Exec(ctx, `TRUNCATE notifications, enrollments, sections, users, courses, terms RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return &db.PostgresDB{Pool: pool}
}

func intPtr(v int) *int { return &v }

func TestPostgresCatalogAndLedger(t *testing.T) {
	database := openTestDB(t)
	if database == nil {
		return
	}
	ctx := context.Background()
	repos := NewRepositories(database)

	term := &models.Term{Name: "2025 Fall"}
	require.NoError(t, repos.TermRepository.Create(ctx, term))
	assert.ErrorIs(t, repos.TermRepository.Create(ctx, &models.Term{Name: "2025 Fall"}), apperrors.ErrConflict)

	course := &models.Course{Code: "CSC 301", Title: "Database Systems", Credits: 3}
	require.NoError(t, repos.CourseRepository.Create(ctx, course))

	err := repos.SectionRepository.Create(ctx, &models.Section{CourseID: course.ID, TermID: 9999})
	assert.ErrorIs(t, err, apperrors.ErrTermNotFound)

	section := &models.Section{CourseID: course.ID, TermID: term.ID, Capacity: intPtr(1)}
	require.NoError(t, repos.SectionRepository.Create(ctx, section))

	alice := &models.User{Name: "Alice", Email: "alice@example.com", Role: models.RoleStudent}
	bob := &models.User{Name: "Bob", Email: "bob@example.com", Role: models.RoleStudent}
	require.NoError(t, repos.UserRepository.Create(ctx, alice))
	require.NoError(t, repos.UserRepository.Create(ctx, bob))

	first, err := repos.EnrollmentRepository.Create(ctx, alice.ID, section.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEnrolled, first.Status)

	second, err := repos.EnrollmentRepository.Create(ctx, bob.ID, section.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaitlisted, second.Status)

	_, err = repos.EnrollmentRepository.Create(ctx, bob.ID, section.ID, false)
	assert.ErrorIs(t, err, apperrors.ErrSectionFull)

	_, err = repos.EnrollmentRepository.UpdateStatus(ctx, second.ID, models.StatusEnrolled)
	assert.ErrorIs(t, err, apperrors.ErrSectionFull)

	_, err = repos.EnrollmentRepository.UpdateStatus(ctx, first.ID, models.StatusDropped)
	require.NoError(t, err)
	_, err = repos.EnrollmentRepository.UpdateStatus(ctx, first.ID, models.StatusEnrolled)
	assert.ErrorIs(t, err, apperrors.ErrEnrollmentDropped)

	promoted, err := repos.EnrollmentRepository.UpdateStatus(ctx, second.ID, models.StatusEnrolled)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEnrolled, promoted.Status)

	listed, err := repos.SectionRepository.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, 1, listed[0].EnrolledCount)
	assert.Equal(t, "CSC 301", listed[0].Course.Code)

	assert.ErrorIs(t, repos.TermRepository.Delete(ctx, term.ID), apperrors.ErrTermHasSections)
	assert.ErrorIs(t, repos.CourseRepository.Delete(ctx, course.ID), apperrors.ErrCourseHasSections)

	snapshot, err := repos.MetricsRepository.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, snapshot.UsersByRole[models.RoleStudent])
	assert.Equal(t, 1, snapshot.EnrollmentsByStatus[models.StatusEnrolled])
	assert.Equal(t, 1, snapshot.EnrollmentsByStatus[models.StatusDropped])

	require.NoError(t, repos.SectionRepository.Delete(ctx, section.ID))
	remaining, err := repos.EnrollmentRepository.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestPostgresNotificationBroadcast(t *testing.T) {
	database := openTestDB(t)
	if database == nil {
		return
	}
	ctx := context.Background()
	repos := NewRepositories(database)

	for _, u := range []*models.User{
		{Name: "S1", Email: "s1@example.com", Role: models.RoleStudent},
		{Name: "S2", Email: "s2@example.com", Role: models.RoleStudent},
		{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin},
	} {
		require.NoError(t, repos.UserRepository.Create(ctx, u))
	}

	category := "academic"
	count, err := repos.NotificationRepository.CreateForRole(ctx, models.RoleStudent, &models.Notification{
		Title:    "Registration",
		Message:  "Opens Monday",
		Category: &category,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	ids, err := repos.UserRepository.ListIDsByRole(ctx, models.RoleStudent)
	require.NoError(t, err)
	inbox, err := repos.NotificationRepository.ListByUser(ctx, ids[0])
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.False(t, inbox[0].Read)
	assert.Equal(t, "Registration", inbox[0].Title)
	assert.Equal(t, "academic", *inbox[0].Category)
	assert.Nil(t, inbox[0].Priority)

	count, err = repos.NotificationRepository.CreateForRole(ctx, models.RoleInstructor, &models.Notification{Title: "None", Message: "Nobody"})
	require.NoError(t, err)
	assert.Zero(t, count)

	read, err := repos.NotificationRepository.MarkRead(ctx, inbox[0].ID)
	require.NoError(t, err)
	assert.True(t, read.Read)

	_, err = repos.NotificationRepository.MarkRead(ctx, 424242)
	assert.ErrorIs(t, err, apperrors.ErrNotificationNotFound)
}

func TestPostgresConcurrentEnrollmentsRespectCapacity(t *testing.T) {
	database := openTestDB(t)
	if database == nil {
		return
	}
	ctx := context.Background()
	repos := NewRepositories(database)
	const capacity, students = 2, 12

	term := &models.Term{Name: "2025 Fall"}
	require.NoError(t, repos.TermRepository.Create(ctx, term))
	course := &models.Course{Code: "CSC 305", Title: "Software Engineering", Credits: 3}
	require.NoError(t, repos.CourseRepository.Create(ctx, course))
	section := &models.Section{CourseID: course.ID, TermID: term.ID, Capacity: intPtr(capacity)}
	require.NoError(t, repos.SectionRepository.Create(ctx, section))

	var wg sync.WaitGroup
	errs := make(chan error, students)
	for i := 0; i < students; i++ {
		u := &models.User{Name: fmt.Sprintf("Student %d", i), Email: fmt.Sprintf("s%d@example.com", i), Role: models.RoleStudent}
		require.NoError(t, repos.UserRepository.Create(ctx, u))

		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := repos.EnrollmentRepository.Create(ctx, userID, section.ID, true)
			errs <- err
		}(u.ID)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	all, err := repos.EnrollmentRepository.List(ctx)
	require.NoError(t, err)
	counts := map[models.EnrollmentStatus]int{}
	for _, e := range all {
		counts[e.Status]++
	}
	assert.Equal(t, capacity, counts[models.StatusEnrolled])
	assert.Equal(t, students-capacity, counts[models.StatusWaitlisted])
}
