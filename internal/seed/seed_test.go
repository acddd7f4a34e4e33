package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/app/repositories/memory"
	"github.com/yigit/campusportal/internal/pkg/auth"
)

func TestCreateDefaultDataIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()

	require.NoError(t, CreateDefaultData(ctx, repos, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(ctx, repos, zerolog.Nop()))

	terms, err := repos.TermRepository.List(ctx)
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, "2025 Fall", terms[0].Name)

	courses, err := repos.CourseRepository.List(ctx)
	require.NoError(t, err)
	assert.Len(t, courses, 2)

	sections, err := repos.SectionRepository.List(ctx)
	require.NoError(t, err)
	require.Len(t, sections, 2)
	capacities := map[string]int{}
	for _, s := range sections {
		require.NotNil(t, s.Room)
		require.NotNil(t, s.Capacity)
		capacities[*s.Room] = *s.Capacity
	}
	assert.Equal(t, map[string]int{"B101": 60, "B102": 50}, capacities)

	users, err := repos.UserRepository.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestDefaultAccountsCanAuthenticate(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()
	require.NoError(t, CreateDefaultData(ctx, repos, zerolog.Nop()))

	admin, err := repos.UserRepository.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	require.NotNil(t, admin.PasswordHash)
	assert.True(t, auth.CheckPassword(*admin.PasswordHash, "admin123"))

	student, err := repos.UserRepository.GetByEmail(ctx, "student@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, student.Role)
	require.NotNil(t, student.PasswordHash)
	assert.True(t, auth.CheckPassword(*student.PasswordHash, "password123"))
}
