package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/app/repositories"
	"github.com/yigit/campusportal/internal/app/repositories/memory"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
	"github.com/yigit/campusportal/internal/pkg/auth"
)

type cliTest struct {
	name       string
	args       []string // without program name
	password   string
	wantErr    error
	wantErrStr string
	wantOut    string
}

func setup(t *testing.T) (*repositories.Repositories, *int, OpenFunc) {
	t.Helper()
	repos := memory.NewRepositories()
	migrations := 0

	open := func(context.Context, string) (*Backend, error) {
		return &Backend{
			Repos: repos,
			Migrate: func(context.Context) error {
				migrations++
				return nil
			},
			Close: func() {},
		}, nil
	}

	orig := readPasswordFunc
	t.Cleanup(func() { readPasswordFunc = orig })
	return repos, &migrations, open
}

func run(t *testing.T, open OpenFunc, tt cliTest) (string, error) {
	t.Helper()
	readPasswordFunc = func(int) ([]byte, error) { return []byte(tt.password), nil }

	var out bytes.Buffer
	cmd := NewRootCommand(open)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(tt.args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func check(t *testing.T, tt cliTest, out string, err error) {
	t.Helper()
	switch {
	case tt.wantErr != nil:
		assert.ErrorIs(t, err, tt.wantErr)
	case tt.wantErrStr != "":
		require.Error(t, err)
		assert.Contains(t, err.Error(), tt.wantErrStr)
	default:
		require.NoError(t, err)
		assert.Contains(t, out, tt.wantOut)
	}
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(nil)
	for _, path := range [][]string{{"migrate"}, {"seed"}, {"user", "create"}, {"user", "reset-password"}} {
		sub, _, err := cmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], sub.Name())
	}

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)
}

func TestMigrateAndSeed(t *testing.T) {
	repos, migrations, open := setup(t)

	out, err := run(t, open, cliTest{args: []string{"migrate"}})
	require.NoError(t, err)
	assert.Contains(t, out, "migrations applied")
	assert.Equal(t, 1, *migrations)

	out, err = run(t, open, cliTest{args: []string{"seed"}})
	require.NoError(t, err)
	assert.Contains(t, out, "default data in place")

	users, err := repos.UserRepository.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestMigrateWithoutSchema(t *testing.T) {
	open := func(context.Context, string) (*Backend, error) {
		return &Backend{Repos: memory.NewRepositories(), Close: func() {}}, nil
	}
	var out bytes.Buffer
	cmd := NewRootCommand(open)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"migrate"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "nothing to migrate")
}

func TestOpenFailureIsReported(t *testing.T) {
	boom := errors.New("boom")
	cmd := NewRootCommand(func(context.Context, string) (*Backend, error) { return nil, boom })
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"seed"})
	assert.ErrorIs(t, cmd.Execute(), boom)
}

func TestUserCreate(t *testing.T) {
	repos, _, open := setup(t)

	tests := []cliTest{
		{name: "missing email", args: []string{"user", "create", "--name", "Ada"}, password: "longenough", wantErrStr: `"email" not set`},
		{name: "empty password", args: []string{"user", "create", "--name", "Ada", "--email", "ada@example.com"}, wantErr: errEmptyPassword},
		{name: "short password", args: []string{"user", "create", "--name", "Ada", "--email", "ada@example.com"}, password: "short", wantErr: apperrors.ErrValidationFailed},
		{name: "bad role", args: []string{"user", "create", "--name", "Ada", "--email", "ada@example.com", "--role", "dean"}, password: "longenough", wantErr: apperrors.ErrValidationFailed},
		{name: "ok", args: []string{"user", "create", "--name", "Ada", "--email", " Ada@Example.com ", "--role", "admin"}, password: "longenough", wantOut: "<ada@example.com> (ADMIN)"},
		{name: "duplicate", args: []string{"user", "create", "--name", "Ada", "--email", "ada@example.com"}, password: "longenough", wantErr: apperrors.ErrEmailAlreadyExists},
		{name: "no password", args: []string{"user", "create", "--name", "Ivo", "--email", "ivo@example.com", "--role", "instructor", "--no-password"}, wantOut: "(INSTRUCTOR)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, open, tt)
			check(t, tt, out, err)
		})
	}

	ada, err := repos.UserRepository.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, ada.Role)
	require.NotNil(t, ada.PasswordHash)
	assert.True(t, auth.CheckPassword(*ada.PasswordHash, "longenough"))

	ivo, err := repos.UserRepository.GetByEmail(context.Background(), "ivo@example.com")
	require.NoError(t, err)
	assert.Nil(t, ivo.PasswordHash)
}

func TestUserResetPassword(t *testing.T) {
	repos, _, open := setup(t)
	_, err := run(t, open, cliTest{args: []string{"seed"}})
	require.NoError(t, err)

	tests := []cliTest{
		{name: "unknown user", args: []string{"user", "reset-password", "--email", "ghost@example.com"}, password: "newpassword", wantErr: apperrors.ErrUserNotFound},
		{name: "short password", args: []string{"user", "reset-password", "--email", "admin@example.com"}, password: "short", wantErr: apperrors.ErrValidationFailed},
		{name: "ok", args: []string{"user", "reset-password", "--email", "ADMIN@example.com"}, password: "newpassword", wantOut: "password updated for <admin@example.com>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, open, tt)
			check(t, tt, out, err)
		})
	}

	admin, err := repos.UserRepository.GetByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	require.NotNil(t, admin.PasswordHash)
	assert.True(t, auth.CheckPassword(*admin.PasswordHash, "newpassword"))
	assert.False(t, auth.CheckPassword(*admin.PasswordHash, "admin123"))
}
