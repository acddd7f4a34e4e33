package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusportal/internal/app/models/dto"
)

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, RegisterOn(v))
	return v
}

func TestRoleAndStatusTags(t *testing.T) {
	v := newValidator(t)

	ok := dto.UserRequest{Name: "Ada", Email: "ada@example.com", Role: "ADMIN"}
	require.NoError(t, v.Struct(ok))

	bad := ok
	bad.Role = "JANITOR"
	err := v.Struct(bad)
	require.Error(t, err)
	msg, fields := Describe(err)
	assert.Equal(t, "invalid fields: role", msg)
	require.Len(t, fields, 1)
	assert.Equal(t, "role must be one of: STUDENT, INSTRUCTOR, ADMIN", fields[0].Message)

	require.NoError(t, v.Struct(dto.UpdateEnrollmentStatusRequest{Status: "DROPPED"}))
	assert.Error(t, v.Struct(dto.UpdateEnrollmentStatusRequest{Status: "dropped"}))
}

func TestDescribeUsesJSONNames(t *testing.T) {
	v := newValidator(t)
	err := v.Struct(dto.CourseRequest{Code: "", Title: "Databases", Credits: 0})
	_, fields := Describe(err)

	names := []string{}
	for _, f := range fields {
		names = append(names, f.Field)
	}
	assert.ElementsMatch(t, []string{"code", "credits"}, names)
}

func TestDescribeNonValidationError(t *testing.T) {
	msg, fields := Describe(errors.New("unexpected EOF"))
	assert.Equal(t, "invalid request body", msg)
	assert.Nil(t, fields)
}
