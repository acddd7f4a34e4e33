package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "terms_name_key"})
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "enrollments_user_id_fkey"}
	plain := errors.New("boom")

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsForeignKeyViolation(unique))
	assert.True(t, IsDuplicateConstraintError(unique, "terms_name_key"))
	assert.False(t, IsDuplicateConstraintError(unique, "courses_code_key"))

	assert.True(t, IsForeignKeyViolation(fk))
	assert.Equal(t, "enrollments_user_id_fkey", ConstraintName(fk))

	assert.False(t, IsUniqueViolation(plain))
	assert.Equal(t, "", ConstraintName(plain))
}
