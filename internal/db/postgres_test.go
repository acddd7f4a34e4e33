package db

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
)

func TestRollbackFailedKeepsBothErrors(t *testing.T) {
	err := rollbackFailed(apperrors.ErrSectionFull, pgx.ErrTxClosed)

	assert.ErrorIs(t, err, apperrors.ErrSectionFull)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.ErrorIs(t, err, pgx.ErrTxClosed)

	var custom *apperrors.CustomError
	assert.True(t, errors.As(err, &custom))
	assert.Equal(t, "section is at capacity", custom.Message)
}
