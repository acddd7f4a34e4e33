package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/pkg/apperrors"
)

func testService() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "test-issuer",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := testService()
	user := &models.User{ID: 7, Email: "ada@example.com", Role: models.RoleAdmin}

	token, expiresIn, err := svc.GenerateToken(user)
	require.NoError(t, err)
	assert.Equal(t, 3600, expiresIn)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "7", claims.Subject)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := testService()
	issued := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issued }

	token, _, err := svc.GenerateToken(&models.User{ID: 1, Email: "a@b.c", Role: models.RoleStudent})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestValidateTokenRejectsForeignSecretAndIssuer(t *testing.T) {
	user := &models.User{ID: 1, Email: "a@b.c", Role: models.RoleStudent}

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "test-issuer"})
	token, _, err := other.GenerateToken(user)
	require.NoError(t, err)
	_, err = testService().ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	wrongIssuer := NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "elsewhere"})
	token, _, err = wrongIssuer.GenerateToken(user)
	require.NoError(t, err)
	_, err = testService().ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	_, err = testService().ValidateToken("")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	for _, header := range []string{"", "abc.def.ghi", "Basic xyz", "Bearer "} {
		_, err := ExtractBearerToken(header)
		assert.ErrorIs(t, err, ErrInvalidFormat, header)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)
	assert.True(t, CheckPassword(hash, "password123"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("", "password123"))
}
