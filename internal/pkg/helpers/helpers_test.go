package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestTrimmedOrNil(t *testing.T) {
	assert.Nil(t, TrimmedOrNil(nil))
	assert.Nil(t, TrimmedOrNil(strPtr("")))
	assert.Nil(t, TrimmedOrNil(strPtr("   ")))

	got := TrimmedOrNil(strPtr("  B101 "))
	if assert.NotNil(t, got) {
		assert.Equal(t, "B101", *got)
	}
}

func TestDeref(t *testing.T) {
	assert.Equal(t, 0, Deref[int](nil))
	v := 60
	assert.Equal(t, 60, Deref(&v))
	assert.Equal(t, "", Deref[string](nil))
}

func TestDurationOr(t *testing.T) {
	assert.Equal(t, 15*time.Minute, DurationOr("15m", time.Hour))
	assert.Equal(t, time.Hour, DurationOr("soon", time.Hour))
	assert.Equal(t, time.Hour, DurationOr("", time.Hour))
	assert.Equal(t, time.Hour, DurationOr("-5m", time.Hour))
}
