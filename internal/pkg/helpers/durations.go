package helpers

import (
	"time"

	"github.com/yigit/campusportal/internal/pkg/logger"
)

// DurationOr parses value as a time.Duration. Blank, malformed or
// non-positive values yield fallback, with a warning for the malformed case.
func DurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		logger.Warn().Err(err).Str("value", value).Dur("fallback", fallback).Msg("Invalid duration, using fallback")
		return fallback
	}
	if d <= 0 {
		return fallback
	}
	return d
}
