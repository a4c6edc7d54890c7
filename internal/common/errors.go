package common

import (
	"errors"
	"fmt"
)

// Business logic errors
var (
	// Validation errors
	ErrChannelRequired = errors.New("at least one channel is required")
	ErrMissingAuthCode = errors.New("authorization code is required")

	// Job errors
	ErrJobNotFound      = errors.New("job not found")
	ErrJobNotCancelable = errors.New("job is not running")
)

// UpstreamError is a non-success response from the Discord API. Fetch paths
// propagate it and abort; the bulk executor counts it and continues.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("discord api returned %d: %s", e.StatusCode, e.Body)
}

// IsUpstreamError reports whether err is an UpstreamError
func IsUpstreamError(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
