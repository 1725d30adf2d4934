package backend

import (
	"errors"
	"fmt"
)

// Sentinel errors for backend calls.
var (
	ErrMissingField      = errors.New("response field missing")
	ErrMalformedResponse = errors.New("malformed response body")
	ErrTokenRejected     = errors.New("credentials rejected by token service")
)

// StatusError reports an unexpected HTTP status from a backend service.
type StatusError struct {
	Service    Service
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s service returned status %d", e.Service, e.StatusCode)
}
