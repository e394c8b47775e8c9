package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned when an entity is absent on read. The HTTP layer
// maps it to a 404.
var ErrNotFound = errors.New("not found")

// ConfigError reports a store that cannot sync because it is missing its
// Tiendanube credentials. It aborts a sync before any network call.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return e.Reason
}

// NewConfigError creates a ConfigError with a formatted reason.
func NewConfigError(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// UpstreamError is a non-success response from the Tiendanube API. The
// status distinguishes authorization failures (401/403), missing entities
// (404) and rate limiting (429) from generic failures.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("tiendanube api error: status %d - %s", e.Status, e.Body)
}

// IsAuthorization reports whether the upstream rejected our credential.
// Callers surface this distinctly so the UI can prompt re-authorization.
func (e *UpstreamError) IsAuthorization() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// IsNotFound reports whether the upstream entity does not exist. On paged
// list endpoints a 404 means "end of pages" and is handled by the client
// before an error is ever returned.
func (e *UpstreamError) IsNotFound() bool {
	return e.Status == http.StatusNotFound
}

// IsRateLimited reports whether the upstream throttled the request.
func (e *UpstreamError) IsRateLimited() bool {
	return e.Status == http.StatusTooManyRequests
}

// AsUpstreamError unwraps err into an *UpstreamError if there is one.
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
