package roadauth

import (
	"errors"
	"fmt"

	"github.com/roadinfra/roadauth/session"
)

var (
	// ErrInvalidCredentials indicates the login exchange was rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotAuthenticated indicates the operation needs a signed-in session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNoRefreshToken indicates no refresh token is available to exchange.
	ErrNoRefreshToken = errors.New("no refresh token")
	// ErrRefreshInvalid indicates the refresh exchange was rejected.
	ErrRefreshInvalid = errors.New("invalid refresh token")
	// ErrInvalidRequest indicates a request failed client-side validation.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrSessionSuperseded indicates a refresh result was discarded because
	// a logout landed while the refresh was in flight.
	ErrSessionSuperseded = session.ErrSuperseded
)

// APIError is a non-2xx response from the platform, carrying the
// human-readable message from the JSON error body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}
