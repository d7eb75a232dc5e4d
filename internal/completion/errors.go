package completion

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is the single failure type of every Generator. Network, authentication
// and malformed-response failures all collapse into it.
type APIError struct {
	Provider   string
	StatusCode int    // upstream HTTP status, zero when no response was received
	Message    string // upstream or local description
	Err        error
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}

	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Provider, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	}
}

func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// AuthFailure reports whether the upstream rejected the credential.
func (e *APIError) AuthFailure() bool {
	return e != nil && (e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// AsAPIError extracts an *APIError from err's chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
