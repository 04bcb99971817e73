package clash

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is returned for non-200 responses.
type APIError struct {
	StatusCode int
	Reason     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("clash API request failed with status %d (%s)", e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("clash API request failed with status %d", e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsPrivateWarLog reports whether err means the clan's war log is private.
func IsPrivateWarLog(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden && apiErr.Reason == "accessDenied"
}

// IsInvalidToken reports whether the API rejected the token, usually because
// the request came from an IP address the key is not bound to.
func IsInvalidToken(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden && apiErr.Reason == "accessDenied.invalidIp"
}

// IsMaintenance reports whether the API is down for maintenance.
func IsMaintenance(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable
}
