package error

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ConfigurationError reports a missing or invalid setting detected before
// any request is made.
type ConfigurationError struct {
	Code    string
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	if strings.TrimSpace(e.Code) != "" {
		return fmt.Sprintf("%s - %s", e.Code, e.Message)
	}

	return e.Message
}

// HTTPError is returned for any non-2xx response from the Snyk API.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string

	// Code and Detail are filled when the body decodes as an API error document
	Code   string
	Detail string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))

	switch {
	case e.Detail != "":
		return msg + ": " + e.Detail
	case e.Body != "":
		return msg + ": " + e.Body
	}

	return msg
}

// ParseError reports a field of an API response that could not be parsed.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsConfigurationError checks if err carries a *ConfigurationError
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError

	return errors.As(err, &cfgErr)
}

// IsServerError checks if an error is related to a server error (5xx)
func IsServerError(err error) bool {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}

	return httpErr.StatusCode >= 500 && httpErr.StatusCode < 600
}

// IsUnauthorized checks if the API rejected the credentials (401 or 403)
func IsUnauthorized(err error) bool {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}

	return httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden
}

// IsConnectionError checks if an error is likely related to network connectivity
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return false
	}

	errStr := strings.ToLower(err.Error())

	// Check for known connection error messages
	connectionErrors := []string{
		"connection refused",
		"no such host",
		"host unreachable",
		"i/o timeout",
		"no route to host",
		"network is unreachable",
		"operation timed out",
		"eof",
		"connection reset by peer",
		"dial tcp",
		"tls handshake",
		"context deadline exceeded",
	}

	for _, msg := range connectionErrors {
		if strings.Contains(errStr, msg) {
			return true
		}
	}

	var netErr net.Error

	return errors.As(err, &netErr)
}
