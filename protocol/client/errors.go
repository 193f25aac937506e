package client

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ErrServerUnavailable is returned when the Git server is unavailable (HTTP 5xx and 429 status codes).
// This error should only be used with errors.Is() for comparison, not for type assertions.
var ErrServerUnavailable = errors.New("server unavailable")

// ErrUnauthorized is returned when the supplied credentials are rejected (HTTP 401).
var ErrUnauthorized = errors.New("unauthorized")

// ErrPermissionDenied is returned when the user lacks permission for the operation (HTTP 403).
var ErrPermissionDenied = errors.New("permission denied")

// ErrRepositoryNotFound is returned when the repository does not exist or is not visible (HTTP 404,
// or HTTP 401 for anonymous requests).
var ErrRepositoryNotFound = errors.New("repository not found")

// ErrUnexpectedStatus is returned for any other non-200 response.
var ErrUnexpectedStatus = errors.New("unexpected status")

// ErrTransport is returned when the request did not produce a response.
var ErrTransport = errors.New("transport error")

// StatusError is implemented by every error that describes a non-200 response.
type StatusError interface {
	error
	// HTTPStatus returns the status code and text to report for the response.
	HTTPStatus() (int, string)
}

// ServerUnavailableError provides structured information about a Git server that is unavailable.
type ServerUnavailableError struct {
	// StatusCode is the HTTP status code (5xx or 429)
	StatusCode int
	// Status is the HTTP status text, e.g. "503 Service Unavailable"
	Status string
	// Operation is the HTTP method that failed
	Operation string
	// Underlying is the underlying error
	Underlying error
}

func (e *ServerUnavailableError) Error() string {
	if e.Underlying != nil {
		if e.Operation != "" {
			return fmt.Sprintf("server unavailable (operation %s, status code %d): %v", e.Operation, e.StatusCode, e.Underlying)
		}
		return fmt.Sprintf("server unavailable (status code %d): %v", e.StatusCode, e.Underlying)
	}
	if e.Operation != "" {
		return fmt.Sprintf("server unavailable (operation %s, status code %d)", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("server unavailable (status code %d)", e.StatusCode)
}

// Unwrap returns the underlying error, preserving the error chain.
func (e *ServerUnavailableError) Unwrap() error {
	return e.Underlying
}

// Is enables errors.Is() compatibility with ErrServerUnavailable.
func (e *ServerUnavailableError) Is(target error) bool {
	return target == ErrServerUnavailable
}

func (e *ServerUnavailableError) HTTPStatus() (int, string) {
	return e.StatusCode, e.Status
}

// UnauthorizedError provides structured information about rejected credentials.
type UnauthorizedError struct {
	StatusCode int
	Status     string
	Operation  string
	Endpoint   string
	Underlying error
}

func (e *UnauthorizedError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("unauthorized (operation %s, endpoint %s, status code %d): %v",
			e.Operation, e.Endpoint, e.StatusCode, e.Underlying)
	}
	return fmt.Sprintf("unauthorized (operation %s, endpoint %s, status code %d)",
		e.Operation, e.Endpoint, e.StatusCode)
}

func (e *UnauthorizedError) Unwrap() error {
	return e.Underlying
}

func (e *UnauthorizedError) Is(target error) bool {
	return target == ErrUnauthorized
}

func (e *UnauthorizedError) HTTPStatus() (int, string) {
	return e.StatusCode, e.Status
}

// PermissionDeniedError provides structured information about a permission denial.
type PermissionDeniedError struct {
	StatusCode int
	Status     string
	Operation  string
	Endpoint   string
	Underlying error
}

func (e *PermissionDeniedError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("permission denied (operation %s, endpoint %s, status code %d): %v",
			e.Operation, e.Endpoint, e.StatusCode, e.Underlying)
	}
	return fmt.Sprintf("permission denied (operation %s, endpoint %s, status code %d)",
		e.Operation, e.Endpoint, e.StatusCode)
}

func (e *PermissionDeniedError) Unwrap() error {
	return e.Underlying
}

func (e *PermissionDeniedError) Is(target error) bool {
	return target == ErrPermissionDenied
}

func (e *PermissionDeniedError) HTTPStatus() (int, string) {
	return e.StatusCode, e.Status
}

// RepositoryNotFoundError provides structured information about a repository that does not exist
// or is not visible. StatusCode is always 404, even when the server answered 401 to an anonymous request.
type RepositoryNotFoundError struct {
	StatusCode int
	Status     string
	Operation  string
	Endpoint   string
	Underlying error
}

func (e *RepositoryNotFoundError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("repository not found (operation %s, endpoint %s, status code %d): %v",
			e.Operation, e.Endpoint, e.StatusCode, e.Underlying)
	}
	return fmt.Sprintf("repository not found (operation %s, endpoint %s, status code %d)",
		e.Operation, e.Endpoint, e.StatusCode)
}

func (e *RepositoryNotFoundError) Unwrap() error {
	return e.Underlying
}

func (e *RepositoryNotFoundError) Is(target error) bool {
	return target == ErrRepositoryNotFound
}

func (e *RepositoryNotFoundError) HTTPStatus() (int, string) {
	return e.StatusCode, e.Status
}

// UnexpectedStatusError describes any other non-200 response.
type UnexpectedStatusError struct {
	StatusCode int
	Status     string
	Operation  string
	Endpoint   string
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected status (operation %s, endpoint %s): got status code %d: %s",
		e.Operation, e.Endpoint, e.StatusCode, e.Status)
}

func (e *UnexpectedStatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

func (e *UnexpectedStatusError) HTTPStatus() (int, string) {
	return e.StatusCode, e.Status
}

// TransportError wraps a failure to get any response: DNS, TLS, refused or reset connections, timeouts.
type TransportError struct {
	Operation string
	// URL is the address attempted, without query or credentials.
	URL        string
	Underlying error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error (operation %s, url %s): %v", e.Operation, e.URL, e.Underlying)
}

func (e *TransportError) Unwrap() error {
	return e.Underlying
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// NewTransportError creates a TransportError for a request to u.
func NewTransportError(operation string, u *url.URL, underlying error) *TransportError {
	return &TransportError{
		Operation:  operation,
		URL:        redact(u),
		Underlying: underlying,
	}
}

// CheckHTTPStatus classifies a non-200 response. It returns nil for 200.
//
//   - 404, and 401 when the request carried no credentials, become a RepositoryNotFoundError
//     reported as 404: anonymous requests to private repositories are indistinguishable from
//     missing ones.
//   - 401 with credentials becomes an UnauthorizedError.
//   - 403 becomes a PermissionDeniedError.
//   - 5xx and 429 become a ServerUnavailableError.
//   - Anything else becomes an UnexpectedStatusError.
//
// The caller is responsible for closing the response body.
func CheckHTTPStatus(res *http.Response, authenticated bool) StatusError {
	if res.StatusCode == http.StatusOK {
		return nil
	}

	operation := ""
	endpoint := ""
	if res.Request != nil {
		operation = res.Request.Method
		if res.Request.URL != nil {
			endpoint = extractEndpoint(res.Request.URL.Path)
		}
	}

	underlying := fmt.Errorf("got status code %d: %s", res.StatusCode, res.Status)

	switch {
	case res.StatusCode == http.StatusNotFound,
		res.StatusCode == http.StatusUnauthorized && !authenticated:
		return &RepositoryNotFoundError{
			StatusCode: http.StatusNotFound,
			Status:     statusText(http.StatusNotFound),
			Operation:  operation,
			Endpoint:   endpoint,
			Underlying: underlying,
		}
	case res.StatusCode == http.StatusUnauthorized:
		return &UnauthorizedError{
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Operation:  operation,
			Endpoint:   endpoint,
			Underlying: underlying,
		}
	case res.StatusCode == http.StatusForbidden:
		return &PermissionDeniedError{
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Operation:  operation,
			Endpoint:   endpoint,
			Underlying: underlying,
		}
	case res.StatusCode >= 500 || res.StatusCode == http.StatusTooManyRequests:
		return &ServerUnavailableError{
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Operation:  operation,
			Underlying: underlying,
		}
	default:
		return &UnexpectedStatusError{
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Operation:  operation,
			Endpoint:   endpoint,
		}
	}
}

// extractEndpoint extracts the Git protocol endpoint from a URL path.
// Returns "info/refs", "git-upload-pack" or "unknown".
func extractEndpoint(path string) string {
	if idx := strings.Index(path, "?"); idx != -1 {
		path = path[:idx]
	}

	if strings.Contains(path, "info/refs") {
		return "info/refs"
	}
	if strings.Contains(path, "git-upload-pack") {
		return "git-upload-pack"
	}
	return "unknown"
}

func statusText(code int) string {
	return fmt.Sprintf("%d %s", code, http.StatusText(code))
}

func redact(u *url.URL) string {
	if u == nil {
		return ""
	}
	r := *u
	r.User = nil
	r.RawQuery = ""
	r.Fragment = ""
	return r.String()
}
