package controller

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (connection reset, unreachable, etc.)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeAuth indicates the controller rejected the credentials or token
	ErrTypeAuth
	// ErrTypeHTTP indicates an HTTP status in the 400-599 range
	ErrTypeHTTP
	// ErrTypeParse indicates a malformed or unexpected response body
	ErrTypeParse
	// ErrTypeValidation indicates invalid input detected before calling the controller
	ErrTypeValidation
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the controller refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeLookup indicates a named entity was not found in a fetched reference set
	ErrTypeLookup
	// ErrTypeInconsistentState indicates the input disagrees with the controller state
	ErrTypeInconsistentState
	// ErrTypeTaskFailed indicates an asynchronous task ended with isError=true
	ErrTypeTaskFailed
	// ErrTypeTaskTimeout indicates a task did not finish before the poll deadline
	ErrTypeTaskTimeout
	// ErrTypeUnknown indicates an unknown or unexpected error
	ErrTypeUnknown
)

// NetworkErrorSubtype provides more specific network error classification
type NetworkErrorSubtype int

const (
	NetworkErrorGeneral NetworkErrorSubtype = iota
	NetworkErrorTimeout
	NetworkErrorConnectionRefused
	NetworkErrorDNS
	NetworkErrorHostUnreachable
	NetworkErrorNetworkUnreachable
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeAuth:
		return "Authentication Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeValidation:
		return "Validation Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeLookup:
		return "Lookup Error"
	case ErrTypeInconsistentState:
		return "Inconsistent State"
	case ErrTypeTaskFailed:
		return "Task Failed"
	case ErrTypeTaskTimeout:
		return "Task Timeout"
	case ErrTypeUnknown:
		return "Unknown Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// APIError represents an error raised while talking to the controller or
// while interpreting what it returned.
type APIError struct {
	Type           ErrorType           // Category of error
	Message        string              // Human-readable error message
	StatusCode     int                 // HTTP status code (if applicable)
	Err            error               // Underlying error (if any)
	NetworkSubtype NetworkErrorSubtype // More specific network error type
	Host           string              // Controller host (for context)
	TaskID         string              // Task id for task failures and timeouts
	Retryable      bool                // Whether the error is retryable
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *APIError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError analyzes a transport error and returns a more specific error type
func ClassifyNetworkError(err error, host string) *APIError {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) {
		return &APIError{
			Type:           ErrTypeTimeout,
			Message:        "Request timed out",
			Err:            err,
			NetworkSubtype: NetworkErrorTimeout,
			Host:           host,
			Retryable:      true,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &APIError{
			Type:           ErrTypeDNS,
			Message:        fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:            err,
			NetworkSubtype: NetworkErrorDNS,
			Host:           host,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return &APIError{
				Type:           ErrTypeConnectionRefused,
				Message:        "Controller refused connection",
				Err:            err,
				NetworkSubtype: NetworkErrorConnectionRefused,
				Host:           host,
				Retryable:      true,
			}
		}
		if errors.Is(opErr.Err, syscall.EHOSTUNREACH) {
			return &APIError{
				Type:           ErrTypeNetwork,
				Message:        "Host unreachable",
				Err:            err,
				NetworkSubtype: NetworkErrorHostUnreachable,
				Host:           host,
				Retryable:      true,
			}
		}
		if errors.Is(opErr.Err, syscall.ENETUNREACH) {
			return &APIError{
				Type:           ErrTypeNetwork,
				Message:        "Network unreachable",
				Err:            err,
				NetworkSubtype: NetworkErrorNetworkUnreachable,
				Host:           host,
				Retryable:      true,
			}
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return ClassifyNetworkError(urlErr.Err, host)
	}

	return &APIError{
		Type:           ErrTypeNetwork,
		Message:        "Network error occurred",
		Err:            err,
		NetworkSubtype: NetworkErrorGeneral,
		Host:           host,
		Retryable:      true,
	}
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(message string, err error) *APIError {
	classified := ClassifyNetworkError(err, "")
	if classified != nil {
		classified.Message = message
		return classified
	}
	return &APIError{
		Type:      ErrTypeNetwork,
		Message:   message,
		Err:       err,
		Retryable: true,
	}
}

// NewAuthError creates an authentication error
func NewAuthError(message string) *APIError {
	return &APIError{
		Type:       ErrTypeAuth,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewHTTPError creates an HTTP-level error. 401 responses are reported as
// authentication errors.
func NewHTTPError(statusCode int, message string) *APIError {
	errType := ErrTypeHTTP
	if statusCode == http.StatusUnauthorized {
		errType = ErrTypeAuth
	}
	return &APIError{
		Type:       errType,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  statusCode >= 500,
	}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *APIError {
	return &APIError{
		Type:    ErrTypeParse,
		Message: message,
		Err:     err,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *APIError {
	return &APIError{
		Type:    ErrTypeValidation,
		Message: message,
	}
}

// NewLookupError reports a named entity missing from a fetched reference set
func NewLookupError(message string) *APIError {
	return &APIError{
		Type:    ErrTypeLookup,
		Message: message,
	}
}

// NewInconsistentStateError reports input that contradicts the controller state,
// such as removing an interface that has no configuration.
func NewInconsistentStateError(message string) *APIError {
	return &APIError{
		Type:    ErrTypeInconsistentState,
		Message: message,
	}
}

// NewTaskFailedError reports a task that finished with isError=true
func NewTaskFailedError(taskID, message string) *APIError {
	return &APIError{
		Type:    ErrTypeTaskFailed,
		Message: message,
		TaskID:  taskID,
	}
}

// NewTaskTimeoutError reports a task that did not reach a terminal state in time
func NewTaskTimeoutError(taskID, message string) *APIError {
	return &APIError{
		Type:    ErrTypeTaskTimeout,
		Message: message,
		TaskID:  taskID,
	}
}

func errorType(err error) (ErrorType, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type, true
	}
	return ErrTypeUnknown, false
}

// IsNetworkError checks if an error is a transport error (including timeout, connection refused, DNS)
func IsNetworkError(err error) bool {
	t, ok := errorType(err)
	return ok && (t == ErrTypeNetwork || t == ErrTypeTimeout || t == ErrTypeConnectionRefused || t == ErrTypeDNS)
}

// IsAuthError checks if an error is an authentication error
func IsAuthError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeAuth
}

// IsHTTPError checks if an error is an HTTP error
func IsHTTPError(err error) bool {
	t, ok := errorType(err)
	return ok && (t == ErrTypeHTTP || t == ErrTypeAuth)
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeParse
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeValidation
}

// IsLookupError checks if an error is a lookup failure
func IsLookupError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeLookup
}

// IsInconsistentStateError checks if an error reports an input/controller mismatch
func IsInconsistentStateError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeInconsistentState
}

// IsTaskError checks if an error is a failed or timed out task
func IsTaskError(err error) bool {
	t, ok := errorType(err)
	return ok && (t == ErrTypeTaskFailed || t == ErrTypeTaskTimeout)
}

// IsTaskTimeout checks if an error is a task timeout
func IsTaskTimeout(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeTaskTimeout
}

// IsRetryable checks if an error could succeed when retried by the operator
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable
	}
	return false
}

// GetTroubleshootingHint returns user-friendly troubleshooting advice for an error
func GetTroubleshootingHint(err error) []string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return nil
	}

	switch apiErr.Type {
	case ErrTypeTimeout:
		return []string{
			"The controller did not respond in time",
			"Check that the controller is reachable from this host",
			"Large inventories can be slow, try again later",
		}

	case ErrTypeConnectionRefused:
		return []string{
			"The controller refused the connection",
			"Verify the host name and that HTTPS is enabled",
		}

	case ErrTypeDNS:
		return []string{
			"Could not resolve the controller host name",
			"Use the IP address instead of the host name",
			"Check your DNS settings",
		}

	case ErrTypeAuth:
		return []string{
			"The controller rejected the credentials",
			"Check the username and the FABRIC_PASSWORD environment variable",
			"The account needs write access to the fabric",
		}

	case ErrTypeNetwork:
		switch apiErr.NetworkSubtype {
		case NetworkErrorHostUnreachable, NetworkErrorNetworkUnreachable:
			return []string{
				"The controller is not reachable on the network",
				"Verify routing and firewall rules towards " + hostOrController(apiErr.Host),
			}
		default:
			return []string{
				"Network communication failed",
				"Check your network connection and proxy settings",
			}
		}

	case ErrTypeHTTP:
		if apiErr.StatusCode >= 500 {
			return []string{
				fmt.Sprintf("The controller returned HTTP %d", apiErr.StatusCode),
				"Check the controller health and retry",
			}
		}
		return []string{
			fmt.Sprintf("The controller rejected the request (HTTP %d)", apiErr.StatusCode),
			"The controller API generation may not match, try --generation",
		}

	case ErrTypeParse:
		return []string{
			"The controller response could not be decoded",
			"Run with --log-level debug to see the raw payloads",
		}

	case ErrTypeLookup:
		return []string{
			"A name in the input file does not exist on the controller",
			"Names are case sensitive, check spelling in the input file",
		}

	case ErrTypeInconsistentState:
		return []string{
			"The input file does not match the current fabric configuration",
			"A port can only be removed if it is configured in the fabric",
		}

	case ErrTypeTaskFailed:
		return []string{
			"The controller accepted the request but the task failed",
			"Look up task " + apiErr.TaskID + " in the controller task list",
		}

	case ErrTypeTaskTimeout:
		return []string{
			"The task may still complete on the controller",
			"Increase --task-timeout for slow controllers",
		}

	default:
		return nil
	}
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}

	switch apiErr.Type {
	case ErrTypeTimeout:
		return "Controller not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Controller refused connection"
	case ErrTypeDNS:
		return "Cannot resolve controller hostname"
	case ErrTypeAuth:
		return "Authentication failed - check credentials"
	case ErrTypeHTTP:
		return fmt.Sprintf("Controller error (HTTP %d): %s", apiErr.StatusCode, apiErr.Message)
	case ErrTypeTaskFailed:
		return fmt.Sprintf("Task %s failed: %s", apiErr.TaskID, apiErr.Message)
	default:
		return apiErr.Message
	}
}

func hostOrController(host string) string {
	if strings.TrimSpace(host) == "" {
		return "the controller"
	}
	return host
}
