package stateset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired      = errors.New("config is required")
	ErrAPIEndpointRequired = errors.New("API endpoint is required")
	ErrAuthRequired        = errors.New("authentication credentials are required")
	ErrNoMoreItems         = errors.New("no more items")
	ErrUnknownResource     = errors.New("unknown resource")
	ErrBatchSizeInvalid    = errors.New("batch size must be positive")
)

// ErrorKind categorizes client errors into the failure classes callers
// branch on. Every error returned by the client carries exactly one kind.
type ErrorKind string

const (
	// ErrorKindConnection covers network-level failures: DNS, dial and
	// TLS errors, connection resets.
	ErrorKindConnection ErrorKind = "connection_error"

	// ErrorKindTimeout covers deadline exceeded and request timeouts,
	// including HTTP 408.
	ErrorKindTimeout ErrorKind = "timeout_error"

	// ErrorKindRateLimit covers HTTP 429 responses.
	ErrorKindRateLimit ErrorKind = "rate_limit_error"

	// ErrorKindAuthentication covers HTTP 401 and 403 responses.
	ErrorKindAuthentication ErrorKind = "authentication_error"

	// ErrorKindValidation covers HTTP 400, 409, 422 and any other
	// client-side rejection of the request payload.
	ErrorKindValidation ErrorKind = "validation_error"

	// ErrorKindNotFound covers HTTP 404 responses.
	ErrorKindNotFound ErrorKind = "not_found_error"

	// ErrorKindServer covers HTTP 5xx responses.
	ErrorKindServer ErrorKind = "server_error"

	// ErrorKindCancelled covers context cancellation initiated by the
	// caller. Cancelled requests are never retried.
	ErrorKindCancelled ErrorKind = "cancelled_error"
)

// Error is the error type returned by every client operation. It carries
// the failure class, the server-provided detail when one exists, and the
// retry bookkeeping accumulated before the error was surfaced.
type Error struct {
	Kind       ErrorKind         `json:"kind"`
	Message    string            `json:"message"`
	Code       string            `json:"code,omitempty"`
	Detail     string            `json:"detail,omitempty"`
	StatusCode int               `json:"status_code,omitempty"`
	RetryAfter time.Duration     `json:"retry_after,omitempty"`
	Attempts   int               `json:"attempts,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
	Err        error             `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(string(e.Kind))
	sb.WriteString(": ")
	sb.WriteString(e.Message)

	if e.StatusCode > 0 {
		sb.WriteString(fmt.Sprintf(" (status %d)", e.StatusCode))
	}

	if e.Code != "" {
		sb.WriteString(fmt.Sprintf(" [%s]", e.Code))
	}

	if e.Attempts > 1 {
		sb.WriteString(fmt.Sprintf(" after %d attempts", e.Attempts))
	}

	return sb.String()
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure class is transient.
func (e *Error) Retryable() bool {
	return Classify(e.StatusCode, e.Err).Retryable
}

// Classification is the verdict of the error classifier: the failure
// class and whether a retry may help.
type Classification struct {
	Kind      ErrorKind
	Retryable bool
}

// Classify maps a status code and/or transport error to a failure class.
// It is total: every input maps to exactly one classification.
//
// When err is non-nil the transport-level classification wins; otherwise
// the status code decides. Unknown 4xx codes are treated as terminal
// validation failures, unknown codes at or above 500 as retryable server
// failures.
func Classify(statusCode int, err error) Classification {
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return Classification{Kind: ErrorKindCancelled, Retryable: false}
		case isTimeout(err):
			return Classification{Kind: ErrorKindTimeout, Retryable: true}
		default:
			return Classification{Kind: ErrorKindConnection, Retryable: true}
		}
	}

	switch statusCode {
	case http.StatusRequestTimeout:
		return Classification{Kind: ErrorKindTimeout, Retryable: true}
	case http.StatusTooManyRequests:
		return Classification{Kind: ErrorKindRateLimit, Retryable: true}
	case http.StatusUnauthorized, http.StatusForbidden:
		return Classification{Kind: ErrorKindAuthentication, Retryable: false}
	case http.StatusNotFound:
		return Classification{Kind: ErrorKindNotFound, Retryable: false}
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return Classification{Kind: ErrorKindValidation, Retryable: false}
	case http.StatusTooEarly:
		return Classification{Kind: ErrorKindServer, Retryable: true}
	}

	if statusCode >= http.StatusInternalServerError {
		return Classification{Kind: ErrorKindServer, Retryable: true}
	}

	return Classification{Kind: ErrorKindValidation, Retryable: false}
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}

// apiErrorPayload is the wire shape of a Stateset error response.
type apiErrorPayload struct {
	Error struct {
		Type    string            `json:"type"`
		Message string            `json:"message"`
		Code    string            `json:"code"`
		Detail  string            `json:"detail"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
	Message string `json:"message"`
}

// NewErrorFromResponse builds an *Error from an HTTP error response.
// The body is parsed as a Stateset error payload when possible; a body
// that is not valid JSON still produces a usable error with the raw text
// as the message.
func NewErrorFromResponse(statusCode int, body []byte, retryAfter time.Duration) *Error {
	class := Classify(statusCode, nil)

	apiErr := &Error{
		Kind:       class.Kind,
		Message:    http.StatusText(statusCode),
		StatusCode: statusCode,
		RetryAfter: retryAfter,
	}

	var payload apiErrorPayload
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Error.Message != "":
			apiErr.Message = payload.Error.Message
			apiErr.Code = payload.Error.Code
			apiErr.Detail = payload.Error.Detail
			apiErr.Fields = payload.Error.Fields
		case payload.Message != "":
			apiErr.Message = payload.Message
		}
	} else if len(body) > 0 {
		apiErr.Message = strings.TrimSpace(string(body))
	}

	return apiErr
}

// NewTransportError builds an *Error from a transport-level failure.
func NewTransportError(err error) *Error {
	class := Classify(0, err)

	msg := "request failed"

	switch class.Kind {
	case ErrorKindCancelled:
		msg = "request cancelled"
	case ErrorKindTimeout:
		msg = "request timed out"
	case ErrorKindConnection:
		msg = "connection failed"
	}

	return &Error{
		Kind:    class.Kind,
		Message: msg,
		Err:     err,
	}
}

// ParseRetryAfter parses a Retry-After header value, accepting either a
// delay in seconds or an HTTP date. It returns 0 when the value is
// absent or unparseable.
func ParseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}

	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0
		}

		return time.Duration(secs) * time.Second
	}

	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}

	return 0
}

// IsNotFound reports whether err represents a 404 response.
func IsNotFound(err error) bool {
	return hasKind(err, ErrorKindNotFound)
}

// IsAuthentication reports whether err represents a 401 or 403 response.
func IsAuthentication(err error) bool {
	return hasKind(err, ErrorKindAuthentication)
}

// IsRateLimited reports whether err represents a 429 response.
func IsRateLimited(err error) bool {
	return hasKind(err, ErrorKindRateLimit)
}

// IsValidation reports whether err represents a request the server
// rejected as invalid.
func IsValidation(err error) bool {
	return hasKind(err, ErrorKindValidation)
}

// IsCancelled reports whether err was caused by context cancellation.
func IsCancelled(err error) bool {
	return hasKind(err, ErrorKindCancelled)
}

// IsRetryable reports whether err represents a transient failure.
func IsRetryable(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}

	return false
}

func hasKind(err error, kind ErrorKind) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}

	return false
}
