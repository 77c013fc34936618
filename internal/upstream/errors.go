package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	dErrors "rotunda/pkg/domain-errors"
)

// Category is the normalized failure taxonomy for remote API calls.
type Category string

const (
	// CategoryTimeout indicates the provider took too long to respond.
	CategoryTimeout Category = "timeout"
	// CategoryBadData indicates the provider returned malformed data.
	CategoryBadData Category = "bad_data"
	// CategoryAuthentication indicates the API key was rejected.
	CategoryAuthentication Category = "authentication"
	// CategoryOutage indicates the provider is unavailable.
	CategoryOutage Category = "provider_outage"
	// CategoryNotFound indicates the requested resource does not exist.
	CategoryNotFound Category = "not_found"
	// CategoryRateLimited indicates the API key exhausted its quota.
	CategoryRateLimited Category = "rate_limited"
	// CategoryBadRequest indicates the provider rejected our input.
	CategoryBadRequest Category = "bad_request"
	// CategoryInternal indicates an unexpected local failure.
	CategoryInternal Category = "internal"
)

// Error wraps provider failures with normalized categorization.
type Error struct {
	Category   Category
	Provider   string
	StatusCode int
	Message    string
	Underlying error
	Retryable  bool
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("upstream %s [%s]: %s: %v", e.Provider, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("upstream %s [%s]: %s", e.Provider, e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// NewError creates a categorized upstream error.
func NewError(category Category, provider, message string, underlying error) *Error {
	retryable := category == CategoryTimeout ||
		category == CategoryOutage ||
		category == CategoryRateLimited

	return &Error{
		Category:   category,
		Provider:   provider,
		Message:    message,
		Underlying: underlying,
		Retryable:  retryable,
	}
}

// CategoryForStatus maps a non-2xx HTTP status to a Category.
func CategoryForStatus(status int) Category {
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return CategoryBadRequest
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return CategoryAuthentication
	case status == http.StatusNotFound:
		return CategoryNotFound
	case status == http.StatusTooManyRequests:
		return CategoryRateLimited
	case status >= 500:
		return CategoryOutage
	default:
		return CategoryInternal
	}
}

// categorizeTransport classifies errors from http.Client.Do.
func categorizeTransport(ctx context.Context, provider string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return NewError(CategoryTimeout, provider, "request timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return NewError(CategoryInternal, provider, "request canceled", err)
	}
	var timeout interface{ Timeout() bool }
	if errors.As(err, &timeout) && timeout.Timeout() {
		return NewError(CategoryTimeout, provider, "request timed out", err)
	}
	return NewError(CategoryOutage, provider, "request failed", err)
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Retryable
	}
	return false
}

// CategoryOf extracts the category from an error, defaulting to internal.
func CategoryOf(err error) Category {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Category
	}
	return CategoryInternal
}

// countsAgainstBreaker reports whether a failure says the provider is unhealthy.
func countsAgainstBreaker(c Category) bool {
	return c == CategoryOutage || c == CategoryTimeout
}

// ToDomain converts an upstream failure into a coded domain error for the
// HTTP boundary. Errors that are not upstream errors pass through unchanged.
func ToDomain(err error) error {
	var ue *Error
	if !errors.As(err, &ue) {
		return err
	}
	switch ue.Category {
	case CategoryTimeout:
		return dErrors.Wrap(err, dErrors.CodeTimeout, ue.Provider+" timed out")
	case CategoryNotFound:
		return dErrors.Wrap(err, dErrors.CodeNotFound, "not found")
	case CategoryBadRequest:
		return dErrors.Wrap(err, dErrors.CodeBadRequest, ue.Provider+" rejected the request")
	case CategoryAuthentication, CategoryOutage, CategoryRateLimited, CategoryBadData:
		return dErrors.Wrap(err, dErrors.CodeUnavailable, ue.Provider+" is unavailable")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "internal error")
	}
}
