package shared

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Remote directory errors
	ErrNetworkUnreachable = fmt.Errorf("directory service unreachable")
	ErrHTTP               = fmt.Errorf("directory request failed")
	ErrProtocol           = fmt.Errorf("unexpected directory response")
	ErrNotFound           = fmt.Errorf("persona not found")

	// Local gating errors
	ErrValidation   = fmt.Errorf("invalid persona")
	ErrAlreadyVoted = fmt.Errorf("already voted for this persona")
	ErrPending      = fmt.Errorf("operation already in progress")
	ErrNotConfirmed = fmt.Errorf("operation not confirmed")
	ErrClosed       = fmt.Errorf("directory closed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// HTTPError is returned when the directory answers with a non-2xx status or with a
// failure envelope (success: false).
type HTTPError struct {
	Status  int
	Message string
	Body    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%v: status %d: %s", ErrHTTP, e.Status, e.Message)
	}
	return fmt.Sprintf("%v: status %d", ErrHTTP, e.Status)
}

// Is matches [ErrHTTP] for every status and [ErrNotFound] for 404.
func (e *HTTPError) Is(target error) bool {
	switch target {
	case ErrHTTP:
		return true
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// ValidationError collects field-level problems found before any remote call.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%v: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Describe renders err as a short message suitable for a notice shown to the user.
func Describe(err error) string {
	var httpErr *HTTPError
	var validationErr *ValidationError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.Is(err, ErrAlreadyVoted):
		return "You already voted for this persona."
	case errors.Is(err, ErrPending):
		return "Still working on the previous request, please wait."
	case errors.Is(err, ErrNetworkUnreachable):
		return "Could not reach the directory service. Check that it is running and try again."
	case errors.As(err, &httpErr):
		if httpErr.Status == http.StatusNotFound {
			return "That persona no longer exists."
		}
		if httpErr.Message != "" {
			return fmt.Sprintf("The directory rejected the request (%d): %s", httpErr.Status, httpErr.Message)
		}
		return fmt.Sprintf("The directory rejected the request (%d).", httpErr.Status)
	case errors.Is(err, ErrProtocol):
		return "The directory sent a response that could not be understood."
	default:
		return err.Error()
	}
}
