package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusMalformedPayload is reported when a 2xx body could not be parsed.
const StatusMalformedPayload = http.StatusBadGateway

// MinLabelLength is the shortest saved-output label the backend accepts.
const MinLabelLength = 2

var (
	ErrSecretNotFound   = errors.New("secret not found")
	ErrUnreachable      = errors.New("backend unreachable")
	ErrAuthFailure      = errors.New("authorization failure")
	ErrSessionExpired   = errors.New("session expired, log in again")
	ErrSessionReplaced  = errors.New("credential is no longer the live session")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrMissingContext   = errors.New("project and agent must both be set")
	ErrNotAssistantTurn = errors.New("only assistant turns can be promoted")
	ErrTurnOutOfRange   = errors.New("turn index out of range")
	ErrEmptyPrompt      = errors.New("prompt is empty")
	ErrEmptyLabel       = errors.New("label is required")
	ErrLabelTooShort    = fmt.Errorf("label must be at least %d characters", MinLabelLength)
)

// StatusError is a non-2xx response from the backend.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Body)
}

// Is lets errors.Is(err, ErrAuthFailure) match 401/403 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrAuthFailure && IsAuthFailure(e.Status)
}

// AuthRejectedError is a login-time rejection. It never affects an
// existing session.
type AuthRejectedError struct {
	Status int
}

func (e *AuthRejectedError) Error() string {
	return fmt.Sprintf("login rejected: status %d", e.Status)
}

func IsAuthFailure(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

// HTTPStatus extracts the backend status from err, or 0 when err is not a
// StatusError.
func HTTPStatus(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status
	}
	return 0
}

// HumanError renders a status code as the console's category hint.
func HumanError(label string, status int) string {
	switch {
	case status >= 500:
		return fmt.Sprintf("%s: server unavailable (%d)", label, status)
	case status == http.StatusNotFound:
		return fmt.Sprintf("%s: endpoint not found", label)
	case IsAuthFailure(status):
		return fmt.Sprintf("%s: insufficient permission", label)
	default:
		return fmt.Sprintf("%s: error %d", label, status)
	}
}

// UnreachableMessage is the hint used when no response arrived.
func UnreachableMessage(label string) string {
	return fmt.Sprintf("%s: could not reach the API", label)
}

// Describe turns any engine or gateway error into a user-facing line
// without leaking transport details.
func Describe(label string, err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrUnreachable) {
		return UnreachableMessage(label)
	}
	if status := HTTPStatus(err); status != 0 {
		return HumanError(label, status)
	}
	return fmt.Sprintf("%s: %v", label, err)
}
