package cmd

import (
	"errors"

	"github.com/mktautomations/opsc/internal/domain"
)

var errNotLoggedIn = errors.New("not logged in: run `opsc login` first")

// userError carries a one-line message for the terminal while keeping the
// cause inspectable.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }

func (e *userError) Unwrap() error { return e.err }

// describe maps engine and gateway failures to the console's wording.
func describe(label string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotAuthenticated):
		return &userError{msg: errNotLoggedIn.Error(), err: err}
	case errors.Is(err, domain.ErrSessionExpired):
		return &userError{msg: domain.ErrSessionExpired.Error(), err: err}
	}

	var rejected *domain.AuthRejectedError
	if errors.As(err, &rejected) {
		return &userError{msg: domain.HumanError("login", rejected.Status), err: err}
	}

	if errors.Is(err, domain.ErrUnreachable) || domain.HTTPStatus(err) != 0 {
		return &userError{msg: domain.Describe(label, err), err: err}
	}
	return err
}
