package aha

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidParameter  = errors.New("gateway rejected command parameters")
	ErrInvalidResponse   = errors.New("gateway returned an invalid response")
	ErrUnknownIdentifier = errors.New("unknown identifier")
	ErrNotLoggedIn       = errors.New("session not accepted by gateway")
	ErrUnexpectedStatus  = errors.New("unexpected http status")
)

type LoginError struct {
	User string
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("login failed for user %q", e.User)
}
