package session

import (
	"errors"
	"fmt"
)

var (
	ErrMissingAccessToken = errors.New("access token must exist to fetch profile")
	ErrNoSession          = errors.New("no session")
	ErrEmptyProfile       = errors.New("provider returned no profile")
)

// ProviderError is an error the provider reported in its callback.
type ProviderError struct {
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("provider error: %s", e.Code)
	}
	return fmt.Sprintf("provider error: %s: %s", e.Code, e.Description)
}

// ProfileLookupError wraps a failed user-info request.
type ProfileLookupError struct {
	Err error
}

func (e *ProfileLookupError) Error() string {
	return fmt.Sprintf("profile lookup failed: %v", e.Err)
}

func (e *ProfileLookupError) Unwrap() error {
	return e.Err
}
