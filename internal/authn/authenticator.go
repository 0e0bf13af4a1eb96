package authn

import (
	"errors"
	"fmt"
)

// ErrAuthenticationFailed is matched by every AuthenticationError.
var ErrAuthenticationFailed = errors.New("authentication failed")

type User struct {
	Username string `json:"username"`
}

type Authenticator interface {
	Authenticate(username, password string) (*User, error)
}

// AuthenticationError carries the reason a credential check was rejected.
type AuthenticationError struct {
	Username string
	Reason   string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAuthenticationFailed, e.Reason)
}

func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthenticationFailed
}
