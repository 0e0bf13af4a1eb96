package authn

import (
	"log/slog"
)

// CredentialChecker validates a username and password pair.
// *credstore.Store satisfies it.
type CredentialChecker interface {
	Authenticate(username, password string) (bool, string)
}

type storeAuthenticator struct {
	store  CredentialChecker
	logger *slog.Logger
}

// Authenticate checks the credentials against the store. A rejected check is
// returned as an *AuthenticationError holding the store's message.
func (a *storeAuthenticator) Authenticate(username, password string) (*User, error) {
	ok, msg := a.store.Authenticate(username, password)
	if !ok {
		a.logger.Warn("credential check rejected", "username", username, "reason", msg)
		return nil, &AuthenticationError{Username: username, Reason: msg}
	}

	a.logger.Info("credential check passed", "username", username)
	return &User{Username: username}, nil
}

// NewStoreAuthenticator returns an Authenticator backed by a credential store.
func NewStoreAuthenticator(store CredentialChecker, logger *slog.Logger) Authenticator {
	return &storeAuthenticator{store: store, logger: logger}
}
