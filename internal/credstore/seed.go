package credstore

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var ErrInvalidSeedAccount = errors.New("invalid seed account")

// SeededStore is a Store that always holds a fixed set of accounts. The
// accounts are registered when the store is created and restored by Clear,
// so their names can never be taken through Register.
type SeededStore struct {
	*Store
	seed map[string]string
}

// NewSeeded registers accounts (username to password) in store. Every account
// must pass the usual registration rules.
func NewSeeded(store *Store, accounts map[string]string) (*SeededStore, error) {
	seed := make(map[string]string, len(accounts))
	for _, username := range slices.Sorted(maps.Keys(accounts)) {
		if ok, msg := store.Register(username, accounts[username]); !ok {
			return nil, fmt.Errorf("%w %q: %s", ErrInvalidSeedAccount, username, msg)
		}

		store.mu.RLock()
		seed[username] = store.users[username]
		store.mu.RUnlock()
	}

	return &SeededStore{Store: store, seed: seed}, nil
}

// Clear removes every user except the seed accounts.
func (s *SeededStore) Clear() {
	s.reset(s.seed)
}
