package credstore

import (
	"sync"
	"unicode/utf8"
)

const (
	minUsernameLength = 3
	minPasswordLength = 6
)

const (
	EmptyCredentialsMessage    = "username and password must not be empty"
	UsernameTooShortMessage    = "username must be at least 3 characters"
	PasswordTooShortMessage    = "password must be at least 6 characters"
	UserAlreadyExistsMessage   = "a user with this name already exists"
	UserRegisteredMessage      = "user successfully registered"
	PasswordStoreFailedMessage = "failed to store password"
	UserNotFoundMessage        = "user not found"
	IncorrectPasswordMessage   = "incorrect password"
	AuthenticatedMessage       = "authentication successful"
)

// Store keeps registered credentials in memory, keyed by username.
// It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	users  map[string]string
	hasher PasswordHasher
}

// Option configures a Store.
type Option func(*Store)

// WithHasher sets the hasher applied to passwords before they are stored.
func WithHasher(h PasswordHasher) Option {
	return func(s *Store) {
		if h != nil {
			s.hasher = h
		}
	}
}

// Register validates the credentials and stores them if the username is free.
// Validation stops at the first failing rule and its message is returned.
// Lengths are counted in characters, not bytes.
func (s *Store) Register(username, password string) (bool, string) {
	if username == "" || password == "" {
		return false, EmptyCredentialsMessage
	}

	if utf8.RuneCountInString(username) < minUsernameLength {
		return false, UsernameTooShortMessage
	}

	if utf8.RuneCountInString(password) < minPasswordLength {
		return false, PasswordTooShortMessage
	}

	// Hashing can be slow, so it runs before the lock is taken.
	stored, hashErr := s.hasher.Hash(password)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; ok {
		return false, UserAlreadyExistsMessage
	}

	if hashErr != nil {
		return false, PasswordStoreFailedMessage
	}

	s.users[username] = stored
	return true, UserRegisteredMessage
}

// Authenticate checks the password against the one registered for username.
func (s *Store) Authenticate(username, password string) (bool, string) {
	if username == "" || password == "" {
		return false, EmptyCredentialsMessage
	}

	s.mu.RLock()
	stored, ok := s.users[username]
	s.mu.RUnlock()

	if !ok {
		return false, UserNotFoundMessage
	}

	if !s.hasher.Compare(stored, password) {
		return false, IncorrectPasswordMessage
	}

	return true, AuthenticatedMessage
}

// Exists reports whether username is registered.
func (s *Store) Exists(username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.users[username]
	return ok
}

// Count returns the number of registered users.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.users)
}

// Clear removes every registered user.
func (s *Store) Clear() {
	s.reset(nil)
}

// reset replaces the registry with the given stored entries in one step.
func (s *Store) reset(entries map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[string]string, len(entries))
	for u, stored := range entries {
		s.users[u] = stored
	}
}

// New returns an empty Store. Passwords are kept in plaintext unless a
// different hasher is supplied with WithHasher.
func New(opts ...Option) *Store {
	s := &Store{
		users:  make(map[string]string),
		hasher: PlaintextHasher{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}
