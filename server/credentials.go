package server

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against on a username miss so that Verify
// takes the same shape of work whether or not the username exists,
// closing off a username-enumeration timing oracle.
var dummyHash = mustHash("socker-dummy-password")

func mustHash(password string) []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return hash
}

// CredentialStore holds bcrypt digests of registered username/password
// pairs, grounded on the teacher's ServerCredentials map but hashed at
// rest rather than kept in plaintext (spec.md §3's credential store
// note). A nil *CredentialStore, or one with no users added, means the
// server accepts only NO_AUTHENTICATION.
type CredentialStore struct {
	mu    sync.RWMutex
	users map[string][]byte
}

// NewCredentialStore returns an empty store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{users: make(map[string][]byte)}
}

// AddUser hashes password with bcrypt and registers it under username,
// replacing any existing entry for that username.
func (s *CredentialStore) AddUser(username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = hash
	return nil
}

// Empty reports whether the store has no registered users, in which
// case the server must not offer USERNAME_PASSWORD at all.
func (s *CredentialStore) Empty() bool {
	if s == nil {
		return true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users) == 0
}

// Verify reports whether username/password matches a registered
// account. On a username miss it still runs a bcrypt comparison
// against dummyHash so the call takes comparable time either way.
func (s *CredentialStore) Verify(username, password []byte) bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	hash, ok := s.users[string(username)]
	s.mu.RUnlock()

	if !ok {
		bcrypt.CompareHashAndPassword(dummyHash, password)
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, password) == nil
}
