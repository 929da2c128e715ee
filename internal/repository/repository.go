// Package repository provides the in-memory user store.
//
// The store owns the canonical list of users and the id counter. It never
// classifies failures as domain errors: lookups report absence with a bool,
// and the atomic check-and-mutate operations return the sentinel errors
// below for the service layer to translate.
package repository

import (
	"errors"
	"sync"
	"time"

	"github.com/userdir/userdir/internal/model"
)

// Common errors for user repository operations.
var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// firstID is the id handed out by an empty store.
const firstID int64 = 1

// UserStore holds users in insertion order. It is safe for concurrent use.
type UserStore struct {
	mu     sync.RWMutex
	users  []model.User
	nextID int64
	now    func() time.Time
}

// Option configures a UserStore.
type Option func(*UserStore)

// WithClock overrides the time source used for createdAt and updatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *UserStore) {
		s.now = now
	}
}

// NewUserStore creates an empty UserStore.
func NewUserStore(opts ...Option) *UserStore {
	s := &UserStore{
		users:  make([]model.User, 0),
		nextID: firstID,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reset removes every user and rewinds the id counter.
func (s *UserStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make([]model.User, 0)
	s.nextID = firstID
}

// Len returns the number of live users.
func (s *UserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func (s *UserStore) timestamp() time.Time {
	return s.now().UTC()
}
