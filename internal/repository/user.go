package repository

import (
	"strings"

	"github.com/userdir/userdir/internal/model"
)

// List returns a snapshot of all users in insertion order.
func (s *UserStore) List() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.User, len(s.users))
	for i, u := range s.users {
		out[i] = u.Clone()
	}
	return out
}

// FindByID returns the user with the given id.
func (s *UserStore) FindByID(id int64) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.User{}, false
	}
	return s.users[i].Clone(), true
}

// ExistsByEmail reports whether a user other than excludeID already uses
// email. An excludeID of 0 excludes nobody.
func (s *UserStore) ExistsByEmail(email string, excludeID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.existsByEmail(email, excludeID)
}

// Create appends a new user. It does not check email uniqueness; callers
// that need unique emails use CreateUnique.
func (s *UserStore) Create(in model.UserInput) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.create(in)
}

// CreateUnique creates a user unless another user already has the same
// normalized email. The check and the insert happen under one lock.
func (s *UserStore) CreateUnique(in model.UserInput) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.existsByEmail(in.Email, 0) {
		return model.User{}, ErrDuplicateEmail
	}
	return s.create(in), nil
}

// Update replaces the mutable fields of the user with the given id.
// Empty role or status keep the current value.
func (s *UserStore) Update(id int64, in model.UserInput) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.User{}, false
	}
	return s.update(i, in), true
}

// UpdateUnique updates a user unless the new email collides with another
// user. Lookup, uniqueness check and write happen under one lock.
func (s *UserStore) UpdateUnique(id int64, in model.UserInput) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.User{}, ErrNotFound
	}
	if s.existsByEmail(in.Email, id) {
		return model.User{}, ErrDuplicateEmail
	}
	return s.update(i, in), nil
}

// Remove deletes the user with the given id. Its id is never reused.
func (s *UserStore) Remove(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.users = append(s.users[:i], s.users[i+1:]...)
	return true
}

func (s *UserStore) indexOf(id int64) int {
	for i := range s.users {
		if s.users[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *UserStore) existsByEmail(email string, excludeID int64) bool {
	normalized := model.NormalizeEmail(email)
	for _, u := range s.users {
		if excludeID != 0 && u.ID == excludeID {
			continue
		}
		if model.NormalizeEmail(u.Email) == normalized {
			return true
		}
	}
	return false
}

func (s *UserStore) create(in model.UserInput) model.User {
	u := model.User{
		ID:        s.nextID,
		Name:      strings.TrimSpace(in.Name),
		Email:     model.NormalizeEmail(in.Email),
		Role:      normalizeRole(in.Role, model.DefaultRole),
		Status:    normalizeStatus(in.Status, model.DefaultStatus),
		CreatedAt: s.timestamp(),
	}
	s.nextID++
	s.users = append(s.users, u)
	return u.Clone()
}

func (s *UserStore) update(i int, in model.UserInput) model.User {
	existing := s.users[i]
	ts := s.timestamp()

	updated := model.User{
		ID:        existing.ID,
		Name:      strings.TrimSpace(in.Name),
		Email:     model.NormalizeEmail(in.Email),
		Role:      normalizeRole(in.Role, existing.Role),
		Status:    normalizeStatus(in.Status, existing.Status),
		CreatedAt: existing.CreatedAt,
		UpdatedAt: &ts,
	}
	s.users[i] = updated
	return updated.Clone()
}

func normalizeRole(value string, fallback model.Role) model.Role {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	r, _ := model.ParseRole(value)
	return r
}

func normalizeStatus(value string, fallback model.Status) model.Status {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	st, _ := model.ParseStatus(value)
	return st
}
