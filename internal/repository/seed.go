package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/userdir/userdir/internal/model"
)

// ErrSeedNotArray is returned when the seed document is valid JSON but not an array.
var ErrSeedNotArray = errors.New("seed data is not a JSON array")

// SeedUser is a user-shaped entry of the optional seed file.
// Every field is optional; missing ids and timestamps are filled in.
type SeedUser struct {
	ID        int64      `json:"id,omitempty"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role,omitempty"`
	Status    string     `json:"status,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// SeedResult reports how many seed entries were accepted.
type SeedResult struct {
	Loaded  int
	Skipped int
}

// LoadSeedFile reads seed entries from path. A missing file, or an empty
// path, yields no entries and no error.
func LoadSeedFile(path string) ([]SeedUser, error) {
	if path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	return ParseSeed(raw)
}

// ParseSeed decodes a JSON array of seed entries.
func ParseSeed(raw []byte) ([]SeedUser, error) {
	var probe json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	if trimmed := strings.TrimSpace(string(probe)); !strings.HasPrefix(trimmed, "[") {
		return nil, ErrSeedNotArray
	}

	var entries []SeedUser
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return entries, nil
}

// Seed adds entries to the store. Entries keep a positive, unused id;
// others are numbered after the highest id seen. Entries without a name or
// email, or whose id or email is already taken, are skipped. The counter
// always ends one past the highest id in the store.
func (s *UserStore) Seed(entries []SeedUser) SeedResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res SeedResult

	for _, e := range entries {
		if e.ID >= s.nextID {
			s.nextID = e.ID + 1
		}
	}

	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		email := model.NormalizeEmail(e.Email)
		role := normalizeRole(e.Role, model.DefaultRole)
		status := normalizeStatus(e.Status, model.DefaultStatus)
		if name == "" || !strings.Contains(email, "@") || !role.IsValid() || !status.IsValid() ||
			s.existsByEmail(email, 0) {
			res.Skipped++
			continue
		}

		id := e.ID
		if id <= 0 {
			id = s.nextID
			s.nextID++
		} else if s.indexOf(id) >= 0 {
			res.Skipped++
			continue
		}

		createdAt := s.timestamp()
		if e.CreatedAt != nil {
			createdAt = e.CreatedAt.UTC()
		}

		u := model.User{
			ID:        id,
			Name:      name,
			Email:     email,
			Role:      role,
			Status:    status,
			CreatedAt: createdAt,
		}
		if e.UpdatedAt != nil {
			ts := e.UpdatedAt.UTC()
			u.UpdatedAt = &ts
		}
		s.users = append(s.users, u)
		res.Loaded++
	}

	return res
}
