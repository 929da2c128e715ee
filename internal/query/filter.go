// Package query implements the read pipeline used by the listing endpoint:
// filter, then sort, then paginate. Every function is pure and returns a new
// slice; inputs are never modified.
package query

import (
	"strings"
	"time"

	"github.com/userdir/userdir/internal/model"
)

// Criteria selects users. Zero-valued fields are not applied.
type Criteria struct {
	Search        string
	Role          *model.Role
	Status        *model.Status
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	UpdatedAfter  *time.Time
	UpdatedBefore *time.Time
}

// IsEmpty reports whether no criterion is set.
func (c Criteria) IsEmpty() bool {
	return strings.TrimSpace(c.Search) == "" &&
		c.Role == nil && c.Status == nil &&
		c.CreatedAfter == nil && c.CreatedBefore == nil &&
		c.UpdatedAfter == nil && c.UpdatedBefore == nil
}

// Filter returns the users that satisfy every criterion, in input order.
//
// Date bounds are inclusive. A user that has never been updated is not
// compared against UpdatedAfter or UpdatedBefore and passes both.
func Filter(users []model.User, c Criteria) []model.User {
	search := strings.ToLower(strings.TrimSpace(c.Search))

	out := make([]model.User, 0, len(users))
	for _, u := range users {
		if c.matches(u, search) {
			out = append(out, u)
		}
	}
	return out
}

func (c Criteria) matches(u model.User, search string) bool {
	if search != "" {
		target := strings.ToLower(u.Name + " " + u.Email)
		if !strings.Contains(target, search) {
			return false
		}
	}
	if c.Role != nil && u.Role != *c.Role {
		return false
	}
	if c.Status != nil && u.Status != *c.Status {
		return false
	}
	if !within(u.CreatedAt, c.CreatedAfter, c.CreatedBefore) {
		return false
	}
	if u.UpdatedAt != nil && !within(*u.UpdatedAt, c.UpdatedAfter, c.UpdatedBefore) {
		return false
	}
	return true
}

func within(t time.Time, after, before *time.Time) bool {
	if after != nil && t.Before(*after) {
		return false
	}
	if before != nil && t.After(*before) {
		return false
	}
	return true
}
