// Package model defines domain entities for the application.
package model

import (
	"strings"
	"time"
)

// Role is the access role of a user.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// DefaultRole is applied when a create request omits the role.
const DefaultRole = RoleMember

// Roles returns every valid role in display order.
func Roles() []Role {
	return []Role{RoleMember, RoleAdmin}
}

// ParseRole normalizes s and reports whether it names a valid role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.IsValid()
}

// IsValid checks if the role is one of the known values.
func (r Role) IsValid() bool {
	return r == RoleMember || r == RoleAdmin
}

// Status is the lifecycle status of a user.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// DefaultStatus is applied when a create request omits the status.
const DefaultStatus = StatusActive

// Statuses returns every valid status in display order.
func Statuses() []Status {
	return []Status{StatusActive, StatusInactive}
}

// ParseStatus normalizes s and reports whether it names a valid status.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	return st, st.IsValid()
}

// IsValid checks if the status is one of the known values.
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

// User is the single resource managed by the service.
type User struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Clone returns a copy that shares no pointers with u.
func (u User) Clone() User {
	if u.UpdatedAt != nil {
		t := *u.UpdatedAt
		u.UpdatedAt = &t
	}
	return u
}

// UserInput carries sanitized and validated fields for create and update.
// Empty Role or Status means the caller did not supply one.
type UserInput struct {
	Name   string
	Email  string
	Role   string
	Status string
}

// NormalizeEmail is the single normalization rule used for storing,
// looking up and comparing email addresses.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
