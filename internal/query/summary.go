package query

import (
	"github.com/userdir/userdir/internal/model"
)

// Summary counts users by status and role.
type Summary struct {
	Total    int                  `json:"total"`
	ByStatus map[model.Status]int `json:"byStatus"`
	ByRole   map[model.Role]int   `json:"byRole"`
}

// Summarize counts users in a single pass. Every known status and role is
// present in the result, with zero when unused.
func Summarize(users []model.User) Summary {
	s := Summary{
		Total:    len(users),
		ByStatus: make(map[model.Status]int, len(model.Statuses())),
		ByRole:   make(map[model.Role]int, len(model.Roles())),
	}
	for _, st := range model.Statuses() {
		s.ByStatus[st] = 0
	}
	for _, r := range model.Roles() {
		s.ByRole[r] = 0
	}
	for _, u := range users {
		s.ByStatus[u.Status]++
		s.ByRole[u.Role]++
	}
	return s
}
