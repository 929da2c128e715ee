package query

import (
	"github.com/userdir/userdir/internal/model"
)

// Pagination defaults and lower bounds.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MinPage      = 1
	MinLimit     = 1
)

// Pagination is the metadata returned with every page.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Page is one slice of an ordered result.
type Page struct {
	Data       []model.User `json:"data"`
	Pagination Pagination   `json:"pagination"`
}

// Paginate cuts users into the requested page. Page or limit below their
// minimum fall back to the defaults; there is no upper bound on limit. A page
// past the end has no data but still reports correct totals.
func Paginate(users []model.User, page, limit int) Page {
	if page < MinPage {
		page = DefaultPage
	}
	if limit < MinLimit {
		limit = DefaultLimit
	}

	total := len(users)
	// Written without total+limit-1 so a huge limit cannot overflow.
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	if totalPages < 1 {
		totalPages = 1
	}

	data := []model.User{}
	// Guard the multiplication against absurd page numbers.
	if page <= totalPages {
		start := (page - 1) * limit
		end := min(start+limit, total)
		if start < total {
			data = append(data, users[start:end]...)
		}
	}

	return Page{
		Data: data,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}
