package service

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/userdir/userdir/internal/model"
	"github.com/userdir/userdir/internal/query"
)

// dateLayouts are the accepted formats for date filters, tried in order.
var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// ListParams is a parsed listing request.
type ListParams struct {
	Criteria  query.Criteria
	Sort      query.SortField // empty keeps insertion order
	Direction query.Direction
	Page      int
	Limit     int
}

// AppliedFilters echoes the listing parameters that took effect.
type AppliedFilters struct {
	Search        string        `json:"search,omitempty"`
	Role          *model.Role   `json:"role,omitempty"`
	Status        *model.Status `json:"status,omitempty"`
	CreatedAfter  *time.Time    `json:"createdAfter,omitempty"`
	CreatedBefore *time.Time    `json:"createdBefore,omitempty"`
	UpdatedAfter  *time.Time    `json:"updatedAfter,omitempty"`
	UpdatedBefore *time.Time    `json:"updatedBefore,omitempty"`
	Sort          string        `json:"sort,omitempty"`
	Direction     string        `json:"direction"`
}

// ParseID parses a path id. Only positive integers are accepted.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 1 {
		return 0, &BadRequestError{Param: "id", Message: "Invalid user ID"}
	}
	return id, nil
}

// ParseListParams reads listing parameters from a query string. Empty values
// count as absent. Unparseable page and limit fall back to their defaults;
// an unknown sort, direction, role or status, or an unparseable date, is a
// *BadRequestError.
func ParseListParams(values url.Values) (ListParams, error) {
	p := ListParams{
		Direction: query.Asc,
		Page:      parseInt(values.Get("page"), query.DefaultPage),
		Limit:     parseInt(values.Get("limit"), query.DefaultLimit),
	}

	p.Criteria.Search = strings.TrimSpace(values.Get("search"))

	if v := strings.TrimSpace(values.Get("role")); v != "" {
		r, ok := model.ParseRole(v)
		if !ok {
			return ListParams{}, &BadRequestError{Param: "role", Message: "role must be one of: member, admin"}
		}
		p.Criteria.Role = &r
	}

	if v := strings.TrimSpace(values.Get("status")); v != "" {
		st, ok := model.ParseStatus(v)
		if !ok {
			return ListParams{}, &BadRequestError{Param: "status", Message: "status must be one of: active, inactive"}
		}
		p.Criteria.Status = &st
	}

	dates := []struct {
		param string
		dst   **time.Time
	}{
		{"createdAfter", &p.Criteria.CreatedAfter},
		{"createdBefore", &p.Criteria.CreatedBefore},
		{"updatedAfter", &p.Criteria.UpdatedAfter},
		{"updatedBefore", &p.Criteria.UpdatedBefore},
	}
	for _, d := range dates {
		v := strings.TrimSpace(values.Get(d.param))
		if v == "" {
			continue
		}
		t, ok := parseDate(v)
		if !ok {
			return ListParams{}, &BadRequestError{Param: d.param, Message: "Invalid date for " + d.param}
		}
		*d.dst = &t
	}

	if v := values.Get("sort"); strings.TrimSpace(v) != "" {
		f, err := query.ParseSortField(v)
		if err != nil {
			return ListParams{}, &BadRequestError{Param: "sort", Message: err.Error()}
		}
		p.Sort = f
	}

	if v := values.Get("direction"); strings.TrimSpace(v) != "" {
		d, err := query.ParseDirection(v)
		if err != nil {
			return ListParams{}, &BadRequestError{Param: "direction", Message: err.Error()}
		}
		p.Direction = d
	}

	return p, nil
}

// Applied returns the echo of p included in listing responses.
func (p ListParams) Applied() AppliedFilters {
	c := p.Criteria
	return AppliedFilters{
		Search:        c.Search,
		Role:          c.Role,
		Status:        c.Status,
		CreatedAfter:  c.CreatedAfter,
		CreatedBefore: c.CreatedBefore,
		UpdatedAfter:  c.UpdatedAfter,
		UpdatedBefore: c.UpdatedBefore,
		Sort:          string(p.Sort),
		Direction:     string(p.Direction),
	}
}

func parseInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return n
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
