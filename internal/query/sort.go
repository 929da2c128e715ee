package query

import (
	"errors"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/userdir/userdir/internal/model"
)

// SortField names a sortable user attribute.
type SortField string

const (
	SortCreatedAt SortField = "createdAt"
	SortUpdatedAt SortField = "updatedAt"
	SortName      SortField = "name"
)

// Direction is the sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortFields lists the accepted sort fields.
func SortFields() []SortField {
	return []SortField{SortCreatedAt, SortUpdatedAt, SortName}
}

// ParseSortField validates a sort field name. Matching is exact.
func ParseSortField(s string) (SortField, error) {
	f := SortField(strings.TrimSpace(s))
	if slices.Contains(SortFields(), f) {
		return f, nil
	}
	return "", errors.New("sort must be one of: createdAt, updatedAt, name")
}

// ParseDirection validates a direction; matching ignores case.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Asc, Desc:
		return d, nil
	}
	return "", errors.New("direction must be one of: asc, desc")
}

// collationTag is the locale used to order names.
var collationTag = language.English

// Sort returns users ordered by field. The sort is stable, so users with
// equal keys keep their input order. Users without the key (never updated,
// when sorting by updatedAt) come last in either direction.
func Sort(users []model.User, field SortField, dir Direction) []model.User {
	out := make([]model.User, len(users))
	copy(out, users)
	slices.SortStableFunc(out, comparator(field, dir))
	return out
}

func comparator(field SortField, dir Direction) func(a, b model.User) int {
	sign := 1
	if dir == Desc {
		sign = -1
	}

	switch field {
	case SortName:
		// Collators keep internal buffers and are not safe to share.
		col := collate.New(collationTag, collate.IgnoreCase)
		return func(a, b model.User) int {
			return sign * col.CompareString(a.Name, b.Name)
		}
	case SortUpdatedAt:
		return func(a, b model.User) int {
			switch {
			case a.UpdatedAt == nil && b.UpdatedAt == nil:
				return 0
			case a.UpdatedAt == nil:
				return 1
			case b.UpdatedAt == nil:
				return -1
			}
			return sign * a.UpdatedAt.Compare(*b.UpdatedAt)
		}
	default:
		return func(a, b model.User) int {
			return sign * a.CreatedAt.Compare(b.CreatedAt)
		}
	}
}
