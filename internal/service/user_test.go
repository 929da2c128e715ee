package service

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userdir/userdir/internal/metrics"
	"github.com/userdir/userdir/internal/model"
	"github.com/userdir/userdir/internal/query"
	"github.com/userdir/userdir/internal/repository"
	"github.com/userdir/userdir/internal/validation"
)

func ptr(s string) *string { return &s }

func newTestService(t *testing.T) (*UserService, *metrics.InMemoryRecorder) {
	t.Helper()
	rec := metrics.NewInMemory()
	return NewUserService(repository.NewUserStore(), rec, nil), rec
}

func rawUser(name, email, role, status string) validation.RawUser {
	raw := validation.RawUser{Name: ptr(name), Email: ptr(email)}
	if role != "" {
		raw.Role = ptr(role)
	}
	if status != "" {
		raw.Status = ptr(status)
	}
	return raw
}

func seedAliceAndBen(t *testing.T, svc *UserService) (model.User, model.User) {
	t.Helper()
	ctx := context.Background()
	a, err := svc.Create(ctx, rawUser("Alice Carter", "alice@acme.io", "admin", "active"))
	require.NoError(t, err)
	b, err := svc.Create(ctx, rawUser("Ben Wright", "ben@acme.io", "member", "inactive"))
	require.NoError(t, err)
	return a, b
}

func TestUserService_Create(t *testing.T) {
	t.Parallel()

	svc, rec := newTestService(t)
	u, err := svc.Create(context.Background(), rawUser(" <i>Alice</i> Carter ", "Alice@Acme.io", "ADMIN", ""))
	require.NoError(t, err)

	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "iAlice/i Carter", u.Name)
	assert.Equal(t, "alice@acme.io", u.Email)
	assert.Equal(t, model.RoleAdmin, u.Role)
	assert.Equal(t, model.StatusActive, u.Status)

	snap := rec.Snapshot()
	assert.Equal(t, uint64(1), snap.UsersCreated)
	assert.Equal(t, int64(1), snap.UsersTotal)
}

func TestUserService_CreateValidationError(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), rawUser("A", "alice@acme.io", "", ""))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
	assert.Equal(t, "Name must be at least 2 characters", verr.Message)
	assert.Empty(t, svc.Export(context.Background()))
}

func TestUserService_CreateDuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, rawUser("Alice Carter", "alice@acme.io", "", ""))
	require.NoError(t, err)

	_, err = svc.Create(ctx, rawUser("Alice Again", "ALICE@acme.io", "", ""))
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.Len(t, svc.Export(ctx), 1)
}

func TestUserService_Update(t *testing.T) {
	t.Parallel()

	svc, rec := newTestService(t)
	ctx := context.Background()
	a, b := seedAliceAndBen(t, svc)

	updated, err := svc.Update(ctx, b.ID, rawUser("Ben W.", "ben.w@acme.io", "", ""))
	require.NoError(t, err)
	assert.Equal(t, b.ID, updated.ID)
	assert.Equal(t, model.StatusInactive, updated.Status, "status falls back to the existing value")
	require.NotNil(t, updated.UpdatedAt)

	_, err = svc.Update(ctx, b.ID, rawUser("Ben W.", a.Email, "", ""))
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = svc.Update(ctx, 999, rawUser("Ghost", "ghost@acme.io", "", ""))
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Len(t, svc.Export(ctx), 2, "update of a missing id creates nothing")

	assert.Equal(t, uint64(1), rec.Snapshot().UsersUpdated)
}

func TestUserService_GetAndDelete(t *testing.T) {
	t.Parallel()

	svc, rec := newTestService(t)
	ctx := context.Background()
	a, _ := seedAliceAndBen(t, svc)

	got, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	require.NoError(t, svc.Delete(ctx, a.ID))
	_, err = svc.Get(ctx, a.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, a.ID), ErrUserNotFound)

	snap := rec.Snapshot()
	assert.Equal(t, uint64(1), snap.UsersDeleted)
	assert.Equal(t, int64(1), snap.UsersTotal)
}

func TestUserService_ListScenario(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	seedAliceAndBen(t, svc)

	list := func(q string) ListResult {
		values, err := url.ParseQuery(q)
		require.NoError(t, err)
		p, err := ParseListParams(values)
		require.NoError(t, err)
		return svc.List(ctx, p)
	}

	res := list("limit=1")
	assert.Len(t, res.Data, 1)
	assert.Equal(t, 2, res.Pagination.Total)
	assert.Equal(t, 2, res.Pagination.TotalPages)

	res = list("search=ben&status=inactive")
	require.Len(t, res.Data, 1)
	assert.Equal(t, "Ben Wright", res.Data[0].Name)
	require.NotNil(t, res.Filters.Status)
	assert.Equal(t, model.StatusInactive, *res.Filters.Status)

	res = list("sort=name&direction=desc")
	require.Len(t, res.Data, 2)
	assert.Equal(t, "Ben Wright", res.Data[0].Name)
	assert.Equal(t, "desc", res.Filters.Direction)

	res = list("page=5")
	assert.Empty(t, res.Data)
	assert.NotNil(t, res.Data)
	assert.Equal(t, 2, res.Pagination.Total)
}

func TestUserService_Summary(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	seedAliceAndBen(t, svc)

	sum := svc.Summary(context.Background())
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 1, sum.ByStatus[model.StatusActive])
	assert.Equal(t, 1, sum.ByStatus[model.StatusInactive])
	assert.Equal(t, 1, sum.ByRole[model.RoleAdmin])
	assert.Equal(t, 1, sum.ByRole[model.RoleMember])
}

func TestParseID(t *testing.T) {
	t.Parallel()

	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"abc", "0", "-3", "1.5", ""} {
		_, err := ParseID(raw)
		var bad *BadRequestError
		assert.ErrorAs(t, err, &bad, raw)
	}
}

func TestParseListParams(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		p, err := ParseListParams(url.Values{})
		require.NoError(t, err)
		assert.Equal(t, query.DefaultPage, p.Page)
		assert.Equal(t, query.DefaultLimit, p.Limit)
		assert.Equal(t, query.Asc, p.Direction)
		assert.Empty(t, p.Sort)
		assert.True(t, p.Criteria.IsEmpty())
	})

	t.Run("non numeric paging falls back", func(t *testing.T) {
		p, err := ParseListParams(url.Values{"page": {"two"}, "limit": {"x"}})
		require.NoError(t, err)
		assert.Equal(t, query.DefaultPage, p.Page)
		assert.Equal(t, query.DefaultLimit, p.Limit)
	})

	t.Run("dates", func(t *testing.T) {
		p, err := ParseListParams(url.Values{
			"createdAfter":  {"2024-01-01"},
			"updatedBefore": {"2024-06-01T12:00:00Z"},
		})
		require.NoError(t, err)
		require.NotNil(t, p.Criteria.CreatedAfter)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *p.Criteria.CreatedAfter)
		require.NotNil(t, p.Criteria.UpdatedBefore)
		assert.Equal(t, 12, p.Criteria.UpdatedBefore.Hour())
	})

	bad := []struct {
		name   string
		values url.Values
		param  string
	}{
		{"sort", url.Values{"sort": {"email"}}, "sort"},
		{"direction", url.Values{"direction": {"up"}}, "direction"},
		{"role", url.Values{"role": {"owner"}}, "role"},
		{"status", url.Values{"status": {"banned"}}, "status"},
		{"date", url.Values{"createdBefore": {"yesterday"}}, "createdBefore"},
	}
	for _, tt := range bad {
		t.Run("invalid "+tt.name, func(t *testing.T) {
			_, err := ParseListParams(tt.values)
			var bre *BadRequestError
			require.ErrorAs(t, err, &bre)
			assert.Equal(t, tt.param, bre.Param)
		})
	}
}
