// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/userdir/userdir/internal/metrics"
	"github.com/userdir/userdir/internal/model"
	"github.com/userdir/userdir/internal/query"
	"github.com/userdir/userdir/internal/repository"
	"github.com/userdir/userdir/internal/validation"
)

// UserRepository is the storage the service needs.
type UserRepository interface {
	List() []model.User
	FindByID(id int64) (model.User, bool)
	CreateUnique(in model.UserInput) (model.User, error)
	UpdateUnique(id int64, in model.UserInput) (model.User, error)
	Remove(id int64) bool
	Len() int
}

// UserService handles user business logic: every write is sanitized,
// validated and then applied atomically by the repository.
type UserService struct {
	repo      UserRepository
	validator *validation.Validator
	metrics   metrics.Recorder
	logger    *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(repo UserRepository, recorder metrics.Recorder, logger *slog.Logger) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	recorder.SetUsersTotal(repo.Len())
	return &UserService{
		repo:      repo,
		validator: validation.New(),
		metrics:   recorder,
		logger:    logger,
	}
}

// ListResult is one page of users plus the filters that produced it.
type ListResult struct {
	query.Page
	Filters AppliedFilters `json:"filters"`
}

// List filters, sorts and paginates the current users.
func (s *UserService) List(ctx context.Context, p ListParams) ListResult {
	users := query.Filter(s.repo.List(), p.Criteria)
	if p.Sort != "" {
		users = query.Sort(users, p.Sort, p.Direction)
	}

	return ListResult{
		Page:    query.Paginate(users, p.Page, p.Limit),
		Filters: p.Applied(),
	}
}

// Get retrieves a user by id.
func (s *UserService) Get(ctx context.Context, id int64) (model.User, error) {
	u, ok := s.repo.FindByID(id)
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return u, nil
}

// Create validates raw and stores a new user.
func (s *UserService) Create(ctx context.Context, raw validation.RawUser) (model.User, error) {
	in, err := s.prepare(raw)
	if err != nil {
		return model.User{}, err
	}

	u, err := s.repo.CreateUnique(in)
	if err != nil {
		return model.User{}, s.translate(err)
	}

	s.metrics.IncUserCreated()
	s.metrics.SetUsersTotal(s.repo.Len())
	return u, nil
}

// Update validates raw and replaces the user's fields.
func (s *UserService) Update(ctx context.Context, id int64, raw validation.RawUser) (model.User, error) {
	in, err := s.prepare(raw)
	if err != nil {
		return model.User{}, err
	}

	u, err := s.repo.UpdateUnique(id, in)
	if err != nil {
		return model.User{}, s.translate(err)
	}

	s.metrics.IncUserUpdated()
	return u, nil
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if !s.repo.Remove(id) {
		return ErrUserNotFound
	}

	s.metrics.IncUserDeleted()
	s.metrics.SetUsersTotal(s.repo.Len())
	return nil
}

// Summary counts users by status and role.
func (s *UserService) Summary(ctx context.Context) query.Summary {
	return query.Summarize(s.repo.List())
}

// Export returns every user in insertion order.
func (s *UserService) Export(ctx context.Context) []model.User {
	return s.repo.List()
}

func (s *UserService) prepare(raw validation.RawUser) (model.UserInput, error) {
	clean := validation.Sanitize(raw)
	if err := s.validator.Validate(clean); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			return model.UserInput{}, newValidationError(verr)
		}
		return model.UserInput{}, err
	}
	return clean.Input(), nil
}

func (s *UserService) translate(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrDuplicateEmail):
		return ErrEmailExists
	default:
		return fmt.Errorf("user repository: %w", err)
	}
}
