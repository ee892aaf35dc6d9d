package itemrequest

import (
	"context"
	"strings"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// UserFinder is the part of the user directory this package needs.
type UserFinder interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

type Service interface {
	Create(ctx context.Context, requesterID int64, description string) (*ItemRequest, error)
	GetByID(ctx context.Context, userID, requestID int64) (*ItemRequest, error)
	ListOwn(ctx context.Context, requesterID int64) ([]*ItemRequest, error)
	ListOthers(ctx context.Context, requesterID int64, page request.Pagination) ([]*ItemRequest, error)
	// Exists reports ErrNotFound when no request has the given ID.
	Exists(ctx context.Context, requestID int64) error
}

type service struct {
	repo  Repository
	users UserFinder
	now   func() time.Time
}

func NewService(repo Repository, users UserFinder) Service {
	return &service{
		repo:  repo,
		users: users,
		now:   time.Now,
	}
}

func (s *service) Create(ctx context.Context, requesterID int64, description string) (*ItemRequest, error) {
	if _, err := s.users.GetByID(ctx, requesterID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(description) == "" {
		return nil, ErrDescriptionRequired
	}

	r := &ItemRequest{
		Description: description,
		RequesterID: requesterID,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) GetByID(ctx context.Context, userID, requestID int64) (*ItemRequest, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, requestID)
}

func (s *service) ListOwn(ctx context.Context, requesterID int64) ([]*ItemRequest, error) {
	if _, err := s.users.GetByID(ctx, requesterID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, Filter{RequesterID: requesterID})
}

func (s *service) ListOthers(ctx context.Context, requesterID int64, page request.Pagination) ([]*ItemRequest, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, requesterID); err != nil {
		return nil, err
	}

	return s.repo.List(ctx, Filter{
		ExcludeRequesterID: requesterID,
		Limit:              page.Limit(),
		Offset:             page.Offset(),
	})
}

func (s *service) Exists(ctx context.Context, requestID int64) error {
	_, err := s.repo.GetByID(ctx, requestID)
	return err
}
