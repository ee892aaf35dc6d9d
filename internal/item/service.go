package item

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// UserFinder is the part of the user directory this package needs.
type UserFinder interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// RequestChecker validates fulfillment references.
type RequestChecker interface {
	Exists(ctx context.Context, requestID int64) error
}

type CreateRequest struct {
	Name        string
	Description string
	Available   *bool
	RequestID   *int64
}

// UpdateRequest carries a partial update; nil or blank fields are left untouched.
type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}

type Service interface {
	Create(ctx context.Context, ownerID int64, req CreateRequest) (*Item, error)
	Update(ctx context.Context, userID, itemID int64, req UpdateRequest) (*Item, error)
	GetByID(ctx context.Context, id int64) (*Item, error)
	ListByOwner(ctx context.Context, ownerID int64, page request.Pagination) ([]*Item, error)
	Search(ctx context.Context, text string, page request.Pagination) ([]*Item, error)
	HasItems(ctx context.Context, ownerID int64) (bool, error)
}

type service struct {
	repo     Repository
	users    UserFinder
	requests RequestChecker
}

func NewService(repo Repository, users UserFinder, requests RequestChecker) Service {
	return &service{
		repo:     repo,
		users:    users,
		requests: requests,
	}
}

func (s *service) Create(ctx context.Context, ownerID int64, req CreateRequest) (*Item, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrDescriptionRequired
	}
	if req.Available == nil {
		return nil, ErrAvailableRequired
	}

	if req.RequestID != nil {
		if err := s.requests.Exists(ctx, *req.RequestID); err != nil {
			return nil, err
		}
	}

	it := &Item{
		Name:        req.Name,
		Description: req.Description,
		Available:   *req.Available,
		OwnerID:     ownerID,
		RequestID:   req.RequestID,
	}

	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "item listed", "item_id", it.ID, "owner_id", ownerID)
	return it, nil
}

// Update applies a partial update. Callers other than the owner see ErrNotFound.
func (s *service) Update(ctx context.Context, userID, itemID int64, req UpdateRequest) (*Item, error) {
	return s.repo.Update(ctx, itemID, func(it *Item) error {
		if it.OwnerID != userID {
			return ErrNotFound
		}

		if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
			it.Name = *req.Name
		}
		if req.Description != nil && strings.TrimSpace(*req.Description) != "" {
			it.Description = *req.Description
		}
		if req.Available != nil {
			it.Available = *req.Available
		}
		return nil
	})
}

func (s *service) GetByID(ctx context.Context, id int64) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByOwner(ctx context.Context, ownerID int64, page request.Pagination) ([]*Item, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	return s.repo.List(ctx, Filter{
		OwnerID: ownerID,
		Limit:   page.Limit(),
		Offset:  page.Offset(),
	})
}

// Search finds available items whose name or description contains text.
// A blank text matches nothing and never reaches storage.
func (s *service) Search(ctx context.Context, text string, page request.Pagination) ([]*Item, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return []*Item{}, nil
	}

	return s.repo.List(ctx, Filter{
		Text:          text,
		AvailableOnly: true,
		Limit:         page.Limit(),
		Offset:        page.Offset(),
	})
}

func (s *service) HasItems(ctx context.Context, ownerID int64) (bool, error) {
	return s.repo.ExistsByOwner(ctx, ownerID)
}
