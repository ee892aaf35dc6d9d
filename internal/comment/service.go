package comment

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type UserFinder interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

type ItemFinder interface {
	GetByID(ctx context.Context, id int64) (*item.Item, error)
}

// EligibilityChecker decides whether a user has finished using an item.
type EligibilityChecker interface {
	IsEligibleForComment(ctx context.Context, userID, itemID int64) (bool, error)
}

type Service interface {
	Create(ctx context.Context, authorID, itemID int64, text string) (*Comment, error)
	ListByItem(ctx context.Context, itemID int64) ([]*Comment, error)
}

type service struct {
	repo     Repository
	users    UserFinder
	items    ItemFinder
	bookings EligibilityChecker
	now      func() time.Time
}

func NewService(repo Repository, users UserFinder, items ItemFinder, bookings EligibilityChecker) Service {
	return &service{
		repo:     repo,
		users:    users,
		items:    items,
		bookings: bookings,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Create(ctx context.Context, authorID, itemID int64, text string) (*Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrTextRequired
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return nil, err
	}

	eligible, err := s.bookings.IsEligibleForComment(ctx, authorID, itemID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, ErrNotEligible
	}

	c := &Comment{
		Text:       text,
		ItemID:     itemID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		CreatedAt:  s.now(),
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "comment added", "comment_id", c.ID, "item_id", itemID, "author_id", authorID)
	return c, nil
}

func (s *service) ListByItem(ctx context.Context, itemID int64) ([]*Comment, error) {
	comments, err := s.repo.ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []*Comment{}
	}
	return comments, nil
}
