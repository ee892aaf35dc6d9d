// Package itemview assembles the item pages: an item with its comments and,
// for the owner, the nearest bookings.
package itemview

import (
	"context"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/comment"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// ItemView is an item enriched for display. LastBooking and NextBooking are
// only filled when the viewer owns the item.
type ItemView struct {
	*item.Item
	Comments    []*comment.Comment
	LastBooking *booking.Short
	NextBooking *booking.Short
}

type UserFinder interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

type ItemReader interface {
	GetByID(ctx context.Context, id int64) (*item.Item, error)
	ListByOwner(ctx context.Context, ownerID int64, page request.Pagination) ([]*item.Item, error)
	Search(ctx context.Context, text string, page request.Pagination) ([]*item.Item, error)
}

type CommentLister interface {
	ListByItem(ctx context.Context, itemID int64) ([]*comment.Comment, error)
}

type BookingLocator interface {
	Nearest(ctx context.Context, itemID int64) (last, next *booking.Short, err error)
}

type Service interface {
	Get(ctx context.Context, userID, itemID int64) (*ItemView, error)
	ListForOwner(ctx context.Context, ownerID int64, page request.Pagination) ([]*ItemView, error)
	Search(ctx context.Context, userID int64, text string, page request.Pagination) ([]*ItemView, error)
	// Enrich decorates an item already loaded by the caller.
	Enrich(ctx context.Context, viewerID int64, it *item.Item) (*ItemView, error)
}

type service struct {
	users    UserFinder
	items    ItemReader
	comments CommentLister
	bookings BookingLocator
}

func NewService(users UserFinder, items ItemReader, comments CommentLister, bookings BookingLocator) Service {
	return &service{
		users:    users,
		items:    items,
		comments: comments,
		bookings: bookings,
	}
}

func (s *service) Get(ctx context.Context, userID, itemID int64) (*ItemView, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	return s.Enrich(ctx, userID, it)
}

func (s *service) ListForOwner(ctx context.Context, ownerID int64, page request.Pagination) ([]*ItemView, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.items.ListByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, err
	}

	return s.enrichAll(ctx, ownerID, items)
}

func (s *service) Search(ctx context.Context, userID int64, text string, page request.Pagination) ([]*ItemView, error) {
	items, err := s.items.Search(ctx, text, page)
	if err != nil {
		return nil, err
	}

	return s.enrichAll(ctx, userID, items)
}

func (s *service) Enrich(ctx context.Context, viewerID int64, it *item.Item) (*ItemView, error) {
	comments, err := s.comments.ListByItem(ctx, it.ID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []*comment.Comment{}
	}

	view := &ItemView{Item: it, Comments: comments}
	if it.OwnerID != viewerID {
		return view, nil
	}

	view.LastBooking, view.NextBooking, err = s.bookings.Nearest(ctx, it.ID)
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *service) enrichAll(ctx context.Context, viewerID int64, items []*item.Item) ([]*ItemView, error) {
	views := make([]*ItemView, 0, len(items))
	for _, it := range items {
		view, err := s.Enrich(ctx, viewerID, it)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}
