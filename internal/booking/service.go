package booking

import (
	"context"
	"log/slog"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// ItemFinder is the part of the item catalog this package needs.
type ItemFinder interface {
	GetByID(ctx context.Context, id int64) (*item.Item, error)
	HasItems(ctx context.Context, ownerID int64) (bool, error)
}

// UserFinder is the part of the user directory this package needs.
type UserFinder interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

type CreateRequest struct {
	BookerID int64
	ItemID   int64
	Start    time.Time
	End      time.Time
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	// Approve records the owner's decision. Only the item owner may decide.
	Approve(ctx context.Context, ownerID, bookingID int64, approved bool) (*Booking, error)
	// GetByID returns the booking if userID is its booker or the item owner.
	GetByID(ctx context.Context, bookingID, userID int64) (*Booking, error)
	ListForBooker(ctx context.Context, bookerID int64, state string, page request.Pagination) ([]*Booking, error)
	ListForOwner(ctx context.Context, ownerID int64, state string, page request.Pagination) ([]*Booking, error)
	// IsEligibleForComment reports whether userID has finished a booking of itemID, whatever its status.
	IsEligibleForComment(ctx context.Context, userID, itemID int64) (bool, error)
	Nearest(ctx context.Context, itemID int64) (last, next *Short, err error)
}

type service struct {
	repo  Repository
	items ItemFinder
	users UserFinder
	now   func() time.Time
}

func NewService(repo Repository, items ItemFinder, users UserFinder) Service {
	return &service{
		repo:  repo,
		items: items,
		users: users,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	it, err := s.items.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	booker, err := s.users.GetByID(ctx, req.BookerID)
	if err != nil {
		return nil, err
	}

	if it.OwnerID == booker.ID {
		return nil, ErrOwnItem
	}
	if !it.Available {
		return nil, ErrItemUnavailable
	}

	now := s.now()
	if req.Start.Before(now) {
		return nil, ErrStartInPast
	}
	if !req.End.After(now) {
		return nil, ErrEndInPast
	}
	if !req.End.After(req.Start) {
		return nil, ErrInvalidTimeRange
	}

	b := &Booking{
		Start:  req.Start,
		End:    req.End,
		Status: StatusWaiting,
		Item:   ItemSummary{ID: it.ID, Name: it.Name, OwnerID: it.OwnerID},
		Booker: BookerSummary{ID: booker.ID, Name: booker.Name},
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "booking created",
		"booking_id", b.ID,
		"item_id", it.ID,
		"booker_id", booker.ID,
	)
	return b, nil
}

func (s *service) Approve(ctx context.Context, ownerID, bookingID int64, approved bool) (*Booking, error) {
	target := StatusRejected
	if approved {
		target = StatusApproved
	}

	b, err := s.repo.Decide(ctx, bookingID, func(b *Booking) error {
		if b.Item.OwnerID != ownerID {
			return ErrNotFound
		}
		if b.Status == target {
			return ErrDecisionApplied
		}
		b.Status = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "booking decided", "booking_id", b.ID, "status", b.Status)
	return b, nil
}

func (s *service) GetByID(ctx context.Context, bookingID, userID int64) (*Booking, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.Booker.ID != userID && b.Item.OwnerID != userID {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *service) ListForBooker(ctx context.Context, bookerID int64, state string, page request.Pagination) ([]*Booking, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, bookerID); err != nil {
		return nil, err
	}

	st, err := ParseState(state)
	if err != nil {
		return nil, err
	}

	return s.list(ctx, Filter{
		BookerID: bookerID,
		State:    st,
		Now:      s.now(),
		Limit:    page.Limit(),
		Offset:   page.Offset(),
	})
}

func (s *service) ListForOwner(ctx context.Context, ownerID int64, state string, page request.Pagination) ([]*Booking, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	hasItems, err := s.items.HasItems(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !hasItems {
		return nil, ErrOwnerHasNoItems
	}

	st, err := ParseState(state)
	if err != nil {
		return nil, err
	}

	return s.list(ctx, Filter{
		OwnerID:   ownerID,
		State:     st,
		Now:       s.now(),
		Ascending: st == StateCurrent,
		Limit:     page.Limit(),
		Offset:    page.Offset(),
	})
}

func (s *service) list(ctx context.Context, filter Filter) ([]*Booking, error) {
	bookings, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []*Booking{}
	}
	return bookings, nil
}

func (s *service) IsEligibleForComment(ctx context.Context, userID, itemID int64) (bool, error) {
	return s.repo.ExistsFinished(ctx, userID, itemID, s.now())
}

func (s *service) Nearest(ctx context.Context, itemID int64) (*Short, *Short, error) {
	return s.repo.Nearest(ctx, itemID, s.now())
}
