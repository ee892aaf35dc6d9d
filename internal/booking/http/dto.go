package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

// CreateBookingBody takes start and end as RFC 3339 timestamps with a zone offset.
type CreateBookingBody struct {
	ItemID int64     `json:"item_id" binding:"required,min=1"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
}

type DecideRequest struct {
	Approved *bool `form:"approved" binding:"required"`
}

type ListBookingsRequest struct {
	request.Pagination
	State string `form:"state"`
}

type ItemRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type BookerRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type BookingResponse struct {
	ID     int64          `json:"id"`
	Start  time.Time      `json:"start"`
	End    time.Time      `json:"end"`
	Status booking.Status `json:"status"`
	Item   ItemRef        `json:"item"`
	Booker BookerRef      `json:"booker"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:     b.ID,
		Start:  b.Start,
		End:    b.End,
		Status: b.Status,
		Item:   ItemRef{ID: b.Item.ID, Name: b.Item.Name},
		Booker: BookerRef{ID: b.Booker.ID, Name: b.Booker.Name},
	}
}
