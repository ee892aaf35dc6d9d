package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	commenthttp "github.com/nekogravitycat/shareit-backend/internal/comment/http"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/itemview"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

type CreateItemBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
	RequestID   *int64 `json:"request_id" binding:"omitempty,min=1"`
}

type UpdateItemBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type ListItemsRequest struct {
	request.Pagination
}

type SearchItemsRequest struct {
	request.Pagination
	Text string `form:"text"`
}

type BookingShortResponse struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"booker_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

func newBookingShort(s *booking.Short) *BookingShortResponse {
	if s == nil {
		return nil
	}
	return &BookingShortResponse{
		ID:       s.ID,
		BookerID: s.BookerID,
		Start:    s.Start,
		End:      s.End,
	}
}

type ItemResponse struct {
	ID          int64                         `json:"id"`
	Name        string                        `json:"name"`
	Description string                        `json:"description"`
	Available   bool                          `json:"available"`
	OwnerID     int64                         `json:"owner_id"`
	RequestID   *int64                        `json:"request_id"`
	Comments    []commenthttp.CommentResponse `json:"comments"`
	LastBooking *BookingShortResponse         `json:"last_booking"`
	NextBooking *BookingShortResponse         `json:"next_booking"`
}

func NewItemResponse(it *item.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		OwnerID:     it.OwnerID,
		RequestID:   it.RequestID,
		Comments:    []commenthttp.CommentResponse{},
	}
}

func NewViewResponse(v *itemview.ItemView) ItemResponse {
	resp := NewItemResponse(v.Item)
	resp.Comments = response.List(v.Comments, commenthttp.NewCommentResponse)
	resp.LastBooking = newBookingShort(v.LastBooking)
	resp.NextBooking = newBookingShort(v.NextBooking)
	return resp
}
