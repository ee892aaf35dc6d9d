package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

type CreateRequestBody struct {
	Description string `json:"description" binding:"required"`
}

type ListOthersRequest struct {
	request.Pagination
}

type ItemRequestResponse struct {
	ID          int64                        `json:"id"`
	Description string                       `json:"description"`
	RequesterID int64                        `json:"requester_id"`
	Created     time.Time                    `json:"created"`
	Items       []itemrequest.FulfillingItem `json:"items"`
}

func NewResponse(r *itemrequest.ItemRequest) ItemRequestResponse {
	items := r.Items
	if items == nil {
		items = []itemrequest.FulfillingItem{}
	}
	return ItemRequestResponse{
		ID:          r.ID,
		Description: r.Description,
		RequesterID: r.RequesterID,
		Created:     r.CreatedAt,
		Items:       items,
	}
}
