package itemrequest

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.NotFound("item request not found")
	ErrDescriptionRequired = apperror.BadRequest("description is required")
)

// ItemRequest is a user's public "wanted" notice. Items answering it are derived
// from items whose request reference points here; they are never stored on the request.
type ItemRequest struct {
	ID          int64
	Description string
	RequesterID int64
	CreatedAt   time.Time
	Items       []FulfillingItem
}

// FulfillingItem is the brief item shape attached to a request.
type FulfillingItem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"owner_id"`
	RequestID   int64  `json:"request_id"`
}

// Filter defines parameters for listing requests, newest first.
type Filter struct {
	RequesterID        int64 // only requests by this user
	ExcludeRequesterID int64 // only requests by anyone else
	Limit              int   // 0 means no limit
	Offset             int
}
