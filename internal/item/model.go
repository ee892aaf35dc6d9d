package item

import (
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.NotFound("item not found")
	ErrNameRequired        = apperror.BadRequest("name cannot be empty")
	ErrDescriptionRequired = apperror.BadRequest("description cannot be empty")
	ErrAvailableRequired   = apperror.BadRequest("available flag is required")
)

// Item is a thing a user offers for lending. The owner never changes.
type Item struct {
	ID          int64
	Name        string
	Description string
	Available   bool
	OwnerID     int64
	RequestID   *int64 // request this item was listed in answer to, if any
}

// Filter defines parameters for listing items.
type Filter struct {
	OwnerID       int64
	Text          string // case-insensitive substring of name or description
	AvailableOnly bool
	Limit         int
	Offset        int
}
