package comment

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrTextRequired = apperror.BadRequest("comment text cannot be empty")
	ErrNotEligible  = apperror.BadRequest("comment only allowed after completed usage")
)

// Comment is feedback left on an item by someone who has used it.
type Comment struct {
	ID         int64
	Text       string
	ItemID     int64
	AuthorID   int64
	AuthorName string
	CreatedAt  time.Time
}
