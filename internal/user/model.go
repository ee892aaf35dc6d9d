package user

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.NotFound("user not found")
	ErrEmailAlreadyUsed = apperror.Conflict("email already used")
	ErrEmailRequired    = apperror.BadRequest("email is required")
	ErrNameRequired     = apperror.BadRequest("name is required")
	ErrStillReferenced  = apperror.Conflict("user still has items, bookings, requests or comments")
)

// User represents a registered member of the sharing network.
type User struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
}
