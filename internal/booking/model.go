package booking

import (
	"strings"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.NotFound("booking not found")
	ErrOwnItem          = apperror.Conflict("item cannot be booked by its own owner")
	ErrItemUnavailable  = apperror.BadRequest("item is not available for booking")
	ErrStartInPast      = apperror.BadRequest("booking cannot start in the past")
	ErrEndInPast        = apperror.BadRequest("booking must end in the future")
	ErrInvalidTimeRange = apperror.BadRequest("start time must be before end time")
	ErrDecisionApplied  = apperror.BadRequest("decision already applied")
	ErrOwnerHasNoItems  = apperror.BadRequest("user does not own any items")
	ErrUnsupportedState = apperror.UnsupportedState("Unknown state: UNSUPPORTED_STATUS")
)

type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// State selects a bucket of bookings relative to the current instant.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState maps a query value to a State. Blank means ALL.
func ParseState(raw string) (State, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return StateAll, nil
	}

	switch s := State(strings.ToUpper(raw)); s {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return s, nil
	default:
		return "", ErrUnsupportedState
	}
}

type ItemSummary struct {
	ID      int64
	Name    string
	OwnerID int64
}

type BookerSummary struct {
	ID   int64
	Name string
}

type Booking struct {
	ID     int64
	Start  time.Time
	End    time.Time
	Status Status
	Item   ItemSummary
	Booker BookerSummary
}

// Short is the compact form shown as an item's last or next booking.
type Short struct {
	ID       int64
	BookerID int64
	Start    time.Time
	End      time.Time
}

// Filter defines parameters for listing bookings.
type Filter struct {
	BookerID  int64
	OwnerID   int64
	State     State
	Now       time.Time
	Ascending bool // order by start ascending instead of descending
	Limit     int
	Offset    int
}
