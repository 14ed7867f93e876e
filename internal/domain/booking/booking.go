package booking

import (
	"time"

	"github.com/WIN24-GruppProjekt/BookingService/internal/domain"
	"github.com/google/uuid"
)

// Booking is one row of the booking ledger: a single user reserving a single
// event. Records are immutable after creation; the only lifecycle transition
// is physical deletion.
type Booking struct {
	// IDs are opaque strings rather than native UUID columns so that the
	// account and event services can change their ID formats without a
	// migration here.
	ID      string
	UserID  string
	EventID string

	// CreatedAt is assigned server-side at the moment the create operation
	// runs, never taken from the request.
	CreatedAt time.Time

	// ActiveParticipants is a leftover persisted column that is never kept in
	// sync and never read for decisions. The real count is recomputed on every
	// read; see View.
	ActiveParticipants *int
}

// New builds a booking record with a fresh identity and the current UTC time.
func New(userID, eventID string) (*Booking, error) {
	if userID == "" {
		return nil, domain.NewValidationError("user ID is required")
	}
	if eventID == "" {
		return nil, domain.NewValidationError("event ID is required")
	}

	return &Booking{
		ID:        uuid.NewString(),
		UserID:    userID,
		EventID:   eventID,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// View is the caller-facing shape of a booking. ActiveParticipants carries the
// count of live bookings for the same event, computed at query time.
type View struct {
	ID      string `json:"id"`
	UserID  string `json:"userId"`
	EventID string `json:"eventId"`

	// A nil CreatedAt means the entity-to-view mapping failed to carry the
	// timestamp over and should be treated as a defect, not a valid state.
	CreatedAt *time.Time `json:"createdAt"`

	ActiveParticipants int `json:"activeParticipants"`
}
