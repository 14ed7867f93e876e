package booking

import "context"

// Filter is the query specification accepted by the repository. Zero-valued
// fields are ignored; set fields combine with AND. Equality and set-membership
// on the ledger's string columns are the only predicates the service needs.
type Filter struct {
	ID       string
	UserID   string
	EventID  string
	EventIDs []string
}

// Repository defines the persistence contract for booking records.
type Repository interface {
	// Add inserts one record. It does not enforce uniqueness itself; a
	// storage-level constraint violation surfaces as an error.
	Add(ctx context.Context, b *Booking) error

	// Exists reports whether at least one record matches the filter.
	Exists(ctx context.Context, f Filter) (bool, error)

	// Count returns the number of records matching the filter.
	Count(ctx context.Context, f Filter) (int64, error)

	// GetAll returns every record matching the filter, or every record when
	// the filter is empty.
	GetAll(ctx context.Context, f Filter) ([]Booking, error)

	// Get returns the single record matching the filter, or a not-found error.
	Get(ctx context.Context, f Filter) (*Booking, error)

	// Delete removes one record.
	Delete(ctx context.Context, b *Booking) error

	// DeleteRange removes the given records in a single statement inside a
	// transaction. On failure no guarantee is made about partial removal and
	// the whole operation must be treated as failed.
	DeleteRange(ctx context.Context, bs []Booking) error
}
