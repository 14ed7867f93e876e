// Package events defines the Kafka topics and payloads the booking service
// publishes and consumes, plus the consumer that reacts to platform
// lifecycle events.
package events

import "time"

// Topics.
const (
	// TopicBookingEvents carries events published by this service.
	TopicBookingEvents = "booking.events"

	// TopicPlatformEvents carries lifecycle events from the account and
	// event services.
	TopicPlatformEvents = "platform.events"
)

// Event types published by this service.
const (
	BookingCreated   = "booking.created"
	BookingCancelled = "booking.cancelled"
	BookingsPurged   = "bookings.purged"
)

// Event types consumed from the platform topic.
const (
	UserDeleted  = "user.deleted"
	EventDeleted = "event.deleted"
)

// BookingCreatedEvent is published after a booking is persisted.
type BookingCreatedEvent struct {
	BookingID  string    `json:"booking_id"`
	UserID     string    `json:"user_id"`
	EventID    string    `json:"event_id"`
	CreatedAt  time.Time `json:"created_at"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingCancelledEvent is published after a single booking is deleted.
type BookingCancelledEvent struct {
	BookingID  string    `json:"booking_id"`
	UserID     string    `json:"user_id"`
	EventID    string    `json:"event_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingsPurgedEvent is published after a bulk delete. Scope is "user" or
// "event" and ScopeID the corresponding identifier.
type BookingsPurgedEvent struct {
	Scope      string    `json:"scope"`
	ScopeID    string    `json:"scope_id"`
	Removed    int       `json:"removed"`
	OccurredAt time.Time `json:"occurred_at"`
}

// UserDeletedEvent arrives from the account service when an account is
// removed.
type UserDeletedEvent struct {
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventDeletedEvent arrives from the event service when an instructor deletes
// an event.
type EventDeletedEvent struct {
	EventID    string    `json:"event_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
