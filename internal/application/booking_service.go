package application

import (
	"context"
	"net/http"
	"time"

	"github.com/WIN24-GruppProjekt/BookingService/internal/domain"
	"github.com/WIN24-GruppProjekt/BookingService/internal/domain/booking"
	"github.com/WIN24-GruppProjekt/BookingService/internal/events"
	"github.com/WIN24-GruppProjekt/BookingService/internal/kafka"
	"go.uber.org/zap"
)

const eventSource = "booking-service"

// CreateBookingRequest holds the data needed to create a new booking. The
// creation timestamp is assigned by the service, never taken from a request.
type CreateBookingRequest struct {
	UserID  string `json:"userId" binding:"required"`
	EventID string `json:"eventId" binding:"required"`
}

// BookingService orchestrates the booking lifecycle. Every operation is a
// total function: failures are folded into the result envelope and never
// surfaced as errors.
type BookingService interface {
	// CreateBooking records that a user reserved a slot at an event,
	// rejecting duplicate (user, event) pairs.
	CreateBooking(ctx context.Context, req CreateBookingRequest) domain.Result

	// ActiveParticipantsForEvent returns the number of live bookings for the
	// event. It exists for the narrow case where only the count is needed
	// (for instance enabling a "book now" button) and fetching full booking
	// lists per event would be wasteful.
	ActiveParticipantsForEvent(ctx context.Context, eventID string) domain.ResultOf[int64]

	// BookingsByUser returns the user's bookings as views with per-event
	// participant counts computed at query time.
	BookingsByUser(ctx context.Context, userID string) domain.ResultOf[[]booking.View]

	// DeleteBooking removes one booking by identity.
	DeleteBooking(ctx context.Context, bookingID string) domain.Result

	// DeleteBookingsForUser removes every booking owned by the user, meant
	// to run when an account is deleted.
	DeleteBookingsForUser(ctx context.Context, userID string) domain.Result

	// DeleteBookingsForEvent removes every booking for the event, meant to
	// run when an instructor deletes an event.
	DeleteBookingsForEvent(ctx context.Context, eventID string) domain.Result
}

// Publisher publishes booking lifecycle events. A nil Publisher disables
// publishing.
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, event *kafka.CloudEvent) error
}

type bookingService struct {
	repo     booking.Repository
	producer Publisher
	logger   *zap.Logger
}

// NewBookingService creates a BookingService backed by the given repository.
func NewBookingService(repo booking.Repository, producer Publisher, logger *zap.Logger) BookingService {
	return &bookingService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) domain.Result {
	exists, err := s.repo.Exists(ctx, booking.Filter{
		UserID:  req.UserID,
		EventID: req.EventID,
	})
	if err != nil {
		return domain.Fail(err.Error())
	}
	if exists {
		return domain.Fail("User has already booked this event.")
	}

	b, err := booking.New(req.UserID, req.EventID)
	if err != nil {
		return domain.Fail(err.Error())
	}

	// The existence check and this insert are two separate storage calls; a
	// concurrent create for the same pair can pass the check before either
	// inserts. The unique index on (user_id, event_id) turns that race into
	// an insert error instead of a duplicate row.
	if err := s.repo.Add(ctx, b); err != nil {
		return domain.Fail(err.Error())
	}

	s.publish(ctx, events.BookingCreated, b.ID, events.BookingCreatedEvent{
		BookingID:  b.ID,
		UserID:     b.UserID,
		EventID:    b.EventID,
		CreatedAt:  b.CreatedAt,
		OccurredAt: time.Now().UTC(),
	})

	return domain.Ok()
}

func (s *bookingService) ActiveParticipantsForEvent(ctx context.Context, eventID string) domain.ResultOf[int64] {
	count, err := s.repo.Count(ctx, booking.Filter{EventID: eventID})
	if err != nil {
		return domain.FailOf[int64](err.Error())
	}
	return domain.OkOf(count)
}

func (s *bookingService) BookingsByUser(ctx context.Context, userID string) domain.ResultOf[[]booking.View] {
	userBookings, err := s.repo.GetAll(ctx, booking.Filter{UserID: userID})
	if err != nil {
		return domain.FailOf[[]booking.View](err.Error())
	}
	if len(userBookings) == 0 {
		return domain.OkOf([]booking.View{})
	}

	// Distinct event IDs, so shared events are counted once.
	seen := make(map[string]struct{}, len(userBookings))
	eventIDs := make([]string, 0, len(userBookings))
	for _, b := range userBookings {
		if _, ok := seen[b.EventID]; !ok {
			seen[b.EventID] = struct{}{}
			eventIDs = append(eventIDs, b.EventID)
		}
	}

	// Second query fans out to every booking on those events, across all
	// users, to recompute participant counts. There is no denormalized
	// counter to read instead.
	allForEvents, err := s.repo.GetAll(ctx, booking.Filter{EventIDs: eventIDs})
	if err != nil {
		return domain.FailOf[[]booking.View](err.Error())
	}

	counts := make(map[string]int, len(eventIDs))
	for _, b := range allForEvents {
		counts[b.EventID]++
	}

	views := make([]booking.View, len(userBookings))
	for i, b := range userBookings {
		createdAt := b.CreatedAt
		views[i] = booking.View{
			ID:        b.ID,
			UserID:    b.UserID,
			EventID:   b.EventID,
			CreatedAt: &createdAt,
			// The user's own booking guarantees at least 1; zero would mean
			// the fan-out query missed the event.
			ActiveParticipants: counts[b.EventID],
		}
	}

	return domain.OkOf(views)
}

func (s *bookingService) DeleteBooking(ctx context.Context, bookingID string) domain.Result {
	b, err := s.repo.Get(ctx, booking.Filter{ID: bookingID})
	if err != nil {
		if domain.StatusCode(err) == http.StatusNotFound {
			return domain.Fail("Booking not found")
		}
		return domain.Fail(err.Error())
	}

	if err := s.repo.Delete(ctx, b); err != nil {
		return domain.Fail(err.Error())
	}

	s.publish(ctx, events.BookingCancelled, b.ID, events.BookingCancelledEvent{
		BookingID:  b.ID,
		UserID:     b.UserID,
		EventID:    b.EventID,
		OccurredAt: time.Now().UTC(),
	})

	return domain.Ok()
}

func (s *bookingService) DeleteBookingsForUser(ctx context.Context, userID string) domain.Result {
	bookings, err := s.repo.GetAll(ctx, booking.Filter{UserID: userID})
	if err != nil {
		return domain.Fail(err.Error())
	}
	if len(bookings) == 0 {
		return domain.Fail("No bookings found for user")
	}

	if err := s.repo.DeleteRange(ctx, bookings); err != nil {
		return domain.Fail(err.Error())
	}

	s.publish(ctx, events.BookingsPurged, userID, events.BookingsPurgedEvent{
		Scope:      "user",
		ScopeID:    userID,
		Removed:    len(bookings),
		OccurredAt: time.Now().UTC(),
	})

	return domain.Ok()
}

func (s *bookingService) DeleteBookingsForEvent(ctx context.Context, eventID string) domain.Result {
	bookings, err := s.repo.GetAll(ctx, booking.Filter{EventID: eventID})
	if err != nil {
		return domain.Fail(err.Error())
	}
	if len(bookings) == 0 {
		return domain.Fail("No bookings found for event")
	}

	if err := s.repo.DeleteRange(ctx, bookings); err != nil {
		return domain.Fail(err.Error())
	}

	s.publish(ctx, events.BookingsPurged, eventID, events.BookingsPurgedEvent{
		Scope:      "event",
		ScopeID:    eventID,
		Removed:    len(bookings),
		OccurredAt: time.Now().UTC(),
	})

	return domain.Ok()
}

// publish sends a lifecycle event, logging failures instead of propagating
// them: event delivery never blocks or fails a booking operation.
func (s *bookingService) publish(ctx context.Context, eventType, key string, data any) {
	if s.producer == nil {
		return
	}

	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, events.TopicBookingEvents, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}
