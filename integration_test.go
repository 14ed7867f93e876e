//go:build integration

package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/WIN24-GruppProjekt/BookingService/internal/application"
	bookingDomain "github.com/WIN24-GruppProjekt/BookingService/internal/domain/booking"
	bookingEvents "github.com/WIN24-GruppProjekt/BookingService/internal/events"
	"github.com/WIN24-GruppProjekt/BookingService/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createBooking(t *testing.T, service application.BookingService, userID, eventID string) {
	t.Helper()
	result := service.CreateBooking(context.Background(), application.CreateBookingRequest{
		UserID:  userID,
		EventID: eventID,
	})
	require.True(t, result.Success, "create booking failed: %s", result.Error)
}

func TestCreateBooking_DuplicateIsRejected(t *testing.T) {
	db := setupPostgres(t)
	service := newBookingService(t, db)
	ctx := context.Background()

	first := service.CreateBooking(ctx, application.CreateBookingRequest{UserID: "u1", EventID: "e1"})
	require.True(t, first.Success)

	second := service.CreateBooking(ctx, application.CreateBookingRequest{UserID: "u1", EventID: "e1"})
	assert.False(t, second.Success)
	assert.Equal(t, "User has already booked this event.", second.Error)

	assert.Equal(t, int64(1), countBookings(t, db, "user_id = ? AND event_id = ?", "u1", "e1"))
}

func TestCreateBooking_UniqueIndexBacksUpExistenceCheck(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	// Simulate the lost race: a second row for the same pair inserted
	// directly, bypassing the service-level check.
	repo := repository.NewGormBookingRepository(db)
	createBooking(t, newBookingService(t, db), "u1", "e1")

	b, err := bookingDomain.New("u1", "e1")
	require.NoError(t, err)
	assert.Error(t, repo.Add(ctx, b), "unique index should reject the duplicate insert")
}

func TestActiveParticipantsForEvent_CountsLiveBookings(t *testing.T) {
	db := setupPostgres(t)
	service := newBookingService(t, db)

	for _, userID := range []string{"u1", "u2", "u3", "u4"} {
		createBooking(t, service, userID, "e1")
	}
	createBooking(t, service, "u1", "e2")

	result := service.ActiveParticipantsForEvent(context.Background(), "e1")
	require.True(t, result.Success)
	assert.Equal(t, int64(4), result.Data)

	empty := service.ActiveParticipantsForEvent(context.Background(), "no-such-event")
	require.True(t, empty.Success)
	assert.Equal(t, int64(0), empty.Data)
}

func TestBookingsByUser_ComputesCountsAcrossUsers(t *testing.T) {
	db := setupPostgres(t)
	service := newBookingService(t, db)

	before := time.Now().UTC()

	// e1 has 3 bookers in total, e2 only u1.
	createBooking(t, service, "u1", "e1")
	createBooking(t, service, "u2", "e1")
	createBooking(t, service, "u3", "e1")
	createBooking(t, service, "u1", "e2")

	result := service.BookingsByUser(context.Background(), "u1")
	require.True(t, result.Success)
	require.Len(t, result.Data, 2)

	countsByEvent := map[string]int{}
	for _, v := range result.Data {
		assert.Equal(t, "u1", v.UserID)
		require.NotNil(t, v.CreatedAt)
		assert.False(t, v.CreatedAt.Before(before))
		countsByEvent[v.EventID] = v.ActiveParticipants
	}
	assert.Equal(t, map[string]int{"e1": 3, "e2": 1}, countsByEvent)
}

func TestDeleteBooking_RemovesExactlyOne(t *testing.T) {
	db := setupPostgres(t)
	service := newBookingService(t, db)
	ctx := context.Background()

	createBooking(t, service, "u1", "e1")
	createBooking(t, service, "u2", "e1")

	var model repository.BookingModel
	require.NoError(t, db.Where("user_id = ?", "u1").First(&model).Error)

	result := service.DeleteBooking(ctx, model.ID)
	require.True(t, result.Success)

	assert.Equal(t, int64(0), countBookings(t, db, "user_id = ?", "u1"))
	assert.Equal(t, int64(1), countBookings(t, db, "user_id = ?", "u2"))
}

func TestDeleteBooking_NotFoundMutatesNothing(t *testing.T) {
	db := setupPostgres(t)
	service := newBookingService(t, db)

	createBooking(t, service, "u1", "e1")

	result := service.DeleteBooking(context.Background(), "no-such-id")
	assert.False(t, result.Success)
	assert.Equal(t, "Booking not found", result.Error)
	assert.Equal(t, int64(1), countBookings(t, db, "1 = 1"))
}

func TestDeleteBookingsForUser_RemovesOnlyThatUsersBookings(t *testing.T) {
	db := setupPostgres(t)
	service := newBookingService(t, db)
	ctx := context.Background()

	createBooking(t, service, "u1", "e1")
	createBooking(t, service, "u1", "e2")
	createBooking(t, service, "u2", "e1")

	result := service.DeleteBookingsForUser(ctx, "u1")
	require.True(t, result.Success)

	assert.Equal(t, int64(0), countBookings(t, db, "user_id = ?", "u1"))
	assert.Equal(t, int64(1), countBookings(t, db, "user_id = ?", "u2"))

	again := service.DeleteBookingsForUser(ctx, "u1")
	assert.False(t, again.Success)
	assert.Equal(t, "No bookings found for user", again.Error)
}

func TestDeleteBookingsForEvent_RemovesOnlyThatEventsBookings(t *testing.T) {
	db := setupPostgres(t)
	service := newBookingService(t, db)
	ctx := context.Background()

	createBooking(t, service, "u1", "e1")
	createBooking(t, service, "u2", "e1")
	createBooking(t, service, "u1", "e2")

	result := service.DeleteBookingsForEvent(ctx, "e1")
	require.True(t, result.Success)

	assert.Equal(t, int64(0), countBookings(t, db, "event_id = ?", "e1"))
	assert.Equal(t, int64(1), countBookings(t, db, "event_id = ?", "e2"))

	again := service.DeleteBookingsForEvent(ctx, "e1")
	assert.False(t, again.Success)
	assert.Equal(t, "No bookings found for event", again.Error)
}

func TestBaseRepository_UpdateRoundTrip(t *testing.T) {
	db := setupPostgres(t)
	base := repository.NewBaseRepository[repository.BookingModel](db)
	ctx := context.Background()

	createBooking(t, newBookingService(t, db), "u1", "e1")

	model, err := base.Get(ctx, repository.Where("user_id", "u1"))
	require.NoError(t, err)
	require.Nil(t, model.ActiveParticipants)

	legacy := 9
	model.ActiveParticipants = &legacy
	require.NoError(t, base.Update(ctx, model))

	reloaded, err := base.Get(ctx, repository.Where("id", model.ID))
	require.NoError(t, err)
	require.NotNil(t, reloaded.ActiveParticipants)
	assert.Equal(t, 9, *reloaded.ActiveParticipants)
}

func TestLifecycleConsumer_PurgesBookingsOfDeletedUser(t *testing.T) {
	db := setupPostgres(t)
	brokers := setupKafka(t)
	service, consumer := newBookingStackWithKafka(t, db, brokers)

	createBooking(t, service, "u1", "e1")
	createBooking(t, service, "u1", "e2")
	createBooking(t, service, "u2", "e1")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = consumer.Start(ctx)
	}()

	publishPlatformEvent(t, brokers, bookingEvents.UserDeleted, bookingEvents.UserDeletedEvent{
		UserID:     "u1",
		OccurredAt: time.Now().UTC(),
	})

	require.Eventually(t, func() bool {
		return countBookings(t, db, "user_id = ?", "u1") == 0
	}, 60*time.Second, 500*time.Millisecond, "bookings of deleted user were not purged")

	assert.Equal(t, int64(1), countBookings(t, db, "user_id = ?", "u2"))
}

func TestLifecycleConsumer_PurgesBookingsOfDeletedEvent(t *testing.T) {
	db := setupPostgres(t)
	brokers := setupKafka(t)
	service, consumer := newBookingStackWithKafka(t, db, brokers)

	createBooking(t, service, "u1", "e1")
	createBooking(t, service, "u2", "e1")
	createBooking(t, service, "u2", "e2")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = consumer.Start(ctx)
	}()

	publishPlatformEvent(t, brokers, bookingEvents.EventDeleted, bookingEvents.EventDeletedEvent{
		EventID:    "e1",
		OccurredAt: time.Now().UTC(),
	})

	require.Eventually(t, func() bool {
		return countBookings(t, db, "event_id = ?", "e1") == 0
	}, 60*time.Second, 500*time.Millisecond, "bookings of deleted event were not purged")

	assert.Equal(t, int64(1), countBookings(t, db, "event_id = ?", "e2"))
}
