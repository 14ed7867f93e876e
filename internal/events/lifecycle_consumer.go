package events

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/WIN24-GruppProjekt/BookingService/internal/domain"
	"github.com/WIN24-GruppProjekt/BookingService/internal/kafka"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// BookingRemover is the slice of the booking service the consumer needs.
type BookingRemover interface {
	DeleteBookingsForUser(ctx context.Context, userID string) domain.Result
	DeleteBookingsForEvent(ctx context.Context, eventID string) domain.Result
}

// LifecycleConsumer listens to platform lifecycle events and removes the
// bookings of deleted users and events, so a stale reservation never outlives
// its owner or its event.
type LifecycleConsumer struct {
	consumer *kafka.Consumer
	service  BookingRemover
	logger   *zap.Logger
}

// NewLifecycleConsumer creates a LifecycleConsumer on the platform topic.
func NewLifecycleConsumer(brokers []string, groupID string, service BookingRemover, logger *zap.Logger) *LifecycleConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, TopicPlatformEvents, logger)
	return &LifecycleConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start consumes platform events until the context is cancelled.
func (c *LifecycleConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *LifecycleConsumer) Close() error {
	return c.consumer.Close()
}

func (c *LifecycleConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from platform topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // don't retry malformed messages
	}

	switch cloudEvent.Type {
	case UserDeleted:
		return c.handleUserDeleted(ctx, cloudEvent)
	case EventDeleted:
		return c.handleEventDeleted(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled platform event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *LifecycleConsumer) handleUserDeleted(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt UserDeletedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse UserDeletedEvent data", zap.Error(err))
		return nil
	}

	result := c.service.DeleteBookingsForUser(ctx, evt.UserID)
	c.logResult("user", evt.UserID, result)
	return nil
}

func (c *LifecycleConsumer) handleEventDeleted(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt EventDeletedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse EventDeletedEvent data", zap.Error(err))
		return nil
	}

	result := c.service.DeleteBookingsForEvent(ctx, evt.EventID)
	c.logResult("event", evt.EventID, result)
	return nil
}

func (c *LifecycleConsumer) logResult(scope, id string, result domain.Result) {
	switch {
	case result.Success:
		c.logger.Info("bookings purged",
			zap.String("scope", scope),
			zap.String("id", id),
		)
	case strings.HasPrefix(result.Error, "No bookings found"):
		// Nothing to purge; deleted users and events routinely have no
		// bookings left.
		c.logger.Debug("no bookings to purge",
			zap.String("scope", scope),
			zap.String("id", id),
		)
	default:
		c.logger.Error("failed to purge bookings",
			zap.String("scope", scope),
			zap.String("id", id),
			zap.String("error", result.Error),
		)
	}
}
