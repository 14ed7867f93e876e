//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/WIN24-GruppProjekt/BookingService/internal/application"
	bookingEvents "github.com/WIN24-GruppProjekt/BookingService/internal/events"
	"github.com/WIN24-GruppProjekt/BookingService/internal/kafka"
	"github.com/WIN24-GruppProjekt/BookingService/internal/repository"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgres starts a PostgreSQL container and returns a migrated GORM DB.
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_bookings",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test_bookings sslmode=disable", host, port.Port())

	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, db.AutoMigrate(&repository.BookingModel{}))
	return db
}

// setupKafka starts a Kafka container and returns the broker addresses.
func setupKafka(t *testing.T) []string {
	t.Helper()
	ctx := context.Background()

	container, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, brokers, bookingEvents.TopicBookingEvents, bookingEvents.TopicPlatformEvents)
	return brokers
}

// createTopics pre-creates the given topics on the controller broker.
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer controllerConn.Close()

	configs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		configs[i] = kafkago.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1}
	}
	require.NoError(t, controllerConn.CreateTopics(configs...))
}

// newBookingService wires a real service over the containerized database,
// without event publishing.
func newBookingService(t *testing.T, db *gorm.DB) application.BookingService {
	t.Helper()
	repo := repository.NewGormBookingRepository(db)
	return application.NewBookingService(repo, nil, zap.NewNop())
}

// newBookingStackWithKafka wires the service with a real producer plus the
// lifecycle consumer.
func newBookingStackWithKafka(t *testing.T, db *gorm.DB, brokers []string) (application.BookingService, *bookingEvents.LifecycleConsumer) {
	t.Helper()
	logger := zap.NewNop()

	repo := repository.NewGormBookingRepository(db)
	producer := kafka.NewProducer(brokers, logger)
	t.Cleanup(func() { _ = producer.Close() })
	service := application.NewBookingService(repo, producer, logger)

	groupID := fmt.Sprintf("test-booking-%s", uuid.NewString()[:8])
	consumer := bookingEvents.NewLifecycleConsumer(brokers, groupID, service, logger)
	t.Cleanup(func() { _ = consumer.Close() })

	return service, consumer
}

// publishPlatformEvent publishes a CloudEvent on the platform topic.
func publishPlatformEvent(t *testing.T, brokers []string, eventType string, data interface{}) {
	t.Helper()
	logger := zap.NewNop()
	producer := kafka.NewProducer(brokers, logger)
	defer func() { _ = producer.Close() }()

	ce, err := kafka.NewCloudEvent("integration-test", eventType, data)
	require.NoError(t, err, "failed to create cloud event")
	require.NoError(t, producer.PublishEvent(context.Background(), bookingEvents.TopicPlatformEvents, ce))
}

// countBookings returns the number of rows matching the given column filter.
func countBookings(t *testing.T, db *gorm.DB, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&repository.BookingModel{}).Where(query, args...).Count(&count).Error)
	return count
}
