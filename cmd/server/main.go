package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/WIN24-GruppProjekt/BookingService/internal/application"
	"github.com/WIN24-GruppProjekt/BookingService/internal/config"
	"github.com/WIN24-GruppProjekt/BookingService/internal/database"
	bookingEvents "github.com/WIN24-GruppProjekt/BookingService/internal/events"
	"github.com/WIN24-GruppProjekt/BookingService/internal/handler"
	"github.com/WIN24-GruppProjekt/BookingService/internal/health"
	"github.com/WIN24-GruppProjekt/BookingService/internal/kafka"
	"github.com/WIN24-GruppProjekt/BookingService/internal/logger"
	"github.com/WIN24-GruppProjekt/BookingService/internal/middleware"
	"github.com/WIN24-GruppProjekt/BookingService/internal/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const serviceName = "booking-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting booking service", zap.String("port", cfg.Port))

	db, err := database.Connect(cfg.DBConfig.DSN(), log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.BookingModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DBConfig.URL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var producer *kafka.Producer
	var publisher application.Publisher
	if cfg.KafkaConfig.Enabled {
		producer = kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
		defer func() { _ = producer.Close() }()
		publisher = producer
	}

	bookingRepo := repository.NewGormBookingRepository(db)
	bookingService := application.NewBookingService(bookingRepo, publisher, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.KafkaConfig.Enabled {
		groupID := cfg.KafkaConfig.GroupPrefix + serviceName
		lifecycleConsumer := bookingEvents.NewLifecycleConsumer(
			cfg.KafkaConfig.Brokers,
			groupID,
			bookingService,
			log,
		)
		defer func() { _ = lifecycleConsumer.Close() }()

		go func() {
			log.Info("starting platform lifecycle consumer")
			if err := lifecycleConsumer.Start(ctx); err != nil && err != context.Canceled {
				log.Error("platform lifecycle consumer error", zap.Error(err))
			}
		}()
	}

	bookingHandler := handler.NewBookingHandler(bookingService)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.SecurityHeaders())

	healthHandler := health.NewHandler(db, serviceName)
	healthHandler.RegisterRoutes(router)

	bookingHandler.RegisterRoutes(&router.RouterGroup)

	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down booking service...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("booking service stopped")
}
