package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cittafutura/booking-service/config"
	"github.com/cittafutura/booking-service/internal/consumer"
	"github.com/cittafutura/booking-service/internal/handler"
	"github.com/cittafutura/booking-service/internal/idempotency"
	"github.com/cittafutura/booking-service/internal/jobs"
	"github.com/cittafutura/booking-service/internal/middleware"
	"github.com/cittafutura/booking-service/internal/models"
	"github.com/cittafutura/booking-service/internal/repository"
	"github.com/cittafutura/booking-service/internal/service"
	"github.com/cittafutura/booking-service/pkg/database"
	"github.com/cittafutura/booking-service/pkg/logger"
	"github.com/cittafutura/booking-service/pkg/rabbitmq"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.LogLevel, cfg.IsProduction())
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := database.NewPostgresDB(cfg.DSN())

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	// Repositories
	bookingRepo := repository.NewBookingRepository(db)
	houseRepo := repository.NewHouseRepository(db)
	blackoutRepo := repository.NewBlackoutRepository(db)
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewStatusEventRepository(db)

	// Services
	bookingSvc := service.NewBookingService(bookingRepo, houseRepo, blackoutRepo, userRepo, eventRepo, publisher)
	blackoutSvc := service.NewBlackoutService(bookingRepo, blackoutRepo, houseRepo, publisher)
	calendarSvc := service.NewCalendarService(houseRepo, bookingRepo, blackoutRepo)
	houseSvc := service.NewHouseService(houseRepo)
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)

	if cfg.AdminEmail != "" {
		created, err := authSvc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			log.Fatalf("failed to bootstrap admin account: %v", err)
		}
		if created {
			log.Infof("created admin account %s", cfg.AdminEmail)
		}
	}

	// RabbitMQ consumer: booking requests from external channels
	mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer mqConsumer.Close()

	msgs, err := mqConsumer.Consume()
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}
	consumerDone := consumer.NewRequestConsumer(bookingSvc).Start(ctx, msgs)

	idemStore := newIdempotencyStore(ctx, cfg)

	scheduler := jobs.NewScheduler()
	if err := scheduler.AddReminderJob(cfg.ReminderSchedule, bookingSvc, time.Duration(cfg.ReminderWindowDays)*24*time.Hour); err != nil {
		log.Fatal(err)
	}
	if err := scheduler.AddPruneJob(cfg.PruneSchedule, idemStore); err != nil {
		log.Fatal(err)
	}
	scheduler.Start()

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Validator = handler.NewRequestValidator()
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.WithFields(log.Fields{
				"component": "http",
				"method":    v.Method,
				"uri":       v.URI,
				"status":    v.Status,
				"latency":   v.Latency,
			}).Info("request")
			return nil
		},
	}))
	e.Use(echoMw.Recover())
	e.Use(echoMw.CORSWithConfig(echoMw.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, middleware.HeaderIdempotencyKey},
		AllowCredentials: true,
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "booking-service"})
	})

	guards := handler.Guards{
		Auth:        middleware.Authenticate(authSvc),
		Staff:       middleware.Authorize(models.RoleManager, models.RoleAdmin),
		Idempotency: middleware.Idempotency(idemStore),
	}
	api := e.Group("/api/v1")
	handler.NewAuthHandler(authSvc, cfg.TokenTTL, cfg.IsProduction()).RegisterRoutes(api, guards)
	handler.NewHouseHandler(houseSvc, blackoutSvc).RegisterRoutes(api, guards)
	handler.NewBookingHandler(bookingSvc).RegisterRoutes(api, guards)
	handler.NewCalendarHandler(calendarSvc).RegisterRoutes(api)

	go func() {
		log.Infof("Booking Service starting on :%s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	scheduler.Stop(shutdownCtx)
	<-consumerDone
}

// newIdempotencyStore uses Redis when REDIS_ADDR is set so replicas share
// keys, and process memory otherwise.
func newIdempotencyStore(ctx context.Context, cfg *config.Config) idempotency.Store {
	if cfg.RedisAddr == "" {
		return idempotency.NewMemoryStore(cfg.IdempotencyTTL)
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to Redis at %s: %v", cfg.RedisAddr, err)
	}
	log.Infof("idempotency keys stored in Redis at %s", cfg.RedisAddr)
	return idempotency.NewRedisStore(client, cfg.IdempotencyTTL)
}
