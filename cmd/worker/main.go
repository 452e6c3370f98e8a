package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/eventbooking/config"
	"github.com/Domenick1991/eventbooking/internal/availability"
	"github.com/Domenick1991/eventbooking/internal/cache"
	"github.com/Domenick1991/eventbooking/internal/email"
	"github.com/Domenick1991/eventbooking/internal/kafka"
	"github.com/Domenick1991/eventbooking/internal/logger"
	"github.com/Domenick1991/eventbooking/internal/repository"
	"github.com/Domenick1991/eventbooking/internal/service/booking"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		log.Fatalf("worker: %v", err)
	}
}

// run never exits the process; its deferred closes must run first.
func run(ctx context.Context) error {
	cfg, err := config.LoadConfig(config.Path())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	lg, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = lg.Sync() }()

	loc, err := cfg.App.Location()
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis,
		time.Duration(cfg.Booking.SlotsCacheTTL)*time.Second,
		time.Duration(cfg.Booking.EventsCacheTTL)*time.Second,
	)
	defer redisCache.Close()

	// the worker never publishes, so no producer is wired
	bookingService := booking.NewBookingService(
		repository.NewBookingRepository(pool),
		redisCache,
		nil,
		availability.NewCalculator(cfg.Booking.MinGap(), cfg.Booking.MinSlot()),
		"",
		booking.WithLocation(loc),
		booking.WithLogger(lg.Named("booking")),
	)

	scheduler := cron.New(cron.WithLocation(loc))
	if _, err := scheduler.AddFunc(cfg.Worker.WarmCron, func() {
		n, err := bookingService.WarmSlots(ctx, cfg.Worker.WarmDays)
		if err != nil {
			lg.Error("warm slot cache", zap.Int("warmed", n), zap.Error(err))
			return
		}
		lg.Info("slot cache warmed", zap.Int("days", n))
	}); err != nil {
		return fmt.Errorf("schedule warm job %q: %w", cfg.Worker.WarmCron, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	topic := cfg.Kafka.NotificationsTopic
	if topic == "" {
		topic = cfg.Kafka.BookingEventsTopic
	}
	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, topic, lg.Named("kafka"))
	defer consumer.Close()

	sender := email.NewSender(cfg.Mail, lg.Named("email"))
	handler := kafka.BookingEventHandler(lg, func(ctx context.Context, event kafka.BookingEvent) error {
		if err := sender.Send(ctx, event); err != nil {
			// a failed email must not stall the consumer group
			lg.Error("send notification", zap.Int64("booking_id", event.BookingID), zap.Error(err))
		}
		return nil
	})

	lg.Info("worker started", zap.String("topic", topic), zap.String("warm_cron", cfg.Worker.WarmCron))
	if err := consumer.Consume(ctx, handler); err != nil && !kafka.IsShutdown(err) {
		lg.Error("consumer stopped", zap.Error(err))
		return fmt.Errorf("consume %s: %w", topic, err)
	}
	lg.Info("worker stopped")
	return nil
}
