package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stylefeed/stylefeed/internal/config"
	"github.com/stylefeed/stylefeed/internal/repository"
	"github.com/stylefeed/stylefeed/internal/services"
	"github.com/stylefeed/stylefeed/internal/workers"
	"github.com/stylefeed/stylefeed/pkg/cache"
	"github.com/stylefeed/stylefeed/pkg/logger"
	"github.com/stylefeed/stylefeed/pkg/queue"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logger.NewLogger()
	logger.Info("Starting StyleFeed cache worker...")

	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	redisClient := cache.NewRedisClient(
		cfg.Redis.Addr(),
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
		cfg.Redis.MinIdleConns,
	)
	defer redisClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := redisClient.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	socialEventsConsumer := queue.NewKafkaConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topics.SocialEvents, "cache-worker-group")
	feedEventsConsumer := queue.NewKafkaConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topics.FeedEvents, "cache-worker-group")

	userRepo := repository.NewUserRepository(db.DB)
	friendshipRepo := repository.NewFriendshipRepository(db.DB)

	// The worker reads the friend graph straight from Postgres. No cache and
	// no producer: it must see the graph as it is, and it only consumes.
	friendshipService := services.NewFriendshipService(friendshipRepo, userRepo, nil, nil, &cfg.Feed, logger)

	socialWorker := workers.NewCacheWorker(friendshipService, redisClient, socialEventsConsumer, logger)
	feedWorker := workers.NewCacheWorker(friendshipService, redisClient, feedEventsConsumer, logger)

	go func() {
		if err := socialWorker.Start(ctx); err != nil {
			logger.WithError(err).Error("Social events worker stopped with error")
		}
	}()

	go func() {
		if err := feedWorker.Start(ctx); err != nil {
			logger.WithError(err).Error("Feed events worker stopped with error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	cancel()

	_, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()

	if err := socialWorker.Stop(); err != nil {
		logger.WithError(err).Error("Failed to stop social events worker")
	}
	if err := feedWorker.Stop(); err != nil {
		logger.WithError(err).Error("Failed to stop feed events worker")
	}

	logger.Info("Worker exited")
}
