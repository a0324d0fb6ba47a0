package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stylefeed/stylefeed/internal/config"
	"github.com/stylefeed/stylefeed/internal/handlers"
	"github.com/stylefeed/stylefeed/internal/middleware"
	"github.com/stylefeed/stylefeed/internal/repository"
	"github.com/stylefeed/stylefeed/internal/services"
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
	logger.Info("Starting StyleFeed API server...")

	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		logger.WithError(err).Fatal("Failed to migrate database")
	}

	redisClient := cache.NewRedisClient(
		cfg.Redis.Addr(),
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
		cfg.Redis.MinIdleConns,
	)
	defer redisClient.Close()

	ctx := context.Background()
	if err := redisClient.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	userEventsProducer := queue.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.UserEvents)
	defer userEventsProducer.Close()

	socialEventsProducer := queue.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.SocialEvents)
	defer socialEventsProducer.Close()

	feedEventsProducer := queue.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.FeedEvents)
	defer feedEventsProducer.Close()

	userRepo := repository.NewUserRepository(db.DB)
	profileRepo := repository.NewProfileRepository(db.DB)
	friendshipRepo := repository.NewFriendshipRepository(db.DB)
	wardrobeRepo := repository.NewWardrobeRepository(db.DB)
	itemRepo := repository.NewItemRepository(db.DB)
	outfitRepo := repository.NewOutfitRepository(db.DB)
	postRepo := repository.NewPostRepository(db.DB)
	likeRepo := repository.NewLikeRepository(db.DB)
	commentRepo := repository.NewCommentRepository(db.DB)

	friendshipService := services.NewFriendshipService(friendshipRepo, userRepo, redisClient, socialEventsProducer, &cfg.Feed, logger)
	profileService := services.NewProfileService(profileRepo, friendshipService, logger)
	userService := services.NewUserService(userRepo, profileService, userEventsProducer, logger)
	wardrobeService := services.NewWardrobeService(wardrobeRepo, itemRepo, profileRepo, profileService, logger)
	outfitService := services.NewOutfitService(outfitRepo, itemRepo, wardrobeRepo, profileRepo, profileService, logger)
	feedService := services.NewFeedService(postRepo, profileRepo, outfitRepo, friendshipService, redisClient, feedEventsProducer, &cfg.Feed, logger)
	likeService := services.NewLikeService(likeRepo, postRepo, profileRepo, feedService, feedEventsProducer, logger)
	commentService := services.NewCommentService(commentRepo, postRepo, profileRepo, feedService, feedEventsProducer, logger)

	userHandler := handlers.NewUserHandler(userService, cfg.JWT.Secret, cfg.JWT.ExpireTime)
	profileHandler := handlers.NewProfileHandler(profileService)
	friendshipHandler := handlers.NewFriendshipHandler(friendshipService)
	wardrobeHandler := handlers.NewWardrobeHandler(wardrobeService, outfitService)
	feedHandler := handlers.NewFeedHandler(feedService, likeService, commentService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/users/register", userHandler.Register)
		api.POST("/users/login", userHandler.Login)

		protected := api.Group("")
		protected.Use(middleware.NewJWTAuth(&middleware.JWTConfig{Secret: cfg.JWT.Secret}))
		{
			protected.GET("/profiles/me", profileHandler.GetOwnProfile)
			protected.PUT("/profiles/me", profileHandler.UpdateProfile)
			protected.GET("/users/:id/profile", profileHandler.GetProfile)

			protected.POST("/users/:id/friend-requests", friendshipHandler.SendRequest)
			protected.POST("/friend-requests/:id/accept", friendshipHandler.AcceptRequest)
			protected.POST("/friend-requests/:id/reject", friendshipHandler.RejectRequest)
			protected.GET("/friend-requests", friendshipHandler.ListPending)
			protected.GET("/friends", friendshipHandler.ListFriends)
			protected.DELETE("/friends/:id", friendshipHandler.Unfriend)
			protected.POST("/users/:id/block", friendshipHandler.Block)
			protected.DELETE("/users/:id/block", friendshipHandler.Unblock)

			protected.POST("/wardrobes", wardrobeHandler.CreateWardrobe)
			protected.GET("/users/:id/wardrobes", wardrobeHandler.ListWardrobes)
			protected.DELETE("/wardrobes/:id", wardrobeHandler.DeleteWardrobe)
			protected.POST("/wardrobes/:id/items", wardrobeHandler.AddItem)
			protected.DELETE("/items/:id", wardrobeHandler.RemoveItem)
			protected.POST("/outfits", wardrobeHandler.CreateOutfit)
			protected.GET("/users/:id/outfits", wardrobeHandler.ListOutfits)
			protected.DELETE("/outfits/:id", wardrobeHandler.DeleteOutfit)

			protected.POST("/posts", feedHandler.CreatePost)
			protected.GET("/feed", feedHandler.GetFeed)
			protected.GET("/users/:id/posts", feedHandler.GetUserPosts)
			protected.GET("/posts/:id", feedHandler.GetPost)
			protected.DELETE("/posts/:id", feedHandler.DeletePost)
			protected.POST("/posts/:id/like", feedHandler.LikePost)
			protected.DELETE("/posts/:id/like", feedHandler.UnlikePost)
			protected.GET("/posts/:id/likes", feedHandler.GetPostLikes)
			protected.POST("/posts/:id/comments", feedHandler.CreateComment)
			protected.GET("/posts/:id/comments", feedHandler.GetPostComments)
			protected.DELETE("/comments/:id", feedHandler.DeleteComment)
		}
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

func init() {
	if err := os.MkdirAll("configs", 0755); err != nil {
		log.Printf("Failed to create configs directory: %v", err)
	}

	configPath := "configs/config.yaml"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := createDefaultConfig(configPath); err != nil {
			log.Printf("Failed to create default config: %v", err)
		}
	}
}

func createDefaultConfig(path string) error {
	defaultConfig := `server:
  port: ":8080"
  mode: "debug"
  read_timeout: 30s
  write_timeout: 30s

database:
  host: "localhost"
  port: 5432
  user: "stylefeed"
  password: "stylefeed"
  dbname: "stylefeed"
  sslmode: "disable"
  max_open_conns: 100
  max_idle_conns: 10

redis:
  host: "localhost"
  port: 6379
  password: ""
  db: 0
  pool_size: 100
  min_idle_conns: 10

kafka:
  brokers:
    - "localhost:9092"
  topics:
    user_events: "user-events"
    social_events: "social-events"
    feed_events: "feed-events"

jwt:
  secret: "your-secret-key-change-in-production"
  expire_time: 24h

feed:
  cache_ttl: 5m
  friend_cache_ttl: 10m
  max_page_size: 100`

	return os.WriteFile(path, []byte(defaultConfig), 0644)
}
