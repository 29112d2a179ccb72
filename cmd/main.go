package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"civictrack/backend/internal/api/handler"
	"civictrack/backend/internal/config"
	"civictrack/backend/internal/lifecycle"
	"civictrack/backend/internal/media"
	"civictrack/backend/internal/models"
	"civictrack/backend/internal/notify"
	"civictrack/backend/internal/social"
	"civictrack/backend/internal/storage"
	"civictrack/backend/internal/sweep"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Complaint{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting CivicTrack Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, rdb := setupDependencies(cfg)
	store := storage.NewStorageService(db, rdb)

	// Notification bus is optional in local development.
	var bus notify.Bus
	if cfg.RabbitURL != "" {
		rmq, err := notify.NewRabbitMQ(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("Failed to connect RabbitMQ: %v", err)
		}
		defer rmq.Close()
		bus = rmq
	} else {
		log.Println("Warning: RABBITMQ_URL not set, notifications disabled")
	}
	notifier := notify.NewAdapter(bus, store, store)

	// The public-pressure channel degrades to a no-op without a bot token.
	var publisher lifecycle.SocialPublisher
	if cfg.TelegramBotToken != "" && cfg.TelegramChannel != "" {
		publisher, err = social.NewTelegramPublisher(cfg.TelegramBotToken, cfg.TelegramChannel)
		if err != nil {
			log.Fatalf("Failed to start Telegram publisher: %v", err)
		}
	} else {
		log.Println("Warning: Telegram not configured, public escalation posts disabled")
	}

	svc := lifecycle.NewService(store, notifier, publisher)

	sweeper := sweep.NewSweeper(store, svc)
	sweeper.Start()
	defer sweeper.Stop()

	files, err := media.NewDiskStore(cfg.MediaDir)
	if err != nil {
		log.Fatalf("Failed to prepare media store: %v", err)
	}

	r := gin.Default()
	h := handler.NewHandler(svc, store, files, []byte(cfg.JWTSecret))
	h.RegisterRoutes(r)

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
