package config

import (
	"fmt"
	"os"
)

// Config collects everything main needs from the environment. godotenv is
// loaded by the caller before Load is invoked.
type Config struct {
	HTTPAddr string

	PostgresDSN string

	RedisAddr     string
	RedisPassword string

	RabbitURL string

	TelegramBotToken string
	TelegramChannel  string

	JWTSecret string

	MediaDir string
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads the configuration from environment variables, applying local
// development defaults where a value is optional.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr: getenv("HTTP_ADDR", ":8080"),
		PostgresDSN: fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			getenv("DB_HOST", "localhost"),
			getenv("DB_USER", "user"),
			getenv("DB_PASSWORD", "password"),
			getenv("DB_NAME", "civictrack"),
			getenv("DB_PORT", "5432"),
		),
		RedisAddr:        getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RabbitURL:        os.Getenv("RABBITMQ_URL"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChannel:  os.Getenv("TELEGRAM_CHANNEL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		MediaDir:         getenv("MEDIA_DIR", "./media"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	return cfg, nil
}
