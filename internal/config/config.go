package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all service configuration loaded from environment variables.
// Nothing here lives in module-level state; main passes it down at startup.
type Config struct {
	Port           string
	MongoURI       string
	MongoDB        string
	RedisAddr      string
	RedisPassword  string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	// AllowSelfGuess controls whether users may guess their own posts.
	AllowSelfGuess bool

	// MaxPictureBytes caps multipart picture uploads.
	MaxPictureBytes int64
}

func Load() *Config {
	// Optional .env for local development; env vars win.
	_ = godotenv.Load()

	return &Config{
		Port:            getenv("PORT", "8080"),
		MongoURI:        getenv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDB:         getenv("MONGO_DB", "mapclash"),
		RedisAddr:       getenv("REDIS_ADDR", "redis:6379"),
		RedisPassword:   getenv("REDIS_PASSWORD", ""),
		MinioEndpoint:   getenv("MINIO_ENDPOINT", "minio:9000"),
		MinioAccessKey:  getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:  getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:     getenv("MINIO_BUCKET", "post-pictures"),
		MinioUseSSL:     getenv("MINIO_USE_SSL", "false") == "true",
		AllowSelfGuess:  getenv("ALLOW_SELF_GUESS", "false") == "true",
		MaxPictureBytes: 10 << 20,
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
