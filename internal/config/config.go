package config

import (
	"os"
	"strconv"
)

// Config holds all runtime configuration, read from environment variables.
type Config struct {
	Env        string // development | production
	ServerAddr string

	DatabaseDSN string

	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int
	RedisPoolSize int

	JWTSecret          string
	AccessTokenTTLMin  int
	RefreshTokenTTLMin int

	AllowedOrigins string

	// S3-compatible media storage
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Bucket          string
	S3CDNURL          string
	S3BasePath        string

	// Web Push (VAPID)
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string

	// Rate limit for auth endpoints (requests per second per IP)
	AuthRateLimit float64
	AuthRateBurst int
}

// Load builds a Config from the environment with sane defaults for development.
func Load() *Config {
	return &Config{
		Env:        getEnv("APP_ENV", "development"),
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),

		DatabaseDSN: getEnv("DATABASE_DSN", "nexlink:nexlink@tcp(127.0.0.1:3306)/nexlink?charset=utf8mb4&parseTime=True&loc=Local"),

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnvInt("REDIS_PORT", 6379),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPoolSize: getEnvInt("REDIS_POOL_SIZE", 10),

		JWTSecret:          getEnv("JWT_SECRET", ""),
		AccessTokenTTLMin:  getEnvInt("ACCESS_TOKEN_TTL_MIN", 60),
		RefreshTokenTTLMin: getEnvInt("REFRESH_TOKEN_TTL_MIN", 10080),

		AllowedOrigins: getEnv("ALLOWED_ORIGINS", ""),

		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3Region:          getEnv("S3_REGION", "auto"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3CDNURL:          getEnv("S3_CDN_URL", ""),
		S3BasePath:        getEnv("S3_BASE_PATH", "uploads/"),

		VAPIDPublicKey:  getEnv("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey: getEnv("VAPID_PRIVATE_KEY", ""),
		VAPIDSubject:    getEnv("VAPID_SUBJECT", "mailto:admin@nexlink.app"),

		AuthRateLimit: getEnvFloat("AUTH_RATE_LIMIT", 5),
		AuthRateBurst: getEnvInt("AUTH_RATE_BURST", 10),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
