package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Each field maps to one
// environment variable; required variables are enforced by must() and a
// missing value stops the process at startup.
type Config struct {
	Env  string // application environment (dev, test, prod)
	Port string // HTTP port to listen on

	DatabaseURL string // Postgres connection string

	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	ResetTTLMin    int    // password reset token time-to-live in minutes
	BcryptCost     int    // bcrypt cost for password hashing

	S3Endpoint      string // object store host:port
	S3AccessKey     string // object store access key
	S3SecretKey     string // object store secret key
	S3Bucket        string // bucket holding venue images
	S3Region        string // region passed to the S3 client
	S3UseSSL        bool   // https toward the object store
	S3PublicBaseURL string // base of the image URLs stored in the database

	RabbitURL string // AMQP broker URL, empty disables the event queue
}

// Load reads a .env file when present, then builds the Config from the
// environment. Optional integrations (S3, RabbitMQ) use plain Getenv so
// a development setup without them still boots.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:  must("APP_ENV"),
		Port: must("APP_PORT"),

		DatabaseURL: must("DATABASE_URL"),

		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		ResetTTLMin:    intOr("RESET_TOKEN_TTL_MIN", 30),
		BcryptCost:     mustInt("BCRYPT_COST"),

		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3Bucket:        os.Getenv("S3_BUCKET"),
		S3Region:        envStr("S3_REGION", "us-east-1"),
		S3UseSSL:        envBool("S3_USE_SSL", false),
		S3PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),

		RabbitURL: os.Getenv("RABBITMQ_URL"),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the value to an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// intOr reads an optional integer variable with a default.
func intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
