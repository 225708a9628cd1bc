package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration. Each field maps to one
// environment variable; required ones are enforced by must().
type Config struct {
	Env  string // application environment (dev/test/prod)
	Port string // HTTP port to listen on

	MongoURI string // connection string for the authoritative store
	MongoDB  string // database name in the authoritative store

	CacheDriver string // "mysql" or "memory"
	DBUser      string // cache database username
	DBPass      string // cache database password (optional)
	DBHost      string // cache database host
	DBPort      string // cache database port
	DBName      string // cache database name

	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing

	AllowedEmailDomain string        // registration is limited to this email domain
	SyncInterval       time.Duration // cadence for availability auto-sync
}

// Load reads configuration from environment variables. Missing required
// variables abort startup with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:                must("APP_ENV"),
		Port:               must("APP_PORT"),
		MongoURI:           must("MONGO_URI"),
		MongoDB:            must("MONGO_DB"),
		CacheDriver:        envStr("CACHE_DRIVER", "mysql"),
		DBPass:             os.Getenv("DB_PASS"),
		JWTSecret:          must("JWT_SECRET"),
		AccessTTLMin:       mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays:     mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:         mustInt("BCRYPT_COST"),
		AllowedEmailDomain: envStr("ALLOWED_EMAIL_DOMAIN", "uvg.edu.gt"),
		SyncInterval:       envDur("SYNC_INTERVAL", 10*time.Second),
	}
	if cfg.CacheDriver == "mysql" {
		cfg.DBUser = must("DB_USER")
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	}
	return cfg
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but parses the value as an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
