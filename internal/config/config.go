package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable; durations are expressed in the unit their
// variable names carry.
type Config struct {
	Env                 string // application environment (e.g. "dev", "prod")
	Port                string // HTTP port to listen on
	JWTSecret           string // secret used to verify bearer tokens
	LogLevel            string // zap log level (debug/info/warn/error)
	CooldownHours       int    // recreate cooldown window after a soft delete
	ViewDedupTTLMin     int    // duplicate-view suppression window
	FavoriteDebounceSec int    // favorite toggle debounce window
}

// Load reads configuration from the environment. Required variables are
// enforced by must(); optional ones fall back to sensible defaults.
func Load() Config {
	return Config{
		Env:                 must("APP_ENV"),
		Port:                must("APP_PORT"),
		JWTSecret:           must("JWT_SECRET"),
		LogLevel:            getDefault("LOG_LEVEL", "info"),
		CooldownHours:       getInt("RECREATE_COOLDOWN_HOURS", 72),
		ViewDedupTTLMin:     getInt("VIEW_DEDUP_TTL_MIN", 30),
		FavoriteDebounceSec: getInt("FAVORITE_DEBOUNCE_SEC", 2),
	}
}

// must retrieves a required environment variable; missing or empty values
// abort startup with a fatal log message.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getInt reads an optional integer variable, falling back to def when
// unset and aborting on unparseable values.
func getInt(key string, def int) int {
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
