package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the web client.
type Config struct {
	API     APIConfig
	TMDB    TMDBConfig
	Redis   RedisConfig
	Session SessionConfig
	Port    string
}

// APIConfig holds the TrackFilmes application backend configuration.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// TMDBConfig holds TMDB catalog API configuration.
type TMDBConfig struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	Language     string
}

// RedisConfig holds Redis configuration for the session store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SessionConfig holds session cookie and storage settings.
type SessionConfig struct {
	CookieName   string
	TTL          time.Duration
	SecureCookie bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	apiTimeout, _ := strconv.Atoi(getEnv("API_TIMEOUT_SECONDS", "15"))
	sessionTTL, _ := strconv.Atoi(getEnv("SESSION_TTL_HOURS", "720"))
	secure, _ := strconv.ParseBool(getEnv("SESSION_SECURE_COOKIE", "false"))

	cfg := &Config{
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:5000/api"),
			Timeout: time.Duration(apiTimeout) * time.Second,
		},
		TMDB: TMDBConfig{
			APIKey:       getEnv("TMDB_API_KEY", ""),
			BaseURL:      getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
			ImageBaseURL: getEnv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p"),
			Language:     getEnv("TMDB_LANGUAGE", "pt-BR"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Session: SessionConfig{
			CookieName:   getEnv("SESSION_COOKIE_NAME", "trackfilmes_session"),
			TTL:          time.Duration(sessionTTL) * time.Hour,
			SecureCookie: secure,
		},
		Port: getEnv("SERVER_PORT", "3000"),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
