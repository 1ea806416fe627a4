package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Dashboard berisi konfigurasi untuk cmd/dashboard (BFF admin).
type Dashboard struct {
	Port            string
	JWTSecret       string
	BackendBaseURL  string
	BackendTimeout  time.Duration
	SessionTTL      time.Duration
	SessionCapacity int
	KafkaBroker     string
	KafkaGroupID    string
}

// Database dipakai oleh directory dan worker.
type Database struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

// Directory berisi konfigurasi untuk cmd/directory (reference backend).
type Directory struct {
	Port      string
	JWTSecret string
	DB        Database
	RedisAddr string
	PhotoDir  string
}

type Worker struct {
	DB           Database
	KafkaBroker  string
	PollInterval time.Duration
}

func LoadDashboard() (Dashboard, error) {
	cfg := Dashboard{
		Port:            getEnv("PORT", "3000"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		BackendBaseURL:  strings.TrimRight(os.Getenv("BACKEND_BASE_URL"), "/"),
		KafkaBroker:     os.Getenv("KAFKA_BROKER"),
		KafkaGroupID:    getEnv("KAFKA_GROUP_ID", "hris-admin-dashboard"),
		SessionCapacity: 256,
	}

	var err error
	if cfg.BackendTimeout, err = getDuration("BACKEND_TIMEOUT", 10*time.Second); err != nil {
		return Dashboard{}, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 30*time.Minute); err != nil {
		return Dashboard{}, err
	}
	if cfg.SessionCapacity, err = getInt("SESSION_CAPACITY", cfg.SessionCapacity); err != nil {
		return Dashboard{}, err
	}

	if cfg.JWTSecret == "" {
		return Dashboard{}, fmt.Errorf("config: JWT_SECRET is required")
	}
	if cfg.BackendBaseURL == "" {
		return Dashboard{}, fmt.Errorf("config: BACKEND_BASE_URL is required")
	}
	if cfg.SessionCapacity < 1 {
		return Dashboard{}, fmt.Errorf("config: SESSION_CAPACITY must be positive")
	}
	return cfg, nil
}

func LoadDirectory() (Directory, error) {
	cfg := Directory{
		Port:      getEnv("PORT", "4000"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		DB:        loadDatabase(),
		RedisAddr: os.Getenv("REDIS_ADDR"),
		PhotoDir:  getEnv("PHOTO_DIR", "uploads/photos"),
	}
	if cfg.JWTSecret == "" {
		return Directory{}, fmt.Errorf("config: JWT_SECRET is required")
	}
	if cfg.DB.Host == "" {
		return Directory{}, fmt.Errorf("config: DB_HOST is required")
	}
	return cfg, nil
}

func LoadWorker() (Worker, error) {
	cfg := Worker{
		DB:          loadDatabase(),
		KafkaBroker: os.Getenv("KAFKA_BROKER"),
	}

	var err error
	if cfg.PollInterval, err = getDuration("OUTBOX_POLL_INTERVAL", 3*time.Second); err != nil {
		return Worker{}, err
	}
	if cfg.KafkaBroker == "" {
		return Worker{}, fmt.Errorf("config: KAFKA_BROKER is required")
	}
	if cfg.DB.Host == "" {
		return Worker{}, fmt.Errorf("config: DB_HOST is required")
	}
	return cfg, nil
}

func loadDatabase() Database {
	return Database{
		Host:     os.Getenv("DB_HOST"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
		Port:     getEnv("DB_PORT", "5432"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: %s must be positive", key)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s: %w", key, err)
	}
	return n, nil
}
