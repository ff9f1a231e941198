package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL  string
	Environment string
	LogLevel    string

	TokenStore  string // file, redis, sql or memory
	TokenFile   string
	TokenKey    string
	RedisURL    string
	DatabaseURL string

	NoticeTTL time.Duration
	ExportDir string

	Events EventConfig
	Dev    DevServerConfig
}

// DevServerConfig configures the local backend started by `examctl devserver`.
type DevServerConfig struct {
	Addr        string
	JWTSecret   string
	TokenTTL    time.Duration
	CORSOrigins string
	Username    string
	Password    string
}

// GetCORSOrigins returns the allowed origins as a slice, empty when CORS is off.
func (c *DevServerConfig) GetCORSOrigins() []string {
	if strings.TrimSpace(c.CORSOrigins) == "" {
		return nil
	}
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	noticeTTL, err := getDuration("NOTICE_TTL", 3*time.Second)
	if err != nil {
		return nil, err
	}
	tokenTTL, err := getDuration("DEV_TOKEN_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	eventsEnabled, err := getBool("EVENTS_ENABLED", false)
	if err != nil {
		return nil, err
	}

	return &Config{
		APIBaseURL:  strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8000"), "/"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		TokenStore:  getEnv("TOKEN_STORE", "file"),
		TokenFile:   getEnv("TOKEN_FILE", defaultTokenFile()),
		TokenKey:    getEnv("TOKEN_KEY", "examclient:access_token"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
		DatabaseURL: getEnv("DATABASE_URL", "examclient.db"),
		NoticeTTL:   noticeTTL,
		ExportDir:   getEnv("EXPORT_DIR", "."),
		Events: EventConfig{
			Enabled:      eventsEnabled,
			Publisher:    getEnv("EVENTS_PUBLISHER", "gochannel"),
			KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),
			Topic:        getEnv("EVENTS_TOPIC", "exam-client.activity"),
		},
		Dev: DevServerConfig{
			Addr:        getEnv("DEV_ADDR", ":8000"),
			JWTSecret:   getEnv("DEV_JWT_SECRET", "a_very_secret_key_that_should_be_changed"),
			TokenTTL:    tokenTTL,
			CORSOrigins: getEnv("DEV_CORS_ORIGINS", ""),
			Username:    getEnv("DEV_USERNAME", "testuser"),
			Password:    getEnv("DEV_PASSWORD", "testpassword"),
		},
	}, nil
}

// IsProduction reports whether the client runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.New("invalid duration for " + key + ": " + value)
	}
	return d, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.New("invalid boolean for " + key + ": " + value)
	}
	return b, nil
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".examclient-token.json"
	}
	return filepath.Join(dir, "examclient", "token.json")
}
