package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	API     APIConfig
	Demo    DemoConfig
	Storage StorageConfig
	Redis   RedisConfig
	Log     LogConfig
}

// APIConfig controls the outbound client against the real backend.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// DemoConfig governs demo mode and the embedded demo server.
type DemoConfig struct {
	Enabled        bool
	Latency        time.Duration
	Port           int
	JWTSecret      string
	JWTExpiration  time.Duration
	RefreshExpiry  time.Duration
	AllowedOrigins []string
}

// StorageConfig selects where persisted client state lives.
type StorageConfig struct {
	Backend string // "file" or "redis"
	Dir     string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.API = APIConfig{
		BaseURL: v.GetString("API_BASE_URL"),
		Timeout: parseDuration(v.GetString("API_TIMEOUT"), 15*time.Second),
	}

	cfg.Demo = DemoConfig{
		Enabled:        v.GetBool("DEMO_MODE"),
		Latency:        parseDuration(v.GetString("DEMO_LATENCY"), 250*time.Millisecond),
		Port:           v.GetInt("DEMO_SERVER_PORT"),
		JWTSecret:      v.GetString("DEMO_JWT_SECRET"),
		JWTExpiration:  parseDuration(v.GetString("DEMO_JWT_EXPIRATION"), 15*time.Minute),
		RefreshExpiry:  parseDuration(v.GetString("DEMO_REFRESH_EXPIRATION"), 7*24*time.Hour),
		AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS")),
	}

	cfg.Storage = StorageConfig{
		Backend: v.GetString("STORAGE_BACKEND"),
		Dir:     v.GetString("STORAGE_DIR"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("API_BASE_URL", "http://localhost:5000/api")
	v.SetDefault("API_TIMEOUT", "15s")

	v.SetDefault("DEMO_MODE", false)
	v.SetDefault("DEMO_LATENCY", "250ms")
	v.SetDefault("DEMO_SERVER_PORT", 5000)
	v.SetDefault("DEMO_JWT_SECRET", "demo_secret")
	v.SetDefault("DEMO_JWT_EXPIRATION", "15m")
	v.SetDefault("DEMO_REFRESH_EXPIRATION", "168h")
	v.SetDefault("ALLOWED_ORIGINS", "")

	v.SetDefault("STORAGE_BACKEND", "file")
	v.SetDefault("STORAGE_DIR", "./.boarding")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
