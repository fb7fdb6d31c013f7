package config

import (
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port int `envconfig:"PORT" default:"8080"`
	// DatabaseURL is optional; without it sketches are kept in memory.
	DatabaseURL    string        `envconfig:"DATABASE_URL"`
	JWTSecret      string        `envconfig:"JWT_SECRET" default:"dev-secret-change-in-production"`
	AllowedOrigins string        `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	ScreenWidth    float64       `envconfig:"SCREEN_WIDTH" default:"390"`
	ScreenHeight   float64       `envconfig:"SCREEN_HEIGHT" default:"844"`
	SnapshotSettle time.Duration `envconfig:"SNAPSHOT_SETTLE" default:"100ms"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"10m"`
	LogLevel       slog.Level    `envconfig:"LOG_LEVEL" default:"INFO"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
