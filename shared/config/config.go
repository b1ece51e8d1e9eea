package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Temporal connection settings shared by the API server and the worker
type Temporal struct {
	Host      string `envconfig:"TEMPORAL_HOST" default:"localhost:7233"`
	TaskQueue string `envconfig:"TEMPORAL_TASK_QUEUE" default:"hall-booking-queue"`
}

// Server configures the API server
type Server struct {
	Port        string `envconfig:"API_PORT" default:"8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	Temporal    Temporal

	// An empty RedisAddr disables the catalog cache.
	RedisAddr       string        `envconfig:"REDIS_ADDR"`
	RedisPassword   string        `envconfig:"REDIS_PASSWORD"`
	RedisDB         int           `envconfig:"REDIS_DB" default:"0"`
	CatalogCacheTTL time.Duration `envconfig:"CATALOG_CACHE_TTL" default:"10m"`

	SlotHoldDuration     time.Duration `envconfig:"SLOT_HOLD_DURATION" default:"15m"`
	DefaultPageSize      int           `envconfig:"DEFAULT_PAGE_SIZE" default:"10"`
	FenceSearchResponses bool          `envconfig:"FENCE_SEARCH_RESPONSES" default:"false"`
}

// Worker configures the Temporal worker
type Worker struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	Temporal    Temporal
}

// Load reads envFile (when present) into the environment, then decodes the environment into out
func Load(envFile string, out interface{}) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}
	if err := envconfig.Process("", out); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	return nil
}
