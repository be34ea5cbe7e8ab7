package redis

import (
	"time"

	"github.com/mcoot/numbermaster/internal/storage"
)

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// ResultsLimit caps the recent results list
	ResultsLimit int

	// RecordTTL expires idle player records; zero keeps them forever
	RecordTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		ResultsLimit: storage.DefaultResultsLimit,
		RecordTTL:    30 * 24 * time.Hour,
	}
}
