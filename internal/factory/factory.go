package factory

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/numbermaster/internal/api"
	"github.com/mcoot/numbermaster/internal/dependencies/clock"
	"github.com/mcoot/numbermaster/internal/dependencies/ident"
	"github.com/mcoot/numbermaster/internal/dependencies/random"
	"github.com/mcoot/numbermaster/internal/services/coordinator"
	"github.com/mcoot/numbermaster/internal/services/results"
	"github.com/mcoot/numbermaster/internal/storage"
	"github.com/mcoot/numbermaster/internal/storage/memory"
	redisstorage "github.com/mcoot/numbermaster/internal/storage/redis"
	"github.com/mcoot/numbermaster/internal/worker"
	"github.com/mcoot/numbermaster/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	IDs    ident.Generator

	// Services
	Hub         *ws.Hub
	Coordinator *coordinator.Coordinator
	Archiver    *results.Archiver
	Sweeper     *worker.Sweeper

	logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the results backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// ResultsLimit caps the in-memory results list; zero uses the storage default
	ResultsLimit int
	// GracePeriod is how long a disconnected participant may take to resume
	GracePeriod time.Duration
	// SweepInterval is how often expired sessions are swept
	SweepInterval time.Duration
	// ArchiveBuffer is the number of results queued for storage before dropping
	ArchiveBuffer int
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New(cfg.ResultsLimit)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(cfg, store, clock.New(), random.New(), ident.New(), logger)
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	cfg Config,
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	ids ident.Generator,
	logger *slog.Logger,
) (*App, error) {
	hub := ws.NewHub(logger)
	archiver := results.NewArchiver(store, cfg.ArchiveBuffer, logger)
	coord := coordinator.New(
		coordinator.Config{GracePeriod: cfg.GracePeriod},
		hub,
		archiver,
		ids,
		clk,
		rnd,
		logger,
	)
	sweeper, err := worker.NewSweeper(coord, cfg.SweepInterval, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Storage:     store,
		Clock:       clk,
		Random:      rnd,
		IDs:         ids,
		Hub:         hub,
		Coordinator: coord,
		Archiver:    archiver,
		Sweeper:     sweeper,
		logger:      logger,
	}, nil
}

// Start launches the background workers
func (a *App) Start() {
	a.Archiver.Start()
	a.Sweeper.Start()
}

// Close stops background workers, drops all connections and releases storage
func (a *App) Close() error {
	var errs []error
	if err := a.Sweeper.Stop(); err != nil {
		errs = append(errs, err)
	}
	a.Hub.Close()
	a.Archiver.Stop()
	if closer, ok := a.Storage.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WebSocketHandler returns the handler that upgrades game connections
func (a *App) WebSocketHandler() http.Handler {
	return ws.NewServer(a.Hub, a.Coordinator, a.IDs, a.logger)
}

// Router returns the full HTTP handler: the REST API plus the game socket
func (a *App) Router(logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = a.logger
	}
	return api.NewRouter(api.RouterConfig{
		Logger:      logger,
		Coordinator: a.Coordinator,
		Archiver:    a.Archiver,
		Storage:     a.Storage,
		WebSocket:   a.WebSocketHandler(),
	})
}
