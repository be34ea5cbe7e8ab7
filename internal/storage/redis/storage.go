package redis

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/numbermaster/internal/model"
	"github.com/mcoot/numbermaster/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.ResultsLimit <= 0 {
		cfg.ResultsLimit = storage.DefaultResultsLimit
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveRoundResult(ctx context.Context, result *model.RoundResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	// Use transaction so the list and records stay consistent
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, resultsKey(), data)
	pipe.LTrim(ctx, resultsKey(), 0, int64(s.cfg.ResultsLimit-1))
	for _, name := range result.Players {
		key := recordKey(name)
		pipe.HSet(ctx, key, fieldName, name)
		pipe.HIncrBy(ctx, key, outcomeField(result.OutcomeFor(name)), 1)
		if s.cfg.RecordTTL > 0 {
			pipe.Expire(ctx, key, s.cfg.RecordTTL)
		}
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) RecentResults(ctx context.Context, limit int) ([]*model.RoundResult, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	raw, err := s.client.LRange(ctx, resultsKey(), 0, stop).Result()
	if err != nil {
		return nil, err
	}

	results := make([]*model.RoundResult, 0, len(raw))
	for _, item := range raw {
		var r model.RoundResult
		if err := json.Unmarshal([]byte(item), &r); err != nil {
			return nil, err
		}
		results = append(results, &r)
	}
	return results, nil
}

func (s *Storage) GetPlayerRecord(ctx context.Context, name string) (*model.PlayerRecord, error) {
	fields, err := s.client.HGetAll(ctx, recordKey(name)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, model.ErrPlayerRecordNotFound
	}

	rec := &model.PlayerRecord{Name: fields[fieldName]}
	rec.Wins, _ = strconv.Atoi(fields[fieldWins])
	rec.Losses, _ = strconv.Atoi(fields[fieldLosses])
	rec.Draws, _ = strconv.Atoi(fields[fieldDraws])
	return rec, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
