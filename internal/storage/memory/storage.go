package memory

import (
	"context"
	"sync"

	"github.com/mcoot/numbermaster/internal/model"
	"github.com/mcoot/numbermaster/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	limit   int
	results []*model.RoundResult // newest last
	records map[string]*model.PlayerRecord
}

// New creates a new in-memory storage instance keeping up to limit results.
// A non-positive limit uses storage.DefaultResultsLimit.
func New(limit int) *Storage {
	if limit <= 0 {
		limit = storage.DefaultResultsLimit
	}
	return &Storage{
		limit:   limit,
		records: make(map[string]*model.PlayerRecord),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveRoundResult(ctx context.Context, result *model.RoundResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = append(s.results, result)
	if over := len(s.results) - s.limit; over > 0 {
		s.results = append([]*model.RoundResult(nil), s.results[over:]...)
	}

	for _, name := range result.Players {
		key := model.NormalizeName(name)
		rec, ok := s.records[key]
		if !ok {
			rec = &model.PlayerRecord{}
			s.records[key] = rec
		}
		rec.Name = name
		rec.Apply(result.OutcomeFor(name))
	}
	return nil
}

func (s *Storage) RecentResults(ctx context.Context, limit int) ([]*model.RoundResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.results) {
		limit = len(s.results)
	}
	out := make([]*model.RoundResult, 0, limit)
	for i := len(s.results) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.results[i])
	}
	return out, nil
}

func (s *Storage) GetPlayerRecord(ctx context.Context, name string) (*model.PlayerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[model.NormalizeName(name)]
	if !ok {
		return nil, model.ErrPlayerRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return nil
}
