package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/numbermaster/internal/dependencies/ident"
)

// MockIDs is a deterministic Generator producing "<prefix>_<n>" per prefix
type MockIDs struct {
	mu       sync.Mutex
	counters map[string]int
}

// Ensure MockIDs implements Generator
var _ ident.Generator = (*MockIDs)(nil)

// NewMockIDs creates a new MockIDs
func NewMockIDs() *MockIDs {
	return &MockIDs{counters: make(map[string]int)}
}

// NewID returns the next sequential id for the prefix, starting at 1
func (g *MockIDs) NewID(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counters[prefix]++
	return fmt.Sprintf("%s_%d", prefix, g.counters[prefix])
}
