package factory

import (
	"time"

	"github.com/mcoot/numbermaster/internal/dependencies/mocks"
	"github.com/mcoot/numbermaster/internal/storage/memory"
	"github.com/mcoot/numbermaster/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	MockIDs    *mocks.MockIDs
	Memory     *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Background workers are not started; call Start when a test needs them.
func NewTestApp() *TestApp {
	store := memory.New(0)
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockIDs := mocks.NewMockIDs()

	app, err := newWithDependencies(Config{}, store, mockClock, mockRandom, mockIDs, testutil.NopLogger())
	if err != nil {
		panic(err)
	}

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		MockIDs:    mockIDs,
		Memory:     store,
	}
}
