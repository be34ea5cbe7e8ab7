package worker

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/numbermaster/internal/testutil"
)

type countingTarget struct {
	calls atomic.Int32
}

func (c *countingTarget) Sweep() int {
	c.calls.Add(1)
	return 1
}

func TestSweeperRunsPeriodically(t *testing.T) {
	target := &countingTarget{}
	sweeper, err := NewSweeper(target, 20*time.Millisecond, testutil.NopLogger())
	require.NoError(t, err)

	sweeper.Start()
	assert.Eventually(t, func() bool {
		return target.calls.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, sweeper.Stop())
	stopped := target.calls.Load()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, stopped, target.calls.Load())
}

func TestSweeperDefaultInterval(t *testing.T) {
	sweeper, err := NewSweeper(&countingTarget{}, 0, testutil.NopLogger())
	require.NoError(t, err)

	assert.Equal(t, DefaultSweepInterval, sweeper.interval)
	sweeper.Start()
	require.NoError(t, sweeper.Stop())
}
