package workpool

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCoversEveryIndexExactlyOnce(t *testing.T) {
	const n = 257
	var seen [n]atomic.Int32
	completed, err := Run(context.Background(), n, 8, func(_ context.Context, i int) error {
		seen[i].Add(1)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, completed)
	for i, v := range seen {
		assert.Equal(t, int32(1), v.Load(), "index %d", i)
	}
}

func TestRunPropagatesError(t *testing.T) {
	boom := assert.AnError
	completed, err := Run(context.Background(), 10, 4, func(_ context.Context, i int) error {
		if i == 5 {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
	assert.False(t, completed)
}

func TestRunRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var processed atomic.Int32
	completed, err := Run(ctx, 1000, 4, func(ctx context.Context, i int) error {
		if i == 0 {
			cancel()
		}
		processed.Add(1)
		return nil
	})
	require.NoError(t, err)
	assert.False(t, completed)
	assert.Less(t, int(processed.Load()), 1000)
}
