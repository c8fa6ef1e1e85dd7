package bulkrun

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/decant-catalog/internal/app/product/domain"
)

func TestRun(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("keeps selection order under concurrency", func(t *testing.T) {
		ids := make([]string, 50)
		for i := range ids {
			ids[i] = fmt.Sprintf("p%02d", i)
		}

		result, err := Run(ctx, ids, 8, logger, func(ctx context.Context, id string) (bool, error) {
			return true, nil
		})
		require.NoError(t, err)
		assert.Equal(t, ids, result.UpdatedIDs)
		assert.Equal(t, 50, result.Updated)
	})

	t.Run("respects the limit", func(t *testing.T) {
		var inFlight, peak atomic.Int32
		ids := []string{"a", "b", "c", "d", "e", "f"}

		_, err := Run(ctx, ids, 2, logger, func(ctx context.Context, id string) (bool, error) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			inFlight.Add(-1)
			return true, nil
		})
		require.NoError(t, err)
		assert.LessOrEqual(t, peak.Load(), int32(2))
	})

	t.Run("collects failures and skips", func(t *testing.T) {
		ids := []string{"ok", "gone", "skip", "boom"}

		result, err := Run(ctx, ids, 3, logger, func(ctx context.Context, id string) (bool, error) {
			switch id {
			case "gone":
				return false, fmt.Errorf("load: %w", domain.ErrProductNotFound)
			case "skip":
				return false, nil
			case "boom":
				return false, errors.New("boom")
			}
			return true, nil
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"ok"}, result.UpdatedIDs)
		require.Len(t, result.Failed, 2)
		assert.Equal(t, "gone", result.Failed[0].ProductID)
		assert.Equal(t, "boom", result.Failed[1].ProductID)
		require.Len(t, result.NotFound(), 1)
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		result, err := Run(cctx, []string{"a"}, 1, logger, func(ctx context.Context, id string) (bool, error) {
			return true, nil
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, err, ErrInterrupted)
		require.NotNil(t, result)
		assert.Zero(t, result.Updated)
		assert.Equal(t, []string{"a"}, result.Pending)
	})

	t.Run("interruption keeps what was committed", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		defer cancel()

		result, err := Run(cctx, []string{"a", "b", "c", "d"}, 1, logger, func(ctx context.Context, id string) (bool, error) {
			if id == "b" {
				cancel()
			}
			return true, nil
		})
		assert.ErrorIs(t, err, ErrInterrupted)
		require.NotNil(t, result)
		assert.Equal(t, 2, result.Updated)
		assert.Equal(t, []string{"a", "b"}, result.UpdatedIDs)
		assert.Equal(t, []string{"c", "d"}, result.Pending)
		assert.Empty(t, result.Failed)
	})

	t.Run("empty selection", func(t *testing.T) {
		result, err := Run(ctx, nil, 4, logger, nil)
		require.NoError(t, err)
		assert.Zero(t, result.Updated)
		assert.Empty(t, result.UpdatedIDs)
		assert.Empty(t, result.Pending)
	})
}
