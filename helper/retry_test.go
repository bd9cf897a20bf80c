package helper

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryPolicy(t *testing.T) {
	t.Run("Operation succeeding on a later attempt", func(t *testing.T) {
		policy := NewRetryPolicy(3, time.Millisecond)

		attempts := 0
		err := policy.Do(context.Background(), func() error {
			attempts++
			if attempts < 3 {
				return fmt.Errorf("transient failure")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("Exhausted budget returns the last error", func(t *testing.T) {
		policy := NewRetryPolicy(2, time.Millisecond)

		attempts := 0
		err := policy.Do(context.Background(), func() error {
			attempts++
			return fmt.Errorf("failure %d", attempts)
		})
		require.Error(t, err)
		assert.Equal(t, 2, attempts)
		assert.EqualError(t, err, "failure 2")
	})

	t.Run("Cancelled context stops retrying", func(t *testing.T) {
		policy := NewRetryPolicy(10, 50*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		attempts := 0
		err := policy.Do(ctx, func() error {
			attempts++
			cancel()
			return fmt.Errorf("keep going")
		})
		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("Attempt budget below one is raised to one", func(t *testing.T) {
		policy := NewRetryPolicy(0, time.Millisecond)
		assert.Equal(t, uint64(1), policy.MaxAttempts)

		attempts := 0
		err := policy.Do(context.Background(), func() error {
			attempts++
			return fmt.Errorf("always failing")
		})
		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})
}
