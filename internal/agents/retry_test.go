// internal/agents/retry_test.go
package agents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neeleshsethi/brand-intelligence-platform/internal/common/config"
	apperrors "github.com/neeleshsethi/brand-intelligence-platform/internal/common/errors"
)

// ==========================
// Test Helper Functions
// ==========================

func newRecordingPolicy(attempts int) (RetryPolicy, *[]time.Duration) {
	waits := &[]time.Duration{}
	p := RetryPolicy{
		MaxAttempts: attempts,
		BaseWait:    2 * time.Second,
		MaxWait:     10 * time.Second,
		sleep: func(ctx context.Context, d time.Duration) error {
			*waits = append(*waits, d)
			return ctx.Err()
		},
	}
	return p, waits
}

// ==========================
// Backoff Schedule Tests
// ==========================

func TestRetryPolicy_Delay(t *testing.T) {
	p := DefaultRetryPolicy()

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{attempt: 0, expected: 2 * time.Second},
		{attempt: 1, expected: 2 * time.Second},
		{attempt: 2, expected: 4 * time.Second},
		{attempt: 3, expected: 8 * time.Second},
		{attempt: 4, expected: 10 * time.Second},
		{attempt: 10, expected: 10 * time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, p.Delay(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestRetryPolicyFromConfig(t *testing.T) {
	p := RetryPolicyFromConfig(config.RetryConfig{MaxAttempts: 5, BaseWait: 500, MaxWait: 3000})

	assert.Equal(t, 5, p.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, p.BaseWait)
	assert.Equal(t, 3*time.Second, p.MaxWait)
}

// ==========================
// Do Tests
// ==========================

func TestRetryPolicy_Do_SucceedsOnLastAttempt(t *testing.T) {
	p, waits := newRecordingPolicy(3)

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, *waits)
}

func TestRetryPolicy_Do_ExhaustsAttempts(t *testing.T) {
	p, waits := newRecordingPolicy(4)

	calls := 0
	var seen []int
	final := errors.New("attempt 4 failed")
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 4 {
			return final
		}
		return errors.New("still failing")
	}, func(attempt int, err error) {
		seen = append(seen, attempt)
	})

	assert.Same(t, final, err)
	assert.Equal(t, 4, calls)
	assert.Equal(t, []int{1, 2, 3, 4}, seen)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}, *waits)
}

func TestRetryPolicy_Do_NonRetryableStopsEarly(t *testing.T) {
	p, waits := newRecordingPolicy(3)
	permanent := errors.New("bad request")
	p.Retryable = func(err error) bool { return !errors.Is(err, permanent) }

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return permanent
	}, nil)

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *waits)
}

func TestRetryPolicy_Do_DefaultClassification(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		expectedCalls int
	}{
		{"unclassified retries", errors.New("connection reset"), 3},
		{"schema retries", apperrors.NewSchemaValidationError("scenario", "missing riskLevel", nil), 3},
		{"invalid request stops", apperrors.NewInvalidRequestError("brand name is required"), 1},
		{"no mock stops", apperrors.NewNoMockAvailableError("custom"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newRecordingPolicy(3)

			calls := 0
			err := p.Do(context.Background(), func(ctx context.Context) error {
				calls++
				return tt.err
			}, nil)

			assert.Same(t, tt.err, err)
			assert.Equal(t, tt.expectedCalls, calls)
		})
	}
}

func TestRetryPolicy_Do_ContextCancelledDuringWait(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, BaseWait: time.Hour, MaxWait: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	last := errors.New("provider down")

	done := make(chan error, 1)
	go func() {
		done <- p.Do(ctx, func(ctx context.Context) error {
			calls++
			return last
		}, nil)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.Same(t, last, err)
		assert.Equal(t, 1, calls)
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return after context cancellation")
	}
}

func TestRetryPolicy_Do_ZeroAttemptsRunsOnce(t *testing.T) {
	p, _ := newRecordingPolicy(0)

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
