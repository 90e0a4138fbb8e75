// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package upload

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

// recordingSleeper records every requested delay without waiting
type recordingSleeper struct {
	delays []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return ctx.Err()
}

// flakyAttempt fails the first failures calls, then succeeds
func flakyAttempt(failures int, calls *int) AttemptFunc {
	return func(ctx context.Context) (string, error) {
		*calls++
		if *calls <= failures {
			return "", errors.Errorf("attempt %d failed", *calls)
		}
		return "https://cdn/ok.png", nil
	}
}

func TestWithRetry(t *testing.T) {
	tests := []struct {
		name         string
		failures     int
		maxRetries   int
		wantCalls    int
		wantSleeps   int
		wantErr      bool
		errContains  string
		wantAttempts int
	}{
		{name: "first_try", failures: 0, maxRetries: 3, wantCalls: 1, wantSleeps: 0, wantAttempts: 1},
		{name: "succeeds_after_one_failure", failures: 1, maxRetries: 3, wantCalls: 2, wantSleeps: 1, wantAttempts: 2},
		{name: "succeeds_on_last_attempt", failures: 2, maxRetries: 3, wantCalls: 3, wantSleeps: 2, wantAttempts: 3},
		{
			name: "always_fails", failures: 100, maxRetries: 3, wantCalls: 3, wantSleeps: 2, wantAttempts: 3,
			wantErr: true, errContains: "failed after 3 attempts: attempt 3 failed",
		},
		{
			name: "single_attempt_no_sleep", failures: 100, maxRetries: 1, wantCalls: 1, wantSleeps: 0, wantAttempts: 1,
			wantErr: true, errContains: "failed after 1 attempts",
		},
		{
			name: "zero_treated_as_one", failures: 100, maxRetries: 0, wantCalls: 1, wantSleeps: 0, wantAttempts: 1,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			sleeper := &recordingSleeper{}
			calls := 0

			url, attempts, err := WithRetry(ctx, flakyAttempt(tt.failures, &calls), tt.maxRetries, 2*time.Second, sleeper.Sleep)

			assert.Equal(t, tt.wantCalls, calls, "attempt count should match")
			assert.Equal(t, tt.wantAttempts, attempts, "reported attempts should match")
			assert.Len(t, sleeper.delays, tt.wantSleeps, "sleep count should match")
			for _, d := range sleeper.delays {
				assert.Equal(t, 2*time.Second, d, "every retry should wait the configured delay")
			}

			if tt.wantErr {
				require.Error(t, err)
				assert.Empty(t, url)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "https://cdn/ok.png", url)
		})
	}
}

func TestWithRetryCancelledDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext(t))
	calls := 0

	attempt := func(ctx context.Context) (string, error) {
		calls++
		cancel()
		return "", errors.New("boom")
	}

	_, attempts, err := WithRetry(ctx, attempt, 5, time.Hour, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "no attempt should run after cancellation")
	assert.Equal(t, 1, attempts)
}

func TestSleep(t *testing.T) {
	require.NoError(t, Sleep(context.Background(), 0))
	require.NoError(t, Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
}
