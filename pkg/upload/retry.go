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
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// AttemptFunc performs one upload attempt
type AttemptFunc func(ctx context.Context) (string, error)

// ⏱️ Sleeper waits for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the default Sleeper backed by a timer
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// 🔁 WithRetry runs attempt up to maxRetries times, sleeping delay between
// failures. It returns the url of the first success, or the last failure
// once attempts are exhausted, along with the number of attempts made.
func WithRetry(ctx context.Context, attempt AttemptFunc, maxRetries int, delay time.Duration, sleep Sleeper) (string, int, error) {
	if maxRetries < 1 {
		maxRetries = 1
	}
	if sleep == nil {
		sleep = Sleep
	}

	logger := zerolog.Ctx(ctx)

	var lastErr error
	for i := 1; i <= maxRetries; i++ {
		url, err := attempt(ctx)
		if err == nil {
			return url, i, nil
		}
		lastErr = err

		if i == maxRetries {
			break
		}

		logger.Debug().Err(err).Int("attempt", i).Int("max_retries", maxRetries).Msg("upload attempt failed, retrying")

		if err := sleep(ctx, delay); err != nil {
			return "", i, errors.Errorf("waiting to retry: %w", err)
		}
	}

	return "", maxRetries, errors.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}
