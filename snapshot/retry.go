// Copyright 2025 Poiesic Systems
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

package snapshot

import (
	"context"
	"log/slog"
	"time"
)

// DefaultBackoff retries a failed write twice, after 50ms and 100ms.
var DefaultBackoff = Backoff{Attempts: 3, Base: 50 * time.Millisecond}

// Backoff describes how a failed artifact write is retried. The delay
// starts at Base and doubles after every failed attempt.
type Backoff struct {
	Attempts int
	Base     time.Duration
}

// Validate reports ErrInvalidMaxAttempts when Attempts is not positive.
func (b Backoff) Validate() error {
	if b.Attempts <= 0 {
		return ErrInvalidMaxAttempts
	}
	return nil
}

// Do runs op until it succeeds, the attempts run out or ctx is done.
// It returns the error of the last attempt, or the context error.
func (b Backoff) Do(ctx context.Context, op func() error, logger *slog.Logger) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if logger == nil {
		logger = slog.Default()
	}

	delay := b.Base
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := op()
		switch {
		case err == nil && attempt > 1:
			logger.Debug("write succeeded after retry", "attempt", attempt)
			return nil
		case err == nil:
			return nil
		case attempt == b.Attempts:
			return err
		}
		logger.Debug("write failed, backing off", "attempt", attempt, "of", b.Attempts, "delay", delay, "err", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
