package auth

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// HashLimiter caps the number of bcrypt computations running at once so a
// burst of logins cannot starve the rest of the server. A nil *HashLimiter
// imposes no limit.
type HashLimiter struct {
	sem *semaphore.Weighted
}

// NewHashLimiter returns a limiter admitting n concurrent computations.
// n <= 0 disables limiting.
func NewHashLimiter(n int) *HashLimiter {
	if n <= 0 {
		return nil
	}
	return &HashLimiter{sem: semaphore.NewWeighted(int64(n))}
}

// Do waits for a slot, honouring ctx while waiting, then runs fn. Once fn has
// started it runs to completion even if ctx is cancelled.
func (l *HashLimiter) Do(ctx context.Context, fn func()) error {
	if l == nil {
		fn()
		return nil
	}
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer l.sem.Release(1)
	fn()
	return nil
}
