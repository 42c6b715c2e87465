package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// HashObserver receives the wall time of every hash or verify call.
type HashObserver interface {
	ObservePasswordHash(op string, d time.Duration)
}

// PasswordHasher hashes and verifies passwords with bcrypt at a fixed cost.
type PasswordHasher struct {
	cost     int
	limiter  *HashLimiter
	observer HashObserver
}

// NewPasswordHasher validates cost and returns a hasher. limiter and observer
// may be nil.
func NewPasswordHasher(cost int, limiter *HashLimiter, observer HashObserver) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &PasswordHasher{cost: cost, limiter: limiter, observer: observer}, nil
}

// Hash returns the bcrypt hash of password. Any primitive failure, including
// passwords longer than 72 bytes, is a *CredentialError.
func (h *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", &CredentialError{Op: "hash", Err: ErrEmptyPassword}
	}

	var (
		out []byte
		err error
	)
	if lerr := h.limiter.Do(ctx, func() {
		defer h.observe("hash", time.Now())
		out, err = bcrypt.GenerateFromPassword([]byte(password), h.cost)
	}); lerr != nil {
		return "", lerr
	}
	if err != nil {
		return "", &CredentialError{Op: "hash", Err: err}
	}
	return string(out), nil
}

// Verify reports whether password matches hash. A mismatch is (false, nil);
// only a structurally invalid stored hash yields a *CredentialError.
func (h *PasswordHasher) Verify(ctx context.Context, password, hash string) (bool, error) {
	var err error
	if lerr := h.limiter.Do(ctx, func() {
		defer h.observe("verify", time.Now())
		err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	}); lerr != nil {
		return false, lerr
	}

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, &CredentialError{Op: "verify", Err: err}
	}
}

func (h *PasswordHasher) observe(op string, start time.Time) {
	if h.observer != nil {
		h.observer.ObservePasswordHash(op, time.Since(start))
	}
}
