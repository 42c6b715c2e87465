package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/venus/internal/common"
)

var (
	// ErrInvalidToken is the only error TokenCodec.Decode returns. Expired,
	// tampered and malformed tokens are deliberately indistinguishable.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnauthenticated means no usable identity was found on the request.
	ErrUnauthenticated = fmt.Errorf("unauthenticated: %w", common.ErrorUnauthorized)

	// ErrNotOwner is reported exactly like a missing resource.
	ErrNotOwner = fmt.Errorf("not owner: %w", common.ErrorNotFound)

	ErrEmptyPassword = errors.New("empty password")
)

// CredentialError wraps a failure of the password hashing primitive.
type CredentialError struct {
	Op  string
	Err error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("credential %s: %v", e.Op, e.Err)
}

func (e *CredentialError) Unwrap() error { return e.Err }

// SigningError wraps a failure to serialize or sign a token.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("token signing: %v", e.Err)
}

func (e *SigningError) Unwrap() error { return e.Err }
