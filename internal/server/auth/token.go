package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Claims is the identity token payload: {sub, uid, username, exp}.
type Claims struct {
	UID      int64  `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenCodec issues and decodes HS256 identity tokens with one shared secret.
// It is safe for concurrent use.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customises a TokenCodec.
type TokenOption func(*TokenCodec)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) TokenOption {
	return func(c *TokenCodec) { c.now = now }
}

func NewTokenCodec(secret []byte, ttl time.Duration, opts ...TokenOption) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret is empty")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	c := &TokenCodec{
		secret: append([]byte(nil), secret...),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Issue mints a token for the given account, expiring TTL from now.
func (c *TokenCodec) Issue(subjectID int64, username string) (string, error) {
	claims := Claims{
		UID:      subjectID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subjectID, 10),
			ExpiresAt: jwt.NewNumericDate(c.now().Add(c.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", &SigningError{Err: err}
	}
	return token, nil
}

// Decode verifies token and returns its subject id. Every failure is
// ErrInvalidToken.
func (c *TokenCodec) Decode(token string) (int64, error) {
	claims, err := c.decodeClaims(token)
	if err != nil {
		return 0, err
	}
	return claims.UID, nil
}

// decodeClaims is Decode returning the whole claim set.
func (c *TokenCodec) decodeClaims(token string) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	// sub and uid are written together; disagreement means a forged payload.
	if claims.UID <= 0 || claims.Subject != strconv.FormatInt(claims.UID, 10) {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
