package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/venus/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDecoder struct {
	id    int64
	err   error
	calls int
	got   string
}

func (f *fakeDecoder) Decode(token string) (int64, error) {
	f.calls++
	f.got = token
	return f.id, f.err
}

type countingObserver map[string]int

func (c countingObserver) ObserveResolution(outcome string) { c[outcome]++ }

func TestResolver_ValidToken(t *testing.T) {
	dec := &fakeDecoder{id: 42}
	obs := countingObserver{}
	r := NewResolver(dec, ResolverConfig{}, obs)

	id, err := r.Resolve(context.Background(), RequestMetadata{Authorization: "Bearer T"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "T", dec.got)
	assert.Equal(t, 1, obs[OutcomeToken])
}

func TestResolver_NoTokenSkipsDecoder(t *testing.T) {
	dec := &fakeDecoder{id: 42}
	obs := countingObserver{}
	r := NewResolver(dec, ResolverConfig{}, obs)

	_, err := r.Resolve(context.Background(), RequestMetadata{Host: "api.example.com"})
	assert.Equal(t, ErrUnauthenticated, err)
	assert.Zero(t, dec.calls)
	assert.Equal(t, 1, obs[OutcomeMissing])
}

func TestResolver_DecodeFailureHidesCause(t *testing.T) {
	dec := &fakeDecoder{err: errors.New("signature is invalid")}
	obs := countingObserver{}
	r := NewResolver(dec, ResolverConfig{}, obs)

	_, err := r.Resolve(context.Background(), RequestMetadata{Cookie: "token=bad"})
	assert.Equal(t, ErrUnauthenticated, err)
	assert.NotContains(t, err.Error(), "signature")
	assert.True(t, errors.Is(err, common.ErrorUnauthorized))
	assert.Equal(t, 1, dec.calls, "no retries")
	assert.Equal(t, 1, obs[OutcomeInvalid])
}

func TestResolver_DevBypassRequiresFlag(t *testing.T) {
	md := RequestMetadata{Host: "localhost:8085"}

	off := NewResolver(&fakeDecoder{}, ResolverConfig{DevSubjectID: 1}, nil)
	_, err := off.Resolve(context.Background(), md)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	dec := &fakeDecoder{}
	on := NewResolver(dec, ResolverConfig{InsecureDevBypass: true, DevSubjectID: 1}, nil)
	id, err := on.Resolve(context.Background(), md)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Zero(t, dec.calls, "bypass does not look at the token")

	_, err = on.Resolve(context.Background(), RequestMetadata{Host: "example.com"})
	assert.ErrorIs(t, err, ErrUnauthenticated, "bypass only applies to localhost hosts")
}

func TestResolver_WithRealCodec(t *testing.T) {
	codec := newTestCodec(t)
	r := NewResolver(codec, ResolverConfig{}, nil)

	tok, err := codec.Issue(5, "alice")
	require.NoError(t, err)

	id, err := r.Resolve(context.Background(), RequestMetadata{Authorization: "Bearer " + tok, Cookie: "token=garbage"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)

	_, err = r.Resolve(context.Background(), RequestMetadata{Authorization: "Bearer garbage"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestContextUserID(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)

	ctx := ContextWithUserID(context.Background(), 9)
	id, ok := UserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(9), id)
}
