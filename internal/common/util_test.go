package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte("pw123")
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

func TestSentinels_SurviveWrapping(t *testing.T) {
	for _, e := range []error{ErrorNotFound, ErrorAlreadyExists, ErrorInternal, ErrorUnauthorized, ErrorValidation, ErrorTooLarge} {
		wrapped := fmt.Errorf("layer: %w", e)
		if !errors.Is(wrapped, e) {
			t.Fatalf("errors.Is lost %v through wrapping", e)
		}
	}
}
