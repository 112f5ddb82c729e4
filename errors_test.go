package mango

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestCodeOf(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorCode
	}{
		{nil, CodeOK},
		{io.EOF, CodeUnknown},
		{ErrNotCompressed, CodeNotCompressed},
		{ErrAlreadyEncrypted, CodeAlreadyEncrypted},
		{fmt.Errorf("%w: bad index", ErrInvalidInput), CodeInvalidInput},
		{fmt.Errorf("%w: %w", ErrDecode, ErrLimitExceeded), CodeLimitExceeded},
		{fmt.Errorf("%w: %w", ErrDecode, ErrValidation), CodeDecode},
		{fmt.Errorf("%w: %w", ErrPermission, io.EOF), CodePermission},
		{ErrDecryptionFailed, CodeDecryptionFailed},
		{ErrWrongState, CodeUnknown},
	}
	for _, tc := range cases {
		if got := CodeOf(tc.err); got != tc.want {
			t.Fatalf("CodeOf(%v) = %s, want %s", tc.err, got, tc.want)
		}
	}
}

func TestStateErrorsMatchWrongState(t *testing.T) {
	for _, err := range []error{ErrNotCompressed, ErrAlreadyCompressed, ErrNotEncrypted, ErrAlreadyEncrypted} {
		if !errors.Is(err, ErrWrongState) {
			t.Fatalf("%v must match ErrWrongState", err)
		}
	}
	if errors.Is(ErrNotCompressed, ErrAlreadyCompressed) {
		t.Fatal("state errors must be distinct")
	}
}

func TestErrorCodeString(t *testing.T) {
	for c := CodeOK; c <= CodeLimitExceeded; c++ {
		if c.String() == "unknown" {
			t.Fatalf("code %d has no name", int(c))
		}
	}
	if CodeUnknown.String() != "unknown" {
		t.Fatal("CodeUnknown must print as unknown")
	}
}
