package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCodeHelpers(t *testing.T) {
	cause := errors.New("boom")
	err := NewError(CodeNotFound, "GetTestCase", "test case 9 not found", cause)

	if !IsCode(err, CodeNotFound) {
		t.Fatalf("expected not_found, got %q", CodeOf(err))
	}
	if IsCode(err, CodeConflict) {
		t.Fatalf("conflict should not match")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause should survive unwrapping")
	}

	wrapped := fmt.Errorf("handler: %w", err)
	if !IsCode(wrapped, CodeNotFound) {
		t.Fatalf("code should survive fmt wrapping")
	}
	if CodeOf(errors.New("plain")) != "" {
		t.Fatalf("plain error should carry no code")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(CodeUnavailable, "op", nil) != nil {
		t.Fatalf("Wrap(nil) should be nil")
	}
}
