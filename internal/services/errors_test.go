package services_test

import (
	"errors"
	"strings"
	"testing"

	"mediaup/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	t.Parallel()

	base := errors.New("boom")
	err := services.Wrap(services.ErrTransport, "mediaapi", "upload-video", "request rejected", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"mediaapi", "upload-video", "request rejected"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	t.Parallel()

	err := services.Wrap(nil, "poller", "fetch", "blip", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestIsRecoverable(t *testing.T) {
	t.Parallel()

	recoverable := services.Wrap(services.ErrTimeout, "poller", "wait", "deadline elapsed", nil)
	if !services.IsRecoverable(recoverable) {
		t.Fatalf("expected timeout to be recoverable: %v", recoverable)
	}

	for _, marker := range []error{
		services.ErrValidation,
		services.ErrTransport,
		services.ErrProcessingFailed,
		services.ErrIncompleteCompletion,
	} {
		err := services.Wrap(marker, "x", "y", "z", nil)
		if services.IsRecoverable(err) {
			t.Fatalf("expected %v to be final", marker)
		}
	}
}
