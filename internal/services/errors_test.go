package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"mediabackup/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrConversion, "convert", "encode", "jpeg encode failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrConversion) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"convert", "encode", "jpeg encode failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(services.ErrConfiguration, "", "", "", nil)
	if got := err.Error(); got != "configuration error: operation failed" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, services.KindUnknown},
		{"configuration", services.Wrap(services.ErrConfiguration, "preflight", "source", "missing", nil), services.KindConfiguration},
		{"conversion", services.Wrap(services.ErrConversion, "convert", "decode", "bad", errors.New("x")), services.KindConversion},
		{"placement", services.Wrap(services.ErrPlacement, "place", "move", "denied", nil), services.KindPlacement},
		{"interrupted wins", fmt.Errorf("%w: %w", services.ErrInterrupted, services.ErrPlacement), services.KindInterrupted},
		{"plain", errors.New("plain"), services.KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.KindOf(tt.err); got != tt.want {
				t.Fatalf("KindOf = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsFatalOnlyForConfiguration(t *testing.T) {
	if !services.IsFatal(services.Wrap(services.ErrConfiguration, "preflight", "backup", "uncreatable", nil)) {
		t.Fatal("expected configuration fault to be fatal")
	}
	if services.IsFatal(services.Wrap(services.ErrPlacement, "place", "move", "denied", nil)) {
		t.Fatal("expected placement failure to be non-fatal")
	}
}
