package stage

import (
	"context"
	"testing"
)

func TestMachineMovesForwardOnly(t *testing.T) {
	var m Machine
	if m.Current() != Idle {
		t.Fatalf("expected idle, got %s", m.Current())
	}
	for _, next := range []State{Scanning, Processing, Summarizing, Done} {
		if err := m.Advance(next); err != nil {
			t.Fatalf("Advance(%s): %v", next, err)
		}
	}
	if err := m.Advance(Scanning); err == nil {
		t.Fatal("expected re-entering scanning to fail")
	}
	if err := m.Advance(Done); err == nil {
		t.Fatal("expected re-entering done to fail")
	}
}

func TestMachineAllowsEarlyStop(t *testing.T) {
	var m Machine
	if err := m.Advance(Scanning); err != nil {
		t.Fatal(err)
	}
	if err := m.Advance(Summarizing); err != nil {
		t.Fatalf("skipping processing should be allowed: %v", err)
	}
}

type fixedHealth Health

func (f fixedHealth) HealthCheck(context.Context) Health { return Health(f) }

func TestCheckAll(t *testing.T) {
	results := CheckAll(context.Background(),
		fixedHealth(Healthy("Classifier")),
		nil,
		fixedHealth(Degraded("Timestamp resolver", "ffprobe missing")),
	)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[1].Ready || !results[1].Degraded {
		t.Fatalf("unexpected degraded record %#v", results[1])
	}
}
