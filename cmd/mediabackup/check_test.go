package main

import (
	"path/filepath"
	"testing"
)

func TestCheckReportsPreflightAndComponents(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	requireContains(t, out, "== Preflight ==")
	requireContains(t, out, "Source directory:")
	requireContains(t, out, "== Components ==")
	requireContains(t, out, "[WARN]")
	requireContains(t, out, env.configPath)
}

func TestCheckFailsForMissingSource(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"check", "--source", filepath.Join(env.baseDir, "gone")}, env.configPath)
	if err == nil {
		t.Fatal("expected check to fail")
	}
	requireContains(t, out, "[ERROR]")
}
