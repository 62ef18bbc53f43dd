package services_test

import (
	"context"
	"testing"

	"mediabackup/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithStage(ctx, "resolve")
	ctx = services.WithFile(ctx, "/export/IMG_0001.JPG")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-123" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "resolve" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if file, ok := services.FileFromContext(ctx); !ok || file != "/export/IMG_0001.JPG" {
		t.Fatalf("unexpected file: %v %v", file, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithFile(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.FileFromContext(ctx); ok {
		t.Fatal("expected no file value")
	}
}
