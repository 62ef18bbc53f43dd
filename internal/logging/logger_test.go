package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mediabackup/internal/config"
	"mediabackup/internal/logging"
	"mediabackup/internal/services"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("run started", logging.Int("files", 3))

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, logging.LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "run started") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message without caller")
	if strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", buf.String())
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message with caller")
	if !strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", buf.String())
	}
}

func TestConsoleLoggerRendersSubjectAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithFile(services.WithStage(context.Background(), "place"), "/export/IMG_0001.JPG")
	logging.WithContext(ctx, logging.NewComponentLogger(logger, "organizer")).Info(
		"file placed",
		logging.String("destination", "photos/20240501_120000.jpg"),
		logging.Int64("size_bytes", 2048),
	)
	out := buf.String()
	for _, fragment := range []string{"[organizer]", "IMG_0001.JPG (place)", "file placed", "Destination: photos/20240501_120000.jpg", "Size Bytes: 2.0 KiB"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in %q", fragment, out)
		}
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "conversion failed", "conversion_failed", logging.Error(errors.New("decode")))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if record[logging.FieldEventType] != "conversion_failed" {
		t.Fatalf("unexpected event type %v", record[logging.FieldEventType])
	}
	for _, key := range []string{logging.FieldErrorHint, logging.FieldImpact, "ts", "level"} {
		if _, ok := record[key]; !ok {
			t.Fatalf("expected %s in %v", key, record)
		}
	}
	if record["level"] != "warn" {
		t.Fatalf("expected lowercased level, got %v", record["level"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml", Writer: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-xyz")
	ctx = services.WithStage(ctx, "resolve")
	ctx = services.WithFile(ctx, "/export/clip.mov")

	logging.WithContext(ctx, logger).Info("contextual log")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	want := map[string]string{
		logging.FieldRunID: "run-xyz",
		logging.FieldStage: "resolve",
		logging.FieldFile:  "/export/clip.mov",
	}
	for key, value := range want {
		if record[key] != value {
			t.Fatalf("field %s = %v, want %s", key, record[key], value)
		}
	}
}

func TestConsoleHeaderShowsRunAndCategory(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithRunID(context.Background(), "3f2a9c1e-8b7d-4e2f-9a61-0c5d4b3a2f10")
	ctx = services.WithFile(services.WithStage(ctx, "processing"), "/export/IMG_0042.HEIC")
	logging.WithContext(ctx, logger).Info("file placed", logging.String(logging.FieldCategory, "photo"))

	out := buf.String()
	for _, fragment := range []string{"#3f2a9c1e", "IMG_0042.HEIC (photo, processing)"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in %q", fragment, out)
		}
	}
	if strings.Contains(out, "Category:") || strings.Contains(out, "hidden") {
		t.Fatalf("header fields should not repeat as detail lines: %q", out)
	}
}

func TestJSONDurationsAreMilliseconds(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("backup run complete", logging.Duration("duration", 1500*time.Millisecond))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if record["duration_ms"] != float64(1500) {
		t.Fatalf("duration_ms = %v in %v", record["duration_ms"], record)
	}
	if _, ok := record["duration"]; ok {
		t.Fatalf("raw duration should be replaced: %v", record)
	}
}
