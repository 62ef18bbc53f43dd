package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"mediabackup/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MEDIABACKUP_SOURCE_DIR", "")
	t.Setenv("MEDIABACKUP_BACKUP_DIR", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if cfg.Paths.SourceDir != filepath.Join(wd, "export") {
		t.Fatalf("unexpected source dir: %q", cfg.Paths.SourceDir)
	}
	if cfg.Paths.BackupDir != filepath.Join(wd, "backup") {
		t.Fatalf("unexpected backup dir: %q", cfg.Paths.BackupDir)
	}
	if cfg.Paths.LogDir != "" {
		t.Fatalf("expected empty log dir, got %q", cfg.Paths.LogDir)
	}
	if cfg.Conversion.Quality != 95 {
		t.Fatalf("expected default quality 95, got %d", cfg.Conversion.Quality)
	}
	if cfg.Organize.DryRun {
		t.Fatal("expected dry run disabled by default")
	}
	if cfg.Organize.Workers != 1 {
		t.Fatalf("expected one worker by default, got %d", cfg.Organize.Workers)
	}
	if cfg.FFprobeBinary() != "ffprobe" {
		t.Fatalf("unexpected ffprobe binary %q", cfg.FFprobeBinary())
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "mediabackup.toml")

	type payload struct {
		Paths struct {
			SourceDir string `toml:"source_dir"`
			BackupDir string `toml:"backup_dir"`
		} `toml:"paths"`
		Conversion struct {
			Quality int `toml:"quality"`
		} `toml:"conversion"`
		Organize struct {
			Workers int `toml:"workers"`
		} `toml:"organize"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.SourceDir = filepath.Join(tempDir, "phone-export")
	custom.Paths.BackupDir = filepath.Join(tempDir, "archive")
	custom.Conversion.Quality = 80
	custom.Organize.Workers = 4
	custom.Logging.Format = "JSON"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}
	t.Setenv("MEDIABACKUP_SOURCE_DIR", "")
	t.Setenv("MEDIABACKUP_BACKUP_DIR", "")

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.SourceDir != custom.Paths.SourceDir {
		t.Fatalf("unexpected source dir %q", cfg.Paths.SourceDir)
	}
	if cfg.Conversion.Quality != 80 {
		t.Fatalf("expected quality 80, got %d", cfg.Conversion.Quality)
	}
	if cfg.Organize.Workers != 4 {
		t.Fatalf("expected 4 workers, got %d", cfg.Organize.Workers)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected lowercased json format, got %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "mediabackup.toml")
	if err := os.WriteFile(configPath, []byte("[paths]\nexport_dir = \"x\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestEnvVarOverridesConfigFilePaths(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "mediabackup.toml")
	content := "[paths]\nsource_dir = \"/file/source\"\nbackup_dir = \"/file/backup\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	envSource := filepath.Join(tempDir, "env-source")
	envBackup := filepath.Join(tempDir, "env-backup")
	t.Setenv("MEDIABACKUP_SOURCE_DIR", envSource)
	t.Setenv("MEDIABACKUP_BACKUP_DIR", envBackup)

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.SourceDir != envSource {
		t.Errorf("expected source from env, got %q", cfg.Paths.SourceDir)
	}
	if cfg.Paths.BackupDir != envBackup {
		t.Errorf("expected backup from env, got %q", cfg.Paths.BackupDir)
	}
}

func TestOverrideAppliesFlagValues(t *testing.T) {
	cfg := config.Default()
	tempDir := t.TempDir()
	if err := cfg.Override(filepath.Join(tempDir, "in"), filepath.Join(tempDir, "out"), 70); err != nil {
		t.Fatalf("Override: %v", err)
	}
	if cfg.Paths.SourceDir != filepath.Join(tempDir, "in") {
		t.Fatalf("unexpected source %q", cfg.Paths.SourceDir)
	}
	if cfg.Conversion.Quality != 70 {
		t.Fatalf("unexpected quality %d", cfg.Conversion.Quality)
	}
	if err := cfg.Override("", "", 101); err == nil {
		t.Fatal("expected out-of-range quality to fail validation")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "[conversion]") {
		t.Fatalf("sample config missing conversion section: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Conversion.Quality != 95 {
		t.Fatalf("expected sample quality 95, got %d", cfg.Conversion.Quality)
	}
	if cfg.Paths.BackupDir != "backup" {
		t.Fatalf("unexpected sample backup dir %q", cfg.Paths.BackupDir)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"quality zero", func(c *config.Config) { c.Conversion.Quality = 0 }},
		{"quality above range", func(c *config.Config) { c.Conversion.Quality = 101 }},
		{"workers zero", func(c *config.Config) { c.Organize.Workers = 0 }},
		{"same dirs", func(c *config.Config) { c.Paths.BackupDir = c.Paths.SourceDir }},
		{"source inside backup", func(c *config.Config) {
			c.Paths.BackupDir = "/data/backup"
			c.Paths.SourceDir = "/data/backup/export"
		}},
		{"missing source", func(c *config.Config) { c.Paths.SourceDir = "" }},
		{"bad level", func(c *config.Config) { c.Logging.Level = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	cfg.Paths.SourceDir = "/data/export"
	cfg.Paths.BackupDir = "/data/export/backup"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("backup nested inside source should be allowed: %v", err)
	}
}
