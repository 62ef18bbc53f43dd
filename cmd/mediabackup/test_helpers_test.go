package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediabackup/internal/config"
	"mediabackup/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithMissingFFprobe())
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("MEDIABACKUP_SOURCE_DIR", "")
	t.Setenv("MEDIABACKUP_BACKUP_DIR", "")

	configPath := filepath.Join(base, "mediabackup.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nsource_dir = %q\nbackup_dir = %q\n\n[video]\nffprobe_binary = %q\n",
		cfg.Paths.SourceDir,
		cfg.Paths.BackupDir,
		cfg.Video.FFprobeBinary,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// populateExport writes one dated photo, one screenshot, one sidecar, and
// one video without readable metadata.
func populateExport(t *testing.T, dir string) {
	t.Helper()
	exif := testsupport.BuildEXIF(testsupport.EXIFTags{DateTimeOriginal: "2024:05:01 12:00:00"})
	testsupport.WriteBytes(t, filepath.Join(dir, "IMG_0001.JPG"), testsupport.JPEG(t, exif))
	testsupport.WriteBytes(t, filepath.Join(dir, "Screenshot 2024-03-02.png"), testsupport.PNG(t))
	testsupport.WriteBytes(t, filepath.Join(dir, "IMG_0001.aae"), []byte("<plist/>"))
	testsupport.WriteBytes(t, filepath.Join(dir, "clip.mov"), []byte("moov"))
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

// requireContainsFold matches case-insensitively since the table renderer
// upper-cases headers and footers.
func requireContainsFold(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(strings.ToLower(output), strings.ToLower(substr)) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
