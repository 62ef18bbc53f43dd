package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains source, backup, and log directory configuration.
type Paths struct {
	SourceDir string `toml:"source_dir"`
	BackupDir string `toml:"backup_dir"`
	LogDir    string `toml:"log_dir"`
}

// Conversion controls HEIC/HEIF normalization.
type Conversion struct {
	Quality      int  `toml:"quality"`
	KeepOriginal bool `toml:"keep_original"`
}

// Organize controls how a run walks and places files.
type Organize struct {
	DryRun       bool `toml:"dry_run"`
	Workers      int  `toml:"workers"`
	PlaceUnknown bool `toml:"place_unknown"`
}

// Video contains the metadata backend used for video capture times.
type Video struct {
	FFprobeBinary string `toml:"ffprobe_binary"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for a backup run.
//
// Configuration sections by subsystem:
//   - Paths: export source, backup root, optional log directory
//   - Conversion: JPEG quality and whether converted originals are kept
//   - Organize: dry-run default, analysis workers, unknown-file placement
//   - Video: ffprobe binary used for container metadata
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Conversion Conversion `toml:"conversion"`
	Organize   Organize   `toml:"organize"`
	Video      Video      `toml:"video"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// Override applies per-invocation values on top of the loaded file. Empty
// strings and zero quality leave the loaded value in place.
func (c *Config) Override(source, backup string, quality int) error {
	var err error
	if strings.TrimSpace(source) != "" {
		if c.Paths.SourceDir, err = expandPath(source); err != nil {
			return fmt.Errorf("source: %w", err)
		}
	}
	if strings.TrimSpace(backup) != "" {
		if c.Paths.BackupDir, err = expandPath(backup); err != nil {
			return fmt.Errorf("backup: %w", err)
		}
	}
	if quality != 0 {
		c.Conversion.Quality = quality
	}
	return c.Validate()
}

// FFprobeBinary returns the ffprobe executable used for video metadata.
func (c *Config) FFprobeBinary() string {
	if bin := strings.TrimSpace(c.Video.FFprobeBinary); bin != "" {
		return bin
	}
	return defaultFFprobeBinary
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
