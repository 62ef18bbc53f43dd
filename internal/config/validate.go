package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateConversion(); err != nil {
		return err
	}
	if c.Organize.Workers < 1 {
		return errors.New("organize.workers must be at least 1")
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	source := strings.TrimSpace(c.Paths.SourceDir)
	backup := strings.TrimSpace(c.Paths.BackupDir)
	if source == "" {
		return errors.New("paths.source_dir must be set")
	}
	if backup == "" {
		return errors.New("paths.backup_dir must be set")
	}
	if filepath.Clean(source) == filepath.Clean(backup) {
		return fmt.Errorf("paths.backup_dir must differ from paths.source_dir (%s)", source)
	}
	if rel, err := filepath.Rel(backup, source); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
		return fmt.Errorf("paths.source_dir %s must not be inside paths.backup_dir %s", source, backup)
	}
	return nil
}

func (c *Config) validateConversion() error {
	if c.Conversion.Quality < 1 || c.Conversion.Quality > 100 {
		return fmt.Errorf("conversion.quality must be between 1 and 100, got %d", c.Conversion.Quality)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
}
