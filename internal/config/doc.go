// Package config loads, normalizes, and validates mediabackup configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts and paths relative to the working directory), reads TOML files, and
// lets MEDIABACKUP_SOURCE_DIR and MEDIABACKUP_BACKUP_DIR override the file. CLI
// flags are layered on top of both through Override.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
