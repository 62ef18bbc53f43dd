package organizer

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"mediabackup/internal/logging"
	"mediabackup/internal/services"
)

// Candidate is one file discovered in the source tree.
type Candidate struct {
	Path string
	Size int64
}

// scanSource walks root and returns every regular, non-hidden file in lexical
// order. The subtree at exclude, typically a backup root nested inside the
// source, is not entered. Unreadable subdirectories are logged and skipped;
// only a failure on root itself is returned.
func scanSource(ctx context.Context, root, exclude string, logger *slog.Logger) ([]Candidate, error) {
	root = filepath.Clean(root)
	if exclude != "" {
		exclude = filepath.Clean(exclude)
	}

	var candidates []Candidate
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			logging.WarnWithContext(logger, "skipping unreadable path", "scan_unreadable",
				logging.String(logging.FieldFile, path),
				logging.Error(walkErr),
				logging.String(logging.FieldErrorHint, "check permissions on the source tree"),
				logging.String(logging.FieldImpact, "files below this path are not backed up"),
			)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if exclude != "" && path == exclude {
				logger.Debug("skipping backup root inside source", logging.String("path", path))
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			logger.Debug("file vanished during scan", logging.String(logging.FieldFile, path), logging.Error(err))
			return nil
		}
		candidates = append(candidates, Candidate{Path: path, Size: info.Size()})
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return candidates, services.Wrap(services.ErrInterrupted, "scanning", "walk source", root, err)
		}
		return nil, services.Wrap(services.ErrConfiguration, "scanning", "walk source", root, err)
	}
	return candidates, nil
}

func totalSize(candidates []Candidate) int64 {
	var total int64
	for _, c := range candidates {
		total += c.Size
	}
	return total
}
