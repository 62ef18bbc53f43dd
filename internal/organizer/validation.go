package organizer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"mediabackup/internal/logging"
	"mediabackup/internal/services"
)

var checkPlaced = validatePlaced

// movedError is a failure raised after the file already reached dest.
type movedError struct {
	dest string
	err  error
}

func (e *movedError) Error() string {
	return fmt.Sprintf("%v (file left at %s)", e.err, e.dest)
}

func (e *movedError) Unwrap() error { return e.err }

// validateDestination verifies that dest lies directly inside dir. Allocated
// names are sanitized, so a failure here indicates a logic bug.
func validateDestination(dest, dir string) error {
	clean := filepath.Clean(strings.TrimSpace(dest))
	if clean == "." || clean == "" {
		return services.Wrap(services.ErrValidation, "placing", "validate destination",
			"Allocation produced an empty target path", nil)
	}
	if filepath.Dir(clean) != filepath.Clean(dir) {
		return services.Wrap(services.ErrValidation, "placing", "validate destination",
			fmt.Sprintf("Target %q escapes category directory %q", clean, dir), nil)
	}
	return nil
}

// validatePlaced verifies that a moved file exists at dest with the size the
// source had before the move.
func validatePlaced(logger *slog.Logger, dest string, wantSize int64) error {
	info, err := os.Stat(dest)
	if err != nil {
		logger.Error("placement validation failed", logging.String("reason", "stat failure"), logging.Error(err))
		return services.Wrap(services.ErrPlacement, "placing", "validate output",
			"Failed to stat placed file", err)
	}
	if info.IsDir() {
		logger.Error("placement validation failed", logging.String("reason", "path is directory"), logging.String("destination", dest))
		return services.Wrap(services.ErrPlacement, "placing", "validate output",
			"Placed artifact points to a directory", nil)
	}
	if wantSize >= 0 && info.Size() != wantSize {
		logger.Error("placement validation failed",
			logging.String("reason", "size mismatch"),
			logging.Int64("size_bytes", info.Size()),
			logging.Int64("expected_bytes", wantSize),
		)
		return services.Wrap(services.ErrPlacement, "placing", "validate output",
			fmt.Sprintf("Placed file %q has %d bytes, expected %d", dest, info.Size(), wantSize), nil)
	}
	return nil
}
