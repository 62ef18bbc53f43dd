package preflight

import (
	"fmt"

	"mediabackup/internal/config"
	"mediabackup/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
	// Optional marks advisory checks whose failure does not block a run.
	Optional bool
}

// RunAll executes the preflight checks for cfg. requiredBytes is the total
// size of the files about to be placed; zero skips the free-space check.
func RunAll(cfg *config.Config, requiredBytes int64) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckSourceAccess("Source directory", cfg.Paths.SourceDir),
		CheckBackupRoot("Backup root", cfg.Paths.BackupDir),
	}
	if requiredBytes > 0 {
		results = append(results, CheckFreeSpace("Backup free space", cfg.Paths.BackupDir, requiredBytes))
	}
	results = append(results, CheckVideoBackend(cfg.FFprobeBinary()))
	return results
}

// Blocking returns a configuration error for the first failed required check.
func Blocking(results []Result) error {
	for _, r := range results {
		if !r.Passed && !r.Optional {
			return services.Wrap(services.ErrConfiguration, "preflight", r.Name, r.Detail, nil)
		}
	}
	return nil
}

// Summary renders r as a single status line.
func (r Result) Summary() string {
	return fmt.Sprintf("%s: %s", r.Name, r.Detail)
}
