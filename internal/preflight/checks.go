package preflight

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"

	"mediabackup/internal/deps"
)

// CheckSourceAccess verifies that the source directory exists and can be
// listed and read.
func CheckSourceAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read ok)", path)}
}

// CheckBackupRoot verifies that the backup root is a writable directory or
// can be created. Nothing is created here; a missing root passes when its
// nearest existing ancestor is writable.
func CheckBackupRoot(name, path string) Result {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if !info.IsDir() {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
		}
		if err := unix.Access(path, unix.W_OK|unix.X_OK); err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
	case !errors.Is(err, os.ErrNotExist):
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}

	ancestor, err := nearestExisting(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if info, err := os.Stat(ancestor); err != nil || !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s is not a directory)", path, ancestor)}
	}
	if err := unix.Access(ancestor, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s: %v)", path, ancestor, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

// CheckFreeSpace compares the space available on the filesystem holding path
// against required bytes. The check is advisory.
func CheckFreeSpace(name, path string, required int64) Result {
	result := Result{Name: name, Optional: true}
	target, err := nearestExisting(path)
	if err != nil {
		result.Detail = fmt.Sprintf("cannot determine free space: %v", err)
		return result
	}
	var stat unix.Statfs_t
	if err := unix.Statfs(target, &stat); err != nil {
		result.Detail = fmt.Sprintf("cannot determine free space: %v", err)
		return result
	}
	available := stat.Bavail * uint64(stat.Bsize)
	if required > 0 && available < uint64(required) {
		result.Detail = fmt.Sprintf("%s free, %s needed", humanize.IBytes(available), humanize.IBytes(uint64(required)))
		return result
	}
	result.Passed = true
	result.Detail = fmt.Sprintf("%s free", humanize.IBytes(available))
	return result
}

// CheckVideoBackend reports whether ffprobe is available. Runs proceed without
// it, leaving video timestamps unresolved.
func CheckVideoBackend(binary string) Result {
	status := deps.CheckFFprobe(binary)
	result := Result{Name: status.Name, Passed: status.Available, Optional: true}
	if status.Available {
		result.Detail = status.Command
	} else {
		result.Detail = status.Detail
	}
	return result
}

func nearestExisting(path string) (string, error) {
	current := filepath.Clean(path)
	for {
		if _, err := os.Stat(current); err == nil {
			return current, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no existing ancestor of %s", path)
		}
		current = parent
	}
}
