package naming

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"mediabackup/internal/media"
	"mediabackup/internal/services"
	"mediabackup/internal/textutil"
)

// TimeLayout formats capture times into destination base names.
const TimeLayout = "20060102_150405"

// MaxAttempts bounds the disambiguation counter for a single base name.
const MaxAttempts = 10000

const fallbackStem = "unnamed"

// Request describes the file a destination is allocated for.
type Request struct {
	Category media.Category
	// Capture is the resolved capture time; nil when unresolved.
	Capture *time.Time
	// Stem is the original file name without extension, used when Capture is nil.
	Stem string
	// Ext is the extension of the file being placed, including the dot.
	Ext string
}

// Allocator hands out unique destination paths under a backup root.
type Allocator struct {
	root   string
	used   *UsedNames
	exists func(string) bool
}

// NewAllocator returns an Allocator rooted at root that records its choices
// in used. Paths already present on disk are never handed out.
func NewAllocator(root string, used *UsedNames) *Allocator {
	if used == nil {
		used = NewUsedNames()
	}
	return &Allocator{root: root, used: used, exists: pathExists}
}

// Used exposes the run-wide set of claimed names.
func (a *Allocator) Used() *UsedNames {
	return a.used
}

// Dir returns the category directory under the backup root.
func (a *Allocator) Dir(category media.Category) (string, bool) {
	name, ok := category.Dir()
	if !ok {
		return "", false
	}
	return filepath.Join(a.root, name), true
}

// Allocate picks a destination for req and claims it. The base name is the
// capture time, or the sanitized original stem when the time is unresolved;
// on collision _1, _2, ... are appended before the extension.
func (a *Allocator) Allocate(req Request) (string, error) {
	dir, ok := a.Dir(req.Category)
	if !ok {
		return "", services.Wrap(services.ErrValidation, "naming", "allocate",
			fmt.Sprintf("category %s has no destination directory", req.Category), nil)
	}
	base := BaseName(req)
	ext := strings.ToLower(req.Ext)

	for i := 0; i < MaxAttempts; i++ {
		name := base + ext
		if i > 0 {
			name = base + "_" + strconv.Itoa(i) + ext
		}
		candidate := filepath.Join(dir, name)
		if a.used.Contains(candidate) || a.exists(candidate) {
			continue
		}
		if a.used.Claim(candidate) {
			return candidate, nil
		}
	}
	return "", services.Wrap(services.ErrPlacement, "naming", "allocate",
		fmt.Sprintf("no free name for %s%s after %d attempts", base, ext, MaxAttempts), nil)
}

// BaseName returns the undecorated base name req maps to.
func BaseName(req Request) string {
	if req.Capture != nil {
		return req.Capture.Format(TimeLayout)
	}
	if stem := textutil.SanitizeFileName(req.Stem); stem != "" {
		return stem
	}
	return fallbackStem
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	if err == nil {
		return true
	}
	// Anything other than a clean miss is treated as taken.
	return !errors.Is(err, os.ErrNotExist)
}
