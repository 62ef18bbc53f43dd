package naming

import (
	"path/filepath"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// UsedNames is the set of destination paths claimed during one run. Keys are
// case-folded so names differing only in case are treated as the same file,
// matching case-insensitive backup filesystems.
type UsedNames struct {
	mu    sync.Mutex
	names map[string]struct{}
}

// NewUsedNames returns an empty set.
func NewUsedNames() *UsedNames {
	return &UsedNames{names: make(map[string]struct{})}
}

// Claim registers path and reports whether it was free.
func (u *UsedNames) Claim(path string) bool {
	key := nameKey(path)
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, taken := u.names[key]; taken {
		return false
	}
	u.names[key] = struct{}{}
	return true
}

// Contains reports whether path has been claimed.
func (u *UsedNames) Contains(path string) bool {
	key := nameKey(path)
	u.mu.Lock()
	defer u.mu.Unlock()
	_, taken := u.names[key]
	return taken
}

// Len returns the number of claimed paths.
func (u *UsedNames) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.names)
}

func nameKey(path string) string {
	return cases.Fold().String(norm.NFC.String(filepath.Clean(path)))
}
