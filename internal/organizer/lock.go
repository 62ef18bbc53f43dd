package organizer

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"

	"mediabackup/internal/services"
)

// LockFileName is the file locked inside the backup root while a run writes to it.
const LockFileName = ".mediabackup.lock"

// acquireRunLock takes the exclusive lock on root, failing when another run
// already holds it.
func acquireRunLock(root string) (*flock.Flock, error) {
	lock := flock.New(filepath.Join(root, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "organizer", "lock backup root", root, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "organizer", "lock backup root",
			fmt.Sprintf("another run is writing to %s", root), nil)
	}
	return lock, nil
}
