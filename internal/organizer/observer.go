package organizer

import "mediabackup/internal/media"

// Observer receives progress callbacks during a run. Calls are made from the
// goroutine driving placement, one at a time, in discovery order.
type Observer interface {
	// ScanComplete reports how many candidate files will be processed.
	ScanComplete(total int)
	// FileDone reports the terminal outcome of one file.
	FileDone(file media.File)
}

type nopObserver struct{}

func (nopObserver) ScanComplete(int) {}
func (nopObserver) FileDone(media.File) {}
