package organizer

import "log/slog"

// SetPlacementCheckForTests swaps the post-move validation and returns a
// restore func.
func SetPlacementCheckForTests(fn func(logger *slog.Logger, dest string, wantSize int64) error) func() {
	prev := checkPlaced
	checkPlaced = fn
	return func() { checkPlaced = prev }
}
