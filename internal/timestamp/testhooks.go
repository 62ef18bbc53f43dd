package timestamp

import (
	"context"

	"mediabackup/internal/media/ffprobe"
)

// SetProbeForTests swaps the ffprobe invocation and returns a restore func.
func SetProbeForTests(fn func(context.Context, string, string) (ffprobe.Result, error)) func() {
	prev := inspectProbe
	inspectProbe = fn
	return func() { inspectProbe = prev }
}
