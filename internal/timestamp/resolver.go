package timestamp

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"mediabackup/internal/deps"
	"mediabackup/internal/logging"
	"mediabackup/internal/media"
	"mediabackup/internal/media/ffprobe"
	"mediabackup/internal/metadata"
	"mediabackup/internal/stage"
)

var inspectProbe = ffprobe.Inspect

// videoFields are the container tags consulted in order. Each entry lists the
// names one logical field is published under.
var videoFields = [][]string{
	{"creation_date", "com.apple.quicktime.creationdate"},
	{"date"},
	{"creation_time"},
	{"media_creation"},
}

// dumpKeywords select the ffprobe tag lines scanned when no known field parsed.
var dumpKeywords = []string{"creation", "date", "time"}

// Resolver determines capture times from embedded metadata. It never falls
// back to filesystem times.
type Resolver struct {
	ffprobeBinary string
	logger        *slog.Logger

	probeOnce sync.Once
	probe     deps.Status
}

// NewResolver constructs a Resolver that reads video metadata with the given
// ffprobe binary.
func NewResolver(ffprobeBinary string, logger *slog.Logger) *Resolver {
	return &Resolver{
		ffprobeBinary: strings.TrimSpace(ffprobeBinary),
		logger:        logging.NewComponentLogger(logger, "timestamp"),
	}
}

// VideoBackend reports the availability of the video metadata backend. The
// check runs once per Resolver.
func (r *Resolver) VideoBackend() deps.Status {
	r.probeOnce.Do(func() {
		r.probe = deps.CheckFFprobe(r.ffprobeBinary)
		if !r.probe.Available {
			logging.WarnWithContext(r.logger, "video metadata backend unavailable; video timestamps will be unresolved",
				"ffprobe_unavailable",
				logging.String("binary", r.ffprobeBinary),
				logging.String(logging.FieldErrorHint, r.probe.Detail),
				logging.String(logging.FieldImpact, "videos are placed under their original names"),
			)
		}
	})
	return r.probe
}

// Resolve returns the capture time of the file at path. The category selects
// the metadata source: EXIF for still images and container tags for video.
func (r *Resolver) Resolve(ctx context.Context, path string, category media.Category) Resolution {
	var res Resolution
	switch {
	case category.IsImage():
		res = r.resolveImageFile(path)
	case category == media.Video:
		res = r.resolveVideo(ctx, path)
	default:
		res = unresolved("no timestamp source for %s files", category)
	}
	if res.Resolved {
		r.logger.Debug("capture time resolved",
			logging.String(logging.FieldFile, path),
			logging.String("source", res.Source),
			logging.Time("capture_time", res.Time),
		)
	} else {
		r.logger.Debug("capture time unresolved",
			logging.String(logging.FieldFile, path),
			logging.String("reason", res.Reason),
		)
	}
	return res
}

func (r *Resolver) resolveImageFile(path string) Resolution {
	x, err := metadata.ReadEXIF(path)
	if err != nil {
		return exifUnresolved(err)
	}
	return FromEXIF(x)
}

func (r *Resolver) resolveVideo(ctx context.Context, path string) Resolution {
	backend := r.VideoBackend()
	if !backend.Available {
		return unresolved("video metadata backend unavailable: %s", backend.Detail)
	}
	result, err := inspectProbe(ctx, backend.Command, path)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return unresolved("interrupted")
		}
		return unresolved("ffprobe failed: %v", err)
	}
	seconds := result.DurationSeconds()
	if math.IsNaN(seconds) {
		seconds = 0
	}
	r.logger.Debug("video probed",
		logging.String(logging.FieldFile, path),
		logging.Int("video_streams", result.VideoStreamCount()),
		logging.Duration("duration", time.Duration(seconds*float64(time.Second))),
		logging.Int64("size_bytes", result.SizeBytes()),
	)
	return FromProbe(result)
}

// FromProbe extracts a capture time from ffprobe output. Known fields are
// tried in order; failing those, every tag line mentioning a creation, date,
// or time is scanned for a timestamp.
func FromProbe(result ffprobe.Result) Resolution {
	for _, names := range videoFields {
		for _, name := range names {
			value, ok := result.Tag(name)
			if !ok {
				continue
			}
			if parsed, ok := ParseVideoTime(value); ok {
				return resolved(parsed, "ffprobe:"+names[0])
			}
		}
	}
	for _, line := range result.Dump() {
		lower := strings.ToLower(line)
		if !containsAny(lower, dumpKeywords) {
			continue
		}
		if parsed, ok := ParseVideoTime(line); ok {
			key, _, _ := strings.Cut(line, ":")
			return resolved(parsed, "ffprobe:"+key)
		}
	}
	return unresolved("no creation date in container metadata")
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// HealthCheck reports the resolver as degraded when videos cannot be probed.
func (r *Resolver) HealthCheck(context.Context) stage.Health {
	const name = "Timestamp resolver"
	if backend := r.VideoBackend(); !backend.Available {
		return stage.Degraded(name, "video timestamps unavailable: "+backend.Detail)
	}
	return stage.Healthy(name)
}
