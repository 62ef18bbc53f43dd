package classify

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"mediabackup/internal/logging"
	"mediabackup/internal/media"
	"mediabackup/internal/metadata"
	"mediabackup/internal/stage"
)

// Result is the classification of one file together with the evidence behind it.
type Result struct {
	Path     string
	Category media.Category
	// Signals names every generated-content signal that fired.
	Signals []string
	// ProbeErrors lists content probes that failed and were ignored.
	ProbeErrors []string
}

// Classifier assigns files to categories from extension, filename, and
// embedded metadata. It never modifies the files it inspects.
type Classifier struct {
	logger *slog.Logger
}

// New constructs a Classifier. A nil logger discards output.
func New(logger *slog.Logger) *Classifier {
	return &Classifier{
		logger: logging.NewComponentLogger(logger, "classifier"),
	}
}

// Categorize returns the category for path.
func (c *Classifier) Categorize(path string) media.Category {
	return c.Inspect(path).Category
}

// Inspect classifies path and reports the signals that decided it.
func (c *Classifier) Inspect(path string) Result {
	res := Result{Path: path}
	ext := media.Ext(path)

	switch {
	case media.IsSidecarExt(ext):
		res.Category = media.Sidecar
	case media.IsScreenshotExt(ext):
		switch {
		case c.looksLikeScreenshot(path):
			res.Category = media.Screenshot
		case c.detectGenerated(path, ext, &res):
			res.Category = media.Generated
		default:
			res.Category = media.Photo
		}
	case media.IsPhotoExt(ext):
		if c.detectGenerated(path, ext, &res) {
			res.Category = media.Generated
		} else {
			res.Category = media.Photo
		}
	case media.IsVideoExt(ext):
		res.Category = media.Video
	default:
		res.Category = media.Unknown
		c.logger.Debug("unrecognized extension",
			logging.String(logging.FieldFile, path),
			logging.String("extension", ext),
		)
	}
	return res
}

func (c *Classifier) looksLikeScreenshot(path string) bool {
	name := fold(filepath.Base(path))
	for _, pattern := range screenshotPatterns {
		if strings.Contains(name, pattern) {
			return true
		}
	}
	return strings.HasPrefix(name, "img_3") && strings.HasSuffix(name, ".png")
}

// detectGenerated runs the generated-content probes cheapest first and stops
// at the first positive signal.
func (c *Classifier) detectGenerated(path, ext string, res *Result) bool {
	if isUUIDShaped(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))) {
		res.Signals = append(res.Signals, SignalUUIDName)
		return true
	}

	if ext == ".png" {
		marker, err := c.pngTextMarker(path)
		if err != nil {
			c.probeFailed(path, "png_text", err, res)
		} else if marker != "" {
			res.Signals = append(res.Signals, SignalTextMarker+":"+marker)
			return true
		}
	}

	software, err := c.editedWithoutProvenance(path)
	if err != nil {
		c.probeFailed(path, "exif", err, res)
		return false
	}
	if software != "" {
		res.Signals = append(res.Signals, SignalEditedNoCapture+":"+software)
		return true
	}
	return false
}

func (c *Classifier) pngTextMarker(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	meta, err := metadata.ReadPNG(file)
	if err != nil {
		return "", err
	}
	for _, entry := range meta.Text {
		if marker := c.matchMarker(entry.Keyword + " " + entry.Text); marker != "" {
			return marker, nil
		}
	}
	return "", nil
}

// editedWithoutProvenance returns the matched editor when the EXIF Software
// tag names a known editor and no original capture time exists.
func (c *Classifier) editedWithoutProvenance(path string) (string, error) {
	x, err := metadata.ReadEXIF(path)
	if err != nil {
		if errors.Is(err, metadata.ErrNoEXIF) {
			return "", nil
		}
		return "", err
	}
	software, state := x.Text(metadata.Software)
	if state != metadata.TagPresent || x.Has(metadata.DateTimeOriginal) {
		return "", nil
	}
	folded := fold(software)
	for _, editor := range editingSoftware {
		if strings.Contains(folded, editor) {
			return editor, nil
		}
	}
	return "", nil
}

// matchMarker finds a generator marker in text. Markers of three or more
// letters match anywhere; shorter ones must stand alone as a word.
func (c *Classifier) matchMarker(text string) string {
	folded := fold(text)
	var words map[string]struct{}
	for _, marker := range generatorMarkers {
		if len(marker) >= 3 {
			if strings.Contains(folded, marker) {
				return marker
			}
			continue
		}
		if words == nil {
			words = tokenSet(folded)
		}
		if _, ok := words[marker]; ok {
			return marker
		}
	}
	return ""
}

func (c *Classifier) probeFailed(path, probe string, err error, res *Result) {
	res.ProbeErrors = append(res.ProbeErrors, probe+": "+err.Error())
	c.logger.Debug("content probe failed; classifying by extension",
		logging.String(logging.FieldFile, path),
		logging.String("probe", probe),
		logging.Error(err),
	)
}

// Report groups a batch of classified files.
type Report struct {
	Groups map[media.Category][]string
	Total  int
}

// Count returns the number of files in category.
func (r Report) Count(category media.Category) int {
	return len(r.Groups[category])
}

// Processable returns the number of files that would be placed in the backup tree.
func (r Report) Processable() int {
	n := 0
	for category, paths := range r.Groups {
		if category.Processable() {
			n += len(paths)
		}
	}
	return n
}

// CategorizeAll classifies paths in order. Each call builds a fresh report, so
// classifying the same set twice yields the same grouping rather than
// accumulating. Cancellation stops the batch and returns what was grouped.
func (c *Classifier) CategorizeAll(ctx context.Context, paths []string) (Report, error) {
	report := Report{Groups: make(map[media.Category][]string, len(media.Categories))}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		category := c.Categorize(path)
		report.Groups[category] = append(report.Groups[category], path)
		report.Total++
	}
	return report, nil
}

// HealthCheck reports the classifier as ready; it has no external dependencies.
func (c *Classifier) HealthCheck(context.Context) stage.Health {
	return stage.Healthy("Classifier")
}
