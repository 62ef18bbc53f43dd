package metadata

import "io"

// SetHEICExtractorForTests overrides HEIF EXIF extraction and returns a restore function.
func SetHEICExtractorForTests(fn func(io.ReaderAt) ([]byte, error)) func() {
	prev := extractHEICExif
	if fn == nil {
		fn = prev
	}
	extractHEICExif = fn
	return func() {
		extractHEICExif = prev
	}
}
