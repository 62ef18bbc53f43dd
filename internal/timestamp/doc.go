// Package timestamp resolves the capture time of photos and videos from their
// embedded metadata.
//
// Still images consult the EXIF tags DateTimeOriginal, DateTimeDigitized, and
// DateTime in that order, skipping any that fail to parse. Videos are probed
// with ffprobe; the known creation fields are tried first and the remaining
// tag lines are scanned as a fallback. A file whose metadata yields nothing is
// reported as unresolved with a reason. Filesystem times are never used.
//
// All times are wall-clock values as recorded by the device and carry the UTC
// location without any zone conversion.
package timestamp
