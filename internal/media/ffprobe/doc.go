// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual stream properties and tags
//   - Format: container-level metadata and tags
//
// Inspect runs the binary; Decode parses a captured payload. Tag looks up a
// named container or stream tag and Dump flattens all tags into text lines for
// keyword scanning.
package ffprobe
