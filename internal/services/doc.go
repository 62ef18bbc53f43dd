// Package services defines the shared error and context vocabulary used by the
// media pipeline.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, stage names, and the file being
//     processed so log lines can be correlated.
//   - Structured error markers plus the Wrap helper. Markers decide whether a
//     failure aborts the run (configuration faults) or is folded into the
//     per-file outcome (conversion, placement, interruption).
//
// Stage code should wrap errors with a marker at the point of origin; the
// organizer only inspects markers, never message text.
package services
