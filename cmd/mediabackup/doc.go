// Package main hosts the mediabackup CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once, applies per-invocation
// flag overrides to a copy, and hands the result to internal/organizer. The
// commands here only render: scan previews, run summaries, inspection
// tables, and preflight status lines.
//
// Keep this package lean: new behavior belongs in the internal packages and
// is surfaced here through a command or flag.
package main
