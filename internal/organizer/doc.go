// Package organizer runs a backup: it scans the export directory, analyses
// each file, and places it into the category tree under the backup root.
//
// A run moves through the states idle, scanning, processing, summarizing,
// and done, exactly once. Analysis (classification, HEIC conversion, and
// capture-time resolution) fans out across a bounded worker pool, while
// naming and placement happen in discovery order on a single goroutine so
// destination names are deterministic. Sidecars are deleted, unknown files
// are skipped unless configured otherwise, and every per-file problem is
// folded into the RunSummary. Only configuration faults abort a run.
//
// Dry runs perform the same analysis, including in-memory conversion, and
// report the same counts without modifying the filesystem. Real runs hold an
// exclusive lock file in the backup root.
package organizer
