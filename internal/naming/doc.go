// Package naming allocates collision-free destination paths in the backup tree.
//
// Destinations take the form <root>/<category dir>/YYYYMMDD_HHMMSS<ext>. Files
// without a capture time keep their sanitized original stem. Every allocation
// is registered in a run-wide UsedNames set, and names already present on disk
// are skipped, so no two files in a run or across runs share a path.
package naming
