// Package media defines the shared vocabulary of the backup pipeline: the
// closed Category enumeration with its backup directory names, the extension
// tables used for dispatch, and the per-file record carried through a run.
package media
