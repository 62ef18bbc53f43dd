// Package preflight provides readiness checks for the filesystem paths and
// external tools a backup run depends on.
//
// These checks run in two contexts:
//   - The organizer calls CheckSourceAccess and CheckBackupRoot before a run.
//     Either failing aborts the run before any file is touched.
//   - The CLI "check" command uses RunAll to display every check, including
//     the advisory free-space and ffprobe checks.
package preflight
