// Package fileutil holds the filesystem primitives used to place files in the
// backup tree: verified copies and no-clobber moves that fall back to
// copy-then-delete across filesystems.
package fileutil
