package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// ErrDestinationExists reports that a move target is already present.
var ErrDestinationExists = errors.New("destination already exists")

// SourceRemovalError reports a move that placed the file but could not remove
// the source afterwards. The destination is complete and verified.
type SourceRemovalError struct {
	Path string
	Err  error
}

func (e *SourceRemovalError) Error() string {
	return fmt.Sprintf("remove source %s after copy: %v", e.Path, e.Err)
}

func (e *SourceRemovalError) Unwrap() error {
	return e.Err
}

var renameFile = os.Rename

// CopyFileVerified streams src to dst with SHA256 + size integrity verification.
// Removes dst on mismatch.
func CopyFileVerified(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	srcSize := srcInfo.Size()

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	tee := io.TeeReader(in, srcHasher)
	multi := io.MultiWriter(out, dstHasher)

	written, err := io.Copy(multi, tee)
	if err != nil {
		_ = os.Remove(dst)
		return err
	}
	if err := out.Sync(); err != nil {
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}

	if written != srcSize {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, written)
	}

	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = os.Remove(dst)
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}

	// Backups keep the original modification time.
	_ = os.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime())
	return nil
}

// MoveFile moves src to dst without replacing an existing dst. A rename is
// attempted first; across filesystems the file is copied to a temporary name
// beside dst, verified, renamed into place, and only then is src removed.
// If that final removal fails a *SourceRemovalError is returned and dst is
// left in place.
func MoveFile(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("move %s: %w", dst, ErrDestinationExists)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat destination: %w", err)
	}

	renameErr := renameFile(src, dst)
	if renameErr == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(renameErr, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return renameErr
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".move-*"+filepath.Ext(dst))
	if err != nil {
		return fmt.Errorf("create temp copy: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()

	if err := CopyFileVerified(src, tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("copy across devices: %w", err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("publish copy: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return &SourceRemovalError{Path: src, Err: err}
	}
	return nil
}
