package organizer

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"mediabackup/internal/convert"
	"mediabackup/internal/fileutil"
	"mediabackup/internal/logging"
	"mediabackup/internal/media"
	"mediabackup/internal/naming"
	"mediabackup/internal/services"
	"mediabackup/internal/timestamp"
)

// analysis is everything learned about one file before placement.
type analysis struct {
	file media.File
	// work is the path moved into place: the source, or a staged conversion.
	work string
	// staged is a conversion output awaiting placement, removed on failure.
	staged string
	ext    string
	size   int64
	err    error
}

// process analyses candidates on up to o.workers goroutines and places them
// one at a time in discovery order. On cancellation no new analysis starts,
// and files that were analysed but not placed are recorded as interrupted.
func (o *Organizer) process(ctx context.Context, candidates []Candidate, builder *summaryBuilder) {
	results := make([]*analysis, len(candidates))
	ready := make([]chan struct{}, len(candidates))
	for i := range ready {
		ready[i] = make(chan struct{})
	}

	var group errgroup.Group
	group.SetLimit(o.workers)
	scheduled := make(chan struct{})
	go func() {
		defer close(scheduled)
		for i, candidate := range candidates {
			if ctx.Err() != nil {
				return
			}
			group.Go(func() error {
				defer close(ready[i])
				results[i] = o.analyze(ctx, candidate)
				return nil
			})
		}
	}()

	next := 0
	for ; next < len(candidates); next++ {
		select {
		case <-ready[next]:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
		o.observer.FileDone(o.place(ctx, results[next], builder))
	}

	<-scheduled
	_ = group.Wait()

	for ; next < len(candidates); next++ {
		a := results[next]
		if a == nil {
			continue
		}
		err := services.Wrap(services.ErrInterrupted, "placing", "skip", "run interrupted before placement", ctx.Err())
		o.observer.FileDone(o.failFile(ctx, builder, a, err))
	}
}

func (o *Organizer) analyze(ctx context.Context, candidate Candidate) *analysis {
	a := &analysis{
		file: media.File{Source: candidate.Path},
		work: candidate.Path,
		ext:  media.Ext(candidate.Path),
		size: candidate.Size,
	}
	if err := ctx.Err(); err != nil {
		a.err = services.Wrap(services.ErrInterrupted, "analyzing", "start", candidate.Path, err)
		return a
	}
	ctx = services.WithStage(services.WithFile(ctx, candidate.Path), "analyzing")

	a.file.Category = o.classifier.Categorize(candidate.Path)
	switch a.file.Category {
	case media.Sidecar:
		return a
	case media.Unknown:
		if !o.placeUnknown {
			a.file.Status = media.StatusSkipped
			a.file.Reason = "unrecognized file type"
		}
		return a
	}

	var res timestamp.Resolution
	if media.NeedsConversion(a.ext) {
		res, a.err = o.convertForPlacement(ctx, a)
		if a.err != nil {
			return a
		}
	} else {
		res = o.resolver.Resolve(ctx, candidate.Path, a.file.Category)
	}
	if res.Resolved {
		captured := res.Time
		a.file.CaptureTime = &captured
		a.file.TimestampSource = res.Source
	} else {
		a.file.Reason = "capture time unresolved: " + res.Reason
	}
	return a
}

// convertForPlacement transcodes a HEIC/HEIF file and resolves the capture
// time from the converted image. A real run stages the JPEG in the backup
// root; a dry run keeps it in memory.
func (o *Organizer) convertForPlacement(ctx context.Context, a *analysis) (timestamp.Resolution, error) {
	a.file.Converted = true
	a.ext = convert.OutputExt
	if o.dryRun {
		var buf bytes.Buffer
		if err := o.converter.Transcode(&buf, a.file.Source); err != nil {
			return timestamp.Resolution{}, err
		}
		a.size = int64(buf.Len())
		return timestamp.ResolveImage(bytes.NewReader(buf.Bytes())), nil
	}

	staged, err := o.converter.Convert(ctx, a.file.Source, o.stagingDir())
	if err != nil {
		return timestamp.Resolution{}, err
	}
	a.staged = staged
	a.work = staged
	if info, err := os.Stat(staged); err == nil {
		a.size = info.Size()
	}
	return o.resolver.Resolve(ctx, staged, a.file.Category), nil
}

// place applies the outcome of one analysis and records it.
func (o *Organizer) place(ctx context.Context, a *analysis, builder *summaryBuilder) media.File {
	ctx = services.WithStage(services.WithFile(ctx, a.file.Source), "placing")
	logger := logging.WithContext(ctx, o.logger)

	if a.err != nil {
		return o.failFile(ctx, builder, a, a.err)
	}

	switch {
	case a.file.Category == media.Sidecar:
		if !o.dryRun {
			if err := os.Remove(a.file.Source); err != nil && !errors.Is(err, os.ErrNotExist) {
				return o.failFile(ctx, builder, a, services.Wrap(services.ErrPlacement, "placing", "delete sidecar", a.file.Source, err))
			}
		}
		a.file.Status = media.StatusSidecarDeleted
		logger.Debug("sidecar removed", logging.Bool("dry_run", o.dryRun))
		builder.record(a.file)
		return a.file
	case a.file.Status == media.StatusSkipped:
		logger.Debug("file skipped", logging.String("reason", a.file.Reason))
		builder.record(a.file)
		return a.file
	}

	stem := strings.TrimSuffix(filepath.Base(a.file.Source), filepath.Ext(a.file.Source))
	dest, err := o.allocator.Allocate(naming.Request{
		Category: a.file.Category,
		Capture:  a.file.CaptureTime,
		Stem:     stem,
		Ext:      a.ext,
	})
	if err != nil {
		return o.failFile(ctx, builder, a, err)
	}
	dir, _ := o.allocator.Dir(a.file.Category)
	if err := validateDestination(dest, dir); err != nil {
		return o.failFile(ctx, builder, a, err)
	}

	if !o.dryRun {
		if err := o.commit(logger, a, dir, dest); err != nil {
			return o.failFile(ctx, builder, a, err)
		}
	}

	a.file.Destination = dest
	a.file.Status = media.StatusPlaced
	logger.Debug("file placed",
		logging.String("destination", dest),
		logging.String(logging.FieldCategory, a.file.Category.String()),
		logging.Bool("converted", a.file.Converted),
		logging.Bool("dry_run", o.dryRun),
	)
	builder.record(a.file)
	return a.file
}

// commit moves the analysed file to dest and, for conversions, retires the
// original unless it is kept.
func (o *Organizer) commit(logger *slog.Logger, a *analysis, dir, dest string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return services.Wrap(services.ErrPlacement, "placing", "create category dir", dir, err)
	}
	if err := fileutil.MoveFile(a.work, dest); err != nil {
		var removalErr *fileutil.SourceRemovalError
		if !errors.As(err, &removalErr) {
			return services.Wrap(services.ErrPlacement, "placing", "move file", dest, err)
		}
		logging.WarnWithContext(logger, "file copied but source not removed", "source_cleanup_failed",
			logging.String("destination", dest),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the source copy manually"),
			logging.String(logging.FieldImpact, "the file exists in both the source and the backup"),
		)
	}
	a.staged = ""

	if err := checkPlaced(logger, dest, a.size); err != nil {
		return &movedError{dest: dest, err: err}
	}

	if a.file.Converted && !o.keepOriginal {
		if err := os.Remove(a.file.Source); err != nil {
			logging.WarnWithContext(logger, "converted original not removed", "original_cleanup_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "delete the original HEIC manually"),
				logging.String(logging.FieldImpact, "the original remains in the source directory"),
			)
		}
	}
	return nil
}

// failFile records a as failed, discarding any staged conversion.
func (o *Organizer) failFile(ctx context.Context, builder *summaryBuilder, a *analysis, err error) media.File {
	logger := logging.WithContext(services.WithFile(ctx, a.file.Source), o.logger)
	if a.staged != "" {
		if rmErr := os.Remove(a.staged); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			logger.Debug("remove staged conversion failed", logging.Error(rmErr))
		}
		a.staged = ""
	}
	hint := "rerun with --log-level debug for details"
	if services.KindOf(err) == services.KindInterrupted {
		hint = "rerun to process this file"
	}
	impact := "file left in the source directory"
	var moved *movedError
	if errors.As(err, &moved) {
		hint = "check the backup copy before deleting anything"
		impact = "file moved to " + moved.dest + " but not verified"
		if a.file.Converted {
			impact += "; the original is still in the source directory"
		}
	}
	logging.WarnWithContext(logger, "file not placed", "file_failed",
		logging.String(logging.FieldCategory, a.file.Category.String()),
		logging.String("kind", services.KindOf(err)),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, hint),
		logging.String(logging.FieldImpact, impact),
	)
	return builder.fail(a.file, err)
}
