package organizer

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"mediabackup/internal/classify"
	"mediabackup/internal/config"
	"mediabackup/internal/convert"
	"mediabackup/internal/logging"
	"mediabackup/internal/naming"
	"mediabackup/internal/preflight"
	"mediabackup/internal/services"
	"mediabackup/internal/stage"
	"mediabackup/internal/timestamp"
)

// StagingDirName is the hidden directory inside the backup root that holds
// conversions until they are placed.
const StagingDirName = ".converting"

// Option customizes an Organizer.
type Option func(*Organizer)

// WithObserver registers progress callbacks.
func WithObserver(observer Observer) Option {
	return func(o *Organizer) {
		if observer != nil {
			o.observer = observer
		}
	}
}

// Organizer drives a single backup run: scan the source tree, analyse each
// file, and place it in the backup tree.
type Organizer struct {
	source       string
	backup       string
	dryRun       bool
	workers      int
	placeUnknown bool
	keepOriginal bool

	logger     *slog.Logger
	observer   Observer
	classifier *classify.Classifier
	resolver   *timestamp.Resolver
	converter  *convert.Converter
	allocator  *naming.Allocator
	machine    stage.Machine
}

// New constructs an Organizer from cfg. The Organizer runs once.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Organizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	workers := cfg.Organize.Workers
	if workers < 1 {
		workers = 1
	}
	o := &Organizer{
		source:       filepath.Clean(cfg.Paths.SourceDir),
		backup:       filepath.Clean(cfg.Paths.BackupDir),
		dryRun:       cfg.Organize.DryRun,
		workers:      workers,
		placeUnknown: cfg.Organize.PlaceUnknown,
		keepOriginal: cfg.Conversion.KeepOriginal,
		logger:       logging.NewComponentLogger(logger, "organizer"),
		observer:     nopObserver{},
		classifier:   classify.New(logger),
		resolver:     timestamp.NewResolver(cfg.FFprobeBinary(), logger),
		converter:    convert.New(cfg.Conversion.Quality, logger),
	}
	o.allocator = naming.NewAllocator(o.backup, naming.NewUsedNames())
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Components returns the pipeline components for health reporting.
func (o *Organizer) Components() []stage.HealthChecker {
	return []stage.HealthChecker{o.classifier, o.converter, o.resolver}
}

// Classifier exposes the classifier used by the run.
func (o *Organizer) Classifier() *classify.Classifier {
	return o.classifier
}

// Resolver exposes the timestamp resolver used by the run.
func (o *Organizer) Resolver() *timestamp.Resolver {
	return o.resolver
}

// State returns the current run state.
func (o *Organizer) State() stage.State {
	return o.machine.Current()
}

// ScanReport previews a run without analysing capture times or touching files.
type ScanReport struct {
	Source     string
	Candidates []Candidate
	TotalBytes int64
	Report     classify.Report
}

// Scan lists and classifies the files a run would process.
func (o *Organizer) Scan(ctx context.Context) (ScanReport, error) {
	if err := o.checkSource(); err != nil {
		return ScanReport{}, err
	}
	candidates, err := scanSource(ctx, o.source, o.backup, o.logger)
	if err != nil {
		return ScanReport{}, err
	}
	paths := make([]string, len(candidates))
	for i, c := range candidates {
		paths[i] = c.Path
	}
	report, err := o.classifier.CategorizeAll(ctx, paths)
	if err != nil {
		return ScanReport{}, services.Wrap(services.ErrInterrupted, "scanning", "classify", o.source, err)
	}
	return ScanReport{
		Source:     o.source,
		Candidates: candidates,
		TotalBytes: totalSize(candidates),
		Report:     report,
	}, nil
}

// Run performs the backup. Per-file problems are recorded in the summary;
// the returned error is non-nil only for configuration faults detected
// before any file is touched, such as a missing source directory, an
// uncreatable backup root, or a concurrent run holding the lock.
func (o *Organizer) Run(ctx context.Context) (RunSummary, error) {
	if err := o.machine.Advance(stage.Scanning); err != nil {
		return RunSummary{}, services.Wrap(services.ErrConfiguration, "organizer", "start", "organizer already ran", err)
	}
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	started := time.Now()
	logger := logging.WithContext(services.WithStage(ctx, stage.Scanning.String()), o.logger)
	logger.Info("starting backup run",
		logging.String(logging.FieldCorrelationID, runID),
		logging.String("source", o.source),
		logging.String("backup", o.backup),
		logging.Bool("dry_run", o.dryRun),
		logging.Int("workers", o.workers),
	)

	if err := o.checkSource(); err != nil {
		return RunSummary{}, err
	}
	if check := preflight.CheckBackupRoot("Backup root", o.backup); !check.Passed {
		return RunSummary{}, services.Wrap(services.ErrConfiguration, "organizer", "check backup root", check.Detail, nil)
	}
	if !o.dryRun {
		if err := os.MkdirAll(o.backup, 0o755); err != nil {
			return RunSummary{}, services.Wrap(services.ErrConfiguration, "organizer", "create backup root", o.backup, err)
		}
		lock, err := acquireRunLock(o.backup)
		if err != nil {
			return RunSummary{}, err
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				logger.Debug("release run lock failed", logging.Error(err))
			}
		}()
	}

	builder := newSummaryBuilder(runID, o.source, o.backup, o.dryRun, started)
	candidates, err := scanSource(ctx, o.source, o.backup, logger)
	if err != nil {
		if errors.Is(err, services.ErrInterrupted) {
			return o.finish(ctx, builder, true), nil
		}
		return RunSummary{}, err
	}
	total := totalSize(candidates)
	logger.Info("scan complete",
		logging.Int("candidates", len(candidates)),
		logging.Int64("total_bytes", total),
	)
	o.observer.ScanComplete(len(candidates))
	if !o.dryRun {
		if check := preflight.CheckFreeSpace("Backup free space", o.backup, total); !check.Passed {
			logging.WarnWithContext(logger, "backup filesystem may run out of space", "low_free_space",
				logging.String("detail", check.Detail),
				logging.String(logging.FieldErrorHint, "free space on the backup filesystem or back up in batches"),
				logging.String(logging.FieldImpact, "files that do not fit are recorded as failed"),
			)
		}
	}

	if err := o.machine.Advance(stage.Processing); err != nil {
		return RunSummary{}, err
	}
	o.process(ctx, candidates, builder)
	return o.finish(ctx, builder, ctx.Err() != nil), nil
}

func (o *Organizer) finish(ctx context.Context, builder *summaryBuilder, interrupted bool) RunSummary {
	_ = o.machine.Advance(stage.Summarizing)
	logger := logging.WithContext(services.WithStage(ctx, stage.Summarizing.String()), o.logger)
	if !o.dryRun {
		if err := os.RemoveAll(o.stagingDir()); err != nil {
			logger.Debug("remove staging directory failed", logging.Error(err))
		}
	}
	summary := builder.finish(time.Now(), interrupted)
	attrs := []logging.Attr{
		logging.Int("processed", summary.Processed),
		logging.Int("failed", summary.Failed),
		logging.Int("missing_timestamp", summary.MissingTimestamp),
		logging.Int("converted", summary.Converted),
		logging.Int("sidecars_deleted", summary.SidecarsDeleted),
		logging.Int("skipped", summary.Skipped),
		logging.Duration("duration", summary.Duration()),
		logging.Bool("dry_run", summary.DryRun),
	}
	if interrupted {
		logging.WarnWithContext(logger, "backup run interrupted", "run_interrupted",
			append(attrs,
				logging.String(logging.FieldErrorHint, "rerun to process the remaining files"),
				logging.String(logging.FieldImpact, "files not yet placed were left in the source"),
			)...,
		)
	} else {
		logger.Info("backup run complete", logging.Args(attrs...)...)
	}
	_ = o.machine.Advance(stage.Done)
	return summary
}

func (o *Organizer) checkSource() error {
	if check := preflight.CheckSourceAccess("Source directory", o.source); !check.Passed {
		return services.Wrap(services.ErrConfiguration, "organizer", "check source", check.Detail, nil)
	}
	return nil
}

func (o *Organizer) stagingDir() string {
	return filepath.Join(o.backup, StagingDirName)
}
