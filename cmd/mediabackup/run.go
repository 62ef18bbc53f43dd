package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mediabackup/internal/config"
	"mediabackup/internal/organizer"
	"mediabackup/internal/services"
)

type runOptions struct {
	paths        pathFlags
	dryRun       bool
	quality      int
	workers      int
	keepOriginal bool
	placeUnknown bool
	yes          bool
	jsonOutput   bool
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Organize the source export into the backup tree",
		Long: "Classify every file under the source directory, resolve its capture time, " +
			"convert HEIC images to JPEG, and move each file into a dated name under the backup root.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.invocationConfig()
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, cfg); err != nil {
				return err
			}
			logger, err := newLogger(cmd, cfg)
			if err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return executeRun(signalCtx, cmd, cfg, logger, opts)
		},
	}

	opts.paths.register(cmd)
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "Report what would happen without touching any file")
	cmd.Flags().IntVarP(&opts.quality, "quality", "q", 0, "JPEG quality for HEIC conversion, 1-100 (overrides conversion.quality)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "Files analysed in parallel (overrides organize.workers)")
	cmd.Flags().BoolVar(&opts.keepOriginal, "keep-original", false, "Leave converted HEIC originals in the source")
	cmd.Flags().BoolVar(&opts.placeUnknown, "place-unknown", false, "Place unrecognized files under unknown/ instead of skipping them")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the run summary as JSON")
	return cmd
}

// apply layers explicitly set flags over the loaded configuration.
func (o runOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("dry-run") {
		cfg.Organize.DryRun = o.dryRun
	}
	if flags.Changed("quality") {
		cfg.Conversion.Quality = o.quality
	}
	if flags.Changed("workers") {
		cfg.Organize.Workers = o.workers
	}
	if flags.Changed("keep-original") {
		cfg.Conversion.KeepOriginal = o.keepOriginal
	}
	if flags.Changed("place-unknown") {
		cfg.Organize.PlaceUnknown = o.placeUnknown
	}
	return o.paths.apply(cfg)
}

func executeRun(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, opts runOptions) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	dryRun := cfg.Organize.DryRun

	var orgOpts []organizer.Option
	var progress *progressObserver
	if !opts.jsonOutput && isTerminal(errOut) {
		progress = newProgressObserver(errOut)
		orgOpts = append(orgOpts, organizer.WithObserver(progress))
	}
	org := organizer.New(cfg, logger, orgOpts...)

	if !opts.jsonOutput {
		colorize := shouldColorize(out)
		if dryRun {
			printLines(out, renderSectionHeader("DRY RUN: the filesystem will not be modified", colorize))
			fmt.Fprintln(out)
		}
		preview, err := org.Scan(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, renderScanTable(preview))
		if preview.Report.Total == 0 {
			fmt.Fprintln(out, "No files found in the source directory")
			return nil
		}
		in := cmd.InOrStdin()
		if !dryRun && !opts.yes && isTerminal(in) {
			question := fmt.Sprintf("Proceed with processing %d files?", preview.Report.Processable())
			ok, err := confirm(in, out, question)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "Cancelled; no files were changed")
				return nil
			}
		}
	}

	summary, err := org.Run(ctx)
	if progress != nil {
		progress.finish()
	}
	if err != nil {
		if services.IsFatal(err) {
			return fmt.Errorf("run aborted before any file was touched: %w", err)
		}
		return err
	}

	if opts.jsonOutput {
		if err := writeJSON(cmd, summary); err != nil {
			return err
		}
	} else {
		renderRunSummary(out, summary, shouldColorize(out))
	}
	return runOutcome(summary)
}

var errRunInterrupted = errors.New("run interrupted; rerun to process the remaining files")

// runOutcome turns an incomplete run into a non-zero exit.
func runOutcome(summary organizer.RunSummary) error {
	switch {
	case summary.Interrupted:
		return errRunInterrupted
	case summary.Failed > 0:
		return fmt.Errorf("%d of %d files failed; see the failure table above", summary.Failed, len(summary.Files))
	default:
		return nil
	}
}

func renderRunSummary(out io.Writer, summary organizer.RunSummary, colorize bool) {
	title := "Processing Results"
	sidecarLabel := "Sidecars deleted"
	if summary.DryRun {
		title = "Dry Run Results"
		sidecarLabel = "Sidecars to delete"
	}
	rows := [][]string{
		{"Files processed", strconv.Itoa(summary.Processed)},
		{"HEIC converted", strconv.Itoa(summary.Converted)},
		{sidecarLabel, strconv.Itoa(summary.SidecarsDeleted)},
		{"Missing timestamps", strconv.Itoa(summary.MissingTimestamp)},
		{"Skipped", strconv.Itoa(summary.Skipped)},
		{"Failed", strconv.Itoa(summary.Failed)},
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable(tableSpec{
		title:   title,
		headers: []string{"Result", "Count"},
		rows:    rows,
		footer:  []string{"Duration", summary.Duration().Round(time.Millisecond).String()},
		aligns:  []columnAlignment{alignLeft, alignRight},
	}))

	if len(summary.Failures) > 0 {
		failures := make([][]string, 0, len(summary.Failures))
		for _, f := range summary.Failures {
			failures = append(failures, []string{relativeTo(summary.Source, f.Path), f.Kind, f.Reason})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable(tableSpec{
			title:   "Failed Files",
			headers: []string{"File", "Kind", "Reason"},
			rows:    failures,
		}))
	}

	if len(summary.MissingTimestamps) > 0 {
		fmt.Fprintln(out)
		printLines(out, renderSectionHeader("Files without a capture timestamp", colorize))
		for _, path := range summary.MissingTimestamps {
			fmt.Fprintf(out, "%s%s\n", statusIndent, relativeTo(summary.Source, path))
		}
	}

	if summary.Interrupted {
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderStatusLine("Run", statusWarn, "interrupted before every file was processed", colorize))
	}
}

func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
