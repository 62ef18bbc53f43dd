package organizer

import (
	"maps"
	"slices"
	"time"

	"mediabackup/internal/media"
	"mediabackup/internal/services"
)

// Failure is one file that could not be handled.
type Failure struct {
	Path   string `json:"path"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// RunSummary is the report of one run. It is the only output of the
// organizer and is not modified after Run returns.
type RunSummary struct {
	RunID       string    `json:"run_id"`
	Source      string    `json:"source"`
	Backup      string    `json:"backup"`
	DryRun      bool      `json:"dry_run"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	Interrupted bool      `json:"interrupted"`

	Processed        int `json:"processed"`
	Failed           int `json:"failed"`
	MissingTimestamp int `json:"missing_timestamp"`
	Converted        int `json:"converted"`
	SidecarsDeleted  int `json:"sidecars_deleted"`
	Skipped          int `json:"skipped"`

	Categories        map[media.Category]int `json:"categories"`
	Files             []media.File           `json:"files"`
	Failures          []Failure              `json:"failures"`
	MissingTimestamps []string               `json:"missing_timestamps"`
}

// Duration returns the wall time the run took.
func (s RunSummary) Duration() time.Duration {
	if s.FinishedAt.Before(s.StartedAt) {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Succeeded reports a run that finished with no failed files.
func (s RunSummary) Succeeded() bool {
	return s.Failed == 0 && !s.Interrupted
}

// summaryBuilder accumulates a RunSummary. It is used from a single goroutine.
type summaryBuilder struct {
	s RunSummary
}

func newSummaryBuilder(runID, source, backup string, dryRun bool, started time.Time) *summaryBuilder {
	return &summaryBuilder{s: RunSummary{
		RunID:      runID,
		Source:     source,
		Backup:     backup,
		DryRun:     dryRun,
		StartedAt:  started,
		Categories: make(map[media.Category]int),
	}}
}

// record folds the terminal outcome of one file into the summary.
func (b *summaryBuilder) record(file media.File) {
	b.s.Categories[file.Category]++
	switch file.Status {
	case media.StatusPlaced:
		b.s.Processed++
		if file.Converted {
			b.s.Converted++
		}
		if !file.HasTimestamp() && file.Category != media.Unknown {
			b.s.MissingTimestamp++
			b.s.MissingTimestamps = append(b.s.MissingTimestamps, file.Source)
		}
	case media.StatusSidecarDeleted:
		b.s.SidecarsDeleted++
	case media.StatusSkipped:
		b.s.Skipped++
	}
	b.s.Files = append(b.s.Files, file)
}

// fail records file as failed because of err.
func (b *summaryBuilder) fail(file media.File, err error) media.File {
	file.Status = media.StatusFailed
	file.Destination = ""
	file.Reason = err.Error()
	b.s.Failed++
	b.s.Failures = append(b.s.Failures, Failure{
		Path:   file.Source,
		Kind:   services.KindOf(err),
		Reason: file.Reason,
	})
	b.record(file)
	return file
}

// finish stamps the end of the run and returns a copy that shares no state
// with the builder.
func (b *summaryBuilder) finish(finished time.Time, interrupted bool) RunSummary {
	out := b.s
	out.FinishedAt = finished
	out.Interrupted = interrupted
	out.Categories = maps.Clone(b.s.Categories)
	out.Files = slices.Clone(b.s.Files)
	out.Failures = slices.Clone(b.s.Failures)
	out.MissingTimestamps = slices.Clone(b.s.MissingTimestamps)
	return out
}
