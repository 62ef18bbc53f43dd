package main

import (
	"io"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"mediabackup/internal/media"
)

// progressObserver draws a per-file progress bar while a run places files.
type progressObserver struct {
	out    io.Writer
	bar    *progressbar.ProgressBar
	done   int
	failed int
}

func newProgressObserver(out io.Writer) *progressObserver {
	return &progressObserver{out: out}
}

func (p *progressObserver) ScanComplete(total int) {
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription("Processing"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *progressObserver) FileDone(file media.File) {
	p.done++
	if file.Status == media.StatusFailed {
		p.failed++
	}
	if p.bar == nil {
		return
	}
	p.bar.Describe(filepath.Base(file.Source))
	_ = p.bar.Add(1)
}

// finish clears the bar before the results table is printed.
func (p *progressObserver) finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
