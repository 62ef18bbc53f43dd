package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mediabackup/internal/media"
	"mediabackup/internal/organizer"
)

type inspection struct {
	Path            string         `json:"path"`
	Category        media.Category `json:"category"`
	Signals         []string       `json:"signals,omitempty"`
	ProbeErrors     []string       `json:"probe_errors,omitempty"`
	CaptureTime     *time.Time     `json:"capture_time,omitempty"`
	TimestampSource string         `json:"timestamp_source,omitempty"`
	Reason          string         `json:"reason,omitempty"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "inspect FILE...",
		Short: "Show how files would be classified and dated",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.invocationConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd, cfg)
			if err != nil {
				return err
			}
			org := organizer.New(cfg, logger)

			results := make([]inspection, 0, len(args))
			for _, arg := range args {
				path, err := filepath.Abs(arg)
				if err != nil {
					return fmt.Errorf("resolve %s: %w", arg, err)
				}
				info, err := os.Stat(path)
				if err != nil {
					return fmt.Errorf("inspect %s: %w", arg, err)
				}
				if !info.Mode().IsRegular() {
					return fmt.Errorf("inspect %s: not a regular file", arg)
				}

				class := org.Classifier().Inspect(path)
				res := org.Resolver().Resolve(cmd.Context(), path, class.Category)
				item := inspection{
					Path:        path,
					Category:    class.Category,
					Signals:     class.Signals,
					ProbeErrors: class.ProbeErrors,
				}
				if res.Resolved {
					capture := res.Time
					item.CaptureTime = &capture
					item.TimestampSource = res.Source
				} else {
					item.Reason = res.Reason
				}
				results = append(results, item)
			}

			if jsonOutput {
				return writeJSON(cmd, results)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderInspectTable(results))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the inspection as JSON")
	return cmd
}

func renderInspectTable(results []inspection) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		signals := "-"
		if len(r.Signals) > 0 {
			signals = strings.Join(r.Signals, ", ")
		}
		capture := "-"
		detail := r.Reason
		if r.CaptureTime != nil {
			capture = r.CaptureTime.Format(time.DateTime)
			detail = r.TimestampSource
		}
		rows = append(rows, []string{filepath.Base(r.Path), r.Category.String(), signals, capture, detail})
	}
	return renderTable(tableSpec{
		headers: []string{"File", "Category", "Signals", "Captured", "Source"},
		rows:    rows,
	})
}
