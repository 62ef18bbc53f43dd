package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"mediabackup/internal/media"
	"mediabackup/internal/organizer"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var paths pathFlags
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Preview what a run would process, grouped by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.invocationConfig()
			if err != nil {
				return err
			}
			if err := paths.apply(cfg); err != nil {
				return err
			}
			logger, err := newLogger(cmd, cfg)
			if err != nil {
				return err
			}

			preview, err := organizer.New(cfg, logger).Scan(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, newScanJSON(preview))
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderScanTable(preview))
			return nil
		},
	}

	paths.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the scan as JSON")
	return cmd
}

type scanJSON struct {
	Source      string                 `json:"source"`
	Total       int                    `json:"total"`
	Processable int                    `json:"processable"`
	TotalBytes  int64                  `json:"total_bytes"`
	Categories  map[media.Category]int `json:"categories"`
}

func newScanJSON(preview organizer.ScanReport) scanJSON {
	counts := make(map[media.Category]int, len(preview.Report.Groups))
	for category, files := range preview.Report.Groups {
		counts[category] = len(files)
	}
	return scanJSON{
		Source:      preview.Source,
		Total:       preview.Report.Total,
		Processable: preview.Report.Processable(),
		TotalBytes:  preview.TotalBytes,
		Categories:  counts,
	}
}

// renderScanTable lists the non-empty categories found by a scan.
func renderScanTable(preview organizer.ScanReport) string {
	rows := make([][]string, 0, len(media.Categories))
	for _, category := range media.Categories {
		count := preview.Report.Count(category)
		if count == 0 {
			continue
		}
		rows = append(rows, []string{category.Label(), strconv.Itoa(count), categoryDescription(category)})
	}
	return renderTable(tableSpec{
		title:   "Scan Results: " + preview.Source,
		headers: []string{"Category", "Files", "Description"},
		rows:    rows,
		footer:  []string{"Total", strconv.Itoa(preview.Report.Total), humanize.IBytes(uint64(preview.TotalBytes))},
		aligns:  []columnAlignment{alignLeft, alignRight, alignLeft},
	})
}

func categoryDescription(category media.Category) string {
	switch category {
	case media.Photo:
		return "Camera photos; HEIC is converted to JPEG"
	case media.Video:
		return "Videos named by container creation time"
	case media.Screenshot:
		return "Screen captures"
	case media.Generated:
		return "AI-generated or edited images"
	case media.Sidecar:
		return "Edit sidecars, deleted after processing"
	default:
		return "Unrecognized files, skipped unless place_unknown is set"
	}
}
