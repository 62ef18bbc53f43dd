package media

import "time"

// Status is the terminal outcome of one source file in a run.
type Status string

const (
	StatusPlaced         Status = "placed"
	StatusSidecarDeleted Status = "sidecar_deleted"
	StatusSkipped        Status = "skipped"
	StatusFailed         Status = "failed"
)

// File tracks one discovered source file through the pipeline. Each stage
// fills only its own fields: the classifier sets Category, the resolver sets
// CaptureTime, the allocator sets Destination, and the organizer sets Status.
type File struct {
	Source          string     `json:"source"`
	Category        Category   `json:"category"`
	Converted       bool       `json:"converted,omitempty"`
	CaptureTime     *time.Time `json:"capture_time,omitempty"`
	TimestampSource string     `json:"timestamp_source,omitempty"`
	Destination     string     `json:"destination,omitempty"`
	Status          Status     `json:"status"`
	Reason          string     `json:"reason,omitempty"`
}

// HasTimestamp reports whether a capture time was resolved.
func (f File) HasTimestamp() bool {
	return f.CaptureTime != nil && !f.CaptureTime.IsZero()
}
