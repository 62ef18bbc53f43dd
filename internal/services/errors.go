package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrConversion    = errors.New("conversion failed")
	ErrPlacement     = errors.New("placement failed")
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrInterrupted   = errors.New("interrupted")
)

// Failure kinds recorded against files in a run summary.
const (
	KindConfiguration = "configuration"
	KindConversion    = "conversion"
	KindPlacement     = "placement"
	KindInterrupted   = "interrupted"
	KindExternalTool  = "external_tool"
	KindValidation    = "validation"
	KindNotFound      = "not_found"
	KindUnknown       = "unknown"
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrPlacement
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// KindOf maps an error to the failure kind stored in run summaries.
func KindOf(err error) string {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrInterrupted):
		return KindInterrupted
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrConversion):
		return KindConversion
	case errors.Is(err, ErrPlacement):
		return KindPlacement
	case errors.Is(err, ErrExternalTool):
		return KindExternalTool
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindUnknown
	}
}

// IsFatal reports whether err must abort a run instead of being recorded
// against a single file.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "operation failed"
	}
	return strings.Join(parts, ": ")
}
