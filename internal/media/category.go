package media

import (
	"fmt"
	"strings"
)

// Category is the closed set of semantic buckets a source file can land in.
type Category int

const (
	Unknown Category = iota
	Photo
	Video
	Screenshot
	Generated
	Sidecar
)

// Categories lists every category in report order.
var Categories = []Category{Photo, Video, Screenshot, Generated, Sidecar, Unknown}

func (c Category) String() string {
	switch c {
	case Photo:
		return "photo"
	case Video:
		return "video"
	case Screenshot:
		return "screenshot"
	case Generated:
		return "generated"
	case Sidecar:
		return "sidecar"
	default:
		return "unknown"
	}
}

// Label is the human-readable plural used in reports.
func (c Category) Label() string {
	switch c {
	case Photo:
		return "Photos"
	case Video:
		return "Videos"
	case Screenshot:
		return "Screenshots"
	case Generated:
		return "Generated"
	case Sidecar:
		return "Sidecar Files"
	default:
		return "Unknown"
	}
}

// Dir returns the backup subdirectory for the category. Sidecars have none.
func (c Category) Dir() (string, bool) {
	switch c {
	case Photo:
		return "photos", true
	case Video:
		return "videos", true
	case Screenshot:
		return "screenshots", true
	case Generated:
		return "generated", true
	case Unknown:
		return "unknown", true
	default:
		return "", false
	}
}

// IsImage reports whether capture times come from embedded image metadata.
func (c Category) IsImage() bool {
	switch c {
	case Photo, Screenshot, Generated:
		return true
	default:
		return false
	}
}

// Processable reports whether files of this category are placed in the backup tree
// by default.
func (c Category) Processable() bool {
	switch c {
	case Photo, Video, Screenshot, Generated:
		return true
	default:
		return false
	}
}

// ParseCategory maps a name produced by String back to a Category.
func ParseCategory(value string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "photo":
		return Photo, nil
	case "video":
		return Video, nil
	case "screenshot":
		return Screenshot, nil
	case "generated":
		return Generated, nil
	case "sidecar":
		return Sidecar, nil
	case "unknown":
		return Unknown, nil
	default:
		return Unknown, fmt.Errorf("unknown category %q", value)
	}
}

// MarshalText encodes the category by name for JSON reports.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a category name.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
