package timestamp

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"mediabackup/internal/metadata"
)

// EXIFLayout is the fixed date layout EXIF uses for its timestamp tags.
const EXIFLayout = "2006:01:02 15:04:05"

// Resolution is the outcome of resolving one file's capture time.
type Resolution struct {
	Time     time.Time
	Resolved bool
	// Source names the tag or field the time came from.
	Source string
	// Reason explains an unresolved outcome.
	Reason string
}

func resolved(t time.Time, source string) Resolution {
	return Resolution{Time: t, Resolved: true, Source: source}
}

func unresolved(format string, args ...any) Resolution {
	return Resolution{Reason: fmt.Sprintf(format, args...)}
}

// imageTags lists the EXIF tags consulted for still images, most trusted first.
var imageTags = []metadata.Field{
	metadata.DateTimeOriginal,
	metadata.DateTimeDigitized,
	metadata.DateTime,
}

// ParseEXIFTime parses an EXIF timestamp. The value is a wall-clock time with
// no zone and is returned as such in UTC.
func ParseEXIFTime(value string) (time.Time, error) {
	cleaned := strings.TrimSpace(strings.TrimRight(value, "\x00"))
	if cleaned == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	return time.ParseInLocation(EXIFLayout, cleaned, time.UTC)
}

// FromEXIF picks the first parsable timestamp tag from x. Tags that are
// present but unparsable are skipped in favour of the next one.
func FromEXIF(x *metadata.EXIF) Resolution {
	var problems []string
	for _, tag := range imageTags {
		value, state := x.Text(tag)
		switch state {
		case metadata.TagAbsent:
			continue
		case metadata.TagMalformed:
			problems = append(problems, string(tag)+" malformed")
			continue
		}
		parsed, err := ParseEXIFTime(value)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s unparsable (%q)", tag, value))
			continue
		}
		return resolved(parsed, "exif:"+string(tag))
	}
	if len(problems) > 0 {
		return unresolved("no usable exif timestamp: %s", strings.Join(problems, "; "))
	}
	return unresolved("no exif timestamp tags")
}

// ResolveImage resolves the capture time of an encoded image held in r. It is
// used for converted images that only exist in memory.
func ResolveImage(r io.Reader) Resolution {
	x, err := metadata.DecodeEXIF(r)
	if err != nil {
		return exifUnresolved(err)
	}
	return FromEXIF(x)
}

func exifUnresolved(err error) Resolution {
	if errors.Is(err, metadata.ErrNoEXIF) {
		return unresolved("no exif metadata")
	}
	return unresolved("exif unreadable: %v", err)
}

var videoStampPattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2})`)

// ParseVideoTime extracts the first "YYYY-MM-DD HH:MM:SS" wall-clock time
// (with either a space or a T separator) from value. Any zone suffix is
// ignored.
func ParseVideoTime(value string) (time.Time, bool) {
	match := videoStampPattern.FindString(value)
	if match == "" {
		return time.Time{}, false
	}
	parsed, err := time.ParseInLocation("2006-01-02T15:04:05", strings.Replace(match, " ", "T", 1), time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
