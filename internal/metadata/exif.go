package metadata

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jdeng/goheif"
	"github.com/rwcarlsen/goexif/exif"

	"mediabackup/internal/media"
)

// ErrNoEXIF reports that a file carries no embedded EXIF block.
var ErrNoEXIF = errors.New("no exif metadata")

// TagState describes what a probe found for one EXIF tag.
type TagState int

const (
	TagAbsent TagState = iota
	TagPresent
	// TagMalformed means the tag exists but does not hold a text value.
	TagMalformed
)

func (s TagState) String() string {
	switch s {
	case TagPresent:
		return "present"
	case TagMalformed:
		return "malformed"
	default:
		return "absent"
	}
}

// Field names an EXIF tag.
type Field = exif.FieldName

// Tag names probed by the pipeline.
const (
	DateTimeOriginal  = exif.DateTimeOriginal
	DateTimeDigitized = exif.DateTimeDigitized
	DateTime          = exif.DateTime
	Software          = exif.Software
)

// EXIF is a decoded EXIF block.
type EXIF struct {
	x *exif.Exif
}

var extractHEICExif = goheif.ExtractExif

// DecodeEXIF parses EXIF from a JPEG stream, a bare TIFF block, or a block
// starting with the "Exif\0\0" header. Damaged sub-directories are tolerated
// as long as the primary directory decoded.
func DecodeEXIF(r io.Reader) (*EXIF, error) {
	x, err := exif.Decode(r)
	if err != nil {
		if x == nil || exif.IsCriticalError(err) {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, ErrNoEXIF
			}
			return nil, fmt.Errorf("decode exif: %w", err)
		}
	}
	return &EXIF{x: x}, nil
}

// ReadEXIF opens path and decodes its EXIF block, choosing the container
// reader from the file extension. Files without EXIF return ErrNoEXIF.
func ReadEXIF(path string) (*EXIF, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	switch ext := media.Ext(path); {
	case ext == ".png":
		meta, err := ReadPNG(file)
		if err != nil {
			return nil, err
		}
		if len(meta.EXIF) == 0 {
			return nil, ErrNoEXIF
		}
		return DecodeEXIF(bytes.NewReader(meta.EXIF))
	case media.NeedsConversion(ext):
		payload, err := heicExif(file)
		if err != nil {
			return nil, fmt.Errorf("extract heif exif: %w", err)
		}
		if len(payload) == 0 {
			return nil, ErrNoEXIF
		}
		block, err := NormalizeEXIF(payload)
		if err != nil {
			return nil, err
		}
		return DecodeEXIF(bytes.NewReader(block))
	default:
		return DecodeEXIF(file)
	}
}

// ReadHEICEXIF returns the APP1-ready EXIF block of a HEIC/HEIF stream, or
// nil when the container has none.
func ReadHEICEXIF(r io.ReaderAt) ([]byte, error) {
	payload, err := heicExif(r)
	if err != nil || len(payload) == 0 {
		return nil, err
	}
	return NormalizeEXIF(payload)
}

// Text returns the string value of a tag along with what the probe found.
func (e *EXIF) Text(name Field) (string, TagState) {
	if e == nil || e.x == nil {
		return "", TagAbsent
	}
	tag, err := e.x.Get(name)
	if err != nil || tag == nil {
		return "", TagAbsent
	}
	value, err := tag.StringVal()
	if err != nil {
		return "", TagMalformed
	}
	return strings.TrimSpace(strings.TrimRight(value, "\x00")), TagPresent
}

// Has reports whether the tag exists, regardless of its value.
func (e *EXIF) Has(name Field) bool {
	_, state := e.Text(name)
	return state != TagAbsent
}

var exifHeader = []byte("Exif\x00\x00")

// NormalizeEXIF turns the EXIF payloads found in the wild into a block that
// starts with the "Exif\0\0" header followed by TIFF data. Accepted inputs are
// a headed block, a bare TIFF block, and the HEIF item layout that prefixes
// the block with a 4-byte big-endian offset.
func NormalizeEXIF(payload []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(payload, exifHeader):
		return payload, nil
	case isTIFF(payload):
		return append(append([]byte(nil), exifHeader...), payload...), nil
	}
	if len(payload) >= 4 {
		offset := int(binary.BigEndian.Uint32(payload[:4]))
		start := 4 + offset
		if offset >= 0 && start < len(payload) {
			rest := payload[start:]
			if bytes.HasPrefix(rest, exifHeader) || isTIFF(rest) {
				return NormalizeEXIF(rest)
			}
		}
	}
	if idx := bytes.Index(payload, exifHeader); idx >= 0 && idx < 64 {
		return payload[idx:], nil
	}
	return nil, errors.New("exif payload has no tiff header")
}

func isTIFF(b []byte) bool {
	return bytes.HasPrefix(b, []byte("II*\x00")) || bytes.HasPrefix(b, []byte("MM\x00*"))
}
