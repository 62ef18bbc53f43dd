package metadata

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

const (
	maxMetadataChunk = 8 << 20
	maxInflatedText  = 1 << 20
)

// TextEntry is one keyword/value pair from a PNG text chunk.
type TextEntry struct {
	Keyword string
	Text    string
}

// PNGMetadata holds the ancillary metadata chunks of a PNG stream.
type PNGMetadata struct {
	Text []TextEntry
	// EXIF is the raw eXIf chunk payload (TIFF data) when present.
	EXIF []byte
}

// ErrNotPNG is returned when the stream does not start with the PNG signature.
var ErrNotPNG = errors.New("not a png stream")

// ReadPNG walks the chunk list of a PNG stream and collects tEXt, zTXt, iTXt,
// and eXIf chunks. Image data is skipped without decoding. Chunks that fail
// to decompress are ignored so one damaged entry does not hide the others.
func ReadPNG(r io.Reader) (PNGMetadata, error) {
	var meta PNGMetadata
	sig := make([]byte, len(pngSignature))
	if _, err := io.ReadFull(r, sig); err != nil || !bytes.Equal(sig, pngSignature) {
		return meta, ErrNotPNG
	}

	var head [8]byte
	for {
		if _, err := io.ReadFull(r, head[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return meta, nil
			}
			return meta, fmt.Errorf("read png chunk header: %w", err)
		}
		length := binary.BigEndian.Uint32(head[:4])
		kind := string(head[4:8])

		switch kind {
		case "tEXt", "zTXt", "iTXt", "eXIf":
			if length > maxMetadataChunk {
				return meta, fmt.Errorf("png %s chunk too large (%d bytes)", kind, length)
			}
			data := make([]byte, length)
			if _, err := io.ReadFull(r, data); err != nil {
				return meta, fmt.Errorf("read png %s chunk: %w", kind, err)
			}
			if kind == "eXIf" {
				meta.EXIF = data
			} else if entry, ok := parseTextChunk(kind, data); ok {
				meta.Text = append(meta.Text, entry)
			}
		default:
			if _, err := io.CopyN(io.Discard, r, int64(length)); err != nil {
				return meta, fmt.Errorf("skip png %s chunk: %w", kind, err)
			}
		}
		if _, err := io.CopyN(io.Discard, r, 4); err != nil {
			return meta, fmt.Errorf("read png crc: %w", err)
		}
		if kind == "IEND" {
			return meta, nil
		}
	}
}

func parseTextChunk(kind string, data []byte) (TextEntry, bool) {
	keyword, rest, ok := bytes.Cut(data, []byte{0})
	if !ok {
		return TextEntry{}, false
	}
	entry := TextEntry{Keyword: latin1(keyword)}
	switch kind {
	case "tEXt":
		entry.Text = latin1(rest)
	case "zTXt":
		if len(rest) < 1 {
			return TextEntry{}, false
		}
		text, err := inflate(rest[1:])
		if err != nil {
			return TextEntry{}, false
		}
		entry.Text = latin1(text)
	case "iTXt":
		if len(rest) < 2 {
			return TextEntry{}, false
		}
		compressed := rest[0] == 1
		rest = rest[2:]
		// language tag, then translated keyword, both NUL-terminated
		for i := 0; i < 2; i++ {
			_, after, found := bytes.Cut(rest, []byte{0})
			if !found {
				return TextEntry{}, false
			}
			rest = after
		}
		if compressed {
			text, err := inflate(rest)
			if err != nil {
				return TextEntry{}, false
			}
			rest = text
		}
		entry.Text = string(rest)
	}
	return entry, true
}

func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(io.LimitReader(zr, maxInflatedText))
}

func latin1(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
