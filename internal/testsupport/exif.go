package testsupport

import (
	"bytes"
	"encoding/binary"
	"sort"
)

// EXIFTags selects the tags written by BuildEXIF. Empty fields are omitted.
type EXIFTags struct {
	DateTimeOriginal  string
	DateTimeDigitized string
	DateTime          string
	Software          string
}

type tiffEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

const (
	tiffASCII = 2
	tiffLong  = 4
)

// BuildEXIF returns a little-endian TIFF block carrying the requested tags:
// Software and DateTime in IFD0, the capture times in the Exif sub-IFD.
func BuildEXIF(tags EXIFTags) []byte {
	var ifd0, sub []tiffEntry
	if tags.Software != "" {
		ifd0 = append(ifd0, asciiEntry(0x0131, tags.Software))
	}
	if tags.DateTime != "" {
		ifd0 = append(ifd0, asciiEntry(0x0132, tags.DateTime))
	}
	if tags.DateTimeOriginal != "" {
		sub = append(sub, asciiEntry(0x9003, tags.DateTimeOriginal))
	}
	if tags.DateTimeDigitized != "" {
		sub = append(sub, asciiEntry(0x9004, tags.DateTimeDigitized))
	}
	if len(sub) > 0 {
		ifd0 = append(ifd0, tiffEntry{tag: 0x8769, typ: tiffLong, count: 1, data: make([]byte, 4)})
	}
	sortEntries(ifd0)
	sortEntries(sub)

	const ifd0Offset = 8
	subOffset := ifd0Offset + ifdSize(ifd0)
	if len(sub) > 0 {
		for i := range ifd0 {
			if ifd0[i].tag == 0x8769 {
				binary.LittleEndian.PutUint32(ifd0[i].data, uint32(subOffset))
			}
		}
	}

	var buf bytes.Buffer
	buf.WriteString("II")
	writeLE(&buf, uint16(42))
	writeLE(&buf, uint32(ifd0Offset))
	writeIFD(&buf, ifd0)
	if len(sub) > 0 {
		writeIFD(&buf, sub)
	}
	return buf.Bytes()
}

func asciiEntry(tag uint16, value string) tiffEntry {
	data := append([]byte(value), 0)
	return tiffEntry{tag: tag, typ: tiffASCII, count: uint32(len(data)), data: data}
}

func sortEntries(entries []tiffEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].tag < entries[j].tag })
}

// ifdSize is the directory plus its out-of-line data, padded to even offsets.
func ifdSize(entries []tiffEntry) int {
	size := 2 + 12*len(entries) + 4
	for _, e := range entries {
		if len(e.data) > 4 {
			size += len(e.data) + len(e.data)%2
		}
	}
	return size
}

func writeIFD(buf *bytes.Buffer, entries []tiffEntry) {
	start := buf.Len()
	dataOffset := start + 2 + 12*len(entries) + 4
	writeLE(buf, uint16(len(entries)))
	var data bytes.Buffer
	for _, e := range entries {
		writeLE(buf, e.tag)
		writeLE(buf, e.typ)
		writeLE(buf, e.count)
		if len(e.data) <= 4 {
			inline := make([]byte, 4)
			copy(inline, e.data)
			buf.Write(inline)
			continue
		}
		writeLE(buf, uint32(dataOffset+data.Len()))
		data.Write(e.data)
		if len(e.data)%2 == 1 {
			data.WriteByte(0)
		}
	}
	writeLE(buf, uint32(0))
	buf.Write(data.Bytes())
}

func writeLE(buf *bytes.Buffer, v any) {
	_ = binary.Write(buf, binary.LittleEndian, v)
}
