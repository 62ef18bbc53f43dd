package testsupport

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"mediabackup/internal/metadata"
)

// Image returns a small opaque RGBA test pattern.
func Image(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	return img
}

// JPEG encodes a small image and, when exifBlock is non-nil, embeds it as APP1.
func JPEG(t testing.TB, exifBlock []byte) []byte {
	t.Helper()

	var encoded bytes.Buffer
	if err := jpeg.Encode(&encoded, Image(8, 8), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	var out bytes.Buffer
	if err := metadata.WriteJPEGWithEXIF(&out, encoded.Bytes(), exifBlock); err != nil {
		t.Fatalf("embed exif: %v", err)
	}
	return out.Bytes()
}

// PNGChunk is an ancillary chunk inserted before IEND.
type PNGChunk struct {
	Type string
	Data []byte
}

// TextChunk builds a tEXt chunk.
func TextChunk(keyword, text string) PNGChunk {
	return PNGChunk{Type: "tEXt", Data: append(append([]byte(keyword), 0), text...)}
}

// ITextChunk builds an uncompressed iTXt chunk.
func ITextChunk(keyword, text string) PNGChunk {
	data := append([]byte(keyword), 0, 0, 0) // keyword NUL, flag, method
	data = append(data, 0)                   // empty language tag
	data = append(data, 0)                   // empty translated keyword
	data = append(data, text...)
	return PNGChunk{Type: "iTXt", Data: data}
}

// EXIfChunk builds an eXIf chunk from a TIFF block.
func EXIfChunk(tiff []byte) PNGChunk {
	return PNGChunk{Type: "eXIf", Data: tiff}
}

// PNG encodes a small image with the given chunks inserted before IEND.
func PNG(t testing.TB, chunks ...PNGChunk) []byte {
	t.Helper()

	var encoded bytes.Buffer
	if err := png.Encode(&encoded, Image(4, 4)); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	raw := encoded.Bytes()
	const iendLen = 12
	var out bytes.Buffer
	out.Write(raw[:len(raw)-iendLen])
	for _, chunk := range chunks {
		var length [4]byte
		binary.BigEndian.PutUint32(length[:], uint32(len(chunk.Data)))
		out.Write(length[:])
		body := append([]byte(chunk.Type), chunk.Data...)
		out.Write(body)
		var crc [4]byte
		binary.BigEndian.PutUint32(crc[:], crc32.ChecksumIEEE(body))
		out.Write(crc[:])
	}
	out.Write(raw[len(raw)-iendLen:])
	return out.Bytes()
}
