package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

const maxSegmentPayload = 0xFFFF - 2

// WriteJPEGWithEXIF writes jpegData to w with block inserted as an APP1
// segment directly after the SOI marker. A nil block writes jpegData as is.
func WriteJPEGWithEXIF(w io.Writer, jpegData, block []byte) error {
	if len(jpegData) < 2 || jpegData[0] != 0xFF || jpegData[1] != 0xD8 {
		return errors.New("jpeg data does not start with SOI")
	}
	if len(block) == 0 {
		_, err := w.Write(jpegData)
		return err
	}
	block, err := NormalizeEXIF(block)
	if err != nil {
		return err
	}
	if len(block) > maxSegmentPayload {
		return fmt.Errorf("exif block of %d bytes exceeds a single APP1 segment", len(block))
	}
	segLen := len(block) + 2
	var buf bytes.Buffer
	buf.Grow(len(jpegData) + len(block) + 4)
	buf.Write(jpegData[:2])
	buf.Write([]byte{0xFF, 0xE1, byte(segLen >> 8), byte(segLen)})
	buf.Write(block)
	buf.Write(jpegData[2:])
	_, err = w.Write(buf.Bytes())
	return err
}
