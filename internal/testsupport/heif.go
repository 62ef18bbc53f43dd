package testsupport

import (
	"bytes"
	"encoding/binary"
)

// TruncatedHEIC returns a minimal HEIF container whose Exif item points at
// an extent of only exifLen bytes. Readers that strip the 4-byte TIFF offset
// header without checking the length trip over it when exifLen < 4.
func TruncatedHEIC(exifLen uint32) []byte {
	var out bytes.Buffer
	out.Write(bmffBox("ftyp", []byte("heic\x00\x00\x00\x00mif1heic")))

	var infe bytes.Buffer
	infe.Write([]byte{2, 0, 0, 0}) // version 2
	writeBE(&infe, uint16(1))      // item id
	writeBE(&infe, uint16(0))      // protection index
	infe.WriteString("Exif\x00")

	var iinf bytes.Buffer
	iinf.Write([]byte{0, 0, 0, 0})
	writeBE(&iinf, uint16(1))
	iinf.Write(bmffBox("infe", infe.Bytes()))

	var iloc bytes.Buffer
	iloc.Write([]byte{0, 0, 0, 0})
	iloc.Write([]byte{0x44, 0x00}) // 4-byte offsets and lengths, no base offset
	writeBE(&iloc, uint16(1))      // item count
	writeBE(&iloc, uint16(1))      // item id
	writeBE(&iloc, uint16(0))      // data reference index
	writeBE(&iloc, uint16(1))      // extent count
	writeBE(&iloc, uint32(0))      // extent offset
	writeBE(&iloc, exifLen)

	var meta bytes.Buffer
	meta.Write([]byte{0, 0, 0, 0})
	meta.Write(bmffBox("iinf", iinf.Bytes()))
	meta.Write(bmffBox("iloc", iloc.Bytes()))
	out.Write(bmffBox("meta", meta.Bytes()))
	return out.Bytes()
}

func bmffBox(kind string, body []byte) []byte {
	box := make([]byte, 8, 8+len(body))
	binary.BigEndian.PutUint32(box, uint32(8+len(body)))
	copy(box[4:], kind)
	return append(box, body...)
}

func writeBE(buf *bytes.Buffer, v any) {
	_ = binary.Write(buf, binary.BigEndian, v)
}
