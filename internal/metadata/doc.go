// Package metadata reads embedded image metadata without decoding pixels.
//
// EXIF blocks are decoded with goexif from JPEG/TIFF-family files, from the
// eXIf chunk of PNG files, and from the Exif item of HEIC/HEIF containers via
// goheif. Text returns a typed TagState per tag so callers can tell an absent
// tag from a malformed one. ReadPNG lists PNG text chunks (tEXt, zTXt, iTXt)
// for content heuristics, and WriteJPEGWithEXIF splices an EXIF block into an
// encoded JPEG as an APP1 segment.
package metadata
