// Package convert transcodes HEIC/HEIF photos to JPEG.
//
// Decoded pixels are normalised to 8-bit RGB (or left as grayscale) before
// encoding, and the source EXIF block is spliced into the output so capture
// times survive conversion. Failures are tagged with services.ErrConversion
// and never touch the source file.
package convert
