package media

import (
	"path/filepath"
	"strings"
)

var photoExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".heic": {}, ".heif": {},
	".tiff": {}, ".tif": {}, ".bmp": {}, ".webp": {}, ".dng": {}, ".raw": {},
	".cr2": {}, ".nef": {}, ".arw": {}, ".orf": {}, ".rw2": {},
}

var videoExtensions = map[string]struct{}{
	".mov": {}, ".mp4": {}, ".m4v": {}, ".avi": {}, ".mkv": {}, ".wmv": {},
	".flv": {}, ".webm": {}, ".3gp": {}, ".mpg": {}, ".mpeg": {},
}

// Ext returns the lower-cased extension of path including the dot.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// IsPhotoExt reports whether ext (lower-case, with dot) is a still image format.
func IsPhotoExt(ext string) bool {
	_, ok := photoExtensions[ext]
	return ok
}

// IsVideoExt reports whether ext is a video container format.
func IsVideoExt(ext string) bool {
	_, ok := videoExtensions[ext]
	return ok
}

// IsSidecarExt reports whether ext belongs to an Apple edit sidecar.
func IsSidecarExt(ext string) bool {
	return ext == ".aae"
}

// IsScreenshotExt reports whether ext is a format screenshots are saved in.
func IsScreenshotExt(ext string) bool {
	return ext == ".png"
}

// NeedsConversion reports whether files with ext are transcoded to JPEG before placement.
func NeedsConversion(ext string) bool {
	return ext == ".heic" || ext == ".heif"
}
