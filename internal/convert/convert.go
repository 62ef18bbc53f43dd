package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/jdeng/goheif"

	"mediabackup/internal/logging"
	"mediabackup/internal/metadata"
	"mediabackup/internal/services"
	"mediabackup/internal/stage"
)

// OutputExt is the extension of every converted artifact.
const OutputExt = ".jpg"

const maxNameAttempts = 1000

// Decoded is a source image together with its embedded EXIF block, if any.
type Decoded struct {
	Image image.Image
	EXIF  []byte
	// EXIFErr records a metadata read failure; the pixels are still usable.
	EXIFErr error
}

var decodeSource = decodeHEIF

// Converter transcodes HEIC/HEIF images to JPEG.
type Converter struct {
	quality int
	logger  *slog.Logger
}

// New constructs a Converter encoding at the given JPEG quality (1-100).
func New(quality int, logger *slog.Logger) *Converter {
	if quality < 1 || quality > 100 {
		quality = 95
	}
	return &Converter{
		quality: quality,
		logger:  logging.NewComponentLogger(logger, "converter"),
	}
}

// Quality returns the JPEG quality used for encoding.
func (c *Converter) Quality() int {
	return c.quality
}

// Convert writes a JPEG rendition of src into outputDir, or beside src when
// outputDir is empty, and returns its path. The output is named after the
// source stem and never replaces an existing file. The source is left as is.
func (c *Converter) Convert(ctx context.Context, src, outputDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", services.Wrap(services.ErrInterrupted, "convert", "start", src, err)
	}
	if strings.TrimSpace(outputDir) == "" {
		outputDir = filepath.Dir(src)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrConversion, "convert", "create output dir", outputDir, err)
	}

	tmp, err := os.CreateTemp(outputDir, ".convert-*"+OutputExt)
	if err != nil {
		return "", services.Wrap(services.ErrConversion, "convert", "create temp file", outputDir, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := c.Transcode(tmp, src); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", services.Wrap(services.ErrConversion, "convert", "sync output", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return "", services.Wrap(services.ErrConversion, "convert", "close output", tmpPath, err)
	}

	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	dest, err := publishUnique(tmpPath, outputDir, stem)
	if err != nil {
		return "", services.Wrap(services.ErrConversion, "convert", "publish output", src, err)
	}
	c.logger.Debug("converted image",
		logging.String(logging.FieldFile, src),
		logging.String("output", dest),
		logging.Int("quality", c.quality),
	)
	return dest, nil
}

// Transcode decodes src and writes the JPEG encoding to w, carrying the
// source EXIF block across when present.
func (c *Converter) Transcode(w io.Writer, src string) error {
	decoded, err := decodeSource(src)
	if err != nil {
		return services.Wrap(services.ErrConversion, "convert", "decode", src, err)
	}
	if decoded.Image == nil {
		return services.Wrap(services.ErrConversion, "convert", "decode", src, errors.New("decoder returned no image"))
	}

	var encoded bytes.Buffer
	if err := imaging.Encode(&encoded, normalizeColor(decoded.Image), imaging.JPEG, imaging.JPEGQuality(c.quality)); err != nil {
		return services.Wrap(services.ErrConversion, "convert", "encode jpeg", src, err)
	}
	if err := metadata.WriteJPEGWithEXIF(w, encoded.Bytes(), decoded.EXIF); err != nil {
		return services.Wrap(services.ErrConversion, "convert", "write jpeg", src, err)
	}
	if len(decoded.EXIF) == 0 {
		attrs := []logging.Attr{logging.String(logging.FieldFile, src)}
		if decoded.EXIFErr != nil {
			attrs = append(attrs, logging.Error(decoded.EXIFErr))
		}
		c.logger.Debug("no exif carried into converted image", logging.Args(attrs...)...)
	}
	return nil
}

// normalizeColor returns an image JPEG can represent: grayscale stays
// grayscale, everything else becomes opaque 8-bit RGB with any transparency
// composited over white.
func normalizeColor(img image.Image) image.Image {
	if gray, ok := img.(*image.Gray); ok {
		return gray
	}
	nrgba := imaging.Clone(img)
	if nrgba.Opaque() {
		return nrgba
	}
	bounds := nrgba.Bounds()
	background := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(background, nrgba, image.Pt(0, 0), 1.0)
}

var linkFile = os.Link

// publishUnique moves tmpPath to stem.jpg in dir, adding _1, _2, ... while
// the name is taken. A name is claimed with a hard link so concurrent
// conversions never overwrite each other. Filesystems without hard links
// (exFAT, FAT32, most SMB shares) claim it with an exclusive create instead
// and rename the temp file over the claim.
func publishUnique(tmpPath, dir, stem string) (string, error) {
	useLinks := true
	for i := 0; i < maxNameAttempts; i++ {
		name := stem + OutputExt
		if i > 0 {
			name = stem + "_" + strconv.Itoa(i) + OutputExt
		}
		dest := filepath.Join(dir, name)
		if useLinks {
			err := linkFile(tmpPath, dest)
			if err == nil {
				return dest, nil
			}
			if errors.Is(err, os.ErrExist) {
				continue
			}
			useLinks = false
		}
		if err := reserveName(dest); err != nil {
			if errors.Is(err, os.ErrExist) {
				continue
			}
			return "", err
		}
		if err := os.Rename(tmpPath, dest); err != nil {
			_ = os.Remove(dest)
			return "", err
		}
		return dest, nil
	}
	return "", fmt.Errorf("no free name for %s in %s", stem, dir)
}

func reserveName(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

func decodeHEIF(path string) (Decoded, error) {
	file, err := os.Open(path)
	if err != nil {
		return Decoded{}, err
	}
	defer file.Close()

	var img image.Image
	err = metadata.GuardHEIF(func() error {
		var decodeErr error
		img, decodeErr = goheif.Decode(file)
		return decodeErr
	})
	if err != nil {
		return Decoded{}, fmt.Errorf("decode heif: %w", err)
	}
	block, err := metadata.ReadHEICEXIF(file)
	return Decoded{Image: img, EXIF: block, EXIFErr: err}, nil
}

// HealthCheck reports the converter as ready; decoding runs in process.
func (c *Converter) HealthCheck(context.Context) stage.Health {
	return stage.Healthy("Converter")
}
