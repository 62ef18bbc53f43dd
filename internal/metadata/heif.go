package metadata

import (
	"errors"
	"fmt"
	"io"
)

// ErrMalformedHEIF marks a HEIF container the parser could not walk.
var ErrMalformedHEIF = errors.New("malformed heif container")

// GuardHEIF runs fn and reports a panic raised inside the HEIF parser or
// decoder as ErrMalformedHEIF. goheif indexes item data without bounds
// checks, so every call into it goes through here.
func GuardHEIF(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrMalformedHEIF, r)
		}
	}()
	return fn()
}

func heicExif(r io.ReaderAt) ([]byte, error) {
	var payload []byte
	err := GuardHEIF(func() error {
		var err error
		payload, err = extractHEICExif(r)
		return err
	})
	return payload, err
}
