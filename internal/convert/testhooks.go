package convert

// SetDecoderForTests swaps the HEIF decoder and returns a restore func.
func SetDecoderForTests(fn func(path string) (Decoded, error)) func() {
	prev := decodeSource
	decodeSource = fn
	return func() { decodeSource = prev }
}

// SetLinkForTests swaps the hard-link call used to publish output and
// returns a restore func.
func SetLinkForTests(fn func(oldname, newname string) error) func() {
	prev := linkFile
	linkFile = fn
	return func() { linkFile = prev }
}
