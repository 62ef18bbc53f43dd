// Package classify decides which category each exported file belongs to.
//
// The decision table runs first match wins: sidecar extension, then PNG
// screenshot naming, then generated-content signals for still images, then
// video extensions, and everything else is unknown. Generated content is
// flagged by any one of a UUID-shaped filename, a generator marker in PNG
// text chunks, or an EXIF Software tag naming an editor on an image with no
// original capture time. Probe failures are logged at debug level and count
// as no signal.
package classify
