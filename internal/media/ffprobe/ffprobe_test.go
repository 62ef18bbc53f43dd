package ffprobe

import (
	"math"
	"reflect"
	"testing"
)

const sampleJSON = `{
  "streams": [
    {"index": 0, "codec_type": "video", "tags": {"creation_time": "2023-07-04T18:30:00.000000Z", "handler_name": "Core Media Video"}},
    {"index": 1, "codec_type": "audio", "tags": {"language": "und"}}
  ],
  "format": {
    "duration": "12.5",
    "size": "2048",
    "tags": {"major_brand": "qt  ", "com.apple.quicktime.creationdate": "2023-07-04T11:30:00-0700"}
  }
}`

func TestDecodeAndTags(t *testing.T) {
	result, err := Decode([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if result.VideoStreamCount() != 1 {
		t.Fatalf("expected 1 video stream, got %d", result.VideoStreamCount())
	}
	if value, ok := result.Tag("CREATION_TIME"); !ok || value != "2023-07-04T18:30:00.000000Z" {
		t.Fatalf("unexpected stream tag lookup: %q %v", value, ok)
	}
	if value, ok := result.Tag("com.apple.quicktime.creationdate"); !ok || value != "2023-07-04T11:30:00-0700" {
		t.Fatalf("unexpected format tag lookup: %q %v", value, ok)
	}
	if _, ok := result.Tag("date"); ok {
		t.Fatal("expected missing tag")
	}
}

func TestDumpIsSortedPerScope(t *testing.T) {
	result, err := Decode([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []string{
		"format.com.apple.quicktime.creationdate: 2023-07-04T11:30:00-0700",
		"format.major_brand: qt  ",
		"stream.0.creation_time: 2023-07-04T18:30:00.000000Z",
		"stream.0.handler_name: Core Media Video",
		"stream.1.language: und",
	}
	if got := result.Dump(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Dump mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{Format: Format{Duration: "bad", Size: "-1"}}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
}
