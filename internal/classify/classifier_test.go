package classify_test

import (
	"context"
	"path/filepath"
	"testing"

	"mediabackup/internal/classify"
	"mediabackup/internal/logging"
	"mediabackup/internal/media"
	"mediabackup/internal/testsupport"
)

func TestCategorizeDecisionTable(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, data []byte) string {
		path := filepath.Join(dir, name)
		testsupport.WriteBytes(t, path, data)
		return path
	}

	plainPNG := testsupport.PNG(t)
	cases := []struct {
		name string
		path string
		want media.Category
	}{
		{"numbered png is screenshot", write("IMG_3042.png", plainPNG), media.Screenshot},
		{"screenshot name", write("Screenshot 2024-05-01 at 12.00.00.PNG", plainPNG), media.Screenshot},
		{"screen recording", write("Screen Recording 1.png", plainPNG), media.Screenshot},
		{"chatgpt marker", write("render.png", testsupport.PNG(t, testsupport.TextChunk("Software", "ChatGPT image export"))), media.Generated},
		{"standalone ai token", write("art.png", testsupport.PNG(t, testsupport.ITextChunk("Comment", "made with AI tools"))), media.Generated},
		{"ai inside a word is not a marker", write("trail.png", testsupport.PNG(t, testsupport.TextChunk("Title", "mountain trail"))), media.Photo},
		{"ai in a sentence", write("caption.png", testsupport.PNG(t, testsupport.TextChunk("Description", "made with AI"))), media.Generated},
		{"detail is not a marker", write("macro.png", testsupport.PNG(t, testsupport.TextChunk("Description", "fine detail"))), media.Photo},
		{"plain png is photo", write("diagram.png", plainPNG), media.Photo},
		{"edited without capture time", write("edit.jpg", testsupport.JPEG(t, testsupport.BuildEXIF(testsupport.EXIFTags{Software: "Adobe Photoshop 25.0"}))), media.Generated},
		{"edited camera photo keeps provenance", write("camera.jpg", testsupport.JPEG(t, testsupport.BuildEXIF(testsupport.EXIFTags{Software: "Adobe Photoshop 25.0", DateTimeOriginal: "2023:07:04 09:15:00"}))), media.Photo},
		{"unknown software", write("phone.jpg", testsupport.JPEG(t, testsupport.BuildEXIF(testsupport.EXIFTags{Software: "17.4.1"}))), media.Photo},
		{"uuid stem", write("3F2504E0-4F89-11D3-9A0C-0305E82C3301.jpg", testsupport.JPEG(t, nil)), media.Generated},
		{"jpeg without exif", write("holiday.jpg", testsupport.JPEG(t, nil)), media.Photo},
		{"sidecar", write("IMG_0001.AAE", []byte("<plist/>")), media.Sidecar},
		{"video", write("clip.MOV", []byte("not really a movie")), media.Video},
		{"unknown extension", write("weird.xyz", []byte("?")), media.Unknown},
	}

	classifier := classify.New(logging.NewNop())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifier.Categorize(tc.path); got != tc.want {
				t.Fatalf("Categorize(%s) = %s, want %s", filepath.Base(tc.path), got, tc.want)
			}
		})
	}
}

func TestInspectRecordsSignals(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "render.png")
	testsupport.WriteBytes(t, path, testsupport.PNG(t, testsupport.TextChunk("parameters", "OpenAI DALL-E")))

	res := classify.New(nil).Inspect(path)
	if res.Category != media.Generated {
		t.Fatalf("expected generated, got %s", res.Category)
	}
	if len(res.Signals) != 1 || res.Signals[0] != classify.SignalTextMarker+":openai" {
		t.Fatalf("unexpected signals %v", res.Signals)
	}
}

func TestProbeFailureFallsBackToExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.png")
	testsupport.WriteBytes(t, path, []byte("this is not a png"))

	res := classify.New(nil).Inspect(path)
	if res.Category != media.Photo {
		t.Fatalf("expected photo for unreadable png, got %s", res.Category)
	}
	if len(res.ProbeErrors) == 0 {
		t.Fatal("expected the failed probe to be recorded")
	}
}

func TestTruncatedHEICFallsBackToExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "IMG_0007.HEIC")
	testsupport.WriteBytes(t, path, testsupport.TruncatedHEIC(2))

	res := classify.New(nil).Inspect(path)
	if res.Category != media.Photo {
		t.Fatalf("expected photo for truncated heic, got %s", res.Category)
	}
	if len(res.ProbeErrors) == 0 {
		t.Fatal("expected the failed exif probe to be recorded")
	}
}

func TestCategorizeAllIsRepeatable(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		filepath.Join(dir, "IMG_3001.png"),
		filepath.Join(dir, "a.jpg"),
		filepath.Join(dir, "b.jpg"),
		filepath.Join(dir, "c.aae"),
		filepath.Join(dir, "d.mp4"),
	}
	testsupport.WriteBytes(t, paths[0], testsupport.PNG(t))
	testsupport.WriteBytes(t, paths[1], testsupport.JPEG(t, nil))
	testsupport.WriteBytes(t, paths[2], testsupport.JPEG(t, nil))
	testsupport.WriteFile(t, paths[3], 16)
	testsupport.WriteFile(t, paths[4], 16)

	classifier := classify.New(nil)
	first, err := classifier.CategorizeAll(context.Background(), paths)
	if err != nil {
		t.Fatalf("CategorizeAll: %v", err)
	}
	second, err := classifier.CategorizeAll(context.Background(), paths)
	if err != nil {
		t.Fatalf("CategorizeAll: %v", err)
	}

	for _, report := range []classify.Report{first, second} {
		if report.Total != 5 {
			t.Fatalf("expected 5 files, got %d", report.Total)
		}
		if report.Count(media.Photo) != 2 || report.Count(media.Screenshot) != 1 ||
			report.Count(media.Sidecar) != 1 || report.Count(media.Video) != 1 {
			t.Fatalf("unexpected grouping %v", report.Groups)
		}
		if report.Processable() != 4 {
			t.Fatalf("expected 4 processable files, got %d", report.Processable())
		}
	}
}

func TestCategorizeAllHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := classify.New(nil).CategorizeAll(ctx, []string{"a.jpg"})
	if err == nil {
		t.Fatal("expected context error")
	}
	if report.Total != 0 {
		t.Fatalf("expected nothing grouped, got %d", report.Total)
	}
}
