package naming_test

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"mediabackup/internal/media"
	"mediabackup/internal/naming"
	"mediabackup/internal/services"
	"mediabackup/internal/testsupport"
)

func capture(t time.Time) *time.Time { return &t }

func TestAllocateIdenticalTimestamps(t *testing.T) {
	root := t.TempDir()
	alloc := naming.NewAllocator(root, nil)
	when := capture(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	first, err := alloc.Allocate(naming.Request{Category: media.Photo, Capture: when, Ext: ".JPG"})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	second, err := alloc.Allocate(naming.Request{Category: media.Photo, Capture: when, Ext: ".jpg"})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if first != filepath.Join(root, "photos", "20240501_120000.jpg") {
		t.Fatalf("unexpected first destination %s", first)
	}
	if second != filepath.Join(root, "photos", "20240501_120000_1.jpg") {
		t.Fatalf("unexpected second destination %s", second)
	}
	if alloc.Used().Len() != 2 {
		t.Fatalf("expected 2 claimed names, got %d", alloc.Used().Len())
	}
}

func TestAllocateSkipsExistingFiles(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "videos", "20230809_101112.mov"), 8)
	alloc := naming.NewAllocator(root, nil)

	dest, err := alloc.Allocate(naming.Request{
		Category: media.Video,
		Capture:  capture(time.Date(2023, 8, 9, 10, 11, 12, 0, time.UTC)),
		Ext:      ".MOV",
	})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if dest != filepath.Join(root, "videos", "20230809_101112_1.mov") {
		t.Fatalf("existing file should be skipped, got %s", dest)
	}
}

func TestAllocateUnresolvedUsesStem(t *testing.T) {
	root := t.TempDir()
	alloc := naming.NewAllocator(root, nil)

	dest, err := alloc.Allocate(naming.Request{Category: media.Video, Stem: "clip: take 2", Ext: ".mov"})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if dest != filepath.Join(root, "videos", "clip- take 2.mov") {
		t.Fatalf("unexpected destination %s", dest)
	}

	dest, err = alloc.Allocate(naming.Request{Category: media.Unknown, Stem: "...", Ext: ".xyz"})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if dest != filepath.Join(root, "unknown", "unnamed.xyz") {
		t.Fatalf("unexpected fallback destination %s", dest)
	}
}

func TestAllocateCaseInsensitiveCollision(t *testing.T) {
	root := t.TempDir()
	alloc := naming.NewAllocator(root, nil)

	first, _ := alloc.Allocate(naming.Request{Category: media.Photo, Stem: "Beach", Ext: ".jpg"})
	second, _ := alloc.Allocate(naming.Request{Category: media.Photo, Stem: "beach", Ext: ".JPG"})
	if first == second || second != filepath.Join(root, "photos", "beach_1.jpg") {
		t.Fatalf("expected case-folded collision, got %s and %s", first, second)
	}
}

func TestAllocateRejectsSidecar(t *testing.T) {
	alloc := naming.NewAllocator(t.TempDir(), nil)
	_, err := alloc.Allocate(naming.Request{Category: media.Sidecar, Stem: "IMG_0001", Ext: ".aae"})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAllocateGivesUp(t *testing.T) {
	alloc := naming.NewAllocator(t.TempDir(), nil)
	restore := alloc.SetExistsForTests(func(string) bool { return true })
	defer restore()

	_, err := alloc.Allocate(naming.Request{Category: media.Photo, Stem: "x", Ext: ".jpg"})
	if !errors.Is(err, services.ErrPlacement) {
		t.Fatalf("expected placement error, got %v", err)
	}
}

func TestAllocateConcurrentUnique(t *testing.T) {
	root := t.TempDir()
	alloc := naming.NewAllocator(root, naming.NewUsedNames())
	when := capture(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))

	const n = 50
	results := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dest, err := alloc.Allocate(naming.Request{Category: media.Photo, Capture: when, Ext: ".jpg"})
			if err != nil {
				t.Errorf("Allocate: %v", err)
				return
			}
			results[i] = dest
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, dest := range results {
		if seen[dest] {
			t.Fatalf("destination %s handed out twice", dest)
		}
		seen[dest] = true
	}
}
