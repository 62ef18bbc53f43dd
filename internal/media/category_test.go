package media

import "testing"

func TestCategoryDirs(t *testing.T) {
	want := map[Category]string{
		Photo:      "photos",
		Video:      "videos",
		Screenshot: "screenshots",
		Generated:  "generated",
		Unknown:    "unknown",
	}
	for category, dir := range want {
		got, ok := category.Dir()
		if !ok || got != dir {
			t.Fatalf("%s.Dir() = %q, %v; want %q", category, got, ok, dir)
		}
	}
	if _, ok := Sidecar.Dir(); ok {
		t.Fatal("sidecar must not have a backup directory")
	}
}

func TestSidecarNeverProcessable(t *testing.T) {
	for _, category := range Categories {
		if category == Sidecar && category.Processable() {
			t.Fatal("sidecar reported as processable")
		}
	}
	if Unknown.Processable() {
		t.Fatal("unknown reported as processable")
	}
}

func TestParseCategoryRejectsUnknownNames(t *testing.T) {
	if got, err := ParseCategory(" Screenshot "); err != nil || got != Screenshot {
		t.Fatalf("ParseCategory = %v, %v", got, err)
	}
	if _, err := ParseCategory("selfie"); err == nil {
		t.Fatal("expected error for unknown name")
	}
}

func TestExtensionTables(t *testing.T) {
	if !IsPhotoExt(Ext("IMG_0001.HEIC")) {
		t.Fatal("expected HEIC to be a photo extension")
	}
	if !IsVideoExt(Ext("clip.MOV")) {
		t.Fatal("expected MOV to be a video extension")
	}
	if !IsSidecarExt(Ext("IMG_0001.AAE")) {
		t.Fatal("expected AAE sidecar")
	}
	if !NeedsConversion(".heif") || NeedsConversion(".jpg") {
		t.Fatal("unexpected conversion table")
	}
	if IsPhotoExt(Ext("weird.xyz")) || IsVideoExt(Ext("weird.xyz")) {
		t.Fatal("xyz must be unrecognized")
	}
}
