package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "IMG_0001", "IMG_0001"},
		{"unsafe characters", `a/b\c:d*e?f"g<h>i|j`, "a-b-c-d-efghij"},
		{"composes decomposed accents", "Cafe\u0301", "Caf\u00e9"},
		{"drops control characters", "bad\x00name\t", "badname"},
		{"never hidden", "..secret", "secret"},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFileName(tt.in); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
