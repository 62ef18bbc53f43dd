package classify

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Signal names recorded in Result.Signals.
const (
	SignalUUIDName        = "uuid_name"
	SignalTextMarker      = "text_marker"
	SignalEditedNoCapture = "edited_without_capture_time"
)

var screenshotPatterns = []string{
	"screenshot",
	"screen shot",
	"screen recording",
	"screen_",
	"capture",
}

var generatorMarkers = []string{
	"chatgpt",
	"openai",
	"generated",
	"c2pa",
	"gpt",
	"ai",
}

var editingSoftware = []string{
	"snapseed",
	"photoshop",
	"lightroom",
	"gimp",
	"canva",
}

// isUUIDShaped reports a 36-character stem with exactly four hyphens.
func isUUIDShaped(stem string) bool {
	return len(stem) == 36 && strings.Count(stem, "-") == 4
}

func tokenSet(text string) map[string]struct{} {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// fold case-folds s. A Caser carries state, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
