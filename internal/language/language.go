// Package language maps subtitle language codes to the forms external tools
// expect: ffmpeg metadata wants ISO 639-2 tags, track titles want a
// human-readable name.
package language

import (
	"strings"

	xlang "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ToISO3 converts a language code to its ISO 639-2 three-letter form.
// Unrecognized input maps to "und".
func ToISO3(code string) string {
	tag, err := xlang.Parse(strings.TrimSpace(code))
	if err != nil {
		return "und"
	}
	base, _ := tag.Base()
	return base.ISO3()
}

// DisplayName returns the English display name for a language code, falling
// back to the input when it cannot be resolved.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	tag, err := xlang.Parse(trimmed)
	if err != nil {
		return trimmed
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return trimmed
}
