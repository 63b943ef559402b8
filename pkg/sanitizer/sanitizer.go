// Package sanitizer provides name normalization utilities.
// It converts arbitrary text to a lowercase slug where whitespace and hyphens
// become underscores and everything but letters, digits, underscores and dots
// is dropped.
package sanitizer

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Unnamed replaces a name that normalizes to nothing.
const Unnamed = "unnamed"

var (
	// separatorRegex matches runs of whitespace (Unicode included) and hyphens.
	separatorRegex = regexp.MustCompile(`[\s\x0b\x1c-\x1f\x{85}\p{Zs}\x{2028}\x{2029}-]+`)
	// invalidCharsRegex matches any character that's not a non-uppercase
	// letter, digit, underscore, or dot. Uppercase letters with no lowercase
	// form survive lowering and are dropped here.
	invalidCharsRegex = regexp.MustCompile(`[^\p{Ll}\p{Lm}\p{Lo}\p{N}_.]`)
	// multiUnderscoreRegex matches multiple consecutive underscores.
	multiUnderscoreRegex = regexp.MustCompile(`_+`)
)

// Normalize converts text to the standard slug format.
//
// The steps run in a fixed order: lowercase, separators to underscore,
// invalid characters removed, underscores collapsed and trimmed. Separators
// are replaced before punctuation is removed, so "Morgan-Mcleggon" becomes
// "morgan_mcleggon" while "O'Brien" becomes "obrien".
func Normalize(text string) string {
	name := lower(text)
	name = separatorRegex.ReplaceAllString(name, "_")
	name = invalidCharsRegex.ReplaceAllString(name, "")
	name = multiUnderscoreRegex.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")

	if name == "" {
		return Unnamed
	}

	return name
}

// NormalizeFilename normalizes the stem of a filename and keeps its
// extension, lowercased. Only the last dot separates the extension.
func NormalizeFilename(filename string) string {
	stem, ext := SplitExt(filename)
	return Normalize(stem) + lower(ext)
}

// SplitExt splits name on its final dot. A leading dot does not start an
// extension, so ".gitignore" has none.
func SplitExt(name string) (stem, ext string) {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return name, ""
	}

	return name[:idx], name[idx:]
}

// A Caser is stateful, so one is built per call.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
