package brightspace

import (
	"strings"

	"bsrename/pkg/sanitizer"
)

// leadingDotPrefix is a data-entry artifact seen in some submitter names.
const leadingDotPrefix = ". "

// StandardizeFolderName converts a folder name to the standard format.
//
//	"104840-170649 - Pal Patel - Nov 26, 2025 933 PM"          -> "pal_patel_nov_26_2025_933_pm"
//	"104860-170649 - . Karanvir Singh - Nov 20, 2025 1059 PM"  -> ".karanvir_singh_nov_20_2025_1059_pm"
//
// Names that do not follow the Brightspace convention are normalized whole.
// The leading-dot quirk is only honored for matched names.
func StandardizeFolderName(folderName string) string {
	parsed, ok := Parse(folderName)
	if !ok {
		return sanitizer.Normalize(folderName)
	}

	name, hasLeadingDot := strings.CutPrefix(parsed.RawName, leadingDotPrefix)

	standardized := sanitizer.Normalize(name) + "_" + sanitizer.Normalize(parsed.RawTimestamp)
	if hasLeadingDot {
		return "." + standardized
	}

	return standardized
}
