// Package brightspace recognizes the folder names Brightspace produces when
// an assessment's submissions are downloaded in bulk, and turns them into
// normalized folder names.
//
// A submission folder looks like
//
//	104840-170649 - Pal Patel - Nov 26, 2025 933 PM
//
// that is two numeric ids, the submitter's name and the submission time.
package brightspace

import (
	"regexp"
	"strings"
)

// folderPattern captures the name non-greedily so the timestamp anchors the
// match. Hyphenated names survive because "Mcleggon" followed by a space and
// a non-digit is not a valid timestamp.
var folderPattern = regexp.MustCompile(
	`^\d+-\d+\s*-\s*(.+?)\s*-\s*([A-Za-z]{3,}\s+\d{1,2},\s+\d{4}\s+\d{1,4}\s*(?:AM|PM))$`,
)

// ParsedName holds the raw parts of a matched folder name.
type ParsedName struct {
	RawName      string // submitter name as written, e.g. ". Karanvir Singh"
	RawTimestamp string // e.g. "Nov 20, 2025 1059 PM"
}

// Parse extracts the submitter name and timestamp from a Brightspace folder
// name. It reports false when the name does not follow the convention.
func Parse(folderName string) (ParsedName, bool) {
	m := folderPattern.FindStringSubmatch(folderName)
	if m == nil {
		return ParsedName{}, false
	}

	return ParsedName{
		RawName:      strings.TrimSpace(m[1]),
		RawTimestamp: strings.TrimSpace(m[2]),
	}, true
}
