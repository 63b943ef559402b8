package sanitizer

import "fmt"

// ResolveNameConflict returns name unchanged when attempt is 0.
// For attempt > 0 it appends "_N" to the whole name, e.g. "pal_patel" with
// attempt 2 becomes "pal_patel_2". When keepExt is set the suffix goes
// before the extension instead: "report.pdf" becomes "report_2.pdf".
func ResolveNameConflict(name string, attempt int, keepExt bool) string {
	if attempt == 0 {
		return name
	}

	if !keepExt {
		return fmt.Sprintf("%s_%d", name, attempt)
	}

	stem, ext := SplitExt(name)

	return fmt.Sprintf("%s_%d%s", stem, attempt, ext)
}
