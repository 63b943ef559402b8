// Package progress provides progress-reporting helpers.
package progress

// Stage names reported while applying a plan.
const (
	StageScanning = "scanning"
	StageApplying = "applying"
)

// Callback receives a stage label and processed/total counts.
type Callback func(stage string, processed, total int)

// Emit calls cb with clamped processed/total values.
// It is a no-op when cb is nil or total is non-positive.
func Emit(cb Callback, stage string, processed, total int) {
	if cb == nil || total <= 0 {
		return
	}

	cb(stage, clamp(processed, total), total)
}

func clamp(processed, total int) int {
	if processed < 0 {
		return 0
	}
	if processed > total {
		return total
	}
	return processed
}
