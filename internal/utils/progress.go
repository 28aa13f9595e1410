package utils

import "errors"

// ErrInvalidSample rejects progress samples with a non-positive duration.
// Accepting them would divide by zero or persist corrupt zero-duration
// rows, so the boundary fails instead of coercing.
var ErrInvalidSample = errors.New("invalid progress sample: duration must be positive")

// completionSnapThreshold is the raw percentage at or above which a watch
// is counted as complete.  Playback regularly ends a fraction of a second
// short of the container's nominal duration; snapping ≥98% to 100 absorbs
// that rounding.
const completionSnapThreshold = 98.0

// ComputeProgress reduces one playback sample to the derived progress
// state.  The result is clamped to [0,100]; any raw ratio at or above the
// snap threshold becomes exactly 100, and completed holds iff progress is
// exactly 100.
func ComputeProgress(currentTime, duration float64) (progress float64, completed bool, err error) {
	if duration <= 0 {
		return 0, false, ErrInvalidSample
	}
	progress = currentTime / duration * 100
	if progress < 0 {
		progress = 0
	}
	if progress >= completionSnapThreshold {
		progress = 100
	}
	return progress, progress == 100, nil
}
