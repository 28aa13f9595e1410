package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeProgress(t *testing.T) {
	cases := []struct {
		name        string
		currentTime float64
		duration    float64
		progress    float64
		completed   bool
	}{
		{"halfway", 60, 120, 50, false},
		{"exact end", 120, 120, 100, true},
		{"one second short snaps", 119, 120, 100, true},
		{"just below threshold", 97, 100, 97, false},
		{"at threshold snaps", 98, 100, 100, true},
		{"negative time clamps", -5, 120, 0, false},
		{"overshoot snaps", 125, 120, 100, true},
		{"zero time", 0, 120, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			progress, completed, err := ComputeProgress(tc.currentTime, tc.duration)
			require.NoError(t, err)
			require.InDelta(t, tc.progress, progress, 1e-9)
			require.Equal(t, tc.completed, completed)
		})
	}
}

func TestComputeProgressInvalidDuration(t *testing.T) {
	for _, duration := range []float64{0, -1, -120} {
		_, _, err := ComputeProgress(10, duration)
		require.ErrorIs(t, err, ErrInvalidSample)
	}
}

// Completed must hold exactly when progress is 100, never for any value
// below it.
func TestCompletedOnlyAtFull(t *testing.T) {
	for current := 0.0; current <= 130; current += 0.5 {
		progress, completed, err := ComputeProgress(current, 130)
		require.NoError(t, err)
		require.Equal(t, progress == 100, completed, "currentTime=%v", current)
		if completed {
			require.Equal(t, 100.0, progress)
		}
	}
}
