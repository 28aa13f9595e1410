package media

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRangeAbsentHeader(t *testing.T) {
	rng, err := ParseRange("", 1000)
	require.NoError(t, err)
	require.Nil(t, rng)
}

func TestParseRangeWindows(t *testing.T) {
	cases := []struct {
		header     string
		size       int64
		start, end int64
	}{
		{"bytes=0-99", 1000, 0, 99},
		{"bytes=500-999", 1000, 500, 999},
		{"bytes=900-", 1000, 900, 999},
		{"bytes=0-", 1000, 0, 999},
		{"bytes=0-0", 1, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.header, func(t *testing.T) {
			rng, err := ParseRange(tc.header, tc.size)
			require.NoError(t, err)
			require.NotNil(t, rng)
			require.Equal(t, tc.start, rng.Start)
			require.Equal(t, tc.end, rng.End)
			require.Equal(t, tc.end-tc.start+1, rng.Length())
		})
	}
}

func TestParseRangeUnsatisfiable(t *testing.T) {
	headers := []string{
		"bytes=1000-",     // start at size
		"bytes=1000-1100", // fully past the end
		"bytes=0-1000",    // end at size
		"bytes=500-400",   // inverted
		"bytes=-500",      // suffix form not served
		"bytes=abc-def",   // garbage bounds
		"bytes=0-99,200-", // multiple ranges
		"bytes=0",         // missing dash
		"items=0-99",      // wrong unit
		"0-99",            // no unit
	}
	for _, header := range headers {
		t.Run(header, func(t *testing.T) {
			_, err := ParseRange(header, 1000)
			require.ErrorIs(t, err, ErrUnsatisfiableRange)
		})
	}
}
