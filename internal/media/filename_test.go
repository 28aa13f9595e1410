package media

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidFilename(t *testing.T) {
	valid := []string{
		"video.mp4",
		"1717171717000_a1b2c3.webm",
		"lesson_01-intro.mov",
		"UPPER.MP4",
	}
	for _, name := range valid {
		require.True(t, ValidFilename(name), "expected %q to be valid", name)
	}

	invalid := []string{
		"",
		"../../etc/passwd",
		"dir/video.mp4",
		"a b.mp4",
		"video.mp4\x00",
		"vidéo.mp4",
		"video;rm.mp4",
	}
	for _, name := range invalid {
		require.False(t, ValidFilename(name), "expected %q to be rejected", name)
	}
}

func TestContentType(t *testing.T) {
	require.Equal(t, "video/mp4", ContentType("a.mp4"))
	require.Equal(t, "video/webm", ContentType("a.webm"))
	require.Equal(t, "video/x-msvideo", ContentType("a.avi"))
	require.Equal(t, "video/quicktime", ContentType("a.mov"))
	// Unknown extensions fall back to mp4, the dominant stored format.
	require.Equal(t, "video/mp4", ContentType("a.mkv"))
	require.Equal(t, "video/mp4", ContentType("noext"))
}
