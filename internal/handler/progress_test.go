package handler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseIDList(t *testing.T) {
	ids, err := parseIDList("1,2,3")
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3}, ids)

	ids, err = parseIDList(" 7 , 9 ,")
	require.NoError(t, err)
	require.Equal(t, []int64{7, 9}, ids)

	for _, raw := range []string{"1,abc", "0", "-3", "1,,x"} {
		_, err := parseIDList(raw)
		require.Error(t, err, "input %q", raw)
	}
}

func TestParseID(t *testing.T) {
	id, ok := parseID("42")
	require.True(t, ok)
	require.Equal(t, int64(42), id)

	for _, raw := range []string{"", "0", "-1", "abc", "1.5", "9999999999999999999999"} {
		_, ok := parseID(raw)
		require.False(t, ok, "input %q", raw)
	}
}

func TestNormalizeFormats(t *testing.T) {
	got := normalizeFormats([]string{" MP4 ", ".webm", "mp4", "", "MOV"})
	require.Equal(t, []string{"mp4", "webm", "mov"}, got)
}
