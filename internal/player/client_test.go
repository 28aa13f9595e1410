package player

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAPIClientCommit(t *testing.T) {
	var got struct {
		VideoID     int64   `json:"videoId"`
		CurrentTime float64 `json:"currentTime"`
		Duration    float64 `json:"duration"`
	}
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/video-progress", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL+"/", "session-token")
	err := client.Commit(context.Background(), 42, 73.5, 120)
	require.NoError(t, err)
	require.Equal(t, "Bearer session-token", auth)
	require.Equal(t, int64(42), got.VideoID)
	require.Equal(t, 73.5, got.CurrentTime)
	require.Equal(t, 120.0, got.Duration)
}

func TestAPIClientCommitRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, "bad-token")
	err := client.Commit(context.Background(), 1, 0, 10)
	require.Error(t, err)
	require.Contains(t, err.Error(), "401")
}
