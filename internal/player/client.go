package player

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIClient is the HTTP Sink: it posts progress samples to the platform's
// progress endpoint, authenticating with a bearer session token.
type APIClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewAPIClient builds a client for the given API base URL (no trailing
// slash required) and session token.
func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Commit posts one progress sample.  Any non-2xx response is an error; the
// controller logs and drops it.
func (a *APIClient) Commit(ctx context.Context, videoID int64, currentTime, duration float64) error {
	body, err := json.Marshal(map[string]any{
		"videoId":     videoID,
		"currentTime": currentTime,
		"duration":    duration,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"/video-progress", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.token)

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 512)
		return fmt.Errorf("progress commit: unexpected status %d", resp.StatusCode)
	}
	return nil
}
