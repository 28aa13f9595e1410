package player

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeElement struct {
	mu       sync.Mutex
	position float64
	duration float64
}

func (f *fakeElement) Position() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.position
}

func (f *fakeElement) Duration() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.duration
}

func (f *fakeElement) SetPosition(seconds float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.position = seconds
}

type commitRecord struct {
	videoID     int64
	currentTime float64
	duration    float64
}

type recordingSink struct {
	mu      sync.Mutex
	commits []commitRecord
}

func (r *recordingSink) Commit(ctx context.Context, videoID int64, currentTime, duration float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commits = append(r.commits, commitRecord{videoID, currentTime, duration})
	return nil
}

func (r *recordingSink) snapshot() []commitRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]commitRecord(nil), r.commits...)
}

func (r *recordingSink) waitFor(t *testing.T, n int) []commitRecord {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := r.snapshot(); len(got) >= n {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d commits, have %d", n, len(r.snapshot()))
	return nil
}

func newTestController(interval time.Duration) (*Controller, *fakeElement, *recordingSink) {
	element := &fakeElement{duration: 120}
	sink := &recordingSink{}
	return New(element, sink, []int64{10, 20, 30}, interval), element, sink
}

func TestControllerLifecycle(t *testing.T) {
	c, _, _ := newTestController(time.Hour)
	defer c.Close()

	require.Equal(t, StateIdle, c.State())
	require.Equal(t, int64(0), c.Current())

	require.ErrorIs(t, c.Play(), ErrNoVideo)
	require.ErrorIs(t, c.Load(3), ErrNoVideo)
	require.ErrorIs(t, c.Load(-1), ErrNoVideo)

	require.NoError(t, c.Load(1))
	require.Equal(t, StateLoading, c.State())
	require.Equal(t, int64(20), c.Current())

	require.NoError(t, c.Play())
	require.Equal(t, StatePlaying, c.State())
	require.NoError(t, c.Play()) // idempotent

	c.Pause()
	require.Equal(t, StatePaused, c.State())
	c.Pause() // no-op while paused

	c.Close()
	require.Equal(t, StateIdle, c.State())
	require.Equal(t, int64(0), c.Current())
}

func TestControllerPeriodicCommits(t *testing.T) {
	c, element, sink := newTestController(10 * time.Millisecond)
	defer c.Close()

	require.NoError(t, c.Load(0))
	element.SetPosition(33)
	require.NoError(t, c.Play())

	commits := sink.waitFor(t, 3)
	for _, commit := range commits[:3] {
		require.Equal(t, int64(10), commit.videoID)
		require.Equal(t, 33.0, commit.currentTime)
		require.Equal(t, 120.0, commit.duration)
	}
}

func TestControllerPauseStopsCommits(t *testing.T) {
	c, _, sink := newTestController(10 * time.Millisecond)
	defer c.Close()

	require.NoError(t, c.Load(0))
	require.NoError(t, c.Play())
	sink.waitFor(t, 1)

	c.Pause()
	settled := len(sink.snapshot())
	time.Sleep(50 * time.Millisecond)
	require.LessOrEqual(t, len(sink.snapshot()), settled+1)
}

func TestControllerEndedCommitsFullDuration(t *testing.T) {
	c, element, sink := newTestController(time.Hour)
	defer c.Close()

	require.NoError(t, c.Load(2))
	require.NoError(t, c.Play())

	// Playback stops a fraction short; the end event must still report
	// the full duration for both arguments.
	element.SetPosition(119.4)
	c.Ended()

	require.Equal(t, StateEnded, c.State())
	commits := sink.snapshot()
	require.Len(t, commits, 1)
	require.Equal(t, commitRecord{videoID: 30, currentTime: 120, duration: 120}, commits[0])
}

func TestControllerLoadCancelsPreviousTimer(t *testing.T) {
	c, _, sink := newTestController(10 * time.Millisecond)
	defer c.Close()

	require.NoError(t, c.Load(0))
	require.NoError(t, c.Play())
	sink.waitFor(t, 1)

	// Switch videos; no further commits may carry the old video id.  A
	// tick already executing when the timer is cancelled may still land,
	// so let it drain before drawing the line.
	require.NoError(t, c.Load(1))
	time.Sleep(30 * time.Millisecond)
	cutoff := len(sink.snapshot())
	time.Sleep(50 * time.Millisecond)
	for _, commit := range sink.snapshot()[cutoff:] {
		require.NotEqual(t, int64(10), commit.videoID)
	}
	require.Equal(t, StateLoading, c.State())

	// Playing the new video commits against its id.
	require.NoError(t, c.Play())
	commits := sink.waitFor(t, cutoff+1)
	require.Equal(t, int64(20), commits[len(commits)-1].videoID)
}

func TestControllerSeekDoesNotCommit(t *testing.T) {
	c, element, sink := newTestController(time.Hour)
	defer c.Close()

	require.NoError(t, c.Load(0))
	require.NoError(t, c.Play())
	c.Seek(42)

	require.Equal(t, 42.0, element.Position())
	require.Empty(t, sink.snapshot())
}
