// Package player drives a media element through a course's ordered video
// list and keeps server-side progress approximately in sync with real
// playback.  Commits are advisory: they never block or fail playback.
package player

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// State is the playback lifecycle of the active video.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePlaying
	StatePaused
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	}
	return "unknown"
}

// Element is the media surface the controller drives.  Position and
// Duration are sampled live at each commit; SetPosition implements
// scrubbing.
type Element interface {
	Position() float64
	Duration() float64
	SetPosition(seconds float64)
}

// Sink receives progress commits.  The HTTP implementation posts to the
// progress endpoint; tests substitute a recorder.
type Sink interface {
	Commit(ctx context.Context, videoID int64, currentTime, duration float64) error
}

// DefaultCommitInterval is how often a playing controller pushes progress.
const DefaultCommitInterval = 10 * time.Second

// ErrNoVideo is returned when Load is called with an index outside the
// playlist.
var ErrNoVideo = errors.New("no video at index")

// Controller is the playback state machine.  It owns at most one periodic
// commit timer; switching videos or closing cancels it before anything
// else so a stale tick can never race a newly loaded video's timer.
type Controller struct {
	element  Element
	sink     Sink
	interval time.Duration
	timeout  time.Duration

	mu       sync.Mutex
	playlist []int64
	idx      int
	state    State
	stop     chan struct{} // non-nil while the commit timer runs
}

// New builds a controller over an ordered playlist of video ids.  interval
// <= 0 selects the default ten-second commit cadence.
func New(element Element, sink Sink, playlist []int64, interval time.Duration) *Controller {
	if interval <= 0 {
		interval = DefaultCommitInterval
	}
	return &Controller{
		element:  element,
		sink:     sink,
		interval: interval,
		timeout:  5 * time.Second,
		playlist: append([]int64(nil), playlist...),
		idx:      -1,
		state:    StateIdle,
	}
}

// State returns the current playback state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current returns the active video id, or 0 when nothing is loaded.
func (c *Controller) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.idx < 0 || c.idx >= len(c.playlist) {
		return 0
	}
	return c.playlist[c.idx]
}

// Load selects the playlist entry at index i.  Any pending timer is
// cancelled first; the discarded timer belongs to the previous video and
// must not fire against the new one.
func (c *Controller) Load(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.playlist) {
		return ErrNoVideo
	}
	c.cancelTimerLocked()
	c.idx = i
	c.state = StateLoading
	return nil
}

// Play transitions to Playing and starts the periodic commit timer.  It is
// a no-op while already playing, and rejected before any video is loaded.
func (c *Controller) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.idx < 0 {
		return ErrNoVideo
	}
	if c.state == StatePlaying {
		return nil
	}
	c.state = StatePlaying
	if c.stop == nil {
		c.stop = make(chan struct{})
		go c.commitLoop(c.playlist[c.idx], c.stop)
	}
	return nil
}

// Pause halts the commit timer and keeps the element where it is.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StatePlaying {
		return
	}
	c.cancelTimerLocked()
	c.state = StatePaused
}

// Seek repositions the element.  It deliberately does not commit: the next
// periodic tick or the end event carries the new position forward.
func (c *Controller) Seek(seconds float64) {
	c.element.SetPosition(seconds)
}

// Ended handles end-of-stream: it cancels the timer and issues one final
// commit with the duration for both arguments, so the completion snap
// fires even when playback stopped a rounding error short of the end.
func (c *Controller) Ended() {
	c.mu.Lock()
	if c.idx < 0 {
		c.mu.Unlock()
		return
	}
	c.cancelTimerLocked()
	c.state = StateEnded
	videoID := c.playlist[c.idx]
	c.mu.Unlock()

	duration := c.element.Duration()
	c.commit(videoID, duration, duration)
}

// Close cancels any pending timer and returns the controller to Idle.
// Callers must invoke it when tearing down the player.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelTimerLocked()
	c.idx = -1
	c.state = StateIdle
}

// cancelTimerLocked stops the commit goroutine if one is running.  The
// caller holds c.mu.
func (c *Controller) cancelTimerLocked() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

// commitLoop pushes progress every interval until stopped.  videoID is
// captured at start so a tick that loses the race with a video switch
// still reports against the video it sampled.
func (c *Controller) commitLoop(videoID int64, stop <-chan struct{}) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.commit(videoID, c.element.Position(), c.element.Duration())
		}
	}
}

// commit pushes one sample.  Failures are logged and swallowed: progress
// sync is best-effort and losing a sample is acceptable.
func (c *Controller) commit(videoID int64, currentTime, duration float64) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	if err := c.sink.Commit(ctx, videoID, currentTime, duration); err != nil {
		log.Debug().Err(err).Int64("video_id", videoID).Msg("progress commit failed")
	}
}
