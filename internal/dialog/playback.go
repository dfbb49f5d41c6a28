package dialog

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/audiora/lectern/internal/content"
	"github.com/audiora/lectern/internal/store"
	"github.com/audiora/lectern/pkg/alexa"
)

// Playback states persisted in session attributes. The tagged form keeps the
// anchor value unambiguous: while playing it is the stream start timestamp
// (unix milliseconds), while paused it is the accumulated offset in
// milliseconds.
const (
	playbackIdle    = ""
	playbackPlaying = store.PlaybackPlaying
	playbackPaused  = store.PlaybackPaused
)

// Tracker owns the offset bookkeeping needed to pause, resume, and stop a
// remote audio stream across turns. It receives no ticks from the device;
// elapsed time is inferred from wall-clock deltas when a pause arrives.
type Tracker struct {
	provider content.Provider
	now      func() time.Time
}

// TrackerOption is a functional option for configuring a [Tracker].
type TrackerOption func(*Tracker)

// WithClock replaces the wall clock. Tests use this to make elapsed-time
// computation deterministic.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		t.now = now
	}
}

// NewTracker creates a [Tracker] that resolves streaming URLs through
// provider.
func NewTracker(provider content.Provider, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		provider: provider,
		now:      time.Now,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Play fetches the item's streaming URL and returns a play directive for
// it. When the session is paused and the item is the one that was paused,
// the stored offset is carried into the directive so the device resumes
// mid-stream; a different item always starts from zero. A URL fetch failure
// is logged and degrades to no directive; the turn itself never fails.
//
// On success the session transitions to playing with the anchor set to now,
// and the durable resume snapshot is updated.
func (t *Tracker) Play(ctx context.Context, attrs store.Attributes, item content.Item) []alexa.Directive {
	url, err := t.provider.PlaybackURL(ctx, item.Slug)
	if err != nil {
		slog.Warn("playback url fetch failed; skipping directive",
			"slug", item.Slug,
			"err", err,
		)
		return nil
	}

	var offsetMs int64
	if state, anchor := attrs.Playback(); state == playbackPaused {
		if _, slug, ok := attrs.LastPlayed(); ok && slug == item.Slug {
			offsetMs = anchor
		}
	}

	attrs.SetPlayback(playbackPlaying, t.now().UnixMilli())
	attrs.SetLastPlayed(item.Title, item.Slug)
	return []alexa.Directive{alexa.PlayDirective(url, uuid.NewString(), offsetMs)}
}

// Pause transitions a playing session to paused, recording the elapsed time
// since Play as the resume offset, and returns a clear-queue directive.
// Calling Pause while idle or already paused is a no-op, as is a stored
// anchor that is not in the past (a skewed clock would otherwise produce a
// negative offset).
func (t *Tracker) Pause(attrs store.Attributes) []alexa.Directive {
	state, anchor := attrs.Playback()
	if state != playbackPlaying {
		return nil
	}
	nowMs := t.now().UnixMilli()
	if anchor > nowMs {
		return nil
	}
	attrs.SetPlayback(playbackPaused, nowMs-anchor)
	return []alexa.Directive{alexa.ClearQueueDirective()}
}

// Stop returns a clear-queue directive if a stream was ever started in this
// session, whether currently playing or paused. It performs no state
// mutation; the session is about to end.
func (t *Tracker) Stop(attrs store.Attributes) []alexa.Directive {
	if state, _ := attrs.Playback(); state == playbackIdle {
		return nil
	}
	return []alexa.Directive{alexa.ClearQueueDirective()}
}
