package store

import (
	"encoding/json"
	"strconv"

	"github.com/audiora/lectern/internal/content"
)

// Attribute keys. Values must stay JSON-primitive (string/number) or a flat
// map of primitives so every backend can round-trip them.
const (
	keyDialogState   = "dialogState"
	keyCurrentIndex  = "currentIndex"
	keyCategory      = "currentCategory"
	keyPlaybackState = "playbackState"
	keyPlaybackValue = "playbackAnchor"
	keyLastTitle     = "lastTitle"
	keyLastSlug      = "lastSlug"
	keyLastIndex     = "lastIndex"
	itemKeyPrefix    = "item:"
)

// Playback state tags persisted under the playback key. The anchor value is
// a start timestamp (unix milliseconds) under [PlaybackPlaying] and an
// elapsed offset in milliseconds under [PlaybackPaused].
const (
	PlaybackPlaying = "playing"
	PlaybackPaused  = "paused"
)

// MaxItems bounds the working set of content items kept per session. Indices
// at or beyond this bound are never stored.
const MaxItems = 10

// Attributes is the per-session attribute map. The zero value is not usable;
// construct with [NewAttributes] or receive one from [Store.LoadAll].
type Attributes map[string]any

// NewAttributes returns an empty attribute map.
func NewAttributes() Attributes {
	return Attributes{}
}

// DialogState returns the persisted dialog state tag, or "" when the session
// has no recorded state yet.
func (a Attributes) DialogState() string {
	s, _ := a[keyDialogState].(string)
	return s
}

// SetDialogState records the dialog state tag.
func (a Attributes) SetDialogState(state string) {
	a[keyDialogState] = state
}

// CurrentIndex returns the pagination index and whether one is set.
// Absence means no result list is active.
func (a Attributes) CurrentIndex() (int, bool) {
	n, ok := asInt(a[keyCurrentIndex])
	if !ok || n < 0 {
		return 0, false
	}
	return int(n), true
}

// SetCurrentIndex records the pagination index. Negative values are ignored.
func (a Attributes) SetCurrentIndex(i int) {
	if i < 0 {
		return
	}
	a[keyCurrentIndex] = i
}

// ClearCurrentIndex removes the pagination index, marking the result list
// inactive.
func (a Attributes) ClearCurrentIndex() {
	delete(a, keyCurrentIndex)
}

// Category returns the human-readable category label for prompt text.
func (a Attributes) Category() (string, bool) {
	s, ok := a[keyCategory].(string)
	return s, ok && s != ""
}

// SetCategory records the human-readable category label.
func (a Attributes) SetCategory(label string) {
	a[keyCategory] = label
}

// Item returns the working-set item at index i. Items absent from the
// working set (never stored, or beyond [MaxItems]) report ok = false.
func (a Attributes) Item(i int) (content.Item, bool) {
	v, ok := a[itemKeyPrefix+strconv.Itoa(i)]
	if !ok {
		return content.Item{}, false
	}
	switch it := v.(type) {
	case content.Item:
		return it, true
	case map[string]any:
		// Round-tripped through JSON by a persistent backend.
		title, _ := it["title"].(string)
		slug, _ := it["slug"].(string)
		cat, _ := it["category"].(string)
		if title == "" {
			return content.Item{}, false
		}
		return content.Item{Title: title, Slug: slug, Category: content.Category(cat)}, true
	default:
		return content.Item{}, false
	}
}

// SetItem stores the working-set item at index i. Indices outside
// [0, MaxItems) are dropped.
func (a Attributes) SetItem(i int, it content.Item) {
	if i < 0 || i >= MaxItems {
		return
	}
	a[itemKeyPrefix+strconv.Itoa(i)] = it
}

// Playback returns the persisted playback state tag and its anchor value.
// The tag is "" for sessions that never started a stream. The anchor is a
// start timestamp (unix milliseconds) while playing and an elapsed offset in
// milliseconds while paused.
func (a Attributes) Playback() (state string, anchor int64) {
	state, _ = a[keyPlaybackState].(string)
	anchor, _ = asInt(a[keyPlaybackValue])
	return state, anchor
}

// SetPlayback records the playback state tag and anchor value.
func (a Attributes) SetPlayback(state string, anchor int64) {
	a[keyPlaybackState] = state
	a[keyPlaybackValue] = anchor
}

// LastPlayed returns the durable resume snapshot: the title and slug of the
// most recently played item.
func (a Attributes) LastPlayed() (title, slug string, ok bool) {
	title, _ = a[keyLastTitle].(string)
	slug, _ = a[keyLastSlug].(string)
	return title, slug, slug != ""
}

// SetLastPlayed records the durable resume snapshot.
func (a Attributes) SetLastPlayed(title, slug string) {
	a[keyLastTitle] = title
	a[keyLastSlug] = slug
}

// LastPlayedIndex returns the working-set index of the item whose stream was
// most recently started, and whether one is recorded.
func (a Attributes) LastPlayedIndex() (int, bool) {
	n, ok := asInt(a[keyLastIndex])
	if !ok || n < 0 {
		return 0, false
	}
	return int(n), true
}

// SetLastPlayedIndex records the working-set index of the item whose stream
// was most recently started. Negative values are ignored.
func (a Attributes) SetLastPlayedIndex(i int) {
	if i < 0 {
		return
	}
	a[keyLastIndex] = i
}

// ResumeSnapshot returns a fresh attribute map carrying only the keys that
// survive across sessions: the last played item and, when the stream was
// paused, its elapsed offset. The working set, pagination index, and dialog
// state always start a new session empty.
func (a Attributes) ResumeSnapshot() Attributes {
	s := NewAttributes()
	if title, slug, ok := a.LastPlayed(); ok {
		s.SetLastPlayed(title, slug)
	}
	if state, anchor := a.Playback(); state == PlaybackPaused {
		s.SetPlayback(state, anchor)
	}
	return s
}

// Clone returns a deep copy of a. Item values are copied by value; map
// values from JSON round-trips are shallow-copied, which is safe because
// accessors never mutate them.
func (a Attributes) Clone() Attributes {
	c := make(Attributes, len(a))
	for k, v := range a {
		c[k] = v
	}
	return c
}

// asInt coerces the numeric representations a JSON round-trip can produce.
func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}
