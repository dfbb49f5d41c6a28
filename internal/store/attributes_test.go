package store

import (
	"encoding/json"
	"testing"

	"github.com/audiora/lectern/internal/content"
)

func TestAttributes_CurrentIndex(t *testing.T) {
	t.Parallel()
	a := NewAttributes()

	if _, ok := a.CurrentIndex(); ok {
		t.Fatal("empty attributes should report no current index")
	}

	a.SetCurrentIndex(0)
	if idx, ok := a.CurrentIndex(); !ok || idx != 0 {
		t.Fatalf("CurrentIndex() = %d, %v; want 0, true", idx, ok)
	}

	a.SetCurrentIndex(-1) // ignored
	if idx, _ := a.CurrentIndex(); idx != 0 {
		t.Errorf("negative SetCurrentIndex should be ignored, got %d", idx)
	}

	a.ClearCurrentIndex()
	if _, ok := a.CurrentIndex(); ok {
		t.Fatal("ClearCurrentIndex should remove the index")
	}
}

func TestAttributes_CurrentIndexSurvivesJSONRoundTrip(t *testing.T) {
	t.Parallel()
	a := NewAttributes()
	a.SetCurrentIndex(7)

	raw, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b := NewAttributes()
	if err := json.Unmarshal(raw, &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// Numbers come back as float64; the accessor must coerce.
	if idx, ok := b.CurrentIndex(); !ok || idx != 7 {
		t.Fatalf("CurrentIndex() after round trip = %d, %v; want 7, true", idx, ok)
	}
}

func TestAttributes_Items(t *testing.T) {
	t.Parallel()
	a := NewAttributes()

	it := content.Item{Title: "Go Basics", Slug: "go-basics", Category: content.CategoryCourse}
	a.SetItem(0, it)

	got, ok := a.Item(0)
	if !ok || got != it {
		t.Fatalf("Item(0) = %+v, %v; want stored item", got, ok)
	}
	if _, ok := a.Item(1); ok {
		t.Fatal("Item(1) should be absent")
	}

	// Indices at or beyond the working-set bound are dropped.
	a.SetItem(MaxItems, content.Item{Title: "overflow", Slug: "x"})
	if _, ok := a.Item(MaxItems); ok {
		t.Fatal("items beyond MaxItems must not be stored")
	}
}

func TestAttributes_ItemsSurviveJSONRoundTrip(t *testing.T) {
	t.Parallel()
	a := NewAttributes()
	a.SetItem(3, content.Item{Title: "Advanced Go", Slug: "advanced-go", Category: content.CategoryVideo})

	raw, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b := NewAttributes()
	if err := json.Unmarshal(raw, &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got, ok := b.Item(3)
	if !ok {
		t.Fatal("Item(3) absent after round trip")
	}
	if got.Title != "Advanced Go" || got.Slug != "advanced-go" || got.Category != content.CategoryVideo {
		t.Errorf("Item(3) = %+v", got)
	}
}

func TestAttributes_Playback(t *testing.T) {
	t.Parallel()
	a := NewAttributes()

	state, anchor := a.Playback()
	if state != "" || anchor != 0 {
		t.Fatalf("empty attributes playback = %q, %d; want \"\", 0", state, anchor)
	}

	a.SetPlayback("paused", 4200)
	state, anchor = a.Playback()
	if state != "paused" || anchor != 4200 {
		t.Fatalf("playback = %q, %d; want paused, 4200", state, anchor)
	}
}

func TestAttributes_LastPlayed(t *testing.T) {
	t.Parallel()
	a := NewAttributes()

	if _, _, ok := a.LastPlayed(); ok {
		t.Fatal("empty attributes should report no last played item")
	}

	a.SetLastPlayed("Go Basics", "go-basics")
	title, slug, ok := a.LastPlayed()
	if !ok || title != "Go Basics" || slug != "go-basics" {
		t.Fatalf("LastPlayed() = %q, %q, %v", title, slug, ok)
	}
}

func TestAttributes_LastPlayedIndex(t *testing.T) {
	t.Parallel()
	a := NewAttributes()

	if _, ok := a.LastPlayedIndex(); ok {
		t.Fatal("empty attributes should report no last played index")
	}

	a.SetLastPlayedIndex(0)
	if idx, ok := a.LastPlayedIndex(); !ok || idx != 0 {
		t.Fatalf("LastPlayedIndex() = %d, %v; want 0, true", idx, ok)
	}

	a.SetLastPlayedIndex(-2) // ignored
	if idx, _ := a.LastPlayedIndex(); idx != 0 {
		t.Errorf("negative SetLastPlayedIndex should be ignored, got %d", idx)
	}
}

func TestAttributes_ResumeSnapshot(t *testing.T) {
	t.Parallel()
	a := NewAttributes()
	a.SetDialogState("list_active")
	a.SetCurrentIndex(3)
	a.SetCategory("courses")
	a.SetItem(0, content.Item{Title: "Go Basics", Slug: "go-basics"})
	a.SetLastPlayed("Go Basics", "go-basics")
	a.SetPlayback(PlaybackPaused, 75000)

	s := a.ResumeSnapshot()

	if _, ok := s.CurrentIndex(); ok {
		t.Error("snapshot must not carry the pagination index")
	}
	if _, ok := s.Item(0); ok {
		t.Error("snapshot must not carry working-set items")
	}
	if got := s.DialogState(); got != "" {
		t.Errorf("snapshot dialog state = %q; want empty", got)
	}
	if _, slug, ok := s.LastPlayed(); !ok || slug != "go-basics" {
		t.Errorf("snapshot should carry the last played item, got %q, %v", slug, ok)
	}
	if state, anchor := s.Playback(); state != PlaybackPaused || anchor != 75000 {
		t.Errorf("snapshot playback = %q, %d; want paused, 75000", state, anchor)
	}
}

func TestAttributes_ResumeSnapshotDropsLivePlayback(t *testing.T) {
	t.Parallel()
	a := NewAttributes()
	a.SetLastPlayed("Go Basics", "go-basics")
	// A playing anchor is a start timestamp; it is meaningless in a later
	// session and must not be carried over.
	a.SetPlayback(PlaybackPlaying, 1700000000000)

	s := a.ResumeSnapshot()
	if state, anchor := s.Playback(); state != "" || anchor != 0 {
		t.Fatalf("snapshot playback = %q, %d; want empty", state, anchor)
	}
}

func TestAttributes_Clone(t *testing.T) {
	t.Parallel()
	a := NewAttributes()
	a.SetCategory("videos")

	b := a.Clone()
	b.SetCategory("courses")

	if got, _ := a.Category(); got != "videos" {
		t.Errorf("mutating the clone changed the original: %q", got)
	}
}
