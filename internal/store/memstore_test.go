package store

import (
	"context"
	"testing"

	"github.com/audiora/lectern/internal/content"
)

func TestMemStore_LoadUnknownSession(t *testing.T) {
	t.Parallel()
	s := NewMemStore()

	attrs, err := s.LoadAll(context.Background(), "nope")
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if attrs == nil || len(attrs) != 0 {
		t.Fatalf("attrs = %v, want empty non-nil map", attrs)
	}
}

func TestMemStore_SaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	s := NewMemStore()
	ctx := context.Background()

	attrs := NewAttributes()
	attrs.SetCurrentIndex(4)
	attrs.SetCategory("learning paths")
	attrs.SetItem(0, content.Item{Title: "Become a Gopher", Slug: "become-a-gopher", Category: content.CategoryLearningPath})

	if err := s.SaveAll(ctx, "sess-1", attrs); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	got, err := s.LoadAll(ctx, "sess-1")
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if idx, _ := got.CurrentIndex(); idx != 4 {
		t.Errorf("CurrentIndex = %d, want 4", idx)
	}
	if it, ok := got.Item(0); !ok || it.Slug != "become-a-gopher" {
		t.Errorf("Item(0) = %+v, %v", it, ok)
	}
}

func TestMemStore_SaveCopies(t *testing.T) {
	t.Parallel()
	s := NewMemStore()
	ctx := context.Background()

	attrs := NewAttributes()
	attrs.SetCategory("courses")
	if err := s.SaveAll(ctx, "sess-1", attrs); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	// Mutating the caller's map after save must not leak into the store.
	attrs.SetCategory("videos")
	got, _ := s.LoadAll(ctx, "sess-1")
	if cat, _ := got.Category(); cat != "courses" {
		t.Errorf("Category = %q, want courses", cat)
	}
}
