package dialog

import (
	"github.com/audiora/lectern/internal/content"
	"github.com/audiora/lectern/internal/store"
)

// Pagination constants. Both bound the cognitive load of a spoken list and
// are deliberately not configurable per request.
const (
	// MaxItems is the ceiling on how many results are ever surfaced for one
	// search, across all continuation turns. It matches the working-set
	// bound so every reachable index can be resolved from the store.
	MaxItems = store.MaxItems

	// PageSize is how many items a single continuation turn reveals.
	PageSize = 3
)

// Revealed pairs a working-set item with its 1-based spoken ordinal.
type Revealed struct {
	Ordinal int
	Item    content.Item
}

// Page is the outcome of one pagination continuation.
type Page struct {
	// Revealed lists the items surfaced this turn, in order. May be empty
	// when the working set is exhausted.
	Revealed []Revealed

	// NewIndex is the persisted position of the next unread item.
	NewIndex int

	// Done reports that the ceiling was reached and the list is finished.
	Done bool
}

// startList seeds the session working set from a fresh search result: each
// item is stored under its 0-based position and the index is set to the
// start of the list. Returns the first item for immediate narration, or
// ok = false for an empty result (in which case no index is set).
func startList(attrs store.Attributes, items []content.Item) (first content.Item, ok bool) {
	if len(items) == 0 {
		return content.Item{}, false
	}
	for i, it := range items {
		if i >= MaxItems {
			break
		}
		attrs.SetItem(i, it)
	}
	attrs.SetCurrentIndex(0)
	return items[0], true
}

// continuePagination reveals up to [PageSize] consecutive items starting at
// the current index, stopping early at the [MaxItems] ceiling or when a
// stored item is missing (treated as end-of-list). The new index is written
// back to attrs. Returns ok = false when no result list is active.
func continuePagination(attrs store.Attributes) (Page, bool) {
	idx, ok := attrs.CurrentIndex()
	if !ok {
		return Page{}, false
	}

	var page Page
	for i := 0; i < PageSize; i++ {
		if idx >= MaxItems {
			break
		}
		item, ok := attrs.Item(idx)
		if !ok {
			break
		}
		page.Revealed = append(page.Revealed, Revealed{Ordinal: idx + 1, Item: item})
		idx++
	}

	page.NewIndex = idx
	page.Done = idx >= MaxItems
	attrs.SetCurrentIndex(idx)
	return page, true
}
