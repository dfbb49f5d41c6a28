// Package content defines the learning-content provider interface and its
// HTTP client implementation against the LinkedIn Learning search API.
package content

import "context"

// Category is the fixed set of content categories the search API accepts.
type Category string

const (
	CategoryCourse       Category = "COURSE"
	CategoryVideo        Category = "VIDEO"
	CategoryLearningPath Category = "LEARNING_PATH"
)

// IsValid reports whether c is a recognised category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryCourse, CategoryVideo, CategoryLearningPath:
		return true
	}
	return false
}

// Item is one piece of learning content returned by a search. The slug is
// the unique identifier used to fetch a playback URL later.
type Item struct {
	Title    string   `json:"title"`
	Slug     string   `json:"slug"`
	Category Category `json:"category"`
}

// Provider searches learning content and resolves playback URLs.
// Both operations are fallible network calls.
type Provider interface {
	// Search returns content items for the category, optionally narrowed by
	// a keyword string. Keywords may be empty. The result order is the API's
	// popularity order.
	Search(ctx context.Context, category Category, keywords string) ([]Item, error)

	// PlaybackURL returns a transient streaming URL for the item identified
	// by slug.
	PlaybackURL(ctx context.Context, slug string) (string, error)
}
