// Package mock provides a test double for the content.Provider interface.
//
// Use Provider to feed controlled search results and playback URLs to the
// dialog controller and to verify what was requested.
//
// Example:
//
//	p := &mock.Provider{
//	    SearchItems: []content.Item{{Title: "Go Basics", Slug: "go-basics"}},
//	    PlaybackURLResult: "https://stream.example.com/go-basics.mp4",
//	}
package mock

import (
	"context"
	"sync"

	"github.com/audiora/lectern/internal/content"
)

// SearchCall records a single invocation of Search.
type SearchCall struct {
	Category content.Category
	Keywords string
}

// PlaybackURLCall records a single invocation of PlaybackURL.
type PlaybackURLCall struct {
	Slug string
}

// Provider is a mock implementation of content.Provider.
type Provider struct {
	mu sync.Mutex

	// --- Configurable responses ---

	// SearchItems is returned from Search when SearchErr is nil.
	SearchItems []content.Item

	// SearchErr, if non-nil, is returned from Search.
	SearchErr error

	// PlaybackURLResult is returned from PlaybackURL when PlaybackURLErr is nil.
	PlaybackURLResult string

	// PlaybackURLErr, if non-nil, is returned from PlaybackURL.
	PlaybackURLErr error

	// --- Recorded calls ---

	SearchCalls      []SearchCall
	PlaybackURLCalls []PlaybackURLCall
}

// Compile-time interface check.
var _ content.Provider = (*Provider)(nil)

// Search implements content.Provider.
func (p *Provider) Search(_ context.Context, category content.Category, keywords string) ([]content.Item, error) {
	p.mu.Lock()
	p.SearchCalls = append(p.SearchCalls, SearchCall{Category: category, Keywords: keywords})
	p.mu.Unlock()
	if p.SearchErr != nil {
		return nil, p.SearchErr
	}
	return p.SearchItems, nil
}

// PlaybackURL implements content.Provider.
func (p *Provider) PlaybackURL(_ context.Context, slug string) (string, error) {
	p.mu.Lock()
	p.PlaybackURLCalls = append(p.PlaybackURLCalls, PlaybackURLCall{Slug: slug})
	p.mu.Unlock()
	if p.PlaybackURLErr != nil {
		return "", p.PlaybackURLErr
	}
	return p.PlaybackURLResult, nil
}
