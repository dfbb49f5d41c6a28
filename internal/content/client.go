package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/audiora/lectern/internal/observe"
	"github.com/audiora/lectern/internal/resilience"
)

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for API calls. The default is a
// plain [http.Client]; callers normally supply one with a timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBreaker sets the circuit breaker protecting search calls. The default
// breaker uses the package defaults of [resilience.NewCircuitBreaker].
func WithBreaker(cb *resilience.CircuitBreaker) Option {
	return func(c *Client) {
		c.breaker = cb
	}
}

// WithMetrics sets the instruments API call latency and failures are
// recorded on. Recording is skipped when unset.
func WithMetrics(m *observe.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// Client implements [Provider] against the LinkedIn Learning search API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *resilience.CircuitBreaker
	metrics    *observe.Metrics
}

// Compile-time interface check.
var _ Provider = (*Client)(nil)

// NewClient creates a Client rooted at baseURL
// (e.g., "https://www.linkedin.com/learning-api").
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("content: baseURL must not be empty")
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	if c.breaker == nil {
		c.breaker = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{Name: "content-search"})
	}
	return c, nil
}

// ---- Wire-format types ----
//
// The search endpoint wraps each hit in a hitInfo object whose single key
// depends on the entity type searched for. Unknown fields are ignored.

type searchResults struct {
	Elements []element `json:"elements"`
}

type element struct {
	HitInfo       *hitInfo       `json:"hitInfo,omitempty"`
	SelectedVideo *selectedVideo `json:"selectedVideo,omitempty"`
}

type hitInfo struct {
	SearchCourse       *searchCourse       `json:"com.linkedin.learning.api.search.SearchCourse,omitempty"`
	SearchVideo        *searchVideo        `json:"com.linkedin.learning.api.search.SearchVideo,omitempty"`
	SearchLearningPath *searchLearningPath `json:"com.linkedin.learning.api.search.SearchLearningPath,omitempty"`
}

type searchCourse struct {
	Course *wireContent `json:"course,omitempty"`
}

type searchVideo struct {
	Video *videoHit `json:"video,omitempty"`
}

type videoHit struct {
	Course *wireContent `json:"course,omitempty"`
}

type searchLearningPath struct {
	LearningPath *wireContent `json:"learningPath,omitempty"`
}

type wireContent struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type selectedVideo struct {
	URL *streamURL `json:"url,omitempty"`
}

type streamURL struct {
	ProgressiveURL string `json:"progressiveUrl"`
	StreamingURL   string `json:"streamingUrl"`
	ExpiresAt      int64  `json:"expiresAt"`
}

// Search implements [Provider.Search]. Calls are routed through the circuit
// breaker; when the breaker is open the error is returned without touching
// the network.
func (c *Client) Search(ctx context.Context, category Category, keywords string) ([]Item, error) {
	q := url.Values{}
	q.Set("q", "search")
	q.Set("entityType", string(category))
	q.Set("keywords", keywords)
	endpoint := c.baseURL + "/search?" + q.Encode()

	start := time.Now()
	var results searchResults
	err := c.breaker.Execute(func() error {
		return c.getJSON(ctx, endpoint, &results)
	})
	if c.metrics != nil {
		c.metrics.ContentSearchDuration.Record(ctx, time.Since(start).Seconds())
		if err != nil {
			c.metrics.RecordContentError(ctx, "search")
		}
	}
	if err != nil {
		return nil, fmt.Errorf("content: search: %w", err)
	}
	return summarize(&results, category), nil
}

// summarize flattens the per-category hit wrappers into [Item] values.
// Elements missing the expected wrapper are skipped.
func summarize(results *searchResults, category Category) []Item {
	items := make([]Item, 0, len(results.Elements))
	for _, el := range results.Elements {
		if el.HitInfo == nil {
			continue
		}
		var wc *wireContent
		switch category {
		case CategoryVideo:
			if el.HitInfo.SearchVideo != nil && el.HitInfo.SearchVideo.Video != nil {
				wc = el.HitInfo.SearchVideo.Video.Course
			}
		case CategoryLearningPath:
			if el.HitInfo.SearchLearningPath != nil {
				wc = el.HitInfo.SearchLearningPath.LearningPath
			}
		default:
			if el.HitInfo.SearchCourse != nil {
				wc = el.HitInfo.SearchCourse.Course
			}
		}
		if wc == nil || wc.Title == "" {
			continue
		}
		items = append(items, Item{Title: wc.Title, Slug: wc.Slug, Category: category})
	}
	return items
}

// PlaybackURL implements [Provider.PlaybackURL]. It resolves the slug via
// the detailedCourses endpoint and returns the progressive stream URL of the
// currently selected video.
func (c *Client) PlaybackURL(ctx context.Context, slug string) (string, error) {
	start := time.Now()
	u, err := c.playbackURL(ctx, slug)
	if c.metrics != nil {
		c.metrics.PlaybackURLDuration.Record(ctx, time.Since(start).Seconds())
		if err != nil {
			c.metrics.RecordContentError(ctx, "playback_url")
		}
	}
	return u, err
}

func (c *Client) playbackURL(ctx context.Context, slug string) (string, error) {
	q := url.Values{}
	q.Set("courseSlug", slug)
	q.Set("q", "slugs")
	endpoint := c.baseURL + "/detailedCourses?" + q.Encode()

	var results searchResults
	if err := c.getJSON(ctx, endpoint, &results); err != nil {
		return "", fmt.Errorf("content: playback url for %q: %w", slug, err)
	}
	if len(results.Elements) == 0 {
		return "", fmt.Errorf("content: playback url for %q: no elements in response", slug)
	}
	sv := results.Elements[0].SelectedVideo
	if sv == nil || sv.URL == nil || sv.URL.ProgressiveURL == "" {
		return "", fmt.Errorf("content: playback url for %q: no selected video stream", slug)
	}
	return sv.URL.ProgressiveURL, nil
}

// getJSON performs an authenticated GET and decodes the JSON body into v.
// The API accepts any matching CSRF cookie/header pair.
func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Cookie", "JSESSIONID=csrf")
	req.Header.Set("Csrf-Token", "csrf")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
