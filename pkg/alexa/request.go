// Package alexa declares the voice-platform request and response envelope
// types and helpers for building responses.
//
// The envelope is the JSON wire format the platform POSTs to the skill
// endpoint for every turn: a session block, a device/application context,
// and one request of a concrete type (launch, intent, session-ended, or an
// AudioPlayer lifecycle callback).
package alexa

import "time"

// Request type discriminators carried in [Request.Type].
const (
	RequestTypeLaunch                 = "LaunchRequest"
	RequestTypeIntent                 = "IntentRequest"
	RequestTypeSessionEnded           = "SessionEndedRequest"
	RequestTypePlaybackStarted        = "AudioPlayer.PlaybackStarted"
	RequestTypePlaybackStopped        = "AudioPlayer.PlaybackStopped"
	RequestTypePlaybackFinished       = "AudioPlayer.PlaybackFinished"
	RequestTypePlaybackNearlyFinished = "AudioPlayer.PlaybackNearlyFinished"
	RequestTypePlaybackFailed         = "AudioPlayer.PlaybackFailed"
)

// RequestEnvelope is the top-level JSON document delivered by the platform.
type RequestEnvelope struct {
	Version string   `json:"version"`
	Session *Session `json:"session,omitempty"`
	Context *Context `json:"context,omitempty"`
	Request Request  `json:"request"`
}

// Session identifies the conversation this turn belongs to. It is absent on
// out-of-session requests such as AudioPlayer callbacks.
type Session struct {
	New         bool           `json:"new"`
	SessionID   string         `json:"sessionId"`
	Application Application    `json:"application"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	User        User           `json:"user"`
}

// Context carries device and application information that is present even
// when no session is active.
type Context struct {
	System System `json:"System"`
}

// System is the device-side view of the application and user.
type System struct {
	Application Application `json:"application"`
	User        User        `json:"user"`
}

// Application identifies the skill the platform routed this request to.
type Application struct {
	ApplicationID string `json:"applicationId"`
}

// User identifies the account the request originates from.
type User struct {
	UserID string `json:"userId"`
}

// Request is the polymorphic request body. Which fields are populated
// depends on Type.
type Request struct {
	Type      string    `json:"type"`
	RequestID string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
	Locale    string    `json:"locale,omitempty"`

	// Intent is set when Type is [RequestTypeIntent].
	Intent *Intent `json:"intent,omitempty"`

	// Reason is set when Type is [RequestTypeSessionEnded].
	Reason string `json:"reason,omitempty"`

	// Token and OffsetInMilliseconds are set on AudioPlayer callbacks and
	// identify the stream the device reports about.
	Token                string `json:"token,omitempty"`
	OffsetInMilliseconds int64  `json:"offsetInMilliseconds,omitempty"`

	// Error is set when Type is [RequestTypePlaybackFailed].
	Error *RequestError `json:"error,omitempty"`
}

// RequestError describes a device-side playback failure.
type RequestError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Intent is a platform-classified user utterance with named slot values.
type Intent struct {
	Name  string          `json:"name"`
	Slots map[string]Slot `json:"slots,omitempty"`
}

// Slot is a single named value extracted from user speech. Value may be
// empty when the platform matched the slot but heard no usable phrase.
type Slot struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// SlotValue returns the value of the named slot, or "" when the intent has
// no such slot.
func (i *Intent) SlotValue(name string) string {
	if i == nil {
		return ""
	}
	return i.Slots[name].Value
}

// ApplicationID returns the application ID from the session when present,
// falling back to the context system block. Returns "" when neither is set.
func (e *RequestEnvelope) ApplicationID() string {
	if e.Session != nil && e.Session.Application.ApplicationID != "" {
		return e.Session.Application.ApplicationID
	}
	if e.Context != nil {
		return e.Context.System.Application.ApplicationID
	}
	return ""
}

// SessionID returns the session identifier, or "" for out-of-session
// requests.
func (e *RequestEnvelope) SessionID() string {
	if e.Session == nil {
		return ""
	}
	return e.Session.SessionID
}

// UserID returns the user identifier from the session or, failing that, the
// context system block.
func (e *RequestEnvelope) UserID() string {
	if e.Session != nil && e.Session.User.UserID != "" {
		return e.Session.User.UserID
	}
	if e.Context != nil {
		return e.Context.System.User.UserID
	}
	return ""
}
