package dialog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/audiora/lectern/internal/content"
	"github.com/audiora/lectern/internal/store"
	"github.com/audiora/lectern/pkg/alexa"
)

// Intent names delivered by the platform.
const (
	IntentSearchByCategory = "TopSellers"
	IntentSearchByKeyword  = "TeachMe"
	IntentHearMore         = "HearMore"
	IntentDontHearMore     = "DontHearMore"
	IntentHelp             = "AMAZON.HelpIntent"
	IntentStop             = "AMAZON.StopIntent"
	IntentCancel           = "AMAZON.CancelIntent"
	IntentPause            = "AMAZON.PauseIntent"
	IntentResume           = "AMAZON.ResumeIntent"
)

// Slot names.
const (
	slotCategory = "Category"
	slotTopic    = "Topic"
	slotSoftware = "Software"
)

// Dialog states persisted across turns. The tag is authoritative; field
// presence checks remain only as degradation guards for attribute maps
// written before the tag existed.
const (
	StateIdle             = ""
	StateAwaitingCategory = "awaiting_category"
	StateListActive       = "list_active"
	StatePlaybackActive   = "playback_active"
)

// ErrInvalidIntent is returned for intent names the controller does not
// know. It is the one hard failure the controller raises itself; the
// transport layer surfaces it to the platform as an error.
var ErrInvalidIntent = errors.New("invalid intent")

// Controller is the top-level per-turn state machine. It receives one
// inbound event at a time and produces one outbound response, accumulating
// all session mutations in the attribute map the caller passes in. The
// caller persists the map once at turn end.
type Controller struct {
	provider content.Provider
	tracker  *Tracker
}

// NewController creates a [Controller] that searches through provider and
// manages playback through tracker.
func NewController(provider content.Provider, tracker *Tracker) *Controller {
	return &Controller{provider: provider, tracker: tracker}
}

// HandleEvent dispatches one inbound event. The returned response is never
// nil on a nil error. Collaborator I/O failures are recovered into
// user-facing responses; only an unrecognised intent propagates as an
// error.
func (c *Controller) HandleEvent(ctx context.Context, env *alexa.RequestEnvelope, attrs store.Attributes) (*alexa.Response, error) {
	switch env.Request.Type {
	case alexa.RequestTypeLaunch:
		return c.onLaunch(attrs), nil

	case alexa.RequestTypeIntent:
		return c.onIntent(ctx, env.Request.Intent, attrs)

	case alexa.RequestTypeSessionEnded:
		slog.Info("session ended",
			"session_id", env.SessionID(),
			"reason", env.Request.Reason,
		)
		return &alexa.Response{}, nil

	case alexa.RequestTypePlaybackFailed:
		msg := ""
		if env.Request.Error != nil {
			msg = env.Request.Error.Message
		}
		slog.Warn("device reported playback failure",
			"token", env.Request.Token,
			"message", msg,
		)
		return &alexa.Response{}, nil

	case alexa.RequestTypePlaybackStarted,
		alexa.RequestTypePlaybackStopped,
		alexa.RequestTypePlaybackFinished,
		alexa.RequestTypePlaybackNearlyFinished:
		slog.Debug("playback lifecycle callback",
			"type", env.Request.Type,
			"token", env.Request.Token,
			"offset_ms", env.Request.OffsetInMilliseconds,
		)
		return &alexa.Response{}, nil

	default:
		slog.Warn("ignoring unknown request type", "type", env.Request.Type)
		return &alexa.Response{}, nil
	}
}

func (c *Controller) onIntent(ctx context.Context, intent *alexa.Intent, attrs store.Attributes) (*alexa.Response, error) {
	name := ""
	if intent != nil {
		name = intent.Name
	}

	switch name {
	case IntentSearchByCategory:
		return c.searchByCategory(ctx, intent, attrs), nil
	case IntentSearchByKeyword:
		return c.searchByKeyword(ctx, intent, attrs), nil
	case IntentHearMore:
		return c.continueList(ctx, attrs), nil
	case IntentResume:
		return c.resume(ctx, attrs), nil
	case IntentPause:
		return c.pause(attrs), nil
	case IntentDontHearMore:
		return &alexa.Response{ShouldEndSession: true}, nil
	case IntentHelp:
		return newAskResponse(helpSpeech, false, ssmlWrap(helpReprompt), true), nil
	case IntentStop, IntentCancel:
		return c.stop(attrs), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidIntent, name)
	}
}

// onLaunch greets the user and asks for a category. No content is fetched
// on the launch turn.
func (c *Controller) onLaunch(attrs store.Attributes) *alexa.Response {
	attrs.SetDialogState(StateAwaitingCategory)
	return newAskResponse(welcomeSpeech, false, ssmlWrap(categoryReprompt), true)
}

// searchByCategory fetches the popular content for the category slot and
// starts a paginated list.
func (c *Controller) searchByCategory(ctx context.Context, intent *alexa.Intent, attrs store.Attributes) *alexa.Response {
	// Mid-list reentry: the user asked for a new search while a list is
	// active. Treat it as a continuation prompt instead of double-fetching.
	if _, active := attrs.CurrentIndex(); active {
		return newAskResponse(hearMoreSpeech, false, hearMoreReprompt, false)
	}

	rawCategory := intent.SlotValue(slotCategory)
	category := ResolveCategory(rawCategory)
	label := displayLabel(rawCategory)

	items, err := c.provider.Search(ctx, category, "")
	if err != nil {
		slog.Error("content search failed", "category", category, "err", err)
		return apologyResponse(label, "")
	}

	first, ok := startList(attrs, items)
	if !ok {
		return apologyResponse(label, "")
	}
	attrs.SetCategory(label)
	attrs.SetDialogState(StateListActive)

	speech := fmt.Sprintf("Here are the popular in %s. The most popular is: %s.  Would you like to hear the rest?", label, first.Title)
	resp := newAskResponse(ssmlWrap(speech), true, hearRestReprompt, false)
	resp.Card = alexa.SimpleCard("Popular in "+label, enumerate(items))
	return resp
}

// searchByKeyword behaves like searchByCategory but narrows the search with
// a keyword phrase taken from the Topic slot, falling back to Software.
func (c *Controller) searchByKeyword(ctx context.Context, intent *alexa.Intent, attrs store.Attributes) *alexa.Response {
	if _, active := attrs.CurrentIndex(); active {
		return newAskResponse(hearMoreSpeech, false, hearMoreReprompt, false)
	}

	rawCategory := intent.SlotValue(slotCategory)
	category := ResolveCategory(rawCategory)
	label := displayLabel(rawCategory)

	keywords := intent.SlotValue(slotTopic)
	if keywords == "" {
		keywords = intent.SlotValue(slotSoftware)
	}

	items, err := c.provider.Search(ctx, category, keywords)
	if err != nil {
		slog.Error("content search failed",
			"category", category,
			"keywords", keywords,
			"err", err,
		)
		return apologyResponse(label, keywords)
	}

	first, ok := startList(attrs, items)
	if !ok {
		return apologyResponse(label, keywords)
	}
	attrs.SetCategory(label)
	attrs.SetDialogState(StateListActive)

	speech := fmt.Sprintf("Here are the %s about %s. The most popular is: %s.  Would you like to hear the rest?", label, keywords, first.Title)
	resp := newAskResponse(ssmlWrap(speech), true, hearRestReprompt, false)
	resp.Card = alexa.SimpleCard(fmt.Sprintf("Popular %s about %s", label, keywords), enumerate(items))
	return resp
}

// continueList reveals the next page of the active list and starts playback
// of the currently-targeted item. Speech may narrate several items per turn
// but only one item's audio plays.
func (c *Controller) continueList(ctx context.Context, attrs store.Attributes) *alexa.Response {
	page, active := continuePagination(attrs)
	if !active {
		// The user asked for more without an active list.
		return newAskResponse(chooseCategorySpeech, false, ssmlWrap(categoryReprompt), true)
	}

	label, _ := attrs.Category()
	var sb strings.Builder
	for _, r := range page.Revealed {
		if r.Ordinal < MaxItems {
			fmt.Fprintf(&sb, `<say-as interpret-as="ordinal">%d</say-as>. %s. `, r.Ordinal, r.Item.Title)
		} else {
			fmt.Fprintf(&sb, `And the <say-as interpret-as="ordinal">%d</say-as> most popular content is. %s. Those were the %d most popular in Linked In Learning %s content`,
				r.Ordinal, r.Item.Title, MaxItems, label)
		}
	}

	var directives []alexa.Directive
	if len(page.Revealed) > 0 {
		directives = c.tracker.Play(ctx, attrs, page.Revealed[0].Item)
	}
	if len(directives) > 0 {
		// Ordinals are 1-based; record the working-set index of the item
		// whose stream just started so a later resume can re-target it.
		attrs.SetLastPlayedIndex(page.Revealed[0].Ordinal - 1)
		attrs.SetDialogState(StatePlaybackActive)
	} else {
		attrs.SetDialogState(StateListActive)
	}

	if page.Done {
		resp := newTellResponse(ssmlWrap(sb.String()), true)
		resp.Directives = directives
		return resp
	}

	sb.WriteString(" Would you like to hear more?")
	resp := newAskResponse(ssmlWrap(sb.String()), true, continueReprompt, false)
	resp.Directives = directives
	return resp
}

// pause hands the turn to the tracker. The response carries no speech; a
// pause should silence the device, not talk over it.
func (c *Controller) pause(attrs store.Attributes) *alexa.Response {
	return &alexa.Response{
		Directives:       c.tracker.Pause(attrs),
		ShouldEndSession: true,
	}
}

// resume re-targets the item whose stream was paused and replays it through
// the continuation path. Continuation advances the pagination index by a full
// page after each play, so the index is rewound to the recorded position of
// the played item, not merely stepped back.
func (c *Controller) resume(ctx context.Context, attrs store.Attributes) *alexa.Response {
	idx, active := attrs.CurrentIndex()
	if !active {
		return newAskResponse(chooseCategorySpeech, false, ssmlWrap(categoryReprompt), true)
	}
	if played, ok := attrs.LastPlayedIndex(); ok && played < idx {
		attrs.SetCurrentIndex(played)
	} else if idx > 0 {
		attrs.SetCurrentIndex(idx - 1)
	}
	return c.continueList(ctx, attrs)
}

// stop says goodbye and clears the device queue if a stream was ever
// started in this session.
func (c *Controller) stop(attrs store.Attributes) *alexa.Response {
	resp := newTellResponse(goodbyeSpeech, false)
	resp.Directives = c.tracker.Stop(attrs)
	return resp
}

// apologyResponse is the terminal response for an empty or failed search.
func apologyResponse(label, keywords string) *alexa.Response {
	var speech string
	if keywords != "" {
		speech = fmt.Sprintf("I'm sorry, I cannot get the %s for %s at this time. Please try again later. Goodbye.", label, keywords)
	} else {
		speech = fmt.Sprintf("I'm sorry, I cannot get the popular in %s at this time. Please try again later. Goodbye.", label)
	}
	return newTellResponse(ssmlWrap(speech), true)
}

// enumerate renders the card body: every result on one line, 1-based.
func enumerate(items []content.Item) string {
	var sb strings.Builder
	for i, it := range items {
		fmt.Fprintf(&sb, "%d. %s.", i+1, it.Title)
	}
	return sb.String()
}
