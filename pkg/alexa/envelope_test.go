package alexa

import (
	"encoding/json"
	"testing"
)

const intentEnvelopeJSON = `{
  "version": "1.0",
  "session": {
    "new": false,
    "sessionId": "amzn1.echo-api.session.abc",
    "application": {"applicationId": "amzn1.ask.skill.xyz"},
    "attributes": {"currentIndex": 3},
    "user": {"userId": "amzn1.ask.account.u1"}
  },
  "context": {
    "System": {
      "application": {"applicationId": "amzn1.ask.skill.xyz"},
      "user": {"userId": "amzn1.ask.account.u1"}
    }
  },
  "request": {
    "type": "IntentRequest",
    "requestId": "amzn1.echo-api.request.r1",
    "timestamp": "2024-06-01T12:00:00Z",
    "locale": "en-US",
    "intent": {
      "name": "TopSellers",
      "slots": {
        "Category": {"name": "Category", "value": "videos"}
      }
    }
  }
}`

func TestDecodeIntentEnvelope(t *testing.T) {
	t.Parallel()
	var env RequestEnvelope
	if err := json.Unmarshal([]byte(intentEnvelopeJSON), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if env.Request.Type != RequestTypeIntent {
		t.Errorf("type = %q", env.Request.Type)
	}
	if env.Request.Intent.Name != "TopSellers" {
		t.Errorf("intent = %q", env.Request.Intent.Name)
	}
	if got := env.Request.Intent.SlotValue("Category"); got != "videos" {
		t.Errorf("Category slot = %q", got)
	}
	if got := env.Request.Intent.SlotValue("Topic"); got != "" {
		t.Errorf("absent slot = %q, want empty", got)
	}
	if env.ApplicationID() != "amzn1.ask.skill.xyz" {
		t.Errorf("application id = %q", env.ApplicationID())
	}
	if env.SessionID() != "amzn1.echo-api.session.abc" {
		t.Errorf("session id = %q", env.SessionID())
	}
	if env.UserID() != "amzn1.ask.account.u1" {
		t.Errorf("user id = %q", env.UserID())
	}
}

// AudioPlayer callbacks arrive without a session block; identity falls back
// to the context system block.
func TestOutOfSessionFallbacks(t *testing.T) {
	t.Parallel()
	raw := `{
      "version": "1.0",
      "context": {
        "System": {
          "application": {"applicationId": "amzn1.ask.skill.xyz"},
          "user": {"userId": "amzn1.ask.account.u1"}
        }
      },
      "request": {
        "type": "AudioPlayer.PlaybackStopped",
        "requestId": "amzn1.echo-api.request.r2",
        "timestamp": "2024-06-01T12:05:00Z",
        "token": "tok-1",
        "offsetInMilliseconds": 42000
      }
    }`
	var env RequestEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if env.SessionID() != "" {
		t.Errorf("session id = %q, want empty", env.SessionID())
	}
	if env.ApplicationID() != "amzn1.ask.skill.xyz" {
		t.Errorf("application id = %q", env.ApplicationID())
	}
	if env.UserID() != "amzn1.ask.account.u1" {
		t.Errorf("user id = %q", env.UserID())
	}
	if env.Request.OffsetInMilliseconds != 42000 {
		t.Errorf("offset = %d", env.Request.OffsetInMilliseconds)
	}
}

func TestNilIntentSlotValue(t *testing.T) {
	t.Parallel()
	var i *Intent
	if got := i.SlotValue("Category"); got != "" {
		t.Errorf("nil intent slot = %q, want empty", got)
	}
}
