// Package skill provides the HTTP transport for the voice skill endpoint.
//
// The platform POSTs one request envelope per turn. The handler verifies the
// application ID, loads the session's attributes, hands the turn to the
// dialog controller, persists the mutated attributes, and writes the
// response envelope back.
package skill

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/metric"

	"github.com/audiora/lectern/internal/dialog"
	"github.com/audiora/lectern/internal/observe"
	"github.com/audiora/lectern/internal/store"
	"github.com/audiora/lectern/pkg/alexa"
)

// maxBodyBytes bounds the request body; platform envelopes are small.
const maxBodyBytes = 1 << 20

// Handler serves the skill endpoint.
type Handler struct {
	controller *dialog.Controller
	store      store.Store
	metrics    *observe.Metrics
	allowed    map[string]struct{}
}

// NewHandler creates a [Handler]. Requests whose application ID is not in
// appIDs are rejected; an empty appIDs list rejects everything.
func NewHandler(controller *dialog.Controller, st store.Store, m *observe.Metrics, appIDs []string) *Handler {
	allowed := make(map[string]struct{}, len(appIDs))
	for _, id := range appIDs {
		allowed[id] = struct{}{}
	}
	return &Handler{
		controller: controller,
		store:      st,
		metrics:    m,
		allowed:    allowed,
	}
}

// Register adds the skill routes to r.
func (h *Handler) Register(r chi.Router) {
	r.Post("/skill", h.HandleTurn)
}

// HandleTurn processes one turn: decode, authorize, load, dispatch, save,
// respond.
func (h *Handler) HandleTurn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	var env alexa.RequestEnvelope
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&env); err != nil {
		Error(w, http.StatusBadRequest, "malformed request envelope")
		return
	}

	if _, ok := h.allowed[env.ApplicationID()]; !ok {
		observe.Logger(ctx).Warn("rejected request for unknown application",
			"application_id", env.ApplicationID(),
		)
		Error(w, http.StatusForbidden, "unknown application")
		return
	}

	attrs := h.loadAttributes(ctx, &env)

	if env.Session != nil && env.Session.New {
		h.metrics.ActiveSessions.Add(ctx, 1)
	}
	if env.Request.Type == alexa.RequestTypeSessionEnded {
		h.metrics.ActiveSessions.Add(ctx, -1)
	}

	resp, err := h.controller.HandleEvent(ctx, &env, attrs)
	if err != nil {
		h.recordTurn(ctx, &env, "error", start)
		if errors.Is(err, dialog.ErrInvalidIntent) {
			Error(w, http.StatusBadRequest, "unsupported intent")
			return
		}
		observe.Logger(ctx).Error("turn failed", "err", err)
		Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.saveAttributes(ctx, &env, attrs)
	h.recordTurn(ctx, &env, "ok", start)

	JSON(w, http.StatusOK, alexa.ResponseEnvelope{
		Version:           "1.0",
		SessionAttributes: attrs,
		Response:          *resp,
	})
}

// loadAttributes resolves the working attribute map for this turn. The
// envelope's own session attributes win when present. On the first event of
// a session the working map starts empty and inherits only the durable
// resume snapshot from the store; a previous session's list and index must
// not leak into a new conversation. Out-of-session requests (AudioPlayer
// callbacks carry no session block) operate on the full stored state.
func (h *Handler) loadAttributes(ctx context.Context, env *alexa.RequestEnvelope) store.Attributes {
	if env.Session != nil {
		if len(env.Session.Attributes) > 0 {
			return store.Attributes(env.Session.Attributes)
		}
		return h.loadStored(ctx, env).ResumeSnapshot()
	}
	return h.loadStored(ctx, env)
}

// loadStored reads the durable attribute map for the envelope's user. A
// store failure degrades to an empty map so the turn can still proceed.
func (h *Handler) loadStored(ctx context.Context, env *alexa.RequestEnvelope) store.Attributes {
	id := sessionKey(env)
	if id == "" {
		return store.NewAttributes()
	}

	loadStart := time.Now()
	attrs, err := h.store.LoadAll(ctx, id)
	h.metrics.StoreDuration.Record(ctx, time.Since(loadStart).Seconds(),
		metric.WithAttributes(observe.Attr("op", "load")))
	if err != nil {
		observe.Logger(ctx).Error("attribute load failed", "session_id", id, "err", err)
		return store.NewAttributes()
	}
	return attrs
}

// saveAttributes persists the turn's attribute mutations. Failures are logged
// and swallowed: the envelope still echoes the attributes back, so an
// in-session continuation survives a store outage.
func (h *Handler) saveAttributes(ctx context.Context, env *alexa.RequestEnvelope, attrs store.Attributes) {
	id := sessionKey(env)
	if id == "" {
		return
	}

	saveStart := time.Now()
	err := h.store.SaveAll(ctx, id, attrs)
	h.metrics.StoreDuration.Record(ctx, time.Since(saveStart).Seconds(),
		metric.WithAttributes(observe.Attr("op", "save")))
	if err != nil {
		observe.Logger(ctx).Error("attribute save failed", "session_id", id, "err", err)
	}
}

// sessionKey is the durable identity attributes are stored under. The user ID
// is preferred so state survives across sessions; AudioPlayer callbacks
// arrive without a session block and only carry the user.
func sessionKey(env *alexa.RequestEnvelope) string {
	if id := env.UserID(); id != "" {
		return id
	}
	return env.SessionID()
}

func (h *Handler) recordTurn(ctx context.Context, env *alexa.RequestEnvelope, status string, start time.Time) {
	intent := env.Request.Type
	if env.Request.Intent != nil {
		intent = env.Request.Intent.Name
	}
	h.metrics.RecordTurn(ctx, intent, status, time.Since(start).Seconds())
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
