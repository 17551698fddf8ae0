// Package httpapi contains the authenticated method-dispatch pipeline: it
// validates the method envelope, checks the caller's digest, selects the
// business method and shapes the HTTP response envelope.
package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/scorebridge/scoring-api/internal/app/auth"
	"github.com/scorebridge/scoring-api/internal/app/domain/request"
	"github.com/scorebridge/scoring-api/internal/app/scoring"
	"github.com/scorebridge/scoring-api/internal/app/storage"
	"github.com/scorebridge/scoring-api/internal/logging"
	"github.com/scorebridge/scoring-api/internal/metrics"
)

// Method names dispatched by the handler.
const (
	MethodOnlineScore      = "online_score"
	MethodClientsInterests = "clients_interests"
)

// StatusInvalid is the code for schema validation failures.
const StatusInvalid = http.StatusUnprocessableEntity

// statusText maps failure codes to their standard phrases, used when no
// more specific message is available.
var statusText = map[int]string{
	http.StatusBadRequest:          "Bad Request",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Not Found",
	http.StatusMethodNotAllowed:    "Method Not Allowed",
	StatusInvalid:                  "Invalid Request",
	http.StatusInternalServerError: "Internal Server Error",
}

const maxBodyBytes = 1 << 20

// Request is the raw inbound call: the JSON-decoded body plus the HTTP
// headers it arrived with.
type Request struct {
	Body    map[string]any
	Headers http.Header
}

// AuditContext accumulates per-call facts for logging and billing. It is
// call-local, written by the dispatcher and read by the boundary.
type AuditContext struct {
	RequestID string
	Method    string
	Has       []string
	NClients  int
}

// NewAuditContext creates an audit context for one call.
func NewAuditContext(requestID string) *AuditContext {
	return &AuditContext{RequestID: requestID}
}

// Fields renders the context for structured logging.
func (c *AuditContext) Fields() map[string]interface{} {
	fields := map[string]interface{}{"request_id": c.RequestID}
	if c.Method != "" {
		fields["method"] = c.Method
	}
	if c.Has != nil {
		fields["has"] = c.Has
	}
	if c.NClients > 0 {
		fields["nclients"] = c.NClients
	}
	return fields
}

// Options configures a Handler.
type Options struct {
	Salts  auth.Salts
	Store  storage.Store
	Logger *logging.Logger

	// AuditSink optionally persists audit entries beyond the in-memory ring.
	AuditSink AuditSink

	// Clock overrides the wall clock used by the auth check. Tests inject a
	// fixed time here.
	Clock func() time.Time
}

// Handler dispatches method calls. All state it holds is read-only after
// construction, so one Handler serves concurrent calls without locking.
type Handler struct {
	salts auth.Salts
	store storage.Store
	log   *logging.Logger
	audit *auditLog
	now   func() time.Time
}

// NewHandler creates a Handler with the given options.
func NewHandler(opts Options) *Handler {
	log := opts.Logger
	if log == nil {
		log = logging.NewDefault("httpapi")
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Handler{
		salts: opts.Salts,
		store: opts.Store,
		log:   log,
		audit: newAuditLog(0, opts.AuditSink),
		now:   now,
	}
}

// Method is the HTTP boundary for POST /method: it reads raw bytes, parses
// JSON, invokes the dispatcher and serializes the response envelope. A body
// that fails to parse is rejected with 400 before the envelope is
// attempted; a fault escaping the dispatcher surfaces as 500 with no
// internal detail leaked.
func (h *Handler) Method(w http.ResponseWriter, r *http.Request) {
	requestID := logging.GetRequestID(r.Context())
	if requestID == "" {
		requestID = logging.NewRequestID()
	}
	actx := NewAuditContext(requestID)

	var response any
	var code int

	raw, parseErr := decodeBody(r)
	if parseErr != nil {
		h.log.WithContext(r.Context()).WithError(parseErr).Error("failed to read request body")
		code = http.StatusBadRequest
	} else {
		response, code = h.dispatch(r.Context(), Request{Body: raw, Headers: r.Header}, actx)
	}

	writeEnvelope(w, response, code)

	metrics.RecordMethodCall(actx.Method, code)
	h.audit.add(auditEntry{
		Time:       time.Now().UTC(),
		RequestID:  actx.RequestID,
		Method:     actx.Method,
		Code:       code,
		Filled:     actx.Has,
		NClients:   actx.NClients,
		RemoteAddr: r.RemoteAddr,
	})
	h.log.WithContext(r.Context()).WithFields(actx.Fields()).WithFields(map[string]interface{}{
		"code": code,
	}).Info("method call handled")
}

// dispatch wraps MethodHandler with panic recovery so collaborator faults
// become a plain 500.
func (h *Handler) dispatch(ctx context.Context, req Request, actx *AuditContext) (response any, code int) {
	defer func() {
		if rec := recover(); rec != nil {
			h.log.WithFields(actx.Fields()).Errorf("unexpected error: %v", rec)
			response, code = nil, http.StatusInternalServerError
		}
	}()
	return h.MethodHandler(ctx, req, actx, h.store)
}

// MethodHandler runs the dispatch pipeline on a decoded call: envelope
// validation, authentication, method selection, payload validation,
// execution. Every terminal state is final; nothing is retried. The store
// handle is passed through to the collaborators unopened.
func (h *Handler) MethodHandler(ctx context.Context, req Request, actx *AuditContext, store storage.Store) (any, int) {
	if len(req.Body) == 0 {
		return nil, StatusInvalid
	}

	env, err := request.ParseMethod(req.Body)
	if err != nil {
		metrics.RecordValidationFailure("method")
		return err.Error(), StatusInvalid
	}
	actx.Method = env.Method

	if !auth.Check(env, h.salts, h.now()) {
		h.log.WithFields(actx.Fields()).Warnf("authentication failed for login %q", env.Login)
		return nil, http.StatusForbidden
	}

	switch env.Method {
	case MethodOnlineScore:
		return h.onlineScore(ctx, env, actx, store)
	case MethodClientsInterests:
		return h.clientsInterests(ctx, env, actx, store)
	default:
		h.log.WithFields(actx.Fields()).Errorf("invalid request method %q", env.Method)
		return nil, http.StatusBadRequest
	}
}

func (h *Handler) onlineScore(ctx context.Context, env request.MethodRequest, actx *AuditContext, store storage.Store) (any, int) {
	payload, err := request.ParseOnlineScore(env.Arguments)
	if err != nil {
		metrics.RecordValidationFailure(MethodOnlineScore)
		return err.Error(), StatusInvalid
	}

	// Admin callers get a fixed score; the scoring collaborator is never
	// invoked and the pair rule does not apply.
	if env.IsAdmin() {
		actx.Has = payload.FilledFields()
		return map[string]any{"score": 42}, http.StatusOK
	}

	if err := payload.ValidatePairs(); err != nil {
		metrics.RecordValidationFailure(MethodOnlineScore)
		return err.Error(), StatusInvalid
	}

	score := scoring.Score(ctx, store, payload.Phone, payload.Email, payload.FirstName, payload.LastName, payload.Birthday, payload.Gender)
	actx.Has = payload.FilledFields()
	return map[string]any{"score": score}, http.StatusOK
}

func (h *Handler) clientsInterests(ctx context.Context, env request.MethodRequest, actx *AuditContext, store storage.Store) (any, int) {
	payload, err := request.ParseClientsInterests(env.Arguments)
	if err != nil {
		metrics.RecordValidationFailure(MethodClientsInterests)
		return err.Error(), StatusInvalid
	}

	interests := make(map[int64][]string, len(payload.ClientIDs))
	for _, id := range payload.ClientIDs {
		list, err := scoring.Interests(ctx, store, id)
		if err != nil {
			h.log.WithFields(actx.Fields()).WithError(err).Error("interests lookup failed")
			return nil, http.StatusInternalServerError
		}
		interests[id] = list
	}

	actx.NClients = len(payload.ClientIDs)
	return interests, http.StatusOK
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "scoring-api",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// AuditLog returns the recent audit entries.
func (h *Handler) AuditLog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.audit.list())
}

// RecentAudit exposes the audit ring for inspection.
func (h *Handler) RecentAudit() []auditEntry {
	return h.audit.list()
}

// NotFound writes the 404 response envelope; mount it as the router's
// NotFoundHandler.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeEnvelope(w, nil, http.StatusNotFound)
}

// MethodNotAllowed writes the 405 response envelope.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeEnvelope(w, nil, http.StatusMethodNotAllowed)
}

func decodeBody(r *http.Request) (map[string]any, error) {
	defer r.Body.Close()
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// writeEnvelope shapes the response contract: {"response": ..., "code": 200}
// on success, {"error": <message or standard phrase>, "code": <code>} on
// failure.
func writeEnvelope(w http.ResponseWriter, response any, code int) {
	phrase, failed := statusText[code]
	if !failed {
		writeJSON(w, code, map[string]any{"response": response, "code": code})
		return
	}
	if response == nil || response == "" {
		response = phrase
	}
	writeJSON(w, code, map[string]any{"error": response, "code": code})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
