// Package callback receives the OAuth broker redirect on a loopback listener.
package callback

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/franknunes1612/saralucasacademy-sub002/internal/logger"
	"github.com/franknunes1612/saralucasacademy-sub002/internal/model"
)

// Path is the route the broker redirects to.
const Path = "/callback"

var (
	ErrStateMismatch = errors.New("oauth state mismatch")
	ErrMissingToken  = errors.New("callback carried no access token")
)

// Outcome is the result of the first callback request.
type Outcome struct {
	UserID uuid.UUID
	Err    error
}

// Handler accepts exactly one callback for a login attempt.
type Handler struct {
	sessions model.SessionWriter
	recorder model.EventRecorder
	logger   *logger.Logger
	provider *model.AuthProvider
	state    string

	once    sync.Once
	outcome chan Outcome
}

// NewHandler expects a callback carrying state. provider may be nil.
func NewHandler(sessions model.SessionWriter, recorder model.EventRecorder, provider *model.AuthProvider, state string, logger *logger.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		recorder: recorder,
		logger:   logger,
		provider: provider,
		state:    state,
		outcome:  make(chan Outcome, 1),
	}
}

// Router returns the chi router serving the callback and health routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(NewLogging(h.logger).Handle)
	r.Get("/healthz", h.healthz)
	r.Get(Path, h.callback)
	return r
}

// Wait blocks until the first callback was handled or ctx ends.
func (h *Handler) Wait(ctx context.Context) (uuid.UUID, error) {
	select {
	case o := <-h.outcome:
		return o.UserID, o.Err
	case <-ctx.Done():
		return uuid.Nil, ctx.Err()
	}
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	callbackURL := Path

	h.record(ctx, model.AuthStageCallbackReceived, nil, map[string]any{
		"hasState": q.Has("state"),
		"hasToken": q.Has("access_token"),
		"hasError": q.Has("error"),
	}, callbackURL)

	if errCode := q.Get("error"); errCode != "" {
		msg := errCode
		if desc := q.Get("error_description"); desc != "" {
			msg = fmt.Sprintf("%s: %s", errCode, desc)
		}
		err := fmt.Errorf("provider returned error: %s", msg)
		h.record(ctx, model.AuthStageCallbackError, err, nil, callbackURL)
		h.fail(w, http.StatusBadRequest, "Sign-in was cancelled or failed. You can close this window.", err)
		return
	}

	if h.state != "" && q.Get("state") != h.state {
		h.record(ctx, model.AuthStageStateMismatch, ErrStateMismatch, nil, callbackURL)
		h.fail(w, http.StatusBadRequest, "Sign-in could not be verified. Please try again.", ErrStateMismatch)
		return
	}

	token := strings.TrimSpace(q.Get("access_token"))
	if token == "" {
		h.record(ctx, model.AuthStageSessionMissing, ErrMissingToken, nil, callbackURL)
		h.fail(w, http.StatusBadRequest, "Sign-in did not return a session. Please try again.", ErrMissingToken)
		return
	}

	userID, err := h.sessions.Save(ctx, token)
	if err != nil {
		h.record(ctx, model.AuthStageCallbackError, err, nil, callbackURL)
		h.fail(w, http.StatusUnauthorized, "Sign-in could not be completed. Please try again.", err)
		return
	}

	h.record(ctx, model.AuthStageSessionEstablished, nil, map[string]any{"userId": userID.String()}, callbackURL)
	h.logger.Info("Callback server: session established", "user_id", userID.String())

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Signed in. You can close this window."))
	h.deliver(Outcome{UserID: userID})
}

func (h *Handler) fail(w http.ResponseWriter, status int, message string, err error) {
	h.logger.Warn("Callback server: callback rejected", "error", err.Error())
	http.Error(w, message, status)
	h.deliver(Outcome{Err: err})
}

func (h *Handler) deliver(o Outcome) {
	h.once.Do(func() {
		h.outcome <- o
	})
}

func (h *Handler) record(ctx context.Context, stage model.AuthStage, err error, metadata map[string]any, url string) {
	if h.recorder == nil {
		return
	}
	details := model.AuthEventDetails{
		Provider: h.provider,
		Metadata: metadata,
		URL:      url,
	}
	if err != nil {
		details.Err = err
	}
	h.recorder.Record(ctx, stage, details)
}
