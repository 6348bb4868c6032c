package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuthStage names an instrumented point of the OAuth flow.
type AuthStage string

const (
	AuthStageButtonClicked      AuthStage = "button_clicked"
	AuthStageInitiateURLBuilt   AuthStage = "initiate_url_built"
	AuthStageRedirecting        AuthStage = "redirecting"
	AuthStageCallbackReceived   AuthStage = "callback_received"
	AuthStageCallbackError      AuthStage = "callback_error"
	AuthStageStateMismatch      AuthStage = "state_mismatch"
	AuthStageSessionCheck       AuthStage = "session_check"
	AuthStageSessionEstablished AuthStage = "session_established"
	AuthStageSessionMissing     AuthStage = "session_missing"
	AuthStageSignOut            AuthStage = "sign_out"
	AuthStageUnexpectedError    AuthStage = "unexpected_error"
)

var authStages = []AuthStage{
	AuthStageButtonClicked,
	AuthStageInitiateURLBuilt,
	AuthStageRedirecting,
	AuthStageCallbackReceived,
	AuthStageCallbackError,
	AuthStageStateMismatch,
	AuthStageSessionCheck,
	AuthStageSessionEstablished,
	AuthStageSessionMissing,
	AuthStageSignOut,
	AuthStageUnexpectedError,
}

// AuthStages returns every known stage in flow order.
func AuthStages() []AuthStage {
	out := make([]AuthStage, len(authStages))
	copy(out, authStages)
	return out
}

// Valid reports whether s is one of the known stages.
func (s AuthStage) Valid() bool {
	for _, known := range authStages {
		if s == known {
			return true
		}
	}
	return false
}

// AuthProvider is an OAuth identity provider.
type AuthProvider string

const (
	AuthProviderGoogle AuthProvider = "google"
	AuthProviderApple  AuthProvider = "apple"
)

// ParseAuthProvider returns nil for unknown providers.
func ParseAuthProvider(s string) *AuthProvider {
	switch p := AuthProvider(s); p {
	case AuthProviderGoogle, AuthProviderApple:
		return &p
	default:
		return nil
	}
}

// AuthDebugEvent is one diagnostic breadcrumb of an OAuth flow.
type AuthDebugEvent struct {
	ID           uuid.UUID
	Stage        AuthStage
	Provider     *AuthProvider
	URL          *string
	UserAgent    *string
	ErrorMessage *string
	Metadata     map[string]any
	UserID       *uuid.UUID
	CreatedAt    time.Time
}

// AuthEventStore appends auth debug events. Rows are never updated or deleted.
type AuthEventStore interface {
	Insert(ctx context.Context, event AuthDebugEvent) error
	ListRecent(ctx context.Context, limit int) ([]AuthDebugEvent, error)
}

// AuthEventDetails are the optional parts of a recorded event.
type AuthEventDetails struct {
	Provider *AuthProvider
	Err      any
	Metadata map[string]any
	URL      string
}

// EventRecorder records auth debug events. Implementations never fail and never block the caller.
type EventRecorder interface {
	Record(ctx context.Context, stage AuthStage, details AuthEventDetails)
}
