package model

import (
	"context"

	"github.com/google/uuid"
)

// SessionKey is the local storage key of the current access token.
const SessionKey = "caloriespot_session"

// SessionResolver resolves the signed-in user. It returns ErrNoSession when nobody is signed in.
type SessionResolver interface {
	CurrentUserID(ctx context.Context) (uuid.UUID, error)
}

// SessionWriter stores and removes the local access token.
type SessionWriter interface {
	Save(ctx context.Context, token string) (uuid.UUID, error)
	Clear(ctx context.Context) error
}
