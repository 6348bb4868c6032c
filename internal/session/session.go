// Package session resolves the signed-in user from the locally stored access token.
package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/franknunes1612/saralucasacademy-sub002/internal/model"
)

var (
	_ model.SessionResolver = (*Resolver)(nil)
	_ model.SessionWriter   = (*Resolver)(nil)
)

type Resolver struct {
	store  model.PreferenceStore
	tokens model.TokenManager
}

func NewResolver(store model.PreferenceStore, tokens model.TokenManager) *Resolver {
	return &Resolver{store: store, tokens: tokens}
}

// CurrentUserID returns model.ErrNoSession when no token is stored.
func (r *Resolver) CurrentUserID(ctx context.Context) (uuid.UUID, error) {
	if userID, ok := UserIDFromContext(ctx); ok {
		return userID, nil
	}

	token, err := r.AccessToken(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	userID, err := r.tokens.ParseAccessToken(token)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	return userID, nil
}

// AccessToken returns the raw stored token.
func (r *Resolver) AccessToken(ctx context.Context) (string, error) {
	token, found, err := r.store.Get(ctx, model.SessionKey)
	if err != nil {
		return "", fmt.Errorf("failed to read session: %w", err)
	}
	token = strings.TrimSpace(token)
	if !found || token == "" {
		return "", model.ErrNoSession
	}
	return token, nil
}

// Save validates and stores a new access token, returning its user ID.
func (r *Resolver) Save(ctx context.Context, token string) (uuid.UUID, error) {
	userID, err := r.tokens.ParseAccessToken(token)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to validate session token: %w", err)
	}
	if err := r.store.Set(ctx, model.SessionKey, token); err != nil {
		return uuid.Nil, fmt.Errorf("failed to store session: %w", err)
	}
	return userID, nil
}

func (r *Resolver) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, model.SessionKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
