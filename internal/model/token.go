package model

import "github.com/google/uuid"

// TokenManager issues and validates session access tokens.
type TokenManager interface {
	GenerateAccessToken(userID uuid.UUID, email string) (string, error)
	ParseAccessToken(token string) (uuid.UUID, error)
}
