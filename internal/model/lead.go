package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	// LeadSubmittedKey is the local storage key of the "already submitted" flag.
	LeadSubmittedKey = "caloriespot_lead_submitted"

	// DefaultLeadSource tags leads captured by the lead magnet form.
	DefaultLeadSource = "lead_magnet"
)

// Lead is a captured marketing email.
type Lead struct {
	ID        uuid.UUID
	Email     string
	Source    string
	CreatedAt time.Time
}

// LeadStore persists leads keyed by email.
type LeadStore interface {
	Upsert(ctx context.Context, lead Lead) (Lead, error)
}
