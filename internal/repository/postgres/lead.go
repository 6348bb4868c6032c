package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/franknunes1612/saralucasacademy-sub002/internal/model"
)

var _ model.LeadStore = (*LeadRepository)(nil)

type LeadRepository struct {
	db *Connection
}

func NewLeadRepository(db *Connection) *LeadRepository {
	return &LeadRepository{
		db: db,
	}
}

// Upsert inserts the lead or, when the email is already known, refreshes its source.
// The original id and created_at of an existing row are kept.
func (r *LeadRepository) Upsert(ctx context.Context, lead model.Lead) (model.Lead, error) {
	if r.db == nil || r.db.Pool == nil {
		return model.Lead{}, fmt.Errorf("lead repository has no connection")
	}

	// upsert_lead runs as the table owner; callers hold no privileges on leads itself.
	query := `SELECT id, email, source, created_at FROM upsert_lead($1, $2, $3, $4)`

	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}

	var saved model.Lead
	err := r.db.QueryRow(ctx, query, lead.ID, lead.Email, lead.Source, lead.CreatedAt).Scan(
		&saved.ID, &saved.Email, &saved.Source, &saved.CreatedAt,
	)
	if err != nil {
		return model.Lead{}, fmt.Errorf("failed to upsert lead: %w", err)
	}

	return saved, nil
}
