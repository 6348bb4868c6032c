package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/franknunes1612/saralucasacademy-sub002/internal/model"
)

var _ model.AuthEventStore = (*AuthEventRepository)(nil)

type AuthEventRepository struct {
	db *Connection
}

func NewAuthEventRepository(db *Connection) *AuthEventRepository {
	return &AuthEventRepository{db: db}
}

func (r *AuthEventRepository) Insert(ctx context.Context, event model.AuthDebugEvent) error {
	if r.db == nil || r.db.Pool == nil {
		return fmt.Errorf("auth event repository has no connection")
	}

	const query = `
        INSERT INTO auth_debug_events (
            id, stage, provider, url, user_agent, error_message, metadata, user_id, created_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    `

	metadata, err := encodeMetadata(event.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode auth event metadata: %w", err)
	}

	_, err = r.db.Exec(ctx, query,
		event.ID, string(event.Stage), providerString(event.Provider), event.URL, event.UserAgent,
		event.ErrorMessage, metadata, event.UserID, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert auth event: %w", err)
	}
	return nil
}

// ListRecent returns up to limit events, newest first. Callers without the admin role get no rows.
func (r *AuthEventRepository) ListRecent(ctx context.Context, limit int) ([]model.AuthDebugEvent, error) {
	if r.db == nil || r.db.Pool == nil {
		return nil, fmt.Errorf("auth event repository has no connection")
	}

	const query = `
        SELECT id, stage, provider, url, user_agent, error_message, metadata, user_id, created_at
        FROM auth_debug_events
        ORDER BY created_at DESC
        LIMIT $1
    `

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list auth events: %w", err)
	}
	defer rows.Close()

	var events []model.AuthDebugEvent
	for rows.Next() {
		var (
			event    model.AuthDebugEvent
			stage    string
			provider *string
			metadata []byte
		)
		err := rows.Scan(
			&event.ID, &stage, &provider, &event.URL, &event.UserAgent,
			&event.ErrorMessage, &metadata, &event.UserID, &event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan auth event: %w", err)
		}

		event.Stage = model.AuthStage(stage)
		if provider != nil {
			event.Provider = model.ParseAuthProvider(*provider)
		}
		event.Metadata, err = decodeMetadata(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to decode auth event metadata: %w", err)
		}

		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate auth events: %w", err)
	}

	return events, nil
}

func providerString(p *model.AuthProvider) *string {
	if p == nil {
		return nil
	}
	s := string(*p)
	return &s
}

// encodeMetadata returns nil for empty metadata so the column stays NULL.
func encodeMetadata(m map[string]any) ([]byte, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}

func decodeMetadata(b []byte) (map[string]any, error) {
	if len(b) == 0 || string(b) == "null" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}
