package model

import "context"

// PreferenceStore is durable local key/value storage.
// Get reports found=false with a nil error when the key is absent.
type PreferenceStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
