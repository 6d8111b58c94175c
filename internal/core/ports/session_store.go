package ports

import "context"

// SessionStore is the client-side key/value storage backing the session.
// Each call is a single atomic operation: Save writes every pair or none,
// Remove deletes every key or none.
type SessionStore interface {
	// Load returns the stored values for keys. Missing keys are absent from
	// the result; that is not an error.
	Load(ctx context.Context, keys ...string) (map[string]string, error)
	Save(ctx context.Context, values map[string]string) error
	// Remove deletes keys. Removing keys that do not exist is a no-op.
	Remove(ctx context.Context, keys ...string) error
}
