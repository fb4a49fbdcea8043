package kvstore

import "context"

// Store is a flat key-value surface for small serialized lists (reminders,
// bookmarks). Reads at startup, writes on every mutation; last writer wins.
// Injecting it keeps the owning services independent of the backing engine.
type Store interface {
	// Load returns the value under key, or nil when the key is absent.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save writes the value under key, replacing any previous value.
	Save(ctx context.Context, key string, value []byte) error

	// Keys lists all keys with the given prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
