// Package storage provides the durable local key-value persistence the
// stores use to survive restarts. Each store owns its key and is the only
// writer for it; a value is read once when the owning store is constructed.
package storage

import (
	"context"

	"github.com/superdupermart/storefront/internal/domain/shared"
)

// Well-known keys. One owning store per key.
const (
	KeyUser          = "user"
	KeyCart          = "cart"
	KeyChatSessionID = "chatSessionId"
)

// ErrKeyNotFound is returned by Get when the key has no persisted value
var ErrKeyNotFound = shared.NewDomainError("KEY_NOT_FOUND", "No value persisted for key")

// Store is opaque durable key-value persistence
type Store interface {
	// Get returns the persisted value, or ErrKeyNotFound
	Get(ctx context.Context, key string) ([]byte, error)
	// Set persists the value, replacing any previous one
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the value; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error
	// Close releases any underlying resources
	Close() error
}
