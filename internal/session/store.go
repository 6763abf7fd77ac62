// Package session provides the server-side session cache: a keyed,
// expiring mapping from user ID to a serialized identity payload. The
// cache TTL counts down independently of token expiry; both layers must
// be live for strict request authentication.
package session

import (
	"context"
	"time"

	"github.com/ctfe/ctfe/internal/model"
)

// DefaultTTL is the session lifetime applied when none is configured
const DefaultTTL = 1 * time.Hour

// Store is the session cache contract. The key is the user ID, so a
// second Put for the same user overwrites the prior session: concurrent
// sessions for one user are not supported.
type Store interface {
	// Put stores payload under the user's ID with a fresh TTL,
	// overwriting any existing entry.
	Put(ctx context.Context, id model.UserID, payload []byte, ttl time.Duration) error

	// Get returns the stored payload, or model.ErrSessionNotFound if
	// the entry is absent or expired. Backend faults are reported as
	// model.ErrBackendUnavailable, never conflated with absence.
	Get(ctx context.Context, id model.UserID) ([]byte, error)

	// Delete removes the user's session entry. Deleting an absent
	// entry is not an error.
	Delete(ctx context.Context, id model.UserID) error
}
