package session

import (
	"context"
	"errors"
)

// Store keeps server-side session state keyed by an opaque session id. The
// session record is the sole source of truth for "who is logged in"; clients
// only ever hold the id.
type Store interface {
	Create(ctx context.Context, userID int64) (string, error)
	Get(ctx context.Context, sessionID string) (int64, error)
	Destroy(ctx context.Context, sessionID string) error
}

var ErrNoSession = errors.New("session does not exist")
